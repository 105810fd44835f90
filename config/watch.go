package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"

	"ActivityAdmin/logger"
)

// WatchEnvFile calls onChange with the parsed contents of path every time the file is
// written or replaced, until ctx is done. The parent directory is watched because
// editors usually replace the file instead of writing it in place.
func WatchEnvFile(ctx context.Context, path string, onChange func(map[string]string)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				values, err := godotenv.Read(abs)
				if err != nil {
					logger.Warn("failed to re-read env file", logger.String("path", abs), logger.ErrorField(err))
					continue
				}
				onChange(values)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("env watcher error", logger.ErrorField(err))
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// ApplyLogLevel is an onChange callback that pushes LOG_LEVEL into the running logger.
func ApplyLogLevel(values map[string]string) {
	level, ok := values["LOG_LEVEL"]
	if !ok {
		return
	}
	logger.SetLevel(logger.LogLevel(level))
	logger.Info("log level reloaded", logger.String("level", level))
}
