package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ActivityAdmin/config"
	"ActivityAdmin/logger"
	"ActivityAdmin/server"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动后台管理服务",
	Long:  `启动后台管理HTTP服务，提供账户管理、黑名单管理和操作日志API`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func runServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := config.WatchEnvFile(ctx, config.DefaultEnvFile, config.ApplyLogLevel); err != nil {
		logger.Warn("env file watcher not started", logger.ErrorField(err))
	}

	return server.Start(ctx, app)
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
