package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ActivityAdmin/cache"
	"ActivityAdmin/db"
	"ActivityAdmin/logger"
	"ActivityAdmin/repository"
	"ActivityAdmin/service"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "创建或更新数据表并写入内置黑名单类型",
	RunE: func(cmd *cobra.Command, args []string) error {
		gdb, err := db.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		if err := db.AutoMigrate(gdb); err != nil {
			return err
		}
		if err := db.SeedBlockTypes(cmd.Context(), gdb); err != nil {
			return err
		}

		// 类型表可能已变化，清掉 Redis 中的类型缓存
		if cfg.RedisEnabled {
			rdb, err := db.ConnectRedis(cmd.Context(), cfg)
			if err != nil {
				logger.Warn("Redis不可用，类型缓存将在过期后刷新", logger.ErrorField(err))
			} else {
				defer rdb.Close()
				blocks := service.NewBlockListService(
					repository.NewGormBlockEntityRepository(gdb),
					repository.NewGormBlockTypeRepository(gdb),
					cache.NewRedisBlockTypeCache(rdb, cfg.BlockTypeCacheTTL),
					nil,
					service.NewAuditService(repository.NewGormOperationLogRepository(gdb)),
				)
				if err := blocks.InvalidateTypes(cmd.Context()); err != nil {
					return fmt.Errorf("failed to invalidate block type cache: %w", err)
				}
			}
		}
		fmt.Println("数据库迁移完成")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
