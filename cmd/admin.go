package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ActivityAdmin/core/auth"
	"ActivityAdmin/db"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "创建超级管理员账户",
	Long:  `创建超级管理员账户。超级管理员只能通过此命令创建，API 只能创建普通管理员。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminUsername == "" || adminEmail == "" || adminPassword == "" {
			return errors.New("--username, --email and --password are required")
		}

		gdb, err := db.Open(cfg)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		hash, err := auth.NewBcryptHasher(cfg.BcryptCost).Hash(adminPassword)
		if err != nil {
			return err
		}
		u, err := db.SeedSuperAdmin(cmd.Context(), gdb, adminUsername, adminEmail, hash)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", adminUsername, err)
		}
		fmt.Printf("超级管理员 %s 创建成功 (id=%s)\n", u.Username, u.ID)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password")
	rootCmd.AddCommand(createAdminCmd)
}
