package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"ActivityAdmin/model"
	"ActivityAdmin/server"
)

var exportCmd = &cobra.Command{
	Use:   "export-blocklist",
	Short: "导出启用中的黑名单到 MinIO",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.MinioEnabled {
			return errors.New("MINIO_ENABLED is false, nothing to export to")
		}
		app, err := server.NewApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer app.Close()

		system := model.Principal{Username: "system", IsSuper: true}
		res, err := app.Blocks.ExportActive(cmd.Context(), system)
		if err != nil {
			return err
		}
		fmt.Printf("已导出 %d 条黑名单到 %s/%s\n", res.Count, app.Minio.Bucket(), res.Key)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
