package cmd

import (
	"fmt"
	"log"

	"songbox/config"
	"songbox/logger"
	"songbox/storage"

	"github.com/spf13/cobra"
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "Check MinIO connectivity",
	Long:  `Connect to the configured MinIO endpoint and verify the bucket exists, creating it if needed.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()
		logger.InitLogger(logger.Config{Level: logger.LogLevel(cfg.LogLevel)})

		if err := storage.InitMinio(cfg); err != nil {
			log.Fatalf("MinIO check failed: %v", err)
		}
		fmt.Println("MinIO connection OK")
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)
}
