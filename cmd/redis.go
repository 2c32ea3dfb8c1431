package cmd

import (
	"fmt"
	"log"

	"songbox/config"
	"songbox/db"

	"github.com/spf13/cobra"
)

var redisCmd = &cobra.Command{
	Use:   "redis",
	Short: "Check Redis connectivity",
	Long:  `Connect to the configured Redis instance and run a set/get/del round trip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Load()

		if err := db.ConnectRedis(cfg); err != nil {
			log.Fatalf("Redis check failed: %v", err)
		}
		defer db.CloseRedis()

		if err := db.TestRedis(); err != nil {
			log.Fatalf("Redis round trip failed: %v", err)
		}
		fmt.Println("Redis connection OK")
	},
}

func init() {
	rootCmd.AddCommand(redisCmd)
}
