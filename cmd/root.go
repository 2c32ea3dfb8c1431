package cmd

import (
	"fmt"
	"log"
	"os"

	"songbox/server"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "songbox",
	Short: "Songbox is a music-catalog service.",
	Run: func(cmd *cobra.Command, args []string) {
		log.Println("Starting Songbox server...")
		server.Start()
	},
}

// Execute executes the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
