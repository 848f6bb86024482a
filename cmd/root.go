package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tbm",
	Short: "Twitter bookmarks manager",
	Long:  "Sync Twitter bookmarks into a local SQLite database and browse them via CLI or HTTP API.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
