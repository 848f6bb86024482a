package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Srivathz/twitter-bookmark-manager/internal/config"
	"github.com/Srivathz/twitter-bookmark-manager/internal/db"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		store, err := db.NewStore(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		stats, err := store.GetStats()
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		fmt.Printf("Total bookmarks: %d\n", stats.TotalBookmarks)
		fmt.Printf("Read:            %d\n", stats.Read)
		fmt.Printf("Unread:          %d\n", stats.Unread)
		fmt.Printf("With images:     %d\n", stats.WithImages)
		fmt.Printf("With videos:     %d\n", stats.WithVideos)
		fmt.Printf("Last sync start: %s\n", formatTime(stats.LastSyncStart))
		fmt.Printf("Last sync done:  %s\n", formatTime(stats.LastSyncDone))
		if stats.LastError != "" {
			fmt.Printf("Last error:      %s\n", stats.LastError)
		}
		return nil
	},
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "never"
	}
	return t.Format(time.RFC3339)
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
