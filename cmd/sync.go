package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Srivathz/twitter-bookmark-manager/internal/config"
	"github.com/Srivathz/twitter-bookmark-manager/internal/db"
	"github.com/Srivathz/twitter-bookmark-manager/internal/syncer"
	"github.com/Srivathz/twitter-bookmark-manager/internal/twitter"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync bookmarks from Twitter",
	Long:  "Run one incremental synchronization pass against the Twitter bookmarks API.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.ValidateTwitter(); err != nil {
			return err
		}

		store, err := db.NewStore(cfg.DBPath())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()

		client := twitter.NewClient(twitter.Credentials{
			BearerToken: cfg.Twitter.BearerToken,
			CSRFToken:   cfg.Twitter.CSRFToken,
			Cookies:     cfg.Twitter.Cookies,
		}, cfg.Twitter.QueryID, cfg.Sync.PageSize)

		result, err := syncer.New(client, store, store).Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync failed after %d pages (%d added, %d updated): %w",
				result.PagesFetched, result.Added, result.Updated, err)
		}

		fmt.Printf("Synced %d pages: %d fetched, %d new, %d updated\n",
			result.PagesFetched, result.TotalFetched, result.Added, result.Updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
