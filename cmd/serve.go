package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Srivathz/twitter-bookmark-manager/internal/config"
	"github.com/Srivathz/twitter-bookmark-manager/internal/db"
	"github.com/Srivathz/twitter-bookmark-manager/internal/syncer"
	"github.com/Srivathz/twitter-bookmark-manager/internal/twitter"
	"github.com/Srivathz/twitter-bookmark-manager/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Serve the bookmarks API: sync trigger, bookmark listing and updates, categories and stats.",
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

		client := twitter.NewClient(twitter.Credentials{
			BearerToken: cfg.Twitter.BearerToken,
			CSRFToken:   cfg.Twitter.CSRFToken,
			Cookies:     cfg.Twitter.Cookies,
		}, cfg.Twitter.QueryID, cfg.Sync.PageSize)

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		server := web.NewServer(store, syncer.New(client, store, store))
		return server.ListenAndServe(addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}
