package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Srivathz/twitter-bookmark-manager/internal/config"
	"github.com/Srivathz/twitter-bookmark-manager/internal/db"
)

var (
	listLimit       int
	listSkip        int
	jsonOutput      bool
	plaintextOutput bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored bookmarks",
	Long:  "List synced bookmarks sorted by tweet creation date, newest first.",
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

		tweets, err := store.ListTweets(listSkip, listLimit)
		if err != nil {
			return fmt.Errorf("failed to list bookmarks: %w", err)
		}

		if jsonOutput {
			return outputJSON(tweets)
		}
		if plaintextOutput {
			return outputPlaintext(tweets)
		}
		return outputDefault(tweets)
	},
}

func outputJSON(tweets []db.Tweet) error {
	data, err := json.MarshalIndent(tweets, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func outputPlaintext(tweets []db.Tweet) error {
	for _, t := range tweets {
		fmt.Printf("%s\t@%s\t%s\n", t.TweetID, t.AuthorUsername, truncate(t.Text, 80))
	}
	return nil
}

func outputDefault(tweets []db.Tweet) error {
	if len(tweets) == 0 {
		fmt.Println("No bookmarks found. Run 'tbm sync' first.")
		return nil
	}
	for i, t := range tweets {
		read := " "
		if t.IsRead {
			read = "✓"
		}
		fmt.Printf("%d. [%s] @%s: %s\n", i+1, read, t.AuthorUsername, truncate(t.Text, 100))
		if t.URL != "" {
			fmt.Printf("   %s\n", t.URL)
		}
		fmt.Println()
	}
	return nil
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

func init() {
	listCmd.Flags().IntVar(&listLimit, "limit", 100, "Maximum number of bookmarks to show")
	listCmd.Flags().IntVar(&listSkip, "skip", 0, "Number of bookmarks to skip")
	listCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	listCmd.Flags().BoolVar(&plaintextOutput, "plain", false, "Output as tab-separated plaintext")
	rootCmd.AddCommand(listCmd)
}
