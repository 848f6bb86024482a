package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Srivathz/twitter-bookmark-manager/internal/config"
	"github.com/Srivathz/twitter-bookmark-manager/internal/db"
)

var categoryDescription string

var categoryCmd = &cobra.Command{
	Use:   "category",
	Short: "Manage bookmark categories",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		category, err := store.CreateCategory(args[0], categoryDescription)
		if err != nil {
			return fmt.Errorf("failed to create category: %w", err)
		}
		fmt.Printf("Created category %d: %s\n", category.ID, category.Name)
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		categories, err := store.ListCategories(false)
		if err != nil {
			return fmt.Errorf("failed to list categories: %w", err)
		}
		if len(categories) == 0 {
			fmt.Println("No categories.")
			return nil
		}
		for _, c := range categories {
			if c.Description != "" {
				fmt.Printf("%d\t%s\t%s\n", c.ID, c.Name, c.Description)
			} else {
				fmt.Printf("%d\t%s\n", c.ID, c.Name)
			}
		}
		return nil
	},
}

var categoryRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a category (soft delete)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid category id: %s", args[0])
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		category, err := store.DeleteCategory(id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		fmt.Printf("Deleted category: %s\n", category.Name)
		return nil
	},
}

func openStore() (*db.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	store, err := db.NewStore(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return store, nil
}

func init() {
	categoryAddCmd.Flags().StringVar(&categoryDescription, "description", "", "Optional category description")
	categoryCmd.AddCommand(categoryAddCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryRmCmd)
	rootCmd.AddCommand(categoryCmd)
}
