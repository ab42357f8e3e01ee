package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkoester/mailsense/internal/display"
)

var clearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all cached emails, actions and drafts",
	Long: `Destructive bulk delete of the entire database. There is no undo.
Requires --force; the store itself performs no confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !clearForce {
			return fmt.Errorf("refusing to clear without --force")
		}
		if err := store.ClearAll(); err != nil {
			return fmt.Errorf("clear database: %w", err)
		}
		display.SuccessMsg("Database cleared")
		return nil
	},
}

func init() {
	clearCmd.Flags().BoolVar(&clearForce, "force", false, "Actually delete everything")
	rootCmd.AddCommand(clearCmd)
}
