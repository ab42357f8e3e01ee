package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkoester/mailsense/internal/display"
	"github.com/pkoester/mailsense/internal/types"
)

var (
	listCategory string
	listLimit    int
)

var listEmailsCmd = &cobra.Command{
	Use:   "list-emails",
	Short: "List cached emails, optionally filtered by category",
	RunE: func(cmd *cobra.Command, args []string) error {
		var emails []*types.Email
		var err error

		if listCategory != "" {
			emails, err = store.EmailsByCategory(strings.ToUpper(listCategory), listLimit)
		} else {
			emails, err = store.RecentEmails(listLimit)
		}
		if err != nil {
			return fmt.Errorf("query emails: %w", err)
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(emails)
		}

		if len(emails) == 0 {
			fmt.Println("No emails found.")
			return nil
		}

		title := "Recent emails"
		if listCategory != "" {
			title = "Emails in " + strings.ToUpper(listCategory)
		}
		display.Header(fmt.Sprintf("%s (%d)", title, len(emails)))
		fmt.Println()
		fmt.Printf("  %-18s %-11s %-5s %-40s %s\n",
			display.Dim.Render("ID"),
			display.Dim.Render("CATEGORY"),
			display.Dim.Render("PRI"),
			display.Dim.Render("SUBJECT"),
			display.Dim.Render("RECEIVED"),
		)
		for _, e := range emails {
			category := e.Category
			if category == "" {
				category = types.CategoryUnknown
			}
			fmt.Printf("  %-18s %s %s %-40s %s\n",
				display.Truncate(e.ID, 18),
				display.CategoryBadge(category),
				display.PriorityScale(e.Priority),
				display.Truncate(e.Subject, 40),
				display.TimeAgo(e.ReceivedAt),
			)
		}
		return nil
	},
}

func init() {
	listEmailsCmd.Flags().StringVarP(&listCategory, "category", "c", "", "Filter by category")
	listEmailsCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "Max results")
	rootCmd.AddCommand(listEmailsCmd)
}
