package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkoester/mailsense/internal/display"
	"github.com/pkoester/mailsense/internal/mail"
)

var (
	fetchLimit int
	fetchQuery string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch recent emails, categorize them, and cache the results",
	Long: `Pull recent messages from Gmail, run categorization and sentiment
analysis on each, and upsert them into the local database.

Examples:
  ms fetch
  ms fetch --limit 25
  ms fetch --query "is:unread from:boss@example.com"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		limit := fetchLimit
		if limit <= 0 {
			limit = settings.MaxEmailsToFetch
		}

		svc, err := mail.Service(ctx, settings.CredentialsPath, settings.TokenPath)
		if err != nil {
			return fmt.Errorf("gmail auth: %w", err)
		}

		emails, err := mail.FetchRecent(svc, int64(limit), fetchQuery)
		if err != nil {
			return fmt.Errorf("fetch: %w", err)
		}
		if len(emails) == 0 {
			fmt.Println("No emails found.")
			return nil
		}

		categorizer := newCategorizer()
		for _, e := range emails {
			categorizer.ProcessEmail(ctx, e)
			if err := store.UpsertEmail(e); err != nil {
				display.ErrorMsg("store %s: %v", e.ID, err)
			}
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(emails)
		}

		display.Header(fmt.Sprintf("Processed %d emails", len(emails)))
		fmt.Println()
		for _, e := range emails {
			fmt.Printf("  %s %s  %-40s %s\n",
				display.CategoryBadge(e.Category),
				display.PriorityScale(e.Priority),
				display.Truncate(e.Subject, 40),
				display.Dim.Render(display.Truncate(e.Sender, 30)),
			)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().IntVarP(&fetchLimit, "limit", "n", 0, "Number of emails to fetch (default: MAX_EMAILS_TO_FETCH)")
	fetchCmd.Flags().StringVarP(&fetchQuery, "query", "q", "", "Gmail search query")
	rootCmd.AddCommand(fetchCmd)
}
