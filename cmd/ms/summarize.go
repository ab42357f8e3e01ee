package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkoester/mailsense/internal/agent"
	"github.com/pkoester/mailsense/internal/display"
)

var summarizeThread bool

var summarizeCmd = &cobra.Command{
	Use:   "summarize EMAIL_ID",
	Short: "Summarize a stored email (or its whole thread)",
	Long: `Generate a summary of one stored email and save it to the cache.

With --thread, every email sharing the message's thread_id is
concatenated oldest-first into a single thread summary (not saved).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := store.GetEmail(args[0])
		if err != nil {
			return fmt.Errorf("lookup email: %w", err)
		}
		if email == nil {
			return fmt.Errorf("email %q not found", args[0])
		}

		summarizer := newSummarizer()

		var summary string
		if summarizeThread {
			summary, err = summarizer.SummarizeThread(cmd.Context(), email.ThreadID)
			if err != nil {
				return err
			}
		} else {
			summary = summarizer.SummarizeEmail(cmd.Context(), email)
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"email_id":   email.ID,
				"summary":    summary,
				"key_points": agent.KeyPoints(summary),
			})
		}

		display.Header(display.Truncate(email.Subject, 70))
		fmt.Println()
		fmt.Println(summary)

		if points := agent.KeyPoints(summary); len(points) > 0 {
			fmt.Println()
			display.Header("Key points")
			for _, p := range points {
				fmt.Printf("  • %s\n", p)
			}
		}
		return nil
	},
}

func init() {
	summarizeCmd.Flags().BoolVar(&summarizeThread, "thread", false, "Summarize the whole thread")
	rootCmd.AddCommand(summarizeCmd)
}
