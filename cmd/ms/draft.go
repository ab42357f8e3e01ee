package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkoester/mailsense/internal/display"
	"github.com/pkoester/mailsense/internal/types"
)

var (
	draftTone    string
	draftContext string
	quickType    string
)

var draftCmd = &cobra.Command{
	Use:   "draft EMAIL_ID",
	Short: "Draft a reply to a stored email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := store.GetEmail(args[0])
		if err != nil {
			return fmt.Errorf("lookup email: %w", err)
		}
		if email == nil {
			return fmt.Errorf("email %q not found", args[0])
		}

		draft := newResponder().DraftResponse(cmd.Context(), email, draftContext, draftTone)

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]string{"email_id": email.ID, "draft": draft})
		}

		display.Header("Draft reply to: " + display.Truncate(email.Subject, 60))
		fmt.Println()
		fmt.Println(draft)
		return nil
	},
}

var quickReplyCmd = &cobra.Command{
	Use:   "quick-reply EMAIL_ID",
	Short: "Generate a template reply without a model call",
	Long: `Fill a local reply template with the email's subject. Types:
acknowledge, decline, accept, request_info. Unrecognized types fall
back to acknowledge.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := store.GetEmail(args[0])
		if err != nil {
			return fmt.Errorf("lookup email: %w", err)
		}
		if email == nil {
			return fmt.Errorf("email %q not found", args[0])
		}

		reply := newResponder().QuickReply(email, quickType)
		fmt.Println(reply)
		return nil
	},
}

var suggestCmd = &cobra.Command{
	Use:   "suggest EMAIL_ID",
	Short: "Suggest multiple response options for a stored email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := store.GetEmail(args[0])
		if err != nil {
			return fmt.Errorf("lookup email: %w", err)
		}
		if email == nil {
			return fmt.Errorf("email %q not found", args[0])
		}

		suggestions := newResponder().SuggestResponses(cmd.Context(), email)

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(suggestions)
		}

		for _, style := range []string{"professional", "quick_ack", "friendly"} {
			text, ok := suggestions[style]
			if !ok {
				continue
			}
			display.Header(style)
			fmt.Println()
			fmt.Println(text)
			fmt.Println()
		}
		return nil
	},
}

var draftsCmd = &cobra.Command{
	Use:   "drafts EMAIL_ID",
	Short: "List saved drafts for an email, newest first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		drafts, err := store.DraftsForEmail(args[0])
		if err != nil {
			return fmt.Errorf("query drafts: %w", err)
		}

		if jsonOutput {
			if drafts == nil {
				drafts = []*types.Draft{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(drafts)
		}

		if len(drafts) == 0 {
			fmt.Println("No drafts saved for this email.")
			return nil
		}

		for _, d := range drafts {
			display.Header(fmt.Sprintf("Draft %d  %s", d.ID, display.Dim.Render(display.TimeAgo(d.CreatedAt))))
			fmt.Println()
			fmt.Println(d.Content)
			fmt.Println()
		}
		return nil
	},
}

func init() {
	draftCmd.Flags().StringVarP(&draftTone, "tone", "t", "professional", "Desired tone (professional, casual, friendly, formal)")
	draftCmd.Flags().StringVar(&draftContext, "context", "", "Extra context about you/the situation")
	quickReplyCmd.Flags().StringVarP(&quickType, "type", "t", "acknowledge", "Template type")

	rootCmd.AddCommand(draftCmd)
	rootCmd.AddCommand(quickReplyCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(draftsCmd)
}
