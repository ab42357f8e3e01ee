package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkoester/mailsense/internal/display"
	"github.com/pkoester/mailsense/internal/mail"
)

var (
	sendTo      string
	sendSubject string
	sendBody    string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send an email through Gmail",
	Long: `Send a plain-text email.

Examples:
  ms send --to alice@example.com --subject "Re: agenda" --body "Works for me."`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if sendTo == "" || sendSubject == "" || sendBody == "" {
			return fmt.Errorf("--to, --subject and --body are required")
		}

		svc, err := mail.Service(cmd.Context(), settings.CredentialsPath, settings.TokenPath)
		if err != nil {
			return fmt.Errorf("gmail auth: %w", err)
		}
		if err := mail.Send(svc, sendTo, sendSubject, sendBody); err != nil {
			return err
		}
		display.SuccessMsg("Sent to %s", sendTo)
		return nil
	},
}

func init() {
	sendCmd.Flags().StringVar(&sendTo, "to", "", "Recipient address")
	sendCmd.Flags().StringVar(&sendSubject, "subject", "", "Subject line")
	sendCmd.Flags().StringVar(&sendBody, "body", "", "Message body")
	rootCmd.AddCommand(sendCmd)
}
