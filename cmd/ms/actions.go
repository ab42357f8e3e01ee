package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkoester/mailsense/internal/display"
	"github.com/pkoester/mailsense/internal/types"
)

var actionsDueDays int

var extractActionsCmd = &cobra.Command{
	Use:   "extract-actions EMAIL_ID",
	Short: "Extract action items from a stored email",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, err := store.GetEmail(args[0])
		if err != nil {
			return fmt.Errorf("lookup email: %w", err)
		}
		if email == nil {
			return fmt.Errorf("email %q not found", args[0])
		}

		actions := newExtractor().ExtractActions(cmd.Context(), email)

		if jsonOutput {
			if actions == nil {
				actions = []*types.Action{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(actions)
		}

		if len(actions) == 0 {
			display.WarnMsg("No actions found")
			return nil
		}

		display.Header(fmt.Sprintf("Extracted %d action(s)", len(actions)))
		fmt.Println()
		printActionTable(actions)
		return nil
	},
}

var actionsCmd = &cobra.Command{
	Use:   "actions",
	Short: "List pending action items",
	Long: `List all pending actions with summary counts, deadline first;
actions without a deadline sort last. With --due N, only actions due
within the next N days are shown.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var actions []*types.Action
		var err error
		if cmd.Flags().Changed("due") {
			actions, err = store.ActionsDueWithin(actionsDueDays)
		} else {
			actions, err = store.PendingActions()
		}
		if err != nil {
			return fmt.Errorf("query actions: %w", err)
		}

		summary, err := store.ActionSummary()
		if err != nil {
			return fmt.Errorf("action summary: %w", err)
		}

		if jsonOutput {
			if actions == nil {
				actions = []*types.Action{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{"actions": actions, "summary": summary})
		}

		if len(actions) == 0 {
			fmt.Println("No pending actions.")
			return nil
		}

		display.Header(fmt.Sprintf("Pending actions (%d total, %d high priority, %d overdue)",
			summary.TotalPending, summary.HighPriority, summary.Overdue))
		fmt.Println()
		printActionTable(actions)
		return nil
	},
}

var completeActionCmd = &cobra.Command{
	Use:   "complete-action ACTION_ID",
	Short: "Mark an action item as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid action id %q", args[0])
		}

		ok, err := store.CompleteAction(id)
		if err != nil {
			return fmt.Errorf("complete action: %w", err)
		}
		if !ok {
			display.ErrorMsg("Action %d not found", id)
			return fmt.Errorf("action %d not found", id)
		}
		display.SuccessMsg("Completed action %d", id)
		return nil
	},
}

func printActionTable(actions []*types.Action) {
	fmt.Printf("  %4s %-6s %-10s %-44s %s\n",
		display.Dim.Render("ID"),
		display.Dim.Render("PRI"),
		display.Dim.Render("DEADLINE"),
		display.Dim.Render("DESCRIPTION"),
		display.Dim.Render("FROM"),
	)
	for _, a := range actions {
		fmt.Printf("  %4d %s %-10s %-44s %s\n",
			a.ID,
			display.ActionPriorityLabel(a.Priority),
			display.Deadline(a.Deadline),
			display.Truncate(a.Description, 44),
			display.Dim.Render(display.Truncate(a.Subject, 30)),
		)
		if len(a.People) > 0 {
			fmt.Printf("       %s\n", display.Dim.Render("with: "+strings.Join(a.People, ", ")))
		}
	}
}

func init() {
	actionsCmd.Flags().IntVar(&actionsDueDays, "due", 7, "Only show actions due within N days")

	rootCmd.AddCommand(extractActionsCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(completeActionCmd)
}
