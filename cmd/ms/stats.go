package main

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pkoester/mailsense/internal/display"
)

type statsOutput struct {
	TotalEmails int            `json:"total_emails"`
	AvgPriority float64        `json:"avg_priority"`
	Categories  map[string]int `json:"categories"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show email statistics and category breakdown",
	RunE: func(cmd *cobra.Command, args []string) error {
		emails, err := store.RecentEmails(1000)
		if err != nil {
			return fmt.Errorf("query emails: %w", err)
		}
		if len(emails) == 0 {
			fmt.Println("No emails in database.")
			return nil
		}

		categories := map[string]int{}
		totalPriority := 0
		for _, e := range emails {
			cat := e.Category
			if cat == "" {
				cat = "UNKNOWN"
			}
			categories[cat]++
			totalPriority += e.Priority
		}
		avg := float64(totalPriority) / float64(len(emails))

		if jsonOutput {
			out := statsOutput{
				TotalEmails: len(emails),
				AvgPriority: avg,
				Categories:  categories,
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		}

		display.Header("Email Statistics")
		fmt.Println()
		fmt.Printf("  Total emails:     %d\n", len(emails))
		fmt.Printf("  Average priority: %.1f\n", avg)
		fmt.Println()

		// Sort categories by count, largest first.
		names := make([]string, 0, len(categories))
		for name := range categories {
			names = append(names, name)
		}
		sort.Slice(names, func(i, j int) bool {
			if categories[names[i]] != categories[names[j]] {
				return categories[names[i]] > categories[names[j]]
			}
			return names[i] < names[j]
		})

		fmt.Printf("  %-12s %6s %9s\n",
			display.Dim.Render("CATEGORY"),
			display.Dim.Render("COUNT"),
			display.Dim.Render("PERCENT"),
		)
		for _, name := range names {
			count := categories[name]
			pct := float64(count) / float64(len(emails)) * 100
			fmt.Printf("  %s %6d %8.1f%%\n", display.CategoryBadge(name), count, pct)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
