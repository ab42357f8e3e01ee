// Package display provides terminal formatting for mailsense output.
package display

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Styles
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
	Dim      = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))
	Bold     = lipgloss.NewStyle().Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	Warn     = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	ErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))

	urgentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")).Bold(true)
	workStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#2563eb"))
	personalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a"))
	promoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9333ea"))
	socialStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#0891b2"))
	financeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	spamStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ca3af"))

	highStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626"))
	mediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d97706"))
	lowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))
)

// CategoryBadge returns a styled category label.
func CategoryBadge(category string) string {
	label := fmt.Sprintf("%-11s", category)
	switch category {
	case "URGENT":
		return urgentStyle.Render(label)
	case "WORK":
		return workStyle.Render(label)
	case "PERSONAL":
		return personalStyle.Render(label)
	case "PROMOTIONAL":
		return promoStyle.Render(label)
	case "SOCIAL":
		return socialStyle.Render(label)
	case "FINANCE":
		return financeStyle.Render(label)
	case "SPAM":
		return spamStyle.Render(label)
	default:
		return Dim.Render(label)
	}
}

// PriorityScale renders a 1-10 priority with color by band.
func PriorityScale(priority int) string {
	label := fmt.Sprintf("%2d/10", priority)
	switch {
	case priority >= 8:
		return highStyle.Render(label)
	case priority >= 5:
		return mediumStyle.Render(label)
	default:
		return lowStyle.Render(label)
	}
}

// ActionPriorityLabel returns a styled high/medium/low label.
func ActionPriorityLabel(priority string) string {
	label := fmt.Sprintf("%-6s", strings.ToUpper(priority))
	switch priority {
	case "high":
		return highStyle.Render(label)
	case "medium":
		return mediumStyle.Render(label)
	case "low":
		return lowStyle.Render(label)
	default:
		return Dim.Render(label)
	}
}

// SentimentLabel returns a styled sentiment label.
func SentimentLabel(sentiment string) string {
	switch sentiment {
	case "positive":
		return Success.Render(sentiment)
	case "negative":
		return ErrStyle.Render(sentiment)
	default:
		return Dim.Render(sentiment)
	}
}

// Deadline formats an ISO date, rendering overdue dates in red and
// today's date in amber.
func Deadline(isoDate string) string {
	if isoDate == "" {
		return Dim.Render("—")
	}
	today := time.Now().Format("2006-01-02")
	switch {
	case isoDate < today:
		return ErrStyle.Render(isoDate)
	case isoDate == today:
		return Warn.Render(isoDate)
	default:
		return isoDate
	}
}

// TimeAgo formats an ISO date string as a relative time.
func TimeAgo(isoDate string) string {
	if isoDate == "" {
		return ""
	}

	var t time.Time
	var err error
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05Z", "2006-01-02 15:04:05", time.RFC3339Nano} {
		t, err = time.Parse(layout, isoDate)
		if err == nil {
			break
		}
	}
	if err != nil {
		return isoDate[:min(10, len(isoDate))]
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

// Truncate shortens a string to maxLen, adding ellipsis if needed.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// SuccessMsg prints a green checkmark + message.
func SuccessMsg(format string, args ...any) {
	fmt.Println(Success.Render("✓") + " " + fmt.Sprintf(format, args...))
}

// WarnMsg prints an amber warning line.
func WarnMsg(format string, args ...any) {
	fmt.Println(Warn.Render("!") + " " + fmt.Sprintf(format, args...))
}

// ErrorMsg prints a red X + message to stderr.
func ErrorMsg(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrStyle.Render("✗")+" "+fmt.Sprintf(format, args...))
}

// Header prints a section header.
func Header(title string) {
	fmt.Println(Bold.Render(title))
}
