// Package types defines core data structures for mailsense.
package types

import "encoding/json"

// Email represents a fetched mail message plus the enrichment fields
// filled in by the agents. Enrichment fields stay empty/zero until the
// corresponding agent has run.
type Email struct {
	ID         string `json:"id"`
	ThreadID   string `json:"thread_id"`
	Subject    string `json:"subject"`
	Sender     string `json:"sender"`
	Recipient  string `json:"recipient,omitempty"`
	Body       string `json:"body,omitempty"`
	ReceivedAt string `json:"received_at"`
	Category   string `json:"category,omitempty"`
	Priority   int    `json:"priority,omitempty"`
	Sentiment  string `json:"sentiment,omitempty"`
	Urgency    int    `json:"urgency,omitempty"`
	Summary    string `json:"summary,omitempty"`
	FetchedAt  string `json:"fetched_at,omitempty"`
}

// Action is a task-like item extracted from an email.
type Action struct {
	ID          int64    `json:"id"`
	EmailID     string   `json:"email_id"`
	Description string   `json:"description"`
	Deadline    string   `json:"deadline,omitempty"` // ISO date, empty when none
	Priority    string   `json:"priority"`
	People      []string `json:"people,omitempty"`
	Completed   bool     `json:"completed"`
	CreatedAt   string   `json:"created_at,omitempty"`

	// Filled by joined queries.
	Subject string `json:"subject,omitempty"`
	Sender  string `json:"sender,omitempty"`
}

// Draft is a candidate reply body generated for an email. Multiple
// drafts per email are kept as an append-only history. The sent flag
// is reserved and never flipped by any current operation.
type Draft struct {
	ID        int64  `json:"id"`
	EmailID   string `json:"email_id"`
	Content   string `json:"draft_content"`
	CreatedAt string `json:"created_at"`
	Sent      bool   `json:"sent"`
}

// ActionSummary holds aggregate counts over pending actions.
type ActionSummary struct {
	TotalPending int `json:"total_pending"`
	HighPriority int `json:"high_priority"`
	Overdue      int `json:"overdue"`
}

// Category constants. UNKNOWN is the categorizer's fallback and is not
// part of the closed set the model chooses from.
const (
	CategoryUrgent      = "URGENT"
	CategoryWork        = "WORK"
	CategoryPersonal    = "PERSONAL"
	CategoryPromotional = "PROMOTIONAL"
	CategorySocial      = "SOCIAL"
	CategoryFinance     = "FINANCE"
	CategorySpam        = "SPAM"
	CategoryUnknown     = "UNKNOWN"
)

// ValidCategories is the closed set of categories the model may assign.
var ValidCategories = []string{
	CategoryUrgent, CategoryWork, CategoryPersonal, CategoryPromotional,
	CategorySocial, CategoryFinance, CategorySpam,
}

// IsValidCategory checks if a category string is in the closed set.
func IsValidCategory(c string) bool {
	for _, v := range ValidCategories {
		if v == c {
			return true
		}
	}
	return false
}

// Sentiment constants.
const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// IsValidSentiment checks if a sentiment string is valid.
func IsValidSentiment(s string) bool {
	return s == SentimentPositive || s == SentimentNeutral || s == SentimentNegative
}

// Action priority constants.
const (
	ActionPriorityHigh   = "high"
	ActionPriorityMedium = "medium"
	ActionPriorityLow    = "low"
)

// IsValidActionPriority checks if an action priority string is valid.
func IsValidActionPriority(p string) bool {
	return p == ActionPriorityHigh || p == ActionPriorityMedium || p == ActionPriorityLow
}

// EncodePeople serializes a people list for the actions.people column.
// An empty list encodes as "[]" so the column round-trips cleanly.
func EncodePeople(people []string) string {
	if people == nil {
		people = []string{}
	}
	b, err := json.Marshal(people)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodePeople parses the actions.people column back into a list.
func DecodePeople(s string) []string {
	if s == "" {
		return nil
	}
	var people []string
	if err := json.Unmarshal([]byte(s), &people); err != nil {
		return nil
	}
	return people
}
