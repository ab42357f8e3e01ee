package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/pkoester/mailsense/internal/db"
	"github.com/pkoester/mailsense/internal/llm"
	"github.com/pkoester/mailsense/internal/types"
)

// ErrSummary is the fallback marker returned when summarization fails.
// It is returned to the caller for display but never persisted.
const ErrSummary = "Error generating summary"

// Summarizer produces prose summaries of single emails and threads.
type Summarizer struct {
	llm   llm.Client
	store *db.Store
	model string
	log   zerolog.Logger

	// BodyLimit bounds a single email's body; ThreadBodyLimit bounds
	// each email when a whole thread goes into one prompt.
	BodyLimit       int
	ThreadBodyLimit int
}

// NewSummarizer returns a summarizer using the given model and store.
func NewSummarizer(client llm.Client, store *db.Store, model string, log zerolog.Logger) *Summarizer {
	return &Summarizer{
		llm:             client,
		store:           store,
		model:           model,
		log:             log,
		BodyLimit:       2000,
		ThreadBodyLimit: 1000,
	}
}

const summarizeTemperature = 0.5

// SummarizeEmail generates a summary (under ~150 words by prompt
// contract) and writes it to the email's summary field. On a model or
// persistence fault the marker string comes back and nothing is
// stored.
func (s *Summarizer) SummarizeEmail(ctx context.Context, email *types.Email) string {
	thread := fmt.Sprintf("\nSubject: %s\nFrom: %s\nDate: %s\n\n%s\n",
		email.Subject, email.Sender, email.ReceivedAt,
		truncate(email.Body, s.BodyLimit))

	raw, err := s.llm.Complete(ctx, llm.Request{
		Model:       s.model,
		Prompt:      formatPrompt(summarizationPrompt, thread),
		Temperature: summarizeTemperature,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("email_id", email.ID).Msg("summarize: model call failed")
		return ErrSummary
	}

	summary := strings.TrimSpace(raw)
	if email.ID != "" {
		if err := s.store.SetSummary(email.ID, summary); err != nil {
			s.log.Error().Err(err).Str("email_id", email.ID).Msg("summarize: persist failed")
		}
	}
	return summary
}

// SummarizeThread concatenates every email sharing a thread_id, oldest
// first, into one prompt and returns the model's summary. The result
// is not persisted.
func (s *Summarizer) SummarizeThread(ctx context.Context, threadID string) (string, error) {
	emails, err := s.store.ThreadEmails(threadID)
	if err != nil {
		return "", fmt.Errorf("load thread %s: %w", threadID, err)
	}
	if len(emails) == 0 {
		return "No emails found in thread", nil
	}

	var b strings.Builder
	for i, e := range emails {
		fmt.Fprintf(&b, "\n--- Email %d ---\nSubject: %s\nFrom: %s\nDate: %s\n\n%s\n\n",
			i+1, e.Subject, e.Sender, e.ReceivedAt,
			truncate(e.Body, s.ThreadBodyLimit))
	}

	raw, err := s.llm.Complete(ctx, llm.Request{
		Model:       s.model,
		Prompt:      formatPrompt(summarizationPrompt, b.String()),
		Temperature: summarizeTemperature,
	})
	if err != nil {
		s.log.Warn().Err(err).Str("thread_id", threadID).Msg("summarize thread: model call failed")
		return "Error generating thread summary", nil
	}
	return strings.TrimSpace(raw), nil
}

// KeyPoints derives up to five bullet-like lines from summary text.
// This is cheap textual post-processing, not a model call: a line
// starting with a bullet marker is kept verbatim minus the marker, a
// plain line is kept when longer than 20 characters.
func KeyPoints(summary string) []string {
	var points []string
	for _, line := range strings.Split(summary, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "-") || strings.HasPrefix(line, "•") || strings.HasPrefix(line, "*"):
			points = append(points, strings.TrimLeft(line, "-•* "))
		case len(line) > 20:
			points = append(points, line)
		}
		if len(points) == 5 {
			break
		}
	}
	return points
}

// EmailKeyPoints summarizes an email and extracts its key points.
func (s *Summarizer) EmailKeyPoints(ctx context.Context, email *types.Email) []string {
	return KeyPoints(s.SummarizeEmail(ctx, email))
}
