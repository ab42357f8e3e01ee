// Package agent implements the four LLM-backed agents. Each agent
// shares the same outer shape: truncate the message body, format a
// prompt, invoke the model gateway, parse the response against an
// expected schema, and persist the result through the store.
//
// Model faults and malformed output are handled identically: the agent
// logs the failure and returns a safe fallback value so the
// presentation layer always gets something displayable. Fallbacks are
// never written to the store; only successfully parsed results are.
package agent

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/pkoester/mailsense/internal/llm"
	"github.com/pkoester/mailsense/internal/types"
)

// Categorizer assigns a category, priority, sentiment and urgency to
// an email.
type Categorizer struct {
	llm   llm.Client
	model string
	log   zerolog.Logger

	// BodyLimit bounds the body text sent per model call.
	BodyLimit int
}

// NewCategorizer returns a categorizer using the given model.
func NewCategorizer(client llm.Client, model string, log zerolog.Logger) *Categorizer {
	return &Categorizer{
		llm:       client,
		model:     model,
		log:       log,
		BodyLimit: 1000,
	}
}

const categorizeTemperature = 0.3

// CategoryResult is the categorizer's output schema.
type CategoryResult struct {
	Category  string `json:"category"`
	Priority  int    `json:"priority"`
	Reasoning string `json:"reasoning"`
}

// SentimentResult is the sentiment analyzer's output schema.
type SentimentResult struct {
	Sentiment string `json:"sentiment"`
	Urgency   int    `json:"urgency"`
	Tone      string `json:"tone"`
	Reasoning string `json:"reasoning"`
}

// fallbackCategory is returned on any model or parse fault.
func fallbackCategory() *CategoryResult {
	return &CategoryResult{
		Category:  types.CategoryUnknown,
		Priority:  5,
		Reasoning: "Error during categorization",
	}
}

func fallbackSentiment() *SentimentResult {
	return &SentimentResult{
		Sentiment: types.SentimentNeutral,
		Urgency:   5,
		Tone:      "professional",
		Reasoning: "Error during analysis",
	}
}

// Categorize classifies an email into the closed category set and
// rates its priority 1-10. Never returns an error: faults fall back to
// UNKNOWN with priority 5.
func (c *Categorizer) Categorize(ctx context.Context, email *types.Email) *CategoryResult {
	prompt := formatPrompt(categorizationPrompt,
		email.Subject, email.Sender, truncate(email.Body, c.BodyLimit))

	raw, err := c.llm.Complete(ctx, llm.Request{
		Model:       c.model,
		Prompt:      prompt,
		Temperature: categorizeTemperature,
	})
	if err != nil {
		c.log.Warn().Err(err).Str("email_id", email.ID).Msg("categorize: model call failed")
		return fallbackCategory()
	}

	var result CategoryResult
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &result); err != nil {
		c.log.Warn().Err(err).Str("email_id", email.ID).Msg("categorize: unparseable model output")
		return fallbackCategory()
	}

	if !types.IsValidCategory(result.Category) {
		result.Category = types.CategoryUnknown
	}
	result.Priority = clampScale(result.Priority)
	return &result
}

// AnalyzeSentiment determines sentiment, urgency and emotional tone.
func (c *Categorizer) AnalyzeSentiment(ctx context.Context, email *types.Email) *SentimentResult {
	prompt := formatPrompt(sentimentPrompt,
		email.Subject, truncate(email.Body, c.BodyLimit))

	raw, err := c.llm.Complete(ctx, llm.Request{
		Model:       c.model,
		Prompt:      prompt,
		Temperature: categorizeTemperature,
	})
	if err != nil {
		c.log.Warn().Err(err).Str("email_id", email.ID).Msg("sentiment: model call failed")
		return fallbackSentiment()
	}

	var result SentimentResult
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &result); err != nil {
		c.log.Warn().Err(err).Str("email_id", email.ID).Msg("sentiment: unparseable model output")
		return fallbackSentiment()
	}

	if !types.IsValidSentiment(result.Sentiment) {
		result.Sentiment = types.SentimentNeutral
	}
	result.Urgency = clampScale(result.Urgency)
	if result.Tone == "" {
		result.Tone = "professional"
	}
	return &result
}

// ProcessEmail runs categorization and sentiment analysis and merges
// both results into the email's enrichment fields. It does not
// persist: the caller upserts, so a batch can be categorized and
// committed in one pass.
func (c *Categorizer) ProcessEmail(ctx context.Context, email *types.Email) *types.Email {
	cat := c.Categorize(ctx, email)
	sent := c.AnalyzeSentiment(ctx, email)

	email.Category = cat.Category
	email.Priority = cat.Priority
	email.Sentiment = sent.Sentiment
	email.Urgency = sent.Urgency
	return email
}

// clampScale bounds a 1-10 rating, mapping out-of-range values to the
// neutral midpoint.
func clampScale(n int) int {
	if n < 1 || n > 10 {
		return 5
	}
	return n
}
