package agent

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/pkoester/mailsense/internal/db"
	"github.com/pkoester/mailsense/internal/llm"
	"github.com/pkoester/mailsense/internal/types"
)

// Extractor pulls actionable items out of emails.
type Extractor struct {
	llm   llm.Client
	store *db.Store
	model string
	log   zerolog.Logger

	// BodyLimit bounds the body text sent per model call.
	BodyLimit int
}

// NewExtractor returns an action extractor using the given model and
// store.
func NewExtractor(client llm.Client, store *db.Store, model string, log zerolog.Logger) *Extractor {
	return &Extractor{
		llm:       client,
		model:     model,
		store:     store,
		log:       log,
		BodyLimit: 2000,
	}
}

const extractTemperature = 0.3

// extractionResult is the expected model output schema.
type extractionResult struct {
	Actions []struct {
		Description string   `json:"description"`
		Deadline    *string  `json:"deadline"`
		Priority    string   `json:"priority"`
		People      []string `json:"people"`
	} `json:"actions"`
}

// ExtractActions parses zero or more action items from an email and
// inserts them as one batch tied to the email's id. A model or parse
// fault yields an empty slice and no inserts. Re-running extraction
// appends new rows; nothing deduplicates.
func (x *Extractor) ExtractActions(ctx context.Context, email *types.Email) []*types.Action {
	prompt := formatPrompt(actionExtractionPrompt,
		email.Subject, truncate(email.Body, x.BodyLimit))

	raw, err := x.llm.Complete(ctx, llm.Request{
		Model:       x.model,
		Prompt:      prompt,
		Temperature: extractTemperature,
	})
	if err != nil {
		x.log.Warn().Err(err).Str("email_id", email.ID).Msg("extract: model call failed")
		return nil
	}

	var result extractionResult
	if err := json.Unmarshal([]byte(llm.ExtractJSON(raw)), &result); err != nil {
		x.log.Warn().Err(err).Str("email_id", email.ID).Msg("extract: unparseable model output")
		return nil
	}

	actions := make([]*types.Action, 0, len(result.Actions))
	for _, item := range result.Actions {
		if item.Description == "" {
			continue
		}
		a := &types.Action{
			EmailID:     email.ID,
			Description: item.Description,
			Priority:    item.Priority,
			People:      item.People,
		}
		if item.Deadline != nil && *item.Deadline != "null" {
			a.Deadline = *item.Deadline
		}
		if !types.IsValidActionPriority(a.Priority) {
			a.Priority = types.ActionPriorityMedium
		}
		actions = append(actions, a)
	}

	if email.ID != "" && len(actions) > 0 {
		if err := x.store.InsertActions(actions); err != nil {
			x.log.Error().Err(err).Str("email_id", email.ID).Msg("extract: persist failed")
		}
	}
	return actions
}
