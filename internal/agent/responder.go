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

// ErrDraft is the fallback marker returned when drafting fails.
const ErrDraft = "Error generating response draft"

// Responder drafts replies to emails.
type Responder struct {
	llm   llm.Client
	store *db.Store
	model string
	log   zerolog.Logger

	// BodyLimit bounds the original email's body in the prompt.
	BodyLimit int
}

// NewResponder returns a responder using the given model and store.
func NewResponder(client llm.Client, store *db.Store, model string, log zerolog.Logger) *Responder {
	return &Responder{
		llm:       client,
		store:     store,
		model:     model,
		log:       log,
		BodyLimit: 1500,
	}
}

// Drafting uses a higher temperature than classification for more
// varied phrasing.
const draftTemperature = 0.7

// DraftResponse drafts a reply and appends it to the draft history.
// userContext overrides the tone hint when set. A model fault returns
// the marker string without touching the store.
func (r *Responder) DraftResponse(ctx context.Context, email *types.Email, userContext, tone string) string {
	if userContext == "" {
		if tone == "" {
			tone = "professional"
		}
		userContext = fmt.Sprintf("Respond in a %s tone.", tone)
	}

	prompt := formatPrompt(responseDraftPrompt,
		email.Subject, email.Sender, truncate(email.Body, r.BodyLimit), userContext)

	raw, err := r.llm.Complete(ctx, llm.Request{
		Model:       r.model,
		Prompt:      prompt,
		Temperature: draftTemperature,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("email_id", email.ID).Msg("draft: model call failed")
		return ErrDraft
	}

	draft := strings.TrimSpace(raw)
	if email.ID != "" {
		if _, err := r.store.SaveDraft(email.ID, draft); err != nil {
			r.log.Error().Err(err).Str("email_id", email.ID).Msg("draft: persist failed")
		}
	}
	return draft
}

// Quick reply types.
const (
	ReplyAcknowledge = "acknowledge"
	ReplyDecline     = "decline"
	ReplyAccept      = "accept"
	ReplyRequestInfo = "request_info"
)

var quickReplyTemplates = map[string]string{
	ReplyAcknowledge: `Thank you for your email regarding %s.

I've received your message and will review it shortly. I'll get back to you with a detailed response soon.

Best regards`,
	ReplyDecline: `Thank you for reaching out regarding %s.

Unfortunately, I won't be able to accommodate this request at this time. I appreciate your understanding.

Best regards`,
	ReplyAccept: `Thank you for your email regarding %s.

I'm happy to confirm that I can help with this. Please let me know the next steps or if you need any additional information.

Best regards`,
	ReplyRequestInfo: `Thank you for your email regarding %s.

To better assist you, could you please provide some additional information:
- [Specific detail needed]
- [Another detail needed]

Looking forward to your response.

Best regards`,
}

// QuickReply fills one of the four local templates with the email's
// subject. No model call is made. Unrecognized types fall back to
// acknowledge.
func (r *Responder) QuickReply(email *types.Email, replyType string) string {
	template, ok := quickReplyTemplates[replyType]
	if !ok {
		template = quickReplyTemplates[ReplyAcknowledge]
	}
	subject := email.Subject
	if subject == "" {
		subject = "your message"
	}
	return fmt.Sprintf(template, subject)
}

// SuggestResponses composes response options keyed by style. A
// professional full draft is always included; URGENT and WORK emails
// also get a quick acknowledgment, PERSONAL emails a friendly draft.
func (r *Responder) SuggestResponses(ctx context.Context, email *types.Email) map[string]string {
	suggestions := map[string]string{
		"professional": r.DraftResponse(ctx, email, "", "professional"),
	}

	switch email.Category {
	case types.CategoryUrgent, types.CategoryWork:
		suggestions["quick_ack"] = r.QuickReply(email, ReplyAcknowledge)
	case types.CategoryPersonal:
		suggestions["friendly"] = r.DraftResponse(ctx, email, "", "friendly and casual")
	}
	return suggestions
}
