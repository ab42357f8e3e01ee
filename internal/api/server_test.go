package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoester/mailsense/internal/agent"
	"github.com/pkoester/mailsense/internal/db"
	"github.com/pkoester/mailsense/internal/llm"
	"github.com/pkoester/mailsense/internal/types"
)

type fakeLLM struct {
	resp string
	err  error
}

func (f *fakeLLM) Complete(ctx context.Context, req llm.Request) (string, error) {
	return f.resp, f.err
}

func testServer(t *testing.T, client llm.Client) (*Server, *db.Store) {
	t.Helper()
	store, err := db.Open(filepath.Join(t.TempDir(), "emails.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	log := zerolog.Nop()
	srv := New(store,
		agent.NewCategorizer(client, "gpt-4", log),
		agent.NewSummarizer(client, store, "gpt-3.5-turbo", log),
		agent.NewResponder(client, store, "gpt-4", log),
		agent.NewExtractor(client, store, "gpt-4", log),
		log)
	return srv, store
}

func seedEmail(t *testing.T, store *db.Store, id, category string) *types.Email {
	t.Helper()
	email := &types.Email{
		ID:         id,
		ThreadID:   "thread-" + id,
		Subject:    "Subject " + id,
		Sender:     "sender@example.com",
		Body:       "body text",
		ReceivedAt: "2025-06-01T09:00:00Z",
		Category:   category,
	}
	require.NoError(t, store.UpsertEmail(email))
	return email
}

func do(t *testing.T, srv *Server, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestListEmails(t *testing.T) {
	srv, store := testServer(t, &fakeLLM{})
	seedEmail(t, store, "a", types.CategoryWork)
	seedEmail(t, store, "b", types.CategoryPersonal)

	rec := do(t, srv, http.MethodGet, "/api/emails", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var emails []*types.Email
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &emails))
	assert.Len(t, emails, 2)
}

func TestListEmailsByCategory(t *testing.T) {
	srv, store := testServer(t, &fakeLLM{})
	seedEmail(t, store, "a", types.CategoryWork)
	seedEmail(t, store, "b", types.CategoryPersonal)

	rec := do(t, srv, http.MethodGet, "/api/emails?category=WORK", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var emails []*types.Email
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &emails))
	require.Len(t, emails, 1)
	assert.Equal(t, "a", emails[0].ID)
}

func TestListEmailsEmptyIsArray(t *testing.T) {
	srv, _ := testServer(t, &fakeLLM{})

	rec := do(t, srv, http.MethodGet, "/api/emails", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
}

func TestGetEmailNotFound(t *testing.T) {
	srv, _ := testServer(t, &fakeLLM{})

	rec := do(t, srv, http.MethodGet, "/api/emails/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSummarizeEndpoint(t *testing.T) {
	srv, store := testServer(t, &fakeLLM{resp: "- first point that is long enough\n- second point also long enough"})
	seedEmail(t, store, "a", types.CategoryWork)

	rec := do(t, srv, http.MethodPost, "/api/emails/a/summarize", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		EmailID   string   `json:"email_id"`
		Summary   string   `json:"summary"`
		KeyPoints []string `json:"key_points"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "a", body.EmailID)
	assert.Len(t, body.KeyPoints, 2)

	stored, err := store.GetEmail("a")
	require.NoError(t, err)
	assert.Equal(t, body.Summary, stored.Summary)
}

func TestDraftEndpointAgentFaultStays200(t *testing.T) {
	srv, store := testServer(t, &fakeLLM{err: assert.AnError})
	seedEmail(t, store, "a", types.CategoryWork)

	rec := do(t, srv, http.MethodPost, "/api/emails/a/draft", `{"tone": "friendly"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, agent.ErrDraft, body["draft"])

	drafts, err := store.DraftsForEmail("a")
	require.NoError(t, err)
	assert.Empty(t, drafts, "fallback drafts are not persisted")
}

func TestExtractEndpoint(t *testing.T) {
	srv, store := testServer(t, &fakeLLM{resp: `{"actions": [{"description": "File report", "deadline": "2030-01-01", "priority": "high", "people": []}]}`})
	seedEmail(t, store, "a", types.CategoryWork)

	rec := do(t, srv, http.MethodPost, "/api/emails/a/actions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Actions []*types.Action `json:"actions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Actions, 1)
	assert.Equal(t, "File report", body.Actions[0].Description)

	pending, err := store.PendingActions()
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

func TestListActionsIncludesSummary(t *testing.T) {
	srv, store := testServer(t, &fakeLLM{})
	seedEmail(t, store, "a", types.CategoryWork)
	_, err := store.InsertAction(&types.Action{EmailID: "a", Description: "Do it", Priority: types.ActionPriorityHigh})
	require.NoError(t, err)

	rec := do(t, srv, http.MethodGet, "/api/actions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Actions []*types.Action      `json:"actions"`
		Summary *types.ActionSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Actions, 1)
	require.NotNil(t, body.Summary)
	assert.Equal(t, 1, body.Summary.TotalPending)
	assert.Equal(t, 1, body.Summary.HighPriority)
}

func TestCompleteActionNotFound(t *testing.T) {
	srv, _ := testServer(t, &fakeLLM{})

	rec := do(t, srv, http.MethodPost, "/api/actions/99/complete", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteActionBadID(t *testing.T) {
	srv, _ := testServer(t, &fakeLLM{})

	rec := do(t, srv, http.MethodPost, "/api/actions/notanumber/complete", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompleteAction(t *testing.T) {
	srv, store := testServer(t, &fakeLLM{})
	seedEmail(t, store, "a", types.CategoryWork)
	id, err := store.InsertAction(&types.Action{EmailID: "a", Description: "Do it"})
	require.NoError(t, err)

	rec := do(t, srv, http.MethodPost, "/api/actions/1/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, int64(1), id)

	pending, err := store.PendingActions()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestStats(t *testing.T) {
	srv, store := testServer(t, &fakeLLM{})
	seedEmail(t, store, "a", types.CategoryWork)
	seedEmail(t, store, "b", "")

	rec := do(t, srv, http.MethodGet, "/api/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalEmails int            `json:"total_emails"`
		Categories  map[string]int `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2, body.TotalEmails)
	assert.Equal(t, 1, body.Categories[types.CategoryWork])
	assert.Equal(t, 1, body.Categories[types.CategoryUnknown])
}

func TestClearRequiresConfirmation(t *testing.T) {
	srv, store := testServer(t, &fakeLLM{})
	seedEmail(t, store, "a", types.CategoryWork)

	rec := do(t, srv, http.MethodDelete, "/api/database", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	assert.Equal(t, 1, store.EmailCount())

	rec = do(t, srv, http.MethodDelete, "/api/database?confirm=yes", "")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 0, store.EmailCount())
}
