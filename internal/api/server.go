// Package api exposes the dashboard surface as a JSON HTTP API:
// inbox, analytics and actions pages read from the store, and the
// agent endpoints trigger on-demand summarization, drafting and
// extraction. Agent faults never surface as HTTP errors — the
// dashboard always gets a displayable value.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/pkoester/mailsense/internal/agent"
	"github.com/pkoester/mailsense/internal/db"
	"github.com/pkoester/mailsense/internal/types"
)

// Server handles dashboard API requests.
type Server struct {
	store       *db.Store
	categorizer *agent.Categorizer
	summarizer  *agent.Summarizer
	responder   *agent.Responder
	extractor   *agent.Extractor
	log         zerolog.Logger
}

// New returns a dashboard API server over the given store and agents.
func New(store *db.Store, cat *agent.Categorizer, sum *agent.Summarizer,
	resp *agent.Responder, ext *agent.Extractor, log zerolog.Logger) *Server {
	return &Server{
		store:       store,
		categorizer: cat,
		summarizer:  sum,
		responder:   resp,
		extractor:   ext,
		log:         log,
	}
}

// Router builds the HTTP route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestID, s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/emails", s.handleListEmails).Methods(http.MethodGet)
	api.HandleFunc("/emails/{id}", s.handleGetEmail).Methods(http.MethodGet)
	api.HandleFunc("/emails/{id}/summarize", s.handleSummarize).Methods(http.MethodPost)
	api.HandleFunc("/emails/{id}/draft", s.handleDraft).Methods(http.MethodPost)
	api.HandleFunc("/emails/{id}/actions", s.handleExtract).Methods(http.MethodPost)
	api.HandleFunc("/actions", s.handleListActions).Methods(http.MethodGet)
	api.HandleFunc("/actions/due", s.handleActionsDue).Methods(http.MethodGet)
	api.HandleFunc("/actions/{id}/complete", s.handleComplete).Methods(http.MethodPost)
	api.HandleFunc("/stats", s.handleStats).Methods(http.MethodGet)
	api.HandleFunc("/database", s.handleClear).Methods(http.MethodDelete)
	return r
}

func (s *Server) handleListEmails(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	category := r.URL.Query().Get("category")

	var emails []*types.Email
	var err error
	if category != "" {
		emails, err = s.store.EmailsByCategory(category, limit)
	} else {
		emails, err = s.store.RecentEmails(limit)
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if emails == nil {
		emails = []*types.Email{}
	}
	s.writeJSON(w, http.StatusOK, emails)
}

func (s *Server) handleGetEmail(w http.ResponseWriter, r *http.Request) {
	email, ok := s.lookupEmail(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, email)
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	email, ok := s.lookupEmail(w, r)
	if !ok {
		return
	}
	summary := s.summarizer.SummarizeEmail(r.Context(), email)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"email_id":   email.ID,
		"summary":    summary,
		"key_points": agent.KeyPoints(summary),
	})
}

func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request) {
	email, ok := s.lookupEmail(w, r)
	if !ok {
		return
	}

	var req struct {
		Tone    string `json:"tone"`
		Context string `json:"context"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req) // empty body means defaults
	}

	draft := s.responder.DraftResponse(r.Context(), email, req.Context, req.Tone)
	s.writeJSON(w, http.StatusOK, map[string]string{
		"email_id": email.ID,
		"draft":    draft,
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	email, ok := s.lookupEmail(w, r)
	if !ok {
		return
	}
	actions := s.extractor.ExtractActions(r.Context(), email)
	if actions == nil {
		actions = []*types.Action{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"email_id": email.ID,
		"actions":  actions,
	})
}

func (s *Server) handleListActions(w http.ResponseWriter, r *http.Request) {
	actions, err := s.store.PendingActions()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	summary, err := s.store.ActionSummary()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if actions == nil {
		actions = []*types.Action{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"actions": actions,
		"summary": summary,
	})
}

func (s *Server) handleActionsDue(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)
	actions, err := s.store.ActionsDueWithin(days)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if actions == nil {
		actions = []*types.Action{}
	}
	s.writeJSON(w, http.StatusOK, actions)
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid action id")
		return
	}
	ok, err := s.store.CompleteAction(id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		s.writeError(w, http.StatusNotFound, "action not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"id": id, "completed": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CategoryCounts()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	summary, err := s.store.ActionSummary()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"total_emails": s.store.EmailCount(),
		"categories":   counts,
		"actions":      summary,
	})
}

// handleClear is the destructive bulk delete. It refuses to run
// without confirm=yes; that confirmation gate lives here at the
// presentation boundary, not in the store.
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("confirm") != "yes" {
		s.writeError(w, http.StatusForbidden, "pass confirm=yes to clear the database")
		return
	}
	if err := s.store.ClearAll(); err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.log.Info().Msg("database cleared")
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// lookupEmail resolves the {id} path variable; a missing email writes
// a 404 and reports !ok.
func (s *Server) lookupEmail(w http.ResponseWriter, r *http.Request) (*types.Email, bool) {
	id := mux.Vars(r)["id"]
	email, err := s.store.GetEmail(id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if email == nil {
		s.writeError(w, http.StatusNotFound, "email not found")
		return nil, false
	}
	return email, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
