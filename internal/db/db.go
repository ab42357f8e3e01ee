// Package db provides SQLite storage for mailsense.
//
// The Store is the single source of truth for emails, extracted
// actions and drafted replies. Agents hold a Store handle injected by
// the caller; the caller owns the open/close lifecycle.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkoester/mailsense/internal/types"
	_ "modernc.org/sqlite"
)

// Store wraps a SQLite connection for mailsense operations.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) a mailsense database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}

	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := conn.Exec(Schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Store{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Now returns the current time as an ISO 8601 string.
func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// Today returns the current date as an ISO date string.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// --- Email operations ---

// UpsertEmail inserts or fully replaces the row keyed by e.ID. The
// second write's values win field by field; re-fetching the same id
// never duplicates.
func (s *Store) UpsertEmail(e *types.Email) error {
	fetchedAt := e.FetchedAt
	if fetchedAt == "" {
		fetchedAt = Now()
	}
	// ON CONFLICT DO UPDATE rather than INSERT OR REPLACE: REPLACE
	// deletes the old row first, which would trip the foreign keys on
	// actions and drafts that reference it.
	_, err := s.conn.Exec(`
		INSERT INTO emails
			(id, thread_id, subject, sender, recipient, body, received_at,
			 category, priority, sentiment, urgency, summary, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			thread_id = excluded.thread_id,
			subject = excluded.subject,
			sender = excluded.sender,
			recipient = excluded.recipient,
			body = excluded.body,
			received_at = excluded.received_at,
			category = excluded.category,
			priority = excluded.priority,
			sentiment = excluded.sentiment,
			urgency = excluded.urgency,
			summary = excluded.summary,
			fetched_at = excluded.fetched_at`,
		e.ID, e.ThreadID, e.Subject, e.Sender, nullStr(e.Recipient), nullStr(e.Body),
		e.ReceivedAt, nullStr(e.Category), nullInt(e.Priority), nullStr(e.Sentiment),
		nullInt(e.Urgency), nullStr(e.Summary), fetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert email %s: %w", e.ID, err)
	}
	return nil
}

// GetEmail returns an email by ID, or nil if it does not exist.
func (s *Store) GetEmail(id string) (*types.Email, error) {
	row := s.conn.QueryRow(selectEmail+" WHERE id = ?", id)
	e, err := scanEmail(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// EmailsByCategory returns emails in a category, newest first.
func (s *Store) EmailsByCategory(category string, limit int) ([]*types.Email, error) {
	rows, err := s.conn.Query(
		selectEmail+" WHERE category = ? ORDER BY received_at DESC LIMIT ?",
		category, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmails(rows)
}

// RecentEmails returns the most recent emails, newest first.
func (s *Store) RecentEmails(limit int) ([]*types.Email, error) {
	rows, err := s.conn.Query(
		selectEmail+" ORDER BY received_at DESC LIMIT ?", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmails(rows)
}

// ThreadEmails returns all emails sharing a thread_id, oldest first.
func (s *Store) ThreadEmails(threadID string) ([]*types.Email, error) {
	rows, err := s.conn.Query(
		selectEmail+" WHERE thread_id = ? ORDER BY received_at ASC", threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEmails(rows)
}

// SetSummary updates the summary field of an email in place.
func (s *Store) SetSummary(id, summary string) error {
	_, err := s.conn.Exec("UPDATE emails SET summary = ? WHERE id = ?", summary, id)
	if err != nil {
		return fmt.Errorf("set summary for %s: %w", id, err)
	}
	return nil
}

// EmailCount returns the total number of emails.
func (s *Store) EmailCount() int {
	var n int
	s.conn.QueryRow("SELECT COUNT(*) FROM emails").Scan(&n)
	return n
}

// CategoryCounts returns email counts grouped by category. Emails not
// yet categorized are grouped under UNKNOWN.
func (s *Store) CategoryCounts() (map[string]int, error) {
	rows, err := s.conn.Query(
		"SELECT COALESCE(category, 'UNKNOWN'), COUNT(*) FROM emails GROUP BY category")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[string]int{}
	for rows.Next() {
		var cat string
		var count int
		if err := rows.Scan(&cat, &count); err != nil {
			return nil, err
		}
		counts[cat] = count
	}
	return counts, rows.Err()
}

// --- Action operations ---

// InsertAction appends a new action row and returns its generated id.
// Inserts are never deduplicated: running the same extraction twice
// yields two rows.
func (s *Store) InsertAction(a *types.Action) (int64, error) {
	priority := a.Priority
	if priority == "" {
		priority = types.ActionPriorityMedium
	}
	res, err := s.conn.Exec(`
		INSERT INTO actions (email_id, description, deadline, priority, people, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		a.EmailID, a.Description, nullStr(a.Deadline), priority,
		types.EncodePeople(a.People), Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert action for %s: %w", a.EmailID, err)
	}
	return res.LastInsertId()
}

// InsertActions appends a batch of actions in one transaction, so a
// crash mid-extraction never leaves a partial batch visible.
func (s *Store) InsertActions(actions []*types.Action) error {
	if len(actions) == 0 {
		return nil
	}
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	now := Now()
	for _, a := range actions {
		priority := a.Priority
		if priority == "" {
			priority = types.ActionPriorityMedium
		}
		res, err := tx.Exec(`
			INSERT INTO actions (email_id, description, deadline, priority, people, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			a.EmailID, a.Description, nullStr(a.Deadline), priority,
			types.EncodePeople(a.People), now,
		)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("insert action for %s: %w", a.EmailID, err)
		}
		a.ID, _ = res.LastInsertId()
		a.CreatedAt = now
	}
	return tx.Commit()
}

const selectActionJoined = `
	SELECT a.id, a.email_id, a.description, a.deadline, a.priority,
	       a.people, a.completed, a.created_at, e.subject, e.sender
	FROM actions a
	JOIN emails e ON a.email_id = e.id`

// PendingActions returns all incomplete actions joined with their
// owning email's subject and sender, ordered by deadline ascending.
// Actions without a deadline sort last, never first.
func (s *Store) PendingActions() ([]*types.Action, error) {
	rows, err := s.conn.Query(selectActionJoined + `
		WHERE a.completed = 0
		ORDER BY a.deadline IS NULL, a.deadline ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActions(rows)
}

// ActionsDueWithin returns incomplete actions with a deadline in
// [today, today+days], both ends inclusive, ordered by deadline.
func (s *Store) ActionsDueWithin(days int) ([]*types.Action, error) {
	today := time.Now()
	future := today.AddDate(0, 0, days)
	rows, err := s.conn.Query(selectActionJoined+`
		WHERE a.completed = 0
		  AND a.deadline IS NOT NULL
		  AND a.deadline BETWEEN ? AND ?
		ORDER BY a.deadline ASC`,
		today.Format("2006-01-02"), future.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanActions(rows)
}

// CompleteAction sets completed on an action. Returns false for an
// unknown id; that is a recoverable not-found, not a fault. Completing
// an already-completed action is a no-op that still returns true.
func (s *Store) CompleteAction(id int64) (bool, error) {
	res, err := s.conn.Exec("UPDATE actions SET completed = 1 WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("complete action %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ActionSummary returns counts over pending actions. Overdue means a
// deadline strictly before today: an action due today is not overdue.
func (s *Store) ActionSummary() (*types.ActionSummary, error) {
	sum := &types.ActionSummary{}
	if err := s.conn.QueryRow(
		"SELECT COUNT(*) FROM actions WHERE completed = 0").Scan(&sum.TotalPending); err != nil {
		return nil, err
	}
	if err := s.conn.QueryRow(
		"SELECT COUNT(*) FROM actions WHERE completed = 0 AND priority = 'high'").Scan(&sum.HighPriority); err != nil {
		return nil, err
	}
	if err := s.conn.QueryRow(
		"SELECT COUNT(*) FROM actions WHERE completed = 0 AND deadline IS NOT NULL AND deadline < ?",
		Today()).Scan(&sum.Overdue); err != nil {
		return nil, err
	}
	return sum, nil
}

// --- Draft operations ---

// SaveDraft appends a draft for an email and returns its generated id.
// Drafts are append-only history; nothing overwrites them.
func (s *Store) SaveDraft(emailID, content string) (int64, error) {
	res, err := s.conn.Exec(
		"INSERT INTO drafts (email_id, draft_content, created_at) VALUES (?, ?, ?)",
		emailID, content, Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("save draft for %s: %w", emailID, err)
	}
	return res.LastInsertId()
}

// DraftsForEmail returns all drafts for an email, newest first.
func (s *Store) DraftsForEmail(emailID string) ([]*types.Draft, error) {
	rows, err := s.conn.Query(`
		SELECT id, email_id, draft_content, created_at, sent
		FROM drafts WHERE email_id = ? ORDER BY created_at DESC, id DESC`, emailID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []*types.Draft
	for rows.Next() {
		d := &types.Draft{}
		var sent int
		if err := rows.Scan(&d.ID, &d.EmailID, &d.Content, &d.CreatedAt, &sent); err != nil {
			return nil, err
		}
		d.Sent = sent == 1
		result = append(result, d)
	}
	return result, rows.Err()
}

// --- Maintenance ---

// ClearAll deletes every row from all three tables in one transaction.
// There is no undo; the caller is responsible for confirmation.
func (s *Store) ClearAll() error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for _, table := range []string{"drafts", "actions", "emails"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			tx.Rollback()
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// --- Scan helpers ---

const selectEmail = `
	SELECT id, thread_id, subject, sender, recipient, body, received_at,
	       category, priority, sentiment, urgency, summary, fetched_at
	FROM emails`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmail(row rowScanner) (*types.Email, error) {
	e := &types.Email{}
	var threadID, subject, sender, recipient, body, receivedAt sql.NullString
	var category, sentiment, summary sql.NullString
	var priority, urgency sql.NullInt64
	if err := row.Scan(
		&e.ID, &threadID, &subject, &sender, &recipient, &body, &receivedAt,
		&category, &priority, &sentiment, &urgency, &summary, &e.FetchedAt,
	); err != nil {
		return nil, err
	}
	e.ThreadID = threadID.String
	e.Subject = subject.String
	e.Sender = sender.String
	e.Recipient = recipient.String
	e.Body = body.String
	e.ReceivedAt = receivedAt.String
	e.Category = category.String
	e.Priority = int(priority.Int64)
	e.Sentiment = sentiment.String
	e.Urgency = int(urgency.Int64)
	e.Summary = summary.String
	return e, nil
}

func scanEmails(rows *sql.Rows) ([]*types.Email, error) {
	var result []*types.Email
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

func scanActions(rows *sql.Rows) ([]*types.Action, error) {
	var result []*types.Action
	for rows.Next() {
		a := &types.Action{}
		var deadline, people, subject, sender sql.NullString
		var completed int
		if err := rows.Scan(
			&a.ID, &a.EmailID, &a.Description, &deadline, &a.Priority,
			&people, &completed, &a.CreatedAt, &subject, &sender,
		); err != nil {
			return nil, err
		}
		a.Deadline = deadline.String
		a.People = types.DecodePeople(people.String)
		a.Completed = completed == 1
		a.Subject = subject.String
		a.Sender = sender.String
		result = append(result, a)
	}
	return result, rows.Err()
}

func nullStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(n int) any {
	if n == 0 {
		return nil
	}
	return n
}
