package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkoester/mailsense/internal/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "emails.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testEmail(id, receivedAt string) *types.Email {
	return &types.Email{
		ID:         id,
		ThreadID:   "thread-1",
		Subject:    "Quarterly planning",
		Sender:     "alice@example.com",
		Recipient:  "me@example.com",
		Body:       "Please review the attached plan.",
		ReceivedAt: receivedAt,
	}
}

func isoDate(daysFromNow int) string {
	return time.Now().AddDate(0, 0, daysFromNow).Format("2006-01-02")
}

func TestUpsertEmailReplaces(t *testing.T) {
	s := testStore(t)

	e := testEmail("msg-1", "2025-06-01T10:00:00Z")
	e.Category = types.CategoryWork
	e.Priority = 7
	e.Summary = "first summary"
	require.NoError(t, s.UpsertEmail(e))

	// Second write wins entirely: field-by-field replace, not merge.
	e2 := testEmail("msg-1", "2025-06-01T10:00:00Z")
	e2.Subject = "Quarterly planning (updated)"
	e2.Category = types.CategoryUrgent
	e2.Priority = 9
	require.NoError(t, s.UpsertEmail(e2))

	assert.Equal(t, 1, s.EmailCount())

	got, err := s.GetEmail("msg-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Quarterly planning (updated)", got.Subject)
	assert.Equal(t, types.CategoryUrgent, got.Category)
	assert.Equal(t, 9, got.Priority)
	assert.Empty(t, got.Summary, "replace must not merge old fields")
}

func TestUpsertEmailKeepsReferencingRows(t *testing.T) {
	s := testStore(t)

	e := testEmail("msg-1", "2025-06-01T10:00:00Z")
	require.NoError(t, s.UpsertEmail(e))
	_, err := s.InsertAction(&types.Action{EmailID: "msg-1", Description: "reply"})
	require.NoError(t, err)
	_, err = s.SaveDraft("msg-1", "draft text")
	require.NoError(t, err)

	// Re-fetching the email must not delete or orphan its actions and
	// drafts.
	require.NoError(t, s.UpsertEmail(testEmail("msg-1", "2025-06-01T10:00:00Z")))

	actions, err := s.PendingActions()
	require.NoError(t, err)
	assert.Len(t, actions, 1)
	drafts, err := s.DraftsForEmail("msg-1")
	require.NoError(t, err)
	assert.Len(t, drafts, 1)
}

func TestGetEmailAbsent(t *testing.T) {
	s := testStore(t)
	got, err := s.GetEmail("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRecentEmailsOrdering(t *testing.T) {
	s := testStore(t)

	// Insert out of chronological order.
	require.NoError(t, s.UpsertEmail(testEmail("B", "2025-06-02T09:00:00Z")))
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-03T09:00:00Z")))
	require.NoError(t, s.UpsertEmail(testEmail("C", "2025-06-01T09:00:00Z")))

	emails, err := s.RecentEmails(10)
	require.NoError(t, err)
	require.Len(t, emails, 3)
	assert.Equal(t, "A", emails[0].ID)
	assert.Equal(t, "B", emails[1].ID)
	assert.Equal(t, "C", emails[2].ID)
}

func TestEmailsByCategory(t *testing.T) {
	s := testStore(t)

	work := testEmail("w1", "2025-06-01T09:00:00Z")
	work.Category = types.CategoryWork
	spam := testEmail("s1", "2025-06-02T09:00:00Z")
	spam.Category = types.CategorySpam
	require.NoError(t, s.UpsertEmail(work))
	require.NoError(t, s.UpsertEmail(spam))

	emails, err := s.EmailsByCategory(types.CategoryWork, 10)
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, "w1", emails[0].ID)
}

func TestThreadEmailsOldestFirst(t *testing.T) {
	s := testStore(t)

	require.NoError(t, s.UpsertEmail(testEmail("t2", "2025-06-02T09:00:00Z")))
	require.NoError(t, s.UpsertEmail(testEmail("t1", "2025-06-01T09:00:00Z")))

	emails, err := s.ThreadEmails("thread-1")
	require.NoError(t, err)
	require.Len(t, emails, 2)
	assert.Equal(t, "t1", emails[0].ID)
	assert.Equal(t, "t2", emails[1].ID)
}

func TestSetSummary(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("msg-1", "2025-06-01T09:00:00Z")))
	require.NoError(t, s.SetSummary("msg-1", "short summary"))

	got, err := s.GetEmail("msg-1")
	require.NoError(t, err)
	assert.Equal(t, "short summary", got.Summary)
}

func TestPendingActionsNullDeadlinesSortLast(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-01T09:00:00Z")))

	_, err := s.InsertAction(&types.Action{
		EmailID:     "A",
		Description: "no deadline",
		Priority:    types.ActionPriorityLow,
	})
	require.NoError(t, err)
	_, err = s.InsertAction(&types.Action{
		EmailID:     "A",
		Description: "with deadline",
		Deadline:    "2025-01-01",
		Priority:    types.ActionPriorityHigh,
	})
	require.NoError(t, err)

	actions, err := s.PendingActions()
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "with deadline", actions[0].Description)
	assert.Equal(t, "no deadline", actions[1].Description, "missing deadline must not sort first")

	// Joined fields come from the owning email.
	assert.Equal(t, "Quarterly planning", actions[0].Subject)
	assert.Equal(t, "alice@example.com", actions[0].Sender)
}

func TestPendingActionsExcludesCompleted(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-01T09:00:00Z")))

	id, err := s.InsertAction(&types.Action{EmailID: "A", Description: "done soon"})
	require.NoError(t, err)

	ok, err := s.CompleteAction(id)
	require.NoError(t, err)
	assert.True(t, ok)

	actions, err := s.PendingActions()
	require.NoError(t, err)
	assert.Empty(t, actions)
}

func TestCompleteActionNotFound(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-01T09:00:00Z")))
	_, err := s.InsertAction(&types.Action{EmailID: "A", Description: "x"})
	require.NoError(t, err)

	ok, err := s.CompleteAction(9999)
	require.NoError(t, err, "unknown id is a recoverable not-found, not a fault")
	assert.False(t, ok)

	actions, err := s.PendingActions()
	require.NoError(t, err)
	assert.Len(t, actions, 1, "table unchanged")
}

func TestCompleteActionIdempotent(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-01T09:00:00Z")))
	id, err := s.InsertAction(&types.Action{EmailID: "A", Description: "x"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		ok, err := s.CompleteAction(id)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestInsertActionDefaultsAndPeople(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-01T09:00:00Z")))

	_, err := s.InsertAction(&types.Action{
		EmailID:     "A",
		Description: "call back",
		People:      []string{"Bob", "Carol"},
	})
	require.NoError(t, err)

	actions, err := s.PendingActions()
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, types.ActionPriorityMedium, actions[0].Priority)
	assert.Equal(t, []string{"Bob", "Carol"}, actions[0].People)
	assert.False(t, actions[0].Completed)
}

func TestInsertActionNoDedup(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-01T09:00:00Z")))

	a := types.Action{EmailID: "A", Description: "same thing"}
	for i := 0; i < 2; i++ {
		dup := a
		_, err := s.InsertAction(&dup)
		require.NoError(t, err)
	}

	actions, err := s.PendingActions()
	require.NoError(t, err)
	assert.Len(t, actions, 2, "duplicate extraction appends, never dedupes")
}

func TestActionsDueWithinInclusiveBounds(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-01T09:00:00Z")))

	insert := func(desc, deadline string) {
		_, err := s.InsertAction(&types.Action{EmailID: "A", Description: desc, Deadline: deadline})
		require.NoError(t, err)
	}
	insert("due today", isoDate(0))
	insert("due at edge", isoDate(7))
	insert("past edge", isoDate(8))
	insert("yesterday", isoDate(-1))
	_, err := s.InsertAction(&types.Action{EmailID: "A", Description: "no deadline"})
	require.NoError(t, err)

	actions, err := s.ActionsDueWithin(7)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, "due today", actions[0].Description)
	assert.Equal(t, "due at edge", actions[1].Description)
}

func TestActionSummaryOverdueIsStrict(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-01T09:00:00Z")))

	insert := func(a types.Action) int64 {
		a.EmailID = "A"
		id, err := s.InsertAction(&a)
		require.NoError(t, err)
		return id
	}
	insert(types.Action{Description: "overdue", Deadline: isoDate(-1), Priority: types.ActionPriorityHigh})
	insert(types.Action{Description: "due today", Deadline: isoDate(0)})
	insert(types.Action{Description: "future", Deadline: isoDate(3)})
	done := insert(types.Action{Description: "completed overdue", Deadline: isoDate(-2)})
	_, err := s.CompleteAction(done)
	require.NoError(t, err)

	sum, err := s.ActionSummary()
	require.NoError(t, err)
	assert.Equal(t, 3, sum.TotalPending)
	assert.Equal(t, 1, sum.HighPriority)
	assert.Equal(t, 1, sum.Overdue, "due-today is not overdue; completed never counts")
}

func TestSaveDraftAppendOnly(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-01T09:00:00Z")))

	id1, err := s.SaveDraft("A", "first draft")
	require.NoError(t, err)
	id2, err := s.SaveDraft("A", "second draft")
	require.NoError(t, err)
	assert.Greater(t, id2, id1)

	drafts, err := s.DraftsForEmail("A")
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	assert.Equal(t, "second draft", drafts[0].Content)
	assert.False(t, drafts[0].Sent, "sent stays reserved/unused")
}

func TestClearAll(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-01T09:00:00Z")))
	_, err := s.InsertAction(&types.Action{EmailID: "A", Description: "x"})
	require.NoError(t, err)
	_, err = s.SaveDraft("A", "d")
	require.NoError(t, err)

	require.NoError(t, s.ClearAll())

	assert.Equal(t, 0, s.EmailCount())
	actions, err := s.PendingActions()
	require.NoError(t, err)
	assert.Empty(t, actions)
	drafts, err := s.DraftsForEmail("A")
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestInsertActionsBatch(t *testing.T) {
	s := testStore(t)
	require.NoError(t, s.UpsertEmail(testEmail("A", "2025-06-01T09:00:00Z")))

	batch := []*types.Action{
		{EmailID: "A", Description: "one", Priority: types.ActionPriorityHigh},
		{EmailID: "A", Description: "two"},
	}
	require.NoError(t, s.InsertActions(batch))

	assert.NotZero(t, batch[0].ID)
	assert.NotZero(t, batch[1].ID)

	actions, err := s.PendingActions()
	require.NoError(t, err)
	assert.Len(t, actions, 2)
}

func TestCategoryCounts(t *testing.T) {
	s := testStore(t)

	w := testEmail("w1", "2025-06-01T09:00:00Z")
	w.Category = types.CategoryWork
	require.NoError(t, s.UpsertEmail(w))
	require.NoError(t, s.UpsertEmail(testEmail("u1", "2025-06-02T09:00:00Z")))

	counts, err := s.CategoryCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[types.CategoryWork])
	assert.Equal(t, 1, counts[types.CategoryUnknown])
}
