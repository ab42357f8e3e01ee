package db

// Schema is the DDL for the mailsense database. The three tables are
// the durable interface shared with the CLI and the dashboard, so
// column names and types must stay stable across versions.
const Schema = `
CREATE TABLE IF NOT EXISTS emails (
    id           TEXT PRIMARY KEY,
    thread_id    TEXT,
    subject      TEXT,
    sender       TEXT,
    recipient    TEXT,
    body         TEXT,
    received_at  TEXT,
    category     TEXT,
    priority     INTEGER,
    sentiment    TEXT,
    urgency      INTEGER,
    summary      TEXT,
    fetched_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS actions (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    email_id     TEXT NOT NULL,
    description  TEXT NOT NULL,
    deadline     TEXT,
    priority     TEXT NOT NULL DEFAULT 'medium',
    people       TEXT,
    completed    INTEGER NOT NULL DEFAULT 0,
    created_at   TEXT NOT NULL,
    FOREIGN KEY (email_id) REFERENCES emails(id)
);

CREATE TABLE IF NOT EXISTS drafts (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    email_id       TEXT NOT NULL,
    draft_content  TEXT NOT NULL,
    created_at     TEXT NOT NULL,
    sent           INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (email_id) REFERENCES emails(id)
);

CREATE INDEX IF NOT EXISTS idx_emails_category ON emails(category);
CREATE INDEX IF NOT EXISTS idx_emails_received ON emails(received_at DESC);
CREATE INDEX IF NOT EXISTS idx_emails_thread ON emails(thread_id);
CREATE INDEX IF NOT EXISTS idx_actions_completed ON actions(completed);
CREATE INDEX IF NOT EXISTS idx_actions_deadline ON actions(deadline);
CREATE INDEX IF NOT EXISTS idx_drafts_email ON drafts(email_id);
`
