package local

const schemaSQL = `
CREATE TABLE IF NOT EXISTS projects (
    id           TEXT PRIMARY KEY,
    title        TEXT NOT NULL,
    client       TEXT NOT NULL DEFAULT '',
    type         TEXT NOT NULL,
    status       TEXT NOT NULL,
    budget       TEXT NOT NULL DEFAULT '0',
    paid_amount  TEXT NOT NULL DEFAULT '0',
    start_date   TEXT NOT NULL DEFAULT '',
    deadline     TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS transactions (
    id           TEXT PRIMARY KEY,
    type         TEXT NOT NULL,
    amount       TEXT NOT NULL,
    category     TEXT NOT NULL DEFAULT '',
    date         TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    project_id   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS notifications (
    id           TEXT PRIMARY KEY,
    kind         TEXT NOT NULL DEFAULT '',
    title        TEXT NOT NULL,
    message      TEXT NOT NULL,
    date         TEXT NOT NULL,
    is_read      INTEGER NOT NULL DEFAULT 0,
    project_id   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS assets (
    id             TEXT PRIMARY KEY,
    name           TEXT NOT NULL,
    category       TEXT NOT NULL DEFAULT '',
    quantity       INTEGER NOT NULL DEFAULT 1,
    brand          TEXT NOT NULL DEFAULT '',
    condition      TEXT NOT NULL DEFAULT 'good',
    value          TEXT NOT NULL DEFAULT '0',
    purchase_date  TEXT NOT NULL DEFAULT '',
    notes          TEXT NOT NULL DEFAULT '',
    created_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transactions_project ON transactions(project_id);
CREATE INDEX IF NOT EXISTS idx_notifications_project ON notifications(project_id);
CREATE INDEX IF NOT EXISTS idx_notifications_date ON notifications(date);
CREATE INDEX IF NOT EXISTS idx_assets_created ON assets(created_at);
`
