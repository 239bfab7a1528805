package remote

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
    account_id  TEXT        NOT NULL,
    collection  TEXT        NOT NULL,
    id          TEXT        NOT NULL,
    body        JSONB       NOT NULL,
    sort_key    TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (account_id, collection, id)
);

CREATE INDEX IF NOT EXISTS idx_documents_sort ON documents (account_id, collection, sort_key DESC);
`
