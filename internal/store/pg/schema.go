package pg

// schemaSQL es el schema completo de argent. Los roles y access types se
// guardan como TEXT con CHECK en vez de enums nativos para poder ampliar
// sin ALTER TYPE.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS argent_users (
    id    UUID PRIMARY KEY,
    name  TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    role  TEXT NOT NULL CHECK (role IN ('Admin', 'User'))
);

CREATE TABLE IF NOT EXISTS checklists (
    id   UUID PRIMARY KEY,
    name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS checklist_access (
    checklist   UUID NOT NULL REFERENCES checklists(id),
    argent_user UUID NOT NULL REFERENCES argent_users(id),
    access_type TEXT NOT NULL CHECK (access_type IN ('Owner', 'Editor')),
    PRIMARY KEY (checklist, argent_user)
);

CREATE TABLE IF NOT EXISTS checklistitems (
    id         UUID PRIMARY KEY,
    title      TEXT NOT NULL,
    checklist  UUID NOT NULL REFERENCES checklists(id),
    done       BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_checklistitems_checklist ON checklistitems(checklist);
CREATE INDEX IF NOT EXISTS idx_checklist_access_user ON checklist_access(argent_user);

CREATE TABLE IF NOT EXISTS marble_game_status (
    argent_user     UUID PRIMARY KEY REFERENCES argent_users(id),
    highest_cleared INTEGER NOT NULL DEFAULT 0
);
`
