package database

// migrationsSQL contains all database migrations, applied in version order.
var migrationsSQL = map[int]string{
	1: migrationV1Observances,
}

// migrationV1Observances creates the observances table.
//
// An observance is fixed to a day/month of either calendar, like the
// festival tables, but is owned by users rather than compiled in.
// Lunar observances never carry a leap flag: a giỗ on 10/3 is kept on
// the regular third month.
const migrationV1Observances = `
CREATE TABLE IF NOT EXISTS observances (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL CHECK (length(trim(name)) > 0),
    calendar_type TEXT NOT NULL CHECK (calendar_type IN ('solar', 'lunar')),
    month INTEGER NOT NULL CHECK (month BETWEEN 1 AND 12),
    day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 31),
    notes TEXT,
    created_at TEXT NOT NULL DEFAULT (datetime('now')),
    updated_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (name, calendar_type, month, day)
);

-- Day lookups are keyed exactly like the festival tables.
CREATE INDEX IF NOT EXISTS idx_observances_date
    ON observances(calendar_type, month, day);
`
