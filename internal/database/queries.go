package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/zapponejosh/amlich-api/internal/festival"
)

// parseTimestamp parses a timestamp from SQLite TEXT format.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

const observanceColumns = `id, name, calendar_type, month, day, notes, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanObservance(row rowScanner) (*Observance, error) {
	var o Observance
	var calendarType, createdAt, updatedAt string
	var notes sql.NullString

	if err := row.Scan(
		&o.ID,
		&o.Name,
		&calendarType,
		&o.Month,
		&o.Day,
		&notes,
		&createdAt,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	o.CalendarType = festival.Type(calendarType)
	if notes.Valid {
		o.Notes = &notes.String
	}
	o.CreatedAt = parseTimestamp(createdAt)
	o.UpdatedAt = parseTimestamp(updatedAt)
	return &o, nil
}

// CreateObservance validates and inserts o, filling in its ID and timestamps.
// Returns ErrDuplicate if the same name is already on that date.
func (db *DB) CreateObservance(ctx context.Context, o *Observance) error {
	if err := o.Validate(); err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, `
		INSERT INTO observances (name, calendar_type, month, day, notes)
		VALUES (?, ?, ?, ?, ?)
	`, o.Name, string(o.CalendarType), o.Month, o.Day, o.Notes)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert observance: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("get observance id: %w", err)
	}

	created, err := db.GetObservanceByID(ctx, id)
	if err != nil {
		return fmt.Errorf("reload observance: %w", err)
	}
	*o = *created
	return nil
}

// GetObservanceByID returns ErrNotFound if no observance has that ID.
func (db *DB) GetObservanceByID(ctx context.Context, id int64) (*Observance, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+observanceColumns+` FROM observances WHERE id = ?`, id)

	o, err := scanObservance(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query observance %d: %w", id, err)
	}
	return o, nil
}

// ListObservances returns all observances ordered by calendar, month and day.
func (db *DB) ListObservances(ctx context.Context) ([]Observance, error) {
	return db.queryObservances(ctx, `
		SELECT `+observanceColumns+`
		FROM observances
		ORDER BY calendar_type DESC, month, day, id
	`)
}

// GetObservancesOn returns the observances fixed to day/month of the given
// calendar. An empty result is not an error.
func (db *DB) GetObservancesOn(ctx context.Context, calendarType festival.Type, month, day int) ([]Observance, error) {
	return db.queryObservances(ctx, `
		SELECT `+observanceColumns+`
		FROM observances
		WHERE calendar_type = ? AND month = ? AND day = ?
		ORDER BY id
	`, string(calendarType), month, day)
}

func (db *DB) queryObservances(ctx context.Context, query string, args ...any) ([]Observance, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query observances: %w", err)
	}
	defer rows.Close()

	out := []Observance{}
	for rows.Next() {
		o, err := scanObservance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan observance: %w", err)
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observances: %w", err)
	}
	return out, nil
}

// DeleteObservance removes an observance. Returns ErrNotFound if it doesn't exist.
func (db *DB) DeleteObservance(ctx context.Context, id int64) error {
	res, err := db.ExecContext(ctx, `DELETE FROM observances WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete observance %d: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// ImportResult counts what ImportObservances did.
type ImportResult struct {
	Inserted int `json:"inserted"`
	Skipped  int `json:"skipped"`
}

// ImportObservances inserts all observances in one transaction. Entries that
// already exist are skipped. Any invalid entry aborts the import before
// anything is written.
func (db *DB) ImportObservances(ctx context.Context, obs []Observance) (ImportResult, error) {
	for i := range obs {
		if err := obs[i].Validate(); err != nil {
			return ImportResult{}, fmt.Errorf("observance %d (%q): %w", i+1, obs[i].Name, err)
		}
	}

	var result ImportResult
	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO observances (name, calendar_type, month, day, notes)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (name, calendar_type, month, day) DO NOTHING
		`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		for i, o := range obs {
			res, err := stmt.ExecContext(ctx, o.Name, string(o.CalendarType), o.Month, o.Day, o.Notes)
			if err != nil {
				return fmt.Errorf("insert observance %d: %w", i+1, err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("rows affected: %w", err)
			}
			if n == 0 {
				result.Skipped++
			} else {
				result.Inserted++
			}
		}
		return nil
	})
	if err != nil {
		return ImportResult{}, err
	}
	return result, nil
}
