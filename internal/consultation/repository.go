// internal/consultation/repository.go
//
// sqlx helpers for the consultations table.
//
// Context
// -------
// The table is the only persistent state of the service:
//
//	consultations (id PK AUTO_INCREMENT, name, phone, national_id, province,
//	               city, consultation_type, consultation_topic,
//	               problem_description, documents, message, preferred_date,
//	               preferred_time, status, created_at, updated_at)
//
// Every statement is independent.  There are no transactions spanning
// statements and no slot-conflict guard; two bookings for the same date and
// time are both stored.
//
// Notes
// -----
//   - Placeholders use "?" (MySQL wire protocol).
//   - Timestamps are supplied by the caller so handlers and tests agree on
//     "now".
package consultation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("consultation not found")

// ErrEmptyPatch is returned by Update when the patch carries no fields.
var ErrEmptyPatch = errors.New("no fields to update")

const selectColumns = `SELECT id, name, phone, national_id, province, city,
       consultation_type, consultation_topic, problem_description,
       documents, message, preferred_date, preferred_time, status,
       created_at, updated_at
  FROM consultations`

// Repository reads and writes consultation rows.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wraps an open pool.
func NewRepository(db *sqlx.DB) *Repository { return &Repository{db: db} }

// Insert stores p with status pending and returns the new id.
func (r *Repository) Insert(ctx context.Context, p Payload, now time.Time) (int64, error) {
	const q = `INSERT INTO consultations
       (name, phone, national_id, province, city, consultation_type,
        consultation_topic, problem_description, documents, message,
        preferred_date, preferred_time, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	res, err := r.db.ExecContext(ctx, q,
		p.Name, p.Phone, p.NationalID, p.Province, p.City, p.ConsultationType,
		p.ConsultationTopic, p.ProblemDescription, p.Documents, p.Message,
		p.PreferredDate, p.PreferredTime, StatusPending, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert consultation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert consultation: last id: %w", err)
	}
	return id, nil
}

// Get fetches one row by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Record, error) {
	var rec Record
	err := r.db.GetContext(ctx, &rec, selectColumns+` WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get consultation %d: %w", id, err)
	}
	return &rec, nil
}

// List returns every row, newest first.
func (r *Repository) List(ctx context.Context) ([]Record, error) {
	rows := make([]Record, 0, 16)
	if err := r.db.SelectContext(ctx, &rows, selectColumns+` ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("list consultations: %w", err)
	}
	return rows, nil
}

// Update writes the supplied patch fields plus updated_at.  Existence is the
// caller's concern; MySQL reports zero affected rows for unchanged values.
func (r *Repository) Update(ctx context.Context, id int64, p Patch, now time.Time) error {
	if p.Empty() {
		return ErrEmptyPatch
	}

	as := p.assignments()
	sets := make([]string, 0, len(as)+1)
	args := make([]any, 0, len(as)+2)
	for _, a := range as {
		sets = append(sets, a.column+" = ?")
		args = append(args, a.value)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, now, id)

	q := `UPDATE consultations SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("update consultation %d: %w", id, err)
	}
	return nil
}

// Delete removes the row.  ErrNotFound when nothing was deleted.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM consultations WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete consultation %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete consultation %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ping reports whether the pool can reach the database.
func (r *Repository) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }
