package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/domain"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/store"
)

// unitColumns is the ordered list of columns selected in unit queries.
// Must match the scan order in scanUnit.
const unitColumns = `id, name, created_at`

// scanUnit scans a sql.Row (or sql.Rows via its Scan method) into a domain.Unit.
func scanUnit(scanner interface{ Scan(dest ...any) error }) (*domain.Unit, error) {
	var u domain.Unit

	var createdAt string

	err := scanner.Scan(
		&u.ID,
		&u.Name,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// CreateUnit inserts a new unit. Units are append-only; a repeated name
// always creates a distinct row.
func (s *Store) CreateUnit(ctx context.Context, u *domain.Unit) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO units (id, name, created_at)
		VALUES (?, ?, ?)`,
		u.ID,
		u.Name,
		formatTime(u.CreatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetUnit retrieves a unit by its ID.
// Returns store.ErrNotFound if the unit does not exist.
func (s *Store) GetUnit(ctx context.Context, id string) (*domain.Unit, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+unitColumns+` FROM units WHERE id = ?`, id)

	u, err := scanUnit(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUnits returns all units ordered by created_at ascending, so
// sessions read in the order they were started.
func (s *Store) ListUnits(ctx context.Context) ([]*domain.Unit, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+unitColumns+` FROM units ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []*domain.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if units == nil {
		units = []*domain.Unit{}
	}

	return units, nil
}
