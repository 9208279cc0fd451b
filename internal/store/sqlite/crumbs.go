package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/breadcrumbsapp/breadcrumbs-server/internal/domain"
	"github.com/breadcrumbsapp/breadcrumbs-server/internal/store"
)

// crumbColumns is the ordered list of columns selected in crumb queries.
// Must match the scan order in scanCrumb.
const crumbColumns = `c.id, c.body_md, c.visibility, c.unit_id, c.created_at, c.updated_at`

// scanCrumb scans a sql.Row (or sql.Rows via its Scan method) into a domain.Crumb.
func scanCrumb(scanner interface{ Scan(dest ...any) error }) (*domain.Crumb, error) {
	var c domain.Crumb

	var (
		visibility string
		unitID     sql.NullString
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&c.ID,
		&c.BodyMD,
		&visibility,
		&unitID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Visibility = domain.Visibility(visibility)
	if unitID.Valid {
		c.UnitID = unitID.String
	}

	c.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	c.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &c, nil
}

// CreateCrumb inserts a crumb and its tag join rows in one transaction.
// A failed insert leaves neither the crumb nor any join rows behind.
func (s *Store) CreateCrumb(ctx context.Context, crumb *domain.Crumb, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO crumbs (id, body_md, visibility, unit_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		crumb.ID,
		crumb.BodyMD,
		string(crumb.Visibility),
		nullString(crumb.UnitID),
		formatTime(crumb.CreatedAt),
		formatTime(crumb.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return store.ErrAlreadyExists
		}
		return fmt.Errorf("insert crumb: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO crumb_tags (crumb_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			crumb.ID,
			tagID,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert crumb_tag: %w", err)
		}
	}

	return tx.Commit()
}

// GetCrumb retrieves a crumb by its ID.
// Returns store.ErrNotFound if the crumb does not exist.
func (s *Store) GetCrumb(ctx context.Context, id string) (*domain.Crumb, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+crumbColumns+` FROM crumbs c WHERE c.id = ?`, id)

	c, err := scanCrumb(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCrumb persists body, visibility, unit, and updated_at for an
// existing crumb. created_at is immutable and never written.
// Returns store.ErrNotFound if the crumb does not exist.
func (s *Store) UpdateCrumb(ctx context.Context, crumb *domain.Crumb) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE crumbs
		SET body_md = ?, visibility = ?, unit_id = ?, updated_at = ?
		WHERE id = ?`,
		crumb.BodyMD,
		string(crumb.Visibility),
		nullString(crumb.UnitID),
		formatTime(crumb.UpdatedAt),
		crumb.ID,
	)
	if err != nil {
		return fmt.Errorf("update crumb: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListCrumbs returns one page of crumbs matching the filter plus the
// total match count. Default order is created_at descending; a
// full-text query orders by bm25 rank instead.
func (s *Store) ListCrumbs(ctx context.Context, filter store.CrumbFilter, page store.PaginationParams) ([]*domain.Crumb, int, error) {
	page.Validate()

	from := `FROM crumbs c`
	var conds []string
	var args []any

	// A query with no searchable terms (e.g. all whitespace) would hand
	// an empty expression to MATCH, which FTS5 rejects. Treat it as no
	// full-text filter instead.
	ftsMatch := ftsQuery(filter.Query)
	if ftsMatch != "" {
		from += ` JOIN (SELECT rowid, rank FROM crumbs_fts WHERE crumbs_fts MATCH ?) fts ON fts.rowid = c.rowid`
		args = append(args, ftsMatch)
	}
	if filter.TagSlug != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM crumb_tags ct
			JOIN tags t ON t.id = ct.tag_id
			WHERE ct.crumb_id = c.id AND t.slug = ?)`)
		args = append(args, filter.TagSlug)
	}
	if filter.UnitID != "" {
		conds = append(conds, `c.unit_id = ?`)
		args = append(args, filter.UnitID)
	}
	if filter.Visibility != "" {
		conds = append(conds, `c.visibility = ?`)
		args = append(args, string(filter.Visibility))
	}

	where := ""
	if len(conds) > 0 {
		where = ` WHERE ` + strings.Join(conds, ` AND `)
	}

	var total int
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) `+from+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count crumbs: %w", err)
	}

	order := ` ORDER BY c.created_at DESC, c.id DESC`
	if ftsMatch != "" {
		order = ` ORDER BY fts.rank, c.created_at DESC`
	}

	query := `SELECT ` + crumbColumns + ` ` + from + where + order + ` LIMIT ? OFFSET ?`
	args = append(args, page.Limit, page.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query crumbs: %w", err)
	}
	defer rows.Close()

	var crumbs []*domain.Crumb
	for rows.Next() {
		c, err := scanCrumb(rows)
		if err != nil {
			return nil, 0, err
		}
		crumbs = append(crumbs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if crumbs == nil {
		crumbs = []*domain.Crumb{}
	}

	return crumbs, total, nil
}

// SetCrumbTags replaces all tags for a crumb in a single transaction.
// It deletes existing crumb_tags rows and inserts the new set.
func (s *Store) SetCrumbTags(ctx context.Context, crumbID string, tagIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM crumb_tags WHERE crumb_id = ?`, crumbID); err != nil {
		return fmt.Errorf("delete crumb_tags: %w", err)
	}

	now := formatTime(time.Now().UTC())
	for _, tagID := range tagIDs {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO crumb_tags (crumb_id, tag_id, created_at)
			VALUES (?, ?, ?)`,
			crumbID,
			tagID,
			now,
		)
		if err != nil {
			return fmt.Errorf("insert crumb_tag: %w", err)
		}
	}

	return tx.Commit()
}

// GetCrumbTags returns the tags attached to a crumb, ordered by slug.
func (s *Store) GetCrumbTags(ctx context.Context, crumbID string) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.slug, t.created_at, t.updated_at
		FROM crumb_tags ct
		JOIN tags t ON t.id = ct.tag_id
		WHERE ct.crumb_id = ?
		ORDER BY t.slug ASC`, crumbID)
	if err != nil {
		return nil, fmt.Errorf("query crumb_tags: %w", err)
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// ftsQuery turns raw user input into a safe FTS5 match expression.
// Each whitespace-separated term is double-quoted so punctuation in
// the input cannot break the match syntax; terms AND together.
func ftsQuery(input string) string {
	terms := strings.Fields(input)
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		term = strings.ReplaceAll(term, `"`, `""`)
		quoted = append(quoted, `"`+term+`"`)
	}
	return strings.Join(quoted, " ")
}
