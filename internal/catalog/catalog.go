// Package catalog stores the mods installed for the current game.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

// Mod is an installed mod file known to the catalog.
type Mod struct {
	ID          int64
	Path        string
	FileName    string
	Info        modinfo.Info
	InstalledAt time.Time
	UpdatedAt   time.Time
}

// Filter specifies criteria for listing mods.
type Filter struct {
	Name   string // Case-insensitive substring of the mod name or file name
	Limit  int
	Offset int
}

// Store persists mods.
type Store struct {
	db *sql.DB
}

// NewStore creates a catalog store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const modColumns = `id, path, file_name, source_id, name, version, author, category, website, description, installed_at, updated_at`

// RegisterMod records the mod file at path.
// This method is idempotent: registering a path twice returns the existing mod.
func (s *Store) RegisterMod(ctx context.Context, path string) (*Mod, error) {
	path = filepath.Clean(path)

	existing, err := s.GetByPath(ctx, path)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	m := &Mod{
		Path:        path,
		FileName:    filepath.Base(path),
		InstalledAt: now,
		UpdatedAt:   now,
	}

	// ON CONFLICT keeps a concurrent registration of the same path harmless
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO mods (path, file_name, installed_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO NOTHING`,
		m.Path, m.FileName, m.InstalledAt, m.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert mod: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return s.GetByPath(ctx, path)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("get last insert id: %w", err)
	}
	m.ID = id
	return m, nil
}

// Get retrieves a mod by ID.
// Returns ErrNotFound if the mod does not exist.
func (s *Store) Get(ctx context.Context, id int64) (*Mod, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+modColumns+` FROM mods WHERE id = ?`, id)
	m, err := scanMod(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get mod %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get mod %d: %w", id, err)
	}
	return m, nil
}

// GetByPath retrieves a mod by its installed path.
// Returns ErrNotFound if no mod is registered at path.
func (s *Store) GetByPath(ctx context.Context, path string) (*Mod, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+modColumns+` FROM mods WHERE path = ?`, filepath.Clean(path))
	m, err := scanMod(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get mod by path %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get mod by path %s: %w", path, err)
	}
	return m, nil
}

// List returns mods matching the filter ordered by ID, plus the total
// number of matches before pagination.
func (s *Store) List(ctx context.Context, f Filter) ([]*Mod, int, error) {
	var conditions []string
	var args []any

	if f.Name != "" {
		pattern := "%" + strings.ToLower(f.Name) + "%"
		conditions = append(conditions, "(LOWER(name) LIKE ? OR LOWER(file_name) LIKE ?)")
		args = append(args, pattern, pattern)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM mods"+whereClause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count mods: %w", err)
	}

	query := "SELECT " + modColumns + " FROM mods" + whereClause + " ORDER BY id"
	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list mods: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*Mod
	for rows.Next() {
		m, err := scanMod(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan mod: %w", err)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate mods: %w", err)
	}

	return results, total, nil
}

// UpdateInfo replaces the metadata of a mod.
// Returns ErrNotFound if the mod does not exist.
func (s *Store) UpdateInfo(ctx context.Context, id int64, info modinfo.Info) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE mods SET source_id = ?, name = ?, version = ?, author = ?, category = ?, website = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		info.ID, info.Name, info.Version, info.Author, info.Category, info.Website, info.Description, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update mod %d: %w", id, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update mod %d: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes a mod by ID.
// This operation is idempotent - no error is returned if the mod does not exist.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM mods WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete mod %d: %w", id, err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMod(row scanner) (*Mod, error) {
	m := &Mod{}
	err := row.Scan(&m.ID, &m.Path, &m.FileName,
		&m.Info.ID, &m.Info.Name, &m.Info.Version, &m.Info.Author,
		&m.Info.Category, &m.Info.Website, &m.Info.Description,
		&m.InstalledAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return m, nil
}
