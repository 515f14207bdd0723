package bindings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/halbzeit-ai/review-platform/internal/config"
)

// Store persists the active model binding per capability class in SQLite.
// It is the configuration store behind the model registry: the pipeline only
// reads it, model-management commands and the CLI mutate it.
type Store struct {
	db   *sql.DB
	path string
}

const schema = `
CREATE TABLE IF NOT EXISTS model_bindings (
    capability TEXT PRIMARY KEY,
    model_id   TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// Open initializes or connects to the bindings database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "bindings.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init bindings schema: %w", err)
	}

	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// ActiveModel returns the bound model for a capability, or "" when no
// override is stored.
func (s *Store) ActiveModel(ctx context.Context, capability string) (string, error) {
	capability = normalizeCapability(capability)
	var model string
	err := s.db.QueryRowContext(
		ctx,
		`SELECT model_id FROM model_bindings WHERE capability = ?`,
		capability,
	).Scan(&model)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query binding for %s: %w", capability, err)
	}
	return model, nil
}

// SetActiveModel upserts the binding for a capability.
func (s *Store) SetActiveModel(ctx context.Context, capability, model string) error {
	capability = normalizeCapability(capability)
	model = strings.TrimSpace(model)
	if capability == "" {
		return errors.New("capability required")
	}
	if model == "" {
		return errors.New("model identifier required")
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO model_bindings (capability, model_id, updated_at) VALUES (?, ?, ?)
         ON CONFLICT(capability) DO UPDATE SET model_id = excluded.model_id, updated_at = excluded.updated_at`,
		capability, model, now,
	)
	if err != nil {
		return fmt.Errorf("set binding for %s: %w", capability, err)
	}
	return nil
}

// ClearActiveModel removes the binding for a capability, reverting the
// registry to its built-in default.
func (s *Store) ClearActiveModel(ctx context.Context, capability string) error {
	capability = normalizeCapability(capability)
	_, err := s.db.ExecContext(ctx, `DELETE FROM model_bindings WHERE capability = ?`, capability)
	if err != nil {
		return fmt.Errorf("clear binding for %s: %w", capability, err)
	}
	return nil
}

// List returns all stored bindings keyed by capability.
func (s *Store) List(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT capability, model_id FROM model_bindings ORDER BY capability`)
	if err != nil {
		return nil, fmt.Errorf("list bindings: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var capability, model string
		if err := rows.Scan(&capability, &model); err != nil {
			return nil, fmt.Errorf("scan binding: %w", err)
		}
		out[capability] = model
	}
	return out, rows.Err()
}

func normalizeCapability(capability string) string {
	return strings.ToLower(strings.TrimSpace(capability))
}
