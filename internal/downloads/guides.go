package downloads

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/siteoptz/siteoptz/internal/apperr"
)

// Guide is a downloadable PDF.
type Guide struct {
	Slug     string
	Title    string
	FilePath string
}

// Library resolves guide slugs to files under a root directory.
type Library struct {
	db   *sql.DB
	root string
}

func NewLibrary(db *sql.DB, root string) *Library {
	return &Library{db: db, root: root}
}

// Get returns an active guide by slug.
func (l *Library) Get(ctx context.Context, slug string) (Guide, error) {
	var g Guide
	err := l.db.QueryRowContext(ctx, `
		SELECT slug, title, file_path
		FROM guides
		WHERE slug = ? AND active = TRUE
	`, slug).Scan(&g.Slug, &g.Title, &g.FilePath)
	if errors.Is(err, sql.ErrNoRows) {
		return Guide{}, apperr.NotFound("guide not found")
	}
	if err != nil {
		return Guide{}, apperr.Internal("failed to load guide", fmt.Errorf("query guide: %w", err))
	}
	return g, nil
}

// Path returns the on-disk location of g, refusing paths that leave root.
func (l *Library) Path(g Guide) (string, error) {
	clean := filepath.Clean("/" + g.FilePath)
	full := filepath.Join(l.root, clean)
	root := filepath.Clean(l.root)
	if full != root && !strings.HasPrefix(full, root+string(filepath.Separator)) {
		return "", apperr.NotFound("guide not found")
	}
	return full, nil
}
