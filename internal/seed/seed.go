package seed

import (
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Config contains the values required by startup seed.
type Config struct {
	AdminEmail    string
	AdminPassword string
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

type guide struct {
	slug     string
	title    string
	filePath string
}

var defaultGuides = []guide{
	{slug: "ai-tools-comparison-guide-2025", title: "Enterprise AI Tools Landscape 2025", filePath: "ai-tools-comparison-guide-2025.pdf"},
	{slug: "ai-roi-playbook", title: "AI ROI Playbook", filePath: "ai-roi-playbook.pdf"},
}

// Run executes the startup seed in an idempotent way.
func Run(db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.Begin()
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	if err := seedAdmin(tx, cfg.AdminEmail, cfg.AdminPassword, &stats); err != nil {
		_ = tx.Rollback()
		return Stats{}, err
	}
	for _, g := range defaultGuides {
		if err := ensureGuide(tx, g, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func seedAdmin(tx *sql.Tx, email, password string, stats *Stats) error {
	if email == "" || password == "" {
		return nil
	}

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE email = ? LIMIT 1)`, email).Scan(&exists); err != nil {
		return fmt.Errorf("check admin user existence: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	if _, err := tx.Exec(`INSERT INTO users (email, password_hash) VALUES (?, ?)`, email, string(hash)); err != nil {
		return fmt.Errorf("insert admin user: %w", err)
	}
	stats.Inserts++
	return nil
}

func ensureGuide(tx *sql.Tx, g guide, stats *Stats) error {
	result, err := tx.Exec(`
		INSERT INTO guides (slug, title, file_path, active)
		VALUES (?, ?, ?, TRUE)
		ON CONFLICT(slug) DO NOTHING
	`, g.slug, g.title, g.filePath)
	if err != nil {
		return fmt.Errorf("insert guide %s: %w", g.slug, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert guide %s: %w", g.slug, err)
	}
	stats.Inserts += int(affected)
	return nil
}
