package leads

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z"

// SQLRepository stores leads in the application database.
type SQLRepository struct {
	db *sql.DB
}

func NewSQLRepository(db *sql.DB) *SQLRepository {
	return &SQLRepository{db: db}
}

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *SQLRepository) SaveLead(ctx context.Context, lead Lead) error {
	return insertLead(ctx, r.db, lead)
}

func (r *SQLRepository) Subscribe(ctx context.Context, sub Subscriber, lead Lead) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin subscribe: %w", err)
	}

	created, err := insertSubscriber(ctx, tx, sub)
	if err != nil || !created {
		_ = tx.Rollback()
		return false, err
	}
	if err := insertLead(ctx, tx, lead); err != nil {
		_ = tx.Rollback()
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit subscribe: %w", err)
	}
	return true, nil
}

func insertLead(ctx context.Context, db execer, lead Lead) error {
	payload := string(lead.Payload)
	if payload == "" {
		payload = "{}"
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO leads (id, kind, email, name, company, source, payload, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, lead.ID, string(lead.Kind), lead.Email, lead.Name, lead.Company, lead.Source, payload, lead.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

func insertSubscriber(ctx context.Context, db execer, sub Subscriber) (bool, error) {
	interests, err := json.Marshal(sub.Interests)
	if err != nil {
		return false, fmt.Errorf("encode interests: %w", err)
	}

	result, err := db.ExecContext(ctx, `
		INSERT INTO subscribers (email, name, company, source, interests, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(email) DO NOTHING
	`, sub.Email, sub.Name, sub.Company, sub.Source, string(interests), sub.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return false, fmt.Errorf("insert subscriber: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert subscriber: %w", err)
	}
	return affected > 0, nil
}

func (r *SQLRepository) ListLeads(ctx context.Context, f Filter) ([]Lead, error) {
	query := `
		SELECT id, kind, email, COALESCE(name, ''), COALESCE(company, ''), COALESCE(source, ''), payload, created_at
		FROM leads
		WHERE 1 = 1
	`
	args := make([]any, 0, 4)
	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + search + "%"
		query += ` AND (email LIKE ? OR name LIKE ? OR company LIKE ?)`
		args = append(args, like, like, like)
	}
	query += ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		var (
			l         Lead
			kind      string
			payload   string
			createdAt string
		)
		if err := rows.Scan(&l.ID, &kind, &l.Email, &l.Name, &l.Company, &l.Source, &payload, &createdAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		l.Kind = Kind(kind)
		l.Payload = json.RawMessage(payload)
		if t, err := time.Parse(timeLayout, createdAt); err == nil {
			l.CreatedAt = t
		}
		leads = append(leads, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}

	return leads, nil
}

func (r *SQLRepository) CountByKind(ctx context.Context) (map[Kind]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM leads GROUP BY kind`)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}
	defer rows.Close()

	counts := make(map[Kind]int)
	for rows.Next() {
		var (
			kind string
			n    int
		)
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan lead count: %w", err)
		}
		counts[Kind(kind)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lead counts: %w", err)
	}
	return counts, nil
}
