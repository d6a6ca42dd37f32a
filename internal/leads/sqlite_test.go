package leads

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/siteoptz/siteoptz/internal/db"
	"github.com/siteoptz/siteoptz/internal/migrations"
)

func newSQLRepository(t *testing.T) *SQLRepository {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "leads-test.db"))
	if err != nil {
		t.Fatalf("open sqlite database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	if err := migrations.Up(database, "../../migrations"); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return NewSQLRepository(database)
}

func TestSQLRepositoryListsNewestFirst(t *testing.T) {
	repo := newSQLRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	seed := []Lead{
		{ID: "1", Kind: KindSubscribe, Email: "first@example.com", CreatedAt: base},
		{ID: "3", Kind: KindPricingQuote, Email: "third@example.com", Company: "Acme", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "2", Kind: KindSubscribe, Email: "second@example.com", CreatedAt: base.Add(time.Hour)},
	}
	for _, l := range seed {
		if err := repo.SaveLead(ctx, l); err != nil {
			t.Fatalf("SaveLead: %v", err)
		}
	}

	all, err := repo.ListLeads(ctx, Filter{})
	if err != nil {
		t.Fatalf("ListLeads: %v", err)
	}
	if len(all) != 3 || all[0].ID != "3" || all[1].ID != "2" || all[2].ID != "1" {
		t.Fatalf("unexpected order: %+v", all)
	}
	if !all[0].CreatedAt.Equal(base.Add(2 * time.Hour)) {
		t.Fatalf("created_at not round-tripped: %v", all[0].CreatedAt)
	}
	if string(all[0].Payload) != "{}" {
		t.Fatalf("expected empty payload object, got %s", all[0].Payload)
	}

	subs, err := repo.ListLeads(ctx, Filter{Kind: KindSubscribe, Limit: 1})
	if err != nil {
		t.Fatalf("ListLeads by kind: %v", err)
	}
	if len(subs) != 1 || subs[0].ID != "2" {
		t.Fatalf("unexpected filtered leads: %+v", subs)
	}

	byCompany, err := repo.ListLeads(ctx, Filter{Search: "acme"})
	if err != nil {
		t.Fatalf("ListLeads by search: %v", err)
	}
	if len(byCompany) != 1 || byCompany[0].ID != "3" {
		t.Fatalf("unexpected search result: %+v", byCompany)
	}

	counts, err := repo.CountByKind(ctx)
	if err != nil {
		t.Fatalf("CountByKind: %v", err)
	}
	if counts[KindSubscribe] != 2 || counts[KindPricingQuote] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestSQLRepositorySubscribe(t *testing.T) {
	repo := newSQLRepository(t)
	ctx := context.Background()

	sub := Subscriber{Email: "ada@example.com", Interests: []string{"seo"}, CreatedAt: time.Now()}
	created, err := repo.Subscribe(ctx, sub, Lead{ID: "a", Kind: KindSubscribe, Email: sub.Email, CreatedAt: sub.CreatedAt})
	if err != nil || !created {
		t.Fatalf("first subscribe: created=%v err=%v", created, err)
	}

	sub.Email = "ADA@example.com"
	created, err = repo.Subscribe(ctx, sub, Lead{ID: "b", Kind: KindSubscribe, Email: sub.Email, CreatedAt: sub.CreatedAt})
	if err != nil {
		t.Fatalf("second subscribe: %v", err)
	}
	if created {
		t.Fatalf("expected case-insensitive duplicate to be ignored")
	}

	counts, err := repo.CountByKind(ctx)
	if err != nil {
		t.Fatalf("CountByKind: %v", err)
	}
	if counts[KindSubscribe] != 1 {
		t.Fatalf("expected 1 subscribe lead, got %d", counts[KindSubscribe])
	}
}

func TestSQLRepositorySubscribeRollsBackOnLeadFailure(t *testing.T) {
	repo := newSQLRepository(t)
	ctx := context.Background()
	now := time.Now()

	if err := repo.SaveLead(ctx, Lead{ID: "taken", Kind: KindWebinarRegistration, Email: "bob@example.com", CreatedAt: now}); err != nil {
		t.Fatalf("SaveLead: %v", err)
	}

	sub := Subscriber{Email: "ada@example.com", CreatedAt: now}
	if _, err := repo.Subscribe(ctx, sub, Lead{ID: "taken", Kind: KindSubscribe, Email: sub.Email, CreatedAt: now}); err == nil {
		t.Fatalf("expected duplicate lead id to fail")
	}

	var n int
	if err := repo.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&n); err != nil {
		t.Fatalf("count subscribers: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected subscriber insert to roll back, got %d rows", n)
	}

	created, err := repo.Subscribe(ctx, sub, Lead{ID: "fresh", Kind: KindSubscribe, Email: sub.Email, CreatedAt: now})
	if err != nil || !created {
		t.Fatalf("retry subscribe: created=%v err=%v", created, err)
	}
}

func TestServiceWithSQLRepository(t *testing.T) {
	svc := NewService(newSQLRepository(t), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Subscribe(ctx, &SubscribeRequest{Email: "ada@example.com"}); err != nil {
			t.Fatalf("Subscribe (iteration=%d): %v", i, err)
		}
	}

	counts, err := svc.Counts(ctx)
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	if counts[KindSubscribe] != 1 {
		t.Fatalf("expected 1 subscribe lead, got %d", counts[KindSubscribe])
	}
}
