package leads

import "context"

// Repository stores captured leads and newsletter subscribers.
type Repository interface {
	SaveLead(ctx context.Context, lead Lead) error
	// Subscribe stores sub together with its signup lead unless the email is
	// already subscribed. Either both rows are written or neither is.
	// created reports whether new rows were written.
	Subscribe(ctx context.Context, sub Subscriber, lead Lead) (created bool, err error)
	ListLeads(ctx context.Context, f Filter) ([]Lead, error)
	CountByKind(ctx context.Context) (map[Kind]int, error)
}
