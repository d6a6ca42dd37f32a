package checkout

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/siteoptz/siteoptz/internal/pricing"
)

// Gateway produces the third-party URL a visitor is sent to for payment.
// Card data never reaches this service.
type Gateway interface {
	CreatePaymentLink(plan Plan, cycle pricing.Cycle, email, orderID string) (string, error)
}

// MockGateway returns a placeholder link. It is used when no hosted links
// are configured.
type MockGateway struct{}

func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

func (g *MockGateway) CreatePaymentLink(plan Plan, cycle pricing.Cycle, email, orderID string) (string, error) {
	return "https://example.com/pay?order_id=" + url.QueryEscape(orderID), nil
}

// LinkGateway redirects to pre-created hosted payment links, one per plan and
// cycle, tagging each with the order id and the visitor's email.
type LinkGateway struct {
	links map[string]string
}

// NewLinkGateway builds a gateway from "plan:cycle" keys to link URLs.
func NewLinkGateway(links map[string]string) (*LinkGateway, error) {
	g := &LinkGateway{links: make(map[string]string, len(links))}
	for key, raw := range links {
		u, err := url.Parse(raw)
		if err != nil || u.Scheme != "https" || u.Host == "" {
			return nil, fmt.Errorf("invalid payment link for %s: %q", key, raw)
		}
		g.links[strings.ToLower(key)] = raw
	}
	return g, nil
}

// ParseLinks reads "starter:monthly=https://...,pro:annual=https://..." into
// a map for NewLinkGateway.
func ParseLinks(s string) (map[string]string, error) {
	links := make(map[string]string)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, link, ok := strings.Cut(part, "=")
		if !ok || !strings.Contains(key, ":") {
			return nil, fmt.Errorf("invalid checkout link entry %q", part)
		}
		links[strings.TrimSpace(key)] = strings.TrimSpace(link)
	}
	return links, nil
}

func linkKey(planID string, cycle pricing.Cycle) string {
	return planID + ":" + string(cycle)
}

func (g *LinkGateway) CreatePaymentLink(plan Plan, cycle pricing.Cycle, email, orderID string) (string, error) {
	raw, ok := g.links[linkKey(plan.ID, cycle)]
	if !ok {
		return "", fmt.Errorf("no payment link configured for %s", linkKey(plan.ID, cycle))
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse payment link: %w", err)
	}
	q := u.Query()
	q.Set("client_reference_id", orderID)
	if email != "" {
		q.Set("prefilled_email", email)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
