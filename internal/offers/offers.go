package offers

import (
	"context"
	"time"
)

// LinkUnconfigured marks an offer whose affiliate deep-link could not be
// built because no affiliate marker is configured. Formatters must never
// render it as a clickable link.
const LinkUnconfigured = "unconfigured"

// Offer is a single priced travel option with an affiliate booking link.
// Price and Stops are never negative; AffiliateLink is either a valid URL
// or LinkUnconfigured.
type Offer struct {
	Provider        string
	ID              string
	Price           float64
	Currency        string
	DepartAt        time.Time
	ReturnAt        *time.Time
	DurationMinutes int
	Stops           int
	AffiliateLink   string
}

// Query describes one upstream price search. Return is the zero time for
// one-way trips.
type Query struct {
	OriginCode string
	DestCode   string
	Depart     time.Time
	Return     time.Time
	Currency   string
	Limit      int
}

// Source searches an upstream price provider. Implementations may fail on
// network errors or timeouts; no result ordering is guaranteed.
type Source interface {
	Search(ctx context.Context, q Query) ([]Offer, error)
}
