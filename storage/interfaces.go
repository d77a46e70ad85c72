package storage

import (
	"context"

	"github.com/poiesic/bazaar/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close releases resources held by the repository.
	Close() error
}

// Catalog is the read-only query surface the search engine and recommender use.
// Implementations must be safe for concurrent readers.
type Catalog interface {
	// ActiveListings returns the active listings satisfying query.
	// When query.OrderByPrice is set the result is ascending by price and
	// equal prices keep catalog iteration order; otherwise catalog order is kept.
	// A nil query matches every active listing in catalog order.
	ActiveListings(ctx context.Context, query *ListingQuery) ([]*core.Listing, error)
}

// ListingRepository provides operations for managing the listings catalog.
type ListingRepository interface {
	Repository
	Catalog

	// AddListings validates and stores one or more listings.
	// IDs are assigned from a sequence so catalog order follows insertion order.
	// Sets InsertedAt if not already set.
	AddListings(ctx context.Context, listings ...*core.Listing) ([]*core.Listing, error)

	// GetListing retrieves a single listing by ID.
	// Returns ErrNotFound if the listing doesn't exist.
	GetListing(ctx context.Context, id core.ID) (*core.Listing, error)

	// SetListingStatus changes the lifecycle status of a listing.
	// Returns ErrNotFound if the listing doesn't exist.
	SetListingStatus(ctx context.Context, id core.ID, status core.ListingStatus) error
}

// TicketSink accepts escalation tickets for durable storage or delivery
// outside the assistant.
type TicketSink interface {
	SubmitTicket(ctx context.Context, ticket *core.EscalationTicket) error
}

// TicketRepository stores escalation tickets locally.
type TicketRepository interface {
	Repository
	TicketSink

	// GetTicket retrieves a ticket by ID.
	// Returns ErrNotFound if the ticket doesn't exist.
	GetTicket(ctx context.Context, id core.ID) (*core.EscalationTicket, error)

	// ListTickets returns up to limit tickets, newest first.
	ListTickets(ctx context.Context, limit int) ([]*core.EscalationTicket, error)
}
