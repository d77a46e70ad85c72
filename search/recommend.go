package search

import (
	"context"
	"log/slog"

	"github.com/poiesic/bazaar/core"
	"github.com/poiesic/bazaar/storage"
)

// MaxRecommendations bounds a recommendation list.
const MaxRecommendations = 10

// Recommender suggests listings that share a requester's institution or department.
type Recommender struct {
	catalog storage.Catalog
	logger  *slog.Logger
}

// NewRecommender creates a new recommender over catalog.
func NewRecommender(catalog storage.Catalog, opts ...Option) (*Recommender, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	o, err := applyOptions("recommender", opts)
	if err != nil {
		return nil, err
	}
	return &Recommender{catalog: catalog, logger: o.logger}, nil
}

// Recommend returns up to MaxRecommendations active listings whose institution
// or department equals the requester's, in catalog order.
// Requesters with no affiliation get no recommendations.
func (r *Recommender) Recommend(ctx context.Context, affiliation *core.Affiliation) ([]*core.Listing, error) {
	if affiliation == nil || affiliation.IsEmpty() {
		return nil, nil
	}
	aff := affiliation.Normalized()

	listings, err := r.catalog.ActiveListings(ctx, nil)
	if err != nil {
		r.logger.Error("catalog query failed", "err", err)
		return nil, err
	}

	var matches []*core.Listing
	for _, listing := range listings {
		institutionMatch := aff.Institution != "" && core.Normalize(listing.Institution) == aff.Institution
		departmentMatch := aff.Department != "" && core.Normalize(listing.Department) == aff.Department
		if !institutionMatch && !departmentMatch {
			continue
		}
		matches = append(matches, listing)
		if len(matches) >= MaxRecommendations {
			break
		}
	}

	r.logger.Debug("recommendations", "institution", aff.Institution, "department", aff.Department, "found", len(matches))
	return matches, nil
}
