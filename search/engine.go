package search

import (
	"cmp"
	"context"
	"log/slog"
	"slices"

	"github.com/poiesic/bazaar/core"
	"github.com/poiesic/bazaar/storage"
)

// matchFields is the field order tried for each term.
var matchFields = []storage.MatchField{
	storage.MatchTitle,
	storage.MatchDescription,
	storage.MatchCategory,
}

// Engine runs the tiered listing search against a catalog.
// It holds no per-call state and is safe for concurrent use.
type Engine struct {
	catalog storage.Catalog
	logger  *slog.Logger
}

// Option configures an Engine or a Recommender.
type Option func(*options) error

type options struct {
	logger *slog.Logger
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

func applyOptions(component string, opts []Option) (*options, error) {
	o := &options{logger: slog.Default()}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	o.logger = o.logger.With("component", component)
	return o, nil
}

// NewEngine creates a new search engine over catalog.
func NewEngine(catalog storage.Catalog, opts ...Option) (*Engine, error) {
	if catalog == nil {
		return nil, ErrCatalogRequired
	}
	o, err := applyOptions("search", opts)
	if err != nil {
		return nil, err
	}
	return &Engine{catalog: catalog, logger: o.logger}, nil
}

// strategy is one (term, field) pair tried against the catalog.
type strategy struct {
	term  string
	field storage.MatchField
}

func strategies(terms []string) []strategy {
	out := make([]strategy, 0, len(terms)*len(matchFields))
	for _, term := range terms {
		for _, field := range matchFields {
			out = append(out, strategy{term: term, field: field})
		}
	}
	return out
}

// Search returns up to three listings for query.
// A nil affiliation is treated as an anonymous requester.
// An empty result is not an error; only catalog failures are returned.
func (e *Engine) Search(ctx context.Context, query string, affiliation *core.Affiliation) (*core.RankedResult, error) {
	return e.SearchWithMonitor(ctx, query, affiliation, nil)
}

// SearchWithMonitor is Search with callbacks at each stage.
func (e *Engine) SearchWithMonitor(ctx context.Context, query string, affiliation *core.Affiliation, monitor SearchMonitor) (*core.RankedResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	q := core.Normalize(query)
	monitor.Start(q)

	region, _ := ExtractLocation(q)
	monitor.AfterLocationExtraction(region)

	terms := ExpandTerms(q, region)
	monitor.AfterTermExpansion(terms)

	var aff core.Affiliation
	if affiliation != nil {
		aff = affiliation.Normalized()
	}

	e.logger.Debug("searching", "query", q, "region", region, "terms", terms,
		"institution", aff.Institution, "department", aff.Department)

	plan := strategies(terms)
	seen := make(map[core.ID]bool)

	finish := func(tier core.SearchTier, listings []*core.Listing) *core.RankedResult {
		result := &core.RankedResult{Tier: tier, Region: region, Listings: listings}
		e.logger.Debug("search finished", "tier", tier, "found", len(listings))
		monitor.Finish(result)
		return result
	}

	// A named region is final even when it has no inventory.
	if region != "" {
		listings, err := e.collect(ctx, plan, seen, func(sq *storage.ListingQuery) {
			sq.Region = region
		})
		if err != nil {
			return nil, err
		}
		monitor.TierAttempted(core.TierLocationMatch, len(listings))
		return finish(core.TierLocationMatch, listings), nil
	}

	if aff.Institution != "" && aff.Department != "" {
		listings, err := e.collect(ctx, plan, seen, func(sq *storage.ListingQuery) {
			sq.Institution = aff.Institution
			sq.Department = aff.Department
		})
		if err != nil {
			return nil, err
		}
		monitor.TierAttempted(core.TierExactAffiliation, len(listings))
		if len(listings) > 0 {
			return finish(core.TierExactAffiliation, listings), nil
		}
	}

	if aff.Institution != "" {
		listings, err := e.collect(ctx, plan, seen, func(sq *storage.ListingQuery) {
			sq.Institution = aff.Institution
			sq.ExcludeDepartment = aff.Department
		})
		if err != nil {
			return nil, err
		}
		monitor.TierAttempted(core.TierPartialAffiliation, len(listings))
		if len(listings) > 0 {
			return finish(core.TierPartialAffiliation, listings), nil
		}
	}

	listings, err := e.collect(ctx, plan, seen, nil)
	if err != nil {
		return nil, err
	}
	monitor.TierAttempted(core.TierGlobalFallback, len(listings))
	return finish(core.TierGlobalFallback, listings), nil
}

// collect walks the strategies in order, adding unseen listings until
// MaxRankedResults are held, then orders them by price. Ties keep
// collection order.
func (e *Engine) collect(ctx context.Context, plan []strategy, seen map[core.ID]bool, constrain func(*storage.ListingQuery)) ([]*core.Listing, error) {
	var collected []*core.Listing

	for _, s := range plan {
		if len(collected) >= core.MaxRankedResults {
			break
		}

		sq := &storage.ListingQuery{
			Field:        s.field,
			Term:         s.term,
			OrderByPrice: true,
		}
		if constrain != nil {
			constrain(sq)
		}

		candidates, err := e.catalog.ActiveListings(ctx, sq)
		if err != nil {
			e.logger.Error("catalog query failed", "field", s.field, "term", s.term, "err", err)
			return nil, err
		}

		for _, listing := range candidates {
			if len(collected) >= core.MaxRankedResults {
				break
			}
			if seen[listing.Id] {
				continue
			}
			seen[listing.Id] = true
			collected = append(collected, listing)
		}
	}

	slices.SortStableFunc(collected, func(a, b *core.Listing) int {
		return cmp.Compare(a.Price, b.Price)
	})
	return collected, nil
}
