package storage

import (
	"strings"

	"github.com/poiesic/bazaar/core"
)

// MatchField selects which listing text field a term is matched against.
type MatchField int

const (
	// MatchAny skips text matching entirely.
	MatchAny MatchField = iota
	MatchTitle
	MatchDescription
	MatchCategory
)

// String returns the field name used in logs.
func (f MatchField) String() string {
	switch f {
	case MatchTitle:
		return "title"
	case MatchDescription:
		return "description"
	case MatchCategory:
		return "category"
	}
	return "any"
}

// ListingQuery is the predicate handed to Catalog.ActiveListings.
//
// Term is a case-insensitive substring of Field. Region, Institution and
// Department are exact case-insensitive matches when non-empty.
// ExcludeDepartment drops listings whose department equals it.
type ListingQuery struct {
	Field             MatchField
	Term              string
	Region            string
	Institution       string
	Department        string
	ExcludeDepartment string
	OrderByPrice      bool
}

// Matches reports whether an active listing satisfies q.
// Inactive listings never match.
func (q *ListingQuery) Matches(listing *core.Listing) bool {
	if listing == nil || !listing.IsActive() {
		return false
	}
	if q == nil {
		return true
	}

	if q.Field != MatchAny {
		var text string
		switch q.Field {
		case MatchTitle:
			text = listing.Title
		case MatchDescription:
			text = listing.Description
		case MatchCategory:
			text = listing.Category
		}
		if !strings.Contains(strings.ToLower(text), strings.ToLower(q.Term)) {
			return false
		}
	}

	if q.Region != "" && core.Normalize(listing.Region) != core.Normalize(q.Region) {
		return false
	}
	if q.Institution != "" && core.Normalize(listing.Institution) != core.Normalize(q.Institution) {
		return false
	}
	if q.Department != "" && core.Normalize(listing.Department) != core.Normalize(q.Department) {
		return false
	}
	if q.ExcludeDepartment != "" && core.Normalize(listing.Department) == core.Normalize(q.ExcludeDepartment) {
		return false
	}

	return true
}
