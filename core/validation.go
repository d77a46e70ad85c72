// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import (
	"fmt"
	"strings"
	"time"
)

// ValidateListing validates a Listing according to domain rules.
//
// Validation rules:
//   - Title must not be empty
//   - Price must not be negative
//   - Condition must be new or used
//   - Status must be a known lifecycle state
//
// NOT validated:
//   - ID (0 is valid until the catalog assigns one)
//   - Institution, Department, Region (free text, may be empty)
func ValidateListing(listing *Listing) error {
	if listing == nil {
		return fmt.Errorf("%w: listing is nil", ErrInvalidListing)
	}

	if strings.TrimSpace(listing.Title) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrEmptyTitle)
	}

	if listing.Price < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidListing, ErrNegativePrice)
	}

	if listing.Condition != ConditionNew && listing.Condition != ConditionUsed {
		return fmt.Errorf("%w: %w: %q", ErrInvalidListing, ErrInvalidCondition, listing.Condition)
	}

	switch listing.Status {
	case ListingStatusActive, ListingStatusInactive, ListingStatusPending, ListingStatusExpired:
	default:
		return fmt.Errorf("%w: %w: %q", ErrInvalidListing, ErrInvalidStatus, listing.Status)
	}

	return nil
}

// ValidateTicket validates an EscalationTicket before it is handed to a sink.
func ValidateTicket(ticket *EscalationTicket) error {
	if ticket == nil {
		return fmt.Errorf("%w: ticket is nil", ErrInvalidTicket)
	}

	if strings.TrimSpace(ticket.Summary) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidTicket, ErrEmptySummary)
	}

	if !IsValidTimestamp(ticket.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidTicket, ErrInvalidTimestamp)
	}

	return nil
}

// ParseIssueCategory maps free text onto a known category.
// Unknown values coerce to IssueGeneralInquiry.
func ParseIssueCategory(s string) IssueCategory {
	s = strings.ReplaceAll(Normalize(s), " ", "_")
	for _, c := range IssueCategories {
		if string(c) == s {
			return c
		}
	}
	return IssueGeneralInquiry
}

// ParsePriority maps free text onto a known priority.
// Unknown values coerce to PriorityMedium.
func ParsePriority(s string) Priority {
	switch Priority(Normalize(s)) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	}
	return PriorityMedium
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
func IsValidTimestamp(ts time.Time) bool {
	return !ts.After(time.Now())
}
