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

import "errors"

// Domain validation errors
var (
	// ErrInvalidListing indicates a Listing failed validation.
	ErrInvalidListing = errors.New("invalid listing")

	// ErrInvalidTicket indicates an EscalationTicket failed validation.
	ErrInvalidTicket = errors.New("invalid escalation ticket")

	// ErrEmptyTitle indicates the listing Title field is empty.
	ErrEmptyTitle = errors.New("title cannot be empty")

	// ErrNegativePrice indicates a listing carries a negative price.
	ErrNegativePrice = errors.New("price cannot be negative")

	// ErrInvalidCondition indicates an unknown Condition value.
	ErrInvalidCondition = errors.New("invalid condition")

	// ErrInvalidStatus indicates an unknown ListingStatus value.
	ErrInvalidStatus = errors.New("invalid listing status")

	// ErrEmptySummary indicates the ticket Summary field is empty.
	ErrEmptySummary = errors.New("summary cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
