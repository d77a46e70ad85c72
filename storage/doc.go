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

// Package storage provides the storage abstraction layer for bazaar.
//
// This package defines the collaborator interfaces the assistant consumes:
// a read-only listings Catalog, a ListingRepository that also manages the
// catalog, and the TicketSink that escalation tickets are handed to.
// Listing storage itself belongs to the marketplace; the assistant only
// decides which stored listings satisfy a query and in what order.
//
// # Architecture
//
//   - Catalog: ActiveListings(ctx, *ListingQuery) for search and recommendation
//   - ListingRepository: Catalog plus seeding and status changes
//   - TicketSink: accepts escalation tickets
//   - TicketRepository: TicketSink with local lookup and listing
//
// ListingQuery carries the predicate (substring term on one text field,
// exact case-insensitive region/institution/department filters, optional
// price ordering). Its Matches method is the single definition of those
// semantics; every backend filters with it.
//
// # Implementations
//
//   - storage/badger: on-disk or in-memory BadgerDB catalog and ticket store
//   - storage/redis: Redis list queue feeding an external support desk
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
