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

// Package search finds marketplace listings for free-text queries.
//
// The Engine walks a fixed fallback ladder and returns at most three listings
// from the first tier that produces any:
//   - Location match, when the query names a known region (always final)
//   - Exact affiliation, same institution and department as the requester
//   - Partial affiliation, same institution but another department
//   - Global fallback, no affiliation constraint
//
// Within a tier the query is expanded into several substring terms, each
// matched against title, description and category in that order. Results are
// ascending by price and never contain the same listing twice.
//
// The Recommender is independent of the ladder and returns listings that share
// the requester's institution or department.
package search
