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

// Package chat turns a user's utterance into a reply by orchestrating a
// tool-calling language model over the listing search components.
//
// A turn runs through these states:
//
//	InputNormalization -> ModelInference -> [ToolDispatch -> ModelReInference] -> ResponseSynthesis
//
// with a ProviderFailure -> FallbackSearch branch taken whenever model
// inference fails or times out.
//
// Input normalization transcribes audio and describes images. A failed
// transcription substitutes a canned query and a failed description drops the
// image, so optional inputs never abort a turn. Only an empty normalized query
// is returned to the caller as ErrEmptyQuery.
//
// The model may call three tools: search_products, get_personalized_recommendations
// and escalate_to_supervisor. Every call in one response is answered before a
// single re-inference. Tool failures are reported to the model as
// {"error": "..."} results. Catalog failures end the turn with ErrCatalogUnavailable.
//
// Listings returned by search and recommendation tools are attached to the
// Reply even when the model produces no text.
//
// The Orchestrator keeps no state between turns and is safe for concurrent
// use. Runner executes independent turns on a bounded worker pool.
package chat
