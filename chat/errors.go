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

package chat

import "errors"

var (
	// ErrEmptyQuery is returned when a turn has no usable text after
	// transcription and image description.
	ErrEmptyQuery = errors.New("empty query")

	// ErrCatalogUnavailable is returned when the listings catalog fails during a turn.
	ErrCatalogUnavailable = errors.New("catalog unavailable")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrChatModelRequired is returned when the provider has no chat model.
	ErrChatModelRequired = errors.New("chat model required")

	// ErrSearcherRequired is returned when a listing searcher is not provided.
	ErrSearcherRequired = errors.New("listing searcher required")

	// ErrRecommenderRequired is returned when a recommender is not provided.
	ErrRecommenderRequired = errors.New("recommender required")

	// ErrTicketSinkRequired is returned when an escalation ticket sink is not provided.
	ErrTicketSinkRequired = errors.New("ticket sink required")

	// ErrResponderRequired is returned when a runner is created without a responder.
	ErrResponderRequired = errors.New("responder required")

	// ErrUnknownTool is returned when the model calls a tool that was never declared.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidToolArguments is returned when tool arguments are not valid JSON
	// for the called tool.
	ErrInvalidToolArguments = errors.New("invalid tool arguments")
)
