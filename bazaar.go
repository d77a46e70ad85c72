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

package bazaar

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/bazaar/ai"
	"github.com/poiesic/bazaar/ai/openai"
	"github.com/poiesic/bazaar/chat"
	"github.com/poiesic/bazaar/search"
	"github.com/poiesic/bazaar/storage"
	"github.com/poiesic/bazaar/storage/badger"
	"github.com/poiesic/bazaar/storage/redis"
)

// Assistant wires the catalog, ticket sinks, AI provider and orchestrator
// into one value.
type Assistant struct {
	backend      *badger.Backend
	listingRepo  storage.ListingRepository
	ticketRepo   storage.TicketRepository
	queue        *redis.TicketQueue
	provider     ai.AIProvider
	engine       *search.Engine
	recommender  *search.Recommender
	orchestrator *chat.Orchestrator
	logger       *slog.Logger
}

// AssistantOption configures an Assistant.
type AssistantOption func(*assistantOptions)

type assistantOptions struct {
	aiConfig    *ai.Config
	provider    ai.AIProvider
	redisAddr   string
	queueKey    string
	chatOptions []chat.Option
	logger      *slog.Logger
}

// WithAIConfig sets the configuration for the OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) AssistantOption {
	return func(o *assistantOptions) {
		o.aiConfig = config
	}
}

// WithProvider uses provider instead of building one from the AI config.
// The assistant takes ownership and closes it.
func WithProvider(provider ai.AIProvider) AssistantOption {
	return func(o *assistantOptions) {
		o.provider = provider
	}
}

// WithRedisQueue also pushes escalation tickets onto a Redis list.
// An empty key uses redis.DefaultQueueKey.
func WithRedisQueue(addr, key string) AssistantOption {
	return func(o *assistantOptions) {
		o.redisAddr = addr
		o.queueKey = key
	}
}

// WithChatOptions passes options through to the orchestrator.
func WithChatOptions(opts ...chat.Option) AssistantOption {
	return func(o *assistantOptions) {
		o.chatOptions = append(o.chatOptions, opts...)
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) AssistantOption {
	return func(o *assistantOptions) {
		o.logger = logger
	}
}

// NewAssistant opens the catalog at filePath and builds the assistant.
// An empty filePath opens an in-memory catalog.
func NewAssistant(ctx context.Context, filePath string, opts ...AssistantOption) (*Assistant, error) {
	options := &assistantOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	a := &Assistant{logger: options.logger}

	backend, err := badger.OpenBackend(filePath, filePath == "")
	if err != nil {
		return nil, err
	}
	a.backend = backend

	listingRepo, err := badger.NewListingRepository(backend)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.listingRepo = listingRepo
	a.ticketRepo = badger.NewTicketRepository(backend)

	var tickets storage.TicketSink = a.ticketRepo
	if options.redisAddr != "" {
		key := options.queueKey
		if key == "" {
			key = redis.DefaultQueueKey
		}
		queue, err := redis.Dial(ctx, options.redisAddr, key)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.queue = queue
		tickets = storage.FanoutSink{a.ticketRepo, queue}
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			a.Close()
			return nil, err
		}
	}
	a.provider = provider

	a.engine, err = search.NewEngine(listingRepo, search.WithLogger(options.logger))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.recommender, err = search.NewRecommender(listingRepo, search.WithLogger(options.logger))
	if err != nil {
		a.Close()
		return nil, err
	}

	chatOpts := append([]chat.Option{chat.WithLogger(options.logger)}, options.chatOptions...)
	a.orchestrator, err = chat.NewOrchestrator(provider, a.engine, a.recommender, tickets, chatOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}

	return a, nil
}

// Close releases the provider, the ticket queue and the catalog.
func (a *Assistant) Close() error {
	var errs []error

	// Close AI provider first
	if a.provider != nil {
		if err := a.provider.Close(); err != nil {
			a.logger.Error("error closing AI provider", "err", err)
		}
	}

	if a.queue != nil {
		if err := a.queue.Close(); err != nil {
			a.logger.Error("error closing ticket queue", "err", err)
			errs = append(errs, err)
		}
	}

	if a.ticketRepo != nil {
		if err := a.ticketRepo.Close(); err != nil {
			a.logger.Error("error closing ticket repository", "err", err)
			errs = append(errs, err)
		}
	}
	if a.listingRepo != nil {
		if err := a.listingRepo.Close(); err != nil {
			a.logger.Error("error closing listing repository", "err", err)
			errs = append(errs, err)
		}
	}

	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Error("error closing backend storage", "err", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Respond answers one conversational turn.
func (a *Assistant) Respond(ctx context.Context, req *chat.Request) (*chat.Reply, error) {
	return a.orchestrator.Respond(ctx, req)
}

// NewRunner creates a runner that answers turns concurrently with size workers.
func (a *Assistant) NewRunner(size int) (*chat.Runner, error) {
	return chat.NewRunner(a.orchestrator, size)
}

func (a *Assistant) ListingRepository() storage.ListingRepository {
	return a.listingRepo
}

func (a *Assistant) TicketRepository() storage.TicketRepository {
	return a.ticketRepo
}

// TicketQueue returns the Redis ticket queue, or nil when none is configured.
func (a *Assistant) TicketQueue() *redis.TicketQueue {
	return a.queue
}

func (a *Assistant) Engine() *search.Engine {
	return a.engine
}

func (a *Assistant) Recommender() *search.Recommender {
	return a.recommender
}
