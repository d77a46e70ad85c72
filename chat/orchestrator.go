package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/poiesic/bazaar/ai"
	"github.com/poiesic/bazaar/core"
	"github.com/poiesic/bazaar/storage"
)

// DefaultCallTimeout bounds each model, speech and vision call.
const DefaultCallTimeout = 30 * time.Second

// ListingSearcher runs the tiered listing search.
type ListingSearcher interface {
	Search(ctx context.Context, query string, affiliation *core.Affiliation) (*core.RankedResult, error)
}

// ListingRecommender suggests listings for a requester's affiliation.
type ListingRecommender interface {
	Recommend(ctx context.Context, affiliation *core.Affiliation) ([]*core.Listing, error)
}

// Orchestrator answers conversational turns.
type Orchestrator struct {
	chat        ai.ChatModel
	transcriber ai.Transcriber
	describer   ai.ImageDescriber
	synthesizer ai.Synthesizer

	searcher    ListingSearcher
	recommender ListingRecommender
	tickets     storage.TicketSink

	systemPrompt string
	callTimeout  time.Duration
	speech       bool
	logger       *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithCallTimeout bounds each external call. A timeout is handled like any
// other provider failure.
func WithCallTimeout(d time.Duration) Option {
	return func(o *Orchestrator) error {
		if d <= 0 {
			return fmt.Errorf("call timeout must be positive, got %s", d)
		}
		o.callTimeout = d
		return nil
	}
}

// WithSpeechSynthesis enables spoken replies.
func WithSpeechSynthesis(enabled bool) Option {
	return func(o *Orchestrator) error {
		o.speech = enabled
		return nil
	}
}

// WithSystemPrompt replaces the system instruction.
func WithSystemPrompt(prompt string) Option {
	return func(o *Orchestrator) error {
		if strings.TrimSpace(prompt) == "" {
			return errors.New("system prompt cannot be empty")
		}
		o.systemPrompt = prompt
		return nil
	}
}

// NewOrchestrator creates a new orchestrator.
// The provider must supply a chat model; its speech and vision services are optional.
func NewOrchestrator(
	provider ai.AIProvider,
	searcher ListingSearcher,
	recommender ListingRecommender,
	tickets storage.TicketSink,
	opts ...Option,
) (*Orchestrator, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if provider.ChatModel() == nil {
		return nil, ErrChatModelRequired
	}
	if searcher == nil {
		return nil, ErrSearcherRequired
	}
	if recommender == nil {
		return nil, ErrRecommenderRequired
	}
	if tickets == nil {
		return nil, ErrTicketSinkRequired
	}

	o := &Orchestrator{
		chat:         provider.ChatModel(),
		transcriber:  provider.Transcriber(),
		describer:    provider.ImageDescriber(),
		synthesizer:  provider.Synthesizer(),
		searcher:     searcher,
		recommender:  recommender,
		tickets:      tickets,
		systemPrompt: SystemPrompt,
		callTimeout:  DefaultCallTimeout,
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	o.logger = o.logger.With("component", "orchestrator")

	return o, nil
}

// Respond answers one turn.
//
// The only errors returned are ErrEmptyQuery, ErrCatalogUnavailable and
// context cancellation by the caller. Provider failures produce a fallback
// reply instead.
func (o *Orchestrator) Respond(ctx context.Context, req *Request) (*Reply, error) {
	start := time.Now()
	defer func() { turnDuration.Observe(time.Since(start).Seconds()) }()

	if req == nil {
		req = &Request{}
	}

	if req.Initial {
		turnsTotal.WithLabelValues("welcome").Inc()
		return &Reply{Text: WelcomeReply}, nil
	}

	query, err := o.normalizeInput(ctx, req)
	if err != nil {
		turnsTotal.WithLabelValues("empty_query").Inc()
		return nil, err
	}

	reply, err := o.converse(ctx, req, query)
	if err != nil {
		if errors.Is(err, ErrCatalogUnavailable) {
			turnsTotal.WithLabelValues("catalog_error").Inc()
		}
		return nil, err
	}

	o.attachSpeech(ctx, reply)

	if reply.Fallback {
		turnsTotal.WithLabelValues("fallback").Inc()
	} else {
		turnsTotal.WithLabelValues("reply").Inc()
	}
	return reply, nil
}

// converse runs inference, tool dispatch and re-inference for query.
func (o *Orchestrator) converse(ctx context.Context, req *Request, query string) (*Reply, error) {
	messages := []ai.Message{
		ai.SystemMessage(o.systemPrompt),
		ai.UserMessage(query),
	}

	first, err := o.complete(ctx, messages, toolDefinitions)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		o.logger.Warn("model inference failed, falling back to search", "err", err)
		degradedTotal.WithLabelValues("inference").Inc()
		return o.fallbackReply(ctx, req, query)
	}

	if !first.HasToolCalls() {
		return &Reply{Text: first.Content, Query: query}, nil
	}

	outcome, err := o.dispatchAll(ctx, req, query, first.ToolCalls)
	if err != nil {
		return nil, err
	}

	followUp := append(slices.Clone(messages), ai.AssistantMessage(first.Content, first.ToolCalls...))
	followUp = append(followUp, outcome.messages...)

	reply := &Reply{
		Query:     query,
		Listings:  outcome.listings,
		ToolCalls: outcome.records,
	}

	final, err := o.complete(ctx, followUp, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		o.logger.Warn("model re-inference failed, using templated reply", "err", err)
		degradedTotal.WithLabelValues("inference").Inc()
		reply.Fallback = true
		reply.Text = outcome.fallbackText(query)
		return reply, nil
	}

	reply.Text = final.Content
	return reply, nil
}

// complete runs one bounded model call.
func (o *Orchestrator) complete(ctx context.Context, messages []ai.Message, tools []ai.ToolDefinition) (*ai.Completion, error) {
	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	start := time.Now()
	completion, err := o.chat.Complete(callCtx, messages, tools)
	llmDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		llmCallsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if completion == nil {
		llmCallsTotal.WithLabelValues("error").Inc()
		return nil, errors.New("model returned no completion")
	}
	llmCallsTotal.WithLabelValues("success").Inc()
	return completion, nil
}

// dispatchOutcome collects the results of every tool call in one model response.
type dispatchOutcome struct {
	messages []ai.Message
	records  []ToolCallRecord
	listings []*core.Listing
	seen     map[core.ID]bool

	searchTerm  string
	searchFound int
	searched    bool
}

func (d *dispatchOutcome) attach(listings []*core.Listing) {
	for _, l := range listings {
		if d.seen[l.Id] {
			continue
		}
		d.seen[l.Id] = true
		d.listings = append(d.listings, l)
	}
}

// fallbackText phrases a reply from tool results when re-inference failed.
func (d *dispatchOutcome) fallbackText(query string) string {
	if d.searched {
		return fallbackText(d.searchTerm, d.searchFound)
	}
	if len(d.listings) > 0 {
		return fallbackText(fallbackTerm(query), len(d.listings))
	}
	return escalationAck
}

// dispatchAll answers each tool call in order. Tool errors become error
// payloads; catalog failures abort the turn.
func (o *Orchestrator) dispatchAll(ctx context.Context, req *Request, query string, calls []ai.ToolCall) (*dispatchOutcome, error) {
	outcome := &dispatchOutcome{seen: make(map[core.ID]bool)}

	for _, call := range calls {
		record := ToolCallRecord{Name: call.Name}
		if json.Valid([]byte(call.Arguments)) {
			record.Arguments = json.RawMessage(call.Arguments)
		}

		content, err := o.dispatch(ctx, req, query, call, outcome)
		if err != nil {
			if errors.Is(err, ErrCatalogUnavailable) {
				toolCallsTotal.WithLabelValues(call.Name, "catalog_error").Inc()
				return nil, err
			}
			o.logger.Warn("tool execution failed", "tool", call.Name, "err", err)
			toolCallsTotal.WithLabelValues(call.Name, "error").Inc()
			record.Error = err.Error()
			content = errorPayload(err)
		} else {
			toolCallsTotal.WithLabelValues(call.Name, "success").Inc()
		}

		outcome.records = append(outcome.records, record)
		outcome.messages = append(outcome.messages, ai.ToolMessage(call, content))
	}

	return outcome, nil
}

// dispatch executes one tool call and returns its result payload.
func (o *Orchestrator) dispatch(ctx context.Context, req *Request, query string, call ai.ToolCall, outcome *dispatchOutcome) (string, error) {
	inv, err := DecodeToolCall(call)
	if err != nil {
		return "", err
	}

	switch inv.Kind {
	case ToolSearchProducts:
		result, err := o.searcher.Search(ctx, inv.Search.Query, req.affiliation())
		if err != nil {
			o.logger.Error("search failed", "query", inv.Search.Query, "err", err)
			return "", fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
		}
		searchResultsCount.Observe(float64(result.Len()))
		o.logger.Debug("search tool", "query", inv.Search.Query, "tier", result.Tier, "found", result.Len())
		if !outcome.searched {
			outcome.searched = true
			outcome.searchTerm = core.Normalize(inv.Search.Query)
			outcome.searchFound = result.Len()
		}
		outcome.attach(result.Listings)
		return listingsPayload(result.Listings), nil

	case ToolPersonalizedRecommendations:
		listings, err := o.recommender.Recommend(ctx, req.affiliation())
		if err != nil {
			o.logger.Error("recommendation failed", "err", err)
			return "", fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
		}
		outcome.attach(listings)
		return listingsPayload(listings), nil

	case ToolEscalateToSupervisor:
		ticket := o.newTicket(req, query, inv.Escalate)
		if err := o.tickets.SubmitTicket(ctx, ticket); err != nil {
			if !errors.Is(err, storage.ErrPartialDelivery) {
				return "", fmt.Errorf("escalation failed: %w", err)
			}
			// The ticket exists; a retry would only duplicate it.
			o.logger.Warn("ticket not delivered to every sink",
				"reference", ticket.Reference, "err", err)
			degradedTotal.WithLabelValues("escalation").Inc()
		}
		escalationsTotal.WithLabelValues(string(ticket.Category)).Inc()
		o.logger.Info("escalated to supervisor",
			"reference", ticket.Reference,
			"category", ticket.Category,
			"priority", ticket.Priority)
		return ticketPayload(ticket), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
}

// newTicket builds an escalation ticket from model arguments and the requester.
func (o *Orchestrator) newTicket(req *Request, query string, args *EscalateArgs) *core.EscalationTicket {
	summary := strings.TrimSpace(args.Summary)
	if summary == "" {
		summary = query
	}

	ticket := &core.EscalationTicket{
		Reference:         uuid.NewString(),
		Summary:           summary,
		Category:          core.ParseIssueCategory(args.Category),
		Priority:          core.ParsePriority(args.Priority),
		OriginalUtterance: query,
		CreatedAt:         time.Now().UTC(),
	}
	ticket.Id = core.IDFromContent(ticket.Reference)
	if req.Requester != nil {
		ticket.RequesterId = req.Requester.UserId
		ticket.RequesterName = req.Requester.DisplayName
	}
	return ticket
}

// attachSpeech adds synthesized audio to reply. Failures only drop the audio.
func (o *Orchestrator) attachSpeech(ctx context.Context, reply *Reply) {
	if !o.speech || o.synthesizer == nil || strings.TrimSpace(reply.Text) == "" {
		return
	}

	text := reply.Text
	if runes := []rune(text); len(runes) > maxSpeechChars {
		text = string(runes[:maxSpeechChars])
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	audio, mimeType, err := o.synthesizer.Synthesize(callCtx, text)
	if err != nil {
		o.logger.Warn("speech synthesis failed, sending text only", "err", err)
		degradedTotal.WithLabelValues("speech").Inc()
		return
	}
	reply.Audio = audio
	reply.AudioMIME = mimeType
}
