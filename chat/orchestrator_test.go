package chat

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/bazaar/ai"
	"github.com/poiesic/bazaar/ai/mock"
	"github.com/poiesic/bazaar/core"
	"github.com/poiesic/bazaar/search"
	"github.com/poiesic/bazaar/storage"
	"github.com/poiesic/bazaar/storage/badger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	provider    *mock.MockProvider
	listings    storage.ListingRepository
	tickets     storage.TicketRepository
	engine      *search.Engine
	recommender *search.Recommender
}

func newListing(title string, price float64, institution, department, region string) *core.Listing {
	return &core.Listing{
		Title:       title,
		Description: "Good condition",
		Price:       price,
		Condition:   core.ConditionUsed,
		Category:    "Supplies",
		Institution: institution,
		Department:  department,
		Region:      region,
		Status:      core.ListingStatusActive,
		Seller:      core.Seller{Id: 7, Username: "mona", FirstName: "Mona"},
	}
}

func setupFixture(t *testing.T, listings ...*core.Listing) *fixture {
	t.Helper()
	listingRepo, ticketRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() {
		ticketRepo.Close()
		listingRepo.Close()
		backend.Close()
	})
	if len(listings) > 0 {
		_, err = listingRepo.AddListings(context.Background(), listings...)
		require.NoError(t, err)
	}

	engine, err := search.NewEngine(listingRepo)
	require.NoError(t, err)
	recommender, err := search.NewRecommender(listingRepo)
	require.NoError(t, err)

	return &fixture{
		provider:    mock.NewMockProvider().(*mock.MockProvider),
		listings:    listingRepo,
		tickets:     ticketRepo,
		engine:      engine,
		recommender: recommender,
	}
}

func (f *fixture) orchestrator(t *testing.T, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(f.provider, f.engine, f.recommender, f.tickets, opts...)
	require.NoError(t, err)
	return o
}

// scriptedChat answers the first call with calls and every later call with final.
func scriptedChat(final string, calls ...ai.ToolCall) func(context.Context, []ai.Message, []ai.ToolDefinition) (*ai.Completion, error) {
	return func(_ context.Context, messages []ai.Message, _ []ai.ToolDefinition) (*ai.Completion, error) {
		if messages[len(messages)-1].Role == ai.RoleUser {
			return &ai.Completion{ToolCalls: calls}, nil
		}
		return &ai.Completion{Content: final}, nil
	}
}

func searchCall(id, query string) ai.ToolCall {
	args, _ := json.Marshal(SearchArgs{Query: query})
	return ai.ToolCall{ID: id, Name: ToolSearchProducts.String(), Arguments: string(args)}
}

func listingTitles(listings []*core.Listing) []string {
	out := make([]string, 0, len(listings))
	for _, l := range listings {
		out = append(out, l.Title)
	}
	return out
}

func TestNewOrchestrator(t *testing.T) {
	f := setupFixture(t)

	t.Run("provider required", func(t *testing.T) {
		_, err := NewOrchestrator(nil, f.engine, f.recommender, f.tickets)
		assert.ErrorIs(t, err, ErrAIProviderRequired)
	})

	t.Run("searcher required", func(t *testing.T) {
		_, err := NewOrchestrator(f.provider, nil, f.recommender, f.tickets)
		assert.ErrorIs(t, err, ErrSearcherRequired)
	})

	t.Run("recommender required", func(t *testing.T) {
		_, err := NewOrchestrator(f.provider, f.engine, nil, f.tickets)
		assert.ErrorIs(t, err, ErrRecommenderRequired)
	})

	t.Run("ticket sink required", func(t *testing.T) {
		_, err := NewOrchestrator(f.provider, f.engine, f.recommender, nil)
		assert.ErrorIs(t, err, ErrTicketSinkRequired)
	})

	t.Run("invalid timeout", func(t *testing.T) {
		_, err := NewOrchestrator(f.provider, f.engine, f.recommender, f.tickets, WithCallTimeout(0))
		assert.Error(t, err)
	})

	t.Run("empty system prompt", func(t *testing.T) {
		_, err := NewOrchestrator(f.provider, f.engine, f.recommender, f.tickets, WithSystemPrompt("  "))
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		o := f.orchestrator(t, WithLogger(nil))
		assert.Equal(t, DefaultCallTimeout, o.callTimeout)
		assert.Equal(t, SystemPrompt, o.systemPrompt)
		assert.False(t, o.speech)
		assert.NotNil(t, o.logger)
	})
}

func TestRespondWelcome(t *testing.T) {
	f := setupFixture(t)
	o := f.orchestrator(t)

	reply, err := o.Respond(context.Background(), &Request{Initial: true})
	require.NoError(t, err)
	assert.Equal(t, WelcomeReply, reply.Text)
	assert.Zero(t, f.provider.GetMockChatModel().CallCount())
}

func TestRespondEmptyQuery(t *testing.T) {
	f := setupFixture(t)
	o := f.orchestrator(t)

	_, err := o.Respond(context.Background(), &Request{Text: "   "})
	assert.ErrorIs(t, err, ErrEmptyQuery)

	_, err = o.Respond(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Zero(t, f.provider.GetMockChatModel().CallCount())
}

func TestRespondPlainAnswer(t *testing.T) {
	f := setupFixture(t)
	f.provider.GetMockChatModel().CompleteFunc = func(_ context.Context, messages []ai.Message, tools []ai.ToolDefinition) (*ai.Completion, error) {
		require.Len(t, messages, 2)
		assert.Equal(t, ai.RoleSystem, messages[0].Role)
		assert.Equal(t, SystemPrompt, messages[0].Content)
		assert.Equal(t, "hello", messages[1].Content)
		assert.Len(t, tools, 3)
		return &ai.Completion{Content: "Hi! What are you looking for?"}, nil
	}
	o := f.orchestrator(t)

	reply, err := o.Respond(context.Background(), &Request{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "Hi! What are you looking for?", reply.Text)
	assert.Equal(t, "hello", reply.Query)
	assert.False(t, reply.Fallback)
	assert.Empty(t, reply.Listings)
	assert.Empty(t, reply.ToolCalls)
	assert.Equal(t, 1, f.provider.GetMockChatModel().CallCount())
}

func TestRespondSearchTool(t *testing.T) {
	f := setupFixture(t,
		newListing("Scientific calculator", 300, "Tech U", "Engineering", "cairo"),
		newListing("Basic calculator", 80, "Other U", "Arts", "giza"),
		newListing("Graphing calculator", 900, "Tech U", "Science", "cairo"),
	)
	chat := f.provider.GetMockChatModel()
	chat.CompleteFunc = scriptedChat("Here is a calculator from your faculty.", searchCall("call_1", "calculator"))
	o := f.orchestrator(t)

	req := &Request{
		Text: "I need a calculator",
		Requester: &core.Requester{
			UserId:      42,
			DisplayName: "Omar",
			Affiliation: core.Affiliation{Institution: "TECH U", Department: " engineering "},
		},
	}
	reply, err := o.Respond(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Here is a calculator from your faculty.", reply.Text)
	assert.Equal(t, []string{"Scientific calculator"}, listingTitles(reply.Listings))
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "search_products", reply.ToolCalls[0].Name)
	assert.JSONEq(t, `{"query":"calculator"}`, string(reply.ToolCalls[0].Arguments))
	assert.Empty(t, reply.ToolCalls[0].Error)

	// Second inference sees the assistant call and the tool payload, with no tools.
	requests := chat.Requests()
	require.Len(t, requests, 2)
	followUp := requests[1]
	require.Len(t, followUp, 4)
	assert.Equal(t, ai.RoleAssistant, followUp[2].Role)
	require.Len(t, followUp[2].ToolCalls, 1)
	assert.Equal(t, ai.RoleTool, followUp[3].Role)
	assert.Equal(t, "call_1", followUp[3].ToolCallID)

	var payload []map[string]any
	require.NoError(t, json.Unmarshal([]byte(followUp[3].Content), &payload))
	require.Len(t, payload, 1)
	assert.Equal(t, "Scientific calculator", payload[0]["title"])
	assert.Equal(t, "Mona", payload[0]["seller"].(map[string]any)["name"])

	// The first request must not have been mutated by the follow-up.
	assert.Len(t, requests[0], 2)
}

func TestRespondMultipleToolCalls(t *testing.T) {
	f := setupFixture(t,
		newListing("Ruler", 20, "Tech U", "Engineering", "giza"),
		newListing("Lab coat", 150, "Tech U", "Science", "cairo"),
	)
	f.provider.GetMockChatModel().CompleteFunc = scriptedChat("done",
		searchCall("a", "ruler"),
		ai.ToolCall{ID: "b", Name: ToolPersonalizedRecommendations.String(), Arguments: "{}"},
	)
	o := f.orchestrator(t)

	reply, err := o.Respond(context.Background(), &Request{
		Text:      "ruler and anything for my faculty",
		Requester: &core.Requester{Affiliation: core.Affiliation{Institution: "Tech U"}},
	})
	require.NoError(t, err)

	require.Len(t, reply.ToolCalls, 2)
	assert.Equal(t, "search_products", reply.ToolCalls[0].Name)
	assert.Equal(t, "get_personalized_recommendations", reply.ToolCalls[1].Name)
	// Recommendations repeat the ruler; listings are attached once each.
	assert.Equal(t, []string{"Ruler", "Lab coat"}, listingTitles(reply.Listings))
}

func TestRespondToolErrorsBecomePayloads(t *testing.T) {
	f := setupFixture(t, newListing("Ruler", 20, "", "", "giza"))
	chat := f.provider.GetMockChatModel()
	chat.CompleteFunc = scriptedChat("Sorry about that.",
		ai.ToolCall{ID: "x", Name: "order_pizza", Arguments: "{}"},
		ai.ToolCall{ID: "y", Name: ToolSearchProducts.String(), Arguments: "{not json"},
	)
	o := f.orchestrator(t)

	reply, err := o.Respond(context.Background(), &Request{Text: "pizza"})
	require.NoError(t, err)
	assert.Equal(t, "Sorry about that.", reply.Text)

	require.Len(t, reply.ToolCalls, 2)
	assert.Contains(t, reply.ToolCalls[0].Error, "unknown tool")
	assert.Contains(t, reply.ToolCalls[1].Error, "invalid tool arguments")
	assert.Nil(t, reply.ToolCalls[1].Arguments)

	followUp := chat.Requests()[1]
	require.Len(t, followUp, 5)
	for _, msg := range followUp[3:] {
		var payload map[string]string
		require.NoError(t, json.Unmarshal([]byte(msg.Content), &payload))
		assert.NotEmpty(t, payload["error"])
	}
}

type failingSearcher struct{}

func (failingSearcher) Search(context.Context, string, *core.Affiliation) (*core.RankedResult, error) {
	return nil, errors.New("disk on fire")
}

func TestRespondCatalogError(t *testing.T) {
	f := setupFixture(t)
	f.provider.GetMockChatModel().CompleteFunc = scriptedChat("unused", searchCall("1", "ruler"))

	o, err := NewOrchestrator(f.provider, failingSearcher{}, f.recommender, f.tickets)
	require.NoError(t, err)

	_, err = o.Respond(context.Background(), &Request{Text: "ruler"})
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.Contains(t, err.Error(), "disk on fire")
}

func TestRespondFallbackWhenModelFails(t *testing.T) {
	f := setupFixture(t,
		newListing("Blue backpack", 250, "", "", "cairo"),
		newListing("Leather backpack", 120, "", "", "giza"),
		newListing("Desk lamp", 90, "", "", "cairo"),
	)
	f.provider.GetMockChatModel().CompleteFunc = func(context.Context, []ai.Message, []ai.ToolDefinition) (*ai.Completion, error) {
		return nil, errors.New("service unavailable")
	}
	o := f.orchestrator(t)

	reply, err := o.Respond(context.Background(), &Request{Text: "Do you have a cheap backpack?"})
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
	assert.Equal(t, "I found 2 results for 'backpack'.", reply.Text)
	assert.Equal(t, []string{"Leather backpack", "Blue backpack"}, listingTitles(reply.Listings))
}

func TestRespondFallbackBackpackForClass(t *testing.T) {
	f := setupFixture(t,
		newListing("School backpack", 180, "", "", "giza"),
		newListing("Desk lamp", 90, "", "", "cairo"),
	)
	f.provider.GetMockChatModel().CompleteFunc = func(context.Context, []ai.Message, []ai.ToolDefinition) (*ai.Completion, error) {
		return nil, errors.New("service unavailable")
	}
	o := f.orchestrator(t)

	reply, err := o.Respond(context.Background(), &Request{Text: "I need a backpack for class"})
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
	assert.Equal(t, "I found 1 results for 'backpack'.", reply.Text)
	assert.Equal(t, []string{"School backpack"}, listingTitles(reply.Listings))
}

func TestRespondFallbackKeepsRegion(t *testing.T) {
	f := setupFixture(t, newListing("Steel ruler", 20, "", "", "cairo"))
	f.provider.GetMockChatModel().CompleteFunc = func(context.Context, []ai.Message, []ai.ToolDefinition) (*ai.Completion, error) {
		return nil, errors.New("service unavailable")
	}
	o := f.orchestrator(t)

	t.Run("region without inventory is not backfilled", func(t *testing.T) {
		reply, err := o.Respond(context.Background(), &Request{Text: "I need a ruler from alexandria"})
		require.NoError(t, err)
		assert.True(t, reply.Fallback)
		assert.Equal(t, "Sorry, I couldn't find any 'ruler' right now.", reply.Text)
		assert.Empty(t, reply.Listings)
	})

	t.Run("region with inventory", func(t *testing.T) {
		reply, err := o.Respond(context.Background(), &Request{Text: "I need a ruler from cairo"})
		require.NoError(t, err)
		assert.Equal(t, "I found 1 results for 'ruler'.", reply.Text)
		assert.Equal(t, []string{"Steel ruler"}, listingTitles(reply.Listings))
	})
}

func TestRespondFallbackWithImage(t *testing.T) {
	f := setupFixture(t, newListing("Scientific calculator", 300, "", "", "cairo"))
	f.provider.GetMockChatModel().CompleteFunc = func(context.Context, []ai.Message, []ai.ToolDefinition) (*ai.Completion, error) {
		return nil, errors.New("service unavailable")
	}
	f.provider.GetMockImageDescriber().DescribeImageFunc = func(context.Context, []byte, string) (string, error) {
		return "scientific calculator", nil
	}
	o := f.orchestrator(t)

	reply, err := o.Respond(context.Background(), &Request{Text: "how much is this?", Image: []byte{0x89}})
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
	assert.Equal(t, "I found 1 results for 'calculator'.", reply.Text)
	assert.NotContains(t, reply.Text, "Attached image")
}

func TestRespondFallbackNothingFound(t *testing.T) {
	f := setupFixture(t, newListing("Desk lamp", 90, "", "", "cairo"))
	f.provider.GetMockChatModel().CompleteFunc = func(context.Context, []ai.Message, []ai.ToolDefinition) (*ai.Completion, error) {
		return nil, errors.New("timeout")
	}
	o := f.orchestrator(t)

	reply, err := o.Respond(context.Background(), &Request{Text: "microscope please"})
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
	assert.Equal(t, "Sorry, I couldn't find any 'microscope' right now.", reply.Text)
	assert.Empty(t, reply.Listings)
}

func TestRespondReinferenceFailureUsesToolResults(t *testing.T) {
	f := setupFixture(t, newListing("Steel ruler", 20, "", "", "giza"))
	f.provider.GetMockChatModel().CompleteFunc = func(_ context.Context, messages []ai.Message, _ []ai.ToolDefinition) (*ai.Completion, error) {
		if messages[len(messages)-1].Role == ai.RoleUser {
			return &ai.Completion{ToolCalls: []ai.ToolCall{searchCall("1", "ruler")}}, nil
		}
		return nil, errors.New("rate limited")
	}
	o := f.orchestrator(t)

	reply, err := o.Respond(context.Background(), &Request{Text: "a ruler"})
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
	assert.Equal(t, "I found 1 results for 'ruler'.", reply.Text)
	assert.Equal(t, []string{"Steel ruler"}, listingTitles(reply.Listings))
	assert.Len(t, reply.ToolCalls, 1)
}

func TestRespondCallerCancellation(t *testing.T) {
	f := setupFixture(t)
	f.provider.GetMockChatModel().CompleteFunc = func(ctx context.Context, _ []ai.Message, _ []ai.ToolDefinition) (*ai.Completion, error) {
		return nil, ctx.Err()
	}
	o := f.orchestrator(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := o.Respond(ctx, &Request{Text: "ruler"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRespondEscalation(t *testing.T) {
	f := setupFixture(t)
	args := `{"summary":"Seller never delivered my order","category":"report issue","priority":"HIGH"}`
	f.provider.GetMockChatModel().CompleteFunc = scriptedChat("I'm sorry, a supervisor will contact you.",
		ai.ToolCall{ID: "e1", Name: ToolEscalateToSupervisor.String(), Arguments: args},
	)
	o := f.orchestrator(t)

	before := testutil.ToFloat64(escalationsTotal.WithLabelValues("report_issue"))
	reply, err := o.Respond(context.Background(), &Request{
		Text:      "I paid and got nothing!",
		Requester: &core.Requester{UserId: 42, DisplayName: "Omar"},
	})
	require.NoError(t, err)
	assert.Equal(t, "I'm sorry, a supervisor will contact you.", reply.Text)
	assert.Equal(t, before+1, testutil.ToFloat64(escalationsTotal.WithLabelValues("report_issue")))

	tickets, err := f.tickets.ListTickets(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	ticket := tickets[0]
	assert.Equal(t, "Seller never delivered my order", ticket.Summary)
	assert.Equal(t, core.IssueReportIssue, ticket.Category)
	assert.Equal(t, core.PriorityHigh, ticket.Priority)
	assert.Equal(t, core.ID(42), ticket.RequesterId)
	assert.Equal(t, "Omar", ticket.RequesterName)
	assert.Equal(t, "I paid and got nothing!", ticket.OriginalUtterance)
	assert.NotEmpty(t, ticket.Reference)
	assert.Equal(t, core.IDFromContent(ticket.Reference), ticket.Id)
}

func TestRespondEscalationDefaults(t *testing.T) {
	f := setupFixture(t)
	chat := f.provider.GetMockChatModel()
	chat.CompleteFunc = scriptedChat("ok",
		ai.ToolCall{ID: "e1", Name: ToolEscalateToSupervisor.String(), Arguments: `{"category":"refunds"}`},
	)
	o := f.orchestrator(t)

	_, err := o.Respond(context.Background(), &Request{Text: "let me talk to a person"})
	require.NoError(t, err)

	tickets, err := f.tickets.ListTickets(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "let me talk to a person", tickets[0].Summary)
	assert.Equal(t, core.IssueGeneralInquiry, tickets[0].Category)
	assert.Equal(t, core.PriorityMedium, tickets[0].Priority)
	assert.True(t, tickets[0].IsAnonymous())

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(chat.Requests()[1][3].Content), &payload))
	assert.Equal(t, "escalated", payload["status"])
	assert.Equal(t, tickets[0].Reference, payload["reference"])
}

type failingSink struct{}

func (failingSink) SubmitTicket(context.Context, *core.EscalationTicket) error {
	return errors.New("queue down")
}

func TestRespondEscalationSinkFailure(t *testing.T) {
	f := setupFixture(t)
	f.provider.GetMockChatModel().CompleteFunc = scriptedChat("We could not reach a supervisor.",
		ai.ToolCall{ID: "e1", Name: ToolEscalateToSupervisor.String(), Arguments: `{"summary":"help"}`},
	)
	o, err := NewOrchestrator(f.provider, f.engine, f.recommender, failingSink{})
	require.NoError(t, err)

	reply, err := o.Respond(context.Background(), &Request{Text: "help"})
	require.NoError(t, err)
	require.Len(t, reply.ToolCalls, 1)
	assert.Contains(t, reply.ToolCalls[0].Error, "queue down")
}

func TestRespondEscalationPartialDelivery(t *testing.T) {
	f := setupFixture(t)
	chat := f.provider.GetMockChatModel()
	chat.CompleteFunc = scriptedChat("A supervisor will follow up.",
		ai.ToolCall{ID: "e1", Name: ToolEscalateToSupervisor.String(), Arguments: `{"summary":"charged twice"}`},
	)
	sink := storage.FanoutSink{f.tickets, failingSink{}}
	o, err := NewOrchestrator(f.provider, f.engine, f.recommender, sink)
	require.NoError(t, err)

	before := testutil.ToFloat64(degradedTotal.WithLabelValues("escalation"))
	reply, err := o.Respond(context.Background(), &Request{Text: "I was charged twice"})
	require.NoError(t, err)
	require.Len(t, reply.ToolCalls, 1)
	assert.Empty(t, reply.ToolCalls[0].Error)
	assert.Equal(t, before+1, testutil.ToFloat64(degradedTotal.WithLabelValues("escalation")))

	tickets, err := f.tickets.ListTickets(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, tickets, 1)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(chat.Requests()[1][3].Content), &payload))
	assert.Equal(t, "escalated", payload["status"])
	assert.Equal(t, tickets[0].Reference, payload["reference"])
}

func TestRespondAudio(t *testing.T) {
	t.Run("transcript joins text", func(t *testing.T) {
		f := setupFixture(t)
		o := f.orchestrator(t)

		reply, err := o.Respond(context.Background(), &Request{Text: "hi", Audio: []byte("a ruler please")})
		require.NoError(t, err)
		assert.Equal(t, "hi a ruler please", reply.Query)
		assert.Equal(t, 1, f.provider.GetMockTranscriber().CallCount())
	})

	t.Run("transcription failure uses fallback query", func(t *testing.T) {
		f := setupFixture(t)
		f.provider.GetMockTranscriber().TranscribeFunc = func(context.Context, []byte, string) (string, error) {
			return "", errors.New("bad audio")
		}
		o := f.orchestrator(t)

		before := testutil.ToFloat64(degradedTotal.WithLabelValues("transcription"))
		reply, err := o.Respond(context.Background(), &Request{Audio: []byte{0x1, 0x2}})
		require.NoError(t, err)
		assert.Equal(t, TranscriptionFallbackQuery, reply.Query)
		assert.Equal(t, before+1, testutil.ToFloat64(degradedTotal.WithLabelValues("transcription")))
	})

	t.Run("empty transcript uses fallback query", func(t *testing.T) {
		f := setupFixture(t)
		f.provider.GetMockTranscriber().TranscribeFunc = func(context.Context, []byte, string) (string, error) {
			return "   ", nil
		}
		o := f.orchestrator(t)

		reply, err := o.Respond(context.Background(), &Request{Audio: []byte{0x1}})
		require.NoError(t, err)
		assert.Equal(t, TranscriptionFallbackQuery, reply.Query)
	})
}

func TestRespondImage(t *testing.T) {
	t.Run("description annotates text", func(t *testing.T) {
		f := setupFixture(t)
		f.provider.GetMockImageDescriber().DescribeImageFunc = func(_ context.Context, _ []byte, mimeType string) (string, error) {
			assert.Equal(t, "image/png", mimeType)
			return "calculator", nil
		}
		o := f.orchestrator(t)

		reply, err := o.Respond(context.Background(), &Request{Text: "do you have this?", Image: []byte{0x89}, ImageMIME: "image/png"})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(reply.Query, "do you have this?"))
		assert.Contains(t, reply.Query, "calculator")
	})

	t.Run("description alone becomes the query", func(t *testing.T) {
		f := setupFixture(t)
		o := f.orchestrator(t)

		reply, err := o.Respond(context.Background(), &Request{Image: []byte{0x89}})
		require.NoError(t, err)
		assert.Equal(t, "item", reply.Query)
	})

	t.Run("description failure drops the image", func(t *testing.T) {
		f := setupFixture(t)
		f.provider.GetMockImageDescriber().DescribeImageFunc = func(context.Context, []byte, string) (string, error) {
			return "", errors.New("vision down")
		}
		o := f.orchestrator(t)

		reply, err := o.Respond(context.Background(), &Request{Text: "this one", Image: []byte{0x89}})
		require.NoError(t, err)
		assert.Equal(t, "this one", reply.Query)

		_, err = o.Respond(context.Background(), &Request{Image: []byte{0x89}})
		assert.ErrorIs(t, err, ErrEmptyQuery)
	})
}

func TestRespondSpeech(t *testing.T) {
	t.Run("disabled by default", func(t *testing.T) {
		f := setupFixture(t)
		o := f.orchestrator(t)

		reply, err := o.Respond(context.Background(), &Request{Text: "hello"})
		require.NoError(t, err)
		assert.Nil(t, reply.Audio)
		assert.Zero(t, f.provider.GetMockSynthesizer().CallCount())
	})

	t.Run("attaches audio", func(t *testing.T) {
		f := setupFixture(t)
		o := f.orchestrator(t, WithSpeechSynthesis(true))

		reply, err := o.Respond(context.Background(), &Request{Text: "hello"})
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), reply.Audio)
		assert.Equal(t, "audio/mpeg", reply.AudioMIME)
	})

	t.Run("long replies are truncated", func(t *testing.T) {
		f := setupFixture(t)
		o := f.orchestrator(t, WithSpeechSynthesis(true))

		long := strings.Repeat("é", maxSpeechChars+50)
		_, err := o.Respond(context.Background(), &Request{Text: long})
		require.NoError(t, err)
		assert.Equal(t, maxSpeechChars, len([]rune(f.provider.GetMockSynthesizer().LastText())))
	})

	t.Run("failure is not fatal", func(t *testing.T) {
		f := setupFixture(t)
		f.provider.GetMockSynthesizer().SynthesizeFunc = func(context.Context, string) ([]byte, string, error) {
			return nil, "", errors.New("tts down")
		}
		o := f.orchestrator(t, WithSpeechSynthesis(true))

		before := testutil.ToFloat64(degradedTotal.WithLabelValues("speech"))
		reply, err := o.Respond(context.Background(), &Request{Text: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "hello", reply.Text)
		assert.Nil(t, reply.Audio)
		assert.Equal(t, before+1, testutil.ToFloat64(degradedTotal.WithLabelValues("speech")))
	})
}

func TestRespondCallTimeout(t *testing.T) {
	f := setupFixture(t, newListing("Ruler", 20, "", "", "giza"))
	f.provider.GetMockChatModel().CompleteFunc = func(ctx context.Context, _ []ai.Message, _ []ai.ToolDefinition) (*ai.Completion, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	o := f.orchestrator(t, WithCallTimeout(10*time.Millisecond))

	reply, err := o.Respond(context.Background(), &Request{Text: "ruler"})
	require.NoError(t, err)
	assert.True(t, reply.Fallback)
	assert.Equal(t, []string{"Ruler"}, listingTitles(reply.Listings))
}
