package chat

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/poiesic/bazaar/ai"
	"github.com/poiesic/bazaar/core"
)

// ToolKind enumerates the tools the model may call.
type ToolKind int

const (
	ToolSearchProducts ToolKind = iota + 1
	ToolPersonalizedRecommendations
	ToolEscalateToSupervisor
)

var toolNames = map[ToolKind]string{
	ToolSearchProducts:              "search_products",
	ToolPersonalizedRecommendations: "get_personalized_recommendations",
	ToolEscalateToSupervisor:        "escalate_to_supervisor",
}

// String returns the tool name as declared to the model.
func (k ToolKind) String() string {
	if name, ok := toolNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseToolKind maps a declared tool name to its kind.
func ParseToolKind(name string) (ToolKind, bool) {
	for kind, n := range toolNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

// SearchArgs are the arguments of search_products.
type SearchArgs struct {
	Query string `json:"query"`
}

// EscalateArgs are the arguments of escalate_to_supervisor.
type EscalateArgs struct {
	Summary  string `json:"summary"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// ToolInvocation is a decoded tool call. Exactly one of Search or Escalate is
// set for the kinds that take arguments; recommendations take none.
type ToolInvocation struct {
	Kind     ToolKind
	CallID   string
	Search   *SearchArgs
	Escalate *EscalateArgs
}

// DecodeToolCall validates a model tool call against the declared tools.
func DecodeToolCall(call ai.ToolCall) (ToolInvocation, error) {
	kind, ok := ParseToolKind(call.Name)
	if !ok {
		return ToolInvocation{}, fmt.Errorf("%w: %q", ErrUnknownTool, call.Name)
	}

	inv := ToolInvocation{Kind: kind, CallID: call.ID}
	args := strings.TrimSpace(call.Arguments)
	if args == "" {
		args = "{}"
	}

	switch kind {
	case ToolSearchProducts:
		var sa SearchArgs
		if err := json.Unmarshal([]byte(args), &sa); err != nil {
			return ToolInvocation{}, fmt.Errorf("%w: %s: %w", ErrInvalidToolArguments, call.Name, err)
		}
		if strings.TrimSpace(sa.Query) == "" {
			return ToolInvocation{}, fmt.Errorf("%w: %s: query is required", ErrInvalidToolArguments, call.Name)
		}
		inv.Search = &sa
	case ToolEscalateToSupervisor:
		var ea EscalateArgs
		if err := json.Unmarshal([]byte(args), &ea); err != nil {
			return ToolInvocation{}, fmt.Errorf("%w: %s: %w", ErrInvalidToolArguments, call.Name, err)
		}
		inv.Escalate = &ea
	}

	return inv, nil
}

func toolParams(properties map[string]any, required []string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   required,
	}
}

func issueCategoryNames() []string {
	names := make([]string, 0, len(core.IssueCategories))
	for _, c := range core.IssueCategories {
		names = append(names, string(c))
	}
	return names
}

var toolDefinitions = []ai.ToolDefinition{
	{
		Name: ToolSearchProducts.String(),
		Description: "Search the marketplace for products matching the user's request. " +
			"Include a location in the query when the user names one, e.g. \"ruler from giza\".",
		Parameters: toolParams(
			map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "What the user is looking for, in a few words.",
				},
			},
			[]string{"query"},
		),
	},
	{
		Name:        ToolPersonalizedRecommendations.String(),
		Description: "Recommend products listed at the user's university or faculty.",
		Parameters:  toolParams(map[string]any{}, []string{}),
	},
	{
		Name: ToolEscalateToSupervisor.String(),
		Description: "Hand the conversation to a human supervisor when the user has a complaint, " +
			"a payment or account problem, or asks for a person.",
		Parameters: toolParams(
			map[string]any{
				"summary": map[string]any{
					"type":        "string",
					"description": "One or two sentences describing the user's problem.",
				},
				"category": map[string]any{
					"type":        "string",
					"enum":        issueCategoryNames(),
					"description": "Kind of issue.",
				},
				"priority": map[string]any{
					"type":        "string",
					"enum":        []string{string(core.PriorityLow), string(core.PriorityMedium), string(core.PriorityHigh)},
					"description": "How urgent the issue is.",
				},
			},
			[]string{"summary", "category", "priority"},
		),
	},
}

// ToolDefinitions returns the tools declared to the model.
func ToolDefinitions() []ai.ToolDefinition {
	return slices.Clone(toolDefinitions)
}
