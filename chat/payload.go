package chat

import (
	"encoding/json"

	"github.com/poiesic/bazaar/core"
)

const (
	notSpecified = "Not specified"
	noCategory   = "No category"
)

type sellerSummary struct {
	Id       core.ID `json:"id"`
	Name     string  `json:"name"`
	Username string  `json:"username"`
}

// listingSummary is the listing shape handed back to the model.
type listingSummary struct {
	Id          core.ID       `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Condition   string        `json:"condition"`
	Category    string        `json:"category"`
	Institution string        `json:"institution"`
	Department  string        `json:"department"`
	Region      string        `json:"region,omitempty"`
	Seller      sellerSummary `json:"seller"`
}

func summarize(l *core.Listing) listingSummary {
	s := listingSummary{
		Id:          l.Id,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Condition:   string(l.Condition),
		Category:    l.Category,
		Institution: l.Institution,
		Department:  l.Department,
		Region:      l.Region,
		Seller: sellerSummary{
			Id:       l.Seller.Id,
			Name:     l.Seller.DisplayName(),
			Username: l.Seller.Username,
		},
	}
	if s.Category == "" {
		s.Category = noCategory
	}
	if s.Institution == "" {
		s.Institution = notSpecified
	}
	if s.Department == "" {
		s.Department = notSpecified
	}
	return s
}

// listingsPayload renders listings as a JSON array. An empty input gives "[]".
func listingsPayload(listings []*core.Listing) string {
	summaries := make([]listingSummary, 0, len(listings))
	for _, l := range listings {
		summaries = append(summaries, summarize(l))
	}
	data, err := json.Marshal(summaries)
	if err != nil {
		return errorPayload(err)
	}
	return string(data)
}

type escalationPayload struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Category  string `json:"category"`
	Priority  string `json:"priority"`
	Message   string `json:"message"`
}

func ticketPayload(t *core.EscalationTicket) string {
	data, err := json.Marshal(escalationPayload{
		Status:    "escalated",
		Reference: t.Reference,
		Category:  string(t.Category),
		Priority:  string(t.Priority),
		Message:   escalationAck,
	})
	if err != nil {
		return errorPayload(err)
	}
	return string(data)
}

func errorPayload(err error) string {
	data, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(data)
}
