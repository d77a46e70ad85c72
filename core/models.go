package core

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Condition describes the physical state of a listed item.
type Condition string

const (
	ConditionNew  Condition = "new"
	ConditionUsed Condition = "used"
)

// ListingStatus is the lifecycle state of a listing. Only active listings are searchable.
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusInactive ListingStatus = "inactive"
	ListingStatusPending  ListingStatus = "pending"
	ListingStatusExpired  ListingStatus = "expired"
)

// Seller identifies the account that published a listing.
type Seller struct {
	Id        ID     `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name,omitempty"`
}

// DisplayName returns the seller's first name, falling back to the username.
func (s Seller) DisplayName() string {
	if s.FirstName != "" {
		return s.FirstName
	}
	return s.Username
}

// Listing is a sellable item record in the catalog.
// Listings are owned by the catalog and never mutated during a search.
type Listing struct {
	Id          ID            `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Price       float64       `json:"price"`
	Condition   Condition     `json:"condition"`
	Category    string        `json:"category"`
	Institution string        `json:"institution,omitempty"`
	Department  string        `json:"department,omitempty"`
	Region      string        `json:"region,omitempty"` // seller's geographic location
	Status      ListingStatus `json:"status"`
	Seller      Seller        `json:"seller"`
	InsertedAt  time.Time     `json:"inserted_at"`
}

// IsActive reports whether the listing may appear in search results.
func (l *Listing) IsActive() bool {
	return l.Status == ListingStatusActive
}

// Affiliation is a requester's declared institution and department.
// Both fields are compared lower-cased and trimmed.
type Affiliation struct {
	Institution string
	Department  string
}

// NewAffiliation builds a normalized Affiliation.
func NewAffiliation(institution, department string) Affiliation {
	return Affiliation{
		Institution: Normalize(institution),
		Department:  Normalize(department),
	}
}

// Normalized returns a copy with both fields lower-cased and trimmed.
func (a Affiliation) Normalized() Affiliation {
	return NewAffiliation(a.Institution, a.Department)
}

// IsEmpty reports whether neither institution nor department is set.
func (a Affiliation) IsEmpty() bool {
	return strings.TrimSpace(a.Institution) == "" && strings.TrimSpace(a.Department) == ""
}

// Requester is the identity behind a conversational turn. A nil *Requester is anonymous.
type Requester struct {
	UserId      ID
	DisplayName string
	Affiliation Affiliation
}

// SearchTier is one level of the search fallback ladder.
type SearchTier int

const (
	TierLocationMatch SearchTier = iota
	TierExactAffiliation
	TierPartialAffiliation
	TierGlobalFallback
)

// String returns the tier name used in logs.
func (t SearchTier) String() string {
	switch t {
	case TierLocationMatch:
		return "location_match"
	case TierExactAffiliation:
		return "exact_affiliation"
	case TierPartialAffiliation:
		return "partial_affiliation"
	case TierGlobalFallback:
		return "global_fallback"
	}
	return "unknown"
}

// MaxRankedResults bounds every RankedResult.
const MaxRankedResults = 3

// RankedResult is the outcome of one tiered search call: at most three
// listings, ascending by price, with pairwise distinct ids.
type RankedResult struct {
	Tier     SearchTier
	Region   string // detected region, empty when none
	Listings []*Listing
}

// Len returns the number of listings in the result.
func (r *RankedResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Listings)
}

// IssueCategory classifies an escalation ticket.
type IssueCategory string

const (
	IssueGeneralInquiry   IssueCategory = "general_inquiry"
	IssueTechnicalSupport IssueCategory = "technical_support"
	IssueBillingQuestion  IssueCategory = "billing_question"
	IssueReportIssue      IssueCategory = "report_issue"
)

// IssueCategories lists the valid ticket categories in declaration order.
var IssueCategories = []IssueCategory{
	IssueGeneralInquiry,
	IssueTechnicalSupport,
	IssueBillingQuestion,
	IssueReportIssue,
}

// Priority is the urgency assigned to an escalation ticket.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// EscalationTicket requests human intervention. It is created once and
// handed to an external support system; nothing here mutates it afterwards.
type EscalationTicket struct {
	Id                ID            `json:"id"`
	Reference         string        `json:"reference"`
	Summary           string        `json:"summary"`
	Category          IssueCategory `json:"category"`
	Priority          Priority      `json:"priority"`
	RequesterId       ID            `json:"requester_id,omitempty"` // 0 for anonymous requesters
	RequesterName     string        `json:"requester_name,omitempty"`
	OriginalUtterance string        `json:"original_utterance"`
	CreatedAt         time.Time     `json:"created_at"`
}

// IsAnonymous reports whether the ticket came from an unauthenticated requester.
func (t *EscalationTicket) IsAnonymous() bool {
	return t.RequesterId == 0
}

// Normalize lower-cases and trims s. Used for every case-insensitive comparison.
func Normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
