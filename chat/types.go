package chat

import (
	"encoding/json"

	"github.com/poiesic/bazaar/core"
)

// Request is the input of one conversational turn.
// At least one of Text, Audio or Image should be set unless Initial is true.
type Request struct {
	Text string

	Audio         []byte
	AudioFilename string // format hint for transcription, e.g. "voice.webm"

	Image     []byte
	ImageMIME string

	// Requester is nil for anonymous callers.
	Requester *core.Requester

	// Initial requests the greeting that opens a conversation.
	Initial bool
}

// Reply is the outcome of one conversational turn. Its shape is the same
// whichever path produced it.
type Reply struct {
	Text     string
	Listings []*core.Listing

	Audio     []byte
	AudioMIME string

	// Query is the normalized text the turn was answered for.
	Query string

	// Fallback is set when the model was unavailable and the reply came
	// from plain search.
	Fallback bool

	ToolCalls []ToolCallRecord
}

// ToolCallRecord describes one tool invocation made during a turn.
type ToolCallRecord struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func (r *Request) affiliation() *core.Affiliation {
	if r.Requester == nil || r.Requester.Affiliation.IsEmpty() {
		return nil
	}
	aff := r.Requester.Affiliation.Normalized()
	return &aff
}
