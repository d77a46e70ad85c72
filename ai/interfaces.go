package ai

import "context"

// ChatModel runs one tool-calling chat completion.
// Implementations must be thread-safe for concurrent use.
type ChatModel interface {
	// Complete submits the message log and the declared tools and returns the
	// model's reply: text, tool calls, or both.
	// A nil or empty tools slice disables tool calling for the request.
	// Returns an error for any provider failure (network, auth, quota, timeout).
	Complete(ctx context.Context, messages []Message, tools []ToolDefinition) (*Completion, error)
}

// Transcriber converts recorded speech into text.
// Implementations must be thread-safe for concurrent use.
type Transcriber interface {
	// Transcribe returns the transcript of audio. filename is a hint for the
	// container format (e.g. "voice.webm") and may be empty.
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// ImageDescriber produces a short product-identifying phrase for an image.
// Implementations must be thread-safe for concurrent use.
type ImageDescriber interface {
	// DescribeImage returns a few words naming the item shown in image.
	DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error)
}

// Synthesizer converts reply text into spoken audio.
// Implementations must be thread-safe for concurrent use.
type Synthesizer interface {
	// Synthesize returns encoded audio for text and its MIME type.
	Synthesize(ctx context.Context, text string) (audio []byte, mimeType string, err error)
}

// AIProvider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages the chat, speech and vision services,
// ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// ChatModel returns the tool-calling completion service.
	ChatModel() ChatModel

	// Transcriber returns the speech-to-text service.
	Transcriber() Transcriber

	// ImageDescriber returns the image description service.
	ImageDescriber() ImageDescriber

	// Synthesizer returns the text-to-speech service.
	Synthesizer() Synthesizer

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
