package openai

import (
	"context"
	"errors"
	"log/slog"

	"github.com/poiesic/bazaar/ai"
	"github.com/tmc/langchaingo/llms"
)

const describePrompt = "Identify the item in this photo for a student marketplace search. " +
	"Reply with a short product name of at most five words, such as \"scientific calculator\" or \"lab coat\". " +
	"Do not add any other text."

// maxDescriptionTokens bounds the reply; only a short phrase is wanted.
const maxDescriptionTokens = 30

// ImageDescriber implements ai.ImageDescriber using a vision-capable chat model.
type ImageDescriber struct {
	client llms.Model
	logger *slog.Logger
}

func newImageDescriberWithClient(client llms.Model, config *ai.Config) *ImageDescriber {
	return &ImageDescriber{
		client: client,
		logger: slog.Default().With("component", "openai-vision", "model", config.ChatModel),
	}
}

// NewImageDescriber creates a new image describer using the provided configuration.
//
// Returns ai.ImageDescriber interface to enforce abstraction.
func NewImageDescriber(config *ai.Config) (ai.ImageDescriber, error) {
	chat, err := newChatModel(config)
	if err != nil {
		return nil, err
	}
	return newImageDescriberWithClient(chat.client, config), nil
}

// DescribeImage asks the model for a short product name for image.
func (d *ImageDescriber) DescribeImage(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("openai: empty image")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(describePrompt),
				llms.BinaryPart(mimeType, image),
			},
		},
	}

	response, err := d.client.GenerateContent(ctx, content,
		llms.WithTemperature(0.0),
		llms.WithMaxTokens(maxDescriptionTokens))
	if err != nil {
		d.logger.Error("failed to describe image", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", errors.New("openai: no choices returned from model")
	}

	description := cleanPhrase(response.Choices[0].Content)
	if description == "" {
		return "", errors.New("openai: empty image description")
	}
	d.logger.Debug("described image", "description", description)
	return description, nil
}
