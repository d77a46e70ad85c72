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

package openai

import (
	"log/slog"
	"net/http"

	"github.com/poiesic/bazaar/ai"
)

// Provider implements ai.AIProvider using OpenAI-compatible services.
// The chat model and image describer share one langchaingo client; the audio
// services share one HTTP client.
type Provider struct {
	config      *ai.Config
	chat        *ChatModel
	describer   *ImageDescriber
	transcriber *Transcriber
	synthesizer *Synthesizer
	logger      *slog.Logger
}

// NewProvider creates a new AI provider with OpenAI-compatible services.
// The config is validated and normalized before use.
//
// Returns ai.AIProvider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.AIProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	chat, err := newChatModel(config)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{Timeout: config.Timeout}

	return &Provider{
		config:      config,
		chat:        chat,
		describer:   newImageDescriberWithClient(chat.client, config),
		transcriber: newTranscriber(config, httpClient),
		synthesizer: newSynthesizer(config, httpClient),
		logger:      slog.Default().With("component", "openai-provider"),
	}, nil
}

// ChatModel returns the tool-calling completion service.
func (p *Provider) ChatModel() ai.ChatModel {
	return p.chat
}

// Transcriber returns the speech-to-text service.
func (p *Provider) Transcriber() ai.Transcriber {
	return p.transcriber
}

// ImageDescriber returns the image description service.
func (p *Provider) ImageDescriber() ai.ImageDescriber {
	return p.describer
}

// Synthesizer returns the text-to-speech service.
func (p *Provider) Synthesizer() ai.Synthesizer {
	return p.synthesizer
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
