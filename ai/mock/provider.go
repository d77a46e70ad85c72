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

package mock

import "github.com/poiesic/bazaar/ai"

// MockProvider is a test double for ai.AIProvider.
// It aggregates the mock chat, speech and vision services.
type MockProvider struct {
	chat        *MockChatModel
	transcriber *MockTranscriber
	describer   *MockImageDescriber
	synthesizer *MockSynthesizer
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.AIProvider interface for consistency with production constructors.
// Use the GetMock* accessors to reach concrete types for test assertions.
func NewMockProvider() ai.AIProvider {
	return &MockProvider{
		chat:        NewMockChatModel(),
		transcriber: NewMockTranscriber(),
		describer:   NewMockImageDescriber(),
		synthesizer: NewMockSynthesizer(),
	}
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
// This allows full control over the behavior of each service.
// Nil services are replaced with defaults.
func NewMockProviderWithServices(chat *MockChatModel, transcriber *MockTranscriber, describer *MockImageDescriber, synthesizer *MockSynthesizer) ai.AIProvider {
	if chat == nil {
		chat = NewMockChatModel()
	}
	if transcriber == nil {
		transcriber = NewMockTranscriber()
	}
	if describer == nil {
		describer = NewMockImageDescriber()
	}
	if synthesizer == nil {
		synthesizer = NewMockSynthesizer()
	}
	return &MockProvider{
		chat:        chat,
		transcriber: transcriber,
		describer:   describer,
		synthesizer: synthesizer,
	}
}

// ChatModel returns the mock chat model.
func (p *MockProvider) ChatModel() ai.ChatModel {
	return p.chat
}

// Transcriber returns the mock transcriber.
func (p *MockProvider) Transcriber() ai.Transcriber {
	return p.transcriber
}

// ImageDescriber returns the mock image describer.
func (p *MockProvider) ImageDescriber() ai.ImageDescriber {
	return p.describer
}

// Synthesizer returns the mock synthesizer.
func (p *MockProvider) Synthesizer() ai.Synthesizer {
	return p.synthesizer
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockChatModel returns the underlying mock chat model for test assertions.
func (p *MockProvider) GetMockChatModel() *MockChatModel {
	return p.chat
}

// GetMockTranscriber returns the underlying mock transcriber for test assertions.
func (p *MockProvider) GetMockTranscriber() *MockTranscriber {
	return p.transcriber
}

// GetMockImageDescriber returns the underlying mock image describer for test assertions.
func (p *MockProvider) GetMockImageDescriber() *MockImageDescriber {
	return p.describer
}

// GetMockSynthesizer returns the underlying mock synthesizer for test assertions.
func (p *MockProvider) GetMockSynthesizer() *MockSynthesizer {
	return p.synthesizer
}
