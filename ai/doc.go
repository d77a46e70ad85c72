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

// Package ai provides abstractions for the AI services used by the assistant.
//
// This package defines interfaces for tool-calling chat completion, speech
// transcription, image description and speech synthesis. It follows the
// dependency inversion principle, allowing the dialogue logic to depend on
// abstractions rather than concrete implementations.
//
// # Interfaces
//
//   - ChatModel: Runs one tool-calling completion over a message log
//   - Transcriber: Converts recorded speech into text
//   - ImageDescriber: Names the item shown in a photo
//   - Synthesizer: Converts reply text into audio
//   - AIProvider: Aggregates the services for convenient initialization
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider, openai.NewChatModel, etc.) return
// INTERFACE types to enforce abstraction. Test constructors
// (mock.NewMockChatModel, mock.NewMockTranscriber, ...) return CONCRETE types
// so tests can inject behavior and assert on call counts.
//
//	provider, err := openai.NewProvider(config)  // returns ai.AIProvider
//	mockChat := mock.NewMockChatModel()           // returns *mock.MockChatModel
//	mockChat.CompleteFunc = ...
//	count := mockChat.CallCount()
//
// # Usage Example
//
//	config := ai.NewConfig(ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")))
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	reply, err := provider.ChatModel().Complete(ctx, []ai.Message{
//	    ai.SystemMessage("You are a helpful assistant."),
//	    ai.UserMessage("I need a ruler"),
//	}, nil)
package ai
