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

// Package mock provides test doubles for the ai package interfaces.
//
// Each mock exposes a function field for injecting behavior, a CallCount for
// assertions and Reset to restore defaults. All mocks are safe for concurrent use.
//
// # Usage
//
//	chat := mock.NewMockChatModel()
//	chat.CompleteFunc = func(ctx context.Context, msgs []ai.Message, tools []ai.ToolDefinition) (*ai.Completion, error) {
//	    return &ai.Completion{Content: "Found it!"}, nil
//	}
//
//	provider := mock.NewMockProviderWithServices(chat, nil, nil, nil)
//	count := chat.CallCount()
//
// # Default Behavior
//
//   - MockChatModel: Echoes the last user message as plain text
//   - MockTranscriber: Returns the audio bytes as the transcript
//   - MockImageDescriber: Returns "item"
//   - MockSynthesizer: Returns the text bytes as "audio/mpeg"
package mock
