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

// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// Chat completion, tool calling and image description use the langchaingo
// library. Speech transcription and synthesis call the /audio/transcriptions
// and /audio/speech endpoints directly because langchaingo has no audio API.
// Any OpenAI-compatible server (OpenAI, Ollama, LocalAI, vLLM) can be used for
// the chat services; the audio endpoints need a server that implements them.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithChatModel("gpt-4o-mini"),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	completion, err := provider.ChatModel().Complete(ctx, messages, tools)
//	transcript, err := provider.Transcriber().Transcribe(ctx, audio, "voice.webm")
package openai
