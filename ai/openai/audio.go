package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/poiesic/bazaar/ai"
)

// defaultAudioFilename is used when the caller gives no format hint.
const defaultAudioFilename = "audio.webm"

// Transcriber implements ai.Transcriber against the /audio/transcriptions endpoint.
type Transcriber struct {
	client *http.Client
	host   string
	apiKey string
	model  string
	logger *slog.Logger
}

func newTranscriber(config *ai.Config, client *http.Client) *Transcriber {
	return &Transcriber{
		client: client,
		host:   strings.TrimRight(config.Host, "/"),
		apiKey: config.APIKey,
		model:  config.TranscriptionModel,
		logger: slog.Default().With("component", "openai-transcriber"),
	}
}

// NewTranscriber creates a new transcriber using the provided configuration.
//
// Returns ai.Transcriber interface to enforce abstraction.
func NewTranscriber(config *ai.Config) (ai.Transcriber, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newTranscriber(config, &http.Client{Timeout: config.Timeout}), nil
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads audio and returns the recognized text.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if len(audio) == 0 {
		return "", errors.New("openai: empty audio")
	}
	if filename == "" {
		filename = defaultAudioFilename
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("model", t.model); err != nil {
		return "", fmt.Errorf("openai: build transcription request: %w", err)
	}
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("openai: build transcription request: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("openai: build transcription request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("openai: build transcription request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.host+"/audio/transcriptions", &body)
	if err != nil {
		return "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	setAuth(req, t.apiKey)

	payload, err := do(t.client, req)
	if err != nil {
		t.logger.Error("transcription failed", "err", err)
		return "", err
	}

	var result transcriptionResponse
	if err := json.Unmarshal(payload, &result); err != nil {
		return "", fmt.Errorf("openai: decode transcription: %w", err)
	}
	text := strings.TrimSpace(result.Text)
	t.logger.Debug("transcribed audio", "bytes", len(audio), "text_length", len(text))
	return text, nil
}

// Synthesizer implements ai.Synthesizer against the /audio/speech endpoint.
type Synthesizer struct {
	client *http.Client
	host   string
	apiKey string
	model  string
	voice  string
	logger *slog.Logger
}

func newSynthesizer(config *ai.Config, client *http.Client) *Synthesizer {
	return &Synthesizer{
		client: client,
		host:   strings.TrimRight(config.Host, "/"),
		apiKey: config.APIKey,
		model:  config.SpeechModel,
		voice:  config.Voice,
		logger: slog.Default().With("component", "openai-synthesizer"),
	}
}

// NewSynthesizer creates a new speech synthesizer using the provided configuration.
//
// Returns ai.Synthesizer interface to enforce abstraction.
func NewSynthesizer(config *ai.Config) (ai.Synthesizer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newSynthesizer(config, &http.Client{Timeout: config.Timeout}), nil
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

// Synthesize returns MP3 audio for text.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) ([]byte, string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, "", errors.New("openai: empty speech input")
	}

	payload, err := json.Marshal(speechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: "mp3",
	})
	if err != nil {
		return nil, "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.host+"/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("openai: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	setAuth(req, s.apiKey)

	audio, err := do(s.client, req)
	if err != nil {
		s.logger.Error("speech synthesis failed", "err", err)
		return nil, "", err
	}
	s.logger.Debug("synthesized speech", "chars", len(text), "bytes", len(audio))
	return audio, "audio/mpeg", nil
}

func setAuth(req *http.Request, apiKey string) {
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
}

// do sends req and returns the body of a 2xx response.
func do(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("openai: read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("openai: unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}
