package chat

import (
	"context"
	"fmt"
	"strings"
)

// normalizeInput reduces a request to one query string.
// Transcription failure substitutes TranscriptionFallbackQuery; image
// description failure drops the image.
func (o *Orchestrator) normalizeInput(ctx context.Context, req *Request) (string, error) {
	text := strings.TrimSpace(req.Text)

	if len(req.Audio) > 0 {
		transcript := o.transcribe(ctx, req)
		text = strings.TrimSpace(strings.Join([]string{text, transcript}, " "))
	}

	if len(req.Image) > 0 {
		if description := o.describe(ctx, req); description != "" {
			if text == "" {
				text = description
			} else {
				text = fmt.Sprintf(imageContextFormat, text, description)
			}
		}
	}

	if text == "" {
		return "", ErrEmptyQuery
	}
	return text, nil
}

func (o *Orchestrator) transcribe(ctx context.Context, req *Request) string {
	if o.transcriber == nil {
		o.logger.Warn("audio received but no transcriber configured")
		degradedTotal.WithLabelValues("transcription").Inc()
		return TranscriptionFallbackQuery
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	transcript, err := o.transcriber.Transcribe(callCtx, req.Audio, req.AudioFilename)
	transcript = strings.TrimSpace(transcript)
	if err != nil || transcript == "" {
		o.logger.Warn("transcription failed, using fallback query", "err", err)
		degradedTotal.WithLabelValues("transcription").Inc()
		return TranscriptionFallbackQuery
	}
	return transcript
}

func (o *Orchestrator) describe(ctx context.Context, req *Request) string {
	if o.describer == nil {
		return ""
	}

	callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
	defer cancel()

	description, err := o.describer.DescribeImage(callCtx, req.Image, req.ImageMIME)
	if err != nil {
		o.logger.Warn("image description failed, ignoring image", "err", err)
		degradedTotal.WithLabelValues("image").Inc()
		return ""
	}
	return strings.TrimSpace(description)
}
