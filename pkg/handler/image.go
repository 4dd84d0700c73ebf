package handler

import (
	"context"
	"log/slog"

	"mealbot/pkg/dispatch"
	"mealbot/pkg/event"
)

const (
	imageAckText      = "📸 Analyzing the photo..."
	imageFallbackText = "⚠️ I couldn't analyze the photo."

	imagePrompt = "Describe this image clearly in simple English."
)

// FileFetcher downloads file bytes through the transport collaborator.
type FileFetcher interface {
	FetchFile(ctx context.Context, fileID string) ([]byte, error)
}

// ImageDescriber is the vision-completion collaborator boundary.
type ImageDescriber interface {
	DescribeImage(ctx context.Context, prompt string, image []byte) (string, error)
}

// Image builds the photo-category handler. It acknowledges immediately so
// the user perceives progress during the multi-second vision latency, then
// emits either the description or a single fixed fallback. Failure detail
// is logged for operators, never shown to the user.
func Image(files FileFetcher, vision ImageDescriber, log *slog.Logger) dispatch.Handler {
	if log == nil {
		log = slog.Default()
	}
	log = log.With("component", "handler.image")

	return func(ctx context.Context, ev event.InboundEvent, emit func(event.OutboundMessage)) {
		if ev.Photo == nil {
			log.Warn("Image handler invoked without photo payload", "chat_id", ev.ChatID)
			return
		}

		emit(event.OutboundMessage{ChatID: ev.ChatID, Text: imageAckText})

		image, err := files.FetchFile(ctx, ev.Photo.FileID)
		if err != nil {
			log.Error("Failed to download photo", "file_id", ev.Photo.FileID, "error", err)
			emit(event.OutboundMessage{ChatID: ev.ChatID, Text: imageFallbackText})
			return
		}

		description, err := vision.DescribeImage(ctx, imagePrompt, image)
		if err != nil {
			log.Error("Vision completion failed", "file_id", ev.Photo.FileID, "error", err)
			emit(event.OutboundMessage{ChatID: ev.ChatID, Text: imageFallbackText})
			return
		}

		emit(event.OutboundMessage{ChatID: ev.ChatID, Text: description})
	}
}
