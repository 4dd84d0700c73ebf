package handler

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"mealbot/pkg/event"
)

type fakeFiles struct {
	data []byte
	err  error
}

func (f *fakeFiles) FetchFile(context.Context, string) ([]byte, error) {
	return f.data, f.err
}

type fakeVision struct {
	description string
	err         error
	gotImage    []byte
}

func (f *fakeVision) DescribeImage(_ context.Context, _ string, image []byte) (string, error) {
	f.gotImage = image
	return f.description, f.err
}

func photoEvent() event.InboundEvent {
	return event.InboundEvent{ChatID: "1", Photo: &event.PhotoPayload{FileID: "file-1"}}
}

func runImageHandler(t *testing.T, files FileFetcher, vision ImageDescriber) []event.OutboundMessage {
	t.Helper()
	var msgs []event.OutboundMessage
	Image(files, vision, nil)(context.Background(), photoEvent(), func(msg event.OutboundMessage) {
		msgs = append(msgs, msg)
	})
	return msgs
}

func TestImageAckThenDescription(t *testing.T) {
	files := &fakeFiles{data: []byte{0xFF, 0xD8}}
	vision := &fakeVision{description: "A plate of scrambled eggs."}

	msgs := runImageHandler(t, files, vision)

	if len(msgs) != 2 {
		t.Fatalf("emitted = %d messages, want 2", len(msgs))
	}
	if msgs[0].Text != imageAckText {
		t.Fatalf("msgs[0] = %q, want ack first", msgs[0].Text)
	}
	if msgs[1].Text != "A plate of scrambled eggs." {
		t.Fatalf("msgs[1] = %q, want description", msgs[1].Text)
	}
	if !bytes.Equal(vision.gotImage, files.data) {
		t.Fatal("vision did not receive downloaded bytes")
	}
}

func TestImageDownloadFailure(t *testing.T) {
	files := &fakeFiles{err: errors.New("file gone")}
	vision := &fakeVision{}

	msgs := runImageHandler(t, files, vision)

	if len(msgs) != 2 {
		t.Fatalf("emitted = %d messages, want 2", len(msgs))
	}
	if msgs[1].Text != imageFallbackText {
		t.Fatalf("msgs[1] = %q, want fallback", msgs[1].Text)
	}
}

func TestImageVisionFailure(t *testing.T) {
	files := &fakeFiles{data: []byte{0x01}}
	vision := &fakeVision{err: errors.New("model overloaded")}

	msgs := runImageHandler(t, files, vision)

	if len(msgs) != 2 {
		t.Fatalf("emitted = %d messages, want 2", len(msgs))
	}
	if msgs[0].Text != imageAckText {
		t.Fatalf("msgs[0] = %q, want ack", msgs[0].Text)
	}
	if msgs[1].Text != imageFallbackText {
		t.Fatalf("msgs[1] = %q, want fallback", msgs[1].Text)
	}
}
