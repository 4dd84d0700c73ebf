package handler

import (
	"context"
	"slices"
	"strings"
	"testing"

	"mealbot/pkg/event"
)

func runHandler(t *testing.T, h func(context.Context, event.InboundEvent, func(event.OutboundMessage))) []event.OutboundMessage {
	t.Helper()
	var msgs []event.OutboundMessage
	h(context.Background(), event.InboundEvent{ChatID: "1"}, func(msg event.OutboundMessage) {
		msgs = append(msgs, msg)
	})
	return msgs
}

func TestFactDrawsFromPool(t *testing.T) {
	for range 20 {
		msgs := runHandler(t, Fact())
		if len(msgs) != 1 {
			t.Fatalf("emitted = %d messages, want 1", len(msgs))
		}
		if !slices.Contains(facts, msgs[0].Text) {
			t.Fatalf("fact %q not in pool", msgs[0].Text)
		}
	}
}

func TestMotivateDrawsFromPool(t *testing.T) {
	msgs := runHandler(t, Motivate())
	if len(msgs) != 1 {
		t.Fatalf("emitted = %d messages, want 1", len(msgs))
	}
	if !slices.Contains(motivations, msgs[0].Text) {
		t.Fatalf("motivation %q not in pool", msgs[0].Text)
	}
}

func TestNewsSelectsThreeDistinctItems(t *testing.T) {
	for range 20 {
		items := sampleNews()
		if len(items) != 3 {
			t.Fatalf("sampled = %d items, want 3", len(items))
		}

		seen := make(map[string]struct{}, len(items))
		for _, item := range items {
			if !slices.Contains(newsPool, item) {
				t.Fatalf("item %q not in pool", item)
			}
			if _, dup := seen[item]; dup {
				t.Fatalf("duplicate item %q", item)
			}
			seen[item] = struct{}{}
		}
	}
}

func TestNewsMessageShape(t *testing.T) {
	msgs := runHandler(t, News())
	if len(msgs) != 1 {
		t.Fatalf("emitted = %d messages, want 1", len(msgs))
	}
	if !msgs[0].HTML {
		t.Fatal("news message should request HTML formatting")
	}
	if !strings.HasPrefix(msgs[0].Text, "📰 <b>Today's News</b>\n") {
		t.Fatalf("news message = %q, want header prefix", msgs[0].Text)
	}
	if lines := strings.Split(msgs[0].Text, "\n"); len(lines) != 4 {
		t.Fatalf("news message has %d lines, want 4", len(lines))
	}
}

func TestStartListsCommands(t *testing.T) {
	msgs := runHandler(t, Start())
	if len(msgs) != 1 {
		t.Fatalf("emitted = %d messages, want 1", len(msgs))
	}
	for _, command := range []string{"/news", "/motivate", "/fact", "/weather"} {
		if !strings.Contains(msgs[0].Text, command) {
			t.Fatalf("start text missing %s", command)
		}
	}
}
