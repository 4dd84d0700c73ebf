package ingest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"mealbot/pkg/event"
	"mealbot/pkg/webhook"
)

// End-to-end happy path: extraction succeeds, the configured webhook
// receives one POST with the parsed meal, the conversational reply and the
// acknowledgment arrive in that order.
func TestPipelineEndToEnd(t *testing.T) {
	var mu sync.Mutex
	var received [][]byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		received = append(received, body)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	forwarder, err := webhook.New(server.URL)
	require.NoError(t, err)

	llm := &scriptedCompleter{
		extractionText: `{"food":"eggs","amount":2,"unit":"pcs","calories":156}`,
		chatText:       "Eggs are a great protein source!",
	}
	p, err := New(llm, forwarder, nil)
	require.NoError(t, err)

	var msgs []event.OutboundMessage
	outcome := p.Run(context.Background(), event.InboundEvent{
		ChatID:   "100",
		SenderID: "77",
		Text:     "I ate 2 eggs",
	}, collectEmitted(&msgs))

	require.Equal(t, StageSucceeded, outcome.Extraction.Status)
	require.Equal(t, StageSucceeded, outcome.Forward.Status)
	require.Equal(t, StageSucceeded, outcome.Reply.Status)

	require.Len(t, received, 1, "exactly one webhook POST")
	var payload struct {
		UserID  string `json:"user_id"`
		RawText string `json:"raw_text"`
		Parsed  struct {
			Food   string  `json:"food"`
			Amount float64 `json:"amount"`
		} `json:"parsed"`
	}
	require.NoError(t, json.Unmarshal(received[0], &payload))
	require.Equal(t, "77", payload.UserID)
	require.Equal(t, "I ate 2 eggs", payload.RawText)
	require.Equal(t, "eggs", payload.Parsed.Food)
	require.Equal(t, float64(2), payload.Parsed.Amount)

	require.Len(t, msgs, 2, "conversational reply then acknowledgment")
	require.Equal(t, "Eggs are a great protein source!", msgs[0].Text)
	require.Equal(t, ackText, msgs[1].Text)
}
