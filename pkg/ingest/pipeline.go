package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"mealbot/pkg/dispatch"
	"mealbot/pkg/event"
	"mealbot/pkg/webhook"
)

const (
	extractionSystemPrompt = "You extract structured meal data."
	chatSystemPrompt       = "You are a friendly assistant."

	replyFallbackText = "⚠️ AI error."
	ackText           = "📌 Meal saved 💾"
)

// Completer is the completion collaborator boundary for both the
// extraction and the conversational stages.
type Completer interface {
	Complete(ctx context.Context, system string, user string) (string, error)
}

// Forwarder delivers the forwarding-stage payload. A nil Forwarder on the
// pipeline means no destination is configured and the stage is skipped.
type Forwarder interface {
	Forward(ctx context.Context, payload webhook.Payload) error
}

// ExtractionResult is the structured meal data pulled out of free-form
// text. Every field is optional; a failed extraction degrades to the zero
// value (all fields absent) instead of failing the pipeline.
type ExtractionResult struct {
	Food     *string  `json:"food,omitempty"`
	Amount   *float64 `json:"amount,omitempty"`
	Unit     *string  `json:"unit,omitempty"`
	Calories *float64 `json:"calories,omitempty"`
}

// StageStatus classifies one stage attempt.
type StageStatus string

const (
	StageSucceeded StageStatus = "succeeded"
	StageFailed    StageStatus = "failed"
	StageSkipped   StageStatus = "skipped"
)

// StageResult records the outcome of one pipeline stage. It exists for
// logging and tests only; no later stage consults it.
type StageResult struct {
	Status StageStatus
	Err    error
}

func succeededStage() StageResult { return StageResult{Status: StageSucceeded} }
func skippedStage() StageResult   { return StageResult{Status: StageSkipped} }
func failedStage(err error) StageResult {
	return StageResult{Status: StageFailed, Err: err}
}

// Outcome aggregates per-stage results for one text event.
type Outcome struct {
	Extraction StageResult
	Forward    StageResult
	Reply      StageResult
	Extracted  ExtractionResult
}

// Pipeline is the text-category handler: extraction, webhook forwarding,
// conversational reply, then an unconditional acknowledgment. Stages run
// strictly in sequence and every failure converts into a degraded
// continuation; no stage outcome gates a later stage.
type Pipeline struct {
	llm       Completer
	forwarder Forwarder
	log       *slog.Logger
}

// New wires the pipeline to its collaborators. Pass a nil forwarder when
// no webhook destination is configured.
func New(llm Completer, forwarder Forwarder, log *slog.Logger) (*Pipeline, error) {
	if llm == nil {
		return nil, errors.New("completer is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Pipeline{
		llm:       llm,
		forwarder: forwarder,
		log:       log.With("component", "ingest.pipeline"),
	}, nil
}

// Handler adapts the pipeline to the dispatch contract.
func (p *Pipeline) Handler() dispatch.Handler {
	return func(ctx context.Context, ev event.InboundEvent, emit func(event.OutboundMessage)) {
		outcome := p.Run(ctx, ev, emit)
		p.log.Info("Pipeline completed",
			"chat_id", ev.ChatID,
			"extraction", string(outcome.Extraction.Status),
			"forward", string(outcome.Forward.Status),
			"reply", string(outcome.Reply.Status),
		)
	}
}

// Run executes all four stages for one text event and reports per-stage
// outcomes. The returned Outcome is observational only.
func (p *Pipeline) Run(ctx context.Context, ev event.InboundEvent, emit func(event.OutboundMessage)) Outcome {
	var outcome Outcome

	outcome.Extracted, outcome.Extraction = p.extract(ctx, ev.Text)
	outcome.Forward = p.forward(ctx, ev, outcome.Extracted)
	outcome.Reply = p.reply(ctx, ev, emit)

	// The acknowledgment is unconditional and identical regardless of how
	// the earlier stages went.
	emit(event.OutboundMessage{ChatID: ev.ChatID, Text: ackText})

	return outcome
}

// extract asks the model for a JSON object matching the ExtractionResult
// schema. Any failure degrades to the all-absent result; this stage never
// surfaces an error to the user.
func (p *Pipeline) extract(ctx context.Context, text string) (ExtractionResult, StageResult) {
	raw, err := p.llm.Complete(ctx, extractionSystemPrompt, extractionPrompt(text))
	if err != nil {
		p.log.Warn("Extraction stage failed", "error", err)
		return ExtractionResult{}, failedStage(err)
	}

	result, err := parseExtraction(raw)
	if err != nil {
		p.log.Warn("Extraction stage returned unparsable data", "error", err)
		return ExtractionResult{}, failedStage(err)
	}

	return result, succeededStage()
}

// forward delivers {sender, raw text, extraction} to the configured
// destination. Failures are logged only and never alter later stages.
func (p *Pipeline) forward(ctx context.Context, ev event.InboundEvent, extracted ExtractionResult) StageResult {
	if p.forwarder == nil {
		return skippedStage()
	}

	parsed, err := json.Marshal(extracted)
	if err != nil {
		p.log.Warn("Forward stage failed to encode extraction", "error", err)
		return failedStage(err)
	}

	payload := webhook.Payload{
		UserID:  ev.SenderID,
		RawText: ev.Text,
		Parsed:  parsed,
	}
	if err := p.forwarder.Forward(ctx, payload); err != nil {
		p.log.Warn("Forward stage failed", "error", err)
		return failedStage(err)
	}

	return succeededStage()
}

// reply issues an independent conversational completion and emits either
// the model's answer or the fixed error placeholder.
func (p *Pipeline) reply(ctx context.Context, ev event.InboundEvent, emit func(event.OutboundMessage)) StageResult {
	answer, err := p.llm.Complete(ctx, chatSystemPrompt, ev.Text)
	if err != nil {
		p.log.Warn("Conversational stage failed", "error", err)
		emit(event.OutboundMessage{ChatID: ev.ChatID, Text: replyFallbackText})
		return failedStage(err)
	}

	emit(event.OutboundMessage{ChatID: ev.ChatID, Text: answer})
	return succeededStage()
}

func extractionPrompt(text string) string {
	return fmt.Sprintf(`Extract meal info from this message.
Return ONLY valid JSON.

Message:
%q

JSON format:
{
  "food": string or null,
  "amount": number or null,
  "unit": string or null,
  "calories": number or null
}`, text)
}

// parseExtraction leniently decodes the model's reply: surrounding
// whitespace and markdown code fences are tolerated, but the body must
// unmarshal as the declared schema.
func parseExtraction(raw string) (ExtractionResult, error) {
	body := strings.TrimSpace(raw)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
		body = strings.TrimSpace(body)
	}

	var result ExtractionResult
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return ExtractionResult{}, fmt.Errorf("parse extraction response: %w", err)
	}

	return result, nil
}
