package dispatch

import (
	"context"
	"errors"
	"log/slog"

	"mealbot/pkg/event"
)

// Handler processes one inbound event and emits zero or more outbound
// messages. Emitted messages are delivered immediately and in emission
// order, so a handler can acknowledge before a slow external call.
//
// Handlers never return errors: every failure mode is converted into a
// degraded user-facing message inside the handler itself.
type Handler func(ctx context.Context, ev event.InboundEvent, emit func(event.OutboundMessage))

// Sink delivers outbound messages back to the originating conversation.
type Sink interface {
	Send(ctx context.Context, msg event.OutboundMessage) error
}

// Registry maps event categories, and command names within the command
// category, to handlers. It is built once at startup and read-only
// afterwards; Resolve is safe for concurrent use without locking.
type Registry struct {
	commands map[string]Handler
	photo    Handler
	text     Handler
}

// NewRegistry returns an empty registry ready for startup registration.
func NewRegistry() *Registry {
	return &Registry{commands: make(map[string]Handler)}
}

// Command registers a handler for one exact, case-sensitive command name.
func (r *Registry) Command(name string, handler Handler) *Registry {
	r.commands[name] = handler
	return r
}

// Photo registers the single photo-category handler.
func (r *Registry) Photo(handler Handler) *Registry {
	r.photo = handler
	return r
}

// Text registers the single text-category handler.
func (r *Registry) Text(handler Handler) *Registry {
	r.text = handler
	return r
}

// Resolve selects the handler for a classified event. Command lookup is by
// exact name; an unknown command resolves to no handler, matching the
// classifier's silent treatment of unhandled events.
func (r *Registry) Resolve(category event.Category, commandName string) (Handler, bool) {
	switch category {
	case event.CategoryCommand:
		handler, ok := r.commands[commandName]
		return handler, ok
	case event.CategoryPhoto:
		return r.photo, r.photo != nil
	case event.CategoryText:
		return r.text, r.text != nil
	default:
		return nil, false
	}
}

// Dispatcher classifies inbound events, resolves exactly one handler per
// event, and streams the handler's messages through the sink.
type Dispatcher struct {
	registry *Registry
	sink     Sink
	log      *slog.Logger
}

// NewDispatcher wires a registry to a reply sink.
func NewDispatcher(registry *Registry, sink Sink, log *slog.Logger) (*Dispatcher, error) {
	if registry == nil {
		return nil, errors.New("registry is required")
	}
	if sink == nil {
		return nil, errors.New("sink is required")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Dispatcher{
		registry: registry,
		sink:     sink,
		log:      log.With("component", "dispatch"),
	}, nil
}

// Dispatch runs one full cycle for one inbound event. Unclassifiable
// events and unknown commands are silent no-ops. Sink failures are logged
// and never retried; they do not abort the handler.
func (d *Dispatcher) Dispatch(ctx context.Context, ev event.InboundEvent) {
	category := event.Classify(ev)

	commandName := ""
	if category == event.CategoryCommand {
		payload, ok := event.ParseCommand(ev.Text)
		if !ok {
			d.log.Debug("Ignoring malformed command", "chat_id", ev.ChatID)
			return
		}
		ev.Command = &payload
		commandName = payload.Name
	}

	handler, ok := d.registry.Resolve(category, commandName)
	if !ok {
		d.log.Debug("No handler for event", "category", string(category), "command", commandName, "chat_id", ev.ChatID)
		return
	}

	handler(ctx, ev, func(msg event.OutboundMessage) {
		if msg.ChatID == "" {
			msg.ChatID = ev.ChatID
		}
		if err := d.sink.Send(ctx, msg); err != nil {
			d.log.Error("Failed to deliver message", "chat_id", msg.ChatID, "error", err)
		}
	})
}
