package event

import "strings"

// Category assigns an inbound event to exactly one handler family.
type Category string

const (
	CategoryCommand   Category = "command"
	CategoryPhoto     Category = "photo"
	CategoryText      Category = "text"
	CategoryUnhandled Category = "unhandled"
)

const commandPrefix = "/"

// Classify inspects an inbound event and assigns its category.
//
// Order is significant: an attached photo wins regardless of caption text,
// then slash commands, then any remaining text. Everything else (stickers,
// voice, empty updates) is unhandled and produces no output.
func Classify(ev InboundEvent) Category {
	if ev.Photo != nil {
		return CategoryPhoto
	}

	text := strings.TrimSpace(ev.Text)
	if strings.HasPrefix(text, commandPrefix) {
		return CategoryCommand
	}
	if text != "" {
		return CategoryText
	}

	return CategoryUnhandled
}

// ParseCommand splits a slash-command message into its name and raw argument
// string. A trailing "@botname" suffix on the command token is stripped so
// group-chat mentions resolve to the same command.
func ParseCommand(text string) (CommandPayload, bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, commandPrefix) {
		return CommandPayload{}, false
	}

	token, args, _ := strings.Cut(text[len(commandPrefix):], " ")
	token, _, _ = strings.Cut(token, "@")
	if token == "" {
		return CommandPayload{}, false
	}

	return CommandPayload{Name: token, Args: strings.TrimSpace(args)}, true
}
