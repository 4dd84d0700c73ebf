package event

// CommandPayload carries a parsed slash command and its raw argument string.
type CommandPayload struct {
	Name string
	Args string
}

// PhotoPayload references the highest-resolution variant of an attached photo.
//
// The file itself stays with the transport; handlers that need bytes fetch
// them through a FileFetcher for the duration of one dispatch cycle.
type PhotoPayload struct {
	FileID string
}

// InboundEvent is one unit of user interaction, immutable once received.
//
// Text holds the message text, or the caption when a photo is attached.
// At most one of Photo and Command is populated; Classify decides which
// payload wins when both could apply.
type InboundEvent struct {
	ChatID   string
	SenderID string
	Text     string
	Photo    *PhotoPayload
	Command  *CommandPayload
}

// OutboundMessage is one reply to the originating conversation.
type OutboundMessage struct {
	ChatID string
	Text   string
	HTML   bool
}
