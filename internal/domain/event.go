package domain

import "context"

type EventKind int

const (
	EventCommand EventKind = iota
	EventText
	EventButton
)

const (
	CommandStart = "/start"
	CommandFind  = "/find"

	ButtonSearch  = "search"
	ButtonNoPhone = "no_phone"
)

// Event is one inbound update from the messaging platform. Payload holds the
// command name, the message text, or the button callback data.
type Event struct {
	User    User
	ChatID  int64
	Kind    EventKind
	Payload string
	Args    string // command arguments, e.g. the keywords of /find
}

type Choice struct {
	Label string
	Data  string
}

// Reply is an outbound message: plain text, or text with a set of buttons.
type Reply struct {
	Text    string
	Choices []Choice
}

type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendChoices(ctx context.Context, chatID int64, text string, choices []Choice) error
}
