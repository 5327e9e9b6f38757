package telegram

import (
	"context"
	"log/slog"
	"strings"

	"github.com/X1ag/RideBoard/internal/domain"
	"github.com/X1ag/RideBoard/internal/usecase"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Client is the part of *bot.Bot the adapter uses.
type Client interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error)
}

type Bot struct {
	client   Client
	dialogUC *usecase.DialogUsecase
	log      *slog.Logger
}

func NewBot(dialogUC *usecase.DialogUsecase, log *slog.Logger) *Bot {
	if log == nil {
		log = slog.Default()
	}
	return &Bot{
		dialogUC: dialogUC,
		log:      log.With("component", "telegram"),
	}
}

func (b *Bot) AddClient(botClient Client) {
	b.client = botClient
}

// DefaultHandler receives every update; routing is done by the dialog.
func (b *Bot) DefaultHandler(ctx context.Context, _ *bot.Bot, update *models.Update) {
	b.HandleUpdate(ctx, update)
}

func (b *Bot) HandleUpdate(ctx context.Context, update *models.Update) {
	if update.CallbackQuery != nil {
		_, err := b.client.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: update.CallbackQuery.ID,
		})
		if err != nil {
			b.log.Warn("cannot answer callback", "err", err)
		}
	}

	ev, ok := EventFromUpdate(update)
	if !ok {
		return
	}
	replies := b.dialogUC.Handle(ctx, ev)
	if err := usecase.Deliver(ctx, b, ev.ChatID, replies); err != nil {
		b.log.Warn("cannot send reply", "chat_id", ev.ChatID, "err", err)
	}
}

// EventFromUpdate converts a text message or a button press into a dialog
// event. Other updates are skipped.
func EventFromUpdate(update *models.Update) (domain.Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		q := update.CallbackQuery
		chatID := q.From.ID
		if q.Message.Message != nil {
			chatID = q.Message.Message.Chat.ID
		}
		return domain.Event{
			User:    userFrom(&q.From),
			ChatID:  chatID,
			Kind:    domain.EventButton,
			Payload: q.Data,
		}, true
	case update.Message != nil && update.Message.From != nil && update.Message.Text != "":
		m := update.Message
		ev := domain.Event{
			User:    userFrom(m.From),
			ChatID:  m.Chat.ID,
			Kind:    domain.EventText,
			Payload: m.Text,
		}
		if name, args, ok := parseCommand(m.Text); ok {
			ev.Kind = domain.EventCommand
			ev.Payload = name
			ev.Args = args
		}
		return ev, true
	}
	return domain.Event{}, false
}

// parseCommand splits "/find@RideBot Chisinau Berlin" into "/find" and
// "Chisinau Berlin".
func parseCommand(text string) (name, args string, ok bool) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	name, args, _ = strings.Cut(text, " ")
	name, _, _ = strings.Cut(name, "@")
	return strings.ToLower(name), strings.TrimSpace(args), true
}

func userFrom(u *models.User) domain.User {
	return domain.User{
		TelegramID: u.ID,
		Name:       u.FirstName,
		Username:   u.Username,
	}
}

func (b *Bot) SendText(ctx context.Context, chatID int64, text string) error {
	_, err := b.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}

// SendChoices sends text with one inline button per row.
func (b *Bot) SendChoices(ctx context.Context, chatID int64, text string, choices []domain.Choice) error {
	keyboard := make([][]models.InlineKeyboardButton, 0, len(choices))
	for _, c := range choices {
		keyboard = append(keyboard, []models.InlineKeyboardButton{{Text: c.Label, CallbackData: c.Data}})
	}
	_, err := b.client.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: &models.InlineKeyboardMarkup{InlineKeyboard: keyboard},
	})
	return err
}
