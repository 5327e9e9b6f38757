package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/X1ag/RideBoard/internal/domain"
	"github.com/X1ag/RideBoard/internal/repository/memory"
	"github.com/X1ag/RideBoard/internal/repository/sqlite"
	"github.com/X1ag/RideBoard/internal/usecase"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Compile-time interface compliance checks.
var _ domain.Messenger = (*Bot)(nil)
var _ Client = (*bot.Bot)(nil)

type fakeClient struct {
	mu       sync.Mutex
	sent     []*bot.SendMessageParams
	answered []string
	sendErr  error
}

func (f *fakeClient) SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, params)
	return &models.Message{}, nil
}

func (f *fakeClient) AnswerCallbackQuery(ctx context.Context, params *bot.AnswerCallbackQueryParams) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, params.CallbackQueryID)
	return true, nil
}

func newTestBot(t *testing.T) (*Bot, *fakeClient, *usecase.TripUsecase) {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	trips := usecase.NewTripUsecase(sqlite.NewTripRepository(db))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	dialog := usecase.NewDialogUsecase(memory.NewSessionRepository(0, 0, log), trips, usecase.NewListing(trips, 0, 0), nil, log)

	client := &fakeClient{}
	b := NewBot(dialog, log)
	b.AddClient(client)
	return b, client, trips
}

var tgUser = models.User{ID: 100, FirstName: "Ion", Username: "ion_md"}

func textUpdate(text string) *models.Update {
	u := tgUser
	return &models.Update{Message: &models.Message{
		From: &u,
		Chat: models.Chat{ID: 100},
		Text: text,
	}}
}

func buttonUpdate(data string) *models.Update {
	return &models.Update{CallbackQuery: &models.CallbackQuery{
		ID:   "cb-" + data,
		From: tgUser,
		Data: data,
		Message: models.MaybeInaccessibleMessage{
			Message: &models.Message{Chat: models.Chat{ID: 100}},
		},
	}}
}

func TestEventFromUpdate(t *testing.T) {
	ev, ok := EventFromUpdate(textUpdate("Chisinau → Munich"))
	require.True(t, ok)
	assert.Equal(t, domain.EventText, ev.Kind)
	assert.Equal(t, "Chisinau → Munich", ev.Payload)
	assert.Equal(t, domain.User{TelegramID: 100, Name: "Ion", Username: "ion_md"}, ev.User)
	assert.EqualValues(t, 100, ev.ChatID)

	ev, ok = EventFromUpdate(textUpdate("/find@RideBoardBot Chisinau  Berlin "))
	require.True(t, ok)
	assert.Equal(t, domain.EventCommand, ev.Kind)
	assert.Equal(t, domain.CommandFind, ev.Payload)
	assert.Equal(t, "Chisinau  Berlin", ev.Args)

	ev, ok = EventFromUpdate(buttonUpdate(domain.ButtonNoPhone))
	require.True(t, ok)
	assert.Equal(t, domain.EventButton, ev.Kind)
	assert.Equal(t, domain.ButtonNoPhone, ev.Payload)

	_, ok = EventFromUpdate(&models.Update{Message: &models.Message{From: &tgUser, Chat: models.Chat{ID: 1}}})
	assert.False(t, ok, "non-text messages are skipped")

	_, ok = EventFromUpdate(&models.Update{})
	assert.False(t, ok)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		name string
		args string
		ok   bool
	}{
		{"/start", "/start", "", true},
		{"/START", "/start", "", true},
		{"/start@RideBoardBot", "/start", "", true},
		{"/find Chisinau Berlin", "/find", "Chisinau Berlin", true},
		{"hello /start", "", "", false},
		{"/ 25 decembrie", "/", "25 decembrie", true},
	}
	for _, tt := range tests {
		name, args, ok := parseCommand(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		assert.Equal(t, tt.name, name, tt.in)
		assert.Equal(t, tt.args, args, tt.in)
	}
}

func TestBot_FullDialog(t *testing.T) {
	b, client, trips := newTestBot(t)
	ctx := context.Background()

	b.HandleUpdate(ctx, textUpdate("/start"))
	require.Len(t, client.sent, 1)
	markup, ok := client.sent[0].ReplyMarkup.(*models.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, markup.InlineKeyboard, 3)
	assert.Equal(t, "md_de", markup.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "Moldova → Germania", markup.InlineKeyboard[0][0].Text)

	b.HandleUpdate(ctx, buttonUpdate("md_de"))
	b.HandleUpdate(ctx, textUpdate("25 December"))
	b.HandleUpdate(ctx, textUpdate("Chisinau → Munich"))
	b.HandleUpdate(ctx, textUpdate("3"))
	b.HandleUpdate(ctx, buttonUpdate(domain.ButtonNoPhone))

	assert.Equal(t, []string{"cb-md_de", "cb-no_phone"}, client.answered)
	last := client.sent[len(client.sent)-1]
	assert.Contains(t, last.Text, "Anunțul tău e publicat!")
	assert.EqualValues(t, 100, last.ChatID)

	got, err := trips.Recent(ctx, 8)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Munich", got[0].ToCity)
	assert.Equal(t, domain.HiddenPhone, got[0].ContactPhone)
}

func TestBot_SendErrorDoesNotPanic(t *testing.T) {
	b, client, _ := newTestBot(t)
	client.sendErr = errors.New("forbidden: bot was blocked by the user")

	assert.NotPanics(t, func() {
		b.HandleUpdate(context.Background(), textUpdate("salut"))
	})
}

func TestBot_SlashTextMidDialogGetsPrompt(t *testing.T) {
	b, client, _ := newTestBot(t)
	ctx := context.Background()

	b.HandleUpdate(ctx, textUpdate("/start"))
	b.HandleUpdate(ctx, buttonUpdate("md_de"))
	before := len(client.sent)

	b.HandleUpdate(ctx, textUpdate("/ 25 decembrie"))

	require.Len(t, client.sent, before+1)
	assert.Contains(t, client.sent[before].Text, "Moldova → Germania")
	assert.Contains(t, client.sent[before].Text, "data aproximativă")
}
