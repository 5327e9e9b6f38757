package usecase

import (
	"fmt"
	"testing"

	"github.com/X1ag/RideBoard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) domain.Event   { return domain.Event{Kind: domain.EventText, Payload: s} }
func button(s string) domain.Event { return domain.Event{Kind: domain.EventButton, Payload: s} }
func command(s string) domain.Event {
	return domain.Event{Kind: domain.EventCommand, Payload: s}
}

func TestTransition_Table(t *testing.T) {
	tests := []struct {
		name    string
		state   domain.DialogState
		event   domain.Event
		next    domain.DialogState
		action  Action
		invalid string
	}{
		{name: "start from idle", state: domain.StateIdle, event: command(domain.CommandStart), next: domain.StateAwaitingDirection},
		{name: "restart mid dialog", state: domain.StateAwaitingSeats, event: command(domain.CommandStart), next: domain.StateAwaitingDirection},
		{name: "direction md_de", state: domain.StateAwaitingDirection, event: button("md_de"), next: domain.StateAwaitingDate},
		{name: "direction de_md", state: domain.StateAwaitingDirection, event: button("de_md"), next: domain.StateAwaitingDate},
		{name: "search button exits", state: domain.StateAwaitingDirection, event: button(domain.ButtonSearch), next: domain.StateIdle},
		{name: "text instead of direction", state: domain.StateAwaitingDirection, event: text("Berlin"), next: domain.StateIdle, action: ActionShowRecent},
		{name: "unknown button", state: domain.StateAwaitingDirection, event: button("xx"), next: domain.StateAwaitingDirection},
		{name: "date", state: domain.StateAwaitingDate, event: text("25 decembrie"), next: domain.StateAwaitingRoute},
		{name: "blank date", state: domain.StateAwaitingDate, event: text("  "), next: domain.StateAwaitingDate, invalid: ReasonEmpty},
		{name: "route", state: domain.StateAwaitingRoute, event: text("Chisinau → Munich"), next: domain.StateAwaitingSeats},
		{name: "route without arrow", state: domain.StateAwaitingRoute, event: text("Chisinau Munich"), next: domain.StateAwaitingRoute, invalid: ReasonMissingSeparator},
		{name: "seats", state: domain.StateAwaitingSeats, event: text("3"), next: domain.StateAwaitingPhone},
		{name: "seats out of range", state: domain.StateAwaitingSeats, event: text("9"), next: domain.StateAwaitingSeats, invalid: ReasonRangeFailure},
		{name: "seats not a number", state: domain.StateAwaitingSeats, event: text("trei"), next: domain.StateAwaitingSeats, invalid: ReasonParseFailure},
		{name: "stale button while typing", state: domain.StateAwaitingSeats, event: button("md_de"), next: domain.StateAwaitingSeats},
		{name: "phone text", state: domain.StateAwaitingPhone, event: text("+373 69 000000"), next: domain.StateCompleted, action: ActionComplete},
		{name: "hide phone", state: domain.StateAwaitingPhone, event: button(domain.ButtonNoPhone), next: domain.StateCompleted, action: ActionComplete},
		{name: "free text without session", state: domain.StateIdle, event: text("Chisinau Berlin"), next: domain.StateIdle, action: ActionShowRecent},
		{name: "search button without session", state: domain.StateIdle, event: button(domain.ButtonSearch), next: domain.StateIdle},
		{name: "unknown command without session", state: domain.StateIdle, event: command("/help"), next: domain.StateIdle},
		{name: "find", state: domain.StateAwaitingRoute, event: command(domain.CommandFind), next: domain.StateIdle, action: ActionFind},
		{name: "unknown command mid dialog", state: domain.StateAwaitingRoute, event: command("/help"), next: domain.StateAwaitingRoute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &domain.DialogSession{UserID: 1, State: tt.state}
			out := Transition(s, tt.event)

			assert.Equal(t, tt.next, out.Next)
			assert.Equal(t, tt.next, s.State)
			assert.Equal(t, tt.action, out.Action)
			if tt.invalid == "" {
				assert.Nil(t, out.Invalid)
			} else {
				require.NotNil(t, out.Invalid)
				assert.Equal(t, tt.invalid, out.Invalid.Reason)
			}
		})
	}
}

func TestTransition_CollectsFields(t *testing.T) {
	s := &domain.DialogSession{UserID: 1}

	steps := []domain.Event{
		command(domain.CommandStart),
		button("md_de"),
		text("25 December"),
		text("Chisinau → Munich"),
		text("3"),
		button(domain.ButtonNoPhone),
	}
	var out Outcome
	for _, ev := range steps {
		out = Transition(s, ev)
	}

	assert.Equal(t, ActionComplete, out.Action)
	assert.Equal(t, domain.StateCompleted, s.State)
	assert.Equal(t, domain.DirectionMDDE, s.Direction)
	assert.Equal(t, "25 December", s.ApproximateDate)
	assert.Equal(t, "Chisinau", s.FromCity)
	assert.Equal(t, "Munich", s.ToCity)
	assert.Equal(t, 3, s.Seats)
	assert.Equal(t, domain.HiddenPhone, s.ContactPhone)
}

func TestTransition_StartResetsPartialFields(t *testing.T) {
	s := &domain.DialogSession{
		UserID:          5,
		State:           domain.StateAwaitingSeats,
		Direction:       domain.DirectionDEMD,
		ApproximateDate: "ianuarie",
		FromCity:        "Koln",
		ToCity:          "Balti",
	}
	out := Transition(s, command(domain.CommandStart))

	require.Len(t, out.Replies, 1)
	assert.Len(t, out.Replies[0].Choices, 3)
	assert.Equal(t, domain.ButtonSearch, out.Replies[0].Choices[2].Data)
	assert.EqualValues(t, 5, s.UserID)
	assert.Empty(t, s.FromCity)
	assert.Empty(t, s.ApproximateDate)
	assert.Equal(t, domain.Direction(""), s.Direction)
}

func TestTransition_InvalidInputRepromptsWithoutChangingFields(t *testing.T) {
	s := &domain.DialogSession{UserID: 1, State: domain.StateAwaitingSeats, FromCity: "Chisinau", ToCity: "Berlin"}

	out := Transition(s, text("9"))

	require.Len(t, out.Replies, 1)
	assert.Equal(t, msgSeatsInvalid, out.Replies[0].Text)
	assert.Zero(t, s.Seats)
	assert.Equal(t, "Chisinau", s.FromCity)
}

func TestTransition_PhonePromptOffersHideButton(t *testing.T) {
	s := &domain.DialogSession{UserID: 1, State: domain.StateAwaitingSeats}

	out := Transition(s, text("2"))

	require.Len(t, out.Replies, 1)
	require.Len(t, out.Replies[0].Choices, 1)
	assert.Equal(t, domain.ButtonNoPhone, out.Replies[0].Choices[0].Data)
}

func TestTransition_UnknownCommandRepromptsCurrentStep(t *testing.T) {
	tests := []struct {
		state domain.DialogState
		want  string
	}{
		{domain.StateAwaitingDirection, msgGreeting},
		{domain.StateAwaitingDate, fmt.Sprintf(msgDatePrompt, domain.DirectionMDDE.Label())},
		{domain.StateAwaitingRoute, msgRoutePrompt},
		{domain.StateAwaitingSeats, msgSeatsPrompt},
		{domain.StateAwaitingPhone, msgPhonePrompt},
	}
	for _, tt := range tests {
		t.Run(tt.state.String(), func(t *testing.T) {
			s := &domain.DialogSession{UserID: 1, State: tt.state, Direction: domain.DirectionMDDE}

			out := Transition(s, command("/"))

			assert.Equal(t, tt.state, out.Next)
			assert.Nil(t, out.Invalid)
			require.Len(t, out.Replies, 1)
			assert.Equal(t, tt.want, out.Replies[0].Text)
		})
	}
}

func TestTransition_UnknownCommandWithoutSessionIsIgnored(t *testing.T) {
	s := &domain.DialogSession{UserID: 1}

	out := Transition(s, command("/help"))

	assert.Equal(t, domain.StateIdle, out.Next)
	assert.Empty(t, out.Replies)
}
