package usecase

import (
	"strings"

	"github.com/X1ag/RideBoard/internal/domain"
)

// Action is the side effect the caller must run after a transition.
type Action int

const (
	ActionNone Action = iota
	// ActionComplete persists the session as a TripPosting.
	ActionComplete
	// ActionShowRecent answers with the recent listing.
	ActionShowRecent
	// ActionFind answers with the postings matching the event's keywords.
	ActionFind
)

// Outcome is the result of feeding one event to a session.
type Outcome struct {
	Next    domain.DialogState
	Replies []domain.Reply
	Invalid *Invalid
	Action  Action
}

type step func(s *domain.DialogSession, ev domain.Event) Outcome

var transitions = map[domain.DialogState]step{
	domain.StateIdle:              idleStep,
	domain.StateAwaitingDirection: directionStep,
	domain.StateAwaitingDate:      dateStep,
	domain.StateAwaitingRoute:     routeStep,
	domain.StateAwaitingSeats:     seatsStep,
	domain.StateAwaitingPhone:     phoneStep,
}

// Transition applies ev to s and fills in the collected field. It does no I/O:
// persisting, listing and session bookkeeping are left to the caller, driven
// by the returned Outcome. Entering StateIdle means the session is dropped.
func Transition(s *domain.DialogSession, ev domain.Event) Outcome {
	if ev.Kind == domain.EventCommand {
		switch ev.Payload {
		case domain.CommandStart:
			*s = domain.DialogSession{UserID: s.UserID, State: domain.StateAwaitingDirection}
			return Outcome{
				Next:    domain.StateAwaitingDirection,
				Replies: []domain.Reply{{Text: msgGreeting, Choices: startChoices()}},
			}
		case domain.CommandFind:
			return leave(s, Outcome{Action: ActionFind})
		default:
			// Unknown commands are ignored outside a dialog and re-prompt inside one.
			if r, ok := prompt(s); ok {
				return stay(s, nil, r)
			}
			return Outcome{Next: s.State}
		}
	}

	fn, ok := transitions[s.State]
	if !ok {
		// Completed sessions are deleted right away; anything left here is
		// treated as no session at all.
		return idleStep(s, ev)
	}
	out := fn(s, ev)
	s.State = out.Next
	return out
}

func leave(s *domain.DialogSession, out Outcome) Outcome {
	s.State = domain.StateIdle
	out.Next = domain.StateIdle
	return out
}

func stay(s *domain.DialogSession, invalid *Invalid, replies ...domain.Reply) Outcome {
	return Outcome{Next: s.State, Invalid: invalid, Replies: replies}
}

// prompt returns the question the session is waiting on.
func prompt(s *domain.DialogSession) (domain.Reply, bool) {
	switch s.State {
	case domain.StateAwaitingDirection:
		return domain.Reply{Text: msgGreeting, Choices: startChoices()}, true
	case domain.StateAwaitingDate:
		return textReplyf(msgDatePrompt, s.Direction.Label()), true
	case domain.StateAwaitingRoute:
		return textReply(msgRoutePrompt), true
	case domain.StateAwaitingSeats:
		return textReply(msgSeatsPrompt), true
	case domain.StateAwaitingPhone:
		return domain.Reply{Text: msgPhonePrompt, Choices: phoneChoices()}, true
	}
	return domain.Reply{}, false
}

func idleStep(s *domain.DialogSession, ev domain.Event) Outcome {
	switch {
	case ev.Kind == domain.EventText:
		return leave(s, Outcome{Action: ActionShowRecent})
	case ev.Payload == domain.ButtonSearch:
		return leave(s, Outcome{Replies: []domain.Reply{textReply(msgSearchHint)}})
	default:
		return leave(s, Outcome{Replies: []domain.Reply{textReply(msgNoSession)}})
	}
}

func directionStep(s *domain.DialogSession, ev domain.Event) Outcome {
	if ev.Kind == domain.EventText {
		// Text instead of a button abandons the dialog.
		return leave(s, Outcome{Action: ActionShowRecent})
	}
	if ev.Payload == domain.ButtonSearch {
		return leave(s, Outcome{Replies: []domain.Reply{textReply(msgSearchHint)}})
	}
	d, err := domain.ParseDirection(ev.Payload)
	if err != nil {
		r, _ := prompt(s)
		return stay(s, nil, r)
	}
	s.Direction = d
	return Outcome{
		Next:    domain.StateAwaitingDate,
		Replies: []domain.Reply{textReplyf(msgDatePrompt, d.Label())},
	}
}

func dateStep(s *domain.DialogSession, ev domain.Event) Outcome {
	if ev.Kind != domain.EventText {
		r, _ := prompt(s)
		return stay(s, nil, r)
	}
	date, invalid := ParseDate(ev.Payload)
	if invalid != nil {
		return stay(s, invalid, textReply(msgDateEmpty))
	}
	s.ApproximateDate = date
	return Outcome{
		Next:    domain.StateAwaitingRoute,
		Replies: []domain.Reply{textReply(msgRoutePrompt)},
	}
}

func routeStep(s *domain.DialogSession, ev domain.Event) Outcome {
	if ev.Kind != domain.EventText {
		r, _ := prompt(s)
		return stay(s, nil, r)
	}
	route := ParseRoute(ev.Payload)
	if !route.Valid() {
		msg := msgRouteNoArrow
		if route.Invalid.Reason == ReasonEmptyCity {
			msg = msgRouteEmptyCity
		}
		return stay(s, route.Invalid, domain.Reply{Text: msg})
	}
	s.FromCity, s.ToCity = route.From, route.To
	return Outcome{
		Next:    domain.StateAwaitingSeats,
		Replies: []domain.Reply{textReply(msgSeatsPrompt)},
	}
}

func seatsStep(s *domain.DialogSession, ev domain.Event) Outcome {
	if ev.Kind != domain.EventText {
		r, _ := prompt(s)
		return stay(s, nil, r)
	}
	seats := ParseSeats(ev.Payload)
	if !seats.Valid() {
		return stay(s, seats.Invalid, textReply(msgSeatsInvalid))
	}
	s.Seats = seats.Seats
	return Outcome{
		Next:    domain.StateAwaitingPhone,
		Replies: []domain.Reply{{Text: msgPhonePrompt, Choices: phoneChoices()}},
	}
}

func phoneStep(s *domain.DialogSession, ev domain.Event) Outcome {
	switch {
	case ev.Kind == domain.EventButton && ev.Payload == domain.ButtonNoPhone:
		s.ContactPhone = domain.HiddenPhone
	case ev.Kind == domain.EventText && strings.TrimSpace(ev.Payload) != "":
		s.ContactPhone = ev.Payload
	default:
		r, _ := prompt(s)
		return stay(s, nil, r)
	}
	return Outcome{Next: domain.StateCompleted, Action: ActionComplete}
}
