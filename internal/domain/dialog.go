package domain

import (
	"context"
	"time"
)

type DialogState int

const (
	StateIdle DialogState = iota
	StateAwaitingDirection
	StateAwaitingDate
	StateAwaitingRoute
	StateAwaitingSeats
	StateAwaitingPhone
	StateCompleted
)

var stateNames = [...]string{
	StateIdle:              "idle",
	StateAwaitingDirection: "awaiting_direction",
	StateAwaitingDate:      "awaiting_date",
	StateAwaitingRoute:     "awaiting_route",
	StateAwaitingSeats:     "awaiting_seats",
	StateAwaitingPhone:     "awaiting_phone",
	StateCompleted:         "completed",
}

func (s DialogState) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// DialogSession is the partial trip a user is filling in. Fields are set one
// step at a time and are only guaranteed complete once State reaches
// StateCompleted.
type DialogSession struct {
	UserID          int64
	State           DialogState
	Direction       Direction
	ApproximateDate string
	FromCity        string
	ToCity          string
	Seats           int
	ContactPhone    string
	UpdatedAt       time.Time
}

// Posting combines the collected fields into a TripPosting for author.
func (s *DialogSession) Posting(author User) *TripPosting {
	return &TripPosting{
		AuthorID:        author.TelegramID,
		AuthorHandle:    author.Handle(),
		Direction:       s.Direction,
		ApproximateDate: s.ApproximateDate,
		FromCity:        s.FromCity,
		ToCity:          s.ToCity,
		Seats:           s.Seats,
		ContactPhone:    s.ContactPhone,
	}
}

type SessionRepository interface {
	Get(ctx context.Context, userID int64) (*DialogSession, bool)
	Save(ctx context.Context, session *DialogSession)
	Delete(ctx context.Context, userID int64)
	Len() int
}
