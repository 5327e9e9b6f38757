package domain

import (
	"context"
	"errors"
	"time"
)

const (
	MinSeats = 1
	MaxSeats = 8

	// HiddenPhone is stored instead of a number when the author prefers to be
	// contacted through Telegram only.
	HiddenPhone = "Ascuns (contact prin Telegram)"
)

var (
	ErrTripAlreadyExists = errors.New("trip with these parameters already exists")
	ErrInvalidTrip       = errors.New("trip posting is incomplete")
	ErrSeatsOutOfRange   = errors.New("seat count must be between 1 and 8")
	ErrUnknownDirection  = errors.New("unknown direction")
)

type Direction string

const (
	DirectionMDDE Direction = "md_de"
	DirectionDEMD Direction = "de_md"
)

var directionLabels = map[Direction]string{
	DirectionMDDE: "Moldova → Germania",
	DirectionDEMD: "Germania → Moldova",
}

// Directions lists the closed set in the order they are offered to users.
func Directions() []Direction {
	return []Direction{DirectionMDDE, DirectionDEMD}
}

func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if _, ok := directionLabels[d]; !ok {
		return "", ErrUnknownDirection
	}
	return d, nil
}

func (d Direction) Label() string {
	if l, ok := directionLabels[d]; ok {
		return l
	}
	return string(d)
}

func (d Direction) Valid() bool {
	_, ok := directionLabels[d]
	return ok
}

// TripPosting is a ride offer or request. It is written once, when the dialog
// completes, and never updated afterwards.
type TripPosting struct {
	ID              int64
	AuthorID        int64  // telegram id of the author
	AuthorHandle    string // username, or first name when username is empty
	Direction       Direction
	ApproximateDate string
	FromCity        string
	ToCity          string
	Seats           int
	ContactPhone    string
	CreatedAt       time.Time
}

func (t *TripPosting) Validate() error {
	if t.AuthorID == 0 || !t.Direction.Valid() {
		return ErrInvalidTrip
	}
	if t.ApproximateDate == "" || t.FromCity == "" || t.ToCity == "" || t.ContactPhone == "" {
		return ErrInvalidTrip
	}
	if t.Seats < MinSeats || t.Seats > MaxSeats {
		return ErrSeatsOutOfRange
	}
	return nil
}

type TripRepository interface {
	Create(ctx context.Context, trip *TripPosting) error
	Recent(ctx context.Context, limit int) ([]*TripPosting, error)
	Count(ctx context.Context) (int64, error)
}
