package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/X1ag/RideBoard/internal/domain"
	"github.com/X1ag/RideBoard/internal/metrics"
)

const lockStripes = 64

// DialogUsecase drives the trip-posting conversation for every user. Events of
// one user are handled one at a time; different users run in parallel.
type DialogUsecase struct {
	sessions domain.SessionRepository
	trips    *TripUsecase
	listing  *Listing
	metrics  *metrics.Metrics
	log      *slog.Logger
	now      func() time.Time

	locks [lockStripes]sync.Mutex
}

func NewDialogUsecase(sessions domain.SessionRepository, trips *TripUsecase, listing *Listing, m *metrics.Metrics, log *slog.Logger) *DialogUsecase {
	if log == nil {
		log = slog.Default()
	}
	return &DialogUsecase{
		sessions: sessions,
		trips:    trips,
		listing:  listing,
		metrics:  m,
		log:      log.With("component", "dialog"),
		now:      time.Now,
	}
}

// Handle feeds ev to the user's session and returns the messages to send back.
// It never fails: bad input becomes a re-prompt and storage failures become a
// generic apology.
func (d *DialogUsecase) Handle(ctx context.Context, ev domain.Event) []domain.Reply {
	userID := ev.User.TelegramID
	lock := &d.locks[uint64(userID)%lockStripes]
	lock.Lock()
	defer lock.Unlock()

	current, found := d.sessions.Get(ctx, userID)
	if !found {
		current = &domain.DialogSession{UserID: userID, State: domain.StateIdle}
	}
	// Work on a copy: the stored session only changes once the step succeeds.
	next := *current
	out := Transition(&next, ev)

	if out.Invalid != nil {
		d.metrics.InvalidInput(current.State.String(), out.Invalid.Reason)
		d.log.Debug("invalid input", "user_id", userID, "state", current.State, "reason", out.Invalid.Reason)
	}

	replies := out.Replies
	switch out.Action {
	case ActionComplete:
		done, ok := d.complete(ctx, ev.User, &next)
		if !ok {
			return done
		}
		replies = append(replies, done...)
	case ActionShowRecent:
		replies = append(replies, d.showListing(ListingFreeText, func() ([]domain.Reply, error) {
			return d.listing.Recent(ctx)
		})...)
	case ActionFind:
		replies = append(replies, d.showListing(ListingSearch, func() ([]domain.Reply, error) {
			return d.listing.Search(ctx, ev.Args)
		})...)
	}

	switch next.State {
	case domain.StateIdle, domain.StateCompleted:
		if found {
			d.sessions.Delete(ctx, userID)
		}
	default:
		next.UpdatedAt = d.now()
		d.sessions.Save(ctx, &next)
	}

	if current.State != next.State {
		d.metrics.Transition(current.State.String(), next.State.String())
		d.log.Debug("dialog transition", "user_id", userID, "from", current.State, "to", next.State)
	}
	d.metrics.SetSessionsActive(d.sessions.Len())
	return replies
}

// complete writes the collected trip. On failure the stored session is left at
// the phone step so the user can send the number again.
func (d *DialogUsecase) complete(ctx context.Context, author domain.User, s *domain.DialogSession) ([]domain.Reply, bool) {
	posting := s.Posting(author)
	if err := d.trips.Create(ctx, posting); err != nil {
		d.metrics.StorageError("create")
		d.log.Error("cannot save trip", "user_id", author.TelegramID, "err", err)
		return []domain.Reply{{Text: msgSaveFailed, Choices: phoneChoices()}}, false
	}
	d.metrics.PostingCreated()
	d.log.Info("trip published", "trip_id", posting.ID, "user_id", author.TelegramID, "direction", posting.Direction)

	replies := []domain.Reply{textReplyf(msgPublished,
		posting.Direction.Label(), posting.ApproximateDate, posting.FromCity, posting.ToCity, posting.Seats, posting.ContactPhone)}

	others, err := d.listing.AfterPost(ctx, posting.ID)
	if err != nil {
		// The trip is saved; only the follow-up listing is lost.
		d.metrics.StorageError("recent")
		d.log.Warn("cannot list recent trips", "err", err)
		return replies, true
	}
	if len(others) > 0 {
		d.metrics.ListingServed(ListingAfterPost)
	}
	return append(replies, others...), true
}

func (d *DialogUsecase) showListing(kind string, list func() ([]domain.Reply, error)) []domain.Reply {
	replies, err := list()
	if err != nil {
		d.metrics.StorageError("recent")
		d.log.Error("cannot list trips", "context", kind, "err", err)
		return []domain.Reply{textReply(msgListingFailed)}
	}
	d.metrics.ListingServed(kind)
	return replies
}

// Deliver sends replies in order and stops at the first transport error.
func Deliver(ctx context.Context, m domain.Messenger, chatID int64, replies []domain.Reply) error {
	for _, r := range replies {
		var err error
		if len(r.Choices) > 0 {
			err = m.SendChoices(ctx, chatID, r.Text, r.Choices)
		} else {
			err = m.SendText(ctx, chatID, r.Text)
		}
		if err != nil {
			return fmt.Errorf("deliver reply: %w", err)
		}
	}
	return nil
}
