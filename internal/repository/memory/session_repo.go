package memory

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/X1ag/RideBoard/internal/domain"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const DefaultMaxSessions = 10000

// SessionRepository keeps dialog sessions in process memory, keyed by
// telegram id. The least recently touched session is dropped once maxSessions
// is reached; with a ttl > 0 idle sessions also expire. Every session dropped
// this way is logged at Warn.
type SessionRepository struct {
	cache *expirable.LRU[int64, domain.DialogSession]
	log   *slog.Logger

	// deleting holds the id being removed by Delete, so the eviction callback
	// can tell a finished dialog from a dropped one.
	deleteMu sync.Mutex
	deleting atomic.Int64
}

func NewSessionRepository(maxSessions int, ttl time.Duration, log *slog.Logger) *SessionRepository {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	if log == nil {
		log = slog.Default()
	}
	r := &SessionRepository{log: log.With("component", "sessions")}
	r.cache = expirable.NewLRU[int64, domain.DialogSession](maxSessions, r.onEvict, ttl)
	return r
}

func (r *SessionRepository) onEvict(userID int64, s domain.DialogSession) {
	if r.deleting.Load() == userID {
		return
	}
	r.log.Warn("dialog session dropped",
		"user_id", userID,
		"state", s.State,
		"idle", time.Since(s.UpdatedAt).Round(time.Second),
	)
}

// Get returns a copy of the stored session.
func (r *SessionRepository) Get(ctx context.Context, userID int64) (*domain.DialogSession, bool) {
	s, ok := r.cache.Get(userID)
	if !ok {
		return nil, false
	}
	return &s, true
}

func (r *SessionRepository) Save(ctx context.Context, session *domain.DialogSession) {
	r.cache.Add(session.UserID, *session)
}

func (r *SessionRepository) Delete(ctx context.Context, userID int64) {
	r.deleteMu.Lock()
	defer r.deleteMu.Unlock()
	r.deleting.Store(userID)
	r.cache.Remove(userID)
	r.deleting.Store(0)
}

func (r *SessionRepository) Len() int {
	return r.cache.Len()
}
