package usecase

import (
	"context"
	"fmt"

	"github.com/X1ag/RideBoard/internal/domain"
	"github.com/X1ag/RideBoard/internal/utils"
)

type TripUsecase struct {
	tripRepo domain.TripRepository
}

func NewTripUsecase(tr domain.TripRepository) *TripUsecase {
	return &TripUsecase{
		tripRepo: tr,
	}
}

// Create stores a fully formed posting. Partial records are rejected before
// they reach the repository.
func (t *TripUsecase) Create(ctx context.Context, tr *domain.TripPosting) error {
	if err := tr.Validate(); err != nil {
		return err
	}
	return t.tripRepo.Create(ctx, tr)
}

// Recent returns at most limit postings, newest first.
func (t *TripUsecase) Recent(ctx context.Context, limit int) ([]*domain.TripPosting, error) {
	if limit <= 0 {
		return nil, nil
	}
	return t.tripRepo.Recent(ctx, limit)
}

// Search looks through the newest window postings and keeps those matching
// every keyword, up to limit. An empty query behaves like Recent(limit).
func (t *TripUsecase) Search(ctx context.Context, query string, window, limit int) ([]*domain.TripPosting, error) {
	keywords := utils.Keywords(query)
	if len(keywords) == 0 {
		return t.Recent(ctx, limit)
	}
	if window < limit {
		window = limit
	}
	trips, err := t.Recent(ctx, window)
	if err != nil {
		return nil, fmt.Errorf("search recent trips: %w", err)
	}
	found := make([]*domain.TripPosting, 0, limit)
	for _, tr := range trips {
		if utils.MatchAll(searchText(tr), keywords) {
			found = append(found, tr)
			if len(found) == limit {
				break
			}
		}
	}
	return found, nil
}

func (t *TripUsecase) Count(ctx context.Context) (int64, error) {
	return t.tripRepo.Count(ctx)
}

func searchText(tr *domain.TripPosting) string {
	return fmt.Sprintf("%s %s %s %s", tr.Direction.Label(), tr.FromCity, tr.ToCity, tr.ApproximateDate)
}
