package usecase

import (
	"context"
	"fmt"

	"github.com/X1ag/RideBoard/internal/domain"
	"github.com/X1ag/RideBoard/internal/utils"
)

const (
	DefaultRecentWindow = 8
	DefaultSearchWindow = 50
)

// Listing contexts, used as metric labels.
const (
	ListingAfterPost = "after_post"
	ListingFreeText  = "free_text"
	ListingSearch    = "search"
)

// Listing renders stored postings as chat messages, one message per posting.
type Listing struct {
	trips        *TripUsecase
	recentWindow int
	searchWindow int
}

func NewListing(trips *TripUsecase, recentWindow, searchWindow int) *Listing {
	if recentWindow <= 0 {
		recentWindow = DefaultRecentWindow
	}
	if searchWindow <= 0 {
		searchWindow = DefaultSearchWindow
	}
	return &Listing{
		trips:        trips,
		recentWindow: recentWindow,
		searchWindow: searchWindow,
	}
}

// FormatPosting renders one posting the way listings show it.
func FormatPosting(p *domain.TripPosting) string {
	handle := p.AuthorHandle
	if handle == "" {
		handle = anonymous
	}
	return fmt.Sprintf("%s\n%s → %s\nData: %s\nLocuri: %d\nContact: %s\n@%s\n%s",
		p.Direction.Label(), p.FromCity, p.ToCity, p.ApproximateDate, p.Seats, p.ContactPhone, handle, postingDivider)
}

// AfterPost lists the recent window without the posting that was just created.
// Nothing is returned when no other posting exists.
func (l *Listing) AfterPost(ctx context.Context, createdID int64) ([]domain.Reply, error) {
	trips, err := l.trips.Recent(ctx, l.recentWindow)
	if err != nil {
		return nil, err
	}
	others := make([]*domain.TripPosting, 0, len(trips))
	for _, tr := range trips {
		if tr.ID != createdID {
			others = append(others, tr)
		}
	}
	if len(others) == 0 {
		return nil, nil
	}
	return render(others), nil
}

// Recent lists the recent window unfiltered.
func (l *Listing) Recent(ctx context.Context) ([]domain.Reply, error) {
	trips, err := l.trips.Recent(ctx, l.recentWindow)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		return []domain.Reply{textReply(msgListingEmpty)}, nil
	}
	return render(trips), nil
}

// Search lists postings matching every keyword of query. An empty query is
// the same as Recent.
func (l *Listing) Search(ctx context.Context, query string) ([]domain.Reply, error) {
	trips, err := l.trips.Search(ctx, query, l.searchWindow, l.recentWindow)
	if err != nil {
		return nil, err
	}
	if len(trips) == 0 {
		if len(utils.Keywords(query)) == 0 {
			return []domain.Reply{textReply(msgListingEmpty)}, nil
		}
		return []domain.Reply{textReplyf(msgSearchEmpty, query)}, nil
	}
	return render(trips), nil
}

func render(trips []*domain.TripPosting) []domain.Reply {
	replies := make([]domain.Reply, 0, len(trips)+1)
	replies = append(replies, textReply(msgListingHeader))
	for _, tr := range trips {
		replies = append(replies, domain.Reply{Text: FormatPosting(tr)})
	}
	return replies
}
