package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/X1ag/RideBoard/internal/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TripRepository struct {
	db *pgxpool.Pool
}

func NewTripRepository(db *pgxpool.Pool) *TripRepository {
	return &TripRepository{
		db: db,
	}
}

// Create appends the posting and fills in its ID and CreatedAt.
func (t *TripRepository) Create(ctx context.Context, tr *domain.TripPosting) error {
	query := `INSERT INTO trips (user_id, username, direction, date, from_city, to_city, seats, phone)
						VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
						RETURNING id, created_at`
	err := t.db.QueryRow(ctx, query,
		tr.AuthorID, tr.AuthorHandle, string(tr.Direction), tr.ApproximateDate,
		tr.FromCity, tr.ToCity, tr.Seats, tr.ContactPhone,
	).Scan(&tr.ID, &tr.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == domain.ErrUniqueViolation {
				return domain.ErrTripAlreadyExists
			}
		}
		return fmt.Errorf("insert trip: %w", err)
	}
	return nil
}

// Recent returns up to limit postings, newest first.
func (t *TripRepository) Recent(ctx context.Context, limit int) ([]*domain.TripPosting, error) {
	query := `SELECT id, user_id, username, direction, date, from_city, to_city, seats, phone, created_at
						FROM trips ORDER BY id DESC LIMIT $1`
	rows, err := t.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select recent trips: %w", err)
	}
	defer rows.Close()

	trips := make([]*domain.TripPosting, 0, limit)
	for rows.Next() {
		tr := &domain.TripPosting{}
		var direction string
		err := rows.Scan(&tr.ID, &tr.AuthorID, &tr.AuthorHandle, &direction, &tr.ApproximateDate,
			&tr.FromCity, &tr.ToCity, &tr.Seats, &tr.ContactPhone, &tr.CreatedAt)
		if err != nil {
			return nil, err
		}
		tr.Direction = domain.Direction(direction)
		trips = append(trips, tr)
	}

	if rows.Err() != nil {
		return nil, rows.Err()
	}

	return trips, nil
}

func (t *TripRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := t.db.QueryRow(ctx, `SELECT count(*) FROM trips`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count trips: %w", err)
	}
	return n, nil
}
