// Package sqlite stores trip postings in a single SQLite file through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/X1ag/RideBoard/internal/domain"
	sqlitedriver "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// tripRow is the trips table as gorm sees it.
type tripRow struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null"`
	Username  string    `gorm:"size:64"`
	Direction string    `gorm:"size:8;not null"`
	Date      string    `gorm:"type:text;not null"`
	FromCity  string    `gorm:"type:text;not null"`
	ToCity    string    `gorm:"type:text;not null"`
	Seats     int       `gorm:"not null"`
	Phone     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (tripRow) TableName() string { return "trips" }

// Open opens (or creates) the database at path and migrates the trips table.
// ":memory:" gives a private in-memory database.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlitedriver.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: %w", err)
	}
	// One writer at a time; also keeps ":memory:" on a single connection.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&tripRow{}); err != nil {
		return nil, fmt.Errorf("sqlite: auto migrate: %w", err)
	}
	return db, nil
}

type TripRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTripRepository(db *gorm.DB) *TripRepository {
	return &TripRepository{
		db:  db,
		now: time.Now,
	}
}

func (t *TripRepository) Create(ctx context.Context, tr *domain.TripPosting) error {
	row := tripRow{
		UserID:    tr.AuthorID,
		Username:  tr.AuthorHandle,
		Direction: string(tr.Direction),
		Date:      tr.ApproximateDate,
		FromCity:  tr.FromCity,
		ToCity:    tr.ToCity,
		Seats:     tr.Seats,
		Phone:     tr.ContactPhone,
		CreatedAt: t.now().UTC(),
	}
	if err := t.db.WithContext(ctx).Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrTripAlreadyExists
		}
		return fmt.Errorf("sqlite: insert trip: %w", err)
	}
	tr.ID = row.ID
	tr.CreatedAt = row.CreatedAt
	return nil
}

func (t *TripRepository) Recent(ctx context.Context, limit int) ([]*domain.TripPosting, error) {
	var rows []tripRow
	err := t.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("sqlite: select recent trips: %w", err)
	}
	trips := make([]*domain.TripPosting, 0, len(rows))
	for _, r := range rows {
		trips = append(trips, &domain.TripPosting{
			ID:              r.ID,
			AuthorID:        r.UserID,
			AuthorHandle:    r.Username,
			Direction:       domain.Direction(r.Direction),
			ApproximateDate: r.Date,
			FromCity:        r.FromCity,
			ToCity:          r.ToCity,
			Seats:           r.Seats,
			ContactPhone:    r.Phone,
			CreatedAt:       r.CreatedAt,
		})
	}
	return trips, nil
}

func (t *TripRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := t.db.WithContext(ctx).Model(&tripRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("sqlite: count trips: %w", err)
	}
	return n, nil
}
