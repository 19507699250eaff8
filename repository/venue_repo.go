package repository

import (
	"context"

	"venue-booking/models/venue"

	"gorm.io/gorm"
)

type VenueRepository interface {
	Create(ctx context.Context, v *venue.Venue) error
	Save(ctx context.Context, v *venue.Venue) error
	FindByID(ctx context.Context, id uint) (*venue.Venue, error)
	FindByTitle(ctx context.Context, title string) (*venue.Venue, error)
	CountAll(ctx context.Context) (int64, error)
	CountFiltered(ctx context.Context, query string) (int64, error)
	FindFiltered(ctx context.Context, query string, offset, limit int) ([]venue.Venue, error)
	GetDB() *gorm.DB
}

type venueRepository struct {
	db *gorm.DB
}

func NewVenueRepository(db *gorm.DB) VenueRepository {
	return &venueRepository{db: db}
}

func (r *venueRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *venueRepository) Create(ctx context.Context, v *venue.Venue) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *venueRepository) Save(ctx context.Context, v *venue.Venue) error {
	return r.db.WithContext(ctx).Save(v).Error
}

func (r *venueRepository) FindByID(ctx context.Context, id uint) (*venue.Venue, error) {
	var v venue.Venue
	if err := r.db.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *venueRepository) FindByTitle(ctx context.Context, title string) (*venue.Venue, error) {
	var v venue.Venue
	if err := r.db.WithContext(ctx).Where("title = ?", title).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *venueRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&venue.Venue{}).Count(&count).Error
	return count, err
}

// filtered applies the free-text search: a case-insensitive substring
// match OR-ed across the text columns plus the serialized facilities and
// the price rendered as decimal text.
func (r *venueRepository) filtered(ctx context.Context, query string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&venue.Venue{})
	if query == "" {
		return q
	}
	pattern := "%" + query + "%"
	return q.Where(
		"title ILIKE ? OR type ILIKE ? OR location ILIKE ? OR description ILIKE ? OR facilities::text ILIKE ? OR price::text ILIKE ?",
		pattern, pattern, pattern, pattern, pattern, pattern,
	)
}

func (r *venueRepository) CountFiltered(ctx context.Context, query string) (int64, error) {
	var count int64
	err := r.filtered(ctx, query).Count(&count).Error
	return count, err
}

// FindFiltered orders by title then id so pagination stays stable across
// requests against a static dataset.
func (r *venueRepository) FindFiltered(ctx context.Context, query string, offset, limit int) ([]venue.Venue, error) {
	var venues []venue.Venue
	err := r.filtered(ctx, query).
		Order("title ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&venues).Error
	if err != nil {
		return nil, err
	}
	return venues, nil
}
