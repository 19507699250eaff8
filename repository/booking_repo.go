package repository

import (
	"context"
	"time"

	"venue-booking/models/booking"

	"gorm.io/gorm"
)

type BookingRepository interface {
	CreateDate(ctx context.Context, tx *gorm.DB, d *booking.BookingDate) error
	Create(ctx context.Context, tx *gorm.DB, b *booking.Booking) error
	SaveDate(ctx context.Context, tx *gorm.DB, d *booking.BookingDate) error
	Save(ctx context.Context, tx *gorm.DB, b *booking.Booking) error
	Delete(ctx context.Context, tx *gorm.DB, bookingID uint) error
	DeleteDate(ctx context.Context, tx *gorm.DB, dateID uint) error
	FindByID(ctx context.Context, id uint) (*booking.Booking, error)
	FindByVenueID(ctx context.Context, tx *gorm.DB, venueID uint) ([]booking.Booking, error)
	ExistsByUserVenueStart(ctx context.Context, userID, venueID uint, startDate time.Time) (bool, error)
	CountFiltered(ctx context.Context, query string) (int64, error)
	FindFiltered(ctx context.Context, query string, offset, limit int) ([]booking.Booking, error)
	Any(ctx context.Context) (bool, error)
	GetDB() *gorm.DB
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *bookingRepository) CreateDate(ctx context.Context, tx *gorm.DB, d *booking.BookingDate) error {
	return tx.WithContext(ctx).Create(d).Error
}

func (r *bookingRepository) Create(ctx context.Context, tx *gorm.DB, b *booking.Booking) error {
	return tx.WithContext(ctx).Omit("User", "Venue", "Date").Create(b).Error
}

func (r *bookingRepository) SaveDate(ctx context.Context, tx *gorm.DB, d *booking.BookingDate) error {
	return tx.WithContext(ctx).Save(d).Error
}

func (r *bookingRepository) Save(ctx context.Context, tx *gorm.DB, b *booking.Booking) error {
	return tx.WithContext(ctx).Omit("User", "Venue", "Date").Save(b).Error
}

func (r *bookingRepository) Delete(ctx context.Context, tx *gorm.DB, bookingID uint) error {
	return tx.WithContext(ctx).Delete(&booking.Booking{}, bookingID).Error
}

func (r *bookingRepository) DeleteDate(ctx context.Context, tx *gorm.DB, dateID uint) error {
	return tx.WithContext(ctx).Delete(&booking.BookingDate{}, dateID).Error
}

func (r *bookingRepository) FindByID(ctx context.Context, id uint) (*booking.Booking, error) {
	var b booking.Booking
	err := r.db.WithContext(ctx).
		Preload("User").Preload("Venue").Preload("Date").
		First(&b, id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) FindByVenueID(ctx context.Context, tx *gorm.DB, venueID uint) ([]booking.Booking, error) {
	var bookings []booking.Booking
	if err := tx.WithContext(ctx).Where("venue_id = ?", venueID).Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// ExistsByUserVenueStart checks the seeding identity tuple so demo data
// never duplicates a logical booking.
func (r *bookingRepository) ExistsByUserVenueStart(ctx context.Context, userID, venueID uint, startDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&booking.Booking{}).
		Joins("JOIN booking_dates ON booking_dates.id = bookings.date_id").
		Where("bookings.user_id = ? AND bookings.venue_id = ? AND booking_dates.start_date = ?",
			userID, venueID, startDate).
		Count(&count).Error
	return count > 0, err
}

// filtered applies the booking free-text search across the requester's
// username and coalesced full name, the venue title, the notes, both
// dates as ISO text, and the payment status rendered as "paid"/"pending".
func (r *bookingRepository) filtered(ctx context.Context, query string) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&booking.Booking{}).
		Joins("LEFT JOIN users ON users.id = bookings.user_id").
		Joins("JOIN venues ON venues.id = bookings.venue_id").
		Joins("JOIN booking_dates ON booking_dates.id = bookings.date_id")
	if query == "" {
		return q
	}
	pattern := "%" + query + "%"
	return q.Where(
		`users.username ILIKE ?
		OR (COALESCE(users.first_name, '') || ' ' || COALESCE(users.last_name, '')) ILIKE ?
		OR venues.title ILIKE ?
		OR bookings.notes ILIKE ?
		OR booking_dates.start_date::text ILIKE ?
		OR booking_dates.end_date::text ILIKE ?
		OR (CASE WHEN bookings.has_been_paid THEN 'paid' ELSE 'pending' END) ILIKE ?`,
		pattern, pattern, pattern, pattern, pattern, pattern, pattern,
	)
}

func (r *bookingRepository) CountFiltered(ctx context.Context, query string) (int64, error) {
	var count int64
	err := r.filtered(ctx, query).Count(&count).Error
	return count, err
}

// FindFiltered orders newest first with the id as tiebreak so pages never
// duplicate or skip rows.
func (r *bookingRepository) FindFiltered(ctx context.Context, query string, offset, limit int) ([]booking.Booking, error) {
	var bookings []booking.Booking
	err := r.filtered(ctx, query).
		Preload("User").Preload("Venue").Preload("Date").
		Order("bookings.created_at DESC, bookings.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *bookingRepository) Any(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&booking.Booking{}).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
