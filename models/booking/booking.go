package booking

import (
	"time"

	"venue-booking/models/user"
	"venue-booking/models/venue"
)

// BookingDate is the date span owned by exactly one booking. It has no
// independent lifecycle: it is created with its booking, mutated in place
// when the booking's dates change, and removed when the booking goes.
type BookingDate struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
}

// Booking links a user (optional) to a venue for a date span.
//
// DatePaid is non-nil exactly when HasBeenPaid is true; the lifecycle
// service derives it on every write. Nothing prevents two bookings of the
// same venue from overlapping date ranges.
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// Referential actions live in the explicit constraint migration:
	// deleting a user keeps the booking unassigned, venues with bookings
	// cannot be deleted.
	UserID *uint      `gorm:"index" json:"user_id,omitempty"`
	User   *user.User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	VenueID uint        `gorm:"not null;index" json:"venue_id"`
	Venue   venue.Venue `gorm:"foreignKey:VenueID" json:"venue"`

	// One-to-one: each BookingDate belongs to a single booking.
	DateID uint        `gorm:"not null;uniqueIndex" json:"date_id"`
	Date   BookingDate `gorm:"foreignKey:DateID" json:"date"`

	HasBeenPaid bool       `gorm:"type:bool;default:false" json:"has_been_paid"`
	DatePaid    *time.Time `gorm:"type:date" json:"date_paid,omitempty"`
	Notes       string     `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
