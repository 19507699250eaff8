package booking

import (
	"time"

	bookingModel "venue-booking/models/booking"
	userModel "venue-booking/models/user"
)

// BookingUpsertRequest carries the staff booking form. Either the hidden
// UserID or the free-text Username identifies the requester; the explicit
// id always wins. Dates are ISO (YYYY-MM-DD) text.
type BookingUpsertRequest struct {
	UserID      *uint  `json:"user_id" form:"user_id"`
	Username    string `json:"username" form:"username"`
	VenueID     uint   `json:"venue_id" form:"venue_id" validate:"required"`
	StartDate   string `json:"start_date" form:"start_date" validate:"required"`
	EndDate     string `json:"end_date" form:"end_date" validate:"required"`
	HasBeenPaid bool   `json:"has_been_paid" form:"has_been_paid"`
	DatePaid    string `json:"date_paid" form:"date_paid"`
	Notes       string `json:"notes" form:"notes"`
}

// VenueBookingRequest books a venue for the requesting user themselves.
type VenueBookingRequest struct {
	StartDate string `json:"start_date" form:"start_date" validate:"required"`
	EndDate   string `json:"end_date" form:"end_date" validate:"required"`
	Notes     string `json:"notes" form:"notes"`
}

// UserPayload is the serialized user shape embedded in booking payloads
// and returned by the user search endpoint.
type UserPayload struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// BookingPayload is the serialized booking shape.
type BookingPayload struct {
	ID          uint          `json:"id"`
	Username    string        `json:"username"`
	User        *UserPayload  `json:"user"`
	Venue       BookingVenue  `json:"venue"`
	HasBeenPaid bool          `json:"has_been_paid"`
	DatePaid    *string       `json:"date_paid"`
	StartDate   string        `json:"start_date"`
	EndDate     string        `json:"end_date"`
	Notes       string        `json:"notes"`
	CreatedAt   string        `json:"created_at"`
	UpdatedAt   string        `json:"updated_at"`
}

// BookingVenue is the minimal venue reference inside a booking payload.
type BookingVenue struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// SerializeUser returns nil for an absent user so unassigned bookings
// serialize with an explicit null.
func SerializeUser(u *userModel.User) *UserPayload {
	if u == nil {
		return nil
	}
	return &UserPayload{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName(),
		Email:       u.Email,
		DisplayName: u.DisplayName(),
	}
}

// Serialize builds the API payload for a booking with its preloaded
// user, venue and date rows.
func Serialize(b *bookingModel.Booking) BookingPayload {
	username := ""
	if b.User != nil {
		username = b.User.Username
	}

	var datePaid *string
	if b.DatePaid != nil {
		s := b.DatePaid.Format("2006-01-02")
		datePaid = &s
	}

	return BookingPayload{
		ID:          b.ID,
		Username:    username,
		User:        SerializeUser(b.User),
		Venue:       BookingVenue{ID: b.VenueID, Title: b.Venue.Title},
		HasBeenPaid: b.HasBeenPaid,
		DatePaid:    datePaid,
		StartDate:   b.Date.StartDate.Format("2006-01-02"),
		EndDate:     b.Date.EndDate.Format("2006-01-02"),
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   b.UpdatedAt.Format(time.RFC3339),
	}
}
