package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	bookingModel "venue-booking/models/booking"
	userModel "venue-booking/models/user"
	"venue-booking/repository"
	"venue-booking/services/search"
	"venue-booking/services/validation"
	bookingTypes "venue-booking/types/booking"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
)

// BookingService owns the booking lifecycle: a booking and its date span
// are written together or not at all, and the paid flag and paid date
// stay consistent across every transition.
type BookingService interface {
	Create(ctx context.Context, req bookingTypes.BookingUpsertRequest) (*bookingModel.Booking, error)
	CreateForUser(ctx context.Context, venueID uint, requester *userModel.User, req bookingTypes.VenueBookingRequest) (*bookingModel.Booking, error)
	Update(ctx context.Context, id uint, req bookingTypes.BookingUpsertRequest) (*bookingModel.Booking, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*bookingModel.Booking, error)
	List(ctx context.Context, query string, page, pageSize int) ([]bookingModel.Booking, search.Page, error)
}

type bookingService struct {
	bookings repository.BookingRepository
	venues   repository.VenueRepository
	users    repository.UserRepository
}

func NewBookingService(bookings repository.BookingRepository, venues repository.VenueRepository, users repository.UserRepository) BookingService {
	return &bookingService{bookings: bookings, venues: venues, users: users}
}

// localDate truncates to the local calendar day.
func localDate() time.Time {
	return now.BeginningOfDay()
}

// derivePaidState enforces the invariant date_paid non-nil ⟺ paid: a
// fresh false→true transition stamps today unless a date was supplied,
// while true→false discards any stored date unconditionally.
func derivePaidState(b *bookingModel.Booking, supplied *time.Time) {
	if !b.HasBeenPaid {
		b.DatePaid = nil
		return
	}
	if supplied != nil {
		b.DatePaid = supplied
	}
	if b.DatePaid == nil {
		today := localDate()
		b.DatePaid = &today
	}
}

func (s *bookingService) parseDatePaid(raw string) (*time.Time, validation.Errors) {
	if raw == "" {
		return nil, nil
	}
	parsed, err := validation.ParseDate(raw)
	if err != nil {
		return nil, validation.Errors{"Enter a valid paid date (YYYY-MM-DD)."}
	}
	return &parsed, nil
}

func (s *bookingService) Create(ctx context.Context, req bookingTypes.BookingUpsertRequest) (*bookingModel.Booking, error) {
	var msgs validation.Errors
	msgs = append(msgs, validation.Struct(req)...)

	requester, userErrs := validation.ResolveUser(ctx, s.users, req.UserID, req.Username)
	msgs = append(msgs, userErrs...)

	if req.VenueID != 0 {
		if _, err := s.venues.FindByID(ctx, req.VenueID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				msgs = append(msgs, "Select a valid venue.")
			} else {
				return nil, err
			}
		}
	}

	startDate, endDate, dateErrs := validation.ParseDateRange(req.StartDate, req.EndDate)
	msgs = append(msgs, dateErrs...)

	datePaid, paidErrs := s.parseDatePaid(req.DatePaid)
	msgs = append(msgs, paidErrs...)

	if msgs != nil {
		return nil, msgs
	}

	b := &bookingModel.Booking{
		VenueID:     req.VenueID,
		HasBeenPaid: req.HasBeenPaid,
		Notes:       req.Notes,
	}
	if requester != nil {
		b.UserID = &requester.ID
	}
	derivePaidState(b, datePaid)

	err := s.bookings.GetDB().Transaction(func(tx *gorm.DB) error {
		date := bookingModel.BookingDate{StartDate: startDate, EndDate: endDate}
		if err := s.bookings.CreateDate(ctx, tx, &date); err != nil {
			return err
		}
		b.DateID = date.ID
		return s.bookings.Create(ctx, tx, b)
	})
	if err != nil {
		return nil, err
	}

	return s.bookings.FindByID(ctx, b.ID)
}

// CreateForUser books a venue on behalf of the requesting user, the
// self-service path on the venue detail page.
func (s *bookingService) CreateForUser(ctx context.Context, venueID uint, requester *userModel.User, req bookingTypes.VenueBookingRequest) (*bookingModel.Booking, error) {
	var userID *uint
	username := ""
	if requester != nil {
		userID = &requester.ID
		username = requester.Username
	}
	return s.Create(ctx, bookingTypes.BookingUpsertRequest{
		UserID:    userID,
		Username:  username,
		VenueID:   venueID,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Notes:     req.Notes,
	})
}

func (s *bookingService) Update(ctx context.Context, id uint, req bookingTypes.BookingUpsertRequest) (*bookingModel.Booking, error) {
	existing, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	var msgs validation.Errors
	msgs = append(msgs, validation.Struct(req)...)

	requester, userErrs := validation.ResolveUser(ctx, s.users, req.UserID, req.Username)
	msgs = append(msgs, userErrs...)

	if req.VenueID != 0 {
		if _, err := s.venues.FindByID(ctx, req.VenueID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				msgs = append(msgs, "Select a valid venue.")
			} else {
				return nil, err
			}
		}
	}

	startDate, endDate, dateErrs := validation.ParseDateRange(req.StartDate, req.EndDate)
	msgs = append(msgs, dateErrs...)

	datePaid, paidErrs := s.parseDatePaid(req.DatePaid)
	msgs = append(msgs, paidErrs...)

	if msgs != nil {
		return nil, msgs
	}

	existing.VenueID = req.VenueID
	existing.HasBeenPaid = req.HasBeenPaid
	existing.Notes = req.Notes
	if requester != nil {
		existing.UserID = &requester.ID
	} else {
		existing.UserID = nil
	}
	derivePaidState(existing, datePaid)

	err = s.bookings.GetDB().Transaction(func(tx *gorm.DB) error {
		// The owned date row is mutated in place: the booking keeps the
		// same BookingDate for its whole lifetime, never an orphan.
		existing.Date.StartDate = startDate
		existing.Date.EndDate = endDate
		if err := s.bookings.SaveDate(ctx, tx, &existing.Date); err != nil {
			return err
		}
		return s.bookings.Save(ctx, tx, existing)
	})
	if err != nil {
		return nil, err
	}

	return s.bookings.FindByID(ctx, id)
}

// Delete removes the booking and its owned date span together; after it
// succeeds neither row remains.
func (s *bookingService) Delete(ctx context.Context, id uint) error {
	existing, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return err
	}

	return s.bookings.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := s.bookings.Delete(ctx, tx, existing.ID); err != nil {
			return err
		}
		return s.bookings.DeleteDate(ctx, tx, existing.DateID)
	})
}

func (s *bookingService) Get(ctx context.Context, id uint) (*bookingModel.Booking, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

// List returns one stable page of bookings. A blank query means no
// filtering, just pagination.
func (s *bookingService) List(ctx context.Context, query string, page, pageSize int) ([]bookingModel.Booking, search.Page, error) {
	query = strings.TrimSpace(query)
	total, err := s.bookings.CountFiltered(ctx, query)
	if err != nil {
		return nil, search.Page{}, err
	}

	window := search.Resolve(page, pageSize, total)
	bookings, err := s.bookings.FindFiltered(ctx, query, window.Offset, window.Size)
	if err != nil {
		return nil, search.Page{}, err
	}
	return bookings, window, nil
}
