package venue

import (
	"context"
	"errors"
	"strings"

	venueModel "venue-booking/models/venue"
	"venue-booking/repository"
	"venue-booking/services/search"
	"venue-booking/services/validation"
	venueTypes "venue-booking/types/venue"

	"gorm.io/gorm"
)

var (
	ErrVenueNotFound = errors.New("venue not found")
)

// VenueService manages venues and their comment aggregates. Deleting a
// venue cascades to its bookings (with their date spans) and its comment
// links in one transaction.
type VenueService interface {
	Create(ctx context.Context, req venueTypes.VenueUpsertRequest, imagePath string) (*venueModel.Venue, error)
	Update(ctx context.Context, id uint, req venueTypes.VenueUpsertRequest, imagePath string) (*venueModel.Venue, error)
	Delete(ctx context.Context, id uint) error
	Get(ctx context.Context, id uint) (*venueModel.Venue, error)
	List(ctx context.Context, query string, page, pageSize int) ([]venueModel.Venue, search.Page, error)
	CountAll(ctx context.Context) (int64, error)
	RatingStats(ctx context.Context, venueIDs []uint) (map[uint]repository.VenueRatingStats, error)
}

type venueService struct {
	venues   repository.VenueRepository
	bookings repository.BookingRepository
	comments repository.CommentRepository
}

func NewVenueService(venues repository.VenueRepository, bookings repository.BookingRepository, comments repository.CommentRepository) VenueService {
	return &venueService{venues: venues, bookings: bookings, comments: comments}
}

// clean validates the venue form as a whole and returns the typed field
// set, or every violation at once.
func clean(req venueTypes.VenueUpsertRequest) (*venueModel.Venue, validation.Errors) {
	var msgs validation.Errors
	msgs = append(msgs, validation.Struct(req)...)

	if req.Type != "" {
		msgs = append(msgs, validation.ValidateVenueType(req.Type)...)
	}

	price := 0
	if req.Price != "" {
		var priceErrs validation.Errors
		price, priceErrs = validation.ParsePrice(req.Price)
		msgs = append(msgs, priceErrs...)
	}

	if msgs != nil {
		return nil, msgs
	}

	return &venueModel.Venue{
		Title:       strings.TrimSpace(req.Title),
		Type:        req.Type,
		Description: req.Description,
		Facilities:  venueModel.Facilities(validation.SplitFacilities(req.Facilities)),
		Price:       price,
		Location:    strings.TrimSpace(req.Location),
	}, nil
}

func (s *venueService) Create(ctx context.Context, req venueTypes.VenueUpsertRequest, imagePath string) (*venueModel.Venue, error) {
	v, msgs := clean(req)
	if msgs != nil {
		return nil, msgs
	}
	v.Image = imagePath

	if err := s.venues.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Update replaces the venue's fields from the form. An empty imagePath
// keeps the stored image.
func (s *venueService) Update(ctx context.Context, id uint, req venueTypes.VenueUpsertRequest, imagePath string) (*venueModel.Venue, error) {
	existing, err := s.venues.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}

	v, msgs := clean(req)
	if msgs != nil {
		return nil, msgs
	}

	existing.Title = v.Title
	existing.Type = v.Type
	existing.Description = v.Description
	existing.Facilities = v.Facilities
	existing.Price = v.Price
	existing.Location = v.Location
	if imagePath != "" {
		existing.Image = imagePath
	}

	if err := s.venues.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes the venue, its bookings with their owned date spans,
// and its comment links. Comments themselves survive: they may still be
// linked to other venues.
func (s *venueService) Delete(ctx context.Context, id uint) error {
	if _, err := s.venues.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVenueNotFound
		}
		return err
	}

	return s.venues.GetDB().Transaction(func(tx *gorm.DB) error {
		venueBookings, err := s.bookings.FindByVenueID(ctx, tx, id)
		if err != nil {
			return err
		}
		for _, b := range venueBookings {
			if err := s.bookings.Delete(ctx, tx, b.ID); err != nil {
				return err
			}
			if err := s.bookings.DeleteDate(ctx, tx, b.DateID); err != nil {
				return err
			}
		}

		if err := s.comments.DeleteLinksByVenue(ctx, tx, id); err != nil {
			return err
		}

		return tx.WithContext(ctx).Delete(&venueModel.Venue{}, id).Error
	})
}

func (s *venueService) Get(ctx context.Context, id uint) (*venueModel.Venue, error) {
	v, err := s.venues.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return v, nil
}

// List returns one stable page of venues ordered by title. A blank query
// means no filtering, just pagination.
func (s *venueService) List(ctx context.Context, query string, page, pageSize int) ([]venueModel.Venue, search.Page, error) {
	query = strings.TrimSpace(query)
	total, err := s.venues.CountFiltered(ctx, query)
	if err != nil {
		return nil, search.Page{}, err
	}

	window := search.Resolve(page, pageSize, total)
	venues, err := s.venues.FindFiltered(ctx, query, window.Offset, window.Size)
	if err != nil {
		return nil, search.Page{}, err
	}
	return venues, window, nil
}

func (s *venueService) CountAll(ctx context.Context) (int64, error) {
	return s.venues.CountAll(ctx)
}

func (s *venueService) RatingStats(ctx context.Context, venueIDs []uint) (map[uint]repository.VenueRatingStats, error) {
	return s.comments.RatingStats(ctx, venueIDs)
}
