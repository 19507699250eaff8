package comment

import (
	"context"
	"errors"
	"strings"
	"time"

	commentModel "venue-booking/models/comment"
	userModel "venue-booking/models/user"
	"venue-booking/repository"
	"venue-booking/services/validation"
	commentTypes "venue-booking/types/comment"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrNotAllowed      = errors.New("not allowed")
)

// CommentService manages reviews and their links to venues. Authors may
// edit their own comments; authors and staff may delete them.
type CommentService interface {
	Create(ctx context.Context, author *userModel.User, venueID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error)
	Update(ctx context.Context, actor *userModel.User, commentID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error)
	Delete(ctx context.Context, actor *userModel.User, commentID uint) error
	ListByVenue(ctx context.Context, venueID uint) ([]commentModel.Comment, error)
}

type commentService struct {
	comments repository.CommentRepository
	venues   repository.VenueRepository
}

func NewCommentService(comments repository.CommentRepository, venues repository.VenueRepository) CommentService {
	return &commentService{comments: comments, venues: venues}
}

func cleanBody(req commentTypes.CommentUpsertRequest) (int, string, validation.Errors) {
	var msgs validation.Errors
	msgs = append(msgs, validation.Struct(req)...)

	rating := 0
	if req.Rating != "" {
		var ratingErrs validation.Errors
		rating, ratingErrs = validation.ParseRating(req.Rating)
		msgs = append(msgs, ratingErrs...)
	}

	body := strings.TrimSpace(req.Comment)
	if msgs != nil {
		return 0, "", msgs
	}
	return rating, body, nil
}

// Create stores a new dated review and its venue link together; neither
// row exists without the other.
func (s *commentService) Create(ctx context.Context, author *userModel.User, venueID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error) {
	if _, err := s.venues.FindByID(ctx, venueID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validation.Errors{"Select a valid venue."}
		}
		return nil, err
	}

	rating, body, msgs := cleanBody(req)
	if msgs != nil {
		return nil, msgs
	}

	c := &commentModel.Comment{
		UserID: author.ID,
		Rating: rating,
		Body:   body,
		Date:   now.With(time.Now()).BeginningOfDay(),
	}
	if err := s.comments.CreateWithVenue(ctx, c, venueID); err != nil {
		return nil, err
	}

	c.User = *author
	return c, nil
}

// Update rewrites the rating and body. Only the author may edit; the
// original date is kept.
func (s *commentService) Update(ctx context.Context, actor *userModel.User, commentID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error) {
	existing, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	if existing.UserID != actor.ID {
		return nil, ErrNotAllowed
	}

	rating, body, msgs := cleanBody(req)
	if msgs != nil {
		return nil, msgs
	}

	existing.Rating = rating
	existing.Body = body
	if err := s.comments.Save(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// Delete removes the comment and every venue link in one transaction.
func (s *commentService) Delete(ctx context.Context, actor *userModel.User, commentID uint) error {
	existing, err := s.comments.FindByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}
	if existing.UserID != actor.ID && !actor.CanManage() {
		return ErrNotAllowed
	}

	return s.comments.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := s.comments.DeleteLinksByComment(ctx, tx, commentID); err != nil {
			return err
		}
		return s.comments.Delete(ctx, tx, commentID)
	})
}

func (s *commentService) ListByVenue(ctx context.Context, venueID uint) ([]commentModel.Comment, error) {
	return s.comments.FindByVenueID(ctx, venueID)
}
