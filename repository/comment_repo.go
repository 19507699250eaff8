package repository

import (
	"context"

	"venue-booking/models/comment"
	"venue-booking/models/venue"

	"gorm.io/gorm"
)

// VenueRatingStats is the comment aggregate for one venue. Average stays
// nil when no comments are linked; it is never coerced to zero.
type VenueRatingStats struct {
	Average *float64
	Count   int64
}

type CommentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, c *comment.Comment) error
	CreateWithVenue(ctx context.Context, c *comment.Comment, venueID uint) error
	Save(ctx context.Context, c *comment.Comment) error
	FindByID(ctx context.Context, id uint) (*comment.Comment, error)
	FindByUserAndBody(ctx context.Context, userID uint, body string) (*comment.Comment, error)
	FindByVenueID(ctx context.Context, venueID uint) ([]comment.Comment, error)
	Delete(ctx context.Context, tx *gorm.DB, commentID uint) error
	AttachVenue(ctx context.Context, tx *gorm.DB, commentID, venueID uint) error
	VenueHasComments(ctx context.Context, venueID uint) (bool, error)
	DeleteLinksByVenue(ctx context.Context, tx *gorm.DB, venueID uint) error
	DeleteLinksByComment(ctx context.Context, tx *gorm.DB, commentID uint) error
	RatingStats(ctx context.Context, venueIDs []uint) (map[uint]VenueRatingStats, error)
	GetDB() *gorm.DB
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) GetDB() *gorm.DB {
	return r.db
}

func (r *commentRepository) Create(ctx context.Context, tx *gorm.DB, c *comment.Comment) error {
	return tx.WithContext(ctx).Omit("User").Create(c).Error
}

// CreateWithVenue writes the comment row and its venue link in one
// transaction: a failed link insert rolls back the comment row too.
func (r *commentRepository) CreateWithVenue(ctx context.Context, c *comment.Comment, venueID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.Create(ctx, tx, c); err != nil {
			return err
		}
		return r.AttachVenue(ctx, tx, c.ID, venueID)
	})
}

func (r *commentRepository) Save(ctx context.Context, c *comment.Comment) error {
	return r.db.WithContext(ctx).Omit("User").Save(c).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id uint) (*comment.Comment, error) {
	var c comment.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) FindByUserAndBody(ctx context.Context, userID uint, body string) (*comment.Comment, error) {
	var c comment.Comment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND comment = ?", userID, body).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) FindByVenueID(ctx context.Context, venueID uint) ([]comment.Comment, error) {
	var comments []comment.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Joins("JOIN comment_venues ON comment_venues.comment_id = comments.id").
		Where("comment_venues.venue_id = ?", venueID).
		Order("comments.date DESC, comments.id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, tx *gorm.DB, commentID uint) error {
	return tx.WithContext(ctx).Delete(&comment.Comment{}, commentID).Error
}

// AttachVenue creates the association record if it is not already there.
func (r *commentRepository) AttachVenue(ctx context.Context, tx *gorm.DB, commentID, venueID uint) error {
	var linked int64
	err := tx.WithContext(ctx).
		Model(&comment.CommentVenue{}).
		Where("comment_id = ? AND venue_id = ?", commentID, venueID).
		Count(&linked).Error
	if err != nil {
		return err
	}
	if linked > 0 {
		return nil
	}
	link := comment.CommentVenue{CommentID: commentID, VenueID: venueID}
	return tx.WithContext(ctx).Omit("Comment", "Venue").Create(&link).Error
}

func (r *commentRepository) VenueHasComments(ctx context.Context, venueID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&comment.CommentVenue{}).
		Where("venue_id = ?", venueID).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *commentRepository) DeleteLinksByVenue(ctx context.Context, tx *gorm.DB, venueID uint) error {
	return tx.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Delete(&comment.CommentVenue{}).Error
}

func (r *commentRepository) DeleteLinksByComment(ctx context.Context, tx *gorm.DB, commentID uint) error {
	return tx.WithContext(ctx).
		Where("comment_id = ?", commentID).
		Delete(&comment.CommentVenue{}).Error
}

// RatingStats aggregates ratings per venue for the given ids in one
// grouped query. Venues absent from the result have no comments.
func (r *commentRepository) RatingStats(ctx context.Context, venueIDs []uint) (map[uint]VenueRatingStats, error) {
	stats := make(map[uint]VenueRatingStats, len(venueIDs))
	if len(venueIDs) == 0 {
		return stats, nil
	}

	var rows []struct {
		VenueID uint
		Average float64
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&venue.Venue{}).
		Select("comment_venues.venue_id AS venue_id, AVG(comments.rating) AS average, COUNT(comments.id) AS count").
		Joins("JOIN comment_venues ON comment_venues.venue_id = venues.id").
		Joins("JOIN comments ON comments.id = comment_venues.comment_id").
		Where("venues.id IN ?", venueIDs).
		Group("comment_venues.venue_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		avg := row.Average
		stats[row.VenueID] = VenueRatingStats{Average: &avg, Count: row.Count}
	}
	return stats, nil
}
