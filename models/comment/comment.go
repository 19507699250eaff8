package comment

import (
	"time"

	"venue-booking/models/user"
	"venue-booking/models/venue"
)

// Comment is a 1-5 rating plus free text authored by one user. It attaches
// to venues through the explicit CommentVenue association record.
type Comment struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	UserID uint      `gorm:"not null;index" json:"user_id"`
	User   user.User `gorm:"foreignKey:UserID" json:"user"`

	Rating int       `gorm:"not null" json:"rating"`
	Body   string    `gorm:"column:comment;type:text;not null" json:"comment"`
	Date   time.Time `gorm:"type:date;not null" json:"date"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// CommentVenue links one comment to one venue. Kept as a first-class
// record so ownership and cascade rules stay visible in the schema.
type CommentVenue struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	CommentID uint `gorm:"not null;index:idx_comment_venue,unique" json:"comment_id"`
	VenueID   uint `gorm:"not null;index:idx_comment_venue,unique" json:"venue_id"`

	Comment Comment     `gorm:"foreignKey:CommentID" json:"-"`
	Venue   venue.Venue `gorm:"foreignKey:VenueID" json:"-"`
}
