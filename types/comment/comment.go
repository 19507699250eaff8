package comment

import (
	commentModel "venue-booking/models/comment"
	userModel "venue-booking/models/user"
)

// CommentUpsertRequest carries the rating form. Rating arrives as text so
// a non-numeric value can be reported as a field error.
type CommentUpsertRequest struct {
	Rating  string `json:"rating" form:"rating" validate:"required"`
	Comment string `json:"comment" form:"comment" validate:"required"`
}

// CommentPayload is the serialized comment shape. CanEdit/CanDelete are
// computed relative to the requesting identity: the author may edit, the
// author or staff may delete.
type CommentPayload struct {
	ID        uint   `json:"id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	Date      string `json:"date"`
	User      string `json:"user"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

// Serialize builds the API payload for a comment as seen by viewer.
func Serialize(c *commentModel.Comment, viewer *userModel.User) CommentPayload {
	isAuthor := viewer != nil && viewer.ID == c.UserID
	return CommentPayload{
		ID:        c.ID,
		Rating:    c.Rating,
		Comment:   c.Body,
		Date:      c.Date.Format("2006-01-02"),
		User:      c.User.DisplayName(),
		CanEdit:   isAuthor,
		CanDelete: isAuthor || (viewer != nil && viewer.CanManage()),
	}
}
