package venue

import (
	"time"

	venueModel "venue-booking/models/venue"
)

// VenueUpsertRequest carries the venue form fields. Facilities accepts a
// single comma- or newline-delimited string; the validation layer splits
// it. Price arrives as text so a bad number can be reported as a field
// error instead of a parse failure.
type VenueUpsertRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=255"`
	Type        string `json:"type" form:"type" validate:"required,max=20"`
	Description string `json:"description" form:"description" validate:"required"`
	Facilities  string `json:"facilities" form:"facilities"`
	Price       string `json:"price" form:"price" validate:"required"`
	Location    string `json:"location" form:"location" validate:"required,max=255"`
}

// VenuePayload is the serialized venue shape returned by every endpoint.
type VenuePayload struct {
	ID            uint     `json:"id"`
	Title         string   `json:"title"`
	Type          string   `json:"type"`
	Description   string   `json:"description"`
	Facilities    []string `json:"facilities"`
	Price         int      `json:"price"`
	Location      string   `json:"location"`
	ImageURL      string   `json:"image_url"`
	CreatedAt     string   `json:"created_at"`
	UpdatedAt     string   `json:"updated_at"`
	AverageRating *float64 `json:"average_rating"`
	RatingCount   int64    `json:"rating_count"`
}

// RatingStats is the per-venue comment aggregate. Average stays nil when
// the venue has no comments.
type RatingStats struct {
	Average *float64
	Count   int64
}

// Serialize builds the API payload for a venue. mediaURL prefixes the
// stored image path; an absent image serializes as an empty URL.
func Serialize(v *venueModel.Venue, stats RatingStats, mediaURL string) VenuePayload {
	facilities := []string(v.Facilities)
	if facilities == nil {
		facilities = []string{}
	}

	imageURL := ""
	if v.Image != "" {
		imageURL = mediaURL + v.Image
	}

	return VenuePayload{
		ID:            v.ID,
		Title:         v.Title,
		Type:          v.Type,
		Description:   v.Description,
		Facilities:    facilities,
		Price:         v.Price,
		Location:      v.Location,
		ImageURL:      imageURL,
		CreatedAt:     v.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     v.UpdatedAt.Format(time.RFC3339),
		AverageRating: stats.Average,
		RatingCount:   stats.Count,
	}
}
