package venue

import (
	"errors"

	"venue-booking/constants"
	"venue-booking/logger"
	"venue-booking/middleware"
	"venue-booking/repository"
	commentService "venue-booking/services/comment"
	"venue-booking/services/search"
	"venue-booking/services/validation"
	venueService "venue-booking/services/venue"
	"venue-booking/storage"
	"venue-booking/types"
	commentTypes "venue-booking/types/comment"
	venueTypes "venue-booking/types/venue"

	"github.com/gofiber/fiber/v2"
)

type VenueController struct {
	venues   venueService.VenueService
	comments commentService.CommentService
	media    *storage.LocalStorage
}

func NewVenueController(venues venueService.VenueService, comments commentService.CommentService, media *storage.LocalStorage) *VenueController {
	return &VenueController{venues: venues, comments: comments, media: media}
}

func (h *VenueController) mediaPrefix() string {
	if h.media == nil {
		return ""
	}
	return h.media.URLPrefix()
}

func (h *VenueController) statsFor(c *fiber.Ctx, venueIDs []uint) (map[uint]repository.VenueRatingStats, error) {
	if len(venueIDs) == 0 {
		return map[uint]repository.VenueRatingStats{}, nil
	}
	return h.venues.RatingStats(c.UserContext(), venueIDs)
}

func toRatingStats(s repository.VenueRatingStats) venueTypes.RatingStats {
	return venueTypes.RatingStats{Average: s.Average, Count: s.Count}
}

// List returns one page of venues matching the free-text query, with
// rating aggregates resolved in a single grouped query.
func (h *VenueController) List(c *fiber.Ctx) error {
	query := c.Query("q")
	page := search.ParsePositiveInt(c.Query("page"), 1, 0)
	pageSize := search.ParsePositiveInt(c.Query("page_size"), constants.DefaultPageSize, constants.MaxPageSize)

	venues, window, err := h.venues.List(c.UserContext(), query, page, pageSize)
	if err != nil {
		logger.Error("Failed to list venues", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not load venues."))
	}

	ids := make([]uint, len(venues))
	for i, v := range venues {
		ids[i] = v.ID
	}
	stats, err := h.statsFor(c, ids)
	if err != nil {
		logger.Error("Failed to load venue ratings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not load venues."))
	}

	payload := make([]venueTypes.VenuePayload, len(venues))
	for i := range venues {
		payload[i] = venueTypes.Serialize(&venues[i], toRatingStats(stats[venues[i].ID]), h.mediaPrefix())
	}

	meta := window.Meta(query)
	if total, err := h.venues.CountAll(c.UserContext()); err == nil {
		meta["total_available"] = total
	}

	return c.JSON(types.OkWithMeta(payload, meta))
}

// Detail returns the venue with its comments as seen by the requester.
func (h *VenueController) Detail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail("Venue not found."))
	}

	v, err := h.venues.Get(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, venueService.ErrVenueNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.Fail("Venue not found."))
		}
		logger.Error("Failed to load venue", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not load the venue."))
	}

	stats, err := h.statsFor(c, []uint{v.ID})
	if err != nil {
		logger.Error("Failed to load venue ratings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not load the venue."))
	}

	venueComments, err := h.comments.ListByVenue(c.UserContext(), v.ID)
	if err != nil {
		logger.Error("Failed to load venue comments", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not load the venue."))
	}

	viewer := middleware.CurrentUser(c)
	commentPayloads := make([]commentTypes.CommentPayload, len(venueComments))
	for i := range venueComments {
		commentPayloads[i] = commentTypes.Serialize(&venueComments[i], viewer)
	}

	return c.JSON(types.Ok(fiber.Map{
		"venue":    venueTypes.Serialize(v, toRatingStats(stats[v.ID]), h.mediaPrefix()),
		"comments": commentPayloads,
	}))
}

// parseForm reads the multipart (or urlencoded/JSON) venue form and
// stores the optional image, returning its relative path.
func (h *VenueController) parseForm(c *fiber.Ctx) (venueTypes.VenueUpsertRequest, string, error) {
	var req venueTypes.VenueUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return req, "", validation.Errors{"Could not parse the request body."}
	}

	imagePath := ""
	if header, err := c.FormFile("image"); err == nil && header != nil {
		if h.media == nil {
			return req, "", validation.Errors{"Image uploads are not configured."}
		}
		path, err := h.media.SaveVenueImage(header)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedImage) {
				return req, "", validation.Errors{"Upload a valid image."}
			}
			logger.Error("Failed to store venue image", err)
			return req, "", err
		}
		imagePath = path
	}

	return req, imagePath, nil
}

func (h *VenueController) respondVenue(c *fiber.Ctx, status int, v *venueTypes.VenuePayload) error {
	return c.Status(status).JSON(types.Ok(v))
}

// Create adds a venue from the staff form.
func (h *VenueController) Create(c *fiber.Ctx) error {
	req, imagePath, err := h.parseForm(c)
	if err != nil {
		if msgs, ok := validation.AsErrors(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgs...))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not store the image."))
	}

	v, err := h.venues.Create(c.UserContext(), req, imagePath)
	if err != nil {
		if msgs, ok := validation.AsErrors(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgs...))
		}
		logger.Error("Failed to create venue", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not create the venue."))
	}

	payload := venueTypes.Serialize(v, venueTypes.RatingStats{}, h.mediaPrefix())
	return h.respondVenue(c, fiber.StatusCreated, &payload)
}

// Update rewrites a venue from the staff form. Omitting the image keeps
// the stored one.
func (h *VenueController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail("Venue not found."))
	}

	req, imagePath, err := h.parseForm(c)
	if err != nil {
		if msgs, ok := validation.AsErrors(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgs...))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not store the image."))
	}

	v, err := h.venues.Update(c.UserContext(), uint(id), req, imagePath)
	if err != nil {
		if errors.Is(err, venueService.ErrVenueNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.Fail("Venue not found."))
		}
		if msgs, ok := validation.AsErrors(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgs...))
		}
		logger.Error("Failed to update venue", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not update the venue."))
	}

	stats, statsErr := h.statsFor(c, []uint{v.ID})
	if statsErr != nil {
		stats = map[uint]repository.VenueRatingStats{}
	}
	payload := venueTypes.Serialize(v, toRatingStats(stats[v.ID]), h.mediaPrefix())
	return h.respondVenue(c, fiber.StatusOK, &payload)
}

// Delete removes the venue together with its bookings and comment links.
func (h *VenueController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail("Venue not found."))
	}

	if err := h.venues.Delete(c.UserContext(), uint(id)); err != nil {
		if errors.Is(err, venueService.ErrVenueNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.Fail("Venue not found."))
		}
		logger.Error("Failed to delete venue", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not delete the venue."))
	}

	return c.JSON(types.Ok(fiber.Map{"message": "Venue deleted."}))
}
