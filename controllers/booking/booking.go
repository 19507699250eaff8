package booking

import (
	"errors"

	"venue-booking/constants"
	"venue-booking/logger"
	"venue-booking/middleware"
	"venue-booking/repository"
	bookingService "venue-booking/services/booking"
	"venue-booking/services/search"
	"venue-booking/services/validation"
	"venue-booking/types"
	bookingTypes "venue-booking/types/booking"

	"github.com/gofiber/fiber/v2"
)

type BookingController struct {
	service bookingService.BookingService
	users   repository.UserRepository
}

func NewBookingController(service bookingService.BookingService, users repository.UserRepository) *BookingController {
	return &BookingController{service: service, users: users}
}

// List returns one page of bookings matching the free-text query,
// newest first.
func (h *BookingController) List(c *fiber.Ctx) error {
	query := c.Query("q")
	page := search.ParsePositiveInt(c.Query("page"), 1, 0)
	pageSize := search.ParsePositiveInt(c.Query("page_size"), constants.DefaultPageSize, constants.MaxPageSize)

	bookings, window, err := h.service.List(c.UserContext(), query, page, pageSize)
	if err != nil {
		logger.Error("Failed to list bookings", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not load bookings."))
	}

	payload := make([]bookingTypes.BookingPayload, len(bookings))
	for i := range bookings {
		payload[i] = bookingTypes.Serialize(&bookings[i])
	}

	meta := window.Meta(query)
	if hasUsers, err := h.users.Any(c.UserContext()); err == nil {
		meta["has_users"] = hasUsers
	}

	return c.JSON(types.OkWithMeta(payload, meta))
}

// Get returns one booking with its user, venue and date span.
func (h *BookingController) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail("Booking not found."))
	}

	b, err := h.service.Get(c.UserContext(), uint(id))
	if err != nil {
		if errors.Is(err, bookingService.ErrBookingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.Fail("Booking not found."))
		}
		logger.Error("Failed to load booking", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not load the booking."))
	}

	return c.JSON(types.Ok(bookingTypes.Serialize(b)))
}

// Create adds a booking from the staff form. The requester may be named
// by id or by free-text username, or left unassigned.
func (h *BookingController) Create(c *fiber.Ctx) error {
	var req bookingTypes.BookingUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.Fail("Could not parse the request body."))
	}

	b, err := h.service.Create(c.UserContext(), req)
	if err != nil {
		if msgs, ok := validation.AsErrors(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgs...))
		}
		logger.Error("Failed to create booking", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not create the booking."))
	}

	return c.Status(fiber.StatusCreated).JSON(types.Ok(bookingTypes.Serialize(b)))
}

// BookVenue books the venue for the authenticated user themselves.
func (h *BookingController) BookVenue(c *fiber.Ctx) error {
	venueID, err := c.ParamsInt("id")
	if err != nil || venueID <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail("Venue not found."))
	}

	var req bookingTypes.VenueBookingRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.Fail("Could not parse the request body."))
	}

	requester := middleware.CurrentUser(c)
	b, err := h.service.CreateForUser(c.UserContext(), uint(venueID), requester, req)
	if err != nil {
		if msgs, ok := validation.AsErrors(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgs...))
		}
		logger.Error("Failed to create booking", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not create the booking."))
	}

	return c.Status(fiber.StatusCreated).JSON(types.Ok(bookingTypes.Serialize(b)))
}

// Update rewrites a booking and its date span from the staff form.
func (h *BookingController) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail("Booking not found."))
	}

	var req bookingTypes.BookingUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.Fail("Could not parse the request body."))
	}

	b, err := h.service.Update(c.UserContext(), uint(id), req)
	if err != nil {
		if errors.Is(err, bookingService.ErrBookingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.Fail("Booking not found."))
		}
		if msgs, ok := validation.AsErrors(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgs...))
		}
		logger.Error("Failed to update booking", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not update the booking."))
	}

	return c.JSON(types.Ok(bookingTypes.Serialize(b)))
}

// Delete removes the booking and its date span together.
func (h *BookingController) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail("Booking not found."))
	}

	if err := h.service.Delete(c.UserContext(), uint(id)); err != nil {
		if errors.Is(err, bookingService.ErrBookingNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(types.Fail("Booking not found."))
		}
		logger.Error("Failed to delete booking", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not delete the booking."))
	}

	return c.JSON(types.Ok(fiber.Map{"message": "Booking deleted."}))
}
