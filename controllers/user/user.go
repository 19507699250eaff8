package user

import (
	"strings"

	"venue-booking/constants"
	"venue-booking/logger"
	"venue-booking/repository"
	"venue-booking/types"
	bookingTypes "venue-booking/types/booking"

	"github.com/gofiber/fiber/v2"
)

type UserController struct {
	users repository.UserRepository
}

func NewUserController(users repository.UserRepository) *UserController {
	return &UserController{users: users}
}

// Search matches the query against username, email and both name parts,
// returning at most a handful of rows ordered by username. A blank query
// returns an empty list without touching the database.
func (h *UserController) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.JSON(types.Ok([]bookingTypes.UserPayload{}))
	}

	users, err := h.users.Search(c.UserContext(), query, constants.UserSearchLimit)
	if err != nil {
		logger.Error("Failed to search users", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not search users."))
	}

	payload := make([]bookingTypes.UserPayload, len(users))
	for i := range users {
		payload[i] = *bookingTypes.SerializeUser(&users[i])
	}
	return c.JSON(types.Ok(payload))
}
