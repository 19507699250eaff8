package auth

import (
	"errors"
	"os"
	"time"

	"venue-booking/constants"
	"venue-booking/logger"
	"venue-booking/middleware"
	authService "venue-booking/services/auth"
	"venue-booking/services/validation"
	"venue-booking/types"
	authTypes "venue-booking/types/auth"
	bookingTypes "venue-booking/types/booking"
	"venue-booking/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	service        authService.AuthService
	loggerInstance *logger.AsyncLogger
}

func NewAuthController(service authService.AuthService, asyncLogger *logger.AsyncLogger) *AuthController {
	return &AuthController{service: service, loggerInstance: asyncLogger}
}

// Helper function to set secure cookies based on environment
func (h *AuthController) setSecureCookie(c *fiber.Ctx, name, value string, maxAge int) {
	isProduction := os.Getenv("APP_ENV") == "production"

	cookie := fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   isProduction,
		SameSite: "Strict",
		MaxAge:   maxAge,
		Path:     "/",
	}
	if maxAge < 0 {
		// A bare negative Max-Age is dropped on the wire; an expiry in
		// the past actually deletes the cookie.
		cookie.Expires = time.Now().Add(-time.Hour)
	}
	c.Cookie(&cookie)
}

func (h *AuthController) audit(c *fiber.Ctx, userID *uint) {
	if h.loggerInstance != nil {
		h.loggerInstance.Log(utils.CreateSanitizedLogEntry(c, userID))
	}
}

// Register creates an account and signs the new user in.
func (h *AuthController) Register(c *fiber.Ctx) error {
	var req authTypes.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.Fail("Could not parse the request body."))
	}

	u, err := h.service.Signup(c.UserContext(), req)
	if err != nil {
		if msgs, ok := validation.AsErrors(err); ok {
			resp := c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgs...))
			h.audit(c, nil)
			return resp
		}
		logger.Error("Failed to create account", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not create the account."))
	}

	token, err := middleware.IssueToken(u)
	if err != nil {
		logger.Error("Failed to issue session token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not start a session."))
	}
	h.setSecureCookie(c, constants.AccessCookie, token, 8*60*60) // 8 hours

	resp := c.Status(fiber.StatusCreated).JSON(types.Ok(fiber.Map{
		"user":   bookingTypes.SerializeUser(u),
		"access": token,
	}))
	h.audit(c, &u.ID)
	return resp
}

// Login authenticates by email or username and opens a session.
func (h *AuthController) Login(c *fiber.Ctx) error {
	var req authTypes.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.Fail("Could not parse the request body."))
	}

	u, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if msgs, ok := validation.AsErrors(err); ok {
			resp := c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgs...))
			h.audit(c, nil)
			return resp
		}
		if errors.Is(err, authService.ErrInvalidCredentials) {
			resp := c.Status(fiber.StatusBadRequest).JSON(types.Fail("Invalid login credentials."))
			h.audit(c, nil)
			return resp
		}
		logger.Error("Failed to log in user", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not log in."))
	}

	token, err := middleware.IssueToken(u)
	if err != nil {
		logger.Error("Failed to issue session token", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not start a session."))
	}
	h.setSecureCookie(c, constants.AccessCookie, token, 8*60*60) // 8 hours

	resp := c.JSON(types.Ok(fiber.Map{
		"user":   bookingTypes.SerializeUser(u),
		"access": token,
	}))
	h.audit(c, &u.ID)
	return resp
}

// Logout clears the session cookie.
func (h *AuthController) Logout(c *fiber.Ctx) error {
	h.setSecureCookie(c, constants.AccessCookie, "", -1) // Expire immediately

	u := middleware.CurrentUser(c)
	var userID *uint
	if u != nil {
		userID = &u.ID
	}

	resp := c.JSON(types.Ok(fiber.Map{"message": "Logged out."}))
	h.audit(c, userID)
	return resp
}

// Profile returns the authenticated user.
func (h *AuthController) Profile(c *fiber.Ctx) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(types.Fail("Authentication required."))
	}
	return c.JSON(types.Ok(fiber.Map{
		"user":     bookingTypes.SerializeUser(u),
		"is_staff": u.CanManage(),
	}))
}
