package comment

import (
	"errors"

	"venue-booking/logger"
	"venue-booking/middleware"
	commentService "venue-booking/services/comment"
	"venue-booking/services/validation"
	"venue-booking/types"
	commentTypes "venue-booking/types/comment"

	"github.com/gofiber/fiber/v2"
)

type CommentController struct {
	service commentService.CommentService
}

func NewCommentController(service commentService.CommentService) *CommentController {
	return &CommentController{service: service}
}

func parseID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

// Create posts a review on a venue for the authenticated user.
func (h *CommentController) Create(c *fiber.Ctx) error {
	venueID, ok := parseID(c, "id")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail("Venue not found."))
	}

	var req commentTypes.CommentUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.Fail("Could not parse the request body."))
	}

	viewer := middleware.CurrentUser(c)
	created, err := h.service.Create(c.UserContext(), viewer, venueID, req)
	if err != nil {
		if msgs, ok := validation.AsErrors(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgs...))
		}
		logger.Error("Failed to create comment", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not post the comment."))
	}

	return c.Status(fiber.StatusCreated).JSON(types.Ok(commentTypes.Serialize(created, viewer)))
}

// Update rewrites the requester's own review.
func (h *CommentController) Update(c *fiber.Ctx) error {
	commentID, ok := parseID(c, "cid")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail("Comment not found."))
	}

	var req commentTypes.CommentUpsertRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Error parsing request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.Fail("Could not parse the request body."))
	}

	viewer := middleware.CurrentUser(c)
	updated, err := h.service.Update(c.UserContext(), viewer, commentID, req)
	if err != nil {
		switch {
		case errors.Is(err, commentService.ErrCommentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(types.Fail("Comment not found."))
		case errors.Is(err, commentService.ErrNotAllowed):
			return c.Status(fiber.StatusForbidden).JSON(types.Fail("You do not have permission to perform this action."))
		}
		if msgs, ok := validation.AsErrors(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(types.Fail(msgs...))
		}
		logger.Error("Failed to update comment", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not update the comment."))
	}

	return c.JSON(types.Ok(commentTypes.Serialize(updated, viewer)))
}

// Delete removes a review. Authors may delete their own; staff may
// delete any.
func (h *CommentController) Delete(c *fiber.Ctx) error {
	commentID, ok := parseID(c, "cid")
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(types.Fail("Comment not found."))
	}

	viewer := middleware.CurrentUser(c)
	if err := h.service.Delete(c.UserContext(), viewer, commentID); err != nil {
		switch {
		case errors.Is(err, commentService.ErrCommentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(types.Fail("Comment not found."))
		case errors.Is(err, commentService.ErrNotAllowed):
			return c.Status(fiber.StatusForbidden).JSON(types.Fail("You do not have permission to perform this action."))
		}
		logger.Error("Failed to delete comment", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.Fail("Could not delete the comment."))
	}

	return c.JSON(types.Ok(fiber.Map{"message": "Comment deleted."}))
}
