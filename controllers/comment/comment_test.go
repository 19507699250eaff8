package comment

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	commentModel "venue-booking/models/comment"
	userModel "venue-booking/models/user"
	commentService "venue-booking/services/comment"
	"venue-booking/services/validation"
	"venue-booking/types"
	commentTypes "venue-booking/types/comment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCommentService struct {
	createFn      func(ctx context.Context, author *userModel.User, venueID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error)
	updateFn      func(ctx context.Context, actor *userModel.User, commentID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error)
	deleteFn      func(ctx context.Context, actor *userModel.User, commentID uint) error
	listByVenueFn func(ctx context.Context, venueID uint) ([]commentModel.Comment, error)
}

func (m *mockCommentService) Create(ctx context.Context, author *userModel.User, venueID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error) {
	return m.createFn(ctx, author, venueID, req)
}
func (m *mockCommentService) Update(ctx context.Context, actor *userModel.User, commentID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error) {
	return m.updateFn(ctx, actor, commentID, req)
}
func (m *mockCommentService) Delete(ctx context.Context, actor *userModel.User, commentID uint) error {
	return m.deleteFn(ctx, actor, commentID)
}
func (m *mockCommentService) ListByVenue(ctx context.Context, venueID uint) ([]commentModel.Comment, error) {
	return m.listByVenueFn(ctx, venueID)
}

func testApp(svc *mockCommentService, viewer *userModel.User) *fiber.App {
	app := fiber.New()
	if viewer != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user", viewer)
			return c.Next()
		})
	}

	ctrl := NewCommentController(svc)
	app.Post("/api/venues/:id/comments/create", ctrl.Create)
	app.Post("/api/venues/:id/comments/:cid/update", ctrl.Update)
	app.Post("/api/venues/:id/comments/:cid/delete", ctrl.Delete)
	return app
}

func decode(t *testing.T, resp *http.Response) types.ApiResponse {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var envelope types.ApiResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreate_Success(t *testing.T) {
	viewer := &userModel.User{ID: 4, Username: "demo.alex", FirstName: "Alex", LastName: "Rivera"}
	svc := &mockCommentService{
		createFn: func(ctx context.Context, author *userModel.User, venueID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error) {
			if author == nil {
				return nil, commentService.ErrNotAllowed
			}
			assert.Equal(t, uint(4), author.ID)
			assert.Equal(t, uint(2), venueID)
			assert.Equal(t, "5", req.Rating)
			return &commentModel.Comment{
				ID:     9,
				UserID: author.ID,
				User:   *author,
				Rating: 5,
				Body:   req.Comment,
				Date:   time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	app := testApp(svc, viewer)

	body := `{"rating":"5","comment":"Great pitch."}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/venues/2/comments/create", body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope := decode(t, resp)
	assert.True(t, envelope.Success)

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var payload commentTypes.CommentPayload
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, 5, payload.Rating)
	assert.Equal(t, "Alex Rivera", payload.User)
	assert.True(t, payload.CanEdit)
	assert.True(t, payload.CanDelete)
}

func TestCreate_RatingRejected(t *testing.T) {
	viewer := &userModel.User{ID: 4}
	svc := &mockCommentService{
		createFn: func(ctx context.Context, author *userModel.User, venueID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error) {
			return nil, validation.Errors{"Rating must be between 1 and 5."}
		},
	}
	app := testApp(svc, viewer)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/venues/2/comments/create", `{"rating":"9","comment":"x"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decode(t, resp)
	assert.Contains(t, envelope.Errors, "Rating must be between 1 and 5.")
}

func TestUpdate_ForeignAuthorForbidden(t *testing.T) {
	viewer := &userModel.User{ID: 7}
	svc := &mockCommentService{
		updateFn: func(ctx context.Context, actor *userModel.User, commentID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error) {
			return nil, commentService.ErrNotAllowed
		},
	}
	app := testApp(svc, viewer)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/venues/2/comments/9/update", `{"rating":"3","comment":"edited"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	envelope := decode(t, resp)
	assert.Contains(t, envelope.Errors, "You do not have permission to perform this action.")
}

func TestUpdate_NotFound(t *testing.T) {
	svc := &mockCommentService{
		updateFn: func(ctx context.Context, actor *userModel.User, commentID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error) {
			return nil, commentService.ErrCommentNotFound
		},
	}
	app := testApp(svc, &userModel.User{ID: 7})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/venues/2/comments/404/update", `{"rating":"3","comment":"edited"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDelete_StaffAllowed(t *testing.T) {
	staff := &userModel.User{ID: 1, IsStaff: true}
	var deletedBy *userModel.User
	svc := &mockCommentService{
		deleteFn: func(ctx context.Context, actor *userModel.User, commentID uint) error {
			deletedBy = actor
			assert.Equal(t, uint(9), commentID)
			return nil
		},
	}
	app := testApp(svc, staff)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/venues/2/comments/9/delete", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotNil(t, deletedBy)
	assert.True(t, deletedBy.IsStaff)
}

func TestDelete_BadID(t *testing.T) {
	app := testApp(&mockCommentService{}, &userModel.User{ID: 1})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/venues/2/comments/zero/delete", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
