package venue

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	commentModel "venue-booking/models/comment"
	userModel "venue-booking/models/user"
	venueModel "venue-booking/models/venue"
	"venue-booking/repository"
	"venue-booking/services/search"
	"venue-booking/services/validation"
	venueService "venue-booking/services/venue"
	"venue-booking/storage"
	"venue-booking/types"
	commentTypes "venue-booking/types/comment"
	venueTypes "venue-booking/types/venue"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type mockVenueService struct {
	createFn      func(ctx context.Context, req venueTypes.VenueUpsertRequest, imagePath string) (*venueModel.Venue, error)
	updateFn      func(ctx context.Context, id uint, req venueTypes.VenueUpsertRequest, imagePath string) (*venueModel.Venue, error)
	deleteFn      func(ctx context.Context, id uint) error
	getFn         func(ctx context.Context, id uint) (*venueModel.Venue, error)
	listFn        func(ctx context.Context, query string, page, pageSize int) ([]venueModel.Venue, search.Page, error)
	countAllFn    func(ctx context.Context) (int64, error)
	ratingStatsFn func(ctx context.Context, venueIDs []uint) (map[uint]repository.VenueRatingStats, error)
}

func (m *mockVenueService) Create(ctx context.Context, req venueTypes.VenueUpsertRequest, imagePath string) (*venueModel.Venue, error) {
	return m.createFn(ctx, req, imagePath)
}
func (m *mockVenueService) Update(ctx context.Context, id uint, req venueTypes.VenueUpsertRequest, imagePath string) (*venueModel.Venue, error) {
	return m.updateFn(ctx, id, req, imagePath)
}
func (m *mockVenueService) Delete(ctx context.Context, id uint) error { return m.deleteFn(ctx, id) }
func (m *mockVenueService) Get(ctx context.Context, id uint) (*venueModel.Venue, error) {
	return m.getFn(ctx, id)
}
func (m *mockVenueService) List(ctx context.Context, query string, page, pageSize int) ([]venueModel.Venue, search.Page, error) {
	return m.listFn(ctx, query, page, pageSize)
}
func (m *mockVenueService) CountAll(ctx context.Context) (int64, error) {
	return m.countAllFn(ctx)
}
func (m *mockVenueService) RatingStats(ctx context.Context, venueIDs []uint) (map[uint]repository.VenueRatingStats, error) {
	return m.ratingStatsFn(ctx, venueIDs)
}

type mockCommentService struct {
	listByVenueFn func(ctx context.Context, venueID uint) ([]commentModel.Comment, error)
}

func (m *mockCommentService) Create(ctx context.Context, author *userModel.User, venueID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error) {
	panic("not used")
}
func (m *mockCommentService) Update(ctx context.Context, actor *userModel.User, commentID uint, req commentTypes.CommentUpsertRequest) (*commentModel.Comment, error) {
	panic("not used")
}
func (m *mockCommentService) Delete(ctx context.Context, actor *userModel.User, commentID uint) error {
	panic("not used")
}
func (m *mockCommentService) ListByVenue(ctx context.Context, venueID uint) ([]commentModel.Comment, error) {
	return m.listByVenueFn(ctx, venueID)
}

// --- Helpers ---

func sampleVenue() *venueModel.Venue {
	return &venueModel.Venue{
		ID:          2,
		Title:       "Aurora Sports Dome",
		Type:        venueModel.TypeFutsal,
		Description: "Indoor futsal dome.",
		Facilities:  venueModel.Facilities{"Toilet", "Kantin"},
		Price:       550000,
		Location:    "Jakarta",
		Image:       "venues/venue_1.png",
	}
}

func emptyStats(ctx context.Context, venueIDs []uint) (map[uint]repository.VenueRatingStats, error) {
	return map[uint]repository.VenueRatingStats{}, nil
}

func testApp(venues *mockVenueService, comments *mockCommentService, media *storage.LocalStorage, viewer *userModel.User) *fiber.App {
	app := fiber.New()
	if viewer != nil {
		app.Use(func(c *fiber.Ctx) error {
			c.Locals("user", viewer)
			return c.Next()
		})
	}

	ctrl := NewVenueController(venues, comments, media)
	app.Get("/api/venues/", ctrl.List)
	app.Post("/api/venues/create", ctrl.Create)
	app.Get("/api/venues/:id", ctrl.Detail)
	app.Post("/api/venues/:id/update", ctrl.Update)
	app.Post("/api/venues/:id/delete", ctrl.Delete)
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

// --- Tests ---

func TestList(t *testing.T) {
	avg := 4.5
	venues := &mockVenueService{
		listFn: func(ctx context.Context, query string, page, pageSize int) ([]venueModel.Venue, search.Page, error) {
			assert.Equal(t, "dome", query)
			return []venueModel.Venue{*sampleVenue()}, search.Resolve(1, 6, 1), nil
		},
		countAllFn: func(ctx context.Context) (int64, error) { return 3, nil },
		ratingStatsFn: func(ctx context.Context, venueIDs []uint) (map[uint]repository.VenueRatingStats, error) {
			assert.Equal(t, []uint{2}, venueIDs)
			return map[uint]repository.VenueRatingStats{2: {Average: &avg, Count: 2}}, nil
		},
	}
	app := testApp(venues, &mockCommentService{}, nil, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/venues/?q=dome", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decode(t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, float64(3), envelope.Meta["total_available"])
	assert.Equal(t, float64(1), envelope.Meta["total_items"])

	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var payload []venueTypes.VenuePayload
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Len(t, payload, 1)
	require.NotNil(t, payload[0].AverageRating)
	assert.Equal(t, 4.5, *payload[0].AverageRating)
	assert.Equal(t, int64(2), payload[0].RatingCount)
}

func TestDetail_IncludesComments(t *testing.T) {
	viewer := &userModel.User{ID: 4, FirstName: "Alex", LastName: "Rivera"}
	venues := &mockVenueService{
		getFn: func(ctx context.Context, id uint) (*venueModel.Venue, error) {
			assert.Equal(t, uint(2), id)
			return sampleVenue(), nil
		},
		ratingStatsFn: emptyStats,
	}
	comments := &mockCommentService{
		listByVenueFn: func(ctx context.Context, venueID uint) ([]commentModel.Comment, error) {
			return []commentModel.Comment{
				{ID: 9, UserID: 4, User: *viewer, Rating: 5, Body: "Great pitch."},
				{ID: 10, UserID: 7, User: userModel.User{ID: 7, Username: "demo.briana"}, Rating: 3, Body: "Decent."},
			}, nil
		},
	}
	app := testApp(venues, comments, nil, viewer)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/venues/2", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decode(t, resp)
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var detail struct {
		Venue    venueTypes.VenuePayload      `json:"venue"`
		Comments []commentTypes.CommentPayload `json:"comments"`
	}
	require.NoError(t, json.Unmarshal(raw, &detail))
	assert.Equal(t, "Aurora Sports Dome", detail.Venue.Title)
	require.Len(t, detail.Comments, 2)
	assert.True(t, detail.Comments[0].CanEdit)
	assert.False(t, detail.Comments[1].CanEdit)
}

func TestDetail_NotFound(t *testing.T) {
	venues := &mockVenueService{
		getFn: func(ctx context.Context, id uint) (*venueModel.Venue, error) {
			return nil, venueService.ErrVenueNotFound
		},
	}
	app := testApp(venues, &mockCommentService{}, nil, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/venues/99", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreate_WithImage(t *testing.T) {
	media, err := storage.NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)

	venues := &mockVenueService{
		createFn: func(ctx context.Context, req venueTypes.VenueUpsertRequest, imagePath string) (*venueModel.Venue, error) {
			assert.Equal(t, "Harborview Badminton Center", req.Title)
			assert.True(t, strings.HasPrefix(imagePath, "venues/venue_"))
			assert.True(t, strings.HasSuffix(imagePath, ".png"))
			v := sampleVenue()
			v.Title = req.Title
			v.Image = imagePath
			return v, nil
		},
	}
	app := testApp(venues, &mockCommentService{}, media, nil)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", "Harborview Badminton Center"))
	require.NoError(t, form.WriteField("type", "Badminton"))
	require.NoError(t, form.WriteField("description", "Eight courts."))
	require.NoError(t, form.WriteField("price", "320000"))
	require.NoError(t, form.WriteField("location", "Surabaya"))
	part, err := form.CreateFormFile("image", "court.png")
	require.NoError(t, err)
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	_, err = part.Write(pngHeader)
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/venues/create", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	envelope := decode(t, resp)
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var payload venueTypes.VenuePayload
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.True(t, strings.HasPrefix(payload.ImageURL, "/media/venues/venue_"))
}

func TestCreate_UnsupportedImage(t *testing.T) {
	media, err := storage.NewLocalStorage(t.TempDir(), "/media")
	require.NoError(t, err)
	app := testApp(&mockVenueService{}, &mockCommentService{}, media, nil)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	require.NoError(t, form.WriteField("title", "Bad Upload"))
	part, err := form.CreateFormFile("image", "notes.txt")
	require.NoError(t, err)
	_, err = part.Write([]byte("plain text, not an image"))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/venues/create", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decode(t, resp)
	assert.Contains(t, envelope.Errors, "Upload a valid image.")
}

func TestUpdate_ValidationErrors(t *testing.T) {
	venues := &mockVenueService{
		updateFn: func(ctx context.Context, id uint, req venueTypes.VenueUpsertRequest, imagePath string) (*venueModel.Venue, error) {
			return nil, validation.Errors{"Price must be a whole number."}
		},
	}
	app := testApp(venues, &mockCommentService{}, nil, nil)

	body := strings.NewReader(`{"title":"Aurora","type":"Futsal","description":"x","price":"abc","location":"Jakarta"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/venues/2/update", body)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	envelope := decode(t, resp)
	assert.Contains(t, envelope.Errors, "Price must be a whole number.")
}

func TestDelete_NotFound(t *testing.T) {
	venues := &mockVenueService{
		deleteFn: func(ctx context.Context, id uint) error {
			return venueService.ErrVenueNotFound
		},
	}
	app := testApp(venues, &mockCommentService{}, nil, nil)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/venues/99/delete", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
