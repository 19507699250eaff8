package user

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	userModel "venue-booking/models/user"
	"venue-booking/types"
	bookingTypes "venue-booking/types/booking"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockUserRepo struct {
	searchFn func(ctx context.Context, query string, limit int) ([]userModel.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *userModel.User) error { panic("not used") }
func (m *mockUserRepo) Save(ctx context.Context, u *userModel.User) error   { panic("not used") }
func (m *mockUserRepo) FindByID(ctx context.Context, id uint) (*userModel.User, error) {
	panic("not used")
}
func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*userModel.User, error) {
	panic("not used")
}
func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*userModel.User, error) {
	panic("not used")
}
func (m *mockUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	panic("not used")
}
func (m *mockUserRepo) Search(ctx context.Context, query string, limit int) ([]userModel.User, error) {
	return m.searchFn(ctx, query, limit)
}
func (m *mockUserRepo) Any(ctx context.Context) (bool, error) { panic("not used") }

func testApp(repo *mockUserRepo) *fiber.App {
	app := fiber.New()
	ctrl := NewUserController(repo)
	app.Get("/api/users/search", ctrl.Search)
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

func TestSearch(t *testing.T) {
	repo := &mockUserRepo{
		searchFn: func(ctx context.Context, query string, limit int) ([]userModel.User, error) {
			assert.Equal(t, "rivera", query)
			assert.Equal(t, 10, limit)
			return []userModel.User{
				{ID: 4, Username: "demo.alex", Email: "demo.alex@example.com", FirstName: "Alex", LastName: "Rivera"},
			}, nil
		},
	}
	app := testApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/search?q=rivera", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decode(t, resp)
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var payload []bookingTypes.UserPayload
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Len(t, payload, 1)
	assert.Equal(t, "Alex Rivera", payload[0].FullName)
	assert.Equal(t, "Alex Rivera", payload[0].DisplayName)
}

func TestSearch_BlankQuerySkipsDatabase(t *testing.T) {
	repo := &mockUserRepo{
		searchFn: func(ctx context.Context, query string, limit int) ([]userModel.User, error) {
			t.Error("a blank query must not reach the repository")
			return nil, nil
		},
	}
	app := testApp(repo)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/users/search?q=+++", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	envelope := decode(t, resp)
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var payload []bookingTypes.UserPayload
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Empty(t, payload)
}
