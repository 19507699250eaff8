//go:build integration

package comment

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"

	commentModel "venue-booking/models/comment"
	userModel "venue-booking/models/user"
	venueModel "venue-booking/models/venue"
	"venue-booking/repository"
	commentTypes "venue-booking/types/comment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var testDB *gorm.DB

func TestMain(m *testing.M) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "5432"),
		getEnv("TEST_DB_USER", "postgres"),
		getEnv("TEST_DB_PASSWORD", "postgres"),
		getEnv("TEST_DB_NAME", "venue_booking_test"),
	)

	var err error
	testDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	if err := testDB.AutoMigrate(
		&userModel.User{},
		&venueModel.Venue{},
		&commentModel.Comment{},
		&commentModel.CommentVenue{},
	); err != nil {
		log.Fatalf("failed to auto-migrate test database: %v", err)
	}

	code := m.Run()

	for _, table := range []string{"comment_venues", "comments", "venues", "users"} {
		testDB.Exec("DROP TABLE IF EXISTS " + table)
	}

	os.Exit(code)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func cleanTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"comment_venues", "comments", "venues", "users"} {
		require.NoError(t, testDB.Exec("DELETE FROM "+table).Error)
	}
}

func newService() CommentService {
	return NewCommentService(
		repository.NewCommentRepository(testDB),
		repository.NewVenueRepository(testDB),
	)
}

func createFixtures(t *testing.T) (*userModel.User, *venueModel.Venue) {
	t.Helper()
	u := &userModel.User{Username: "demo.alex", Email: "alex.rivera@example.com", FirstName: "Alex", LastName: "Rivera", PasswordHash: "x"}
	require.NoError(t, testDB.Create(u).Error)
	v := &venueModel.Venue{Title: "Aurora Sports Dome", Type: venueModel.TypeFutsal, Description: "Indoor futsal pitch.", Price: 550000, Location: "Jakarta, Indonesia"}
	require.NoError(t, testDB.Create(v).Error)
	return u, v
}

func TestCommentLifecycle(t *testing.T) {
	cleanTables(t)
	u, v := createFixtures(t)
	svc := newService()
	ctx := context.Background()

	created, err := svc.Create(ctx, u, v.ID, commentTypes.CommentUpsertRequest{
		Rating:  "5",
		Comment: "Great pitch.",
	})
	require.NoError(t, err)

	var links int64
	require.NoError(t, testDB.Model(&commentModel.CommentVenue{}).
		Where("comment_id = ? AND venue_id = ?", created.ID, v.ID).Count(&links).Error)
	assert.Equal(t, int64(1), links)

	// Deleting removes the comment and its venue links together
	require.NoError(t, svc.Delete(ctx, u, created.ID))

	var comments int64
	require.NoError(t, testDB.Model(&commentModel.Comment{}).Count(&comments).Error)
	require.NoError(t, testDB.Model(&commentModel.CommentVenue{}).Count(&links).Error)
	assert.Zero(t, comments)
	assert.Zero(t, links)
}

func TestCreateWithVenue_FailedLinkRollsBackComment(t *testing.T) {
	cleanTables(t)
	u, _ := createFixtures(t)
	repo := repository.NewCommentRepository(testDB)

	// The link insert violates the venue foreign key; the comment row
	// written in the same transaction must not survive on its own.
	c := &commentModel.Comment{UserID: u.ID, Rating: 5, Body: "Great pitch."}
	err := repo.CreateWithVenue(context.Background(), c, 999999)
	require.Error(t, err)

	var comments int64
	require.NoError(t, testDB.Model(&commentModel.Comment{}).Count(&comments).Error)
	assert.Zero(t, comments)
}
