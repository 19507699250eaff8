package seeders

import (
	"context"
	"errors"
	"log"
	"time"

	"venue-booking/models/booking"
	"venue-booking/models/comment"
	"venue-booking/models/user"
	"venue-booking/models/venue"
	"venue-booking/repository"
	"venue-booking/services/auth"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

type sampleUser struct {
	Username  string
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type sampleComment struct {
	Username  string
	Rating    int
	Comment   string
	Venues    []string
	DateDelta int
}

type sampleBooking struct {
	Username   string
	Venue      string
	Paid       bool
	StartDelta int
	Duration   int
	PaidDelta  *int
	Notes      string
}

func days(n int) *int { return &n }

var sampleUsers = []sampleUser{
	{Username: "demo.alex", FirstName: "Alex", LastName: "Rivera", Email: "alex.rivera@example.com", Password: "demo12345"},
	{Username: "demo.briana", FirstName: "Briana", LastName: "Singh", Email: "briana.singh@example.com", Password: "demo12345"},
	{Username: "demo.chloe", FirstName: "Chloe", LastName: "Mendez", Email: "chloe.mendez@example.com", Password: "demo12345"},
	{Username: "demo.darius", FirstName: "Darius", LastName: "Ng", Email: "darius.ng@example.com", Password: "demo12345"},
}

var sampleVenues = []venue.Venue{
	{
		Title:       "Aurora Sports Dome",
		Type:        venue.TypeFutsal,
		Description: "Indoor futsal pitch with climate control, lounge seating, and LED scoreboards.",
		Facilities:  venue.Facilities{"Locker rooms", "On-site cafe", "LED scoreboards"},
		Price:       550000,
		Location:    "Jakarta, Indonesia",
	},
	{
		Title:       "Harborview Badminton Center",
		Type:        venue.TypeBadminton,
		Description: "Six international-standard courts with sprung flooring and pro shop services.",
		Facilities:  venue.Facilities{"Stringing service", "Equipment rental", "Private coaching rooms"},
		Price:       320000,
		Location:    "Surabaya, Indonesia",
	},
	{
		Title:       "Summit Court Arena",
		Type:        venue.TypeBasket,
		Description: "Full-sized basketball court with seating for 500 and premium locker facilities.",
		Facilities:  venue.Facilities{"Courtside seating", "Hydration station", "Strength studio"},
		Price:       680000,
		Location:    "Bandung, Indonesia",
	},
}

var sampleComments = []sampleComment{
	{
		Username: "demo.alex",
		Rating:   5,
		Comment: "Climate control at Aurora Sports Dome keeps the futsal pitch " +
			"comfortable, and the LED scoreboards make our league nights feel " +
			"professional.",
		Venues:    []string{"Aurora Sports Dome"},
		DateDelta: 5,
	},
	{
		Username: "demo.darius",
		Rating:   4,
		Comment: "The lounge seating at Aurora Sports Dome is perfect for teams " +
			"between matches, and staff keep the locker rooms spotless.",
		Venues:    []string{"Aurora Sports Dome"},
		DateDelta: 8,
	},
	{
		Username: "demo.briana",
		Rating:   5,
		Comment: "Harborview Badminton Center's sprung flooring feels great and the " +
			"stringing service had my rackets tuned before play.",
		Venues:    []string{"Harborview Badminton Center"},
		DateDelta: 10,
	},
	{
		Username: "demo.chloe",
		Rating:   4,
		Comment: "We rented equipment at Harborview Badminton Center and it was in " +
			"excellent shape, private coaching rooms were a bonus.",
		Venues:    []string{"Harborview Badminton Center"},
		DateDelta: 13,
	},
	{
		Username: "demo.briana",
		Rating:   5,
		Comment: "Summit Court Arena has bright sightlines, plenty of seating, and " +
			"the hydration station kept our team fresh.",
		Venues:    []string{"Summit Court Arena"},
		DateDelta: 15,
	},
	{
		Username: "demo.alex",
		Rating:   4,
		Comment: "Loved the strength studio at Summit Court Arena for a warm-up " +
			"session before hitting the court.",
		Venues:    []string{"Summit Court Arena"},
		DateDelta: 18,
	},
}

var sampleBookings = []sampleBooking{
	{Username: "demo.alex", Venue: "Aurora Sports Dome", Paid: true, StartDelta: 4, Duration: 1, PaidDelta: days(2), Notes: "Corporate futsal league quarter-final."},
	{Username: "demo.briana", Venue: "Harborview Badminton Center", Paid: true, StartDelta: 10, Duration: 1, PaidDelta: days(7), Notes: "Doubles ladder tournament for regional club members."},
	{Username: "demo.chloe", Venue: "Summit Court Arena", Paid: false, StartDelta: 15, Duration: 2, PaidDelta: nil, Notes: "Weekend youth development camp (pending payment)."},
	{Username: "demo.alex", Venue: "Harborview Badminton Center", Paid: true, StartDelta: 1, Duration: 1, PaidDelta: days(0), Notes: "Casual evening session with coaching support."},
	{Username: "demo.darius", Venue: "Aurora Sports Dome", Paid: true, StartDelta: 13, Duration: 1, PaidDelta: days(9), Notes: "Friendly futsal meetup celebrating a birthday."},
	{Username: "demo.briana", Venue: "Summit Court Arena", Paid: true, StartDelta: 18, Duration: 1, PaidDelta: days(16), Notes: "Three-on-three charity showcase for alumni."},
}

// EnsureSampleData populates the database with deterministic demo
// venues, users, bookings and comments so a fresh environment has
// something to show. Real data is left untouched: the fixtures only run
// when no bookings exist yet. baseDate may be nil; bookings are then
// anchored 21 days before today.
func EnsureSampleData(db *gorm.DB, baseDate *time.Time) error {
	log.Printf("🔍 Checking sample data...")
	ctx := context.Background()

	seeded, err := repository.NewBookingRepository(db).Any(ctx)
	if err != nil {
		log.Printf("❌ Failed to check existing bookings: %v", err)
		return err
	}
	if seeded {
		log.Printf("✅ Bookings already present. No seeding needed.")
		return nil
	}

	today := now.With(time.Now()).BeginningOfDay()
	baseReference := today.AddDate(0, 0, -21)
	if baseDate != nil {
		baseReference = now.With(*baseDate).BeginningOfDay()
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		venues, err := getOrCreateVenues(ctx, tx)
		if err != nil {
			return err
		}
		users, err := getOrCreateUsers(ctx, tx)
		if err != nil {
			return err
		}
		if err := createBookings(ctx, tx, users, venues, baseReference, today); err != nil {
			return err
		}
		return createComments(ctx, tx, users, venues, baseReference, today)
	})
	if err != nil {
		log.Printf("❌ Seeding failed: %v", err)
		return err
	}

	log.Printf("🎉 Sample data seeding completed!")
	return nil
}

func getOrCreateUsers(ctx context.Context, tx *gorm.DB) (map[string]*user.User, error) {
	repo := repository.NewUserRepository(tx)
	users := make(map[string]*user.User)
	for _, payload := range sampleUsers {
		existing, err := repo.FindByUsername(ctx, payload.Username)
		if err == nil {
			if existing.Email == "" {
				existing.Email = payload.Email
				if err := repo.Save(ctx, existing); err != nil {
					return nil, err
				}
			}
			users[existing.Username] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		hash, err := auth.HashPassword(payload.Password)
		if err != nil {
			return nil, err
		}
		created := &user.User{
			Username:     payload.Username,
			Email:        payload.Email,
			FirstName:    payload.FirstName,
			LastName:     payload.LastName,
			PasswordHash: hash,
		}
		if err := repo.Create(ctx, created); err != nil {
			return nil, err
		}
		log.Printf("✅ Added user: %s", created.Username)
		users[created.Username] = created
	}
	return users, nil
}

func getOrCreateVenues(ctx context.Context, tx *gorm.DB) (map[string]*venue.Venue, error) {
	repo := repository.NewVenueRepository(tx)
	venues := make(map[string]*venue.Venue)
	for _, payload := range sampleVenues {
		existing, err := repo.FindByTitle(ctx, payload.Title)
		if err == nil {
			venues[existing.Title] = existing
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		created := payload
		if err := repo.Create(ctx, &created); err != nil {
			return nil, err
		}
		log.Printf("✅ Added venue: %s", created.Title)
		venues[created.Title] = &created
	}

	var all []venue.Venue
	if err := tx.Find(&all).Error; err != nil {
		return nil, err
	}
	for i := range all {
		if _, ok := venues[all[i].Title]; !ok {
			venues[all[i].Title] = &all[i]
		}
	}
	return venues, nil
}

func createBookings(ctx context.Context, tx *gorm.DB, users map[string]*user.User, venues map[string]*venue.Venue, baseReference, today time.Time) error {
	repo := repository.NewBookingRepository(tx)
	for _, payload := range sampleBookings {
		u := users[payload.Username]
		v := venues[payload.Venue]
		if u == nil || v == nil {
			continue
		}

		startDate := baseReference.AddDate(0, 0, payload.StartDelta)
		endDate := startDate.AddDate(0, 0, payload.Duration)

		exists, err := repo.ExistsByUserVenueStart(ctx, u.ID, v.ID, startDate)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		bookingDate := booking.BookingDate{StartDate: startDate, EndDate: endDate}
		if err := repo.CreateDate(ctx, tx, &bookingDate); err != nil {
			return err
		}

		b := booking.Booking{
			UserID:      &u.ID,
			VenueID:     v.ID,
			DateID:      bookingDate.ID,
			HasBeenPaid: payload.Paid,
			Notes:       payload.Notes,
		}
		if b.HasBeenPaid && payload.PaidDelta != nil {
			datePaid := baseReference.AddDate(0, 0, *payload.PaidDelta)
			// Never record a payment date in the future
			if datePaid.After(today) {
				datePaid = today
			}
			b.DatePaid = &datePaid
		}
		if b.HasBeenPaid && b.DatePaid == nil {
			b.DatePaid = &today
		}

		if err := repo.Create(ctx, tx, &b); err != nil {
			return err
		}
		log.Printf("✅ Added booking: %s at %s", u.Username, v.Title)
	}
	return nil
}

func commentDate(baseReference, today time.Time, delta int) time.Time {
	candidate := baseReference.AddDate(0, 0, delta)
	if candidate.After(today) {
		return today
	}
	return candidate
}

// clampRating forces seed ratings into the 1-5 range instead of failing
// the whole run on a bad fixture. User-submitted ratings are rejected,
// never clamped; that path lives in the validation layer.
func clampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}

func createComments(ctx context.Context, tx *gorm.DB, users map[string]*user.User, venues map[string]*venue.Venue, baseReference, today time.Time) error {
	if len(users) == 0 {
		return nil
	}
	repo := repository.NewCommentRepository(tx)

	var defaultUser *user.User
	for _, payload := range sampleUsers {
		if u, ok := users[payload.Username]; ok {
			defaultUser = u
			break
		}
	}

	for _, payload := range sampleComments {
		u := users[payload.Username]
		if u == nil {
			u = defaultUser
		}
		if u == nil || payload.Comment == "" {
			continue
		}

		rating := clampRating(payload.Rating)
		date := commentDate(baseReference, today, payload.DateDelta)

		existing, err := repo.FindByUserAndBody(ctx, u.ID, payload.Comment)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			existing = &comment.Comment{UserID: u.ID, Rating: rating, Body: payload.Comment, Date: date}
			if err := repo.Create(ctx, tx, existing); err != nil {
				return err
			}
		} else if err != nil {
			return err
		} else if existing.Rating != rating || !existing.Date.Equal(date) {
			existing.Rating = rating
			existing.Date = date
			if err := repo.Save(ctx, existing); err != nil {
				return err
			}
		}

		for _, title := range payload.Venues {
			v := venues[title]
			if v == nil {
				continue
			}
			if err := repo.AttachVenue(ctx, tx, existing.ID, v.ID); err != nil {
				return err
			}
		}
	}

	// Venues with no comments yet get a generic one so rating aggregates
	// never start empty.
	if defaultUser == nil {
		return nil
	}
	for _, v := range venues {
		hasComments, err := repo.VenueHasComments(ctx, v.ID)
		if err != nil {
			return err
		}
		if hasComments {
			continue
		}

		genericText := "Enjoyed playing at " + v.Title + ". Facilities were clean and the staff were welcoming."
		generic, err := repo.FindByUserAndBody(ctx, defaultUser.ID, genericText)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			generic = &comment.Comment{UserID: defaultUser.ID, Rating: 4, Body: genericText, Date: today}
			if err := repo.Create(ctx, tx, generic); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if err := repo.AttachVenue(ctx, tx, generic.ID, v.ID); err != nil {
			return err
		}
	}
	return nil
}
