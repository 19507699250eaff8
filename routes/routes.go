package routes

import (
	"os"

	authController "venue-booking/controllers/auth"
	bookingController "venue-booking/controllers/booking"
	commentController "venue-booking/controllers/comment"
	userController "venue-booking/controllers/user"
	venueController "venue-booking/controllers/venue"
	"venue-booking/logger"
	"venue-booking/middleware"
	"venue-booking/repository"
	"venue-booking/services/auth"
	"venue-booking/services/booking"
	"venue-booking/services/comment"
	"venue-booking/services/venue"
	"venue-booking/storage"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	userRepo := repository.NewUserRepository(db)
	venueRepo := repository.NewVenueRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	media, err := storage.NewLocalStorage(os.Getenv("MEDIA_ROOT"), os.Getenv("MEDIA_URL"))
	if err != nil {
		logger.Fatal("Failed to initialize media storage: " + err.Error())
	}

	asyncLogger := logger.NewAsyncLogger(db)

	authSvc := auth.NewAuthService(userRepo, nil)
	venueSvc := venue.NewVenueService(venueRepo, bookingRepo, commentRepo)
	bookingSvc := booking.NewBookingService(bookingRepo, venueRepo, userRepo)
	commentSvc := comment.NewCommentService(commentRepo, venueRepo)

	authCtrl := authController.NewAuthController(authSvc, asyncLogger)
	venueCtrl := venueController.NewVenueController(venueSvc, commentSvc, media)
	bookingCtrl := bookingController.NewBookingController(bookingSvc, userRepo)
	commentCtrl := commentController.NewCommentController(commentSvc)
	userCtrl := userController.NewUserController(userRepo)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"name":   "venue-booking",
			"status": "ok",
		})
	})

	// Uploaded venue images
	app.Static(media.URLPrefix(), media.Root())

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Post("/login", authCtrl.Login)
	api.Post("/register", authCtrl.Register)
	api.Post("/logout", authCtrl.Logout)

	/*=============================================================================
	| Authenticated Routes
	===============================================================================*/
	authGroup := api.Group("/auth").Use(middleware.RequireAuthentication(userRepo))
	authGroup.Get("/profile", authCtrl.Profile)

	/*=============================================================================
	| Venue Routes
	===============================================================================*/
	venueGroup := api.Group("/venues")

	venueGroup.Get("/", middleware.RequireStaff(userRepo), venueCtrl.List)
	venueGroup.Post("/create", middleware.RequireStaff(userRepo), venueCtrl.Create)
	venueGroup.Get("/:id", middleware.RequireAuthentication(userRepo), venueCtrl.Detail)
	venueGroup.Post("/:id/update", middleware.RequireStaff(userRepo), venueCtrl.Update)
	venueGroup.Post("/:id/delete", middleware.RequireStaff(userRepo), venueCtrl.Delete)

	venueGroup.Post("/:id/bookings/create", middleware.RequireAuthentication(userRepo), bookingCtrl.BookVenue)

	venueGroup.Post("/:id/comments/create", middleware.RequireAuthentication(userRepo), commentCtrl.Create)
	venueGroup.Post("/:id/comments/:cid/update", middleware.RequireAuthentication(userRepo), commentCtrl.Update)
	venueGroup.Post("/:id/comments/:cid/delete", middleware.RequireAuthentication(userRepo), commentCtrl.Delete)

	/*=============================================================================
	| Booking Routes (staff)
	===============================================================================*/
	bookingGroup := api.Group("/bookings").Use(middleware.RequireStaff(userRepo))
	bookingGroup.Get("/", bookingCtrl.List)
	bookingGroup.Post("/create", bookingCtrl.Create)
	bookingGroup.Get("/:id", bookingCtrl.Get)
	bookingGroup.Post("/:id/update", bookingCtrl.Update)
	bookingGroup.Post("/:id/delete", bookingCtrl.Delete)

	/*=============================================================================
	| User Routes (staff)
	===============================================================================*/
	api.Get("/users/search", middleware.RequireStaff(userRepo), userCtrl.Search)
}
