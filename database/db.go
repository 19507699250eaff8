package database

import (
	"fmt"
	"os"

	"venue-booking/logger"
	"venue-booking/models/booking"
	"venue-booking/models/comment"
	"venue-booking/models/log"
	"venue-booking/models/user"
	"venue-booking/models/venue"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	dbUser := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, dbUser, password, database, sslmode)

	var err error
	// Foreign keys are created by createForeignKeyConstraints below with
	// the intended referential actions; AutoMigrate must not race it with
	// constraints of its own under the same default names.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createForeignKeyConstraints(); err != nil {
		logger.Error("Failed to create foreign key constraints", err)
		return nil, err
	}
	logger.Success("All foreign key constraints created successfully")

	if err := createIndexes(); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order
func autoMigrate() error {
	// Stage 1: foundation models with no references
	stage1Models := []interface{}{
		&user.User{},
		&venue.Venue{},
		&booking.BookingDate{},
	}

	for _, model := range stage1Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: models referencing stage 1
	stage2Models := []interface{}{
		&booking.Booking{},
		&comment.Comment{},
	}

	for _, model := range stage2Models {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 3: link tables and logging
	remainingModels := []interface{}{
		&comment.CommentVenue{},
		&log.Log{},
	}

	for _, model := range remainingModels {
		if err := DB.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes() error {
	// User indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)").Error; err != nil {
		return fmt.Errorf("failed to create user username index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)").Error; err != nil {
		return fmt.Errorf("failed to create user email index: %w", err)
	}

	// Venue indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_venues_title ON venues(title)").Error; err != nil {
		return fmt.Errorf("failed to create venue title index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_venues_type ON venues(type)").Error; err != nil {
		return fmt.Errorf("failed to create venue type index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_venues_location ON venues(location)").Error; err != nil {
		return fmt.Errorf("failed to create venue location index: %w", err)
	}

	// Booking indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id)").Error; err != nil {
		return fmt.Errorf("failed to create booking user_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_venue_id ON bookings(venue_id)").Error; err != nil {
		return fmt.Errorf("failed to create booking venue_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_bookings_created_at ON bookings(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create booking created_at index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_booking_dates_start_date ON booking_dates(start_date)").Error; err != nil {
		return fmt.Errorf("failed to create booking_date start_date index: %w", err)
	}

	// Comment indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_comments_user_id ON comments(user_id)").Error; err != nil {
		return fmt.Errorf("failed to create comment user_id index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_comment_venues_venue_id ON comment_venues(venue_id)").Error; err != nil {
		return fmt.Errorf("failed to create comment_venue venue_id index: %w", err)
	}

	// Log indexes
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_method ON logs(method)").Error; err != nil {
		return fmt.Errorf("failed to create log method index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)").Error; err != nil {
		return fmt.Errorf("failed to create log status_code index: %w", err)
	}
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}

// createForeignKeyConstraints creates foreign key constraints after auto migration
func createForeignKeyConstraints() error {
	constraints := []struct {
		name string
		sql  string
	}{
		{
			name: "fk_bookings_user",
			sql: `ALTER TABLE bookings ADD CONSTRAINT fk_bookings_user
				  FOREIGN KEY (user_id) REFERENCES users(id)
				  ON UPDATE CASCADE ON DELETE SET NULL`,
		},
		{
			name: "fk_bookings_venue",
			sql: `ALTER TABLE bookings ADD CONSTRAINT fk_bookings_venue
				  FOREIGN KEY (venue_id) REFERENCES venues(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_bookings_date",
			sql: `ALTER TABLE bookings ADD CONSTRAINT fk_bookings_date
				  FOREIGN KEY (date_id) REFERENCES booking_dates(id)
				  ON UPDATE CASCADE ON DELETE RESTRICT`,
		},
		{
			name: "fk_comments_user",
			sql: `ALTER TABLE comments ADD CONSTRAINT fk_comments_user
				  FOREIGN KEY (user_id) REFERENCES users(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_comment_venues_comment",
			sql: `ALTER TABLE comment_venues ADD CONSTRAINT fk_comment_venues_comment
				  FOREIGN KEY (comment_id) REFERENCES comments(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
		{
			name: "fk_comment_venues_venue",
			sql: `ALTER TABLE comment_venues ADD CONSTRAINT fk_comment_venues_venue
				  FOREIGN KEY (venue_id) REFERENCES venues(id)
				  ON UPDATE CASCADE ON DELETE CASCADE`,
		},
	}

	for _, constraint := range constraints {
		var exists bool
		checkSQL := `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.table_constraints
				WHERE constraint_name = $1
			)
		`

		err := DB.Raw(checkSQL, constraint.name).Scan(&exists).Error
		if err != nil {
			logger.Warning(fmt.Sprintf("Failed to check constraint existence: %s - Error: %v", constraint.name, err))
			continue
		}

		if !exists {
			if err := DB.Exec(constraint.sql).Error; err != nil {
				logger.Warning(fmt.Sprintf("Failed to create constraint: %s - Error: %v", constraint.name, err))
			} else {
				logger.Success(fmt.Sprintf("Successfully created constraint: %s", constraint.name))
			}
		} else {
			logger.Debug(fmt.Sprintf("Constraint already exists: %s", constraint.name))
		}
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
