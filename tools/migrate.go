package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"venue-booking/database"
	"venue-booking/database/seeders"
	"venue-booking/models/user"
	"venue-booking/services/auth"

	"gorm.io/gorm"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  go run tools/migrate.go migrate                                   - Run database migrations")
	fmt.Println("  go run tools/migrate.go seed [--base-date YYYY-MM-DD]             - Seed demo data (no-op when bookings exist)")
	fmt.Println("  go run tools/migrate.go create-admin --email E --password P [--username U] - Create or promote a staff account")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		fmt.Println("🚀 Running database migrations...")
		if _, err := database.InitDB(); err != nil {
			fmt.Printf("❌ Migration failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("✅ Migration completed successfully!")

	case "seed":
		seedFlags := flag.NewFlagSet("seed", flag.ExitOnError)
		baseDateArg := seedFlags.String("base-date", "", "anchor date for demo bookings (YYYY-MM-DD)")
		if err := seedFlags.Parse(os.Args[2:]); err != nil {
			os.Exit(1)
		}

		var baseDate *time.Time
		if *baseDateArg != "" {
			parsed, err := time.Parse("2006-01-02", *baseDateArg)
			if err != nil {
				fmt.Printf("❌ Invalid --base-date %q, expected YYYY-MM-DD\n", *baseDateArg)
				os.Exit(1)
			}
			baseDate = &parsed
		}

		db, err := database.InitDB()
		if err != nil {
			fmt.Printf("❌ Failed to connect to the database: %v\n", err)
			os.Exit(1)
		}
		if err := seeders.EnsureSampleData(db, baseDate); err != nil {
			fmt.Printf("❌ Seeding failed: %v\n", err)
			os.Exit(1)
		}

	case "create-admin":
		adminFlags := flag.NewFlagSet("create-admin", flag.ExitOnError)
		email := adminFlags.String("email", "", "account email (required)")
		password := adminFlags.String("password", "", "account password (required)")
		username := adminFlags.String("username", "", "optional username, defaults to the email")
		if err := adminFlags.Parse(os.Args[2:]); err != nil {
			os.Exit(1)
		}
		if *email == "" || *password == "" {
			fmt.Println("❌ --email and --password are required")
			usage()
			os.Exit(1)
		}

		db, err := database.InitDB()
		if err != nil {
			fmt.Printf("❌ Failed to connect to the database: %v\n", err)
			os.Exit(1)
		}
		if err := createAdmin(db, *email, *password, *username); err != nil {
			fmt.Printf("❌ Failed to create admin: %v\n", err)
			os.Exit(1)
		}

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Available commands: migrate, seed, create-admin")
	}
}

// createAdmin gets or creates the account, promotes it to staff and
// superuser, and resets its password.
func createAdmin(db *gorm.DB, email, password, username string) error {
	if username == "" {
		username = email
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	var existing user.User
	err = db.Where("LOWER(email) = LOWER(?)", email).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		existing = user.User{
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			IsStaff:      true,
			IsSuperuser:  true,
		}
		if err := db.Create(&existing).Error; err != nil {
			return err
		}
		fmt.Printf("✅ Created admin account: %s\n", existing.Username)
		return nil
	}
	if err != nil {
		return err
	}

	existing.IsStaff = true
	existing.IsSuperuser = true
	existing.PasswordHash = hash
	if err := db.Save(&existing).Error; err != nil {
		return err
	}
	fmt.Printf("✅ Promoted existing account to admin: %s\n", existing.Username)
	return nil
}
