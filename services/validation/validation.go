package validation

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	userModel "venue-booking/models/user"
	venueModel "venue-booking/models/venue"
	"venue-booking/repository"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

var validate = validator.New()

// Errors is the field-scoped message list a failed validation produces.
// Validation is all-or-nothing: callers get either a cleaned value set or
// this list, never a partial application.
type Errors []string

func (e Errors) Error() string {
	return strings.Join(e, "; ")
}

// AsErrors unwraps a validation error list, if err is one.
func AsErrors(err error) (Errors, bool) {
	var verrs Errors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}

// Struct runs the validator/v10 tag checks on a request DTO and flattens
// the result into field-scoped messages.
func Struct(req interface{}) Errors {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{err.Error()}
	}

	var msgs Errors
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("This field is required: %s.", strings.ToLower(fe.Field())))
		case "email":
			msgs = append(msgs, "Enter a valid email address.")
		case "max":
			msgs = append(msgs, fmt.Sprintf("Ensure %s has at most %s characters.", strings.ToLower(fe.Field()), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("Invalid value for %s.", strings.ToLower(fe.Field())))
		}
	}
	return msgs
}

// NormalizeEmail lower-cases an address before uniqueness checks and
// storage.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ParseDate parses an ISO calendar date.
func ParseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(dateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}

// ParseDateRange validates a start/end pair. The end date must be on or
// after the start date; the error names the offending field.
func ParseDateRange(start, end string) (time.Time, time.Time, Errors) {
	var msgs Errors

	startDate, err := ParseDate(start)
	if err != nil {
		msgs = append(msgs, "Enter a valid start date (YYYY-MM-DD).")
	}
	endDate, err := ParseDate(end)
	if err != nil {
		msgs = append(msgs, "Enter a valid end date (YYYY-MM-DD).")
	}
	if msgs != nil {
		return time.Time{}, time.Time{}, msgs
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, Errors{"End date must be on or after the start date."}
	}
	return startDate, endDate, nil
}

// ParseRating accepts only whole numbers inside [1,5]. Out-of-range user
// input is rejected, never clamped; clamping is reserved for the seeder's
// internally generated rows.
func ParseRating(value string) (int, Errors) {
	rating, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, Errors{"Rating must be a whole number."}
	}
	if rating < 1 || rating > 5 {
		return 0, Errors{"Rating must be between 1 and 5."}
	}
	return rating, nil
}

// SplitFacilities turns a delimited string into the ordered facilities
// list: split on commas and newlines, trim whitespace, drop empties.
// Duplicates are kept; order is the author's.
func SplitFacilities(raw string) []string {
	normalized := strings.NewReplacer("\r\n", ",", "\n", ",").Replace(raw)
	parts := strings.Split(normalized, ",")

	facilities := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			facilities = append(facilities, trimmed)
		}
	}
	return facilities
}

// ParsePrice accepts a non-negative whole number.
func ParsePrice(value string) (int, Errors) {
	price, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, Errors{"Price must be a whole number."}
	}
	if price < 0 {
		return 0, Errors{"Price must not be negative."}
	}
	return price, nil
}

// ValidateVenueType checks the value against the venue type enum.
func ValidateVenueType(t string) Errors {
	if !venueModel.ValidType(t) {
		return Errors{fmt.Sprintf("Select a valid venue type. %q is not one of the available choices.", t)}
	}
	return nil
}

// ResolveUser turns the booking form's user reference into a user row.
// The explicit id, when present, always wins and skips free-text
// resolution. Free text matches exactly (case-insensitively) against the
// username first, then the email; no match is a field error naming the
// offending input.
func ResolveUser(ctx context.Context, users repository.UserRepository, explicitID *uint, username string) (*userModel.User, Errors) {
	if explicitID != nil {
		u, err := users.FindByID(ctx, *explicitID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, Errors{fmt.Sprintf("No user found with id %d.", *explicitID)}
			}
			return nil, Errors{"Could not look up the selected user."}
		}
		return u, nil
	}

	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return nil, nil
	}

	u, err := users.FindByUsername(ctx, trimmed)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Errors{"Could not look up the selected user."}
	}

	u, err = users.FindByEmail(ctx, trimmed)
	if err == nil {
		return u, nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Errors{fmt.Sprintf("No user found matching %q.", trimmed)}
	}
	return nil, Errors{"Could not look up the selected user."}
}
