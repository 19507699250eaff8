package constants

// Pagination defaults for the admin listings. The default is deliberately
// far below the cap: the panel shows six cards per page.
const (
	DefaultPageSize = 6
	MaxPageSize     = 50

	// UserSearchLimit caps the staff user quick-search result set.
	UserSearchLimit = 10
)

// Session cookie names.
const (
	AccessCookie = "access"
)
