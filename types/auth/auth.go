package auth

// LoginRequest authenticates by email or username. The field is called
// email because that is what the login form labels it, but free-text
// usernames are accepted too.
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// SignupRequest creates a local account. The email becomes the username;
// the full name is split at the first space into first/last name.
type SignupRequest struct {
	FullName  string `json:"full_name" form:"full_name" validate:"required,max=150"`
	Email     string `json:"email" form:"email" validate:"required,email"`
	Password1 string `json:"password1" form:"password1" validate:"required"`
	Password2 string `json:"password2" form:"password2" validate:"required"`
}
