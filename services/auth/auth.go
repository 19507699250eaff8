package auth

import (
	"context"
	"errors"
	"strings"

	userModel "venue-booking/models/user"
	"venue-booking/repository"
	"venue-booking/services/validation"
	authTypes "venue-booking/types/auth"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is deliberately generic: login failures never
// reveal whether the identifier or the password was wrong.
var ErrInvalidCredentials = errors.New("invalid login credentials")

type AuthService interface {
	Signup(ctx context.Context, req authTypes.SignupRequest) (*userModel.User, error)
	Login(ctx context.Context, identifier, password string) (*userModel.User, error)
}

type authService struct {
	users  repository.UserRepository
	policy validation.PasswordPolicy
}

func NewAuthService(users repository.UserRepository, policy validation.PasswordPolicy) AuthService {
	if policy == nil {
		policy = validation.DefaultPasswordPolicy{}
	}
	return &authService{users: users, policy: policy}
}

// Signup validates the form as a whole and creates the account. The email
// becomes the username; the full name splits at the first space.
func (s *authService) Signup(ctx context.Context, req authTypes.SignupRequest) (*userModel.User, error) {
	var msgs validation.Errors
	msgs = append(msgs, validation.Struct(req)...)

	email := validation.NormalizeEmail(req.Email)
	if email != "" {
		exists, err := s.users.EmailExists(ctx, email)
		if err != nil {
			return nil, err
		}
		if exists {
			msgs = append(msgs, "An account with this email already exists.")
		}
	}

	fullName := strings.TrimSpace(req.FullName)
	firstName := fullName
	lastName := ""
	if idx := strings.Index(fullName, " "); idx >= 0 {
		firstName = fullName[:idx]
		lastName = fullName[idx+1:]
	}

	if req.Password1 != "" {
		msgs = append(msgs, s.policy.Validate(req.Password1, []string{fullName, email})...)
	}

	// Byte-for-byte comparison, no normalization.
	if req.Password1 != "" && req.Password2 != "" && req.Password1 != req.Password2 {
		msgs = append(msgs, "Passwords do not match.")
	}

	if msgs != nil {
		return nil, msgs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password1), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	newUser := &userModel.User{
		Username:     email,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, newUser); err != nil {
		return nil, err
	}
	return newUser, nil
}

// Login accepts an email or a username as the identifier. An email match
// is tried first and its account's username used, mirroring the login
// form which labels the field "email" but accepts both. Blank fields get
// their own messages before any lookup happens.
func (s *authService) Login(ctx context.Context, identifier, password string) (*userModel.User, error) {
	var msgs validation.Errors
	if strings.TrimSpace(identifier) == "" {
		msgs = append(msgs, "Please enter your email or username.")
	}
	if password == "" {
		msgs = append(msgs, "Please enter your password.")
	}
	if msgs != nil {
		return nil, msgs
	}

	candidate, err := s.users.FindByEmail(ctx, identifier)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		candidate, err = s.users.FindByUsername(ctx, identifier)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
	}

	if bcrypt.CompareHashAndPassword([]byte(candidate.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return candidate, nil
}

// HashPassword is shared with the admin provisioning tool.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
