package repository

import (
	"context"
	"strings"

	"venue-booking/models/user"

	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, u *user.User) error
	Save(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id uint) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Search(ctx context.Context, query string, limit int) ([]user.User, error)
	Any(ctx context.Context) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) Save(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByUsername matches exactly but case-insensitively.
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("LOWER(username) = ?", strings.ToLower(username)).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	err := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&user.User{}).
		Where("LOWER(email) = ?", strings.ToLower(email)).
		Count(&count).Error
	return count > 0, err
}

// Search does a case-insensitive substring match over username, email and
// both name parts, ordered by username.
func (r *userRepository) Search(ctx context.Context, query string, limit int) ([]user.User, error) {
	var users []user.User
	pattern := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where(
			"username ILIKE ? OR email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ?",
			pattern, pattern, pattern, pattern,
		).
		Order("username ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Any(ctx context.Context) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&user.User{}).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
