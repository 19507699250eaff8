package user

import (
	"strings"
	"time"
)

// User is a local account. The email doubles as the username for
// self-service signups; admin provisioning may pick a different username.
type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"type:varchar(150);not null;unique" json:"username"`
	Email        string `gorm:"type:varchar(255);not null;unique" json:"email"`
	FirstName    string `gorm:"type:varchar(150)" json:"first_name"`
	LastName     string `gorm:"type:varchar(150)" json:"last_name"`
	PasswordHash string `gorm:"type:varchar(255);not null" json:"-"`
	IsStaff      bool   `gorm:"type:bool;default:false" json:"is_staff"`
	IsSuperuser  bool   `gorm:"type:bool;default:false" json:"is_superuser"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// FullName joins first and last name, collapsing empty parts.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayName prefers the full name and falls back to the username.
func (u *User) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	return u.Username
}

// CanManage reports whether the user may access staff-only operations.
func (u *User) CanManage() bool {
	return u.IsStaff || u.IsSuperuser
}
