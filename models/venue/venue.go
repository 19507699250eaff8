package venue

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Venue types offered by the booking panel.
const (
	TypeTennis     = "Tennis"
	TypeBadminton  = "Badminton"
	TypeBasket     = "Basket"
	TypeSepakBola  = "Sepak Bola"
	TypeMiniSoccer = "Mini Soccer"
	TypeFutsal     = "Futsal"
	TypeBilliard   = "Billiard"
	TypeTenisMeja  = "Tenis Meja"
	TypeVollyBall  = "Volly Ball"
)

// Types lists every valid venue type, in display order.
var Types = []string{
	TypeTennis,
	TypeBadminton,
	TypeBasket,
	TypeSepakBola,
	TypeMiniSoccer,
	TypeFutsal,
	TypeBilliard,
	TypeTenisMeja,
	TypeVollyBall,
}

// ValidType reports whether t is one of the known venue types.
func ValidType(t string) bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

// Venue is a bookable resource managed through the admin panel.
type Venue struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Type        string     `gorm:"type:varchar(20);not null;default:'Tennis'" json:"type"`
	Description string     `gorm:"type:text;not null" json:"description"`
	Facilities  Facilities `gorm:"type:json" json:"facilities"`
	Price       int        `gorm:"not null;check:price >= 0" json:"price"`
	Location    string     `gorm:"type:varchar(255);not null" json:"location"`
	Image       string     `gorm:"type:varchar(2048)" json:"image"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Facilities is an ordered list of free-text amenity labels, persisted
// as a JSON column.
type Facilities []string

// Scan implements the Scanner interface for database deserialization.
func (f *Facilities) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("type assertion to []byte failed")
	}

	return json.Unmarshal(bytes, f)
}

// Value implements the driver Valuer interface for database serialization.
func (f Facilities) Value() (driver.Value, error) {
	if f == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(f)
}
