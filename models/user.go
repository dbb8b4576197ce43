package models

import "time"

// User roles. Trainers own collections and teams; healers run the
// medical board at the care centers.
const (
	RoleTrainer = "TRAINER"
	RoleHealer  = "HEALER"
)

// Gender values shared by collection entries and medical records.
const (
	GenderMale    = "MALE"
	GenderFemale  = "FEMALE"
	GenderUnknown = "UNKNOWN"
)

// User represents an account in the system
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Name         string `json:"name"`
	Role         string `gorm:"not null;default:'TRAINER'" json:"role"`
	Badges       int    `gorm:"default:0" json:"badges"`

	// Relations
	Collections []Collection `gorm:"foreignKey:UserID" json:"collections,omitempty"`
	Teams       []Team       `gorm:"foreignKey:UserID" json:"teams,omitempty"`
}

// IsTrainer reports whether the account can own a collection.
func (u *User) IsTrainer() bool {
	return u.Role == RoleTrainer
}

// IsHealer reports whether the account can manage medical records.
func (u *User) IsHealer() bool {
	return u.Role == RoleHealer
}
