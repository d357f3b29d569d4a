package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role values stored in position_title.
const (
	RoleTherapist = "therapist"
	RoleAdmin     = "admin"
)

type User struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Firstname      string    `gorm:"type:varchar(255);not null" json:"firstname"`
	Lastname       string    `gorm:"type:varchar(255);not null" json:"lastname"`
	Email          string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password       string    `gorm:"type:varchar(255);not null" json:"-"`
	PositionTitle  string    `gorm:"type:varchar(20);not null;default:'therapist'" json:"position_title"`
	Specialization string    `gorm:"type:varchar(255)" json:"specialization"`
	Approved       bool      `gorm:"not null;default:false" json:"approved"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate assigns a UUID primary key so user IDs stay compatible
// with externally provisioned identities.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *User) IsAdmin() bool {
	return u.PositionTitle == RoleAdmin
}
