package models

import (
	"strings"
	"time"
)

// User represents an account that owns recipes, tags and ingredients.
type User struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Email       string     `json:"email" gorm:"uniqueIndex;type:varchar(254);not null" validate:"required,email,max=254"`
	Name        string     `json:"name" gorm:"type:varchar(255)" validate:"omitempty,max=255"`
	Password    string     `json:"-" gorm:"type:varchar(255)" validate:"required,min=5"` // No json tag for security
	IsActive    bool       `json:"-" gorm:"not null;default:true"`
	IsStaff     bool       `json:"-" gorm:"not null;default:false"`
	IsSuperuser bool       `json:"-" gorm:"not null;default:false"`
	LastLogin   *time.Time `json:"-"`
	CreatedAt   time.Time  `json:"-"`
	UpdatedAt   time.Time  `json:"-"`
}

// NormalizeEmail lower-cases the domain part of an address and keeps the
// local part as given.
func NormalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return email
	}
	return email[:at] + "@" + strings.ToLower(email[at+1:])
}
