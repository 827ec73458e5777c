// Package models contains data structures for the application's domain models.
package models

import (
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gender values accepted on a profile. Empty means unspecified.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// User is a registered account.
type User struct {
	ID          string `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username    string `gorm:"size:30;not null" json:"username"`
	UsernameKey string `gorm:"size:30;not null;uniqueIndex:idx_users_username_key" json:"-"`
	DisplayName string `gorm:"size:100;not null" json:"displayName"`
	Bio         string `gorm:"type:text" json:"bio"`
	AvatarURL   string `gorm:"type:text" json:"avatarUrl"`
	// Password holds the bcrypt hash and is never serialized.
	Password     string    `gorm:"not null" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"isAdmin"`
	IsVerified   bool      `gorm:"not null;default:false" json:"isVerified"`
	Gender       string    `gorm:"size:10" json:"gender,omitempty"`
	InstagramURL string    `gorm:"type:text" json:"instagramUrl,omitempty"`
	LinkedinURL  string    `gorm:"type:text" json:"linkedinUrl,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Prompts []Prompt `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"prompts,omitempty"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}

// BeforeCreate assigns the id and lookup key.
func (u *User) BeforeCreate(_ *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.UsernameKey = UsernameKey(u.Username)
	if u.AvatarURL == "" {
		u.AvatarURL = DefaultAvatarURL(u.Username)
	}
	return nil
}

// BeforeSave keeps the lookup key in step with renames.
func (u *User) BeforeSave(_ *gorm.DB) error {
	if u.Username != "" {
		u.UsernameKey = UsernameKey(u.Username)
	}
	return nil
}

// UsernameKey is the case-insensitive identity of a username.
func UsernameKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// DefaultAvatarURL builds the generated avatar used when none is supplied.
func DefaultAvatarURL(username string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + url.QueryEscape(strings.TrimSpace(username))
}
