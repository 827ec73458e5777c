package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is a free-text message addressed to the site admins.
type Feedback struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	From      string    `gorm:"column:sender;size:100;not null" json:"from"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for GORM
func (Feedback) TableName() string {
	return "feedback"
}

// BeforeCreate assigns the id.
func (f *Feedback) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// SystemSetting is an admin-managed key/value pair.
type SystemSetting struct {
	Key       string    `gorm:"size:64;primaryKey" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for GORM
func (SystemSetting) TableName() string {
	return "system_settings"
}

// Setting keys read by the web client.
const (
	SettingAdClient    = "adClient"
	SettingAdSlot      = "adSlot"
	SettingAdStatus    = "adStatus"
	SettingFeedbackURL = "feedbackUrl"
)
