package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Prompt is a user-submitted prompt template.
type Prompt struct {
	ID          string   `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string   `gorm:"size:200;not null" json:"title"`
	Content     string   `gorm:"type:text;not null" json:"content"`
	Description string   `gorm:"type:text" json:"description"`
	Model       ModelRef `gorm:"size:100" json:"model"`
	ModelURL    string   `gorm:"type:text" json:"modelUrl,omitempty"`
	ImageURL    string   `gorm:"type:text" json:"imageUrl,omitempty"`
	Category    Category `gorm:"size:40;not null;default:'Other';index" json:"category"`
	Tags        TagList  `gorm:"type:text" json:"tags"`
	AuthorID    string   `gorm:"type:varchar(36);not null;index" json:"authorId"`
	Author      *User    `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	// Counters only ever move up, through atomic increments.
	ViewCount int64 `gorm:"not null;default:0" json:"viewCount"`
	CopyCount int64 `gorm:"not null;default:0" json:"copyCount"`

	// Rating is the rounded mean of prompt_ratings; it is rewritten on every submission.
	Rating      float64 `gorm:"not null;default:0" json:"rating"`
	RatingCount int     `gorm:"not null;default:0" json:"ratingCount"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// FavoriteCount is not persisted; computed at query time
	FavoriteCount int64 `gorm:"->;-:migration" json:"favoriteCount"`
	// IsFavorited is not persisted; computed for the viewer at query time
	IsFavorited bool `gorm:"->;-:migration" json:"isFavorited"`
	// UserRating is the viewer's own score, 0 when they have not rated
	UserRating int `gorm:"->;-:migration" json:"userRating"`
}

// TableName specifies the table name for GORM
func (Prompt) TableName() string {
	return "prompts"
}

// BeforeCreate assigns the id and fills defaults.
func (p *Prompt) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Category == "" {
		p.Category = CategoryOther
	}
	if p.Tags == nil {
		p.Tags = TagList{}
	}
	return nil
}
