package models

import "time"

// Favorite marks that a user bookmarked a prompt. Existence is the state.
type Favorite struct {
	UserID    string    `gorm:"type:varchar(36);primaryKey" json:"userId"`
	PromptID  string    `gorm:"type:varchar(36);primaryKey;index" json:"promptId"`
	CreatedAt time.Time `json:"createdAt"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Prompt Prompt `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Favorite) TableName() string {
	return "favorites"
}

// Rating bounds.
const (
	MinRating = 1
	MaxRating = 5
)

// PromptRating is one user's score for one prompt. Resubmission overwrites it.
type PromptRating struct {
	UserID    string    `gorm:"type:varchar(36);primaryKey" json:"userId"`
	PromptID  string    `gorm:"type:varchar(36);primaryKey;index" json:"promptId"`
	Score     int       `gorm:"not null;check:chk_prompt_ratings_score,score >= 1 AND score <= 5" json:"score"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Prompt Prompt `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (PromptRating) TableName() string {
	return "prompt_ratings"
}

// InteractionKind names a counted prompt interaction.
type InteractionKind string

const (
	InteractionView InteractionKind = "view"
	InteractionCopy InteractionKind = "copy"
)

// CounterColumn returns the prompts column the kind increments.
func (k InteractionKind) CounterColumn() string {
	if k == InteractionCopy {
		return "copy_count"
	}
	return "view_count"
}

// Valid reports whether k is a known kind.
func (k InteractionKind) Valid() bool {
	return k == InteractionView || k == InteractionCopy
}

// PromptInteraction records that a signed-in user already counted a view or copy.
type PromptInteraction struct {
	UserID    string          `gorm:"type:varchar(36);primaryKey" json:"userId"`
	PromptID  string          `gorm:"type:varchar(36);primaryKey;index" json:"promptId"`
	Kind      InteractionKind `gorm:"type:varchar(10);primaryKey" json:"kind"`
	CreatedAt time.Time       `json:"createdAt"`

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Prompt Prompt `gorm:"foreignKey:PromptID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (PromptInteraction) TableName() string {
	return "prompt_interactions"
}
