package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Category classifies a prompt by use case.
type Category string

const (
	CategoryCoding          Category = "Coding"
	CategoryWriting         Category = "Writing"
	CategoryImageGeneration Category = "Image Generation"
	CategoryVideoGeneration Category = "Video Generation"
	CategoryDataAnalysis    Category = "Data Analysis"
	CategoryMarketing       Category = "Marketing"
	CategoryEducation       Category = "Education"
	CategoryBusiness        Category = "Business"
	CategorySEO             Category = "SEO"
	CategorySocialMedia     Category = "Social Media"
	CategoryProductivity    Category = "Productivity"
	CategoryHealth          Category = "Health"
	CategoryFinance         Category = "Finance"
	CategoryLegal           Category = "Legal"
	CategoryCreative        Category = "Creative"
	CategoryGaming          Category = "Gaming"
	CategoryOther           Category = "Other"
)

var categories = []Category{
	CategoryCoding, CategoryWriting, CategoryImageGeneration, CategoryVideoGeneration,
	CategoryDataAnalysis, CategoryMarketing, CategoryEducation, CategoryBusiness,
	CategorySEO, CategorySocialMedia, CategoryProductivity, CategoryHealth,
	CategoryFinance, CategoryLegal, CategoryCreative, CategoryGaming, CategoryOther,
}

// Categories returns every supported category in display order.
func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

// ParseCategory resolves a category label case-insensitively.
func ParseCategory(raw string) (Category, bool) {
	raw = strings.TrimSpace(raw)
	for _, c := range categories {
		if strings.EqualFold(string(c), raw) {
			return c, true
		}
	}
	return "", false
}

// KnownModel is an AI model label the catalog recognizes.
type KnownModel string

const (
	ModelGemini25Flash    KnownModel = "Gemini 2.5 Flash"
	ModelGemini3Pro       KnownModel = "Gemini 3 Pro"
	ModelGemini15Pro      KnownModel = "Gemini 1.5 Pro"
	ModelGemini15Flash    KnownModel = "Gemini 1.5 Flash"
	ModelGPT4Turbo        KnownModel = "GPT-4 Turbo"
	ModelGPT4o            KnownModel = "GPT-4o"
	ModelGPT35            KnownModel = "GPT-3.5"
	ModelClaude3Opus      KnownModel = "Claude 3 Opus"
	ModelClaude35Sonnet   KnownModel = "Claude 3.5 Sonnet"
	ModelClaude3Haiku     KnownModel = "Claude 3 Haiku"
	ModelLlama370B        KnownModel = "Llama 3 70B"
	ModelLlama38B         KnownModel = "Llama 3 8B"
	ModelMistralLarge     KnownModel = "Mistral Large"
	ModelImagen3          KnownModel = "Imagen 3"
	ModelMidjourneyV6     KnownModel = "Midjourney v6"
	ModelDallE3           KnownModel = "DALL-E 3"
	ModelStableDiffusion3 KnownModel = "Stable Diffusion 3"
	ModelVeo              KnownModel = "Veo"
	ModelSora             KnownModel = "Sora"
	ModelGrok15           KnownModel = "Grok 1.5"
	ModelOther            KnownModel = "Other"
)

var knownModels = []KnownModel{
	ModelGemini25Flash, ModelGemini3Pro, ModelGemini15Pro, ModelGemini15Flash,
	ModelGPT4Turbo, ModelGPT4o, ModelGPT35, ModelClaude3Opus, ModelClaude35Sonnet,
	ModelClaude3Haiku, ModelLlama370B, ModelLlama38B, ModelMistralLarge, ModelImagen3,
	ModelMidjourneyV6, ModelDallE3, ModelStableDiffusion3, ModelVeo, ModelSora,
	ModelGrok15, ModelOther,
}

// KnownModels returns the model catalog in display order.
func KnownModels() []KnownModel {
	out := make([]KnownModel, len(knownModels))
	copy(out, knownModels)
	return out
}

// ModelRef is either a catalog model or a free-text custom label.
// Exactly one of Known and Custom is set, or neither for "no model".
type ModelRef struct {
	Known  KnownModel
	Custom string
}

// ParseModelRef maps raw input onto the catalog when it matches a known
// label (ignoring case) and keeps it as a custom label otherwise.
func ParseModelRef(raw string) ModelRef {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ModelRef{}
	}
	for _, m := range knownModels {
		if strings.EqualFold(string(m), raw) {
			return ModelRef{Known: m}
		}
	}
	return ModelRef{Custom: raw}
}

func (m ModelRef) IsZero() bool  { return m.Known == "" && m.Custom == "" }
func (m ModelRef) IsKnown() bool { return m.Known != "" }

// String returns the display label.
func (m ModelRef) String() string {
	if m.Known != "" {
		return string(m.Known)
	}
	return m.Custom
}

// GormDataType keeps the column a plain string.
func (ModelRef) GormDataType() string { return "string" }

// Value implements driver.Valuer.
func (m ModelRef) Value() (driver.Value, error) {
	if m.IsZero() {
		return nil, nil
	}
	return m.String(), nil
}

// Scan implements sql.Scanner.
func (m *ModelRef) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = ModelRef{}
	case string:
		*m = ParseModelRef(v)
	case []byte:
		*m = ParseModelRef(string(v))
	default:
		return fmt.Errorf("models: cannot scan %T into ModelRef", src)
	}
	return nil
}

// MarshalJSON emits the display label, or null when unset.
func (m ModelRef) MarshalJSON() ([]byte, error) {
	if m.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a label string or null.
func (m *ModelRef) UnmarshalJSON(b []byte) error {
	var raw *string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("model must be a string: %w", err)
	}
	if raw == nil {
		*m = ModelRef{}
		return nil
	}
	*m = ParseModelRef(*raw)
	return nil
}
