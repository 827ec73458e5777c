package validation

import (
	"strings"
	"unicode/utf8"

	"promptvault/internal/models"
)

// Prompt field limits.
const (
	MinTitleLength       = 3
	MaxTitleLength       = 200
	MinContentLength     = 10
	MinCustomModelLength = 2
)

// PromptInput is the raw, user-editable part of a prompt.
type PromptInput struct {
	Title       string
	Content     string
	Description string
	Model       string
	ModelURL    string
	ImageURL    string
	Category    string
}

// ValidatePrompt returns one message per invalid field, keyed by JSON name.
// A nil map means the input is acceptable.
func ValidatePrompt(in PromptInput) map[string]string {
	errs := map[string]string{}

	title := strings.TrimSpace(in.Title)
	switch {
	case utf8.RuneCountInString(title) < MinTitleLength:
		errs["title"] = "Title must be at least 3 characters long."
	case utf8.RuneCountInString(title) > MaxTitleLength:
		errs["title"] = "Title must not exceed 200 characters."
	}

	if utf8.RuneCountInString(strings.TrimSpace(in.Content)) < MinContentLength {
		errs["content"] = "Prompt content must be at least 10 characters long."
	}

	if model := strings.TrimSpace(in.Model); model != "" {
		ref := models.ParseModelRef(model)
		if !ref.IsKnown() && utf8.RuneCountInString(ref.Custom) < MinCustomModelLength {
			errs["model"] = "Please select or enter a valid AI model."
		}
	}

	if cat := strings.TrimSpace(in.Category); cat != "" {
		if _, ok := models.ParseCategory(cat); !ok {
			errs["category"] = "Please select a valid category."
		}
	}

	if err := ValidateHTTPURL(strings.TrimSpace(in.ModelURL)); err != nil {
		errs["modelUrl"] = "Model URL " + err.Error() + "."
	}
	if err := ValidateHTTPURL(strings.TrimSpace(in.ImageURL)); err != nil {
		errs["imageUrl"] = "Image URL " + err.Error() + "."
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
