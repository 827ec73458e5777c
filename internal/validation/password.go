// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"promptvault/internal/models"
)

// MaxPasswordBytes is the longest input bcrypt hashes without truncation.
const MaxPasswordBytes = 72

var (
	usernamePattern   = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
	settingKeyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{1,64}$`)
)

// ValidatePassword checks that a password is present and hashable.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("password is required")
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must not exceed %d bytes", MaxPasswordBytes)
	}
	return nil
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 2 {
		return fmt.Errorf("username must be at least 2 characters long")
	}
	if n > 30 {
		return fmt.Errorf("username must not exceed 30 characters")
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers, dots, underscores, and hyphens")
	}
	return nil
}

// ValidateDisplayName requires a non-blank name of at most 100 characters.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("display name is required")
	}
	if utf8.RuneCountInString(name) > 100 {
		return fmt.Errorf("display name must not exceed 100 characters")
	}
	return nil
}

// ValidateGender accepts an empty value or one of the known genders.
func ValidateGender(gender string) error {
	switch gender {
	case "", models.GenderMale, models.GenderFemale:
		return nil
	}
	return fmt.Errorf("gender must be %q, %q or empty", models.GenderMale, models.GenderFemale)
}

// ValidateHTTPURL accepts an empty value or an absolute http(s) URL.
func ValidateHTTPURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return fmt.Errorf("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must be an http or https URL")
	}
	return nil
}

// ValidateSettingKey checks a system setting key.
func ValidateSettingKey(key string) error {
	if !settingKeyPattern.MatchString(key) {
		return fmt.Errorf("setting key must be 1-64 characters of letters, numbers, dots, underscores, and hyphens")
	}
	return nil
}
