package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidatePassword(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"Valid", "hunter2", false},
		{"Single Char", "x", false},
		{"Exactly Max Bytes", strings.Repeat("a", 72), false},
		{"Empty", "", true},
		{"Over Max Bytes", strings.Repeat("a", 73), true},
		// 25 three-byte runes is 75 bytes
		{"Multibyte Over Limit", strings.Repeat("€", 25), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUsername(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		username string
		wantErr  bool
	}{
		{"Valid", "test_user123", false},
		{"Two Chars", "al", false},
		{"Dots And Dashes", "j.doe-99", false},
		{"Max Length", strings.Repeat("a", 30), false},
		{"Too Short", "a", true},
		{"Too Long", strings.Repeat("a", 31), true},
		{"Illegal Chars", "user@123", true},
		{"Space", "john doe", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateGender(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateGender(""))
	assert.NoError(t, ValidateGender("male"))
	assert.NoError(t, ValidateGender("female"))
	assert.Error(t, ValidateGender("Male"))
	assert.Error(t, ValidateGender("other"))
}

func TestValidateHTTPURL(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw     string
		wantErr bool
	}{
		{"", false},
		{"https://instagram.com/alice", false},
		{"http://example.com", false},
		{"ftp://example.com/file", true},
		{"javascript:alert(1)", true},
		{"/relative/path", true},
		{"not a url", true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			err := ValidateHTTPURL(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSettingKey(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateSettingKey("adClient"))
	assert.NoError(t, ValidateSettingKey("feature.flag-1_x"))
	assert.NoError(t, ValidateSettingKey(strings.Repeat("k", 64)))
	assert.Error(t, ValidateSettingKey(""))
	assert.Error(t, ValidateSettingKey(strings.Repeat("k", 65)))
	assert.Error(t, ValidateSettingKey("bad key"))
	assert.Error(t, ValidateSettingKey("../etc"))
}

func TestValidateDisplayName(t *testing.T) {
	t.Parallel()
	assert.NoError(t, ValidateDisplayName("Alice"))
	assert.Error(t, ValidateDisplayName("   "))
	assert.Error(t, ValidateDisplayName(strings.Repeat("n", 101)))
}
