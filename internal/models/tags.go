package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"promptvault/internal/aggregate"
)

// TagList is an ordered list of short labels.
// It is stored as delimited text so the same schema works on sqlite.
type TagList []string

// NewTagList normalizes tags into a TagList.
func NewTagList(tags ...string) TagList {
	return TagList(aggregate.NormalizeTags(tags))
}

// GormDataType keeps the column a text column on every dialect.
func (TagList) GormDataType() string { return "text" }

// Value implements driver.Valuer.
func (t TagList) Value() (driver.Value, error) {
	return aggregate.JoinTags(t), nil
}

// Scan implements sql.Scanner.
func (t *TagList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = TagList{}
	case string:
		*t = aggregate.ParseTags(v)
	case []byte:
		*t = aggregate.ParseTags(string(v))
	default:
		return fmt.Errorf("models: cannot scan %T into TagList", src)
	}
	return nil
}

// MarshalJSON always emits an array, never null.
func (t TagList) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON accepts either a JSON array or a comma-separated string.
func (t *TagList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*t = NewTagList(list...)
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("tags must be an array or a comma separated string")
	}
	*t = TagList(aggregate.ParseTags(raw))
	return nil
}
