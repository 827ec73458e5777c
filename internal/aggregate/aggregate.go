// Package aggregate holds the pure rules that derive prompt fields from stored rows.
package aggregate

import (
	"math"
	"strings"
)

// TagSeparator is the delimiter used when a tag list is persisted as text.
const TagSeparator = ","

// SummarizeRatings returns the mean of scores rounded to one decimal place
// and the number of scores. An empty set yields (0, 0).
func SummarizeRatings(scores []int) (float64, int) {
	if len(scores) == 0 {
		return 0, 0
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return RoundRating(float64(sum) / float64(len(scores))), len(scores)
}

// RoundRating rounds half away from zero to one decimal place.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}

// ParseTags splits a delimited tag string into a normalized list.
func ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return NormalizeTags(strings.Split(raw, TagSeparator))
}

// NormalizeTags trims entries, drops empties and removes case-insensitive
// duplicates. First-seen order and spelling win.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		// the separator can never round-trip inside a tag
		t = strings.TrimSpace(strings.ReplaceAll(t, TagSeparator, " "))
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

// JoinTags encodes a tag list for a text column.
func JoinTags(tags []string) string {
	return strings.Join(NormalizeTags(tags), TagSeparator)
}
