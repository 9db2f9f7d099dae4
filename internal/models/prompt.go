// ABOUTME: Prompt model representing one entry of the prompt library.
// ABOUTME: Provides field limits, trimming, and rating clamping helpers.

package models

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLen   = 80
	MaxContentLen = 8000
	MinRating     = 0
	MaxRating     = 5
)

// Prompt is a single library record. Timestamps are epoch milliseconds.
type Prompt struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
	Rating    int    `json:"rating"`
}

// NewPrompt builds an unrated prompt stamped with the given time.
// Callers are expected to pass already trimmed title and content.
func NewPrompt(id, title, content string, nowMillis int64) Prompt {
	return Prompt{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: nowMillis,
		UpdatedAt: nowMillis,
		Rating:    0,
	}
}

// Valid reports whether the record could live in the store.
func (p Prompt) Valid() bool {
	return p.ID != "" &&
		strings.TrimSpace(p.Title) != "" &&
		strings.TrimSpace(p.Content) != "" &&
		utf8.RuneCountInString(p.Title) <= MaxTitleLen &&
		utf8.RuneCountInString(p.Content) <= MaxContentLen &&
		p.Rating >= MinRating && p.Rating <= MaxRating &&
		p.UpdatedAt >= p.CreatedAt
}

// TrimTitle trims whitespace and truncates to MaxTitleLen runes.
func TrimTitle(s string) string {
	return Truncate(strings.TrimSpace(s), MaxTitleLen)
}

// TrimContent trims whitespace and truncates to MaxContentLen runes.
func TrimContent(s string) string {
	return Truncate(strings.TrimSpace(s), MaxContentLen)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// ClampRating forces a rating into [MinRating, MaxRating].
func ClampRating(n int) int {
	if n < MinRating {
		return MinRating
	}
	if n > MaxRating {
		return MaxRating
	}
	return n
}
