// Package prompt contains the prompt model and its tag helpers.
package prompt

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrTitleEmpty = errors.New("title cannot be empty")
	ErrInvalidID  = errors.New("invalid prompt id")
)

// Prompt is a stored text snippet as read back from the store.
type Prompt struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Tags      []string   `json:"tags"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	LastUsed  *time.Time `json:"last_used,omitempty"`
	SortOrder int64      `json:"sort_order"`
}

// Input is the write shape of a prompt. Tags is the raw, whitespace-joined
// tag string; formatting it is the caller's job.
type Input struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// Input returns the write shape of p.
func (p *Prompt) Input() Input {
	return Input{
		Title:   p.Title,
		Content: p.Content,
		Tags:    JoinTags(p.Tags),
	}
}

// HasTag reports whether p carries tag t, ignoring case.
func (p *Prompt) HasTag(t string) bool {
	for _, tag := range p.Tags {
		if strings.EqualFold(tag, t) {
			return true
		}
	}

	return false
}

// ParseTags splits a raw tags field on whitespace.
func ParseTags(s string) []string {
	tags := strings.Fields(s)
	if tags == nil {
		return []string{}
	}

	return tags
}

// JoinTags joins tags into the raw form stored in the database.
func JoinTags(tags []string) string {
	return strings.Join(tags, " ")
}

// Validate checks the fields a user must provide.
func Validate(in Input) error {
	if strings.TrimSpace(in.Title) == "" {
		return ErrTitleEmpty
	}

	return nil
}
