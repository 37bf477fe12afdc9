// Package model provides value objects for API parameter validation.
package model

import (
	"fmt"
	"regexp"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Slug represents a URL path segment value object.
// The restricted character set doubles as a guard against path traversal
// when the slug is used to locate content fragments on disk.
type Slug struct {
	value string
}

// NewSlug creates a new slug value object.
func NewSlug(s string) (*Slug, error) {
	if s == "" {
		return nil, fmt.Errorf("slug is required")
	}
	if len(s) > 128 {
		return nil, fmt.Errorf("slug is too long")
	}
	if !slugPattern.MatchString(s) {
		return nil, fmt.Errorf("slug must be lowercase alphanumeric words separated by hyphens")
	}
	return &Slug{value: s}, nil
}

// String returns the slug string.
func (s *Slug) String() string {
	return s.value
}
