package core

import (
	"fmt"
	"unicode/utf8"
)

// Field constraints for reviews.
const (
	TitleMinLen   = 3
	TitleMaxLen   = 100
	ContentMinLen = 10
)

// validateReview checks the field constraints of a fully-formed review.
// All violations are collected so the boundary can report them together.
func validateReview(r Review) error {
	fields := map[string]string{}

	switch n := utf8.RuneCountInString(r.Title); {
	case n == 0:
		fields["title"] = "Title is required"
	case n < TitleMinLen:
		fields["title"] = fmt.Sprintf("Title must be at least %d characters long", TitleMinLen)
	case n > TitleMaxLen:
		fields["title"] = fmt.Sprintf("Title cannot exceed %d characters", TitleMaxLen)
	}

	switch n := utf8.RuneCountInString(r.Content); {
	case n == 0:
		fields["content"] = "Content is required"
	case n < ContentMinLen:
		fields["content"] = fmt.Sprintf("Content must be at least %d characters long", ContentMinLen)
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
