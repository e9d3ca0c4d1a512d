package validators

import (
	"errors"
	"unicode/utf8"
)

var (
	ErrCommentEmpty   = errors.New("comment can't be empty")
	ErrCommentTooLong = errors.New("comment must be at most 2000 characters long")
)

// CommentValidator expects content that has already been trimmed
func CommentValidator(content string) error {
	n := utf8.RuneCountInString(content)

	if n == 0 {
		return ErrCommentEmpty
	}

	if n > 2000 {
		return ErrCommentTooLong
	}

	return nil
}
