package validators

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	ErrNameTooShort = errors.New("name must be at least 2 characters long")
	ErrNameTooLong  = errors.New("name is too long")
)

func NameValidator(n string) error {
	n = strings.TrimSpace(n)

	if utf8.RuneCountInString(n) < 2 {
		return ErrNameTooShort
	}

	if utf8.RuneCountInString(n) > 100 {
		return ErrNameTooLong
	}

	return nil
}
