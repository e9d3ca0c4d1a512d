package validators

import (
	"errors"
	"strings"
	"unicode/utf8"

	"cascadia/chapter-api/model"
)

var (
	ErrTitleTooShort       = errors.New("title must be at least 5 characters long")
	ErrTitleTooLong        = errors.New("title is too long")
	ErrDescriptionTooShort = errors.New("description must be at least 20 characters long")
	ErrDescriptionTooLong  = errors.New("description is too long")
	ErrInvalidPostType     = errors.New("type must be REQUEST or OFFERING")
	ErrInvalidCategory     = errors.New("unknown category")
	ErrTooManyTags         = errors.New("a post can have at most 10 tags")
	ErrInvalidTag          = errors.New("tags must be 1-30 characters and can't contain commas")
)

func TitleValidator(t string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(t))

	if n < 5 {
		return ErrTitleTooShort
	}

	if n > 200 {
		return ErrTitleTooLong
	}

	return nil
}

func DescriptionValidator(d string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(d))

	if n < 20 {
		return ErrDescriptionTooShort
	}

	if n > 5000 {
		return ErrDescriptionTooLong
	}

	return nil
}

func PostTypeValidator(t string) error {
	switch model.PostType(t) {
	case model.PostTypeRequest, model.PostTypeOffering:
		return nil
	default:
		return ErrInvalidPostType
	}
}

func CategoryValidator(c string) error {
	if !model.ValidCategory(c) {
		return ErrInvalidCategory
	}

	return nil
}

func TagsValidator(tags []string) error {
	if len(tags) > 10 {
		return ErrTooManyTags
	}

	for _, t := range tags {
		n := utf8.RuneCountInString(t)
		if n < 1 || n > 30 || strings.Contains(t, ",") {
			return ErrInvalidTag
		}
	}

	return nil
}
