package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// StringSlice stores a []string as a single comma-joined text column.
// Used for post tags and chapter admin allow-lists

type StringSlice []string

// Value implements the driver.Valuer interface. Elements may not contain
// commas since that's the join character
func (s StringSlice) Value() (driver.Value, error) {
	if len(s) == 0 {
		return "", nil
	}

	for _, v := range s {
		if strings.Contains(v, ",") {
			return "", fmt.Errorf("unsafe string, %s", v)
		}
	}

	return strings.Join(s, ","), nil
}

// Scan implements the sql.Scanner interface
func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}

	str, ok := value.(string)
	if !ok {
		b, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan StringSlice, %v", value)
		}

		str = string(b)
	}

	if str == "" {
		*s = []string{}
	} else {
		*s = strings.Split(str, ",")
	}

	return nil
}

// Contains does a case-insensitive membership check
func (s StringSlice) Contains(v string) bool {
	for _, e := range s {
		if strings.EqualFold(e, v) {
			return true
		}
	}

	return false
}
