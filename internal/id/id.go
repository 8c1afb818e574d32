// Package id issues request identifiers.
package id

import (
	"time"

	"github.com/oklog/ulid/v2"
)

// New returns a ULID string. IDs issued by one process sort by issue time.
func New() string {
	return ulid.Make().String()
}

// Parse validates s as a ULID and returns the time it was issued.
func Parse(s string) (time.Time, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(u.Time()), nil
}

// Valid reports whether s is a well-formed ULID.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}
