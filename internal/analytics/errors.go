package analytics

import "errors"

var (
	// ErrInvalidArgument marks caller mistakes: malformed dates or ids, unknown members.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrArithmeticOverflow is returned when an amount leaves the representable money range.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")
)
