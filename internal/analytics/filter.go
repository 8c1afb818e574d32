package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"trading-journal/internal/models"
)

// DateLayout is the ISO calendar date format used at every boundary.
const DateLayout = time.DateOnly

// Filter scopes an analytics request. Nil fields are unbounded.
// Date bounds are inclusive and apply to a trade's exit date.
type Filter struct {
	MemberID  *uint
	StartDate *time.Time
	EndDate   *time.Time
}

// ParseFilter builds a Filter from raw request values. Empty strings mean "unset".
func ParseFilter(memberID, startDate, endDate string) (Filter, error) {
	var f Filter

	id, err := ParseMemberID(memberID)
	if err != nil {
		return Filter{}, err
	}
	f.MemberID = id

	if f.StartDate, err = ParseDate(startDate); err != nil {
		return Filter{}, fmt.Errorf("start_date: %w", err)
	}
	if f.EndDate, err = ParseDate(endDate); err != nil {
		return Filter{}, fmt.Errorf("end_date: %w", err)
	}
	return f, nil
}

// ParseMemberID parses an optional member id.
func ParseMemberID(s string) (*uint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 0)
	if err != nil || n == 0 {
		return nil, fmt.Errorf("%w: malformed member id %q", ErrInvalidArgument, s)
	}
	id := uint(n)
	return &id, nil
}

// ParseDate parses an optional YYYY-MM-DD date into UTC midnight.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed date %q, expected YYYY-MM-DD", ErrInvalidArgument, s)
	}
	return &t, nil
}

// Day truncates t to its calendar date, expressed as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Inverted reports whether the range is empty because start is after end.
func (f Filter) Inverted() bool {
	return f.StartDate != nil && f.EndDate != nil && Day(*f.StartDate).After(Day(*f.EndDate))
}

// MemberOnly drops the date bounds.
func (f Filter) MemberOnly() Filter {
	return Filter{MemberID: f.MemberID}
}

// HasDateBounds reports whether either side of the range is set.
func (f Filter) HasDateBounds() bool {
	return f.StartDate != nil || f.EndDate != nil
}

// Match reports whether t belongs to the filtered set. When a date bound is
// set only closed trades can match, since open trades have no exit date.
func (f Filter) Match(t *models.Trade) bool {
	if f.MemberID != nil && t.MemberID != *f.MemberID {
		return false
	}
	if !f.HasDateBounds() {
		return true
	}
	if t.SellDate == nil {
		return false
	}
	exit := Day(*t.SellDate)
	if f.StartDate != nil && exit.Before(Day(*f.StartDate)) {
		return false
	}
	if f.EndDate != nil && exit.After(Day(*f.EndDate)) {
		return false
	}
	return true
}

// Apply returns the trades that match f, preserving order.
func (f Filter) Apply(trades []models.Trade) []models.Trade {
	if f.Inverted() {
		return nil
	}
	out := make([]models.Trade, 0, len(trades))
	for i := range trades {
		if f.Match(&trades[i]) {
			out = append(out, trades[i])
		}
	}
	return out
}

// String renders the filter for logs.
func (f Filter) String() string {
	member, start, end := "all", "-", "-"
	if f.MemberID != nil {
		member = strconv.FormatUint(uint64(*f.MemberID), 10)
	}
	if f.StartDate != nil {
		start = f.StartDate.Format(DateLayout)
	}
	if f.EndDate != nil {
		end = f.EndDate.Format(DateLayout)
	}
	return fmt.Sprintf("member=%s range=[%s, %s]", member, start, end)
}
