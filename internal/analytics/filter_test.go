package analytics

import (
	"testing"

	"trading-journal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilter(t *testing.T) {
	testCases := []struct {
		name      string
		member    string
		start     string
		end       string
		wantErr   bool
		wantEmpty bool
	}{
		{name: "All empty", wantEmpty: true},
		{name: "Member and range", member: "1", start: "2024-01-01", end: "2024-01-31"},
		{name: "Whitespace trimmed", member: " 2 ", start: " 2024-01-01 "},
		{name: "Zero member", member: "0", wantErr: true},
		{name: "Negative member", member: "-1", wantErr: true},
		{name: "Non numeric member", member: "abc", wantErr: true},
		{name: "Malformed start", start: "2024/01/01", wantErr: true},
		{name: "Impossible end", end: "2024-02-30", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := ParseFilter(tc.member, tc.start, tc.end)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			if tc.wantEmpty {
				assert.Equal(t, Filter{}, f)
			}
		})
	}

	t.Run("ParsedValues", func(t *testing.T) {
		f, err := ParseFilter("7", "2024-01-01", "2024-01-31")
		require.NoError(t, err)
		require.NotNil(t, f.MemberID)
		assert.Equal(t, uint(7), *f.MemberID)
		assert.Equal(t, date("2024-01-01"), *f.StartDate)
		assert.Equal(t, date("2024-01-31"), *f.EndDate)
		assert.Equal(t, "member=7 range=[2024-01-01, 2024-01-31]", f.String())
	})
}

func TestFilterMatch(t *testing.T) {
	closed := closedTrade(1, 1, "INFY", "2024-01-01", "10", 1, "2024-01-15", "11")
	open := openTrade(2, 1, "HDFC", "2024-01-01", "10", 1)

	testCases := []struct {
		name   string
		filter Filter
		trade  models.Trade
		want   bool
	}{
		{name: "Empty filter matches closed", filter: Filter{}, trade: closed, want: true},
		{name: "Empty filter matches open", filter: Filter{}, trade: open, want: true},
		{name: "Other member", filter: Filter{MemberID: uintPtr(2)}, trade: closed, want: false},
		{name: "Same member", filter: Filter{MemberID: uintPtr(1)}, trade: closed, want: true},
		{name: "Start inclusive", filter: Filter{StartDate: datePtr("2024-01-15")}, trade: closed, want: true},
		{name: "End inclusive", filter: Filter{EndDate: datePtr("2024-01-15")}, trade: closed, want: true},
		{name: "Before start", filter: Filter{StartDate: datePtr("2024-01-16")}, trade: closed, want: false},
		{name: "After end", filter: Filter{EndDate: datePtr("2024-01-14")}, trade: closed, want: false},
		{name: "Entry date ignored", filter: Filter{StartDate: datePtr("2024-01-10")}, trade: closed, want: true},
		{name: "Open trade excluded by date bound", filter: Filter{StartDate: datePtr("2023-01-01")}, trade: open, want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Match(&tc.trade))
		})
	}
}

func TestFilterInverted(t *testing.T) {
	assert.False(t, Filter{}.Inverted())
	assert.False(t, Filter{StartDate: datePtr("2024-02-01")}.Inverted())
	assert.False(t, Filter{StartDate: datePtr("2024-02-01"), EndDate: datePtr("2024-02-01")}.Inverted())

	inverted := Filter{StartDate: datePtr("2024-02-01"), EndDate: datePtr("2024-01-01")}
	assert.True(t, inverted.Inverted())
	assert.Empty(t, inverted.Apply(exampleLedger()))
}

func TestFilterApply(t *testing.T) {
	trades := exampleLedger()
	got := Filter{MemberID: uintPtr(1), StartDate: datePtr("2024-01-01"), EndDate: datePtr("2024-01-31")}.Apply(trades)
	require.Len(t, got, 1)
	assert.Equal(t, uint(1), got[0].ID)

	assert.Len(t, Filter{}.Apply(trades), len(trades))
	assert.Len(t, trades, 4, "input must not be modified")
}

func TestFilterMemberOnly(t *testing.T) {
	f := Filter{MemberID: uintPtr(3), StartDate: datePtr("2024-01-01"), EndDate: datePtr("2024-12-31")}
	m := f.MemberOnly()
	assert.False(t, m.HasDateBounds())
	assert.Equal(t, f.MemberID, m.MemberID)
}
