package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, time.May, 20, 15, 30, 0, 0, time.UTC)

	testCases := []struct {
		preset    string
		wantStart *time.Time
		wantEnd   *time.Time
		wantErr   bool
	}{
		{preset: ""},
		{preset: "ALL"},
		{preset: "all"},
		{preset: "1Y", wantStart: datePtr("2023-05-20")},
		{preset: "6M", wantStart: datePtr("2023-11-20")},
		{preset: "3m", wantStart: datePtr("2024-02-20")},
		{preset: "2024-02", wantStart: datePtr("2024-02-01"), wantEnd: datePtr("2024-02-29")},
		{preset: "2023-12", wantStart: datePtr("2023-12-01"), wantEnd: datePtr("2023-12-31")},
		{preset: "2W", wantErr: true},
		{preset: "2024-13", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.preset, func(t *testing.T) {
			start, end, err := ResolveRange(tc.preset, now, nil)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantEnd, end)
		})
	}
}

func TestResolveRangeUsesLocation(t *testing.T) {
	// 20:00 UTC on May 20 is already May 21 in Kolkata.
	now := time.Date(2024, time.May, 20, 20, 0, 0, 0, time.UTC)
	kolkata := time.FixedZone("IST", 5*3600+1800)

	start, _, err := ResolveRange(RangeThreeMonths, now, kolkata)
	require.NoError(t, err)
	assert.Equal(t, datePtr("2024-02-21"), start)
}

func TestFilterWithRange(t *testing.T) {
	now := time.Date(2024, time.May, 20, 0, 0, 0, 0, time.UTC)

	f, err := Filter{MemberID: uintPtr(1)}.WithRange("2024-01", now, nil)
	require.NoError(t, err)
	assert.Equal(t, uintPtr(1), f.MemberID)
	assert.Equal(t, datePtr("2024-01-01"), f.StartDate)
	assert.Equal(t, datePtr("2024-01-31"), f.EndDate)

	explicit := Filter{EndDate: datePtr("2023-06-30")}
	f, err = explicit.WithRange("3M", now, nil)
	require.NoError(t, err)
	assert.Nil(t, f.StartDate)
	assert.Equal(t, explicit.EndDate, f.EndDate)

	_, err = Filter{}.WithRange("forever", now, nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
