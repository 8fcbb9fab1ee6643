package reminder

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaysUntilBirthday(t *testing.T) {
	// Afternoon, to prove time of day is ignored.
	today := time.Date(2024, 6, 10, 17, 45, 0, 0, time.UTC)

	tests := []struct {
		name     string
		birthday string
		want     int
	}{
		{"today", "1990-06-10", 0},
		{"yesterday", "1990-06-09", -1},
		{"three days ago", "1985-06-07", -3},
		{"four days ahead", "2000-06-14", 4},
		{"earlier this year does not wrap", "1990-01-01", -161},
		{"later this year", "1990-12-31", 204},
		{"placeholder year", "1900-06-11", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DaysUntilBirthday(tt.birthday, today)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDaysUntilBirthday_LeapDay(t *testing.T) {
	// 2025 has no Feb 29, so there is nothing to count towards.
	_, err := DaysUntilBirthday("2000-02-29", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrInvalidDate)

	got, err := DaysUntilBirthday("2000-02-29", time.Date(2024, 2, 29, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, got, "leap year keeps Feb 29")

	got, err = DaysUntilBirthday("2000-02-29", time.Date(2028, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, -2, got)
}

func TestDaysUntilBirthday_Unpadded(t *testing.T) {
	got, err := DaysUntilBirthday("1990-6-9", time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, -1, got)
}

func TestDaysUntilBirthday_LocalZone(t *testing.T) {
	// 23:30 in UTC-7 is already the next day in UTC; the local date wins.
	loc := time.FixedZone("UTC-7", -7*60*60)
	today := time.Date(2024, 6, 9, 23, 30, 0, 0, loc)

	got, err := DaysUntilBirthday("1990-06-09", today)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestDaysUntilBirthday_Invalid(t *testing.T) {
	for _, in := range []string{"", "June 9", "1990-13-01", "1990-02-30", "09/06/1990"} {
		_, err := DaysUntilBirthday(in, time.Now())
		assert.ErrorIs(t, err, ErrInvalidDate, in)
	}
}

func TestDaysSinceContact(t *testing.T) {
	today := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)

	got, err := DaysSinceContact("2024-05-01", today)
	require.NoError(t, err)
	assert.Equal(t, 40, got)

	got, err = DaysSinceContact("2024-06-10", today)
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	got, err = DaysSinceContact("2024-06-20", today)
	require.NoError(t, err)
	assert.Equal(t, 0, got, "future dates clamp to zero")

	got, err = DaysSinceContact("", today)
	require.NoError(t, err)
	assert.Equal(t, NeverContacted, got)

	_, err = DaysSinceContact("yesterday", today)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDaysSinceContact_Centuries(t *testing.T) {
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)

	// 1700-01-01 to 2024-01-01 is 324 years with 78 leap days, plus 161 days.
	got, err := DaysSinceContact("1700-01-01", today)
	require.NoError(t, err)
	assert.Equal(t, 324*365+78+161, got)

	got, err = DaysSinceContact("2024-6-1", today)
	require.NoError(t, err)
	assert.Equal(t, 9, got, "unpadded dates parse")
}

func TestDaysSinceContact_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// The spring-forward day is 23 hours long; it still counts as a day.
	today := time.Date(2024, 3, 11, 0, 30, 0, 0, loc)
	got, err := DaysSinceContact("2024-03-10", today)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}
