package daterange_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/domain/shared/calendar"
	"stayfinder/internal/domain/shared/daterange"
)

func day(d int) calendar.Date {
	return calendar.New(2023, time.April, d)
}

func mustRange(t *testing.T, checkIn, checkOut calendar.Date) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(checkIn, checkOut)
	require.NoError(t, err)
	return dr
}

func TestNew(t *testing.T) {
	dr := mustRange(t, day(25), day(27))
	assert.Equal(t, day(25), dr.CheckIn)
	assert.Equal(t, day(27), dr.CheckOut)
}

func TestValidate(t *testing.T) {
	cases := map[string]daterange.DateRange{
		"zero check-in":        {CheckOut: day(27)},
		"zero check-out":       {CheckIn: day(25)},
		"both zero":            {},
		"equal dates":          {CheckIn: day(25), CheckOut: day(25)},
		"check-out before":     {CheckIn: day(27), CheckOut: day(25)},
	}
	for name, dr := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, dr.Validate(), daterange.ErrInvalidRange)
			_, err := daterange.New(dr.CheckIn, dr.CheckOut)
			assert.ErrorIs(t, err, daterange.ErrInvalidRange)
		})
	}
}

func TestNights(t *testing.T) {
	assert.Equal(t, 2, mustRange(t, day(25), day(27)).Nights())
	assert.Equal(t, 1, mustRange(t, day(25), day(26)).Nights())
	assert.Equal(t, 6, mustRange(t, calendar.New(2023, time.April, 28), calendar.New(2023, time.May, 4)).Nights())
}

func TestDays(t *testing.T) {
	days := mustRange(t, day(25), day(28)).Days()
	require.Len(t, days, 3)
	assert.Equal(t, []calendar.Date{day(25), day(26), day(27)}, days)

	assert.Nil(t, daterange.DateRange{CheckIn: day(25), CheckOut: day(25)}.Days())
}

func TestOverlaps(t *testing.T) {
	stay := mustRange(t, day(10), day(15))

	assert.True(t, stay.Overlaps(mustRange(t, day(14), day(20))))
	assert.True(t, stay.Overlaps(mustRange(t, day(11), day(12))))
	assert.True(t, stay.Overlaps(mustRange(t, day(5), day(11))))

	// Back-to-back stays share a turnover day but not a night.
	assert.False(t, stay.Overlaps(mustRange(t, day(15), day(20))))
	assert.False(t, stay.Overlaps(mustRange(t, day(5), day(10))))
	assert.False(t, stay.Overlaps(mustRange(t, day(20), day(25))))
}

func TestContainsDate(t *testing.T) {
	stay := mustRange(t, day(10), day(15))
	assert.True(t, stay.ContainsDate(day(10)))
	assert.True(t, stay.ContainsDate(day(14)))
	assert.False(t, stay.ContainsDate(day(15)))
	assert.False(t, stay.ContainsDate(day(9)))
}
