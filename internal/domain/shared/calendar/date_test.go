package calendar_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stayfinder/internal/domain/shared/calendar"
)

func TestParse(t *testing.T) {
	d, err := calendar.Parse("2023-04-25")
	require.NoError(t, err)
	assert.Equal(t, calendar.New(2023, time.April, 25), d)
	assert.Equal(t, "2023-04-25", d.String())
}

func TestParseRejectsBadInput(t *testing.T) {
	for _, value := range []string{"", "25-04-2023", "2023-04-25T00:00:00Z", "2023-13-01", "not a date"} {
		_, err := calendar.Parse(value)
		assert.ErrorIs(t, err, calendar.ErrBadDate, "value %q", value)
	}
}

func TestZeroValue(t *testing.T) {
	var d calendar.Date
	assert.True(t, d.IsZero())
	assert.Equal(t, "", d.String())
}

func TestAddDays(t *testing.T) {
	d := calendar.New(2023, time.April, 25)
	assert.Equal(t, calendar.New(2023, time.April, 27), d.AddDays(2))
	assert.Equal(t, calendar.New(2023, time.March, 31), d.AddDays(-25))
	assert.Equal(t, calendar.New(2023, time.May, 1), d.AddDays(6))
}

func TestDaysUntil(t *testing.T) {
	a := calendar.New(2023, time.April, 25)
	b := calendar.New(2023, time.April, 27)
	assert.Equal(t, 2, a.DaysUntil(b))
	assert.Equal(t, -2, b.DaysUntil(a))
	assert.Equal(t, 0, a.DaysUntil(a))

	// Whole-day counts add up across an intermediate date.
	m := calendar.New(2023, time.April, 26)
	assert.Equal(t, a.DaysUntil(b), a.DaysUntil(m)+m.DaysUntil(b))
}

func TestOrdering(t *testing.T) {
	a := calendar.New(2023, time.April, 25)
	b := calendar.New(2023, time.April, 26)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(b))
	assert.True(t, a.Equal(calendar.New(2023, time.April, 25)))
}

func TestFromTimeTruncates(t *testing.T) {
	instant := time.Date(2023, time.April, 25, 17, 42, 3, 0, time.UTC)
	assert.Equal(t, calendar.New(2023, time.April, 25), calendar.FromTime(instant))
	assert.True(t, calendar.FromTime(time.Time{}).IsZero())
}

func TestTextMarshalling(t *testing.T) {
	d := calendar.New(2023, time.April, 25)
	raw, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2023-04-25", string(raw))

	var parsed calendar.Date
	require.NoError(t, parsed.UnmarshalText(raw))
	assert.True(t, d.Equal(parsed))

	var empty calendar.Date
	require.NoError(t, empty.UnmarshalText(nil))
	assert.True(t, empty.IsZero())

	assert.Error(t, parsed.UnmarshalText([]byte("nope")))
}
