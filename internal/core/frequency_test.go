package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalendarNext(t *testing.T) {
	cal := DefaultCalendar()
	cases := []struct {
		from Date
		freq Frequency
		want Date
	}{
		{NewDate(2024, 1, 1), Daily, NewDate(2024, 1, 2)},
		{NewDate(2024, 3, 1), Weekly, NewDate(2024, 3, 8)},
		{NewDate(2024, 3, 1), Biweekly, NewDate(2024, 3, 15)},
		{NewDate(2024, 1, 1), Monthly, NewDate(2024, 2, 1)},
		{NewDate(2024, 1, 31), Monthly, NewDate(2024, 2, 29)},
		{NewDate(2023, 1, 31), Monthly, NewDate(2023, 2, 28)},
		{NewDate(2024, 11, 30), Quarterly, NewDate(2025, 2, 28)},
		{NewDate(2024, 8, 31), Biannual, NewDate(2025, 2, 28)},
		{NewDate(2024, 2, 29), Annual, NewDate(2025, 2, 28)},
		{NewDate(2024, 12, 31), Daily, NewDate(2025, 1, 1)},
	}
	for _, tc := range cases {
		t.Run(string(tc.freq)+"/"+tc.from.String(), func(t *testing.T) {
			got, err := cal.Next(tc.from, tc.freq)
			require.NoError(t, err)
			assert.Equal(t, tc.want.String(), got.String())
		})
	}
}

func TestCalendarBiweeklyStep(t *testing.T) {
	from := NewDate(2024, 3, 1)

	legacy, err := LegacyCalendar().Next(from, Biweekly)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", legacy.String(), "legacy calendar advances Biweekly by one week")

	fixed, err := DefaultCalendar().Next(from, Biweekly)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", fixed.String())

	unset, err := Calendar{}.Next(from, Biweekly)
	require.NoError(t, err)
	assert.Equal(t, fixed, unset)

	for _, cal := range []Calendar{LegacyCalendar(), DefaultCalendar()} {
		prev, err := cal.Prev(from, Biweekly)
		require.NoError(t, err)
		assert.Equal(t, "2024-02-16", prev.String())
	}
}

func TestCalendarPrev(t *testing.T) {
	cal := DefaultCalendar()
	got, err := cal.Prev(NewDate(2024, 3, 31), Monthly)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", got.String())

	got, err = cal.Prev(NewDate(2024, 1, 1), Annual)
	require.NoError(t, err)
	assert.Equal(t, "2023-01-01", got.String())
}

func TestUnknownFrequency(t *testing.T) {
	_, err := DefaultCalendar().Next(NewDate(2024, 1, 1), Frequency("Fortnightly"))
	assert.True(t, errors.Is(err, ErrInvalidFrequency))

	_, err = DefaultCalendar().Prev(NewDate(2024, 1, 1), Frequency(""))
	assert.True(t, errors.Is(err, ErrInvalidFrequency))

	_, err = ParseFrequency("hourly")
	assert.True(t, errors.Is(err, ErrInvalidFrequency))

	f, err := ParseFrequency(" monthly ")
	require.NoError(t, err)
	assert.Equal(t, Monthly, f)
}
