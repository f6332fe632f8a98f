package datetime

import (
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/parsedate/plugin/datetime/calendar"
	"github.com/hrygo/parsedate/plugin/datetime/items"
	"github.com/hrygo/parsedate/server/timezone"
)

// testNow is a Wednesday.
var testNow = time.Date(2024, time.January, 17, 14, 30, 45, 500_000_000, time.UTC)

func date(y int, m time.Month, d, hh, mm, ss, ns int) time.Time {
	return time.Date(y, m, d, hh, mm, ss, ns, time.UTC)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		// No items: beginning of today.
		{"", date(2024, time.January, 17, 0, 0, 0, 0)},
		{"  (a (b (c)))  ", date(2024, time.January, 17, 0, 0, 0, 0)},

		{"10:30", date(2024, time.January, 17, 10, 30, 0, 0)},
		{"12am", date(2024, time.January, 17, 0, 0, 0, 0)},
		{"12pm", date(2024, time.January, 17, 12, 0, 0, 0)},
		{"8:02:03.25pm", date(2024, time.January, 17, 20, 2, 3, 250_000_000)},
		{"nov 14", date(2024, time.November, 14, 0, 0, 0, 0)},
		{"11/14/2022 8:02pm", date(2022, time.November, 14, 20, 2, 0, 0)},
		{"2023-02-28 10:00", date(2023, time.February, 28, 10, 0, 0, 0)},
		{"2024-01-02T10:30:00+05:30", date(2024, time.January, 2, 5, 0, 0, 0)},
		{"10:00Z", date(2024, time.January, 17, 10, 0, 0, 0)},
		{"10:00 -0500", date(2024, time.January, 17, 15, 0, 0, 0)},
		{"10:00 +05:30", date(2024, time.January, 17, 4, 30, 0, 0)},
		{"nov 14 3 days", date(2024, time.November, 17, 0, 0, 0, 0)},
		{"nov 14 2022 3 days", date(2022, time.November, 17, 0, 0, 0, 0)},

		// Relative items keep the clock of now.
		{"now", testNow},
		{"today", testNow},
		{"3 days", date(2024, time.January, 20, 14, 30, 45, 500_000_000)},
		{"3 days ago", date(2024, time.January, 14, 14, 30, 45, 500_000_000)},
		{"tomorrow", date(2024, time.January, 18, 14, 30, 45, 500_000_000)},
		{"1 hour ago", date(2024, time.January, 17, 13, 30, 45, 500_000_000)},
		{"fortnight ago", date(2024, time.January, 3, 14, 30, 45, 500_000_000)},
		{"last year", date(2023, time.January, 17, 14, 30, 45, 500_000_000)},

		// Weekdays reset the clock.
		{"friday", date(2024, time.January, 19, 0, 0, 0, 0)},
		{"next friday", date(2024, time.January, 19, 0, 0, 0, 0)},
		{"first friday", date(2024, time.January, 19, 0, 0, 0, 0)},
		{"last friday", date(2024, time.January, 12, 0, 0, 0, 0)},
		{"wednesday", date(2024, time.January, 17, 0, 0, 0, 0)},
		{"next wednesday", date(2024, time.January, 24, 0, 0, 0, 0)},
		{"last wednesday", date(2024, time.January, 10, 0, 0, 0, 0)},
		{"third monday", date(2024, time.February, 5, 0, 0, 0, 0)},
		{"friday 9am", date(2024, time.January, 19, 9, 0, 0, 0)},

		// Weekday first, then relative items in input order.
		{"monday 1 day", date(2024, time.January, 23, 0, 0, 0, 0)},
		{"second monday", date(2024, time.January, 22, 0, 0, 1, 0)},
		{"2024-01-31 1 month 1 day", date(2024, time.March, 1, 0, 0, 0, 0)},
		{"2024-01-30 1 month 1 day", date(2024, time.March, 1, 0, 0, 0, 0)},
		{"2024-01-30 1 day 1 month", date(2024, time.February, 29, 0, 0, 0, 0)},
		{"2024-02-29 1 year", date(2025, time.February, 28, 0, 0, 0, 0)},

		// Last wins for absolute items.
		{"2024-01-01 2025-06-15", date(2025, time.June, 15, 0, 0, 0, 0)},
		{"10:00 11:00", date(2024, time.January, 17, 11, 0, 0, 0)},
		{"2024-05-05 10:00 2024-06-06T08:00", date(2024, time.June, 6, 8, 0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Resolve(tt.input, testNow)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v, want %v", got, tt.want)
		})
	}
}

func TestResolveEmptyIsStartOfDay(t *testing.T) {
	tokyo, err := timezone.ParseTimezone("Asia/Tokyo")
	require.NoError(t, err)

	now := testNow.In(tokyo)
	got, err := Resolve("", now)
	require.NoError(t, err)
	assert.Equal(t, timezone.StartOfDay(now, tokyo), got)
}

func TestCommentsAreInert(t *testing.T) {
	pairs := [][2]string{
		{"(x)next (y (z)) friday", "next friday"},
		{"2024-03-10 (a) 10:00 (b)", "2024-03-10 10:00"},
		{"3 (((deep))) days ago", "3 days ago"},
		{`(TZ="Asia/Tokyo") 10:00`, "10:00"},
	}
	for _, p := range pairs {
		with, err := Resolve(p[0], testNow)
		require.NoError(t, err, p[0])
		without, err := Resolve(p[1], testNow)
		require.NoError(t, err, p[1])
		assert.Equal(t, without, with, p[0])
	}
}

func TestResolveZoneOverride(t *testing.T) {
	t.Run("second override wins", func(t *testing.T) {
		got, err := Resolve(`TZ="Asia/Tokyo" TZ="Europe/Paris" 2024-07-01 12:00`, testNow)
		require.NoError(t, err)
		assert.Equal(t, "Europe/Paris", got.Location().String())
		assert.True(t, got.Equal(date(2024, time.July, 1, 10, 0, 0, 0)))
	})

	t.Run("override alone converts now", func(t *testing.T) {
		got, err := Resolve(`TZ="Asia/Tokyo"`, testNow)
		require.NoError(t, err)
		assert.True(t, got.Equal(testNow))
		assert.Equal(t, "Asia/Tokyo", got.Location().String())
		assert.Equal(t, 23, got.Hour())
	})

	t.Run("date comes from now in the override zone", func(t *testing.T) {
		now := date(2024, time.January, 17, 20, 0, 0, 0)
		got, err := Resolve(`TZ="Asia/Tokyo" 10:00`, now)
		require.NoError(t, err)
		assert.Equal(t, 18, got.Day())
		assert.Equal(t, 10, got.Hour())
	})

	t.Run("unknown zone is UTC under its own name", func(t *testing.T) {
		got, err := Resolve(`TZ="Nowhere" 10:00`, testNow)
		require.NoError(t, err)
		name, offset := got.Zone()
		assert.Equal(t, "Nowhere", name)
		assert.Equal(t, 0, offset)
		assert.Equal(t, 10, got.Hour())
	})

	t.Run("zone correction converts to the override zone", func(t *testing.T) {
		got, err := Resolve(`TZ="Asia/Tokyo" 2024-01-02T10:00Z`, testNow)
		require.NoError(t, err)
		assert.Equal(t, 19, got.Hour())
		assert.Equal(t, 2, got.Day())
	})

	t.Run("custom loader", func(t *testing.T) {
		var loaded string
		load := func(name string) *time.Location {
			loaded = name
			return time.FixedZone("CUSTOM", 3600)
		}
		got, err := Resolve(`TZ="custom" 10:00`, testNow, WithZoneLoader(load))
		require.NoError(t, err)
		assert.Equal(t, "custom", loaded)
		assert.True(t, got.Equal(date(2024, time.January, 17, 9, 0, 0, 0)))
	})
}

func TestResolveParseErrors(t *testing.T) {
	tests := []struct {
		input string
		pos   int
		msg   string
	}{
		{`TZ="Bad\x"`, 7, "invalid escape in TZ string"},
		{"(unterminated", 0, "unterminated comment"},
		{"foo", 0, `unrecognized item "foo"`},
		{"10:30 foo", 6, `unrecognized item "foo"`},
		{"24:00", 0, "hour 24 out of range"},
		{"0:00am", 0, "hour 0 out of range for a 12-hour clock"},
		{"10:61", 3, "minute 61 out of range"},
		{"2024-13-01", 5, "month 13 out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Resolve(tt.input, testNow)
			require.Error(t, err)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.input, pe.Input)
			assert.Equal(t, tt.pos, pe.Pos)
			assert.Equal(t, tt.msg, pe.Msg)
			assert.ErrorIs(t, err, ErrParse)
			assert.NotErrorIs(t, err, ErrResolution)
		})
	}

	_, err := Resolve("(unterminated", testNow)
	assert.EqualError(t, err, `invalid date "(unterminated": unterminated comment at offset 0`)
}

func TestResolveResolutionErrors(t *testing.T) {
	tests := []struct {
		input string
		cause error
	}{
		{"Feb 30 2023", calendar.ErrInvalidDate},
		{"2023-02-29", calendar.ErrInvalidDate},
		{"4/31", calendar.ErrInvalidDate},
		{"9223372036854775807 years", calendar.ErrOverflow},
		{"999999999 years 999999999 years", calendar.ErrOverflow},
		{"-9223372036854775808 seconds", calendar.ErrOverflow},
		{"9223372036854775807 hours", calendar.ErrOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Resolve(tt.input, testNow)
			require.Error(t, err)

			var re *ResolutionError
			require.ErrorAs(t, err, &re)
			assert.Equal(t, tt.input, re.Input)
			assert.ErrorIs(t, err, ErrResolution)
			assert.ErrorIs(t, err, tt.cause)
			assert.NotErrorIs(t, err, ErrParse)

			var pe *ParseError
			assert.False(t, errors.As(err, &pe))
		})
	}
}

func TestParse(t *testing.T) {
	spec, err := Parse(`next friday 3 days ago TZ="UTC" 2 hours`)
	require.NoError(t, err)

	assert.Equal(t, `next friday 3 days ago TZ="UTC" 2 hours`, spec.Input())
	assert.Len(t, spec.Items, 4)
	assert.Nil(t, spec.Date)
	assert.Nil(t, spec.Time)
	require.NotNil(t, spec.Weekday)
	assert.Equal(t, items.WeekdayRef{Weekday: time.Friday, Offset: 1}, *spec.Weekday)
	require.NotNil(t, spec.Zone)
	assert.Equal(t, "UTC", spec.Zone.Raw)
	assert.Equal(t, []items.RelativeOffset{
		{Quantity: -3, Unit: calendar.Day},
		{Quantity: 2, Unit: calendar.Hour},
	}, spec.Relative)

	spec, err = Parse("2024-01-02T03:04 mon tue")
	require.NoError(t, err)
	require.NotNil(t, spec.Date)
	require.NotNil(t, spec.Time)
	assert.Equal(t, 2024, spec.Date.Year)
	assert.Equal(t, 3, spec.Time.Hour)
	assert.Equal(t, time.Tuesday, spec.Weekday.Weekday)

	spec, err = Parse(" (nothing) ")
	require.NoError(t, err)
	assert.Empty(t, spec.Items)
}

func TestResolveDoesNotModifySpec(t *testing.T) {
	spec, err := Parse("tomorrow 10:00")
	require.NoError(t, err)

	first, err := spec.Resolve(testNow)
	require.NoError(t, err)
	second, err := spec.Resolve(testNow.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, first.AddDate(0, 0, 1), second)
	assert.Len(t, spec.Relative, 1)
}

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) DaysInMonth(year int, month time.Month) int {
	return m.Called(year, month).Int(0)
}

func (m *mockEngine) ValidateDate(year int, month time.Month, day int) error {
	return m.Called(year, month, day).Error(0)
}

func (m *mockEngine) AddDuration(t time.Time, quantity int64, unit calendar.Unit) (time.Time, error) {
	args := m.Called(t, quantity, unit)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *mockEngine) NearestWeekday(t time.Time, weekday time.Weekday, ordinal int64) (time.Time, error) {
	args := m.Called(t, weekday, ordinal)
	return args.Get(0).(time.Time), args.Error(1)
}

func TestResolveWithCalendar(t *testing.T) {
	t.Run("delegates to the engine", func(t *testing.T) {
		engine := new(mockEngine)
		midnight := date(2024, time.March, 3, 0, 0, 0, 0)
		friday := date(2024, time.March, 8, 0, 0, 0, 0)
		want := date(2024, time.March, 22, 0, 0, 0, 0)

		engine.On("ValidateDate", 2024, time.March, 3).Return(nil)
		engine.On("NearestWeekday", midnight, time.Friday, int64(0)).Return(friday, nil)
		engine.On("AddDuration", friday, int64(2), calendar.Week).Return(want, nil)

		got, err := Resolve("2024-03-03 friday 2 weeks", testNow, WithCalendar(engine))
		require.NoError(t, err)
		assert.Equal(t, want, got)
		engine.AssertExpectations(t)
	})

	t.Run("engine failures are resolution errors", func(t *testing.T) {
		engine := new(mockEngine)
		cause := errors.New("no such day")
		engine.On("ValidateDate", 2024, time.March, 3).Return(cause)

		_, err := Resolve("2024-03-03", testNow, WithCalendar(engine))
		assert.ErrorIs(t, err, ErrResolution)
		assert.ErrorIs(t, err, cause)
		engine.AssertNotCalled(t, "AddDuration", mock.Anything, mock.Anything, mock.Anything)
	})
}
