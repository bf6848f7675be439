package timeparse_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edygar/interval/timeparse"
)

func TestParse_BareNumberIsSeconds(t *testing.T) {
	for _, n := range []string{"0", "1", "10", "1000", "2.5", "0.001", " 7 ", "1e3", "+3"} {
		t.Run(n, func(t *testing.T) {
			d, err := timeparse.Parse(n)
			require.NoError(t, err)
			f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
			require.NoError(t, err)
			assert.InDelta(t, f*1000, timeparse.Milliseconds(d), 1e-6)
		})
	}
}

func TestParse_Units(t *testing.T) {
	tcs := []struct {
		in  string
		out time.Duration
	}{
		{"2d", 48 * time.Hour},
		{"1day", 24 * time.Hour},
		{"3days", 72 * time.Hour},

		{"1h", time.Hour},
		{"1hr", time.Hour},
		{"2hrs", 2 * time.Hour},
		{"1hour", time.Hour},
		{"4hours", 4 * time.Hour},

		{"2m", 2 * time.Minute},
		{"1min", time.Minute},
		{"5mins", 5 * time.Minute},
		{"1minute", time.Minute},
		{"10minutes", 10 * time.Minute},

		{"10s", 10 * time.Second},
		{"1sec", time.Second},
		{"3secs", 3 * time.Second},
		{"1second", time.Second},
		{"30seconds", 30 * time.Second},

		{"250ms", 250 * time.Millisecond},
		{"1msec", time.Millisecond},
		{"5msecs", 5 * time.Millisecond},
		{"1millisecond", time.Millisecond},
		{"20milliseconds", 20 * time.Millisecond},

		{"1.5m", 90 * time.Second},
		{"0.5s", 500 * time.Millisecond},
		{"0ms", 0},
	}

	for _, tc := range tcs {
		t.Run(tc.in, func(t *testing.T) {
			d, err := timeparse.Parse(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.out, d)
		})
	}
}

func TestParse_UnitsAreCaseInsensitive(t *testing.T) {
	for _, unit := range timeparse.Units() {
		lower, err := timeparse.Parse("5" + unit)
		require.NoError(t, err, unit)
		upper, err := timeparse.Parse("5" + strings.ToUpper(unit))
		require.NoError(t, err, unit)
		assert.Equal(t, lower, upper, unit)
	}

	a, err := timeparse.Parse("5S")
	require.NoError(t, err)
	b, err := timeparse.Parse("5s")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParse_CommaIsDecimalSeparator(t *testing.T) {
	d, err := timeparse.Parse("1,5s")
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)

	_, err = timeparse.Parse("1,000,5s")
	var perr *timeparse.ParseError
	require.True(t, errors.As(err, &perr))
	assert.Empty(t, perr.Unit)
}

func TestParse_Errors(t *testing.T) {
	tcs := []struct {
		in   string
		msg  string
		unit string
	}{
		{"", `Couldn't parse given time ""`, ""},
		{"abc", `Couldn't parse given time "abc"`, ""},
		{"bad", `Couldn't parse given time "bad"`, ""},
		{"-5", `Couldn't parse given time "-5"`, ""},
		{"Infinity", `Couldn't parse given time "Infinity"`, ""},
		{"NaN", `Couldn't parse given time "NaN"`, ""},
		{"0x10", `Unknown unit "x"`, "x"},
		{".s", `Couldn't parse given time ".s"`, ""},
		{"1e300", `Couldn't parse given time "1e300"`, ""},
		{"5xyz", `Unknown unit "xyz"`, "xyz"},
		{"5xx", `Unknown unit "xx"`, "xx"},
		{"5XX", `Unknown unit "XX"`, "XX"},
		{"3weeks", `Unknown unit "weeks"`, "weeks"},
	}

	for _, tc := range tcs {
		t.Run(tc.in, func(t *testing.T) {
			_, err := timeparse.Parse(tc.in)
			require.Error(t, err)
			var perr *timeparse.ParseError
			require.True(t, errors.As(err, &perr), "%T", err)
			assert.Equal(t, tc.msg, err.Error())
			assert.Equal(t, tc.in, perr.Raw)
			assert.Equal(t, tc.unit, perr.Unit)
		})
	}
}

func TestMilliseconds(t *testing.T) {
	assert.Equal(t, 1000000.0, timeparse.Milliseconds(1000*time.Second))
	assert.Equal(t, 0.5, timeparse.Milliseconds(500*time.Microsecond))
}

func TestUnits(t *testing.T) {
	units := timeparse.Units()
	assert.Len(t, units, 23)
	assert.Contains(t, units, "ms")
	assert.Contains(t, units, "days")
}
