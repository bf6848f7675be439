// Package timeparse turns the human-readable interval token of the command
// line into a time.Duration.
//
// A bare number is a count of seconds. Otherwise the token must contain a
// number immediately followed by a unit:
//
//	d, day, days
//	h, hr, hrs, hour, hours
//	m, min, mins, minute, minutes
//	s, sec, secs, second, seconds
//	ms, msec, msecs, millisecond, milliseconds
//
// Units are matched case-insensitively. A comma in the number is read as a
// decimal point, so "1,5m" and "1.5m" are the same interval.
package timeparse

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	millisecond float64 = 1
	second              = 1000 * millisecond
	minute              = 60 * second
	hour                = 60 * minute
	day                 = 24 * hour
)

var unitMultipliers = map[string]float64{
	"days": day,
	"day":  day,
	"d":    day,

	"hours": hour,
	"hour":  hour,
	"hrs":   hour,
	"hr":    hour,
	"h":     hour,

	"minutes": minute,
	"minute":  minute,
	"mins":    minute,
	"min":     minute,
	"m":       minute,

	"seconds": second,
	"second":  second,
	"secs":    second,
	"sec":     second,
	"s":       second,

	"milliseconds": millisecond,
	"millisecond":  millisecond,
	"msecs":        millisecond,
	"msec":         millisecond,
	"ms":           millisecond,
}

var amountWithUnit = regexp.MustCompile(`(?i)([0-9.,]+)([a-z]+)`)

// ParseError is returned by Parse. Unit is only set if the token had the
// right shape but named a unit that is not recognized.
type ParseError struct {
	Raw  string
	Unit string
}

func (e *ParseError) Error() string {
	if e.Unit != "" {
		return fmt.Sprintf("Unknown unit \"%s\"", e.Unit)
	}
	return fmt.Sprintf("Couldn't parse given time \"%s\"", e.Raw)
}

// Parse returns the interval denoted by raw.
func Parse(raw string) (time.Duration, error) {
	ms, err := parseMillis(raw)
	if err != nil {
		return 0, err
	}
	ns := math.Round(ms * float64(time.Millisecond))
	// float64(math.MaxInt64) rounds up to 2^63, hence >=
	if ns >= float64(math.MaxInt64) {
		return 0, &ParseError{Raw: raw}
	}
	return time.Duration(ns), nil
}

func parseMillis(raw string) (float64, error) {
	if secs, ok := parseBareNumber(raw); ok {
		if !validAmount(secs) {
			return 0, &ParseError{Raw: raw}
		}
		return secs * second, nil
	}

	m := amountWithUnit.FindStringSubmatch(raw)
	if m == nil {
		return 0, &ParseError{Raw: raw}
	}

	amount, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil || !validAmount(amount) {
		return 0, &ParseError{Raw: raw}
	}

	multiplier, ok := unitMultipliers[strings.ToLower(m[2])]
	if !ok {
		return 0, &ParseError{Raw: raw, Unit: m[2]}
	}
	return amount * multiplier, nil
}

// parseBareNumber reports whether raw is a plain decimal number without unit.
// Hex, binary and octal literals as well as "Inf" and "NaN" spellings are not
// numbers here.
func parseBareNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || strings.ContainsAny(s, "xXbBoO_pPiInN") {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Milliseconds returns d as a (fractional) number of milliseconds.
func Milliseconds(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// Units returns all recognized unit spellings, sorted.
func Units() []string {
	units := make([]string, 0, len(unitMultipliers))
	for u := range unitMultipliers {
		units = append(units, u)
	}
	sort.Strings(units)
	return units
}
