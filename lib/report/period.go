// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// dateLayout is the snapshot date format.
const dateLayout = "2006-01-02"

// displayLayout is the human-readable date format.
const displayLayout = "2 Jan 2006"

// averageDaysPerMonth converts a duration length in days to months for
// duration class comparison.
const averageDaysPerMonth = 365.25 / 12

// Period is either an instant or a duration. Dates follow the XBRL
// convention: the end of a duration and an instant are exclusive
// midnights, so "2020-01-01" is the close of 31 December 2019.
type Period struct {
	key     string
	instant bool
	from    time.Time
	to      time.Time
}

// ParsePeriod parses "YYYY-MM-DD" (instant) or "YYYY-MM-DD/YYYY-MM-DD"
// (duration).
func ParsePeriod(text string) (Period, error) {
	start, end, isDuration := strings.Cut(text, "/")
	if !isDuration {
		instant, err := time.Parse(dateLayout, text)
		if err != nil {
			return Period{}, fmt.Errorf("parse instant period %q: %w", text, err)
		}
		return Period{key: text, instant: true, to: instant}, nil
	}

	from, err := time.Parse(dateLayout, start)
	if err != nil {
		return Period{}, fmt.Errorf("parse period start %q: %w", text, err)
	}
	to, err := time.Parse(dateLayout, end)
	if err != nil {
		return Period{}, fmt.Errorf("parse period end %q: %w", text, err)
	}
	if !to.After(from) {
		return Period{}, fmt.Errorf("period %q ends before it starts", text)
	}
	return Period{key: text, from: from, to: to}, nil
}

// Key returns the period in snapshot form. Equal periods have equal
// keys.
func (period Period) Key() string { return period.key }

// IsInstant reports whether the period is a point in time.
func (period Period) IsInstant() bool { return period.instant }

// From returns the start of a duration; zero for instants.
func (period Period) From() time.Time { return period.from }

// End returns the (exclusive) end of the period, which is the instant
// itself for instant periods. Comparisons between periods use End.
func (period Period) End() time.Time { return period.to }

// IsZero reports whether the period was never set.
func (period Period) IsZero() bool { return period.key == "" }

// Months returns the length of a duration rounded to whole months, or
// zero for instants.
func (period Period) Months() int {
	if period.instant {
		return 0
	}
	days := period.to.Sub(period.from).Hours() / 24
	return int(math.Round(days / averageDaysPerMonth))
}

// IsEquivalentDuration reports whether both periods are instants, or
// both are durations whose lengths round to the same number of months
// (annual, half-year, quarterly, ...).
func (period Period) IsEquivalentDuration(other Period) bool {
	if period.instant != other.instant {
		return false
	}
	if period.instant {
		return true
	}
	return period.Months() == other.Months()
}

// String formats the period for display with inclusive dates:
// "31 Dec 2019" or "1 Jan 2019 to 31 Dec 2019".
func (period Period) String() string {
	if period.key == "" {
		return ""
	}
	lastDay := period.to.AddDate(0, 0, -1).Format(displayLayout)
	if period.instant {
		return lastDay
	}
	return period.from.Format(displayLayout) + " to " + lastDay
}
