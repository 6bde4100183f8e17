// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// maxDisplayPlaces bounds the fractional digits shown for facts with
// infinite precision.
const maxDisplayPlaces = 6

// scaleNames names the common negative decimals values.
var scaleNames = map[int]string{
	0:  "ones",
	-1: "tens",
	-2: "hundreds",
	-3: "thousands",
	-6: "millions",
	-9: "billions",
}

// FormatNumber renders value with thousands separators and exactly
// places fractional digits (rounded half away from zero).
func FormatNumber(value decimal.Decimal, places int) string {
	if places < 0 {
		places = 0
	}
	pattern := "#,###." + strings.Repeat("#", places)
	return humanize.FormatFloat(pattern, value.Round(int32(places)).InexactFloat64())
}

// displayPlaces picks how many fractional digits to show: the decimals
// attribute when non-negative, zero for scaled values, and the value's
// own precision (bounded) when the fact has infinite precision.
func displayPlaces(decimals *int, value decimal.Decimal) int {
	if decimals != nil {
		if *decimals > 0 {
			return *decimals
		}
		return 0
	}
	places := -int(value.Exponent())
	if places < 0 {
		return 0
	}
	return min(places, maxDisplayPlaces)
}

// unitSuffix renders the unit measure's local name after the number.
// Pure numbers carry no suffix.
func unitSuffix(unit string) string {
	_, local, found := strings.Cut(unit, ":")
	if !found {
		local = unit
	}
	if local == "" || local == "pure" {
		return ""
	}
	return " " + local
}

func readableAccuracy(decimals *int) string {
	if decimals == nil {
		return "Infinite precision"
	}
	value := *decimals
	switch {
	case value == 1:
		return "1 decimal place"
	case value > 1:
		return fmt.Sprintf("%d decimal places", value)
	}
	if name, ok := scaleNames[value]; ok {
		return fmt.Sprintf("%s (%d)", name, value)
	}
	return fmt.Sprintf("%d", value)
}
