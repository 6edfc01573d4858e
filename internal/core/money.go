// Package core holds the domain types and the aggregation rules for the
// receipts dashboard.
//
// This file contains money rounding and Dutch display formatting helpers.
package core

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Round2 rounds to two decimal places, half away from zero.
//
// The aggregator applies it after every accumulation step, not once at the
// end. That matches the numbers the dashboard has always shown; see
// AggregateMonthly.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var dutchMonths = [...]string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

// FormatMonth renders a month heading like "januari 2024".
func FormatMonth(t time.Time) string {
	return fmt.Sprintf("%s %d", dutchMonths[t.Month()-1], t.Year())
}

// FormatDate renders a full timestamp like "5 januari 2024 18:32".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d %02d:%02d", t.Day(), dutchMonths[t.Month()-1], t.Year(), t.Hour(), t.Minute())
}

// FormatEuros renders an amount as a Euro string with a decimal comma,
// e.g. "€ 12,34".
func FormatEuros(v float64) string {
	s := fmt.Sprintf("%.2f", math.Abs(v))
	s = strings.ReplaceAll(s, ".", ",")
	if v < 0 {
		return "-€ " + s
	}
	return "€ " + s
}
