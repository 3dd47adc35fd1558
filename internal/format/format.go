// Package format provides the display formatters shared by the feed,
// detail page and player.
package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DescriptionLimit is the number of characters shown before a
// description is truncated.
const DescriptionLimit = 150

// NoDescription is rendered when a video has no description.
const NoDescription = "No description available."

var lineBreak = regexp.MustCompile(`\r\n|\n|\r`)

// RelativeAge reports how long ago t was relative to now, using the
// largest whole unit. Months are 30 days and years are 365 days.
func RelativeAge(t, now time.Time) string {
	seconds := int64(math.Floor(now.Sub(t).Seconds()))
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	weeks := days / 7
	months := days / 30
	years := days / 365

	switch {
	case years > 0:
		return ago(years, "year")
	case months > 0:
		return ago(months, "month")
	case weeks > 0:
		return ago(weeks, "week")
	case days > 0:
		return ago(days, "day")
	case hours > 0:
		return ago(hours, "hour")
	case minutes > 0:
		return ago(minutes, "minute")
	default:
		return "just now"
	}
}

func ago(n int64, unit string) string {
	if n > 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s ago", n, unit)
}

// Views abbreviates a view count with K/M suffixes.
func Views(n int64) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1e6, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1e3, 'f', 1, 64) + "K"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// Time formats a playback position as m:ss. Non-finite input is "0:00".
func Time(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return "0:00"
	}
	minutes := int64(math.Floor(seconds / 60))
	secs := int64(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// TruncateDescription returns the collapsed form of a description.
// Line breaks are flattened to spaces before measuring. Text that fits
// is returned unmodified.
func TruncateDescription(text string) string {
	if text == "" {
		return NoDescription
	}

	flat := []rune(lineBreak.ReplaceAllString(text, " "))
	if len(flat) <= DescriptionLimit {
		return text
	}

	return strings.TrimSpace(string(flat[:DescriptionLimit])) + "..."
}

// DescriptionLines returns the expanded form of a description, one entry
// per line.
func DescriptionLines(text string) []string {
	if text == "" {
		return []string{NoDescription}
	}
	return lineBreak.Split(text, -1)
}

// CanExpand reports whether the expand toggle applies to a description.
func CanExpand(text string) bool {
	return len([]rune(text)) > DescriptionLimit
}

// UploadDate formats an upload timestamp for the detail page header.
func UploadDate(t time.Time) string {
	if t.IsZero() {
		return "unknown"
	}
	return t.Format("January 2, 2006")
}
