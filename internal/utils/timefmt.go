package utils

import (
	"strings"
	"time"
	"unicode"
)

// isoInstantLayout matches the millisecond precision ISO-8601 instant used in export file names.
const isoInstantLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatTimestampDigits renders value as a UTC ISO-8601 instant and strips every non-digit,
// yielding a sortable 17 digit key such as 20240102030405123.
func FormatTimestampDigits(value time.Time) string {
	formatted := value.UTC().Format(isoInstantLayout)
	return strings.Map(func(character rune) rune {
		if unicode.IsDigit(character) {
			return character
		}
		return -1
	}, formatted)
}
