// Package money renders rupiah amounts for user-facing messages.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Indonesian)

// Format renders n with Indonesian digit grouping, e.g. 3000 -> "3.000".
func Format(n int64) string {
	return printer.Sprintf("%d", n)
}
