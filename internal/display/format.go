package display

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Currency formats an amount with thousands separators and two decimals.
// Amounts of a million or more are abbreviated.
func Currency(v float64) string {
	switch {
	case v >= 1e12:
		return printer.Sprintf("%.2fT", v/1e12)
	case v >= 1e9:
		return printer.Sprintf("%.2fB", v/1e9)
	case v >= 1e6:
		return printer.Sprintf("%.2fM", v/1e6)
	default:
		return printer.Sprintf("%.2f", v)
	}
}

// Rate formats a per-second income.
func Rate(v float64) string {
	return Currency(v) + "/s"
}

// Duration formats d as a short human readable span such as "2m30s".
func Duration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	if d < time.Second {
		return "<1s"
	}

	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}
