package service

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for wall-clock times
const ClockLayout = "15:04"

// computeTotalHours derives "HH:MM" worked hours from a check-in/check-out
// pair. Missing or unparseable times and negative spans yield "00:00". Hours
// are not capped at 24.
func computeTotalHours(checkIn, checkOut string) string {
	if checkIn == "" || checkOut == "" {
		return "00:00"
	}

	in, err := time.Parse(ClockLayout, checkIn)
	if err != nil {
		return "00:00"
	}
	out, err := time.Parse(ClockLayout, checkOut)
	if err != nil {
		return "00:00"
	}

	minutes := int(out.Sub(in).Minutes())
	if minutes < 0 {
		return "00:00"
	}

	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
