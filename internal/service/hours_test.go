package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotalHours(t *testing.T) {
	tests := []struct {
		name     string
		checkIn  string
		checkOut string
		want     string
	}{
		{"full day", "09:00", "17:30", "08:30"},
		{"exact hour", "09:00", "17:00", "08:00"},
		{"short shift", "13:15", "13:45", "00:30"},
		{"zero span", "09:00", "09:00", "00:00"},
		{"checkout before checkin", "09:00", "08:00", "00:00"},
		{"missing checkin", "", "17:00", "00:00"},
		{"missing checkout", "09:00", "", "00:00"},
		{"both missing", "", "", "00:00"},
		{"garbage checkin", "nine", "17:00", "00:00"},
		{"garbage checkout", "09:00", "late", "00:00"},
		{"minute precision", "08:47", "18:02", "09:15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, computeTotalHours(tt.checkIn, tt.checkOut))
		})
	}
}
