package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayslipID(t *testing.T) {
	tests := []struct {
		name       string
		year       int
		month      string
		employeeID string
		want       string
	}{
		{"full month name", 2026, "August", "EMP001", "PS-2026-AUG-EMP001"},
		{"short month name", 2026, "May", "EMP002", "PS-2026-MAY-EMP002"},
		{"lowercase input", 2025, "december", "EMP003", "PS-2025-DEC-EMP003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, payslipID(tt.year, tt.month, tt.employeeID))
		})
	}
}
