package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"hrms/api/internal/model"
)

func TestValidateClock(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{"empty is allowed", "", false},
		{"valid time", "09:30", false},
		{"midnight", "00:00", false},
		{"out of range hour", "25:00", true},
		{"not a time", "morning", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateClock(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, errors.Is(err, ErrValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(errors.New(`duplicate key value violates unique constraint "idx_attendance_employee_date"`)))
	assert.True(t, isDuplicateKey(errors.New("UNIQUE constraint failed")))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))
}

func TestStampLocation(t *testing.T) {
	dist := 42.5
	loc := coord(1, 2)
	stampLocation(loc, &model.OfficeMeta{OfficeID: "HQ", OfficeName: "Headquarters", DistanceMeters: &dist})

	assert.Equal(t, "HQ", loc.OfficeID)
	assert.Equal(t, "Headquarters", loc.OfficeName)
	assert.Equal(t, &dist, loc.DistanceMeters)

	// Nil inputs are no-ops
	stampLocation(nil, &model.OfficeMeta{})
	stampLocation(loc, nil)
	assert.Equal(t, "HQ", loc.OfficeID)
}
