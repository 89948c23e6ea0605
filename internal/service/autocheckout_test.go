package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/api/internal/model"
)

func TestNextRunAt(t *testing.T) {
	loc := time.UTC
	tests := []struct {
		name   string
		now    time.Time
		cutoff string
		want   time.Time
	}{
		{
			"before cutoff runs today",
			time.Date(2026, 8, 31, 10, 0, 0, 0, loc),
			"19:00",
			time.Date(2026, 8, 31, 19, 0, 0, 0, loc),
		},
		{
			"after cutoff runs tomorrow",
			time.Date(2026, 8, 31, 19, 30, 0, 0, loc),
			"19:00",
			time.Date(2026, 9, 1, 19, 0, 0, 0, loc),
		},
		{
			"exactly at cutoff runs tomorrow",
			time.Date(2026, 8, 31, 19, 0, 0, 0, loc),
			"19:00",
			time.Date(2026, 9, 1, 19, 0, 0, 0, loc),
		},
		{
			"month rollover",
			time.Date(2026, 8, 31, 23, 59, 0, 0, loc),
			"19:00",
			time.Date(2026, 9, 1, 19, 0, 0, 0, loc),
		},
		{
			"bad cutoff falls back to 19:00",
			time.Date(2026, 8, 31, 10, 0, 0, 0, loc),
			"nope",
			time.Date(2026, 8, 31, 19, 0, 0, 0, loc),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextRunAt(tt.now, tt.cutoff))
		})
	}
}

func TestSweepClosesOpenRecords(t *testing.T) {
	db := newTestDB(t)
	svc := NewAutoCheckoutService(db, NewEventPublisher(nil), "19:00")

	now := time.Date(2026, 8, 31, 19, 0, 0, 0, time.UTC)
	date := now.Format(DateLayout)

	seed := []model.AttendanceRecord{
		{EmployeeID: "E1", Date: date, Status: model.StatusPresent, CheckInTime: "09:15"},
		{EmployeeID: "E2", Date: date, Status: model.StatusPresent, CheckInTime: "09:00", CheckOutTime: "17:00", TotalHours: "08:00"},
		{EmployeeID: "E3", Date: date, Status: model.StatusPresent, CheckInTime: "20:15"},
		{EmployeeID: "E4", Date: "2026-08-30", Status: model.StatusPresent, CheckInTime: "09:00"},
	}
	for i := range seed {
		require.NoError(t, db.Create(&seed[i]).Error)
	}

	closed, err := svc.Sweep(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	e1 := loadRecord(t, db, "E1", date)
	assert.Equal(t, "19:00", e1.CheckOutTime)
	assert.Equal(t, "09:45", e1.TotalHours)
	assert.True(t, e1.AutoCheckout)

	// An already-closed record is untouched
	e2 := loadRecord(t, db, "E2", date)
	assert.Equal(t, "17:00", e2.CheckOutTime)
	assert.Equal(t, "08:00", e2.TotalHours)
	assert.False(t, e2.AutoCheckout)

	// A check-in after the cutoff still closes at the cutoff; the negative
	// span clamps to zero hours
	e3 := loadRecord(t, db, "E3", date)
	assert.Equal(t, "19:00", e3.CheckOutTime)
	assert.Equal(t, "00:00", e3.TotalHours)
	assert.True(t, e3.AutoCheckout)

	// Other days are out of scope for the sweep
	e4 := loadRecord(t, db, "E4", "2026-08-30")
	assert.Empty(t, e4.CheckOutTime)
}
