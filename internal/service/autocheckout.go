package service

import (
	"context"
	"log"
	"sync"
	"time"

	"gorm.io/gorm"

	"hrms/api/internal/model"
)

// AutoCheckoutService closes every still-open attendance record at a daily
// wall-clock cutoff. The same sweep backs the scheduled run and the manual
// admin trigger.
type AutoCheckoutService struct {
	db     *gorm.DB
	events *EventPublisher
	// Daily cutoff, "HH:MM"
	cutoff string

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewAutoCheckoutService creates a new auto-checkout service
func NewAutoCheckoutService(db *gorm.DB, events *EventPublisher, cutoff string) *AutoCheckoutService {
	if _, err := time.Parse(ClockLayout, cutoff); err != nil {
		log.Printf("[AutoCheckout] Invalid cutoff %q, falling back to 19:00", cutoff)
		cutoff = "19:00"
	}
	return &AutoCheckoutService{db: db, events: events, cutoff: cutoff}
}

// Start launches the daily sweep loop
func (s *AutoCheckoutService) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go s.run(ctx)
	log.Printf("[AutoCheckout] Scheduler started, daily sweep at %s", s.cutoff)
}

// Stop stops the sweep loop and waits for it to exit
func (s *AutoCheckoutService) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
		s.wg.Wait()
		log.Println("[AutoCheckout] Scheduler stopped")
	}
}

func (s *AutoCheckoutService) run(ctx context.Context) {
	defer s.wg.Done()

	for {
		now := time.Now()
		timer := time.NewTimer(nextRunAt(now, s.cutoff).Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			closed, err := s.Sweep(ctx, time.Now())
			if err != nil {
				log.Printf("[AutoCheckout] Sweep failed: %v", err)
			} else if closed > 0 {
				log.Printf("[AutoCheckout] Closed %d open record(s)", closed)
			}
		}
	}
}

// Sweep closes every record for now's date that has a check-in but no
// check-out, stamping the cutoff as the check-out time. Returns the number
// of records closed.
func (s *AutoCheckoutService) Sweep(ctx context.Context, now time.Time) (int, error) {
	date := now.Format(DateLayout)

	var open []model.AttendanceRecord
	err := s.db.WithContext(ctx).
		Where("date = ? AND check_in_time <> '' AND (check_out_time = '' OR check_out_time IS NULL)", date).
		Find(&open).Error
	if err != nil {
		return 0, err
	}

	closed := 0
	for i := range open {
		record := &open[i]

		// Conditional update: a concurrent manual check-out wins. A check-in
		// after the cutoff still gets the cutoff stamped; computeTotalHours
		// clamps the negative span to "00:00".
		result := s.db.WithContext(ctx).Model(&model.AttendanceRecord{}).
			Where("id = ? AND (check_out_time = '' OR check_out_time IS NULL)", record.ID).
			Updates(map[string]interface{}{
				"check_out_time": s.cutoff,
				"total_hours":    computeTotalHours(record.CheckInTime, s.cutoff),
				"auto_checkout":  true,
			})
		if result.Error != nil {
			log.Printf("[AutoCheckout] Failed to close record for %s on %s: %v",
				record.EmployeeID, record.Date, result.Error)
			continue
		}
		if result.RowsAffected == 0 {
			continue
		}

		closed++
		s.events.PublishAttendance(SubjectAutoCheckout, &model.AttendanceEvent{
			Type:       "autocheckout",
			EmployeeID: record.EmployeeID,
			Date:       record.Date,
			Time:       s.cutoff,
		})
	}

	return closed, nil
}

// nextRunAt returns the next occurrence of the "HH:MM" cutoff strictly after
// now, today or tomorrow.
func nextRunAt(now time.Time, cutoff string) time.Time {
	t, err := time.Parse(ClockLayout, cutoff)
	if err != nil {
		t, _ = time.Parse(ClockLayout, "19:00")
	}

	next := time.Date(now.Year(), now.Month(), now.Day(), t.Hour(), t.Minute(), 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
