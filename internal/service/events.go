package service

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"hrms/api/internal/model"
)

// NATS subjects for attendance events. The WebSocket feed subscribes to
// SubjectAttendanceAll.
const (
	SubjectAttendanceAll     = "hrms.attendance.>"
	SubjectCheckIn           = "hrms.attendance.checkin"
	SubjectCheckOut          = "hrms.attendance.checkout"
	SubjectAutoCheckout      = "hrms.attendance.autocheckout"
	SubjectAttendanceEdit    = "hrms.attendance.edit"
	SubjectGeofenceRejection = "hrms.attendance.geofence_denied"
)

// EventPublisher publishes attendance events to NATS. Publishing is
// best-effort: failures are logged, never surfaced to the request.
type EventPublisher struct {
	nats *nats.Conn
}

// NewEventPublisher creates an event publisher
func NewEventPublisher(natsConn *nats.Conn) *EventPublisher {
	return &EventPublisher{nats: natsConn}
}

// PublishAttendance publishes an attendance event on the given subject
func (p *EventPublisher) PublishAttendance(subject string, event *model.AttendanceEvent) {
	if p == nil || p.nats == nil {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Events] Failed to marshal attendance event: %v", err)
		return
	}

	if err := p.nats.Publish(subject, data); err != nil {
		log.Printf("[Events] Failed to publish %s: %v", subject, err)
		return
	}

	// Also publish to an employee-specific subject for targeted consumers
	if event.EmployeeID != "" {
		p.nats.Publish(fmt.Sprintf("%s.%s", subject, event.EmployeeID), data)
	}
}
