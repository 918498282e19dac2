package booking

import (
	"time"

	"github.com/google/uuid"
)

// Appointment is one booked calendar slot. Slots are fixed-length windows
// identified by their start time; there is no separate slot table.
type Appointment struct {
	ID          uuid.UUID
	PatientName string
	StartTime   time.Time
	EndTime     time.Time
	CreatedAt   time.Time
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}
