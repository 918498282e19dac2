package booking

import (
	"context"
	"errors"
	"time"
)

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	// IsSlotFree reports whether no appointment overlaps [start, end).
	IsSlotFree(ctx context.Context, start, end time.Time) (bool, error)

	Create(ctx context.Context, appt Appointment) (*Appointment, error)

	// ListUpcoming returns appointments starting in [from, to), ordered by
	// start time ascending.
	ListUpcoming(ctx context.Context, from, to time.Time) ([]Appointment, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}
