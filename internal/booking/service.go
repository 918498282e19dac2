package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	redisclient "github.com/medibot/clinic-assistant/internal/redis"
)

const (
	EventAppointmentBooked = "APPOINTMENT_BOOKED"
)

var (
	ErrSlotTaken    = errors.New("slot already has an appointment")
	ErrSlotBusy     = errors.New("slot is currently being booked, please retry")
	ErrOutsideHours = errors.New("requested time is outside clinic operating hours")
	ErrPastTime     = errors.New("requested time has already passed")
)

type Service struct {
	repo         Repository
	locker       redisclient.Locker
	slotDuration time.Duration
	now          func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, slotDuration time.Duration) *Service {
	return &Service{
		repo:         repo,
		locker:       locker,
		slotDuration: slotDuration,
		now:          time.Now,
	}
}

// Book reserves the slot starting at start for the named patient.
// It uses a distributed lock so that concurrent requests for the same slot
// cannot both pass the free check.
func (s *Service) Book(ctx context.Context, start time.Time, patientName string) (*Appointment, error) {
	now := s.now()

	if start.Before(now) {
		return nil, ErrPastTime
	}
	if !WithinOperatingHours(start) {
		return nil, ErrOutsideHours
	}

	end := start.Add(s.slotDuration)

	var created *Appointment

	err := s.locker.WithSlotLock(ctx, start, func(lockCtx context.Context) error {
		// Inside the critical section re-check that the slot is still free
		free, err := s.repo.IsSlotFree(lockCtx, start, end)
		if err != nil {
			return fmt.Errorf("check slot availability: %w", err)
		}
		if !free {
			return ErrSlotTaken
		}

		appt, err := s.repo.Create(lockCtx, Appointment{
			PatientName: patientName,
			StartTime:   start,
			EndTime:     end,
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt

		payload := map[string]any{
			"patient_name": patientName,
			"start_time":   start,
		}
		s.logEvent(lockCtx, appt.ID, EventAppointmentBooked, payload)

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrSlotBusy
		}
		return nil, err
	}

	return created, nil
}

// ListUpcoming returns the appointments starting within the next windowDays
// days, in start-time order.
func (s *Service) ListUpcoming(ctx context.Context, windowDays int) ([]Appointment, error) {
	if windowDays <= 0 {
		windowDays = 30 // default
	}
	if windowDays > 365 {
		windowDays = 365 // max
	}

	from := s.now()
	to := from.AddDate(0, 0, windowDays)

	appointments, err := s.repo.ListUpcoming(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list upcoming appointments: %w", err)
	}
	return appointments, nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal event payload for %s: %v", eventType, err)
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		log.Printf("failed to insert event log %s for appointment %s: %v", eventType, appointmentID, err)
	}
}
