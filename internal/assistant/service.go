package assistant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/medibot/clinic-assistant/internal/booking"
)

const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusMissingInfo = "missing_info"
)

const missingInfoMessage = "I couldn't understand when you want to book an appointment. " +
	"Please specify a date and time, for example: 'tomorrow at 2pm' or 'next Monday at 10:30'."

// Booker is the slice of the booking service the assistant needs.
type Booker interface {
	Book(ctx context.Context, start time.Time, patientName string) (*booking.Appointment, error)
}

// Service interprets a patient message and, when it names a concrete slot,
// books it. Every outcome is a (status, message) pair rendered straight into
// the chat reply; interpretation failures degrade to the local datetime
// parser rather than surfacing an error.
type Service struct {
	responder Responder
	bookings  Booker
	now       func() time.Time
}

func NewService(responder Responder, bookings Booker) *Service {
	return &Service{
		responder: responder,
		bookings:  bookings,
		now:       time.Now,
	}
}

func (s *Service) Handle(ctx context.Context, text, patientName string) (status, message string) {
	result, err := s.interpret(ctx, text)
	if err != nil {
		return StatusMissingInfo, missingInfoMessage
	}

	if result.Type != ResultDateTime {
		return string(result.Type), result.Message
	}

	return s.book(ctx, result, patientName)
}

func (s *Service) interpret(ctx context.Context, text string) (Result, error) {
	if s.responder != nil {
		result, err := s.responder.Respond(ctx, text)
		if err == nil {
			return result, nil
		}
		log.Printf("responder failed, falling back to local parser: %v", err)
	}

	when, ok := ExtractDateTime(text, s.now())
	if !ok {
		return Result{}, errors.New("no datetime found in message")
	}
	return Result{Type: ResultDateTime, When: when}, nil
}

func (s *Service) book(ctx context.Context, result Result, patientName string) (status, message string) {
	appt, err := s.bookings.Book(ctx, result.When, patientName)

	switch {
	case err == nil:
		if result.Message != "" {
			return StatusSuccess, result.Message
		}
		return StatusSuccess, fmt.Sprintf(
			"Great! Your appointment is confirmed for %s. We look forward to seeing you!",
			appt.StartTime.Format("Monday, January 2 at 3:04 PM"))

	case errors.Is(err, booking.ErrPastTime):
		return StatusError, fmt.Sprintf(
			"I'm sorry, but the requested time (%s) has already passed. Please choose a future time.",
			result.When.Format("Monday, January 2 at 3:04 PM"))

	case errors.Is(err, booking.ErrOutsideHours):
		return StatusError, fmt.Sprintf(
			"I'm sorry, but the requested time (%s) is outside our operating hours. "+
				"Our hours are Sunday-Thursday 8:00 AM - 7:00 PM and Friday 8:00 AM - 12:00 PM. "+
				"Would you like to choose a different time?",
			result.When.Format("Monday, January 2 at 3:04 PM"))

	case errors.Is(err, booking.ErrSlotTaken), errors.Is(err, booking.ErrSlotBusy):
		return StatusError, fmt.Sprintf(
			"I'm sorry, but the time slot (%s) is already taken. Would you like to try a different time?",
			result.When.Format("2006-01-02 15:04"))

	default:
		log.Printf("booking failed: %v", err)
		return StatusError, "Sorry, I encountered an error. Please try again."
	}
}
