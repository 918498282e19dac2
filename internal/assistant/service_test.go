package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/medibot/clinic-assistant/internal/booking"
)

type fakeResponder struct {
	result Result
	err    error
}

func (f *fakeResponder) Respond(ctx context.Context, text string) (Result, error) {
	return f.result, f.err
}

type fakeBooker struct {
	err     error
	lastArg time.Time
	calls   int
}

func (f *fakeBooker) Book(ctx context.Context, start time.Time, patientName string) (*booking.Appointment, error) {
	f.calls++
	f.lastArg = start
	if f.err != nil {
		return nil, f.err
	}
	return &booking.Appointment{PatientName: patientName, StartTime: start}, nil
}

func frozenService(responder Responder, booker Booker) *Service {
	s := NewService(responder, booker)
	s.now = func() time.Time {
		return time.Date(2026, time.September, 1, 14, 0, 0, 0, time.UTC)
	}
	return s
}

func TestHandleBooksOnDateTime(t *testing.T) {
	when := time.Date(2026, time.September, 2, 14, 0, 0, 0, time.UTC)
	booker := &fakeBooker{}
	svc := frozenService(&fakeResponder{result: Result{Type: ResultDateTime, When: when}}, booker)

	status, message := svc.Handle(context.Background(), "tomorrow at 2pm", "Alice")

	if status != StatusSuccess {
		t.Fatalf("expected success, got %q (%q)", status, message)
	}
	if booker.calls != 1 || !booker.lastArg.Equal(when) {
		t.Fatalf("expected one booking at %v, got %d calls at %v", when, booker.calls, booker.lastArg)
	}
	if !strings.Contains(message, "Wednesday, September 2 at 2:00 PM") {
		t.Fatalf("confirmation should name the slot, got %q", message)
	}
}

func TestHandlePassesThroughNonDateTime(t *testing.T) {
	booker := &fakeBooker{}
	svc := frozenService(&fakeResponder{
		result: Result{Type: ResultGreeting, Message: "Hello! When would you like to come in?"},
	}, booker)

	status, message := svc.Handle(context.Background(), "hi", "Alice")

	if status != string(ResultGreeting) {
		t.Fatalf("expected greeting status, got %q", status)
	}
	if message != "Hello! When would you like to come in?" {
		t.Fatalf("unexpected message: %q", message)
	}
	if booker.calls != 0 {
		t.Fatal("greetings must not book anything")
	}
}

func TestHandleFallsBackToLocalParser(t *testing.T) {
	booker := &fakeBooker{}
	svc := frozenService(&fakeResponder{err: errors.New("model unavailable")}, booker)

	status, _ := svc.Handle(context.Background(), "tomorrow at 2pm", "Alice")

	if status != StatusSuccess {
		t.Fatalf("expected fallback parse to book, got %q", status)
	}
	want := time.Date(2026, time.September, 2, 14, 0, 0, 0, time.UTC)
	if !booker.lastArg.Equal(want) {
		t.Fatalf("expected %v, got %v", want, booker.lastArg)
	}
}

func TestHandleMissingInfo(t *testing.T) {
	svc := frozenService(&fakeResponder{err: errors.New("model unavailable")}, &fakeBooker{})

	status, message := svc.Handle(context.Background(), "I want an appointment", "Alice")

	if status != StatusMissingInfo {
		t.Fatalf("expected missing_info, got %q", status)
	}
	if message != missingInfoMessage {
		t.Fatalf("unexpected message: %q", message)
	}
}

func TestHandleBookingErrors(t *testing.T) {
	when := time.Date(2026, time.September, 2, 14, 0, 0, 0, time.UTC)

	cases := []struct {
		err      error
		wantPart string
	}{
		{booking.ErrPastTime, "already passed"},
		{booking.ErrOutsideHours, "outside our operating hours"},
		{booking.ErrSlotTaken, "already taken"},
		{booking.ErrSlotBusy, "already taken"},
		{errors.New("pg down"), "Please try again"},
	}

	for _, tc := range cases {
		svc := frozenService(&fakeResponder{result: Result{Type: ResultDateTime, When: when}}, &fakeBooker{err: tc.err})

		status, message := svc.Handle(context.Background(), "tomorrow at 2pm", "Alice")
		if status != StatusError {
			t.Fatalf("%v: expected error status, got %q", tc.err, status)
		}
		if !strings.Contains(message, tc.wantPart) {
			t.Fatalf("%v: expected message containing %q, got %q", tc.err, tc.wantPart, message)
		}
	}
}
