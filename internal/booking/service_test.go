package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	redisclient "github.com/medibot/clinic-assistant/internal/redis"
)

type fakeRepo struct {
	free        bool
	freeErr     error
	created     []Appointment
	events      []EventLog
	upcoming    []Appointment
	upcomingErr error
}

func (f *fakeRepo) IsSlotFree(ctx context.Context, start, end time.Time) (bool, error) {
	return f.free, f.freeErr
}

func (f *fakeRepo) Create(ctx context.Context, appt Appointment) (*Appointment, error) {
	f.created = append(f.created, appt)
	return &appt, nil
}

func (f *fakeRepo) ListUpcoming(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	return f.upcoming, f.upcomingErr
}

func (f *fakeRepo) InsertEvent(ctx context.Context, ev EventLog) error {
	f.events = append(f.events, ev)
	return nil
}

type fakeLocker struct {
	acquireErr error
	held       int
}

func (f *fakeLocker) WithSlotLock(ctx context.Context, slot time.Time, fn func(ctx context.Context) error) error {
	if f.acquireErr != nil {
		return f.acquireErr
	}
	f.held++
	return fn(ctx)
}

var bookNow = time.Date(2026, time.September, 1, 14, 0, 0, 0, time.UTC)

func frozenService(repo Repository, locker redisclient.Locker) *Service {
	svc := NewService(repo, locker, 30*time.Minute)
	svc.now = func() time.Time { return bookNow }
	return svc
}

func TestBookSuccess(t *testing.T) {
	repo := &fakeRepo{free: true}
	locker := &fakeLocker{}
	svc := frozenService(repo, locker)

	start := time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC)
	appt, err := svc.Book(context.Background(), start, "Alice")
	if err != nil {
		t.Fatalf("Book: %v", err)
	}

	if appt.PatientName != "Alice" {
		t.Fatalf("unexpected patient: %q", appt.PatientName)
	}
	if !appt.EndTime.Equal(start.Add(30 * time.Minute)) {
		t.Fatalf("expected 30 minute slot, got end %v", appt.EndTime)
	}
	if locker.held != 1 {
		t.Fatalf("expected booking under the slot lock, held=%d", locker.held)
	}
	if len(repo.events) != 1 || repo.events[0].EventType != EventAppointmentBooked {
		t.Fatalf("expected one booked event, got %+v", repo.events)
	}
}

func TestBookPastTime(t *testing.T) {
	svc := frozenService(&fakeRepo{free: true}, &fakeLocker{})

	start := bookNow.Add(-time.Hour)
	if _, err := svc.Book(context.Background(), start, "Alice"); !errors.Is(err, ErrPastTime) {
		t.Fatalf("expected ErrPastTime, got %v", err)
	}
}

func TestBookOutsideHours(t *testing.T) {
	svc := frozenService(&fakeRepo{free: true}, &fakeLocker{})

	// Saturday
	start := time.Date(2026, time.September, 5, 10, 0, 0, 0, time.UTC)
	if _, err := svc.Book(context.Background(), start, "Alice"); !errors.Is(err, ErrOutsideHours) {
		t.Fatalf("expected ErrOutsideHours, got %v", err)
	}
}

func TestBookSlotTaken(t *testing.T) {
	repo := &fakeRepo{free: false}
	svc := frozenService(repo, &fakeLocker{})

	start := time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC)
	if _, err := svc.Book(context.Background(), start, "Alice"); !errors.Is(err, ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatal("nothing should be created for a taken slot")
	}
}

func TestBookSlotBusy(t *testing.T) {
	svc := frozenService(&fakeRepo{free: true}, &fakeLocker{acquireErr: redisclient.ErrLockNotAcquired})

	start := time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC)
	if _, err := svc.Book(context.Background(), start, "Alice"); !errors.Is(err, ErrSlotBusy) {
		t.Fatalf("expected ErrSlotBusy, got %v", err)
	}
}

func TestListUpcomingClampsWindow(t *testing.T) {
	repo := &fakeRepo{upcoming: []Appointment{{PatientName: "Alice"}}}
	svc := frozenService(repo, &fakeLocker{})

	got, err := svc.ListUpcoming(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListUpcoming: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 appointment, got %d", len(got))
	}

	if _, err := svc.ListUpcoming(context.Background(), 100000); err != nil {
		t.Fatalf("oversized window should be clamped, got error %v", err)
	}
}
