// Package feed loads the doctor's upcoming appointments and projects them
// into a chat-styled transcript.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/medibot/clinic-assistant/internal/chat"
)

// State is the feed's lifecycle. A load is terminal on Populated or Error;
// retrying means a fresh Load call.
type State int

const (
	StateLoading State = iota
	StatePopulated
	StateError
)

const (
	feedAnnouncement      = "Hello Doctor! Here are your upcoming appointments:"
	noAppointmentsMessage = "No upcoming appointments found."
	authRequiredMessage   = "Authentication required."
	loadFailureMessage    = "Failed to load appointments. Please try again later."
)

// Lister is the one gateway operation the feed needs.
type Lister interface {
	ListAppointments(ctx context.Context, token string, windowDays int) (json.RawMessage, error)
}

type Feed struct {
	mu         sync.Mutex
	lister     Lister
	state      State
	errText    string
	transcript []chat.Message

	now func() time.Time
}

func New(lister Lister) *Feed {
	return &Feed{lister: lister, now: time.Now}
}

// Load fetches the appointment window and rebuilds the transcript. An empty
// token short-circuits to an error state without touching the network.
// Transport failures land in the same error state with a fixed message;
// nothing partial is ever shown.
func (f *Feed) Load(ctx context.Context, token string, windowDays int) {
	if windowDays <= 0 {
		windowDays = 30
	}

	f.mu.Lock()
	f.state = StateLoading
	f.errText = ""
	f.transcript = nil
	f.mu.Unlock()

	if token == "" {
		f.fail(authRequiredMessage)
		return
	}

	raw, err := f.lister.ListAppointments(ctx, token, windowDays)
	if err != nil {
		log.Printf("load appointment feed: %v", err)
		f.fail(loadFailureMessage)
		return
	}

	appointments := Normalize(raw)
	transcript := Project(appointments, f.now())

	f.mu.Lock()
	f.state = StatePopulated
	f.transcript = transcript
	f.mu.Unlock()
}

func (f *Feed) fail(msg string) {
	f.mu.Lock()
	f.state = StateError
	f.errText = msg
	f.mu.Unlock()
}

func (f *Feed) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// ErrText returns the fixed error message when the state is StateError.
func (f *Feed) ErrText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errText
}

// Transcript returns a copy of the projected messages.
func (f *Feed) Transcript() []chat.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]chat.Message, len(f.transcript))
	copy(out, f.transcript)
	return out
}

// Project turns a normalized appointment sequence into transcript messages:
// a bot announcement, one User-column line per appointment in upstream
// order, and a pluralized bot summary. An empty sequence collapses to a
// single "none found" bot line.
func Project(appointments []Appointment, now time.Time) []chat.Message {
	if len(appointments) == 0 {
		return []chat.Message{
			{Text: noAppointmentsMessage, Sender: chat.SenderBot},
		}
	}

	out := make([]chat.Message, 0, len(appointments)+2)
	out = append(out, chat.Message{Text: feedAnnouncement, Sender: chat.SenderBot})

	for _, a := range appointments {
		start := a.Start.In(now.Location())
		text := fmt.Sprintf("%s\n%s at %s\n%s",
			a.PatientName,
			start.Weekday(),
			start.Format("3:04 PM"),
			DateLabel(a.Start, now),
		)
		out = append(out, chat.Message{Text: text, Sender: chat.SenderUser, Kind: "appointment"})
	}

	noun := "appointments"
	if len(appointments) == 1 {
		noun = "appointment"
	}
	summary := fmt.Sprintf("You have %d upcoming %s.", len(appointments), noun)
	out = append(out, chat.Message{Text: summary, Sender: chat.SenderBot})

	return out
}
