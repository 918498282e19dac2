package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/medibot/clinic-assistant/internal/session"
)

// Scripted bot lines for the patient flow.
const (
	welcomeMessage     = "Welcome, you have successfully logged in, now you can make an appointment, write me the desired time."
	farewellMessage    = "You have successfully logged out."
	notSignedInMessage = "Oops! You're not logged in yet. To save your appointment, please sign in with Google."
	sendFailureMessage = "Sorry, I encountered an error. Please try again later."
)

// MessageSender is the one gateway operation the controller needs.
type MessageSender interface {
	SubmitMessage(ctx context.Context, token, text string) (string, error)
}

// SessionReader is the slice of the session store the controller reads.
type SessionReader interface {
	CurrentRole() session.Role
	Token() string
}

// Controller owns the patient conversation: the append-only transcript, the
// typing indicator, and the send protocol. Each Submit resolves on its own;
// when several are in flight, bot replies land in completion order, not
// submission order.
type Controller struct {
	mu         sync.Mutex
	session    SessionReader
	sender     MessageSender
	transcript []Message
	pending    int
	notify     func(Message)
}

func NewController(sess SessionReader, sender MessageSender) *Controller {
	return &Controller{session: sess, sender: sender}
}

// OnAppend registers a callback invoked for every appended message, in
// append order. It runs under the controller lock; keep it cheap and do not
// call back into the controller.
func (c *Controller) OnAppend(fn func(Message)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = fn
}

// Submit handles one user utterance. The user's echo is appended before any
// network work. Whitespace-only input is dropped without a trace. The
// returned channel closes when the call has fully resolved; the synchronous
// paths (empty input, not signed in) return an already-closed channel.
//
// Errors never escape: a failed send becomes a scripted bot apology.
func (c *Controller) Submit(ctx context.Context, text string) <-chan struct{} {
	done := make(chan struct{})

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		close(done)
		return done
	}

	c.mu.Lock()
	c.append(Message{Text: trimmed, Sender: SenderUser})

	if c.session.CurrentRole() != session.RolePatient {
		c.append(Message{Text: notSignedInMessage, Sender: SenderBot})
		c.mu.Unlock()
		close(done)
		return done
	}

	// Capture the token at submission time so the request is tied to the
	// identity that issued it, even if the session changes mid-flight.
	token := c.session.Token()
	c.pending++
	c.mu.Unlock()

	go func() {
		defer close(done)

		reply, err := c.sender.SubmitMessage(ctx, token, trimmed)
		if err != nil || reply == "" {
			reply = sendFailureMessage
		}

		c.mu.Lock()
		c.pending--
		c.append(Message{Text: reply, Sender: SenderBot})
		c.mu.Unlock()
	}()

	return done
}

// LoginSuccess is called by the authentication flow once the identity
// exchange has been confirmed and the session updated.
func (c *Controller) LoginSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.append(Message{Text: welcomeMessage, Sender: SenderBot})
}

// Logout appends the farewell line. The session store has already cleared
// the role by the time this runs.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.append(Message{Text: farewellMessage, Sender: SenderBot})
}

// Typing reports whether at least one send is awaiting its reply.
func (c *Controller) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending > 0
}

// Transcript returns a copy of the messages in append order.
func (c *Controller) Transcript() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Controller) append(m Message) {
	c.transcript = append(c.transcript, m)
	if c.notify != nil {
		c.notify(m)
	}
}
