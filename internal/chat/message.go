package chat

// Sender picks the transcript column a message renders in. User is the
// right-aligned "self" column for whichever actor owns the session; Bot is
// assistant and system output.
type Sender int

const (
	SenderUser Sender = iota
	SenderBot
)

func (s Sender) String() string {
	if s == SenderBot {
		return "bot"
	}
	return "user"
}

// Message is one transcript entry. Entries are never mutated after they are
// appended.
type Message struct {
	Text   string
	Sender Sender
	// Kind tags the entry for icon selection only ("appointment" on feed
	// lines). It carries no behavioral weight.
	Kind string
}
