package assistant

import (
	"testing"
	"time"
)

func TestParseStructuredReplyDateTime(t *testing.T) {
	got := ParseStructuredReply("DATETIME: 2026-09-02 14:30 | Booking you in for tomorrow afternoon.", time.UTC)

	if got.Type != ResultDateTime {
		t.Fatalf("expected datetime result, got %v", got.Type)
	}
	want := time.Date(2026, time.September, 2, 14, 30, 0, 0, time.UTC)
	if !got.When.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got.When)
	}
	if got.Message != "Booking you in for tomorrow afternoon." {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

func TestParseStructuredReplyDateInDateTimeSlot(t *testing.T) {
	got := ParseStructuredReply("DATETIME: 2026-09-02 | What time works for you?", time.UTC)

	if got.Type != ResultDateOnly {
		t.Fatalf("a bare date should degrade to date-only, got %v", got.Type)
	}
}

func TestParseStructuredReplyDateOnly(t *testing.T) {
	got := ParseStructuredReply("DATE_ONLY: 2026-09-05 | What time on Saturday?", time.UTC)

	if got.Type != ResultDateOnly {
		t.Fatalf("expected date-only result, got %v", got.Type)
	}
	if got.When.Day() != 5 {
		t.Fatalf("unexpected date: %v", got.When)
	}
}

func TestParseStructuredReplyTimeOnly(t *testing.T) {
	got := ParseStructuredReply("TIME_ONLY: 14:30 | Which day did you have in mind?", time.UTC)

	if got.Type != ResultTimeOnly {
		t.Fatalf("expected time-only result, got %v", got.Type)
	}
	if got.When.Hour() != 14 || got.When.Minute() != 30 {
		t.Fatalf("unexpected time: %v", got.When)
	}
}

func TestParseStructuredReplyGreeting(t *testing.T) {
	got := ParseStructuredReply("GREETING | Hello! How can I help you today?", time.UTC)

	if got.Type != ResultGreeting {
		t.Fatalf("expected greeting, got %v", got.Type)
	}
	if got.Message != "Hello! How can I help you today?" {
		t.Fatalf("unexpected message: %q", got.Message)
	}
}

func TestParseStructuredReplyFreeText(t *testing.T) {
	got := ParseStructuredReply("I can only help with appointments.", time.UTC)

	if got.Type != ResultUnknown {
		t.Fatalf("expected unknown, got %v", got.Type)
	}
	if got.Message != "I can only help with appointments." {
		t.Fatalf("raw reply should pass through, got %q", got.Message)
	}
}

// Tuesday afternoon, well inside operating hours.
var parseNow = time.Date(2026, time.September, 1, 14, 0, 0, 0, time.UTC)

func TestExtractDateTime(t *testing.T) {
	cases := []struct {
		text string
		want time.Time
	}{
		{"tomorrow at 2pm", time.Date(2026, time.September, 2, 14, 0, 0, 0, time.UTC)},
		{"today at 4:30 pm", time.Date(2026, time.September, 1, 16, 30, 0, 0, time.UTC)},
		{"can I come on thursday at 10am", time.Date(2026, time.September, 3, 10, 0, 0, 0, time.UTC)},
		{"next week at 11am", time.Date(2026, time.September, 8, 11, 0, 0, 0, time.UTC)},
		// same weekday means the next one, not today
		{"tuesday at 9am", time.Date(2026, time.September, 8, 9, 0, 0, 0, time.UTC)},
		// day without a time defaults to opening hour
		{"tomorrow please", time.Date(2026, time.September, 2, 9, 0, 0, 0, time.UTC)},
		// bare small hour reads as afternoon
		{"tomorrow at 3", time.Date(2026, time.September, 2, 15, 0, 0, 0, time.UTC)},
		// time-only already past today rolls to tomorrow
		{"at 10am", time.Date(2026, time.September, 2, 10, 0, 0, 0, time.UTC)},
	}

	for _, tc := range cases {
		got, ok := ExtractDateTime(tc.text, parseNow)
		if !ok {
			t.Fatalf("ExtractDateTime(%q): no result", tc.text)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ExtractDateTime(%q): expected %v, got %v", tc.text, tc.want, got)
		}
	}
}

func TestExtractDateTimeNoSignal(t *testing.T) {
	for _, text := range []string{"hello", "I need an appointment", "thanks!"} {
		if _, ok := ExtractDateTime(text, parseNow); ok {
			t.Fatalf("ExtractDateTime(%q): expected no result", text)
		}
	}
}
