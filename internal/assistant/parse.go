package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

type ResultType string

const (
	ResultDateTime ResultType = "datetime"
	ResultDateOnly ResultType = "date_only"
	ResultTimeOnly ResultType = "time_only"
	ResultGreeting ResultType = "greeting"
	ResultUnknown  ResultType = "unknown"
)

// Result is one interpreted assistant turn. When is meaningful only for
// ResultDateTime.
type Result struct {
	Type    ResultType
	When    time.Time
	Message string
}

// ParseStructuredReply decodes the reply contract the responder is prompted
// to follow:
//
//	DATETIME: YYYY-MM-DD HH:MM | message
//	DATE_ONLY: YYYY-MM-DD | message
//	TIME_ONLY: HH:MM | message
//	GREETING | message
//
// Anything that doesn't match is passed through as ResultUnknown with the raw
// reply as the message.
func ParseStructuredReply(reply string, loc *time.Location) Result {
	reply = strings.TrimSpace(reply)

	switch {
	case strings.Contains(reply, "DATETIME:"):
		head, msg, ok := splitReply(reply, "DATETIME:")
		if !ok {
			return Result{Type: ResultUnknown, Message: reply}
		}
		when, err := time.ParseInLocation("2006-01-02 15:04", head, loc)
		if err != nil {
			// a bare date in the DATETIME slot degrades to date-only
			if d, derr := time.ParseInLocation("2006-01-02", head, loc); derr == nil {
				return Result{Type: ResultDateOnly, When: d, Message: msg}
			}
			return Result{Type: ResultUnknown, Message: reply}
		}
		return Result{Type: ResultDateTime, When: when, Message: msg}

	case strings.Contains(reply, "DATE_ONLY:"):
		head, msg, ok := splitReply(reply, "DATE_ONLY:")
		if !ok {
			return Result{Type: ResultUnknown, Message: reply}
		}
		when, err := time.ParseInLocation("2006-01-02", head, loc)
		if err != nil {
			return Result{Type: ResultUnknown, Message: reply}
		}
		return Result{Type: ResultDateOnly, When: when, Message: msg}

	case strings.Contains(reply, "TIME_ONLY:"):
		head, msg, ok := splitReply(reply, "TIME_ONLY:")
		if !ok {
			return Result{Type: ResultUnknown, Message: reply}
		}
		when, err := time.ParseInLocation("15:04", head, loc)
		if err != nil {
			return Result{Type: ResultUnknown, Message: reply}
		}
		return Result{Type: ResultTimeOnly, When: when, Message: msg}

	case strings.Contains(reply, "GREETING"):
		if _, msg, ok := splitReply(reply, "GREETING:"); ok {
			return Result{Type: ResultGreeting, Message: msg}
		}
		if _, msg, ok := splitReply(reply, "GREETING"); ok {
			return Result{Type: ResultGreeting, Message: msg}
		}
		msg := strings.TrimSpace(strings.Replace(reply, "GREETING:", "", 1))
		msg = strings.TrimSpace(strings.Replace(msg, "GREETING", "", 1))
		return Result{Type: ResultGreeting, Message: msg}

	default:
		return Result{Type: ResultUnknown, Message: reply}
	}
}

func splitReply(reply, tag string) (head, msg string, ok bool) {
	parts := strings.SplitN(reply, "|", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	head = strings.TrimSpace(strings.Replace(parts[0], tag, "", 1))
	msg = strings.TrimSpace(parts[1])
	return head, msg, true
}

var timePattern = regexp.MustCompile(`(?i)at\s+(\d{1,2})(?:[:.](\d{2}))?(?:\s*(am|pm))?`)

// ExtractDateTime is the local fallback used when the responder is
// unavailable. It understands "today", "tomorrow", "next week", weekday
// names, and an "at H[:MM][am|pm]" time clause. Bare hours below 8 are read
// as afternoon times, matching how patients phrase clinic visits.
func ExtractDateTime(text string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)

	day, hasDay := extractDay(lower, now)
	hour, minute, hasTime := extractClock(lower)

	if !hasDay && !hasTime {
		return time.Time{}, false
	}

	if !hasDay {
		day = now
	}
	if !hasTime {
		hour, minute = 9, 0 // opening-hour default when only a day is given
	}

	when := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())

	// a time-only request that has already passed today means tomorrow
	if !hasDay && when.Before(now) {
		when = when.AddDate(0, 0, 1)
	}

	return when, true
}

func extractDay(lower string, now time.Time) (time.Time, bool) {
	switch {
	case strings.Contains(lower, "tomorrow"):
		return now.AddDate(0, 0, 1), true
	case strings.Contains(lower, "today"):
		return now, true
	case strings.Contains(lower, "next week"):
		return now.AddDate(0, 0, 7), true
	}

	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if !strings.Contains(lower, strings.ToLower(wd.String())) {
			continue
		}
		days := int(wd-now.Weekday()+7) % 7
		if days == 0 {
			days = 7 // "monday" on a Monday means next Monday
		}
		return now.AddDate(0, 0, days), true
	}

	return time.Time{}, false
}

func extractClock(lower string) (hour, minute int, ok bool) {
	m := timePattern.FindStringSubmatch(lower)
	if m == nil {
		return 0, 0, false
	}

	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}

	switch m[3] {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	default:
		if hour > 0 && hour < 8 {
			hour += 12
		}
	}

	if hour > 23 || minute > 59 {
		return 0, 0, false
	}

	return hour, minute, true
}
