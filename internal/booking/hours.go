package booking

import "time"

// Clinic operating hours: Sunday to Thursday 08:00-19:00, Friday 08:00-12:00,
// Saturday closed. Appointments must start within these windows.

const (
	openingHour        = 8
	weekdayClosingHour = 19
	fridayClosingHour  = 12
)

// WithinOperatingHours reports whether an appointment starting at t falls
// inside the clinic's open window for that day.
func WithinOperatingHours(t time.Time) bool {
	hour := t.Hour()

	switch t.Weekday() {
	case time.Saturday:
		return false
	case time.Friday:
		return hour >= openingHour && hour < fridayClosingHour
	default:
		return hour >= openingHour && hour < weekdayClosingHour
	}
}

// OperatingHoursMessage is shown to patients who ask for a closed slot.
func OperatingHoursMessage() string {
	return "Clinic operating hours:\n" +
		"Sunday to Thursday: 8:00 AM - 7:00 PM\n" +
		"Friday: 8:00 AM - 12:00 PM\n" +
		"Saturday: Closed"
}
