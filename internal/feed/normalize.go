package feed

import (
	"encoding/json"
	"time"
)

// Appointment is the upstream entity the feed renders. It is read-only
// here; nothing outlives the current load cycle.
type Appointment struct {
	Start       time.Time
	PatientName string
}

// The upstream payload has not been stable about its field names, so decode
// every spelling that has been observed.
func (a *Appointment) UnmarshalJSON(data []byte) error {
	var aux struct {
		Start       time.Time `json:"start"`
		PatientName string    `json:"patient_name"`
		CamelName   string    `json:"patientName"`
		UserName    string    `json:"userName"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.Start = aux.Start
	a.PatientName = aux.PatientName
	if a.PatientName == "" {
		a.PatientName = aux.CamelName
	}
	if a.PatientName == "" {
		a.PatientName = aux.UserName
	}
	return nil
}

// Normalize reshapes a loosely-typed appointments payload into a flat
// sequence. A bare array is used as-is; an object wrapping an array uses
// the wrapped field; anything else yields an empty sequence. It never
// fails and never re-sorts: upstream order is trusted.
func Normalize(raw json.RawMessage) []Appointment {
	if len(raw) == 0 {
		return []Appointment{}
	}

	var direct []Appointment
	if err := json.Unmarshal(raw, &direct); err == nil {
		if direct == nil {
			return []Appointment{}
		}
		return direct
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return []Appointment{}
	}

	// The documented field name first, then any field that happens to
	// hold an appointment array.
	if inner, ok := wrapper["appointments"]; ok {
		var nested []Appointment
		if err := json.Unmarshal(inner, &nested); err == nil && nested != nil {
			return nested
		}
	}
	for _, inner := range wrapper {
		var nested []Appointment
		if err := json.Unmarshal(inner, &nested); err == nil && nested != nil {
			return nested
		}
	}
	return []Appointment{}
}

// DateLabel condenses an appointment date relative to now: the current
// calendar date reads "Today", the next "Tomorrow", anything else the
// long-form date. Comparison is by calendar date, not 24h distance.
func DateLabel(start, now time.Time) string {
	startDate := start.In(now.Location())
	y1, m1, d1 := startDate.Date()

	y2, m2, d2 := now.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}

	y3, m3, d3 := now.AddDate(0, 0, 1).Date()
	if y1 == y3 && m1 == m3 && d1 == d3 {
		return "Tomorrow"
	}

	return startDate.Format("January 2, 2006")
}
