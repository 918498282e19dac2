// Package view decides which driver owns the screen for the current role.
package view

import "github.com/medibot/clinic-assistant/internal/session"

// Kind names one of the two top-level screens.
type Kind int

const (
	// PatientChat is shown both to logged-out visitors and to
	// authenticated patients; authentication only gates whether a sent
	// message reaches the backend.
	PatientChat Kind = iota
	// DoctorFeed is the read-only appointment feed.
	DoctorFeed
)

func (k Kind) String() string {
	if k == DoctorFeed {
		return "doctor-feed"
	}
	return "patient-chat"
}

// Select maps the session role to the active screen.
func Select(role session.Role) Kind {
	if role == session.RoleDoctor {
		return DoctorFeed
	}
	return PatientChat
}
