package session

import "sync"

// Role identifies who currently owns the session.
type Role int

const (
	RoleNone Role = iota
	RolePatient
	RoleDoctor
)

func (r Role) String() string {
	switch r {
	case RolePatient:
		return "patient"
	case RoleDoctor:
		return "doctor"
	default:
		return "none"
	}
}

// Persisted keys. Each role keeps its own pair so a logout clears only its
// own credentials.
const (
	keyPatientToken       = "patientToken"
	keyPatientDisplayName = "patientDisplayName"
	keyDoctorToken        = "doctorToken"
	keyDoctorDisplayName  = "doctorDisplayName"
)

// Event describes a role transition. Subscribers (the view selector) react
// to it instead of relying on a full reload.
type Event struct {
	From Role
	To   Role
}

// Store is the single source of truth for who is logged in. At most one
// role holds credentials at a time: logging in as one role evicts the
// other's persisted pair first.
type Store struct {
	mu     sync.Mutex
	kv     KV
	role   Role
	notify func(Event)
}

// NewStore restores the active role from the persisted KV. If both roles
// somehow have tokens on disk, the doctor wins and the patient pair is
// cleared, restoring the mutual-exclusion invariant.
func NewStore(kv KV) *Store {
	s := &Store{kv: kv}

	_, hasDoctor := kv.Get(keyDoctorToken)
	_, hasPatient := kv.Get(keyPatientToken)

	switch {
	case hasDoctor:
		if hasPatient {
			kv.Delete(keyPatientToken)
			kv.Delete(keyPatientDisplayName)
		}
		s.role = RoleDoctor
	case hasPatient:
		s.role = RolePatient
	default:
		s.role = RoleNone
	}
	return s
}

// OnChange registers a callback invoked after every role transition. The
// callback runs synchronously under the store lock, so it must not call
// back into the store.
func (s *Store) OnChange(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

func (s *Store) LoginPatient(token, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.role
	if s.role == RoleDoctor {
		s.clearDoctor()
	}
	s.kv.Set(keyPatientToken, token)
	s.kv.Set(keyPatientDisplayName, displayName)
	s.role = RolePatient
	s.emit(from)
}

func (s *Store) LoginDoctor(token, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.role
	if s.role == RolePatient {
		s.clearPatient()
	}
	s.kv.Set(keyDoctorToken, token)
	s.kv.Set(keyDoctorDisplayName, displayName)
	s.role = RoleDoctor
	s.emit(from)
}

// LogoutPatient clears the patient's persisted pair. It is a no-op when the
// patient is not the active role, apart from removing any stray keys.
func (s *Store) LogoutPatient() {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.role
	s.clearPatient()
	if s.role == RolePatient {
		s.role = RoleNone
		s.emit(from)
	}
}

func (s *Store) LogoutDoctor() {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.role
	s.clearDoctor()
	if s.role == RoleDoctor {
		s.role = RoleNone
		s.emit(from)
	}
}

func (s *Store) CurrentRole() Role {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.role
}

// Token returns the active role's bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.role {
	case RolePatient:
		v, _ := s.kv.Get(keyPatientToken)
		return v
	case RoleDoctor:
		v, _ := s.kv.Get(keyDoctorToken)
		return v
	default:
		return ""
	}
}

// DisplayName returns the active role's display name, or "" when logged out.
func (s *Store) DisplayName() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.role {
	case RolePatient:
		v, _ := s.kv.Get(keyPatientDisplayName)
		return v
	case RoleDoctor:
		v, _ := s.kv.Get(keyDoctorDisplayName)
		return v
	default:
		return ""
	}
}

func (s *Store) clearPatient() {
	s.kv.Delete(keyPatientToken)
	s.kv.Delete(keyPatientDisplayName)
}

func (s *Store) clearDoctor() {
	s.kv.Delete(keyDoctorToken)
	s.kv.Delete(keyDoctorDisplayName)
}

func (s *Store) emit(from Role) {
	if s.notify != nil && from != s.role {
		s.notify(Event{From: from, To: s.role})
	}
}
