package session

import (
	"path/filepath"
	"testing"
)

func TestLoginPatientThenDoctorMutualExclusion(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv)

	store.LoginPatient("p-token", "Alice")
	store.LoginDoctor("d-token", "Dr. House")

	if got := store.CurrentRole(); got != RoleDoctor {
		t.Fatalf("expected RoleDoctor, got %v", got)
	}
	if _, ok := kv.Get("patientToken"); ok {
		t.Fatal("patient token should have been cleared by doctor login")
	}
	if _, ok := kv.Get("patientDisplayName"); ok {
		t.Fatal("patient display name should have been cleared by doctor login")
	}
	if got := store.Token(); got != "d-token" {
		t.Fatalf("expected doctor token, got %q", got)
	}
}

func TestLoginDoctorThenPatientMutualExclusion(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv)

	store.LoginDoctor("d-token", "Dr. House")
	store.LoginPatient("p-token", "Alice")

	if got := store.CurrentRole(); got != RolePatient {
		t.Fatalf("expected RolePatient, got %v", got)
	}
	if _, ok := kv.Get("doctorToken"); ok {
		t.Fatal("doctor token should have been cleared by patient login")
	}
	if got := store.DisplayName(); got != "Alice" {
		t.Fatalf("expected Alice, got %q", got)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv)

	store.LoginPatient("p-token", "Alice")
	store.LogoutPatient()
	store.LogoutPatient()

	if got := store.CurrentRole(); got != RoleNone {
		t.Fatalf("expected RoleNone, got %v", got)
	}
	if got := store.Token(); got != "" {
		t.Fatalf("expected empty token, got %q", got)
	}
}

func TestLogoutOtherRoleIsNoOp(t *testing.T) {
	kv := NewMemoryKV()
	store := NewStore(kv)

	store.LoginDoctor("d-token", "Dr. House")
	store.LogoutPatient()

	if got := store.CurrentRole(); got != RoleDoctor {
		t.Fatalf("doctor session should survive a patient logout, got %v", got)
	}
}

func TestRestoreFromPersistedState(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set("doctorToken", "d-token")
	kv.Set("doctorDisplayName", "Dr. House")

	store := NewStore(kv)

	if got := store.CurrentRole(); got != RoleDoctor {
		t.Fatalf("expected RoleDoctor after restore, got %v", got)
	}
	if got := store.DisplayName(); got != "Dr. House" {
		t.Fatalf("expected Dr. House, got %q", got)
	}
}

func TestRestoreWithBothTokensPrefersDoctor(t *testing.T) {
	kv := NewMemoryKV()
	kv.Set("patientToken", "p-token")
	kv.Set("patientDisplayName", "Alice")
	kv.Set("doctorToken", "d-token")
	kv.Set("doctorDisplayName", "Dr. House")

	store := NewStore(kv)

	if got := store.CurrentRole(); got != RoleDoctor {
		t.Fatalf("expected RoleDoctor, got %v", got)
	}
	if _, ok := kv.Get("patientToken"); ok {
		t.Fatal("conflicting patient token should have been cleared on restore")
	}
}

func TestChangeEvents(t *testing.T) {
	store := NewStore(NewMemoryKV())

	var events []Event
	store.OnChange(func(e Event) { events = append(events, e) })

	store.LoginPatient("p-token", "Alice")
	store.LoginDoctor("d-token", "Dr. House")
	store.LogoutDoctor()
	store.LogoutDoctor() // already inactive, must not emit

	want := []Event{
		{From: RoleNone, To: RolePatient},
		{From: RolePatient, To: RoleDoctor},
		{From: RoleDoctor, To: RoleNone},
	}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %d", len(want), len(events))
	}
	for i, e := range events {
		if e != want[i] {
			t.Fatalf("event %d: expected %+v, got %+v", i, want[i], e)
		}
	}
}

func TestFileKVSurvivesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")

	kv, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("NewFileKV: %v", err)
	}
	NewStore(kv).LoginPatient("p-token", "Alice")

	kv2, err := NewFileKV(path)
	if err != nil {
		t.Fatalf("NewFileKV reload: %v", err)
	}
	store := NewStore(kv2)

	if got := store.CurrentRole(); got != RolePatient {
		t.Fatalf("expected RolePatient after reload, got %v", got)
	}
	if got := store.Token(); got != "p-token" {
		t.Fatalf("expected persisted token, got %q", got)
	}
}
