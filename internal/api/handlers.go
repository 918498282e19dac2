package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/medibot/clinic-assistant/internal/auth"
	"github.com/medibot/clinic-assistant/internal/booking"
)

// MessageHandler is the slice of the assistant the API needs.
type MessageHandler interface {
	Handle(ctx context.Context, text, patientName string) (status, message string)
}

// AppointmentLister is the slice of the booking service the API needs.
type AppointmentLister interface {
	ListUpcoming(ctx context.Context, windowDays int) ([]booking.Appointment, error)
}

func googleLoginHandler(issuer *auth.Issuer, userinfoURL string, client *http.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GoogleLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if req.GoogleToken == "" {
			writeError(w, http.StatusBadRequest, "missing_token", "googleToken is required")
			return
		}

		name, email, err := fetchUserinfo(r.Context(), client, userinfoURL, req.GoogleToken)
		if err != nil {
			log.Printf("identity exchange failed: %v", err)
			writeError(w, http.StatusUnauthorized, "identity_exchange_failed", "failed to authenticate with identity provider")
			return
		}

		token, err := issuer.Issue(name, email, auth.RolePatient)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token_issue_failed", "failed to create token")
			return
		}

		writeJSON(w, http.StatusOK, GoogleLoginResponse{Token: token, UserName: name})
	}
}

// fetchUserinfo asks the identity provider who the access token belongs to.
// The given name is preferred for display, falling back to the full name.
func fetchUserinfo(ctx context.Context, client *http.Client, url, accessToken string) (name, email string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", errUserinfoStatus(resp.StatusCode)
	}

	var info struct {
		Email     string `json:"email"`
		Name      string `json:"name"`
		GivenName string `json:"given_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", "", err
	}

	name = info.GivenName
	if name == "" {
		name = info.Name
	}
	return name, info.Email, nil
}

type errUserinfoStatus int

func (e errUserinfoStatus) Error() string {
	return "userinfo endpoint returned status " + strconv.Itoa(int(e))
}

func doctorLoginHandler(issuer *auth.Issuer, creds auth.DoctorCredentials) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DoctorLoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		if !creds.Check(req.Username, req.Password) {
			writeJSON(w, http.StatusUnauthorized, DoctorLoginResponse{
				Success: false,
				Message: "Invalid username or password",
			})
			return
		}

		token, err := issuer.Issue(creds.FullName, "", auth.RoleDoctor)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "token_issue_failed", "failed to create token")
			return
		}

		writeJSON(w, http.StatusOK, DoctorLoginResponse{
			Success:    true,
			Token:      token,
			DoctorName: creds.FullName,
			Message:    "Login successful",
		})
	}
}

func appointmentHandler(svc MessageHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			writeError(w, http.StatusBadRequest, "missing_text", "text is required")
			return
		}

		id, _ := auth.IdentityFromContext(r.Context())
		patientName := id.Name
		if patientName == "" {
			patientName = "Anonymous"
		}

		status, message := svc.Handle(r.Context(), req.Text, patientName)
		writeJSON(w, http.StatusOK, AppointmentReply{Status: status, Message: message})
	}
}

func upcomingAppointmentsHandler(svc AppointmentLister, defaultWindowDays int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		windowDays := defaultWindowDays
		if v := r.URL.Query().Get("days"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n <= 0 {
				writeError(w, http.StatusBadRequest, "invalid_days", "days must be a positive integer")
				return
			}
			windowDays = n
		}

		appointments, err := svc.ListUpcoming(r.Context(), windowDays)
		if err != nil {
			log.Printf("list upcoming appointments: %v", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to load appointments")
			return
		}

		items := make([]AppointmentItem, 0, len(appointments))
		for _, a := range appointments {
			items = append(items, AppointmentItem{
				Start:       a.StartTime,
				PatientName: a.PatientName,
			})
		}

		writeJSON(w, http.StatusOK, AppointmentListResponse{Appointments: items})
	}
}

func logoutHandler(revoked auth.RevocationStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.IdentityFromContext(r.Context())
		if ok && id.JTI != "" {
			ttl := id.TTL
			if ttl <= 0 {
				ttl = time.Minute
			}
			if err := revoked.Revoke(r.Context(), id.JTI, ttl); err != nil {
				log.Printf("revoke token: %v", err)
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
	}
}
