package api

import "time"

type GoogleLoginRequest struct {
	GoogleToken string `json:"googleToken"`
}

type GoogleLoginResponse struct {
	Token    string `json:"token"`
	UserName string `json:"userName"`
}

type DoctorLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type DoctorLoginResponse struct {
	Success    bool   `json:"success"`
	Token      string `json:"token,omitempty"`
	DoctorName string `json:"doctorName,omitempty"`
	Message    string `json:"message"`
}

type AppointmentRequest struct {
	Text string `json:"text"`
}

type AppointmentReply struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type AppointmentItem struct {
	Start       time.Time `json:"start"`
	PatientName string    `json:"patient_name"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentItem `json:"appointments"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
