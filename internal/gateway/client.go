// Package gateway is the thin HTTP layer between the client shell and the
// clinic backend. It never interprets appointment payloads beyond status
// checks; normalization of loose shapes belongs to the feed package.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Credentials is what a successful login yields: the bearer token the rest
// of the session rides on, plus the name to greet the user with.
type Credentials struct {
	Token       string
	DisplayName string
}

// RejectedError carries the backend's human-readable refusal for a doctor
// login with bad credentials. Transport failures use plain errors instead.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// ExchangeIdentity trades a third-party identity token for a backend
// session token and the patient's display name.
func (c *Client) ExchangeIdentity(ctx context.Context, identityToken string) (Credentials, error) {
	reqBody := map[string]string{"googleToken": identityToken}

	var resp struct {
		Token    string `json:"token"`
		UserName string `json:"userName"`
	}
	if err := c.postJSON(ctx, "/google-login", "", reqBody, &resp); err != nil {
		return Credentials{}, err
	}
	return Credentials{Token: resp.Token, DisplayName: resp.UserName}, nil
}

// DoctorLogin authenticates with a username/password pair. A rejected pair
// comes back as *RejectedError with the backend's message.
func (c *Client) DoctorLogin(ctx context.Context, username, password string) (Credentials, error) {
	reqBody := map[string]string{
		"username": username,
		"password": password,
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return Credentials{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/doctor-login", bytes.NewReader(body))
	if err != nil {
		return Credentials{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(req)
	if err != nil {
		return Credentials{}, err
	}
	defer httpResp.Body.Close()

	// The backend answers both accepted and rejected logins with a JSON
	// body carrying the success flag, so decode before the status check.
	var resp struct {
		Success    bool   `json:"success"`
		Token      string `json:"token"`
		DoctorName string `json:"doctorName"`
		Message    string `json:"message"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return Credentials{}, fmt.Errorf("doctor login: decode response: %w", err)
	}

	if !resp.Success {
		msg := resp.Message
		if msg == "" {
			msg = fmt.Sprintf("login failed with status %d", httpResp.StatusCode)
		}
		return Credentials{}, &RejectedError{Message: msg}
	}
	return Credentials{Token: resp.Token, DisplayName: resp.DoctorName}, nil
}

// SubmitMessage sends one patient utterance and returns the assistant's
// reply text.
func (c *Client) SubmitMessage(ctx context.Context, token, text string) (string, error) {
	reqBody := map[string]string{"text": text}

	var resp struct {
		Message string `json:"message"`
	}
	if err := c.postJSON(ctx, "/appointment", token, reqBody, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListAppointments fetches the doctor's upcoming appointments and returns
// the raw payload; the caller normalizes the shape.
func (c *Client) ListAppointments(ctx context.Context, token string, windowDays int) (json.RawMessage, error) {
	url := fmt.Sprintf("%s/upcoming-appointments?days=%d", c.baseURL, windowDays)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list appointments: status %d", httpResp.StatusCode)
	}

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// Logout asks the backend to revoke the token. The local session is cleared
// regardless of the outcome, so callers may ignore the error.
func (c *Client) Logout(ctx context.Context, token string) error {
	var resp struct {
		Message string `json:"message"`
	}
	return c.postJSON(ctx, "/logout", token, struct{}{}, &resp)
}

func (c *Client) postJSON(ctx context.Context, path, token string, reqBody, respBody any) error {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return fmt.Errorf("%s: status %d", path, httpResp.StatusCode)
	}
	return json.NewDecoder(httpResp.Body).Decode(respBody)
}
