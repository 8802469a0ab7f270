// Package otpclient is a small HTTP client for the OTP service, meant for
// other internal services that need to trigger or check phone verification.
package otpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"otp-verify/pkg/otperr"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL, e.g. "http://otp-verify:8080"
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	PhoneNumber string `json:"phone_number"`
	DeviceID    string `json:"device_id,omitempty"`
}

type verifyRequest struct {
	PhoneNumber string `json:"phone_number"`
	Code        string `json:"code"`
}

type verifyResponse struct {
	Success bool `json:"success"`
}

type errorBody struct {
	Code        string `json:"code"`
	Message     string `json:"message"`
	WaitSeconds int    `json:"wait_seconds,omitempty"`
}

// Send requests a verification code for the given phone number. Policy
// failures come back as *otperr.Error so callers can branch on the kind.
func (c *Client) Send(ctx context.Context, phoneNumber, deviceID string) error {
	resp, err := c.post(ctx, "/api/v1/otp/send", sendRequest{
		PhoneNumber: phoneNumber,
		DeviceID:    deviceID,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Code != "" {
		return &otperr.Error{
			Kind:        otperr.Kind(eb.Code),
			Message:     eb.Message,
			WaitSeconds: eb.WaitSeconds,
		}
	}
	return fmt.Errorf("otp send failed with status %d", resp.StatusCode)
}

// Verify checks a code for the given phone number. Any failure, wrong code,
// expired code or transport error alike, reports false.
func (c *Client) Verify(ctx context.Context, phoneNumber, code string) bool {
	resp, err := c.post(ctx, "/api/v1/otp/verify", verifyRequest{
		PhoneNumber: phoneNumber,
		Code:        code,
	})
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}

	var vr verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&vr); err != nil {
		return false
	}
	return vr.Success
}

func (c *Client) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	return resp, nil
}
