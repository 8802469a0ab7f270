package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"otp-verify/config"
	"otp-verify/pkg/logger"
)

// SMSSender dispatches a text message to an E.164 phone number
type SMSSender interface {
	SendSMS(msisdn, message string) error
}

// EmailSender dispatches a plain-text email
type EmailSender interface {
	SendEmail(email, subject, body string) error
}

// HTTPSMSSender posts messages to an external SMS gateway
type HTTPSMSSender struct {
	cfg    config.Delivery
	client *http.Client
}

// NewHTTPSMSSender creates an SMS sender backed by the configured gateway
func NewHTTPSMSSender(cfg config.Delivery) *HTTPSMSSender {
	return &HTTPSMSSender{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type smsGatewayRequest struct {
	SrcNum    string `json:"src_num,omitempty"`
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
}

// SendSMS posts the message to the gateway and fails on any non-2xx status
func (s *HTTPSMSSender) SendSMS(msisdn, message string) error {
	if s.cfg.SMSProviderURL == "" {
		return fmt.Errorf("SMS provider URL not configured")
	}

	payload := smsGatewayRequest{
		SrcNum:    s.cfg.SMSSourceNumber,
		Recipient: msisdn,
		Body:      message,
	}
	return postJSON(s.client, s.cfg.SMSProviderURL, s.cfg.APIKey, payload)
}

// HTTPEmailSender posts messages to an external transactional email provider
type HTTPEmailSender struct {
	cfg    config.Delivery
	client *http.Client
}

// NewHTTPEmailSender creates an email sender backed by the configured provider
func NewHTTPEmailSender(cfg config.Delivery) *HTTPEmailSender {
	return &HTTPEmailSender{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

type emailProviderRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendEmail posts the message to the provider and fails on any non-2xx status
func (s *HTTPEmailSender) SendEmail(email, subject, body string) error {
	if s.cfg.EmailProviderURL == "" {
		return fmt.Errorf("email provider URL not configured")
	}

	payload := emailProviderRequest{
		From:    s.cfg.EmailSender,
		To:      email,
		Subject: subject,
		Body:    body,
	}
	return postJSON(s.client, s.cfg.EmailProviderURL, s.cfg.APIKey, payload)
}

func postJSON(client *http.Client, url, apiKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode delivery request: %w", err)
	}

	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create delivery request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send delivery request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("delivery provider returned status %d: %s", resp.StatusCode, string(raw))
	}

	return nil
}

// LogSMSSender writes messages to the log instead of a gateway; used in
// development when no provider is configured
type LogSMSSender struct {
	logger *logger.Logger
}

// NewLogSMSSender creates a logging SMS sender
func NewLogSMSSender(logger *logger.Logger) *LogSMSSender {
	return &LogSMSSender{logger: logger}
}

// SendSMS logs the message
func (s *LogSMSSender) SendSMS(msisdn, message string) error {
	s.logger.Infow("SMS (log sender)", "recipient", msisdn, "message", message)
	return nil
}

// LogEmailSender writes messages to the log instead of a provider
type LogEmailSender struct {
	logger *logger.Logger
}

// NewLogEmailSender creates a logging email sender
func NewLogEmailSender(logger *logger.Logger) *LogEmailSender {
	return &LogEmailSender{logger: logger}
}

// SendEmail logs the message
func (s *LogEmailSender) SendEmail(email, subject, body string) error {
	s.logger.Infow("Email (log sender)", "recipient", email, "subject", subject, "body", body)
	return nil
}
