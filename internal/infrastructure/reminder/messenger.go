package reminder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Messenger sends a WhatsApp message to a phone number.
type Messenger interface {
	SendWhatsApp(ctx context.Context, to, body string) error
}

// TwilioConfig carries the credentials for the Twilio messaging API.
type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	WhatsAppNumber string
	BaseURL        string
	HTTPTimeout    time.Duration
}

// TwilioMessenger implements Messenger against the Twilio REST API.
type TwilioMessenger struct {
	accountSID string
	authToken  string
	from       string
	baseURL    string
	httpClient *http.Client
}

// NewTwilioMessenger creates a TwilioMessenger.
func NewTwilioMessenger(cfg TwilioConfig) *TwilioMessenger {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.twilio.com"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}

	return &TwilioMessenger{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.WhatsAppNumber,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

// SendWhatsApp posts a message to the Twilio Messages endpoint. The recipient
// number gets the whatsapp: channel prefix expected by the API.
func (m *TwilioMessenger) SendWhatsApp(ctx context.Context, to, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", m.baseURL, m.accountSID)

	form := url.Values{}
	form.Set("From", m.from)
	form.Set("To", "whatsapp:"+to)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(m.accountSID, m.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		}
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("twilio error %d: %s", apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("twilio returned status %d", resp.StatusCode)
	}

	return nil
}

// LogMessenger is a messenger that only logs, for local development.
type LogMessenger struct {
	logger *slog.Logger
}

// NewLogMessenger creates a new LogMessenger.
func NewLogMessenger(logger *slog.Logger) *LogMessenger {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogMessenger{logger: logger}
}

// SendWhatsApp logs the message instead of sending it.
func (m *LogMessenger) SendWhatsApp(ctx context.Context, to, body string) error {
	m.logger.Info("WHATSAPP MESSAGE",
		slog.String("to", to),
		slog.String("body", body))
	return nil
}
