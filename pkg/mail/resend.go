package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultResendURL = "https://api.resend.com"

// ResendTransport sends mail through the Resend HTTP API.
type ResendTransport struct {
	apiKey  string
	from    string
	baseURL string
	client  *http.Client
}

type ResendConfig struct {
	APIKey  string
	From    string
	BaseURL string
}

func NewResendTransport(cfg ResendConfig) *ResendTransport {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultResendURL
	}
	return &ResendTransport{
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		baseURL: baseURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

func (t *ResendTransport) Send(ctx context.Context, to, subject, htmlBody string) (string, error) {
	payload, err := json.Marshal(resendRequest{
		From:    t.from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return "", fmt.Errorf("encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mail transport: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read mail response: %w", err)
	}

	var parsed resendResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		parsed = resendResponse{}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := parsed.Message
		if detail == "" {
			detail = string(body)
		}
		return "", fmt.Errorf("mail transport: %s: %s", resp.Status, detail)
	}

	return parsed.ID, nil
}
