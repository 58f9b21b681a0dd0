// Package sms sends notifications through the Arkesel gateway.
package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://sms.arkesel.com/sms/api"

type Client struct {
	apiKey   string
	senderID string
	baseURL  string
	httpc    *http.Client
}

// NewClient returns nil when no API key is configured; callers treat a nil
// client as "gateway not configured".
func NewClient(apiKey, senderID string) *Client {
	return NewClientWithBaseURL(apiKey, senderID, defaultBaseURL)
}

func NewClientWithBaseURL(apiKey, senderID, baseURL string) *Client {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey:   apiKey,
		senderID: strings.TrimSpace(senderID),
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpc:    &http.Client{Timeout: 10 * time.Second},
	}
}

// gatewayResponse covers the structured shape; the gateway also answers in
// plain text, which Send handles by status code alone.
type gatewayResponse struct {
	Code        string `json:"code"`
	Status      string `json:"status"`
	Message     string `json:"message"`
	Description string `json:"description"`
}

// Send delivers one plain-text message. The gateway takes every parameter in
// the query string of a GET request.
func (c *Client) Send(ctx context.Context, recipient, message string) error {
	if c == nil {
		return fmt.Errorf("sms gateway is not configured")
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" || strings.TrimSpace(message) == "" {
		return fmt.Errorf("recipient and message are required")
	}

	params := url.Values{}
	params.Set("action", "send-sms")
	params.Set("api_key", c.apiKey)
	params.Set("to", recipient)
	params.Set("from", c.senderID)
	params.Set("sms", message)
	params.Set("type", "plain")
	params.Set("unicode", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sms request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed gatewayResponse
	if json.Unmarshal(body, &parsed) == nil && (parsed.Code != "" || parsed.Status != "") {
		if parsed.Code == "ok" || parsed.Status == "success" {
			return nil
		}
		reason := parsed.Message
		if reason == "" {
			reason = parsed.Description
		}
		if reason == "" {
			reason = "unknown gateway error"
		}
		return fmt.Errorf("sms failed: %s (code %s)", reason, orNA(parsed.Code))
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("sms failed: gateway returned status %d: %s",
		resp.StatusCode, strings.TrimSpace(string(body)))
}

func orNA(v string) string {
	if v == "" {
		return "N/A"
	}
	return v
}
