package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const twilioBaseURL = "https://api.twilio.com"

// TwilioNotifier sends SMS messages through the Twilio REST API
type TwilioNotifier struct {
	baseURL    string
	accountSID string
	authToken  string
	fromNumber string
	client     *http.Client
	log        zerolog.Logger
}

// NewTwilioNotifier creates a Twilio-backed notifier
func NewTwilioNotifier(accountSID, authToken, fromNumber string, log zerolog.Logger) *TwilioNotifier {
	return &TwilioNotifier{
		baseURL:    twilioBaseURL,
		accountSID: accountSID,
		authToken:  authToken,
		fromNumber: fromNumber,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("client", "twilio").Logger(),
	}
}

// Send posts one SMS message to the Twilio messages endpoint
func (n *TwilioNotifier) Send(ctx context.Context, toNumber, message string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", n.baseURL, n.accountSID)

	form := url.Values{}
	form.Set("To", toNumber)
	form.Set("From", n.fromNumber)
	form.Set("Body", message)

	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(n.accountSID, n.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	// Twilio answers 201 Created for accepted messages.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("twilio API error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var created struct {
		SID string `json:"sid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	n.log.Info().Str("sid", created.SID).Str("to", toNumber).Msg("Sent SMS")
	return nil
}
