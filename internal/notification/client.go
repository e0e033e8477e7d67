// Package notification talks to the external notification service that owns
// users' email preferences.
package notification

import (
	"bytes"         // Request bodies
	"context"       // Request scoped cancellation
	"encoding/json" // JSON encoding/decoding
	"errors"        // Sentinel errors
	"fmt"           // Error wrapping
	"net/http"      // HTTP client
	"net/url"       // Query parameters
	"strconv"       // Bool formatting
	"time"          // Client timeout

	"github.com/google/uuid"     // User identifiers
	"github.com/sirupsen/logrus" // Logging library
)

// ErrNotificationsDisabled is returned by reads when no service URL is configured
var ErrNotificationsDisabled = errors.New("notification service is not configured")

// PreferenceType is the only channel the service supports
const PreferenceType = "EMAIL"

// PreferenceRequest is the upsert body of POST /preferences
type PreferenceRequest struct {
	UserID              uuid.UUID `json:"userId"`              // Owner of the preference
	Type                string    `json:"type"`                // Channel, always EMAIL
	NotificationEnabled bool      `json:"notificationEnabled"` // Whether mail is sent
	ContactInfo         string    `json:"contactInfo"`         // Email address
}

// Preference is the service's view of a user's setting
type Preference struct {
	Type        string `json:"type"`        // Channel
	Enabled     bool   `json:"enabled"`     // Whether mail is sent
	ContactInfo string `json:"contactInfo"` // Email address
}

// Client calls the notification service; a zero URL turns every call into a no-op
type Client struct {
	baseURL string       // e.g. http://localhost:8081/api/v1/notifications
	http    *http.Client // Underlying HTTP client
}

// NewClient creates a client for baseURL
func NewClient(baseURL string) *Client {
	return &Client{baseURL: baseURL, http: &http.Client{Timeout: 5 * time.Second}}
}

// Enabled reports whether a service URL is configured
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// SavePreference registers a preference; failures are logged, never returned
func (c *Client) SavePreference(ctx context.Context, userID uuid.UUID, enabled bool, email string) {
	if !c.Enabled() {
		return
	}
	body, err := json.Marshal(PreferenceRequest{
		UserID:              userID,
		Type:                PreferenceType,
		NotificationEnabled: enabled,
		ContactInfo:         email,
	})
	if err != nil {
		logrus.WithError(err).Error("Failed to encode notification preference")
		return
	}
	status, err := c.do(ctx, http.MethodPost, c.baseURL+"/preferences", bytes.NewReader(body), nil)
	if err != nil || !is2xx(status) {
		logrus.WithFields(logrus.Fields{
			"user_id": userID, // User ID
			"status":  status, // HTTP status, 0 when the call failed
			"error":   err,    // Transport error
		}).Error("Can't save notification settings")
	}
}

// Preference fetches the current preference; non-2xx responses are errors
func (c *Client) Preference(ctx context.Context, userID uuid.UUID) (*Preference, error) {
	if !c.Enabled() {
		return nil, ErrNotificationsDisabled
	}
	q := url.Values{"userId": {userID.String()}}
	var pref Preference
	status, err := c.do(ctx, http.MethodGet, c.baseURL+"/preferences?"+q.Encode(), nil, &pref)
	if err != nil {
		return nil, fmt.Errorf("get notification preference: %w", err)
	}
	if !is2xx(status) {
		return nil, fmt.Errorf("notification setting for user %s is not found: status %d", userID, status)
	}
	return &pref, nil
}

// ChangePreference switches sending on or off; failures are logged, never returned
func (c *Client) ChangePreference(ctx context.Context, userID uuid.UUID, enabled bool) {
	if !c.Enabled() {
		return
	}
	q := url.Values{"userId": {userID.String()}, "enabled": {strconv.FormatBool(enabled)}}
	status, err := c.do(ctx, http.MethodPut, c.baseURL+"/preferences?"+q.Encode(), nil, nil)
	if err != nil || !is2xx(status) {
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"enabled": enabled,
			"status":  status,
			"error":   err,
		}).Error("Can't change notification settings")
	}
}

// do sends a request and decodes a 2xx JSON body into dest when dest is set
func (c *Client) do(ctx context.Context, method, target string, body *bytes.Reader, dest any) (int, error) {
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, target, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, target, nil)
	}
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if dest != nil && is2xx(resp.StatusCode) {
		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func is2xx(status int) bool {
	return status >= 200 && status < 300
}
