// Package client posts booking requests to the appointment email endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/DavidJ001/patient-request-form/internal/booking"
	"github.com/DavidJ001/patient-request-form/internal/submission"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

// Client submits requests over HTTP. Every failure, whether the transport
// breaks or the endpoint answers non-2xx, is a *submission.DeliveryError.
type Client struct {
	endpoint   string
	referrals  string
	apiKey     string
	httpClient *http.Client
	logger     *logging.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithAPIKey sends key in the apikey and Authorization headers.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = strings.TrimSpace(key) }
}

// WithReferralEndpoint enables UploadReferral against url.
func WithReferralEndpoint(url string) Option {
	return func(c *Client) { c.referrals = strings.TrimSpace(url) }
}

// New creates a Client for endpoint.
func New(endpoint string, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		endpoint:   strings.TrimSpace(endpoint),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type submitRequest struct {
	FormData booking.Request `json:"formData"`
}

type submitResponse struct {
	Success bool   `json:"success"`
	EmailID string `json:"emailId"`
	Error   string `json:"error"`
}

// Submit sends r once. It implements submission.Submitter.
func (c *Client) Submit(ctx context.Context, r booking.Request) (submission.Receipt, error) {
	if c.endpoint == "" {
		return submission.Receipt{}, &submission.DeliveryError{Err: errors.New("booking endpoint not configured")}
	}
	body, err := json.Marshal(submitRequest{FormData: r})
	if err != nil {
		return submission.Receipt{}, fmt.Errorf("client: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return submission.Receipt{}, &submission.DeliveryError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("client: submit failed", "error", err)
		return submission.Receipt{}, &submission.DeliveryError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return submission.Receipt{}, &submission.DeliveryError{Err: err}
	}

	var out submitResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(out.Error)
		if decodeErr != nil || msg == "" {
			msg = fmt.Sprintf("endpoint returned %d", resp.StatusCode)
		}
		c.logger.Warn("client: submit rejected", "status", resp.StatusCode)
		return submission.Receipt{}, &submission.DeliveryError{Err: errors.New(msg)}
	}
	if decodeErr != nil {
		return submission.Receipt{}, &submission.DeliveryError{Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	if !out.Success {
		msg := out.Error
		if msg == "" {
			msg = "endpoint did not confirm the send"
		}
		return submission.Receipt{}, &submission.DeliveryError{Err: errors.New(msg)}
	}
	return submission.Receipt{EmailID: out.EmailID}, nil
}

func (c *Client) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// ErrUploadsDisabled is returned by UploadReferral when no referral endpoint
// is configured.
var ErrUploadsDisabled = errors.New("client: referral uploads not configured")

// UploadsEnabled reports whether UploadReferral can be used.
func (c *Client) UploadsEnabled() bool { return c.referrals != "" }

// UploadReferral posts a referral document as multipart field "file" and
// returns the stored document handle.
func (c *Client) UploadReferral(ctx context.Context, name string, body io.Reader) (booking.Document, error) {
	if !c.UploadsEnabled() {
		return booking.Document{}, ErrUploadsDisabled
	}
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", name)
	if err != nil {
		return booking.Document{}, fmt.Errorf("client: build upload: %w", err)
	}
	if _, err := io.Copy(part, io.LimitReader(body, booking.MaxReferralSize+1)); err != nil {
		return booking.Document{}, fmt.Errorf("client: read referral: %w", err)
	}
	if err := mw.Close(); err != nil {
		return booking.Document{}, fmt.Errorf("client: build upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.referrals, &buf)
	if err != nil {
		return booking.Document{}, fmt.Errorf("client: upload request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return booking.Document{}, fmt.Errorf("client: upload referral: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return booking.Document{}, fmt.Errorf("client: read upload response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var failure submitResponse
		if json.Unmarshal(raw, &failure) == nil && failure.Error != "" {
			return booking.Document{}, fmt.Errorf("client: upload rejected (%d): %s", resp.StatusCode, failure.Error)
		}
		return booking.Document{}, fmt.Errorf("client: upload rejected (%d)", resp.StatusCode)
	}
	var doc booking.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return booking.Document{}, fmt.Errorf("client: decode upload response: %w", err)
	}
	return doc, nil
}

var _ submission.Submitter = (*Client)(nil)
