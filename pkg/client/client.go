// Package client provides the attendance ledger Go SDK for recording
// entries, reading the chain, and running integrity checks over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrNotFound is returned when the requested chain record does not exist.
var ErrNotFound = errors.New("record not found")

// DuplicateError is returned by RecordAttendance when the subject already
// has an entry for the requested date. Existing carries the record that won.
type DuplicateError struct {
	Existing Record
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("duplicate entry: %s already recorded for %s",
		e.Existing.Payload.SubjectID, e.Existing.Payload.Date)
}

// Payload is the attendance fact inside a Record.
type Payload struct {
	SubjectID string `json:"subject_id"`
	Status    string `json:"status"`
	Date      string `json:"date"`
}

// Record is one entry in the fingerprint-linked chain. Index 0 is the
// genesis record the server creates itself.
type Record struct {
	Index               int       `json:"index"`
	CreatedAt           time.Time `json:"created_at"`
	Payload             Payload   `json:"payload"`
	PreviousFingerprint string    `json:"previous_fingerprint"`
	Fingerprint         string    `json:"fingerprint"`
}

// Summary is the aggregate attendance report returned by GetSummary.
type Summary struct {
	TotalDays            int     `json:"total_days"`
	PresentDays          int     `json:"present_days"`
	AbsentDays           int     `json:"absent_days"`
	AttendancePercentage float64 `json:"attendance_percentage"`
	Eligibility          string  `json:"eligibility"`
}

// Violation describes the first broken link found by a verify pass.
type Violation struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// VerifyResult is the outcome of a full-chain integrity check.
type VerifyResult struct {
	Valid     bool       `json:"valid"`
	Entries   int        `json:"entries"`
	Violation *Violation `json:"violation,omitempty"`
}

// Client talks to a single attendance ledger server.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	cache          *summaryCache
	operatorSecret string

	// token state — guarded by mu
	mu          sync.Mutex
	bearerToken string
	tokenExpiry time.Time // zero = token was set manually (no auto-refresh)
}

// Option is a functional option for configuring a Client.
type Option func(*Client) error

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		c.httpClient = hc
		return nil
	}
}

// WithCacheTTL enables in-memory summary caching with the given TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) error {
		c.cache = newSummaryCache(ttl)
		return nil
	}
}

// WithBearerToken attaches a pre-obtained operator token to every request.
// The token is treated as long-lived and will not be auto-refreshed.
func WithBearerToken(token string) Option {
	return func(c *Client) error {
		c.bearerToken = token
		c.tokenExpiry = time.Time{} // zero = manual, never auto-refresh
		return nil
	}
}

// WithOperatorSecret stores the shared operator secret. Privileged calls
// exchange it for a short-lived JWT automatically and refresh the token as
// it approaches expiry.
func WithOperatorSecret(secret string) Option {
	return func(c *Client) error {
		c.operatorSecret = secret
		return nil
	}
}

// New creates a Client for the ledger server at baseURL.
//
//	c, err := client.New("http://localhost:8080",
//	    client.WithOperatorSecret(secret),
//	    client.WithCacheTTL(30*time.Second),
//	)
func New(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics on error. Useful in tests and program init.
func MustNew(baseURL string, opts ...Option) *Client {
	c, err := New(baseURL, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// RecordAttendance appends one attendance entry and returns the committed
// record. A (subject, date) pair that is already on the chain comes back as
// a *DuplicateError carrying the existing record.
func (c *Client) RecordAttendance(ctx context.Context, subjectID, status, date string) (*Record, error) {
	payload, _ := json.Marshal(map[string]string{
		"subject_id": subjectID,
		"status":     status,
		"date":       date,
	})
	url := c.baseURL + "/api/v1/attendance/records"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	code, body, err := c.doStatusBody(req)
	if err != nil {
		return nil, err
	}
	if code == http.StatusConflict {
		var conflict struct {
			Error    string `json:"error"`
			Existing Record `json:"existing"`
		}
		if err := json.Unmarshal(body, &conflict); err != nil {
			return nil, fmt.Errorf("decode conflict response: %w", err)
		}
		return nil, &DuplicateError{Existing: conflict.Existing}
	}
	if code >= 300 {
		return nil, fmt.Errorf("server error %d: %s", code, string(body))
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode record response: %w", err)
	}
	if c.cache != nil {
		c.cache.invalidate()
	}
	return &rec, nil
}

// GetChain fetches every record on the chain, genesis included.
func (c *Client) GetChain(ctx context.Context) ([]Record, error) {
	url := c.baseURL + "/api/v1/attendance/records"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Records []Record `json:"records"`
	}
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, fmt.Errorf("decode chain response: %w", err)
	}
	return wrapper.Records, nil
}

// GetRecord fetches a single record by chain index.
// A missing index is reported as ErrNotFound.
func (c *Client) GetRecord(ctx context.Context, index int) (*Record, error) {
	url := fmt.Sprintf("%s/api/v1/attendance/records/%d", c.baseURL, index)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, fmt.Errorf("decode record response: %w", err)
	}
	return &rec, nil
}

// GetSummary fetches the aggregate attendance report. Results are served
// from the in-memory cache when WithCacheTTL is configured.
func (c *Client) GetSummary(ctx context.Context) (*Summary, error) {
	if c.cache != nil {
		if s, ok := c.cache.get(); ok {
			return s, nil
		}
	}

	url := c.baseURL + "/api/v1/attendance/summary"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var summary Summary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("decode summary response: %w", err)
	}
	if c.cache != nil {
		c.cache.set(&summary)
	}
	return &summary, nil
}

// Verify asks the server for a full-chain integrity check. The call succeeds
// whether or not the chain is valid; inspect VerifyResult.Valid.
func (c *Client) Verify(ctx context.Context) (*VerifyResult, error) {
	url := c.baseURL + "/api/v1/attendance/verify"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var result VerifyResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode verify response: %w", err)
	}
	return &result, nil
}

// Reset clears the chain back to a fresh genesis record, sending the
// confirmation flag the server insists on. Servers with operator auth
// configured also require credentials (WithOperatorSecret or
// WithBearerToken); unguarded servers accept the call as-is.
func (c *Client) Reset(ctx context.Context) error {
	// Obtain a token when we hold credentials; otherwise let the server
	// decide whether an unauthenticated reset is allowed.
	if c.operatorSecret != "" || c.currentToken() != "" {
		if _, err := c.ensureToken(ctx); err != nil {
			return fmt.Errorf("obtain operator token: %w", err)
		}
	}

	payload, _ := json.Marshal(map[string]bool{"confirm": true})
	url := c.baseURL + "/api/v1/attendance/reset"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	code, body, err := c.doStatusBody(req)
	if err != nil {
		return err
	}
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		return fmt.Errorf("unauthorized: %s", string(body))
	}
	if code >= 300 {
		return fmt.Errorf("server error %d: %s", code, string(body))
	}
	if c.cache != nil {
		c.cache.invalidate()
	}
	return nil
}

// FetchToken exchanges the configured operator secret for a JWT, caches it,
// and returns it. Subsequent privileged calls reuse the cached token until
// it approaches expiry.
func (c *Client) FetchToken(ctx context.Context) (string, error) {
	token, expiry, err := c.fetchTokenRaw(ctx)
	if err != nil {
		return "", err
	}
	c.mu.Lock()
	c.bearerToken = token
	c.tokenExpiry = expiry
	c.mu.Unlock()
	return token, nil
}

// fetchTokenRaw fetches a fresh token from the server without touching
// cached state. It uses the raw httpClient (not c.do) so it never attaches a
// stale bearer token to the exchange request.
func (c *Client) fetchTokenRaw(ctx context.Context) (token string, expiry time.Time, err error) {
	if c.operatorSecret == "" {
		return "", time.Time{}, errors.New("no operator secret configured (use WithOperatorSecret or WithBearerToken)")
	}

	payload, _ := json.Marshal(map[string]string{"secret": c.operatorSecret})
	url := c.baseURL + "/api/v1/auth/token"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	// Use httpClient directly — the token endpoint authenticates via the
	// shared secret, not via an existing Bearer token.
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("read token response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", time.Time{}, fmt.Errorf("token endpoint error %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
		Error       string `json:"error"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", time.Time{}, fmt.Errorf("decode token response: %w", err)
	}
	if result.Error != "" {
		return "", time.Time{}, fmt.Errorf("token endpoint error: %s", result.Error)
	}

	// Refresh 60 s before actual expiry to avoid clock-skew failures.
	const refreshBuffer = 60 * time.Second
	exp := time.Now().Add(time.Duration(result.ExpiresIn)*time.Second - refreshBuffer)
	return result.AccessToken, exp, nil
}

// ensureToken returns a valid bearer token, fetching a new one if the cached
// token is absent or approaching expiry. Thread-safe.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// tokenExpiry.IsZero() means the token was set manually via
	// WithBearerToken and should never be auto-refreshed.
	if c.bearerToken != "" && (c.tokenExpiry.IsZero() || time.Now().Before(c.tokenExpiry)) {
		return c.bearerToken, nil
	}

	token, expiry, err := c.fetchTokenRaw(ctx)
	if err != nil {
		return "", err
	}
	c.bearerToken = token
	c.tokenExpiry = expiry
	return token, nil
}

// currentToken reads the cached bearer token under the lock.
func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bearerToken
}

// do executes an HTTP request, attaching the bearer token if present.
func (c *Client) do(req *http.Request) ([]byte, error) {
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	// Full-chain responses can run large; cap reads at 4 MiB.
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<22))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, req.URL.Path)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return nil, fmt.Errorf("unauthorized: %s", string(body))
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// doStatusBody is a lower-level HTTP call that returns (statusCode, body,
// error) without failing on 4xx responses. The caller interprets the status.
func (c *Client) doStatusBody(req *http.Request) (int, []byte, error) {
	if token := c.currentToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<22))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// --- simple in-memory summary cache ---

type summaryCache struct {
	mu        sync.RWMutex
	summary   *Summary
	expiresAt time.Time
	ttl       time.Duration
}

func newSummaryCache(ttl time.Duration) *summaryCache {
	return &summaryCache{ttl: ttl}
}

func (sc *summaryCache) get() (*Summary, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.summary == nil || time.Now().After(sc.expiresAt) {
		return nil, false
	}
	return sc.summary, true
}

func (sc *summaryCache) set(s *Summary) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.summary = s
	sc.expiresAt = time.Now().Add(sc.ttl)
}

// invalidate drops the cached summary after a local write changes the chain.
func (sc *summaryCache) invalidate() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.summary = nil
}
