// Package hosted talks to the PostgREST API in front of the hosted database.
package hosted

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"

	"github.com/yourorg/listings-api/community"
	"github.com/yourorg/listings-api/listing"
)

const (
	propertiesPath  = "/rest/v1/properties"
	metricsPath     = "/rest/v1/impact_metrics"
	maintenancePath = "/rest/v1/maintenance_requests"
	clientInfo      = "listings-api"
)

var ErrNotFound = errors.New("hosted: row not found")

// APIError is a non-2xx answer from the REST API.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("hosted error %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("hosted error %d: %s", e.Status, e.Message)
}

type Options struct {
	BaseURL string
	Key     string
	Timeout time.Duration
	RPS     float64 // outbound requests per second, 0 for unlimited
}

type Client struct {
	baseURL string
	key     string
	read    *retryablehttp.Client
	write   *retryablehttp.Client
	limiter *rate.Limiter
}

func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	read := retryablehttp.NewClient()
	read.RetryWaitMin = 100 * time.Millisecond
	read.RetryWaitMax = 900 * time.Millisecond
	read.RetryMax = 3
	read.HTTPClient.Timeout = opts.Timeout
	read.Logger = nil

	// Writes are not idempotent; a retried insert could create two rows.
	write := retryablehttp.NewClient()
	write.RetryMax = 0
	write.HTTPClient.Timeout = opts.Timeout
	write.Logger = nil

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RPS), int(opts.RPS)+1)
	}

	return &Client{
		baseURL: opts.BaseURL,
		key:     opts.Key,
		read:    read,
		write:   write,
		limiter: limiter,
	}
}

var (
	sharedOnce   sync.Once
	sharedClient *Client
)

// Shared returns the process-wide client, building it from opts on first use.
// Later calls ignore opts.
func Shared(opts Options) *Client {
	sharedOnce.Do(func() { sharedClient = NewClient(opts) })
	return sharedClient
}

// List returns every property row, newest first.
func (c *Client) List(ctx context.Context) ([]listing.RawRecord, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "created_at.desc")

	var rows []listing.RawRecord
	if err := c.do(ctx, c.read, http.MethodGet, propertiesPath, q, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Get returns the row with the given id, or ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (listing.RawRecord, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id)
	q.Set("limit", "1")

	var rows []listing.RawRecord
	if err := c.do(ctx, c.read, http.MethodGet, propertiesPath, q, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// Insert writes one row and returns it as stored.
func (c *Client) Insert(ctx context.Context, row listing.NewRow) (listing.RawRecord, error) {
	body, err := json.Marshal([]listing.NewRow{row})
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("select", "*")

	var rows []listing.RawRecord
	if err := c.do(ctx, c.write, http.MethodPost, propertiesPath, q, body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("hosted: insert returned no row")
	}
	return rows[0], nil
}

// Delete removes the row with the given id. Deleting a missing id is not an
// error, matching the REST API.
func (c *Client) Delete(ctx context.Context, id string) error {
	q := url.Values{}
	q.Set("id", "eq."+id)
	return c.do(ctx, c.write, http.MethodDelete, propertiesPath, q, nil, nil)
}

// ListMetrics returns every impact_metrics row.
func (c *Client) ListMetrics(ctx context.Context) ([]listing.RawRecord, error) {
	q := url.Values{}
	q.Set("select", "*")

	var rows []listing.RawRecord
	if err := c.do(ctx, c.read, http.MethodGet, metricsPath, q, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// InsertMaintenanceRequest files one request and returns it as stored.
func (c *Client) InsertMaintenanceRequest(ctx context.Context, in community.NewRequest) (listing.RawRecord, error) {
	row := map[string]any{
		"resident_id":    in.ResidentID,
		"property_id":    in.PropertyID,
		"issue_category": in.IssueCategory,
		"description":    in.Description,
		"priority":       nil,
		"status":         in.Status,
	}
	if in.Priority != "" {
		row["priority"] = in.Priority
	}
	body, err := json.Marshal([]map[string]any{row})
	if err != nil {
		return nil, err
	}
	q := url.Values{}
	q.Set("select", "*")

	var rows []listing.RawRecord
	if err := c.do(ctx, c.write, http.MethodPost, maintenancePath, q, body, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("hosted: insert returned no row")
	}
	return rows[0], nil
}

// ListMaintenanceRequests returns a resident's requests, newest first, with
// the title and address of each property embedded under "properties".
func (c *Client) ListMaintenanceRequests(ctx context.Context, residentID string) ([]listing.RawRecord, error) {
	q := url.Values{}
	q.Set("select", "*,properties(title,address)")
	q.Set("resident_id", "eq."+residentID)
	q.Set("order", "created_at.desc")

	var rows []listing.RawRecord
	if err := c.do(ctx, c.read, http.MethodGet, maintenancePath, q, nil, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// Ping checks that the API answers for the properties table.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{}
	q.Set("select", "id")
	q.Set("limit", "1")
	var rows []listing.RawRecord
	return c.do(ctx, c.read, http.MethodGet, propertiesPath, q, nil, &rows)
}

func (c *Client) do(ctx context.Context, hc *retryablehttp.Client, method string, path string, q url.Values, body []byte, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, q.Encode())
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("X-Client-Info", clientInfo)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := ioReadAllLimit(resp.Body, 64<<10)
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	raw, err := ioReadAllLimit(resp.Body, 8<<20) // 8MB guard
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("hosted: decode %s response: %w", method, err)
	}
	return nil
}

func ioReadAllLimit(r io.Reader, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}
