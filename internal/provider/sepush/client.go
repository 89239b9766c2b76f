package sepush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/oshokin/loadshed-guard/internal/domain/outage"
	"github.com/oshokin/loadshed-guard/internal/logger"
	"github.com/oshokin/loadshed-guard/internal/version"
)

const (
	// DefaultBaseURL is the EskomSePush API endpoint.
	DefaultBaseURL = "https://developer.sepush.co.za"

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	// maxErrorBody limits how much of a failed response ends up in the error.
	maxErrorBody = 512
)

var (
	// ErrTokenRequired is returned when the client is built without a token.
	ErrTokenRequired = errors.New("sepush token is required")
	// ErrRegionNotReported is returned when the status feed lacks the configured region.
	ErrRegionNotReported = errors.New("region missing from status response")
)

// StatusError is returned for non-200 responses.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("sepush: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Options configures a Client.
type Options struct {
	// BaseURL overrides DefaultBaseURL.
	BaseURL string
	// Token is the API license key.
	Token string
	// Test requests synthetic area data ("current" or "future").
	Test string
	// StatusRegion is the key read from the status feed, e.g. "eskom".
	StatusRegion string
	// Location is the zone event times are converted to.
	Location *time.Location
	// Timeout bounds a single request.
	Timeout time.Duration
	// HTTPClient replaces the default client.
	HTTPClient *http.Client
}

// Client talks to the EskomSePush API.
type Client struct {
	baseURL      string
	token        string
	test         string
	statusRegion string
	location     *time.Location
	httpClient   *http.Client
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, ErrTokenRequired
	}

	c := &Client{
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		token:        opts.Token,
		test:         opts.Test,
		statusRegion: opts.StatusRegion,
		location:     opts.Location,
		httpClient:   opts.HTTPClient,
	}

	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}

	if c.statusRegion == "" {
		c.statusRegion = "eskom"
	}

	if c.location == nil {
		c.location = time.Local
	}

	if c.httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}

		c.httpClient = &http.Client{Timeout: timeout}
	}

	return c, nil
}

// Area fetches the schedule and events of an area.
// Days and events that cannot be parsed are logged and skipped; a malformed
// stage inside a day leaves that stage empty.
func (c *Client) Area(ctx context.Context, areaID string) (outage.Area, error) {
	query := url.Values{"id": {areaID}}
	if c.test != "" {
		query.Set("test", c.test)
	}

	var resp areaResponse
	if err := c.get(ctx, "/business/2.0/area", query, &resp); err != nil {
		return outage.Area{}, fmt.Errorf("get area %s: %w", areaID, err)
	}

	area := outage.Area{
		Name:   resp.Info.Name,
		Region: resp.Info.Region,
		Source: resp.Schedule.Source,
		Days:   make([]outage.DaySchedule, 0, len(resp.Schedule.Days)),
		Events: make([]outage.Event, 0, len(resp.Events)),
	}

	for _, d := range resp.Schedule.Days {
		day, err := outage.ParseDay(d.Date, d.Name, d.Stages)
		if err != nil {
			logger.WarnKV(ctx, "Malformed schedule day", "area", areaID, "date", d.Date, "error", err)
		}

		if day.Date == (outage.Date{}) {
			continue
		}

		area.Days = append(area.Days, day)
	}

	for _, e := range resp.Events {
		event, err := c.parseEvent(e)
		if err != nil {
			logger.WarnKV(ctx, "Malformed event", "area", areaID, "note", e.Note, "error", err)

			continue
		}

		area.Events = append(area.Events, event)
	}

	return area, nil
}

// Stage returns the current stage of the configured status region.
func (c *Client) Stage(ctx context.Context) (int, error) {
	var resp statusResponse
	if err := c.get(ctx, "/business/2.0/status", nil, &resp); err != nil {
		return 0, fmt.Errorf("get status: %w", err)
	}

	region, ok := resp.Status[c.statusRegion]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrRegionNotReported, c.statusRegion)
	}

	stage, err := strconv.Atoi(strings.TrimSpace(region.Stage))
	if err != nil {
		return 0, fmt.Errorf("parse %s stage %q: %w", c.statusRegion, region.Stage, err)
	}

	return stage, nil
}

// Allowance returns the token's daily quota.
func (c *Client) Allowance(ctx context.Context) (Allowance, error) {
	var resp allowanceResponse
	if err := c.get(ctx, "/business/2.0/api_allowance", nil, &resp); err != nil {
		return Allowance{}, fmt.Errorf("get allowance: %w", err)
	}

	return resp.Allowance, nil
}

func (c *Client) parseEvent(e eventJSON) (outage.Event, error) {
	start, err := time.Parse(time.RFC3339, e.Start)
	if err != nil {
		return outage.Event{}, fmt.Errorf("parse start: %w", err)
	}

	end, err := time.Parse(time.RFC3339, e.End)
	if err != nil {
		return outage.Event{}, fmt.Errorf("parse end: %w", err)
	}

	return outage.Event{
		Stage: outage.StageFromNote(e.Note),
		Start: start.In(c.location),
		End:   end.In(c.location),
		Note:  e.Note,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Token", c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
