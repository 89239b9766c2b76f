package tuya

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/oshokin/loadshed-guard/internal/logger"
	"github.com/oshokin/loadshed-guard/internal/version"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default number of requests per second.
	DefaultRateLimit = 2.0

	// tokenRenewMargin renews the token this long before it expires.
	tokenRenewMargin = time.Minute

	// maxErrorBody limits how much of a failed response ends up in the error.
	maxErrorBody = 512
)

// regionEndpoints maps data center codes to API hosts.
//
//nolint:gochecknoglobals // Read-only lookup table.
var regionEndpoints = map[string]string{
	"cn":   "https://openapi.tuyacn.com",
	"us":   "https://openapi.tuyaus.com",
	"ueaz": "https://openapi-ueaz.tuyaus.com",
	"eu":   "https://openapi.tuyaeu.com",
	"weu":  "https://openapi-weaz.tuyaeu.com",
	"in":   "https://openapi.tuyain.com",
}

var (
	// ErrCredentialsRequired is returned when the client id or secret is missing.
	ErrCredentialsRequired = errors.New("tuya client id and secret are required")
	// ErrUnknownRegion is returned for data center codes without a known endpoint.
	ErrUnknownRegion = errors.New("unknown tuya region")
)

// Endpoint returns the API host of a data center.
func Endpoint(region string) (string, error) {
	endpoint, ok := regionEndpoints[strings.ToLower(strings.TrimSpace(region))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, region)
	}

	return endpoint, nil
}

// Options configures a Client.
type Options struct {
	// ClientID is the cloud project access id.
	ClientID string
	// Secret is the cloud project access secret.
	Secret string
	// Region selects the endpoint when BaseURL is empty.
	Region string
	// BaseURL overrides the region endpoint.
	BaseURL string
	// Timeout bounds a single request.
	Timeout time.Duration
	// RateLimit is the maximum number of requests per second.
	RateLimit float64
	// HTTPClient replaces the default client.
	HTTPClient *http.Client
}

// Client is a Tuya Cloud OpenAPI client. It is safe for concurrent use.
type Client struct {
	clientID   string
	secret     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter

	// now and nonce are replaced in tests.
	now   func() time.Time
	nonce func() string

	mu      sync.Mutex
	token   string
	expires time.Time
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.ClientID == "" || opts.Secret == "" {
		return nil, ErrCredentialsRequired
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		endpoint, err := Endpoint(opts.Region)
		if err != nil {
			return nil, err
		}

		baseURL = endpoint
	}

	limit := opts.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}

		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		clientID:   opts.ClientID,
		secret:     opts.Secret,
		baseURL:    baseURL,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(limit), 1),
		now:        time.Now,
		nonce:      uuid.NewString,
	}, nil
}

// Authorize obtains a fresh access token.
func (c *Client) Authorize(ctx context.Context) error {
	var result tokenResult
	if err := c.do(ctx, http.MethodGet, "/v1.0/token?grant_type=1", nil, "", &result); err != nil {
		return fmt.Errorf("authorize: %w", err)
	}

	expires := c.now().Add(time.Duration(result.ExpireTime) * time.Second)

	c.mu.Lock()
	c.token = result.AccessToken
	c.expires = expires
	c.mu.Unlock()

	logger.DebugKV(ctx, "Tuya token obtained", "uid", result.UID, "expires", expires)

	return nil
}

// DeviceStatus returns the data points of a device.
func (c *Client) DeviceStatus(ctx context.Context, deviceID string) ([]Status, error) {
	var result []Status
	if err := c.authorized(ctx, http.MethodGet, "/v1.0/devices/"+url.PathEscape(deviceID)+"/status", nil, &result); err != nil {
		return nil, fmt.Errorf("device %s status: %w", deviceID, err)
	}

	return result, nil
}

// SendCommands sets data points of a device.
func (c *Client) SendCommands(ctx context.Context, deviceID string, commands []Command) error {
	body, err := json.Marshal(commandsRequest{Commands: commands})
	if err != nil {
		return fmt.Errorf("marshal commands: %w", err)
	}

	var accepted bool
	if err := c.authorized(ctx, http.MethodPost, "/v1.0/devices/"+url.PathEscape(deviceID)+"/commands", body, &accepted); err != nil {
		return fmt.Errorf("device %s commands: %w", deviceID, err)
	}

	if !accepted {
		return fmt.Errorf("device %s commands: %w", deviceID, &APIError{Msg: "command not accepted"})
	}

	return nil
}

// authorized performs a request with a valid access token, renewing it first
// when missing or about to expire. A rejected token is dropped so the next call renews it.
func (c *Client) authorized(ctx context.Context, method, path string, body []byte, result any) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	err = c.do(ctx, method, path, body, token, result)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.TokenInvalid() {
		c.mu.Lock()
		if c.token == token {
			c.token = ""
		}
		c.mu.Unlock()
	}

	return err
}

func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token, expires := c.token, c.expires
	c.mu.Unlock()

	if token != "" && c.now().Add(tokenRenewMargin).Before(expires) {
		return token, nil
	}

	if err := c.Authorize(ctx); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.token, nil
}

func (c *Client) do(ctx context.Context, method, pathWithQuery string, body []byte, token string, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+pathWithQuery, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	nonce := c.nonce()

	req.Header.Set("client_id", c.clientID)
	req.Header.Set("t", timestamp)
	req.Header.Set("nonce", nonce)
	req.Header.Set("sign_method", "HMAC-SHA256")
	req.Header.Set("sign", sign(c.clientID, c.secret, token, timestamp, nonce, stringToSign(method, pathWithQuery, body)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	if token != "" {
		req.Header.Set("access_token", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		return &APIError{Code: env.Code, Msg: env.Msg}
	}

	if result == nil || len(env.Result) == 0 {
		return nil
	}

	if err := json.Unmarshal(env.Result, result); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}

	return nil
}
