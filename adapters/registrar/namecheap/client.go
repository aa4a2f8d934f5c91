// Package namecheap implements the registrar gateway over the provider's
// XML API. Every call is guarded by the rate governor; provider throttling
// signals are mapped to model.RateLimitedError and force-pause the governor.
package namecheap

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/domainops/domainops/domain/model"
	"github.com/domainops/domainops/internal/logging"
	"github.com/domainops/domainops/internal/ratelimit"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.namecheap.com/xml.response"
	// SandboxBaseURL is the provider's test endpoint.
	SandboxBaseURL = "https://api.sandbox.namecheap.com/xml.response"

	// DefaultPausePeriod is how long the governor is force-paused when the
	// provider signals throttling. The provider does not state its true
	// cooldown; 15 minutes has proven long enough in practice.
	DefaultPausePeriod = 15 * time.Minute

	// maxWaitCycles bounds the wait-recheck loop before a call. Each cycle
	// sleeps the full duration the governor asked for, so more than a few
	// cycles means the governor is being re-paused underneath us.
	maxWaitCycles = 5
)

// Config carries the provider credentials and endpoint.
type Config struct {
	BaseURL  string
	APIUser  string
	APIKey   string
	Username string // account username; defaults to APIUser
	ClientIP string // must match the IP whitelisted with the provider
}

// Client is the registrar gateway. It implements model.RegistrarPort.
type Client struct {
	cfg         Config
	httpClient  *http.Client
	governor    *ratelimit.Governor
	pausePeriod time.Duration

	// sleep is injectable for tests; it must honor ctx cancellation.
	sleep func(ctx context.Context, d time.Duration) error
}

// New returns a gateway client. A nil governor gets the default limits.
func New(cfg Config, governor *ratelimit.Governor) (*Client, error) {
	if cfg.APIUser == "" || cfg.APIKey == "" {
		return nil, fmt.Errorf("registrar credentials missing: api_user and api_key are required")
	}
	if cfg.ClientIP == "" {
		return nil, fmt.Errorf("registrar client_ip is required (must match the whitelisted IP)")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Username == "" {
		cfg.Username = cfg.APIUser
	}
	if governor == nil {
		governor = ratelimit.New(ratelimit.DefaultLimits)
	}
	return &Client{
		cfg:         cfg,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		governor:    governor,
		pausePeriod: DefaultPausePeriod,
		sleep:       sleepCtx,
	}, nil
}

// Governor exposes the governor for status reporting.
func (c *Client) Governor() *ratelimit.Governor { return c.governor }

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// call performs one governed provider request and returns the decoded
// envelope. post selects the HTTP method: full-replace writes carry large
// indexed parameter sets and go in a form body.
func (c *Client) call(ctx context.Context, command string, params url.Values, post bool) (*apiResponse, error) {
	for i := 0; ; i++ {
		wait := c.governor.ShouldWait()
		if wait == 0 {
			break
		}
		if i >= maxWaitCycles {
			return nil, &model.RateLimitedError{Reason: "governor kept refusing after " + command, RetryAfter: wait}
		}
		logging.FromContext(ctx).Debug(ctx, "governor wait", "command", command, "wait", wait.String())
		if err := c.sleep(ctx, wait); err != nil {
			return nil, &model.GatewayError{Op: command, Err: err}
		}
	}
	c.governor.RecordRequest()

	all := url.Values{}
	all.Set("ApiUser", c.cfg.APIUser)
	all.Set("ApiKey", c.cfg.APIKey)
	all.Set("UserName", c.cfg.Username)
	all.Set("ClientIp", c.cfg.ClientIP)
	all.Set("Command", command)
	for k, vs := range params {
		for _, v := range vs {
			all.Add(k, v)
		}
	}

	var (
		req *http.Request
		err error
	)
	if post {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, strings.NewReader(all.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+all.Encode(), nil)
	}
	if err != nil {
		return nil, &model.GatewayError{Op: command, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &model.GatewayError{Op: command, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, &model.GatewayError{Op: command, Err: err}
	}

	if throttled, reason := throttledStatus(resp.StatusCode); throttled {
		return nil, c.rateLimited(ctx, command, reason)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &model.GatewayError{Op: command, Err: fmt.Errorf("http %d", resp.StatusCode)}
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		if isThrottleText(err.Error()) {
			return nil, c.rateLimited(ctx, command, err.Error())
		}
		return nil, &model.GatewayError{Op: command, Err: err}
	}
	return env, nil
}

// rateLimited pauses the governor and builds the typed throttling error.
// The provider may throttle harder than the local windows predict, so the
// hard pause is applied regardless of the sliding-window state.
func (c *Client) rateLimited(ctx context.Context, command, reason string) error {
	detail := fmt.Sprintf("%s: %s", command, reason)
	c.governor.SetPaused(c.pausePeriod, detail)
	logging.FromContext(ctx).Warn(ctx, "provider throttling detected", "command", command, "reason", reason, "pause", c.pausePeriod.String())
	return &model.RateLimitedError{Reason: detail, RetryAfter: c.pausePeriod}
}

func throttledStatus(code int) (bool, string) {
	switch code {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, fmt.Sprintf("http %d", code)
	}
	return false, ""
}

func isThrottleText(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "too many requests") || strings.Contains(s, "rate limit")
}
