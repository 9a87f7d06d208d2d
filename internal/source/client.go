package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ppiankov/projstat/internal/cache"
	"github.com/ppiankov/projstat/internal/model"
	"github.com/ppiankov/projstat/internal/util"
	"github.com/ppiankov/projstat/internal/worker"
)

// BasicAuth carries optional credentials for an API request.
type BasicAuth struct {
	User     string
	Password string
}

// Client is the HTTP fetch client shared by all adapters in a run. It is
// safe for concurrent use: the underlying http.Client, the rate limiter and
// the cache all are. Responses are cached by (operation, URL, user) so a
// repeated fetch within the TTL never goes out again.
type Client struct {
	httpClient *http.Client
	limiter    *worker.Limiter
	store      cache.Cache
	ttl        time.Duration
	userAgent  string
	maxBytes   int64
}

// NewClient builds the shared client from config. Pass cache.Nop{} to
// disable caching; output must not change, only call volume.
func NewClient(cfg *model.Config, store cache.Cache) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.HTTP.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		limiter:   worker.NewLimiter(cfg.Rate.PerHost, cfg.Rate.Burst),
		store:     store,
		ttl:       cfg.Cache.TTL,
		userAgent: cfg.HTTP.UserAgent,
		maxBytes:  cfg.HTTP.MaxBodyBytes,
	}
}

// GetJSON fetches rawURL and decodes the JSON body into out. Cache hits
// skip the network entirely, including the rate limiter.
func (c *Client) GetJSON(ctx context.Context, rawURL string, auth *BasicAuth, headers map[string]string, out any) error {
	user := ""
	if auth != nil {
		user = auth.User
	}
	key := cache.Key("get_json", rawURL, user)

	if data, ok := c.store.Get(key); ok {
		return json.Unmarshal(data, out)
	}

	if err := c.limiter.Wait(ctx, rawURL); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if auth != nil {
		req.SetBasicAuth(auth.User, auth.Password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", rawURL, err)
	}

	// Only well-formed responses are cached.
	_ = c.store.Set(key, body, c.ttl)

	return nil
}

// basicAuthFromConfig builds BasicAuth from a credential block, or nil when
// either half is missing.
func basicAuthFromConfig(cfg *model.Config, kind string) *BasicAuth {
	user := cfg.Credential(kind, "user")
	password := cfg.Credential(kind, "password")
	if user == "" || password == "" {
		return nil
	}
	return &BasicAuth{User: user, Password: password}
}
