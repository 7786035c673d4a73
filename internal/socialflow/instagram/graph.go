// Package instagram talks to the Instagram Graph API for publishing,
// insights and the Facebook Login flow.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/humanosaude/portal/internal/logger"
)

const (
	component = "Instagram"

	DefaultGraphURL  = "https://graph.facebook.com/v21.0"
	DefaultDialogURL = "https://www.facebook.com/v21.0/dialog/oauth"

	defaultPollInterval = 2 * time.Second
	defaultMaxPolls     = 30
)

type Config struct {
	AppID     string
	AppSecret string
	// AppURL is the public base URL used to build the OAuth redirect.
	AppURL string

	GraphURL     string
	DialogURL    string
	HTTPClient   *http.Client
	PollInterval time.Duration
	MaxPolls     int
}

func (c Config) withDefaults() Config {
	if c.GraphURL == "" {
		c.GraphURL = DefaultGraphURL
	}
	if c.DialogURL == "" {
		c.DialogURL = DefaultDialogURL
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.MaxPolls <= 0 {
		c.MaxPolls = defaultMaxPolls
	}
	c.GraphURL = strings.TrimRight(c.GraphURL, "/")
	c.AppURL = strings.TrimRight(c.AppURL, "/")
	return c
}

// GraphError is the error object returned by the Graph API.
type GraphError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    int    `json:"code"`
}

func (e *GraphError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("graph api status %d", e.Status)
	}
	return e.Message
}

// OAuthException codes for an expired, revoked or malformed token and for
// an invalid session.
const (
	codeInvalidToken   = 190
	codeInvalidSession = 102
)

func (e *GraphError) tokenRejected() bool {
	return e.Code == codeInvalidToken || e.Code == codeInvalidSession
}

type graphClient struct {
	cfg Config
	log *logger.Logger
}

func (g *graphClient) get(ctx context.Context, path string, params url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.cfg.GraphURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build graph request: %w", err)
	}
	return g.do(req, dest)
}

func (g *graphClient) post(ctx context.Context, path string, params url.Values, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.GraphURL+path, strings.NewReader(params.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build graph request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return g.do(req, dest)
}

func (g *graphClient) do(req *http.Request, dest any) error {
	resp, err := g.cfg.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("failed to read graph response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var envelope struct {
			Error GraphError `json:"error"`
		}
		_ = json.Unmarshal(body, &envelope)
		envelope.Error.Status = resp.StatusCode
		g.log.Warn(component, "graph error: path=%s status=%d code=%d msg=%s",
			req.URL.Path, resp.StatusCode, envelope.Error.Code, envelope.Error.Message)
		return &envelope.Error
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode graph response: %w", err)
	}
	return nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (t tokenResponse) expiresAt(now time.Time) *time.Time {
	if t.ExpiresIn <= 0 {
		return nil
	}
	at := now.Add(time.Duration(t.ExpiresIn) * time.Second).UTC()
	return &at
}

// exchangeLongLived trades a token for a long-lived one. Refreshing a
// long-lived token uses the same call.
func (g *graphClient) exchangeLongLived(ctx context.Context, token string) (tokenResponse, error) {
	var out tokenResponse
	err := g.get(ctx, "/oauth/access_token", url.Values{
		"grant_type":        {"fb_exchange_token"},
		"client_id":         {g.cfg.AppID},
		"client_secret":     {g.cfg.AppSecret},
		"fb_exchange_token": {token},
	}, &out)
	if err != nil {
		return tokenResponse{}, fmt.Errorf("failed to exchange long-lived token: %w", err)
	}
	return out, nil
}
