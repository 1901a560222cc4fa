package itch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"reachwatch/internal/services"
)

const component = "itch"

// HTTPDoer describes the HTTP client used by the storefront client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DownloadInfo is the response of the download-link resolution endpoint.
type DownloadInfo struct {
	URL      string   `json:"url"`
	External bool     `json:"external"`
	Errors   []string `json:"errors"`
}

// Client talks to itch.io game pages.
type Client struct {
	http      HTTPDoer
	userAgent string
}

// NewHTTPClient returns an http.Client with a cookie jar, so session cookies
// set by the game page accompany the download-link request.
func NewHTTPClient(timeout time.Duration) *http.Client {
	jar, _ := cookiejar.New(nil)
	return &http.Client{Timeout: timeout, Jar: jar}
}

// New constructs a client. A nil doer falls back to NewHTTPClient with no timeout.
func New(doer HTTPDoer, userAgent string) *Client {
	if doer == nil {
		doer = NewHTTPClient(0)
	}
	return &Client{http: doer, userAgent: strings.TrimSpace(userAgent)}
}

// GetGamePage fetches and parses the game page at gameURL.
func (c *Client) GetGamePage(ctx context.Context, gameURL string) (*GamePage, error) {
	body, err := c.Fetch(ctx, gameURL)
	if err != nil {
		return nil, err
	}
	page, err := ParseGamePage(bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrParse, component, "parse game page", gameURL, err)
	}
	return page, nil
}

// GetDownloadInfo resolves the CDN URL for a download. The csrf token is sent
// as a form field; itch.io rejects the request when it does not match the
// session.
func (c *Client) GetDownloadInfo(ctx context.Context, gameURL string, downloadID uint64, csrfToken string) (*DownloadInfo, error) {
	endpoint := fmt.Sprintf("%s/file/%s?source=game_download", strings.TrimRight(gameURL, "/"), strconv.FormatUint(downloadID, 10))
	form := url.Values{"csrf_token": {csrfToken}}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, component, "build download info request", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, component, "send download info request", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, component, "read download info", endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrNetwork, component, "download info", fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var info DownloadInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, services.Wrap(services.ErrParse, component, "decode download info", "", err)
	}
	if len(info.Errors) > 0 {
		return nil, services.Wrap(services.ErrNetwork, component, "download info", strings.Join(info.Errors, "; "), nil)
	}
	if strings.TrimSpace(info.URL) == "" {
		return nil, services.Wrap(services.ErrParse, component, "download info", "response carries no url", nil)
	}
	return &info, nil
}

// Fetch performs a GET, requires a 2xx status, and returns the whole body.
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, component, "build request", rawURL, err)
	}
	c.decorate(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, component, "send request", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrNetwork, component, "get", fmt.Sprintf("%s returned %d", rawURL, resp.StatusCode), nil)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrNetwork, component, "read body", rawURL, err)
	}
	return body, nil
}

func (c *Client) decorate(req *http.Request) {
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
}
