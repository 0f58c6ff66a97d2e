package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/i474232898/grow-planner/internal/grow"
)

// CSRF token transport shared with the backend.
const (
	CSRFCookie = "csrftoken"
	CSRFHeader = "X-CSRFToken"
)

const maxBody = 64 << 10

// Client talks to the planner backend.
type Client struct {
	base  *url.URL
	http  *http.Client
	token string
}

// NewClient builds a client for baseURL. token, when set, is sent as a bearer
// token. A cookie jar is attached so the CSRF cookie survives between calls.
func NewClient(baseURL, token string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}

	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c := *httpClient
		c.Jar = jar
		httpClient = &c
	}

	return &Client{base: u, http: httpClient, token: token}, nil
}

func (c *Client) url(path string, query url.Values) string {
	s := c.base.String() + path
	if len(query) > 0 {
		s += "?" + query.Encode()
	}
	return s
}

func (c *Client) do(ctx context.Context, method, target string, body []byte, header http.Header) (*http.Response, []byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, rd)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return resp, nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, data, newStatusError(resp, data)
	}
	return resp, data, nil
}

// newStatusError extracts whatever diagnostic strings the body carries.
// Bodies that are not JSON objects only contribute the status line.
func newStatusError(resp *http.Response, body []byte) *StatusError {
	status := resp.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	se := &StatusError{StatusCode: resp.StatusCode, Status: status}

	var fields map[string]any
	if json.Unmarshal(body, &fields) != nil {
		return se
	}
	str := func(key string) string {
		s, _ := fields[key].(string)
		return s
	}
	se.Message = str("message")
	se.ErrorText = str("error")
	se.Detail = str("detail")
	return se
}

// Session fetches the session context. It also primes the CSRF cookie.
func (c *Client) Session(ctx context.Context) (SessionContext, error) {
	_, body, err := c.do(ctx, http.MethodGet, c.url("/api/session/", nil), nil, nil)
	if err != nil {
		return Anonymous, fmt.Errorf("fetch session: %w", err)
	}
	return ParseSessionContext(body)
}

// Weather looks up the current weather for city.
func (c *Client) Weather(ctx context.Context, city string) (WeatherSnapshot, error) {
	_, body, err := c.do(ctx, http.MethodGet, c.url("/api/weather/", url.Values{"city": {city}}), nil, nil)
	if err != nil {
		return WeatherSnapshot{}, err
	}
	return decodeSnapshot(body)
}

type preferencesPayload struct {
	Pot   float64 `json:"pot"`
	Watts float64 `json:"watts"`
	City  string  `json:"city"`
}

// PushPreferences stores profile as the server profile. The response body is
// not inspected beyond its status.
func (c *Client) PushPreferences(ctx context.Context, profile grow.GrowProfile) error {
	token := c.csrfToken()
	if token == "" {
		if _, err := c.Session(ctx); err != nil {
			return err
		}
		if token = c.csrfToken(); token == "" {
			return errors.New("csrf token unavailable")
		}
	}

	body, err := json.Marshal(preferencesPayload{
		Pot:   profile.PotLiters,
		Watts: profile.Wattage,
		City:  profile.City,
	})
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	header.Set(CSRFHeader, token)
	if _, _, err := c.do(ctx, http.MethodPost, c.url("/api/preferences/", nil), body, header); err != nil {
		return fmt.Errorf("push preferences: %w", err)
	}
	return nil
}

func (c *Client) csrfToken() string {
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == CSRFCookie {
			return ck.Value
		}
	}
	return ""
}
