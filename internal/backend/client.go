package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	cmdSubmitMessage = "submit_message"
	cmdGetSettings   = "get_settings"
	cmdSaveSettings  = "save_settings"
	cmdHideLauncher  = "hide_launcher"
	cmdShowLauncher  = "show_launcher"

	headerRequestID = "X-Request-Id"
	headerClient    = "X-Launcher-Client"

	maxErrorBody = 4 << 10
)

// Client invokes backend commands over HTTP. Each command is a POST to
// {BaseURL}/commands/{name} carrying a JSON argument object.
type Client struct {
	BaseURL string
	Token   string
	Headers map[string]string
	HTTP    *http.Client

	clientOnce    sync.Once
	defaultClient *http.Client
}

var _ Gateway = (*Client)(nil)

// NewClient creates a Client. A nil httpClient falls back to a client without
// its own timeout; callers bound every call through the context instead.
func NewClient(baseURL, token string, httpClient *http.Client) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		Headers: map[string]string{},
		HTTP:    httpClient,
	}
}

// SetLauncherClient tags every request with the terminal client hosting the
// overlay so the backend can target show/hide at it.
func (c *Client) SetLauncherClient(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if c.Headers == nil {
		c.Headers = map[string]string{}
	}
	c.Headers[headerClient] = name
}

func (c *Client) SubmitMessage(ctx context.Context, req SubmitRequest) error {
	var extra http.Header
	if req.ID != "" {
		extra = http.Header{headerRequestID: []string{req.ID}}
	}
	return c.invoke(ctx, cmdSubmitMessage, req, nil, extra)
}

func (c *Client) GetSettings(ctx context.Context) (Settings, error) {
	settings := DefaultSettings()
	if err := c.invoke(ctx, cmdGetSettings, struct{}{}, &settings, nil); err != nil {
		return Settings{}, err
	}
	return settings, nil
}

func (c *Client) SaveSettings(ctx context.Context, settings Settings) error {
	args := struct {
		Settings Settings `json:"settings"`
	}{Settings: settings}
	return c.invoke(ctx, cmdSaveSettings, args, nil, nil)
}

func (c *Client) HideLauncher(ctx context.Context) error {
	return c.invoke(ctx, cmdHideLauncher, struct{}{}, nil, nil)
}

func (c *Client) ShowLauncher(ctx context.Context) error {
	return c.invoke(ctx, cmdShowLauncher, struct{}{}, nil, nil)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	c.clientOnce.Do(func() {
		c.defaultClient = &http.Client{Transport: http.DefaultTransport}
	})
	return c.defaultClient
}

func (c *Client) newRequest(ctx context.Context, command string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/commands/"+command, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	for k, v := range c.Headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// invoke posts args to the named command, checks for a 2xx status, and decodes
// the response into dest. A nil dest discards the body.
func (c *Client) invoke(ctx context.Context, command string, args, dest interface{}, extra http.Header) error {
	body, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("%s: marshal arguments: %w", command, err)
	}
	req, err := c.newRequest(ctx, command, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%s: build request: %w", command, err)
	}
	for k, values := range extra {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", command, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return commandError(command, resp)
	}
	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil && err != io.EOF {
		return fmt.Errorf("%s: decode response after %s: %w", command, time.Since(start).Round(time.Millisecond), err)
	}
	return nil
}

func commandError(command string, resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	cmdErr := &CommandError{Command: command, Status: resp.StatusCode}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
		cmdErr.Message = payload.Error
	} else {
		cmdErr.Message = strings.TrimSpace(string(data))
	}
	return cmdErr
}
