package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wricardo/klondike/game/engine"
	"github.com/wricardo/klondike/game/service"
)

// Client plays one session through the REST API.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, strings.TrimSpace(string(data)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a new session on dealID, or on the server's default
// deal when dealID is empty.
func (c *Client) CreateSession(ctx context.Context, dealID string) (*engine.GameState, error) {
	var info service.SessionInfo
	if err := c.do(ctx, "POST", "/api/sessions", map[string]string{"deal_id": dealID}, &info); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	c.sessionID = info.ID
	return info.GameState, nil
}

func (c *Client) GetState(ctx context.Context) (*engine.GameState, error) {
	var state engine.GameState
	if err := c.do(ctx, "GET", c.sessionPath("/state"), nil, &state); err != nil {
		return nil, fmt.Errorf("get state: %w", err)
	}
	return &state, nil
}

func (c *Client) Hints(ctx context.Context) (*service.HintsResponse, error) {
	var hints service.HintsResponse
	if err := c.do(ctx, "GET", c.sessionPath("/hints"), nil, &hints); err != nil {
		return nil, fmt.Errorf("get hints: %w", err)
	}
	return &hints, nil
}

type RestartResponse struct {
	Message string            `json:"message"`
	State   *engine.GameState `json:"state"`
}

func (c *Client) Restart(ctx context.Context) (*engine.GameState, error) {
	var resp RestartResponse
	if err := c.do(ctx, "POST", c.sessionPath("/restart"), nil, &resp); err != nil {
		return nil, fmt.Errorf("restart: %w", err)
	}
	return resp.State, nil
}

// Play sends one hinted move to the matching endpoint. A move the server
// rejects comes back as an error together with the unchanged state.
func (c *Client) Play(ctx context.Context, m engine.Move) (*engine.GameState, error) {
	var result service.MoveResult
	var err error

	switch m.Command {
	case "discard":
		err = c.do(ctx, "POST", c.sessionPath("/discard"), nil, &result)
	case "reset":
		err = c.do(ctx, "POST", c.sessionPath("/reset"), nil, &result)
	default:
		err = c.do(ctx, "POST", c.sessionPath("/move"), map[string]string{"from": m.From, "to": m.To}, &result)
	}
	if err != nil {
		return nil, fmt.Errorf("execute %s: %w", m.Command, err)
	}

	if !result.Success {
		return result.GameState, fmt.Errorf("move failed [%s]: %s", result.Code, result.Message)
	}
	return result.GameState, nil
}
