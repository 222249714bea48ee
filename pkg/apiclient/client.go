// Package apiclient talks to a running gameplan web server.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/huddleup/gameplan/pkg/gameplan"
	"github.com/tidwall/gjson"
)

// ErrUnauthorized is returned when the server rejects the token or credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Bootstrap is the initial load returned by /api/bootstrap.
type Bootstrap struct {
	Plans      []gameplan.GamePlan  `json:"plans"`
	Situations []gameplan.Situation `json:"situations"`
	Plays      []gameplan.Play      `json:"plays"`
}

type Client struct {
	baseURL string
	token   string
	http    *retryablehttp.Client
}

// New returns a client for the server at baseURL, e.g. http://localhost:9999.
func New(baseURL string) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = log.New(io.Discard, "", 0)
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 2 * time.Second
	retryClient.HTTPClient.Timeout = 30 * time.Second
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    retryClient,
	}
}

// Token returns the bearer token set by Login or SetToken.
func (c *Client) Token() string { return c.token }

func (c *Client) SetToken(token string) { c.token = token }

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	token := gjson.GetBytes(body, "token").String()
	if token == "" {
		return "", errors.New("login response has no token")
	}
	c.token = token
	return token, nil
}

func (c *Client) Situations(ctx context.Context) ([]gameplan.Situation, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/situations", nil)
	if err != nil {
		return nil, err
	}
	var out []gameplan.Situation
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding situations: %w", err)
	}
	return out, nil
}

// ReplaceSituations overwrites the caller's situations and returns what the
// server stored.
func (c *Client) ReplaceSituations(ctx context.Context, situations []gameplan.Situation) ([]gameplan.Situation, error) {
	if situations == nil {
		situations = []gameplan.Situation{}
	}
	body, err := c.do(ctx, http.MethodPost, "/api/situations", map[string]interface{}{"situations": situations})
	if err != nil {
		return nil, err
	}
	var out []gameplan.Situation
	if err := json.Unmarshal([]byte(gjson.GetBytes(body, "situations").Raw), &out); err != nil {
		return nil, fmt.Errorf("decoding situations: %w", err)
	}
	return out, nil
}

func (c *Client) Bootstrap(ctx context.Context) (Bootstrap, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/bootstrap", nil)
	if err != nil {
		return Bootstrap{}, err
	}
	var out Bootstrap
	if err := json.Unmarshal(body, &out); err != nil {
		return Bootstrap{}, fmt.Errorf("decoding bootstrap: %w", err)
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		msg := gjson.GetBytes(body, "error").String()
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return nil, fmt.Errorf("%s %s: %d: %s", method, path, resp.StatusCode, msg)
	}
	return body, nil
}
