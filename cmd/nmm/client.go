package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	v1 "github.com/smaitlx1/Nexus-Mod-Manager/internal/api/v1"
	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

// Client wraps HTTP calls to the nmmd server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new nmmd API client.
func NewClient(serverURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// APIError is an error reported by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Code)
}

func (c *Client) do(method, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal error: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("request creation failed: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return decodeError(resp)
	}
	if resp.StatusCode == http.StatusNoContent || result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)
	var e struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	if json.Unmarshal(data, &e) == nil && e.Error != "" {
		return &APIError{Status: resp.StatusCode, Code: e.Code, Message: e.Error}
	}
	return &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(data))}
}

// Request queues an acquisition of source.
func (c *Client) Request(source string, info *modinfo.Info) (*v1.AcquisitionResponse, error) {
	body := map[string]any{"source": source}
	if info != nil && !info.IsZero() {
		body["info"] = info
	}
	var resp v1.AcquisitionResponse
	if err := c.do(http.MethodPost, "/api/v1/acquisitions", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Acquisitions lists the tracked acquisitions.
func (c *Client) Acquisitions() (*v1.ListAcquisitionsResponse, error) {
	var resp v1.ListAcquisitionsResponse
	if err := c.do(http.MethodGet, "/api/v1/acquisitions", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Pause pauses the acquisition of source. The returned task is nil when
// the acquisition ended before the server could report it.
func (c *Client) Pause(source string) (*v1.AcquisitionResponse, error) {
	return c.sourceAction("pause", source)
}

// Resume restarts a suspended acquisition of source.
func (c *Client) Resume(source string) (*v1.AcquisitionResponse, error) {
	return c.sourceAction("resume", source)
}

func (c *Client) sourceAction(action, source string) (*v1.AcquisitionResponse, error) {
	var resp *v1.AcquisitionResponse
	if err := c.do(http.MethodPost, "/api/v1/acquisitions/"+action, map[string]string{"source": source}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Cancel cancels the acquisition of source.
func (c *Client) Cancel(source string) error {
	return c.do(http.MethodDelete, "/api/v1/acquisitions?source="+url.QueryEscape(source), nil, nil)
}

// Mods lists catalog mods whose name matches name.
func (c *Client) Mods(name string, limit, offset int) (*v1.ListModsResponse, error) {
	params := url.Values{}
	if name != "" {
		params.Set("name", name)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	path := "/api/v1/mods"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp v1.ListModsResponse
	if err := c.do(http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Mod fetches one catalog mod.
func (c *Client) Mod(id int64) (*v1.ModResponse, error) {
	var resp v1.ModResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/mods/%d", id), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Activity returns the live task view.
func (c *Client) Activity() (*v1.ActivityResponse, error) {
	var resp v1.ActivityResponse
	if err := c.do(http.MethodGet, "/api/v1/activity", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Events returns the most recent events.
func (c *Client) Events(limit int) (*v1.ListEventsResponse, error) {
	var resp v1.ListEventsResponse
	if err := c.do(http.MethodGet, fmt.Sprintf("/api/v1/events?limit=%d", limit), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status returns the server status.
func (c *Client) Status() (*v1.StatusResponse, error) {
	var resp v1.StatusResponse
	if err := c.do(http.MethodGet, "/api/v1/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
