// Package repository talks to a Nexus-style mod repository.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/smaitlx1/Nexus-Mod-Manager/internal/modinfo"
)

const defaultBaseURL = "https://api.nexusmods.com"
const siteURL = "https://www.nexusmods.com"
const defaultCacheTTL = time.Hour

// ModRef identifies one file of a mod in the repository, parsed from an
// nxm:// source URI.
type ModRef struct {
	Game   string
	ModID  int64
	FileID int64
	Query  url.Values // key/expires parameters of a download grant
}

// ParseNXM parses "nxm://{game}/mods/{mod}/files/{file}".
func ParseNXM(raw string) (ModRef, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ModRef{}, fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}
	if !strings.EqualFold(u.Scheme, "nxm") {
		return ModRef{}, fmt.Errorf("%w: %s", ErrUnsupportedSource, raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if u.Host == "" || len(parts) != 4 || parts[0] != "mods" || parts[2] != "files" {
		return ModRef{}, fmt.Errorf("%w: malformed nxm uri %s", ErrUnsupportedSource, raw)
	}

	modID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ModRef{}, fmt.Errorf("%w: mod id %q", ErrUnsupportedSource, parts[1])
	}
	fileID, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return ModRef{}, fmt.Errorf("%w: file id %q", ErrUnsupportedSource, parts[3])
	}

	return ModRef{Game: strings.ToLower(u.Host), ModID: modID, FileID: fileID, Query: u.Query()}, nil
}

// ModResponse is the repository's description of a mod.
type ModResponse struct {
	ModID    int64  `json:"mod_id"`
	Name     string `json:"name"`
	Summary  string `json:"summary"`
	Version  string `json:"version"`
	Author   string `json:"author"`
	Category string `json:"category_name"`
}

// FileResponse describes one downloadable file of a mod.
type FileResponse struct {
	FileID   int64  `json:"file_id"`
	Name     string `json:"name"`
	FileName string `json:"file_name"`
	Version  string `json:"version"`
	Size     int64  `json:"size_in_bytes"`
}

type downloadLink struct {
	Name string `json:"name"`
	URI  string `json:"URI"`
}

// Client is a mod repository API client.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client // API calls
	downloads  *http.Client // File transfers, no overall timeout
	cache      *cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithCacheTTL sets the mod info cache TTL.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = newCache(ttl)
	}
}

// WithTimeout sets the timeout of API calls. Downloads are not limited.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = &http.Client{Timeout: d}
	}
}

// WithHTTPClient sets a custom HTTP client for API calls and downloads.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
		c.downloads = hc
	}
}

// NewClient creates a repository client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		downloads: &http.Client{},
		cache:     newCache(defaultCacheTTL),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mod fetches mod metadata, served from cache when fresh.
func (c *Client) Mod(ctx context.Context, game string, modID int64) (*ModResponse, error) {
	cacheKey := fmt.Sprintf("%s/%d", game, modID)
	if m, ok := c.cache.get(cacheKey); ok {
		return m, nil
	}

	var m ModResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/v1/games/%s/mods/%d.json", url.PathEscape(game), modID), nil, &m); err != nil {
		return nil, fmt.Errorf("get mod %s: %w", cacheKey, err)
	}

	c.cache.set(cacheKey, &m)
	return &m, nil
}

// File fetches the description of one file of a mod.
func (c *Client) File(ctx context.Context, ref ModRef) (*FileResponse, error) {
	var f FileResponse
	p := fmt.Sprintf("/v1/games/%s/mods/%d/files/%d.json", url.PathEscape(ref.Game), ref.ModID, ref.FileID)
	if err := c.getJSON(ctx, p, nil, &f); err != nil {
		return nil, fmt.Errorf("get file %d: %w", ref.FileID, err)
	}
	return &f, nil
}

// DownloadURL returns a download link for a file.
func (c *Client) DownloadURL(ctx context.Context, ref ModRef) (string, error) {
	var links []downloadLink
	p := fmt.Sprintf("/v1/games/%s/mods/%d/files/%d/download_link.json", url.PathEscape(ref.Game), ref.ModID, ref.FileID)
	if err := c.getJSON(ctx, p, ref.Query, &links); err != nil {
		return "", fmt.Errorf("get download link %d: %w", ref.FileID, err)
	}
	if len(links) == 0 || links[0].URI == "" {
		return "", fmt.Errorf("get download link %d: %w", ref.FileID, ErrNotFound)
	}
	return links[0].URI, nil
}

// Info converts a repository mod into catalog metadata.
func (m *ModResponse) Info(game string) *modinfo.Info {
	return &modinfo.Info{
		ID:          strconv.FormatInt(m.ModID, 10),
		Name:        m.Name,
		Version:     m.Version,
		Author:      m.Author,
		Category:    m.Category,
		Website:     fmt.Sprintf("%s/%s/mods/%d", siteURL, game, m.ModID),
		Description: m.Summary,
	}
}

// Body is an open download stream.
type Body struct {
	io.ReadCloser
	Offset int64 // Byte offset the stream starts at
	Total  int64 // Full size of the file, 0 if unknown
	Name   string
}

// Open starts a download of rawURL from offset. If the server ignores the
// range request the body starts at 0 and Offset says so.
func (c *Client) Open(ctx context.Context, rawURL string, offset int64) (*Body, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}

	resp, err := c.downloads.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}

	body := &Body{ReadCloser: resp.Body, Name: path.Base(resp.Request.URL.Path)}
	switch resp.StatusCode {
	case http.StatusOK:
		if resp.ContentLength > 0 {
			body.Total = resp.ContentLength
		}
	case http.StatusPartialContent:
		body.Offset = offset
		if resp.ContentLength > 0 {
			body.Total = offset + resp.ContentLength
		}
	case http.StatusRequestedRangeNotSatisfiable:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("open %s: %w", rawURL, ErrRangeNotSatisfiable)
	default:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("open %s: %w", rawURL, statusError(resp))
	}
	return body, nil
}

func (c *Client) getJSON(ctx context.Context, p string, query url.Values, out any) error {
	u := c.baseURL + p
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return fmt.Errorf("repository error: %s", resp.Status)
	}
}
