// Package client talks to a remote showcase host: the static snapshot and
// artifact files, the favorites API and the workspace flows API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-showcase/pkg/catalog"
	"github.com/mattsolo1/grove-showcase/pkg/export"
	"github.com/mattsolo1/grove-showcase/pkg/models"
)

// DefaultTimeout is used when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.URL, e.Code, http.StatusText(e.Code), e.Body)
}

// Unwrap maps 404 onto os.ErrNotExist so callers can treat remote and
// directory sources alike.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return os.ErrNotExist
	}
	return nil
}

// Client is an HTTP client for one showcase host.
type Client struct {
	staticURL string
	apiURL    string
	token     string
	timeout   time.Duration
	http      *http.Client
	log       *logrus.Entry
}

// Option configures a Client
type Option func(*Client)

// WithToken sets the bearer token sent with API requests.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying http.Client. The client is not
// modified; a timeout set with WithTimeout applies to a copy.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(c *Client) {
		c.log = log
	}
}

// New creates a Client. staticURL is the base of store_index.json and the
// artifact directories; apiURL is the base of the favorites and flows routes.
func New(staticURL, apiURL string, opts ...Option) *Client {
	c := &Client{
		staticURL: strings.TrimRight(staticURL, "/"),
		apiURL:    strings.TrimRight(apiURL, "/"),
		http:      &http.Client{Timeout: DefaultTimeout},
		log:       logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 && c.http.Timeout != c.timeout {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	c.log = c.log.WithField("component", "client")
	return c
}

var _ catalog.Source = (*Client)(nil)

// OpenSnapshot fetches store_index.json.
func (c *Client) OpenSnapshot(ctx context.Context) (io.ReadCloser, error) {
	rc, err := c.openStatic(ctx, catalog.SnapshotFile)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshot: %w", err)
	}
	return rc, nil
}

// OpenArtifact fetches the artifact ref points at. The item id is sent
// along so the host can find a renamed file.
func (c *Client) OpenArtifact(ctx context.Context, ref export.Ref) (io.ReadCloser, error) {
	for _, seg := range []string{ref.Dir, ref.File} {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `/\`) {
			return nil, fmt.Errorf("fetch artifact %q: invalid path", ref.Path())
		}
	}
	u := url.PathEscape(ref.Dir) + "/" + url.PathEscape(ref.File)
	if ref.ID != "" {
		u += "?" + url.Values{"id": {ref.ID}}.Encode()
	}
	rc, err := c.openStatic(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch artifact: %w", err)
	}
	return rc, nil
}

// openStatic GETs an already escaped path below the static root.
func (c *Client) openStatic(ctx context.Context, escaped string) (io.ReadCloser, error) {
	u := c.staticURL + "/" + escaped

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		return nil, statusError(resp)
	}
	return resp.Body, nil
}

// ListItemIDs returns the ids of every favorited item.
func (c *Client) ListItemIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := c.doJSON(ctx, http.MethodGet, "/favorites/item-ids", nil, &ids); err != nil {
		return nil, fmt.Errorf("list favorite ids: %w", err)
	}
	return ids, nil
}

// Toggle flips the favorite status of an item.
func (c *Client) Toggle(ctx context.Context, req models.ToggleRequest) (*models.ToggleResult, error) {
	var res models.ToggleResult
	if err := c.doJSON(ctx, http.MethodPost, "/favorites/toggle", req, &res); err != nil {
		return nil, fmt.Errorf("toggle favorite: %w", err)
	}
	return &res, nil
}

// ListFavorites returns the full favorite records.
func (c *Client) ListFavorites(ctx context.Context) ([]models.FavoriteRecord, error) {
	var records []models.FavoriteRecord
	if err := c.doJSON(ctx, http.MethodGet, "/favorites/", nil, &records); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return records, nil
}

// DeleteFavorite removes the favorite of itemID.
func (c *Client) DeleteFavorite(ctx context.Context, itemID string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/favorites/"+url.PathEscape(itemID), nil, nil); err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	return nil
}

// CreateFlow copies an item into the user's workspace.
func (c *Client) CreateFlow(ctx context.Context, nf models.NewFlow) (*models.Flow, error) {
	var flow models.Flow
	if err := c.doJSON(ctx, http.MethodPost, "/flows/", nf, &flow); err != nil {
		return nil, fmt.Errorf("create flow: %w", err)
	}
	return &flow, nil
}

// ListFlows returns the flows in the user's workspace.
func (c *Client) ListFlows(ctx context.Context) ([]models.Flow, error) {
	var flows []models.Flow
	if err := c.doJSON(ctx, http.MethodGet, "/flows/", nil, &flows); err != nil {
		return nil, fmt.Errorf("list flows: %w", err)
	}
	return flows, nil
}

func (c *Client) doJSON(ctx context.Context, method, route string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiURL+route, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	c.log.WithFields(logrus.Fields{
		"method":   method,
		"route":    route,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("api request")

	if resp.StatusCode/100 != 2 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{
		Method: resp.Request.Method,
		URL:    resp.Request.URL.String(),
		Code:   resp.StatusCode,
		Body:   strings.TrimSpace(string(data)),
	}
}
