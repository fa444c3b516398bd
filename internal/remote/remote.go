// ABOUTME: HTTP client for the remote blob and profile-row store
// ABOUTME: Uploads images/files and reads/writes the per-user profile record

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when the requested profile does not exist.
var ErrNotFound = errors.New("not found")

// ImageKind selects which profile image an upload replaces.
type ImageKind string

const (
	ImageAvatar ImageKind = "avatar"
	ImageBanner ImageKind = "banner"
)

// Profile is the remote user profile record, keyed by user id.
type Profile struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// UploadedFile describes a stored file attachment.
type UploadedFile struct {
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// Client talks to the remote object/row store over HTTP. Unlike local
// persistence, every failure here is returned to the caller: the user
// must see that an upload or profile write did not happen.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client, primarily for
// tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for the store at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default().With("component", "remote"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UploadImage stores an avatar or banner image for the user and returns
// its durable URL.
func (c *Client) UploadImage(ctx context.Context, userID string, kind ImageKind, r io.Reader, contentType string) (string, error) {
	endpoint := fmt.Sprintf("%s/objects/%s/%s", c.baseURL, url.PathEscape(userID), url.PathEscape(string(kind)))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, r)
	if err != nil {
		return "", fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var result struct {
		URL string `json:"url"`
	}
	if err := c.do(req, &result); err != nil {
		return "", fmt.Errorf("uploading %s: %w", kind, err)
	}
	return result.URL, nil
}

// UploadFile stores a file attachment for the user and returns its
// durable URL along with the original filename.
func (c *Client) UploadFile(ctx context.Context, userID, filename string, r io.Reader) (UploadedFile, error) {
	endpoint := fmt.Sprintf("%s/files/%s?filename=%s", c.baseURL, url.PathEscape(userID), url.QueryEscape(filename))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, r)
	if err != nil {
		return UploadedFile{}, fmt.Errorf("building upload request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	var result UploadedFile
	if err := c.do(req, &result); err != nil {
		return UploadedFile{}, fmt.Errorf("uploading file: %w", err)
	}
	return result, nil
}

// Profile fetches the user's profile record.
func (c *Client) Profile(ctx context.Context, userID string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/profiles/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building profile request: %w", err)
	}

	var p Profile
	if err := c.do(req, &p); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &p, nil
}

// SaveProfile writes the user's profile record.
func (c *Client) SaveProfile(ctx context.Context, p *Profile) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("serializing profile: %w", err)
	}

	endpoint := fmt.Sprintf("%s/profiles/%s", c.baseURL, url.PathEscape(p.UserID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building profile request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

// do executes the request and decodes a JSON response into out when
// non-nil. Non-2xx statuses become errors carrying a response snippet.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("remote store returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
