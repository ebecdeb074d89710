// Package images talks to the third-party image hosting service posts
// reference by URL. The service itself never stores image bytes.
package images

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Uploader pushes image bytes to the hosting service and returns the public URL.
type Uploader interface {
	Upload(ctx context.Context, input UploadInput) (string, error)
}

// UploadInput is one image to upload. Name is optional; a random one is
// generated when empty.
type UploadInput struct {
	Name    string
	Content []byte
}

// Client is an Uploader backed by an imgbb-style HTTP upload API: a multipart
// POST with an API key and a base64 image field, answered with JSON carrying
// the hosted URL.
type Client struct {
	endpoint string
	key      string
	http     *http.Client
}

// NewClient builds a Client for the given endpoint and credential.
func NewClient(endpoint, key string) *Client {
	return &Client{
		endpoint: endpoint,
		key:      key,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
}

type uploadResponse struct {
	Data struct {
		URL string `json:"url"`
	} `json:"data"`
	Success bool `json:"success"`
	Error   struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image and returns its public URL. Any failure aborts the
// caller's create pipeline, so errors are wrapped with enough context to log.
func (c *Client) Upload(ctx context.Context, input UploadInput) (string, error) {
	if c.key == "" {
		return "", fmt.Errorf("image host credential is not configured")
	}
	if len(input.Content) == 0 {
		return "", fmt.Errorf("empty image content")
	}

	name := input.Name
	if name == "" {
		name = uuid.NewString()
	}

	var body strings.Builder
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("key", c.key); err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	if err := writer.WriteField("name", name); err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	if err := writer.WriteField("image", base64.StdEncoding.EncodeToString(input.Content)); err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(body.String()))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("image host request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read image host response: %w", err)
	}

	var parsed uploadResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode image host response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK || !parsed.Success {
		msg := parsed.Error.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", fmt.Errorf("image host rejected upload: %s", msg)
	}
	if parsed.Data.URL == "" {
		return "", fmt.Errorf("image host returned no URL")
	}

	return parsed.Data.URL, nil
}

// ParseDataURI decodes a data: URI (the admin form's local preview format)
// into raw bytes. Returns the media type and the decoded payload.
func ParseDataURI(uri string) (string, []byte, error) {
	if !strings.HasPrefix(uri, "data:") {
		return "", nil, fmt.Errorf("not a data URI")
	}
	meta, payload, ok := strings.Cut(uri[len("data:"):], ",")
	if !ok {
		return "", nil, fmt.Errorf("malformed data URI")
	}

	mediaType := meta
	isBase64 := false
	if strings.HasSuffix(meta, ";base64") {
		mediaType = strings.TrimSuffix(meta, ";base64")
		isBase64 = true
	}
	if mediaType == "" {
		mediaType = "text/plain"
	}

	if !isBase64 {
		return "", nil, fmt.Errorf("unsupported data URI encoding")
	}

	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return mediaType, decoded, nil
}
