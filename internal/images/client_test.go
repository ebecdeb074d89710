package images

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_Upload(t *testing.T) {
	t.Run("Success returns hosted URL", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "secret-key", r.FormValue("key"))
			assert.NotEmpty(t, r.FormValue("name"))

			decoded, err := base64.StdEncoding.DecodeString(r.FormValue("image"))
			require.NoError(t, err)
			assert.Equal(t, []byte("fake-png-bytes"), decoded)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"data":{"url":"https://i.example/abc.png"},"success":true}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "secret-key")
		url, err := client.Upload(context.Background(), UploadInput{Content: []byte("fake-png-bytes")})
		require.NoError(t, err)
		assert.Equal(t, "https://i.example/abc.png", url)
	})

	t.Run("Host rejection surfaces message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"error":{"message":"invalid key"}}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "bad-key")
		_, err := client.Upload(context.Background(), UploadInput{Content: []byte("x")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid key")
	})

	t.Run("Missing credential fails before any request", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "")
		_, err := client.Upload(context.Background(), UploadInput{Content: []byte("x")})
		assert.Error(t, err)
	})

	t.Run("Empty content fails", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "key")
		_, err := client.Upload(context.Background(), UploadInput{})
		assert.Error(t, err)
	})
}

func TestParseDataURI(t *testing.T) {
	t.Run("Valid base64 data URI", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte("hello"))
		mediaType, data, err := ParseDataURI("data:image/png;base64," + payload)
		require.NoError(t, err)
		assert.Equal(t, "image/png", mediaType)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("Not a data URI", func(t *testing.T) {
		_, _, err := ParseDataURI("https://example.com/image.png")
		assert.Error(t, err)
	})

	t.Run("Missing comma", func(t *testing.T) {
		_, _, err := ParseDataURI("data:image/png;base64")
		assert.Error(t, err)
	})

	t.Run("Non-base64 encoding unsupported", func(t *testing.T) {
		_, _, err := ParseDataURI("data:text/plain,hello")
		assert.Error(t, err)
	})

	t.Run("Bad base64 payload", func(t *testing.T) {
		_, _, err := ParseDataURI("data:image/png;base64,!!!not-base64!!!")
		assert.Error(t, err)
	})
}
