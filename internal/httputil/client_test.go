package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDocument(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><a href="https://app.mode.com/acme/spaces/abc">space</a></body></html>`))
	}))
	defer srv.Close()

	client := srv.Client()

	t.Run("parses page", func(t *testing.T) {
		doc, err := GetDocument(context.Background(), client, srv.URL+"/page")
		require.NoError(t, err)
		href, ok := doc.Find("a").Attr("href")
		assert.True(t, ok)
		assert.Equal(t, "https://app.mode.com/acme/spaces/abc", href)
	})

	t.Run("non-200 status", func(t *testing.T) {
		_, err := GetDocument(context.Background(), client, srv.URL+"/missing")
		assert.Error(t, err)
	})

	t.Run("plain http rejected", func(t *testing.T) {
		_, err := GetDocument(context.Background(), client, "http://example.com")
		assert.Error(t, err)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := GetDocument(ctx, client, srv.URL+"/page")
		assert.Error(t, err)
	})
}

func TestNewClientDefaultTimeout(t *testing.T) {
	c := NewClient(0)
	assert.Equal(t, "30s", c.Timeout.String())
}
