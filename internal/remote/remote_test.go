// ABOUTME: Tests for the remote blob/profile client against a stub HTTP server
// ABOUTME: Verifies request shapes and that remote failures surface to callers

package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUploadImage(t *testing.T) {
	var gotPath, gotContentType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		_ = json.NewEncoder(w).Encode(map[string]string{"url": "https://cdn.example.com/a.png"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	url, err := c.UploadImage(context.Background(), "user-1", ImageAvatar, strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "https://cdn.example.com/a.png", url)
	assert.Equal(t, "/objects/user-1/avatar", gotPath)
	assert.Equal(t, "image/png", gotContentType)
	assert.Equal(t, "png-bytes", gotBody)
}

func TestUploadFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "report.pdf", r.URL.Query().Get("filename"))
		_ = json.NewEncoder(w).Encode(UploadedFile{URL: "https://cdn.example.com/f", Filename: "report.pdf"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	f, err := c.UploadFile(context.Background(), "user-1", "report.pdf", strings.NewReader("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/f", f.URL)
	assert.Equal(t, "report.pdf", f.Filename)
}

func TestProfileRoundTrip(t *testing.T) {
	stored := map[string]*Profile{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimPrefix(r.URL.Path, "/profiles/")
		switch r.Method {
		case http.MethodPut:
			var p Profile
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			stored[userID] = &p
			w.WriteHeader(http.StatusNoContent)
		case http.MethodGet:
			p, ok := stored[userID]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(p)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	ctx := context.Background()

	require.NoError(t, c.SaveProfile(ctx, &Profile{
		UserID:      "user-1",
		DisplayName: "Demo User",
		Bio:         "building boards",
	}))

	p, err := c.Profile(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Demo User", p.DisplayName)
	assert.Equal(t, "building boards", p.Bio)
}

func TestProfileNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusInsufficientStorage)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.UploadImage(context.Background(), "user-1", ImageBanner, strings.NewReader("x"), "image/jpeg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "507")
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestUnreachableServerSurfaces(t *testing.T) {
	c := New("http://127.0.0.1:1")
	_, err := c.Profile(context.Background(), "user-1")
	assert.Error(t, err)
}
