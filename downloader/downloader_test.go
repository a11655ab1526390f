package downloader_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transitops.dev/dutysheet/downloader"
)

func TestHTTPGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.xlsx" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		fmt.Fprintf(w, "workbook for %s", r.Header.Get("X-Key"))
	}))
	defer server.Close()

	body, err := downloader.HTTPGet(
		context.Background(),
		server.URL+"/duties.xlsx",
		map[string]string{"X-Key": "abc"},
		downloader.GetOptions{Timeout: time.Second},
	)
	require.NoError(t, err)
	assert.Equal(t, "workbook for abc", string(body))

	body, err = downloader.HTTPGet(
		context.Background(),
		server.URL+"/duties.xlsx",
		nil,
		downloader.GetOptions{MaxSize: 8},
	)
	require.NoError(t, err)
	assert.Equal(t, "workbook", string(body))

	_, err = downloader.HTTPGet(context.Background(), server.URL+"/missing.xlsx", nil, downloader.GetOptions{})
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("remote"))
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "duties.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("local"), 0644))

	body, err := downloader.Fetch(context.Background(), downloader.HTTP{}, path, nil, downloader.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "local", string(body))

	body, err = downloader.Fetch(context.Background(), downloader.HTTP{}, server.URL+"/duties.xlsx", nil, downloader.GetOptions{})
	require.NoError(t, err)
	assert.Equal(t, "remote", string(body))

	_, err = downloader.Fetch(context.Background(), downloader.HTTP{}, filepath.Join(t.TempDir(), "nope.xlsx"), nil, downloader.GetOptions{})
	assert.Error(t, err)
}

func TestBaseName(t *testing.T) {
	for _, tc := range []struct {
		in, want string
	}{
		{"duties.xlsx", "duties"},
		{"/data/Depot 4.xlsx", "Depot 4"},
		{"https://example.com/sheets/weekday.xlsx?raw=1", "weekday"},
		{"https://example.com/", "example.com"},
	} {
		assert.Equal(t, tc.want, downloader.BaseName(tc.in), tc.in)
	}
}

func TestIsURL(t *testing.T) {
	assert.True(t, downloader.IsURL("http://example.com/a.xlsx"))
	assert.True(t, downloader.IsURL("https://example.com/a.xlsx"))
	assert.False(t, downloader.IsURL("a.xlsx"))
	assert.False(t, downloader.IsURL("/tmp/a.xlsx"))
	assert.False(t, downloader.IsURL("sqlite://trips.db"))
}
