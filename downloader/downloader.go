package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const DefaultTimeout = 60 * time.Second

type GetOptions struct {
	MaxSize int
	Timeout time.Duration
}

// A thing capable of downloading a file
type Downloader interface {
	Get(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error)
}

// Downloads over plain HTTP.
type HTTP struct{}

func (HTTP) Get(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error) {
	return HTTPGet(ctx, url, headers, options)
}

// Gets a file. Doesn't cache. Provided as convenience for
// implementing custom Downloaders.
func HTTPGet(ctx context.Context, url string, headers map[string]string, options GetOptions) ([]byte, error) {
	client := &http.Client{
		Timeout: options.Timeout,
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range headers {
		req.Header.Add(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	var reader io.Reader = resp.Body
	if options.MaxSize > 0 {
		reader = io.LimitReader(resp.Body, int64(options.MaxSize))
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	return body, nil
}

// IsURL reports whether location names an http(s) resource rather
// than a local file.
func IsURL(location string) bool {
	u, err := url.Parse(location)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch reads a local file, or downloads location with d if it is an
// http(s) URL.
func Fetch(ctx context.Context, d Downloader, location string, headers map[string]string, options GetOptions) ([]byte, error) {
	if !IsURL(location) {
		body, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", location, err)
		}
		return body, nil
	}

	body, err := d.Get(ctx, location, headers, options)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", location, err)
	}
	return body, nil
}

// BaseName is the file name of location without its extension, used
// to name derived outputs.
func BaseName(location string) string {
	name := filepath.Base(location)
	if IsURL(location) {
		u, _ := url.Parse(location)
		name = path.Base(u.Path)
		if name == "/" || name == "." || name == "" {
			return u.Host
		}
	}
	return strings.TrimSuffix(name, path.Ext(name))
}
