// Package vocabulary loads the word lists phrases are composed from.
package vocabulary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"strings"
	"time"
)

const defaultMaxContentSize = 4 << 20

// HTTPLoader downloads word lists from a static content server.
type HTTPLoader struct {
	baseURL string
	client  *http.Client
	maxSize int64
}

type HTTPLoaderOption func(*HTTPLoader)

// WithMaxContentSize limits the size of a downloaded word list in bytes.
// Non-positive values keep the default of 4 MiB.
func WithMaxContentSize(n int64) HTTPLoaderOption {
	return func(l *HTTPLoader) {
		if n > 0 {
			l.maxSize = n
		}
	}
}

// NewHTTPLoader returns a loader fetching paths relative to baseURL.
// If client is nil, a client with the given timeout is used.
func NewHTTPLoader(baseURL string, client *http.Client, timeout time.Duration, opts ...HTTPLoaderOption) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}

	l := &HTTPLoader{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		maxSize: defaultMaxContentSize,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Download returns the content at path. It reports false if the server has no content for it.
func (l *HTTPLoader) Download(ctx context.Context, path string) ([]byte, bool, error) {
	const op = "adapter.vocabulary.HTTPLoader.Download"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.baseURL+path, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to build request: %w", op, err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to send request: %w", op, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusNoContent:
		return nil, false, nil
	default:
		return nil, false, fmt.Errorf("%s: unexpected status code: %d", op, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxSize+1))
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to read body: %w", op, err)
	}
	if int64(len(data)) > l.maxSize {
		return nil, false, fmt.Errorf("%s: content of %s exceeds %d bytes", op, path, l.maxSize)
	}

	return data, true, nil
}

// DirLoader reads word lists from a file system, laid out the same way as the content server.
type DirLoader struct {
	fsys fs.FS
}

func NewDirLoader(fsys fs.FS) *DirLoader {
	return &DirLoader{fsys: fsys}
}

func (l *DirLoader) Download(ctx context.Context, path string) ([]byte, bool, error) {
	const op = "adapter.vocabulary.DirLoader.Download"

	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}

	data, err := fs.ReadFile(l.fsys, strings.TrimPrefix(path, "/"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: failed to read file: %w", op, err)
	}

	return data, true, nil
}
