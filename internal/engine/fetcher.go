package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/go-badi/internal/config"
)

// SourceFetcher retrieves a remote address book (vCard stream).
type SourceFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher downloads address books over HTTP(S), e.g. a CardDAV export URL.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher returns a fetcher bounded by config.HTTPTimeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{Client: &http.Client{Timeout: config.HTTPTimeout}}
}

// Fetch issues an authenticated GET. The body is capped at
// config.MaxHTTPResponseSize; the caller closes it.
func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL, user, pass string) (io.ReadCloser, error) {
	u, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, redact(u)),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	log.Debug("Fetching address book")
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching address book: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		log.Warn("Address book server refused the request", slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("unexpected status: %s", resp.Status)
	}

	log.Info("Address book downloading", slog.Int64(config.LogKeySizeBytes, resp.ContentLength))
	return cappedBody{
		Reader: io.LimitReader(resp.Body, config.MaxHTTPResponseSize),
		Closer: resp.Body,
	}, nil
}

// redact drops credentials and the query string, which may carry tokens.
func redact(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}

// cappedBody reads through the limit but closes the underlying connection.
type cappedBody struct {
	io.Reader
	io.Closer
}
