// Package server publishes the generated feed on the loopback interface,
// together with a small JSON view of the current Badí day.
package server

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tartampluch/go-badi/internal/config"
)

// TodayFunc reports the Badí day in progress as a JSON-encodable value.
type TodayFunc func() (any, error)

// snapshot is one published version of the feed.
type snapshot struct {
	data         []byte
	etag         string
	lastModified time.Time
}

// CalendarServer serves the latest feed. Readers never block writers:
// Update swaps the whole snapshot.
type CalendarServer struct {
	Port  string
	Today TodayFunc

	feed atomic.Pointer[snapshot]
}

// NewCalendarServer returns a server for the given loopback port.
func NewCalendarServer(port string, today TodayFunc) *CalendarServer {
	return &CalendarServer{Port: port, Today: today}
}

// Handler routes the feed and the /today endpoint.
func (s *CalendarServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(config.RouteRoot, s.serveFeed)
	mux.HandleFunc(config.RouteToday, s.serveToday)
	return mux
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *CalendarServer) Start(ctx context.Context) error {
	if s.Port == "" {
		return errors.New(config.ErrPortRequired)
	}

	srv := &http.Server{
		Addr:         config.LocalhostBindAddr + config.AddrSeparator + s.Port,
		Handler:      s.Handler(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	failed := make(chan error, config.ChannelBufferSize)
	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyPort, s.Port,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	case <-ctx.Done():
	}

	slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
	}
	return nil
}

// Update publishes a new feed.
func (s *CalendarServer) Update(data []byte) {
	sum := sha256.Sum256(data)
	snap := &snapshot{
		data:         data,
		etag:         fmt.Sprintf(config.FormatETag, hex.EncodeToString(sum[:])),
		lastModified: time.Now().UTC().Truncate(time.Second),
	}
	s.feed.Store(snap)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, snap.etag,
	)
}

func allowRead(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	w.Header().Set(config.HeaderAllow, config.AllowedMethods)
	http.Error(w, config.HTTPMsgMethodNotAll, http.StatusMethodNotAllowed)
	return false
}

func (s *CalendarServer) serveFeed(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}

	snap := s.feed.Load()
	if snap == nil {
		w.Header().Set(config.HeaderRetryAfter, config.RetryAfterSeconds)
		http.Error(w, config.HTTPMsgInitializing, http.StatusServiceUnavailable)
		return
	}

	h := w.Header()
	h.Set(config.HeaderContentType, config.MimeTextCalendar)
	h.Set(config.HeaderXContentType, config.MimeNoSniff)
	h.Set(config.HeaderCacheControl, config.CacheControlPrivate)
	h.Set(config.HeaderETag, snap.etag)
	h.Set(config.HeaderLastModified, snap.lastModified.Format(http.TimeFormat))

	if notModified(r, snap) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(snap.data); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}

// notModified evaluates If-None-Match first, then If-Modified-Since.
func notModified(r *http.Request, snap *snapshot) bool {
	if match := r.Header.Get(config.HeaderIfNoneMatch); match != "" {
		return match == snap.etag
	}
	since, err := http.ParseTime(r.Header.Get(config.HeaderIfModifiedSince))
	if err != nil {
		return false
	}
	return !snap.lastModified.After(since)
}

func (s *CalendarServer) serveToday(w http.ResponseWriter, r *http.Request) {
	if !allowRead(w, r) {
		return
	}
	if s.Today == nil {
		http.Error(w, config.ErrTodayUnavailable, http.StatusServiceUnavailable)
		return
	}

	today, err := s.Today()
	if err != nil {
		slog.Warn(config.ErrTodayUnavailable,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
		http.Error(w, config.ErrTodayUnavailable, http.StatusServiceUnavailable)
		return
	}

	w.Header().Set(config.HeaderContentType, config.MimeJSON)
	w.Header().Set(config.HeaderCacheControl, config.CacheControlNoStore)
	if r.Method == http.MethodHead {
		return
	}
	if err := json.NewEncoder(w).Encode(today); err != nil {
		slog.Error(config.ErrWriteResp,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyError, err,
		)
	}
}
