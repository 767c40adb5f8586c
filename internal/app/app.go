// Package app runs the feed service: the HTTP server and the background
// worker that regenerates the feed.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-badi/internal/badi"
	"github.com/tartampluch/go-badi/internal/config"
	"github.com/tartampluch/go-badi/internal/engine"
	"github.com/tartampluch/go-badi/internal/server"
	"github.com/zalando/go-keyring"
)

// App wires settings, generator and server together.
type App struct {
	Ctx     context.Context
	Server  *server.CalendarServer
	Fetcher engine.SourceFetcher
	Clock   engine.Clock

	// OnSync, when set before Run, is called after every sync with the
	// number of events in progress, or -1 and the error.
	OnSync func(manual bool, inProgress int, err error)

	mu          sync.RWMutex
	settings    config.Settings
	occurrences []engine.Occurrence
	inProgress  int

	intervalChan chan struct{}
}

// New builds the application. Settings are expected to be validated.
func New(ctx context.Context, settings config.Settings, fetcher engine.SourceFetcher) *App {
	a := &App{
		Ctx:          ctx,
		Fetcher:      fetcher,
		Clock:        engine.RealClock{},
		settings:     settings,
		intervalChan: make(chan struct{}, config.ChannelBufferSize),
	}
	a.Server = server.NewCalendarServer(settings.Port, func() (any, error) { return a.Today() })
	return a
}

// Run serves the feed and keeps it fresh until the context is cancelled.
// If the server cannot start, the worker is stopped and the error returned.
func (a *App) Run() error {
	ctx, stop := context.WithCancel(a.Ctx)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.backgroundWorker(ctx)
	}()

	err := a.Server.Start(ctx)
	if err != nil {
		slog.Error(config.ErrServerStartup,
			config.LogKeyComponent, config.CompApp,
			config.LogKeyPort, a.Server.Port,
			config.LogKeyError, err)
		stop()
	}
	wg.Wait()
	return err
}

// Settings returns a copy of the current settings.
func (a *App) Settings() config.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.settings
}

// UpdateInterval changes the refresh period; the worker picks it up at once.
// Zero disables the periodic refresh.
func (a *App) UpdateInterval(minutes int) {
	a.mu.Lock()
	a.settings.RefreshMin = minutes
	a.mu.Unlock()

	select {
	case a.intervalChan <- struct{}{}:
	default:
	}
}

// Occurrences returns the events of the last successful sync.
func (a *App) Occurrences() []engine.Occurrence {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]engine.Occurrence, len(a.occurrences))
	copy(out, a.occurrences)
	return out
}

// Upcoming returns at most limit events of the last sync that have not
// ended yet, in start order.
func (a *App) Upcoming(limit int) []engine.Occurrence {
	now := a.Clock.Now()
	var out []engine.Occurrence
	for _, o := range a.Occurrences() {
		if len(out) == limit {
			break
		}
		if o.End.After(now) {
			out = append(out, o)
		}
	}
	return out
}

// InProgress returns how many events were in progress at the last sync,
// or -1 if it failed.
func (a *App) InProgress() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.inProgress
}

// interval returns the refresh period, or zero when refresh is disabled.
func (a *App) interval() time.Duration {
	minutes := a.Settings().RefreshMin
	if minutes <= config.DisabledInterval {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

func (a *App) backgroundWorker(ctx context.Context) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	a.performSync(false)

	ticker := time.NewTicker(time.Hour)
	ticker.Stop()
	defer ticker.Stop()

	var tick <-chan time.Time
	var current time.Duration
	schedule := func(next time.Duration) {
		current = next
		if next == 0 {
			ticker.Stop()
			tick = nil
			log.Info(config.MsgRefreshOff)
			return
		}
		ticker.Reset(next)
		tick = ticker.C
	}

	schedule(a.interval())
	log.Info(config.MsgWorkerStart, config.LogKeyInterval, current)

	for {
		select {
		case <-ctx.Done():
			log.Info(config.MsgWorkerStop)
			return

		case <-a.intervalChan:
			if next := a.interval(); next != current {
				log.Info(config.MsgUpdateSync, config.LogKeyOld, current, config.LogKeyNew, next)
				schedule(next)
			}

		case <-tick:
			a.performSync(false)
		}
	}
}

func (a *App) generator() *engine.Generator {
	return &engine.Generator{Clock: a.Clock, Fetcher: a.Fetcher}
}

// SyncNow regenerates the feed on request.
func (a *App) SyncNow() {
	a.performSync(true)
}

// performSync regenerates the feed and publishes it.
func (a *App) performSync(manual bool) {
	slog.Info(config.MsgSyncReq,
		config.LogKeyComponent, config.CompApp,
		config.LogKeyManual, manual)

	ics, occurrences, count, err := a.generator().RunSync(a.Ctx, a.loadSyncConfig())
	if err != nil {
		slog.Error(config.MsgSyncFailed,
			config.LogKeyComponent, config.CompApp,
			config.LogKeyError, err)
		a.mu.Lock()
		a.inProgress = -1
		a.mu.Unlock()
		a.notify(manual, -1, err)
		return
	}

	a.mu.Lock()
	a.occurrences = occurrences
	a.inProgress = count
	a.mu.Unlock()

	a.Server.Update(ics)
	slog.Info(config.MsgFeedGenerated,
		config.LogKeyComponent, config.CompApp,
		config.LogKeyNow, count,
		config.LogKeySizeBytes, len(ics))
	a.notify(manual, count, nil)
}

func (a *App) notify(manual bool, count int, err error) {
	if a.OnSync != nil {
		a.OnSync(manual, count, err)
	}
}

// Today returns the Badí date in progress for the configured observer.
func (a *App) Today() (engine.Today, error) {
	return a.generator().Today(a.badiOptions()...)
}

func (a *App) badiOptions() []badi.Option {
	return Observer(a.Settings())
}

// Observer places the observer of s for sunset computations.
func Observer(s config.Settings) []badi.Option {
	opts := []badi.Option{badi.WithLocation(s.Location)}
	if s.Latitude != nil {
		opts = append(opts, badi.WithLatitude(*s.Latitude))
	}
	if s.Longitude != nil {
		opts = append(opts, badi.WithLongitude(*s.Longitude))
	}
	return opts
}

// loadSyncConfig maps settings to the generator configuration. The CardDAV
// password comes from the OS keyring unless given explicitly.
func (a *App) loadSyncConfig() engine.SyncConfig {
	s := a.Settings()
	cfg := engine.SyncConfig{
		Mode:      s.SourceMode,
		LocalPath: s.LocalPath,
		WebURL:    s.WebURL,
		WebUser:   s.WebUser,
		WebPass:   s.WebPass,
		Options:   a.badiOptions(),
	}

	if cfg.Mode == config.SourceModeWeb && cfg.WebUser != "" && cfg.WebPass == "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyComponent, config.CompApp,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err)
		}
	}

	if s.ReminderEnabled {
		cfg.ReminderTrigger = reminderTrigger(s.ReminderValue, s.ReminderUnit, s.ReminderDir)
	}
	return cfg
}

// reminderTrigger renders an RFC 5545 duration such as "-P1D" or "PT30M".
func reminderTrigger(value int, unit, dir string) string {
	sign := config.ISOPeriodPrefix
	if dir == config.DirBefore {
		sign = config.ISONegativePrefix
	}

	switch unit {
	case config.UnitHours:
		return fmt.Sprintf("%s%s%d%s", sign, config.ISOTimePrefix, value, config.ISOHour)
	case config.UnitMinutes:
		return fmt.Sprintf("%s%s%d%s", sign, config.ISOTimePrefix, value, config.ISOMinute)
	}
	return fmt.Sprintf("%s%d%s", sign, value, config.ISODay)
}
