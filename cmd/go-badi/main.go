package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"syscall"
	"time"
	_ "time/tzdata"

	fyneapp "fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-badi/internal/app"
	"github.com/tartampluch/go-badi/internal/badi"
	"github.com/tartampluch/go-badi/internal/config"
	"github.com/tartampluch/go-badi/internal/engine"
	"github.com/tartampluch/go-badi/internal/refdata"
	"github.com/tartampluch/go-badi/internal/ui"
)

// main defers to runMain so that deferred cleanups run before os.Exit.
func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout))
}

// cliOptions holds the parsed command line.
type cliOptions struct {
	version  bool
	debug    bool
	serve    bool
	tray     bool
	date     string
	badi     string
	tz       string
	reminder string
	settings config.Settings
}

func runMain(args []string, stdout io.Writer) int {
	opts, err := parseFlags(args)
	if err != nil {
		// flag already printed the problem and the usage.
		return config.ExitCodeError
	}

	if opts.version {
		printVersion(stdout)
		return config.ExitCodeSuccess
	}

	// Conversions print their result on stdout; keep it free of log lines.
	service := opts.serve || opts.tray
	console := io.Writer(os.Stderr)
	if service {
		console = os.Stdout
	}
	if closer := setupLogging(opts.debug, console); closer != nil {
		defer func() { _ = closer.Close() }()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if service {
		logStartupInfo()
	}

	if err := run(ctx, opts, stdout); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		fmt.Fprintln(os.Stderr, err)
		return config.ExitCodeError
	}

	if service {
		slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	}
	return config.ExitCodeSuccess
}

func parseFlags(args []string) (cliOptions, error) {
	opts := cliOptions{settings: config.DefaultSettings()}
	s := &opts.settings

	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.BoolVar(&opts.version, config.FlagVersion, false, config.FlagDescVersion)
	fs.BoolVar(&opts.debug, config.FlagDebug, false, config.FlagDescDebug)
	fs.BoolVar(&opts.serve, config.FlagServe, false, config.FlagDescServe)
	fs.BoolVar(&opts.tray, config.FlagTray, false, config.FlagDescTray)
	fs.StringVar(&opts.date, config.FlagDate, "", config.FlagDescDate)
	fs.StringVar(&opts.badi, config.FlagBadi, "", config.FlagDescBadi)
	fs.StringVar(&opts.tz, config.FlagTZ, "", config.FlagDescTZ)
	fs.StringVar(&opts.reminder, config.FlagReminder, "", config.FlagDescReminder)
	fs.Func(config.FlagLat, config.FlagDescLat, coordinate(&s.Latitude))
	fs.Func(config.FlagLon, config.FlagDescLon, coordinate(&s.Longitude))
	fs.StringVar(&s.Port, config.FlagPort, config.DefaultPort, config.FlagDescPort)
	fs.IntVar(&s.RefreshMin, config.FlagInterval, config.DefaultRefreshMin, config.FlagDescInterval)
	fs.StringVar(&s.LocalPath, config.FlagVCF, "", config.FlagDescVCF)
	fs.StringVar(&s.WebURL, config.FlagCardDAVURL, "", config.FlagDescCardDAVURL)
	fs.StringVar(&s.WebUser, config.FlagCardDAVUser, "", config.FlagDescCardDAVUser)

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

func coordinate(dst **float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("%s: %q", config.ErrCoordinate, v)
		}
		*dst = &f
		return nil
	}
}

// resolveSettings completes the settings with what the flags only name:
// the time zone, the contacts source and the reminder.
func resolveSettings(opts cliOptions) (config.Settings, error) {
	s := opts.settings

	if opts.tz != "" {
		loc, err := time.LoadLocation(opts.tz)
		if err != nil {
			return s, fmt.Errorf("%s: %w", config.ErrLocation, err)
		}
		s.Location = loc
	}

	switch {
	case s.WebURL != "":
		s.SourceMode = config.SourceModeWeb
	case s.LocalPath != "":
		s.SourceMode = config.SourceModeLocal
	}

	if opts.reminder != "" {
		value, unit, dir, err := parseReminder(opts.reminder)
		if err != nil {
			return s, err
		}
		s.ReminderEnabled = true
		s.ReminderValue, s.ReminderUnit, s.ReminderDir = value, unit, dir
	}
	return s, s.Validate()
}

// parseReminder reads the durations the feed can carry: [-]PnD, [-]PTnH
// and [-]PTnM.
func parseReminder(v string) (int, string, string, error) {
	invalid := fmt.Errorf("%s: %q", config.ErrReminderUnit, v)

	dir := config.DirAfter
	rest, before := strings.CutPrefix(v, config.ISONegativePrefix)
	if before {
		dir = config.DirBefore
	} else {
		var ok bool
		if rest, ok = strings.CutPrefix(v, config.ISOPeriodPrefix); !ok {
			return 0, "", "", invalid
		}
	}

	rest, timed := strings.CutPrefix(rest, config.ISOTimePrefix)
	if rest == "" {
		return 0, "", "", invalid
	}

	var unit string
	switch suffix := rest[len(rest)-1:]; {
	case suffix == config.ISODay && !timed:
		unit = config.UnitDays
	case suffix == config.ISOHour && timed:
		unit = config.UnitHours
	case suffix == config.ISOMinute && timed:
		unit = config.UnitMinutes
	default:
		return 0, "", "", invalid
	}

	value, err := strconv.Atoi(rest[:len(rest)-1])
	if err != nil || value < 0 {
		return 0, "", "", invalid
	}
	return value, unit, dir, nil
}

func run(ctx context.Context, opts cliOptions, stdout io.Writer) error {
	settings, err := resolveSettings(opts)
	if err != nil {
		return err
	}

	switch {
	case opts.date != "":
		return convertDate(stdout, opts.date, settings.Location, app.Observer(settings))
	case opts.badi != "":
		return showBadi(stdout, opts.badi, app.Observer(settings))
	case opts.serve:
		return app.New(ctx, settings, engine.NewHTTPFetcher()).Run()
	case opts.tray:
		runTray(ctx, settings)
		return nil
	}
	return errors.New(config.ErrNothingToDo)
}

// runTray serves the feed behind a system tray icon until the user quits
// or the process is interrupted.
func runTray(ctx context.Context, settings config.Settings) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	controller := app.New(ctx, settings, engine.NewHTTPFetcher())
	ui.NewBadiTray(fyneapp.NewWithID(config.AppID), controller, cancel).Run()
}

// convertDate prints the Badí date of a Gregorian date or instant. A bare
// date is read at midday, the daylight part of its Badí day.
func convertDate(w io.Writer, value string, loc *time.Location, opts []badi.Option) error {
	t, err := time.Parse(config.DateFormatRFC3339, value)
	if err != nil {
		day, perr := time.ParseInLocation(config.DateFormatFullDash, value, loc)
		if perr != nil {
			return fmt.Errorf("%s: %q", config.ErrDateParse, value)
		}
		t = day.Add(config.BirthHour * time.Hour)
	}

	d, err := badi.FromTime(t, opts...)
	if err != nil {
		return err
	}
	slog.Debug(config.MsgConverted,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyValue, value,
		config.LogKeyBadiDate, d.String())
	describe(w, d)
	return nil
}

func showBadi(w io.Writer, value string, opts []badi.Option) error {
	d, err := badi.ParseDate(value, opts...)
	if err != nil {
		return err
	}
	describe(w, d)
	return nil
}

func describe(w io.Writer, d badi.Date) {
	fmt.Fprintf(w, config.OutBadiDate, d, d.Day(), d.MonthName(), d.Year())
	fmt.Fprintf(w, config.OutDayOfYear, d.DayOfYear())
	fmt.Fprintf(w, config.OutCycles, d.YearInVahid(), d.Vahid(), d.KullIShay())
	if h := d.HolyDay(); h != refdata.None {
		fmt.Fprintf(w, config.OutHolyDay, h)
	}
	if d.IsFeastDay() {
		fmt.Fprintf(w, config.OutFeast, d.MonthName())
	}
	switch {
	case d.IsAyyamIHa():
		fmt.Fprint(w, config.OutAyyamIHa)
	case d.IsPeriodOfFast():
		fmt.Fprint(w, config.OutFast)
	}
	fmt.Fprintf(w, config.OutStart, d.Start().Format(config.DateFormatDisplay))
	fmt.Fprintf(w, config.OutEnd, d.End().Format(config.DateFormatDisplay))
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging installs a JSON logger writing to console and, when the
// cache directory is usable, to a log file truncated at each start.
func setupLogging(debug bool, console io.Writer) io.Closer {
	writers := []io.Writer{console}
	var logFile *os.File

	if path, err := logFilePath(); err == nil {
		f, err := os.OpenFile(path, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, path, err)
		}
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(handler))

	if logFile == nil {
		return nil
	}
	return logFile
}

func logFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}
	dir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(dir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	return filepath.Join(dir, config.LogFileName), nil
}
