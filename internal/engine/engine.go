// Package engine builds the Badí calendar feed: Nineteen Day Feasts, holy
// days and the Badí anniversaries of contacts, encoded as iCalendar.
package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-badi/internal/badi"
	"github.com/tartampluch/go-badi/internal/config"
	"github.com/tartampluch/go-badi/internal/refdata"
)

// SyncConfig contains everything one feed generation needs.
type SyncConfig struct {
	Mode            string // config.SourceModeNone, SourceModeLocal or SourceModeWeb
	LocalPath       string // .vcf file for SourceModeLocal
	WebURL          string // CardDAV/WebDAV address book for SourceModeWeb
	WebUser         string
	WebPass         string
	ReminderTrigger string // ISO-8601 duration, e.g. "-P1D"; empty disables alarms

	// Options place the observer (coordinates, time zone) for sunsets.
	Options []badi.Option
}

// Generator produces the feed.
type Generator struct {
	Clock   Clock
	Fetcher SourceFetcher
}

type syncStats struct {
	feasts, holyDays, cards, birthdays, now int
}

// Today returns the Badí date in progress according to the clock.
func (g *Generator) Today(opts ...badi.Option) (Today, error) {
	d, err := badi.FromTime(g.Clock.Now(), opts...)
	if err != nil {
		return Today{}, fmt.Errorf("%s: %w", config.ErrTodayUnavailable, err)
	}
	return NewToday(d), nil
}

// RunSync generates the feed for the Badí years around today. It returns
// the ICS data, the occurrences sorted by start, and how many of them are
// in progress now.
func (g *Generator) RunSync(ctx context.Context, cfg SyncConfig) ([]byte, []Occurrence, int, error) {
	began := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyMode, cfg.Mode,
	)
	log.InfoContext(ctx, config.MsgSyncStarted)

	if err := ctx.Err(); err != nil {
		return nil, nil, 0, err
	}

	now := g.Clock.Now()
	today, err := badi.FromTime(now, cfg.Options...)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("%s: %w", config.ErrTodayUnavailable, err)
	}

	var stats syncStats
	years := feedYears(today.Year())

	var occurrences []Occurrence
	for _, year := range years {
		cal, err := calendarOccurrences(year, cfg.Options, &stats)
		if err != nil {
			return nil, nil, 0, err
		}
		occurrences = append(occurrences, cal...)
	}

	if cfg.Mode != config.SourceModeNone && cfg.Mode != "" {
		births, err := g.birthdays(ctx, cfg, years, today.Location(), &stats)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, 0, ctx.Err()
			}
			return nil, nil, 0, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
		}
		occurrences = append(occurrences, births...)
	}

	slices.SortStableFunc(occurrences, func(a, b Occurrence) int {
		return a.Start.Compare(b.Start)
	})

	for _, o := range occurrences {
		if o.InProgress(now) {
			stats.now++
			log.Info(config.MsgOccurringNow,
				config.LogKeyName, o.Name,
				config.LogKeyBadiDate, o.Date.String())
		}
	}

	ics, err := encodeFeed(occurrences, now, cfg.ReminderTrigger)
	if err != nil {
		return nil, nil, 0, err
	}

	logSuccess(stats)
	log.Debug("Sync finished", config.LogKeyDuration, time.Since(began).Milliseconds())
	return ics, occurrences, stats.now, nil
}

// feedYears lists the previous, current and next Badí years that the
// reference tables cover.
func feedYears(current int) []int {
	years := make([]int, 0, 3)
	for y := current - 1; y <= current+1; y++ {
		if y < 1 || y > config.LastSupportedYear {
			slog.Debug(config.MsgSkippedYear,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyYear, y)
			continue
		}
		years = append(years, y)
	}
	return years
}

func calendarOccurrences(year int, opts []badi.Option, stats *syncStats) ([]Occurrence, error) {
	feasts, err := badi.Feasts(year, opts...)
	if err != nil {
		return nil, err
	}
	holy, err := badi.HolyDates(year, opts...)
	if err != nil {
		return nil, err
	}

	out := make([]Occurrence, 0, len(feasts)+len(holy))
	for _, d := range feasts {
		name := d.MonthName().String()
		out = append(out, newOccurrence(config.CategoryFeast, name, fmt.Sprintf(config.SummaryFeast, name), d))
	}
	for _, d := range holy {
		name := d.HolyDay().String()
		out = append(out, newOccurrence(config.CategoryHolyDay, name, name, d))
	}

	stats.feasts += len(feasts)
	stats.holyDays += len(holy)
	return out, nil
}

func newOccurrence(category, name, summary string, d badi.Date) Occurrence {
	return Occurrence{
		UID:      occurrenceUID(category, name, d),
		Category: category,
		Name:     name,
		Summary:  summary,
		Date:     d,
		Start:    d.Start(),
		End:      d.End(),
	}
}

// occurrenceUID derives a UID from the event identity so that clients
// update rather than duplicate events across refreshes.
func occurrenceUID(category, name string, d badi.Date) string {
	input := fmt.Sprintf(config.FormatHashInput, category, name, d.String(), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf(config.FormatUID, fmt.Sprintf("%x", hash[:config.UIDHashLength]), d.Year(), config.ICalDomain)
}

// acquireStream opens the configured address book.
func (g *Generator) acquireStream(ctx context.Context, cfg SyncConfig) (io.ReadCloser, error) {
	switch cfg.Mode {
	case config.SourceModeLocal:
		if cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(cfg.LocalPath)
	case config.SourceModeWeb:
		if cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if g.Fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return g.Fetcher.Fetch(ctx, cfg.WebURL, cfg.WebUser, cfg.WebPass)
	}
	return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, cfg.Mode)
}

// birthdays decodes the address book and emits the Badí anniversary of
// every contact whose birth date, year included, is known.
func (g *Generator) birthdays(ctx context.Context, cfg SyncConfig, years []int, loc *time.Location, stats *syncStats) ([]Occurrence, error) {
	reader, err := g.acquireStream(ctx, cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()

	var out []Occurrence
	decoder := vcard.NewDecoder(reader)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyError, err)
			continue
		}
		stats.cards++

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}
		name := contactName(card)

		born, yearKnown, err := parseDate(bday.Value)
		if err != nil {
			slog.Debug(config.MsgSkippedDate,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyValue, bday.Value)
			continue
		}
		if !yearKnown {
			slog.Debug(config.MsgBirthdaySkip,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, name)
			continue
		}

		birth, err := badiBirthDate(born, loc, cfg.Options)
		if err != nil {
			slog.Debug(config.ErrBirthNotSupported,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, name,
				config.LogKeyError, err)
			continue
		}
		stats.birthdays++

		for _, year := range years {
			o, ok, err := anniversary(name, birth, year, cfg.Options)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, o)
			}
		}
	}
	return out, nil
}

// contactName prefers FN, then N, then a placeholder.
func contactName(card vcard.Card) string {
	if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
		return fn.Value
	}
	if n := card.Get(config.VCardN); n != nil && n.Value != "" {
		return n.Value
	}
	return config.FallbackName
}

// badiBirthDate anchors a civil birth date at midday, so that it maps to
// the Badí day whose daylight hours it shares.
func badiBirthDate(born time.Time, loc *time.Location, opts []badi.Option) (badi.Date, error) {
	y, m, d := born.Date()
	midday := time.Date(y, m, d, config.BirthHour, 0, 0, 0, loc)
	return badi.FromTime(midday, opts...)
}

// anniversary returns the occurrence of birth in year. A fifth day of
// Ayyám-i-Há is kept on the last intercalary day of shorter years.
func anniversary(name string, birth badi.Date, year int, opts []badi.Option) (Occurrence, bool, error) {
	if year < birth.Year() {
		return Occurrence{}, false, nil
	}

	day := birth.Day()
	if birth.IsAyyamIHa() {
		day = min(day, refdata.IntercalaryLength(year))
	}
	d, err := badi.New(year, birth.Month(), day, birth.IsAyyamIHa(), opts...)
	if err != nil {
		return Occurrence{}, false, err
	}

	age := year - birth.Year()
	summary := fmt.Sprintf(config.SummaryBirthdayAge, name, age)
	if age == 0 {
		summary = fmt.Sprintf(config.SummaryBirthdayBorn, name)
	}

	o := newOccurrence(config.CategoryBirthday, name, summary, d)
	o.Age = age
	return o, true, nil
}

// encodeFeed renders the occurrences as an iCalendar stream.
func encodeFeed(occurrences []Occurrence, now time.Time, reminderTrigger string) ([]byte, error) {
	if len(occurrences) == 0 {
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refresh := ical.NewProp(config.PropRefresh)
	refresh.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refresh)

	stamp := ical.NewProp(config.PropDTStamp)
	stamp.SetDateTime(now.UTC())

	for _, o := range occurrences {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, o.UID)
		event.Props.SetText(config.PropSummary, o.Summary)
		event.Props.SetText(config.PropCategories, o.Category)
		event.Props.Set(stamp)

		start := ical.NewProp(config.PropDTStart)
		start.SetDateTime(o.Start.UTC())
		event.Props.Set(start)

		end := ical.NewProp(config.PropDTEnd)
		end.SetDateTime(o.End.UTC())
		event.Props.Set(end)

		if reminderTrigger != "" {
			addAlarm(event, reminderTrigger, o.Summary)
		}
		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), nil
}

// addAlarm attaches a DISPLAY alarm to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Raw value: SetText would add VALUE=TEXT, which clients reject on TRIGGER.
	trig := ical.NewProp(config.PropTrigger)
	trig.Value = trigger
	alarm.Props.Set(trig)

	event.Children = append(event.Children, alarm)
}

func logSuccess(stats syncStats) {
	slog.Info(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyFeasts, stats.feasts),
			slog.Int(config.LogKeyHolyDays, stats.holyDays),
			slog.Int(config.LogKeyTotal, stats.cards),
			slog.Int(config.LogKeyFound, stats.birthdays),
			slog.Int(config.LogKeyNow, stats.now),
		),
	)
}

// parseDate reads the vCard BDAY forms. Dates without a year come back
// with yearKnown false.
func parseDate(value string) (time.Time, bool, error) {
	for _, layout := range []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true, nil
		}
	}

	for _, layout := range []string{config.DateFormatNoYearD, config.DateFormatNoYearB} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, false, nil
		}
	}
	return time.Time{}, false, errors.New(config.ErrDateParse)
}
