package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// UserAgent identifies the HTTP client.
var UserAgent = "Go-Badi/" + Version

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName           = "Go Badi"
	AppID             = "com.github.tartampluch.go-badi"
	KeyringService    = "com.github.tartampluch.go-badi"
	LocalhostBindAddr = "127.0.0.1"
	LogFileName       = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700

	// ChannelBufferSize defines the standard buffer size for internal signaling channels.
	ChannelBufferSize = 1
)

// -----------------------------------------------------------------------------
// Badí Calendar
// -----------------------------------------------------------------------------

const (
	// YearZeroInGregorian is the Gregorian year preceding Badí year 1 (1844).
	YearZeroInGregorian = 1843

	// LastSupportedYear is the last Badí year covered by the reference tables.
	LastSupportedYear = 221

	// DaysInMonth is the length of every regular month and of ʿAláʾ.
	DaysInMonth = 19

	// MonthAyyamIHa and MonthAla are the public month numbers of the
	// intercalary period and of the fasting month.
	MonthAyyamIHa = 0
	MonthAla      = 19

	// DaysBeforeIntercalary is the day-of-year of the last day of Mulk (18 × 19).
	DaysBeforeIntercalary = 342

	// MaxDayOfYear is the length of a year with five intercalary days.
	MaxDayOfYear = 366

	// Leap/non-leap intercalary lengths.
	IntercalaryDaysLeap   = 5
	IntercalaryDaysNormal = 4

	// DefaultNawRuzDay is the March day assumed when a year is not in the table.
	DefaultNawRuzDay = 21

	// DefaultBirthOfBab is the day-of-year used when the table has no entry.
	DefaultBirthOfBab = 214

	// SunsetFallbackHour is the local hour used when no sunset can be computed.
	SunsetFallbackHour = 18

	// SolarMinutesPerDegree is how far mean solar noon moves per degree of longitude.
	SolarMinutesPerDegree = 4

	// MaxLatitude is the polar cut-off beyond which sunsets are not computed.
	MaxLatitude  = 66.0
	MaxLongitude = 180.0

	// VahidLength and KullIShayLength are the 19- and 361-year cycles.
	VahidLength     = 19
	KullIShayLength = 361
)

// Latest Gregorian calendar day accepted by conversions.
const (
	LastSupportedGregorianYear  = 2065
	LastSupportedGregorianMonth = time.March
	LastSupportedGregorianDay   = 19
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion     = "version"
	FlagDebug       = "debug"
	FlagServe       = "serve"
	FlagDate        = "date"
	FlagBadi        = "badi"
	FlagLat         = "lat"
	FlagLon         = "lon"
	FlagTZ          = "tz"
	FlagPort        = "port"
	FlagInterval    = "interval"
	FlagVCF         = "vcf"
	FlagCardDAVURL  = "carddav-url"
	FlagCardDAVUser = "carddav-user"
	FlagReminder    = "reminder"
	FlagTray        = "tray"

	FlagDescVersion     = "Show application version and exit"
	FlagDescDebug       = "Enable debug logging to stdout"
	FlagDescServe       = "Serve the Badí calendar feed until interrupted"
	FlagDescDate        = "Convert a Gregorian date (YYYY-MM-DD or RFC3339) to a Badí date"
	FlagDescBadi        = "Show the Gregorian span of a Badí date (YEAR-MONTH-DAY, month by number or name)"
	FlagDescLat         = "Latitude in degrees for sunset calculation"
	FlagDescLon         = "Longitude in degrees for sunset calculation"
	FlagDescTZ          = "IANA time zone used as local time (default: system)"
	FlagDescPort        = "Port of the local feed server"
	FlagDescInterval    = "Feed refresh interval in minutes"
	FlagDescVCF         = "Local vCard file whose birthdays are added to the feed"
	FlagDescCardDAVURL  = "CardDAV/WebDAV URL whose birthdays are added to the feed"
	FlagDescCardDAVUser = "CardDAV user name (password read from the OS keyring)"
	FlagDescReminder    = "Reminder trigger as ISO-8601 duration (e.g. -P1D)"
	FlagDescTray        = "Serve the feed from a system tray application"

	MsgVersionOutput = "%s version %s (commit %s, built %s, %s/%s)\n"
)

// Conversion output of the -date and -badi modes.
const (
	OutBadiDate  = "Badí date:    %s (%d %s %d B.E.)\n"
	OutDayOfYear = "Day of year:  %d\n"
	OutCycles    = "Cycles:       year %d of Váḥid %d, Kull-i-Shayʼ %d\n"
	OutHolyDay   = "Holy day:     %s\n"
	OutFeast     = "Feast:        Nineteen Day Feast of %s\n"
	OutAyyamIHa  = "Period:       Ayyám-i-Há\n"
	OutFast      = "Period:       Fast\n"
	OutStart     = "Begins:       %s\n"
	OutEnd       = "Ends:         %s\n"
)

// -----------------------------------------------------------------------------
// Default Values & Business Logic
// -----------------------------------------------------------------------------

const (
	SourceModeNone       = "none"
	SourceModeWeb        = "web"
	SourceModeLocal      = "local"
	DefaultPort          = "18081"
	DefaultRefreshMin    = 60
	DefaultReminderValue = 1
	UIDSalt              = "go-badi-v1-" // Salt for deterministic UID generation
	DisabledInterval     = 0
)

// ISO8601 Duration Components for Reminders
const (
	ISOPeriodPrefix   = "P"
	ISONegativePrefix = "-P"
	ISOTimePrefix     = "T"
	ISODay            = "D"
	ISOHour           = "H"
	ISOMinute         = "M"
)

// Reminder Units & Directions
const (
	UnitDays    = "d"
	UnitHours   = "h"
	UnitMinutes = "m"
	DirBefore   = "before"
	DirAfter    = "after"
)

// -----------------------------------------------------------------------------
// Standards: iCalendar & vCard
// -----------------------------------------------------------------------------

const (
	// iCal Properties
	ICalVersion   = "2.0"
	ICalProdid    = "-//Go Badi//Engine//EN"
	ICalCalName   = "Badí Calendar"
	ICalMethod    = "PUBLISH"
	ICalScale     = "GREGORIAN"
	ICalComponent = "VALARM"
	ICalAction    = "DISPLAY"
	ICalDomain    = "gobadi"

	// iCal/vCard Fields
	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDTStart     = "DTSTART"
	PropDTEnd       = "DTEND"
	PropDTStamp     = "DTSTAMP"
	PropCategories  = "CATEGORIES"
	PropRefresh     = "REFRESH-INTERVAL"
	PropAction      = "ACTION"
	PropDescription = "DESCRIPTION"
	PropTrigger     = "TRIGGER"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	VCardBDAY = "BDAY"
	VCardFN   = "FN"
	VCardN    = "N"

	DefaultICalRefresh = 1 * time.Hour
)

// Occurrence categories, also used as the ICS CATEGORIES value.
const (
	CategoryFeast    = "FEAST"
	CategoryHolyDay  = "HOLY-DAY"
	CategoryBirthday = "BIRTHDAY"
)

// -----------------------------------------------------------------------------
// Data Formats, Limits & File Extensions
// -----------------------------------------------------------------------------

const (
	// Date layouts used for parsing vCard BDAY fields and CLI input
	DateFormatFullDash  = "2006-01-02"
	DateFormatFullBasic = "20060102"
	DateFormatRFC3339   = time.RFC3339
	DateFormatFullT     = "2006-01-02T15:04:05Z"
	DateFormatNoYearD   = "--01-02"
	DateFormatNoYearB   = "--0102"
	DateFormatDisplay   = "2006-01-02 15:04:05 MST"

	// BirthHour is the local hour a bare birth date is anchored to before conversion.
	BirthHour = 12

	// Limits
	MinPort = 1
	MaxPort = 65535

	// UID Generation
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s|%s"
	FormatUID       = "%s-%d@%s"

	// FormatBadiDate is the numeric identity of a Badí date (year-month-day).
	FormatBadiDate = "%d-%02d-%02d"
)

// -----------------------------------------------------------------------------
// Network & Timeouts
// -----------------------------------------------------------------------------

const (
	HTTPTimeout         = 30 * time.Second
	ShutdownTimeout     = 5 * time.Second
	ServerReadTimeout   = 10 * time.Second
	ServerWriteTimeout  = 30 * time.Second
	ServerIdleTimeout   = 60 * time.Second
	RetryAfterSeconds   = "10"
	AllowedMethods      = "GET, HEAD"
	MaxHTTPResponseSize = 256 * 1024 * 1024 // 256MB
	SchemeHTTP          = "http"
	SchemeHTTPS         = "https"
	RouteRoot           = "/"
	RouteToday          = "/today"
	AddrSeparator       = ":"
)

// -----------------------------------------------------------------------------
// HTTP Headers & MIME Types
// -----------------------------------------------------------------------------

const (
	HeaderContentType     = "Content-Type"
	HeaderCacheControl    = "Cache-Control"
	HeaderETag            = "ETag"
	HeaderLastModified    = "Last-Modified"
	HeaderRetryAfter      = "Retry-After"
	HeaderAllow           = "Allow"
	HeaderXContentType    = "X-Content-Type-Options"
	HeaderUserAgent       = "User-Agent"
	HeaderIfNoneMatch     = "If-None-Match"
	HeaderIfModifiedSince = "If-Modified-Since"

	MimeTextCalendar    = "text/calendar; charset=utf-8"
	MimeJSON            = "application/json; charset=utf-8"
	MimeNoSniff         = "nosniff"
	CacheControlPrivate = "private, no-cache"
	CacheControlNoStore = "no-store"

	// FormatETag expects a string argument.
	FormatETag = `"%s"`
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrDayRange          = "day must be in the range [1-19]"
	ErrMonthRange        = "month must be in the range [0-19]"
	ErrAyyamIHaFlag      = "set month to 0 or set ayyamIHa false"
	ErrYearRange         = "years outside [1-221] are not supported"
	ErrDateRange         = "dates after 2065-03-19 are not supported"
	ErrDayOfYearRange    = "day of year must be in the range [1-366]"
	ErrIntercalaryRange  = "day exceeds the intercalary days of the year"
	ErrMonthName         = "unknown month"
	ErrBadiDateFormat    = "badi date must be YEAR-MONTH-DAY"
	ErrLocalPathEmpty    = "configuration error: local path is empty"
	ErrWebURLEmpty       = "configuration error: web URL is empty"
	ErrFetcherMissing    = "internal error: network fetcher is not initialized"
	ErrModeUnsupport     = "configuration error: unsupported source mode"
	ErrServerStartup     = "server startup failed"
	ErrServerShutdown    = "server shutdown failed"
	ErrPortRequired      = "server port is required"
	ErrPortNumber        = "server port must be a number"
	ErrPortRange         = "server port must be between 1 and 65535"
	ErrIntervalRange     = "refresh interval must not be negative"
	ErrReminderUnit      = "reminder unit must be d, h or m"
	ErrReminderDir       = "reminder direction must be before or after"
	ErrInvalidURL        = "invalid URL structure"
	ErrProtocol          = "unsupported protocol scheme (http/https only)"
	ErrVCardParse        = "failed to parse vCard stream"
	ErrICalEncode        = "failed to encode iCalendar data"
	ErrDateParse         = "unable to parse date"
	ErrTodayUnavailable  = "today's Badí date is unavailable"
	ErrLogFile           = "failed to open log file"
	ErrCacheDir          = "could not determine user cache dir"
	ErrCreateDir         = "could not create app cache dir"
	ErrAppFailed         = "application failed unexpectedly"
	ErrWriteResp         = "failed to write response body"
	ErrLocation          = "unknown time zone"
	ErrCoordinate        = "coordinate must be a number"
	ErrNothingToDo       = "nothing to do: pass -date, -badi, -serve or -tray"
	ErrLocalesAccess     = "failed to access embedded locales"
	ErrLocaleLoad        = "failed to load locale file"
	ErrTrayNotSupported  = "system tray not supported on this platform/driver"
	ErrTodayLabel        = "today's Badí date could not be shown"
	ErrBirthNotSupported = "birth date outside the supported range"
)

// -----------------------------------------------------------------------------
// HTTP Server Responses
// -----------------------------------------------------------------------------

const (
	HTTPMsgInitializing = "Calendar initializing, please try again shortly."
	HTTPMsgMethodNotAll = "Method Not Allowed"
)

// -----------------------------------------------------------------------------
// Fallbacks & Summaries
// -----------------------------------------------------------------------------

const (
	SummaryFeast        = "Feast of %s"
	SummaryBirthdayAge  = "Badí birthday: %s (%d)"
	SummaryBirthdayBorn = "Badí birthday: %s (birth)"
	FallbackName        = "Unknown"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"

	MsgSyncStarted   = "Synchronization started..."
	MsgSyncFailed    = "Synchronization failed. Check logs."
	MsgSyncReq       = "Sync requested"
	MsgWorkerStart   = "Background worker started"
	MsgWorkerStop    = "Worker stopping due to context cancellation"
	MsgUpdateSync    = "Updating sync interval"
	MsgAppStop       = "Application stopped gracefully"
	MsgSkippedCard   = "Skipping malformed vCard"
	MsgSkippedDate   = "Skipping invalid date format"
	MsgSkippedYear   = "Skipping unsupported Badí year"
	MsgGenSuccess    = "Calendar generation successful"
	MsgAppStarting   = "Starting application"
	MsgServerListen  = "HTTP server listening"
	MsgServerStop    = "Shutting down HTTP server..."
	MsgCacheUpdated  = "Calendar cache updated"
	MsgPassFail      = "Password retrieval failed (might be empty)"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
	MsgOccurringNow  = "Occurrence in progress"
	MsgSunsetPolar   = "No sunset event, using fallback"
	MsgBirthdaySkip  = "Skipping birthday without year"
	MsgConverted     = "Date converted"
	MsgFeedGenerated = "Feed generated"
	MsgRefreshOff    = "Automatic refresh disabled"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgTransMissing  = "Translation missing"
	MsgOpenSettings  = "Opening settings window"
	MsgOpenUpcoming  = "Opening upcoming events window"
	MsgFocusWindow   = "Window already open, requesting focus"
	MsgSavePrefs     = "Saving preferences"
	MsgPortBusy      = "Port %s is busy or unavailable."

	TitleStartupError = "Startup Error"
	TitleSyncError    = "Sync Error"

	FallbackTrayLabel   = "Go Badi"
	FallbackTrayError   = "Go Badi: Sync Error"
	FallbackTrayDefault = "Go Badi (%d in progress)"
	FallbackToday       = "%d %s %d B.E."
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyURL       = "url"
	LogKeyStatus    = "status_code"
	LogKeyPort      = "port"
	LogKeyMode      = "mode"
	LogKeyInterval  = "interval"
	LogKeyOld       = "old"
	LogKeyNew       = "new"
	LogKeyUser      = "user"
	LogKeyTotal     = "total_cards"
	LogKeyFound     = "birthdays_found"
	LogKeyFeasts    = "feasts"
	LogKeyHolyDays  = "holy_days"
	LogKeyNow       = "occurring_now"
	LogKeySizeBytes = "size_bytes"
	LogKeyETag      = "etag"
	LogKeyManual    = "manual"
	LogKeyValue     = "value"
	LogKeyStats     = "stats"
	LogKeyName      = "name"
	LogKeyYear      = "badi_year"
	LogKeyBadiDate  = "badi_date"
	LogKeyDay       = "day"
	LogKeyDuration  = "duration_ms"
	LogKeyLang      = "lang"
	LogKeyFile      = "file"
	LogKeyKey       = "key"

	// Startup Info Keys
	LogKeyBuild   = "build"
	LogKeyApp     = "app"
	LogKeyVersion = "version"
	LogKeyGoVer   = "go_version"
	LogKeyEnv     = "env"
	LogKeyOS      = "os"
	LogKeyArch    = "arch"
	LogKeyPID     = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompBadi    = "badi"
	CompEngine  = "engine"
	CompServer  = "server"
	CompFetcher = "fetcher"
	CompWorker  = "worker"
	CompApp     = "app"
	CompMain    = "main"
	CompUI      = "ui"
	CompUISet   = "ui_settings"
	CompI18n    = "i18n"
)

// -----------------------------------------------------------------------------
// UI Constants & Preferences
// -----------------------------------------------------------------------------

const (
	SettingsWindowWidth  = 420
	UpcomingWindowWidth  = 640
	UpcomingWindowHeight = 420
	UpcomingLimit        = 30
	LayoutColumnsDouble  = 2

	// Preference Keys
	PrefLanguage = "language"
	PrefInterval = "refresh_interval_min"

	DefaultLanguage = "en"
	LocalesDir      = "locales"
	LocalePrefix    = "active."
	LocaleSuffix    = ".json"

	// Upcoming table column IDs and widths
	ColIDDate    = 0
	ColIDStart   = 1
	ColIDEvent   = 2
	ColCount     = 3
	ColWidthDate = 170
	ColWidthTime = 170
	ColWidthName = 280

	TablePlaceholder = "Placeholder"
	InProgressMark   = " ●"
)

// SupportedLanguages lists the UI languages shipped in the locales directory.
var SupportedLanguages = []string{"en", "fr"}

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyWinSettings    = "win_settings_title"
	TKeyWinUpcoming    = "win_upcoming_title"
	TKeyMenuUpcoming   = "menu_upcoming"
	TKeyMenuRefresh    = "menu_refresh"
	TKeyMenuSettings   = "menu_settings"
	TKeyTrayToday      = "tray_today"      // Requires Day, Month, Year
	TKeyTrayTodayHoly  = "tray_today_holy" // Requires Day, Month, Year, HolyDay
	TKeyTrayStatus     = "tray_status"     // Requires Count > 0
	TKeyTrayStatusZero = "tray_status_zero"
	TKeyNotifSuccess   = "notif_sync_success"
	TKeyNotifError     = "notif_err_sync"
	TKeyLblLanguage    = "lbl_language"
	TKeyHelpLanguage   = "help_language"
	TKeyLblRefresh     = "lbl_refresh_interval"
	TKeyLblMinutes     = "lbl_minutes_suffix"
	TKeyHelpInterval   = "help_interval"
	TKeyLblGeneral     = "lbl_general"
	TKeyBtnSave        = "btn_save"
	TKeyBtnCancel      = "btn_cancel"
	TKeyLblFooter      = "lbl_footer"
	TKeyColDate        = "col_badi_date"
	TKeyColStart       = "col_start"
	TKeyColEvent       = "col_event"
	TKeyFormatDateTime = "format_date_time"
	TKeyErrIntervalNum = "err_interval_number"
	TKeyUpcomingEmpty  = "upcoming_empty"
)

// -----------------------------------------------------------------------------
// Runtime Settings
// -----------------------------------------------------------------------------

// Settings holds the runtime options of the feed service. The CLI fills it
// from flags; zero coordinates are expressed as nil pointers.
type Settings struct {
	Port       string
	RefreshMin int

	SourceMode string
	LocalPath  string
	WebURL     string
	WebUser    string
	WebPass    string

	ReminderEnabled bool
	ReminderValue   int
	ReminderUnit    string
	ReminderDir     string

	Latitude  *float64
	Longitude *float64
	Location  *time.Location
}

// DefaultSettings returns the settings used when no flag overrides them.
func DefaultSettings() Settings {
	return Settings{
		Port:          DefaultPort,
		RefreshMin:    DefaultRefreshMin,
		SourceMode:    SourceModeNone,
		ReminderValue: DefaultReminderValue,
		ReminderUnit:  UnitDays,
		ReminderDir:   DirBefore,
		Location:      time.Local,
	}
}

// Validate checks the settings that cannot be repaired with a default.
func (s Settings) Validate() error {
	if s.Port == "" {
		return errors.New(ErrPortRequired)
	}
	port, err := strconv.Atoi(s.Port)
	if err != nil {
		return fmt.Errorf("%s: %q", ErrPortNumber, s.Port)
	}
	if port < MinPort || port > MaxPort {
		return fmt.Errorf("%s: %d", ErrPortRange, port)
	}
	if s.RefreshMin < DisabledInterval {
		return fmt.Errorf("%s: %d", ErrIntervalRange, s.RefreshMin)
	}

	switch s.SourceMode {
	case SourceModeNone, "":
	case SourceModeLocal:
		if s.LocalPath == "" {
			return errors.New(ErrLocalPathEmpty)
		}
	case SourceModeWeb:
		if s.WebURL == "" {
			return errors.New(ErrWebURLEmpty)
		}
	default:
		return fmt.Errorf("%s: %q", ErrModeUnsupport, s.SourceMode)
	}

	if s.ReminderEnabled {
		switch s.ReminderUnit {
		case UnitDays, UnitHours, UnitMinutes:
		default:
			return fmt.Errorf("%s: %q", ErrReminderUnit, s.ReminderUnit)
		}
		if s.ReminderDir != DirBefore && s.ReminderDir != DirAfter {
			return fmt.Errorf("%s: %q", ErrReminderDir, s.ReminderDir)
		}
	}
	return nil
}
