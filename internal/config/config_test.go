package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/tartampluch/go-badi/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"UserAgent", config.UserAgent},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestCalendarConstants pins the arithmetic the engine relies on.
func TestCalendarConstants(t *testing.T) {
	assert.Equal(t, 18*config.DaysInMonth, config.DaysBeforeIntercalary)
	assert.Equal(t, config.DaysBeforeIntercalary+config.IntercalaryDaysLeap+config.DaysInMonth, config.MaxDayOfYear)
	assert.Equal(t, config.VahidLength*config.VahidLength, config.KullIShayLength)
	assert.Equal(t, config.LastSupportedGregorianYear, config.YearZeroInGregorian+config.LastSupportedYear+1)
}

// TestUserAgent_Format ensures the UA string follows the standard format.
func TestUserAgent_Format(t *testing.T) {
	assert.True(t, strings.HasPrefix(config.UserAgent, "Go-Badi/"), "UserAgent must start with AppName/")
}

// TestTimeoutsAndLimits ensures that operational constraints are reasonable.
func TestTimeoutsAndLimits(t *testing.T) {
	t.Parallel()

	assert.Greater(t, config.HTTPTimeout, 0*time.Second, "HTTPTimeout must be positive")
	assert.LessOrEqual(t, config.HTTPTimeout, 2*time.Minute, "HTTPTimeout should not be excessively long")
	assert.Greater(t, config.ShutdownTimeout, 0*time.Second, "ShutdownTimeout must be positive")
	assert.Greater(t, config.MaxHTTPResponseSize, 0, "MaxHTTPResponseSize must be positive")
	assert.Less(t, int64(config.MaxHTTPResponseSize), int64(1*1024*1024*1024), "MaxHTTPResponseSize should stay under 1GB to protect RAM")
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Settings)
		wantErr string
	}{
		{"Defaults", func(*config.Settings) {}, ""},
		{"Empty Port", func(s *config.Settings) { s.Port = "" }, config.ErrPortRequired},
		{"Port Not A Number", func(s *config.Settings) { s.Port = "http" }, config.ErrPortNumber},
		{"Port Too High", func(s *config.Settings) { s.Port = "70000" }, config.ErrPortRange},
		{"Port Zero", func(s *config.Settings) { s.Port = "0" }, config.ErrPortRange},
		{"Negative Interval", func(s *config.Settings) { s.RefreshMin = -5 }, config.ErrIntervalRange},
		{"Local Without Path", func(s *config.Settings) { s.SourceMode = config.SourceModeLocal }, config.ErrLocalPathEmpty},
		{"Web Without URL", func(s *config.Settings) { s.SourceMode = config.SourceModeWeb }, config.ErrWebURLEmpty},
		{"Unknown Mode", func(s *config.Settings) { s.SourceMode = "ftp" }, config.ErrModeUnsupport},
		{"Bad Reminder Unit", func(s *config.Settings) {
			s.ReminderEnabled = true
			s.ReminderUnit = "w"
		}, config.ErrReminderUnit},
		{"Bad Reminder Direction", func(s *config.Settings) {
			s.ReminderEnabled = true
			s.ReminderDir = "around"
		}, config.ErrReminderDir},
		{"Local With Path", func(s *config.Settings) {
			s.SourceMode = config.SourceModeLocal
			s.LocalPath = "/tmp/contacts.vcf"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.DefaultSettings()
			tt.mutate(&s)

			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
