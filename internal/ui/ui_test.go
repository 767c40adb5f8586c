package ui

import (
	"context"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-badi/internal/app"
	"github.com/tartampluch/go-badi/internal/config"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// MockTray implements minimal system tray functionality for headless testing.
type MockTray struct {
	Menu *fyne.Menu
}

func (m *MockTray) SetSystemTrayMenu(menu *fyne.Menu) {
	m.Menu = menu
}

func (m *MockTray) SetSystemTrayIcon(icon fyne.Resource) {}
func (m *MockTray) SetSystemTrayWindow(w fyne.Window)    {}
func (m *MockTray) Run()                                 {}
func (m *MockTray) Quit()                                {}

var cet = time.FixedZone("CET", 1*60*60)

// nawRuz178 is midday of Naw-Rúz 178, when its feast and holy day are under way.
var nawRuz178 = time.Date(2021, time.March, 20, 12, 0, 0, 0, cet)

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

func setupTestTray(t *testing.T, now time.Time) (*BadiTray, *MockTray) {
	t.Helper()
	a := test.NewApp()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	settings := config.DefaultSettings()
	settings.Location = cet
	controller := app.New(ctx, settings, nil)
	controller.Clock = MockClock{CurrentTime: now}

	tray := NewBadiTray(a, controller, cancel)
	mockTray := &MockTray{}
	tray.Tray = mockTray

	tray.SetupI18n()
	tray.Preferences.SetString(config.PrefLanguage, "en")
	tray.UpdateLocalizer()
	return tray, mockTray
}

// -----------------------------------------------------------------------------
// Localization Tests
// -----------------------------------------------------------------------------

func TestLocalization_Switching(t *testing.T) {
	tray, _ := setupTestTray(t, nawRuz178)
	assert.ElementsMatch(t, []string{"en", "fr"}, tray.SupportedLanguages)

	assert.Equal(t, "Settings...", tray.GetMsg(config.TKeyMenuSettings))

	tray.Preferences.SetString(config.PrefLanguage, "fr")
	tray.UpdateLocalizer()
	assert.Equal(t, "Paramètres...", tray.GetMsg(config.TKeyMenuSettings))

	assert.Equal(t, "no_such_key", tray.GetMsg("no_such_key"))
}

func TestTodayLabel(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		lang string
		want string
	}{
		{"Holy Day", nawRuz178, "en", "Today: 1 Bahá 178 B.E. (Naw-Rúz)"},
		{"Ordinary Day", time.Date(2021, time.January, 4, 12, 0, 0, 0, cet), "en", "Today: 6 Sharaf 177 B.E."},
		{"French", time.Date(2021, time.January, 4, 12, 0, 0, 0, cet), "fr", "Aujourd'hui : 6 Sharaf 177 E.B."},
		{"Unsupported Date", time.Date(2070, time.January, 1, 12, 0, 0, 0, cet), "en", config.FallbackTrayLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tray, _ := setupTestTray(t, tt.now)
			tray.Preferences.SetString(config.PrefLanguage, tt.lang)
			tray.UpdateLocalizer()
			assert.Equal(t, tt.want, tray.todayLabel())
		})
	}
}

// -----------------------------------------------------------------------------
// Tray Menu Tests
// -----------------------------------------------------------------------------

func TestSetupTrayMenu(t *testing.T) {
	tray, mockTray := setupTestTray(t, nawRuz178)
	tray.setupTrayMenu()

	require.NotNil(t, mockTray.Menu)
	assert.Same(t, tray.Menu, mockTray.Menu)
	assert.Equal(t, "Today: 1 Bahá 178 B.E. (Naw-Rúz)", tray.TrayTodayItem.Label)
	assert.Equal(t, "Nothing in progress", tray.TrayStatusItem.Label)
	assert.True(t, tray.TrayStatusItem.Disabled)
	assert.Equal(t, "Sync now", tray.TrayRefreshItem.Label)
}

func TestTrayStatusUpdate_Logic(t *testing.T) {
	tray, _ := setupTestTray(t, nawRuz178)
	tray.setupTrayMenu()

	tray.updateTrayStatus(-1)
	assert.Equal(t, config.FallbackTrayError, tray.TrayStatusItem.Label)

	tray.updateTrayStatus(0)
	assert.Equal(t, "Nothing in progress", tray.TrayStatusItem.Label)

	tray.updateTrayStatus(1)
	assert.Equal(t, "1 event in progress", tray.TrayStatusItem.Label)

	tray.updateTrayStatus(10)
	assert.Equal(t, "10 events in progress", tray.TrayStatusItem.Label)
}

func TestSyncNow_UpdatesTray(t *testing.T) {
	tray, _ := setupTestTray(t, nawRuz178)
	tray.setupTrayMenu()

	tray.Controller.SyncNow()

	assert.Equal(t, 2, tray.Controller.InProgress())
	assert.Equal(t, "2 events in progress", tray.TrayStatusItem.Label)
}

func TestSyncNow_FailureShownInTray(t *testing.T) {
	tray, _ := setupTestTray(t, time.Date(2070, time.January, 1, 12, 0, 0, 0, cet))
	tray.setupTrayMenu()

	tray.Controller.SyncNow()

	assert.Equal(t, config.FallbackTrayError, tray.TrayStatusItem.Label)
	assert.Equal(t, config.FallbackTrayLabel, tray.TrayTodayItem.Label)
}

// -----------------------------------------------------------------------------
// Settings Tests
// -----------------------------------------------------------------------------

func TestSaveSettings(t *testing.T) {
	tray, _ := setupTestTray(t, nawRuz178)
	tray.setupTrayMenu()

	sw := tray.newSettingsWidgets()
	assert.Equal(t, "en", sw.langSelect.Selected)
	assert.Equal(t, "60", sw.entryInterval.Text)

	sw.langSelect.SetSelected("fr")
	sw.entryInterval.SetText("15")
	tray.saveSettings(sw)

	assert.Equal(t, "fr", tray.Preferences.String(config.PrefLanguage))
	assert.Equal(t, 15, tray.Preferences.Int(config.PrefInterval))
	assert.Equal(t, 15, tray.Controller.Settings().RefreshMin)
	assert.Equal(t, "Synchroniser", tray.TrayRefreshItem.Label)
	assert.Equal(t, "Aujourd'hui : 1 Bahá 178 E.B. (Naw-Rúz)", tray.TrayTodayItem.Label)
}

func TestSaveSettings_EmptyIntervalDisablesRefresh(t *testing.T) {
	tray, _ := setupTestTray(t, nawRuz178)

	sw := tray.newSettingsWidgets()
	sw.entryInterval.SetText("")
	tray.saveSettings(sw)

	assert.Equal(t, config.DisabledInterval, tray.Controller.Settings().RefreshMin)
	assert.Equal(t, config.DisabledInterval, tray.Preferences.Int(config.PrefInterval))
}

func TestSaveSettings_InvalidIntervalIgnored(t *testing.T) {
	tray, _ := setupTestTray(t, nawRuz178)

	sw := tray.newSettingsWidgets()
	sw.entryInterval.SetText("ten")
	assert.Error(t, sw.entryInterval.Validate())

	tray.saveSettings(sw)
	assert.Equal(t, config.DefaultRefreshMin, tray.Controller.Settings().RefreshMin)
}

func TestApplyStoredInterval(t *testing.T) {
	tray, _ := setupTestTray(t, nawRuz178)

	tray.applyStoredInterval()
	assert.Equal(t, config.DefaultRefreshMin, tray.Controller.Settings().RefreshMin)

	tray.Preferences.SetInt(config.PrefInterval, 5)
	tray.applyStoredInterval()
	assert.Equal(t, 5, tray.Controller.Settings().RefreshMin)
}

func TestShowSettingsWindow_Reuse(t *testing.T) {
	tray, _ := setupTestTray(t, nawRuz178)

	tray.ShowSettingsWindow()
	first := tray.Window
	require.NotNil(t, first)
	assert.Equal(t, "Go Badi Settings", first.Title())

	tray.ShowSettingsWindow()
	assert.Same(t, first, tray.Window)
	first.Close()
}

// -----------------------------------------------------------------------------
// Upcoming Window Tests
// -----------------------------------------------------------------------------

func TestUpcomingCells(t *testing.T) {
	tray, _ := setupTestTray(t, nawRuz178)
	tray.Controller.SyncNow()

	rows := tray.Controller.Upcoming(config.UpcomingLimit)
	require.NotEmpty(t, rows)
	first := rows[0]

	assert.Equal(t, "1 Bahá 178 B.E.", tray.upcomingCell(first, config.ColIDDate, nawRuz178))
	assert.Equal(t, "2021-03-19 18:00", tray.upcomingCell(first, config.ColIDStart, nawRuz178))
	assert.Equal(t, first.Summary+config.InProgressMark, tray.upcomingCell(first, config.ColIDEvent, nawRuz178))

	later := rows[len(rows)-1]
	assert.Equal(t, later.Summary, tray.upcomingCell(later, config.ColIDEvent, nawRuz178))

	assert.Equal(t, "Badí date", tray.upcomingHeader(config.ColIDDate))
	assert.Equal(t, "Begins", tray.upcomingHeader(config.ColIDStart))
	assert.Equal(t, "Event", tray.upcomingHeader(config.ColIDEvent))
}

func TestShowUpcomingWindow(t *testing.T) {
	tray, _ := setupTestTray(t, nawRuz178)

	tray.ShowUpcomingWindow()
	require.NotNil(t, tray.upcomingWindow)
	assert.Equal(t, "Upcoming Badí Events", tray.upcomingWindow.Title())
	tray.upcomingWindow.Close()

	tray.Controller.SyncNow()
	tray.ShowUpcomingWindow()
	require.NotNil(t, tray.upcomingWindow)
	tray.upcomingWindow.Close()
}
