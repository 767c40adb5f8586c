// Package ui is the system tray front end of the feed service.
package ui

import (
	"fmt"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-badi/internal/app"
	"github.com/tartampluch/go-badi/internal/config"
)

// BadiTray shows the service state in the system tray and lets the user
// trigger a sync or change the refresh interval.
type BadiTray struct {
	App         fyne.App
	Preferences fyne.Preferences
	I18nBundle  *i18n.Bundle
	Localizer   *i18n.Localizer

	Controller *app.App
	stop       func()

	Tray desktop.App
	Menu *fyne.Menu

	TrayTodayItem    *fyne.MenuItem
	TrayStatusItem   *fyne.MenuItem
	TrayUpcomingItem *fyne.MenuItem
	TrayRefreshItem  *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	SupportedLanguages []string

	Window         fyne.Window
	upcomingWindow fyne.Window
}

// NewBadiTray wires the tray to the controller. stop cancels the
// controller's context; it is called when the tray application exits.
func NewBadiTray(a fyne.App, controller *app.App, stop func()) *BadiTray {
	a.SetIcon(theme.HistoryIcon())

	t := &BadiTray{
		App:                a,
		Preferences:        a.Preferences(),
		Controller:         controller,
		stop:               stop,
		SupportedLanguages: config.SupportedLanguages,
	}
	controller.OnSync = t.syncFinished
	return t
}

// Run starts the controller and blocks in the fyne event loop.
func (t *BadiTray) Run() {
	t.SetupI18n()
	t.applyStoredInterval()

	if desk, ok := t.App.(desktop.App); ok {
		t.Tray = desk
		t.Tray.SetSystemTrayIcon(t.App.Icon())
		t.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported, config.LogKeyComponent, config.CompUI)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := t.Controller.Run(); err != nil {
			t.App.SendNotification(fyne.NewNotification(
				config.TitleStartupError,
				fmt.Sprintf(config.MsgPortBusy, t.Controller.Server.Port)))
		}
	}()

	go func() {
		<-t.Controller.Ctx.Done()
		fyne.Do(t.App.Quit)
	}()

	t.App.Run()
	if t.stop != nil {
		t.stop()
	}
	<-done
}

// applyStoredInterval lets a saved preference override the -interval flag.
func (t *BadiTray) applyStoredInterval() {
	minutes := t.Preferences.IntWithFallback(config.PrefInterval, t.Controller.Settings().RefreshMin)
	if minutes != t.Controller.Settings().RefreshMin {
		t.Controller.UpdateInterval(minutes)
	}
}

func (t *BadiTray) setupTrayMenu() {
	t.TrayTodayItem = fyne.NewMenuItem(config.FallbackTrayLabel, t.ShowUpcomingWindow)
	t.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, nil)
	t.TrayStatusItem.Disabled = true

	t.TrayUpcomingItem = fyne.NewMenuItem(t.GetMsg(config.TKeyMenuUpcoming), t.ShowUpcomingWindow)
	t.TrayRefreshItem = fyne.NewMenuItem(t.GetMsg(config.TKeyMenuRefresh), func() {
		go t.Controller.SyncNow()
	})
	t.TraySettingsItem = fyne.NewMenuItem(t.GetMsg(config.TKeyMenuSettings), t.ShowSettingsWindow)

	t.Menu = fyne.NewMenu(config.AppName,
		t.TrayTodayItem,
		t.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		t.TrayUpcomingItem,
		t.TrayRefreshItem,
		t.TraySettingsItem,
	)

	if t.Tray != nil {
		t.Tray.SetSystemTrayMenu(t.Menu)
	}
	t.updateToday()
	t.updateTrayStatus(t.Controller.InProgress())
}

// RefreshTrayMenu re-applies the localized labels.
func (t *BadiTray) RefreshTrayMenu() {
	if t.Menu == nil {
		return
	}
	t.TrayUpcomingItem.Label = t.GetMsg(config.TKeyMenuUpcoming)
	t.TrayRefreshItem.Label = t.GetMsg(config.TKeyMenuRefresh)
	t.TraySettingsItem.Label = t.GetMsg(config.TKeyMenuSettings)
	t.updateToday()
	t.updateTrayStatus(t.Controller.InProgress())
}

// syncFinished runs on the worker goroutine after every sync.
func (t *BadiTray) syncFinished(manual bool, count int, err error) {
	fyne.Do(func() {
		t.updateToday()
		t.updateTrayStatus(count)
	})

	if !manual {
		return
	}
	if err != nil {
		t.App.SendNotification(fyne.NewNotification(config.TitleSyncError, t.GetMsg(config.TKeyNotifError)))
		return
	}
	t.App.SendNotification(fyne.NewNotification(config.AppName, t.GetMsg(config.TKeyNotifSuccess)))
}

// todayLabel renders the Badí date in progress.
func (t *BadiTray) todayLabel() string {
	today, err := t.Controller.Today()
	if err != nil {
		slog.Warn(config.ErrTodayLabel,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		return config.FallbackTrayLabel
	}

	data := map[string]any{
		"Day":     today.Day,
		"Month":   today.MonthName,
		"Year":    today.Year,
		"HolyDay": today.HolyDay,
	}
	key := config.TKeyTrayToday
	if today.HolyDay != "" {
		key = config.TKeyTrayTodayHoly
	}

	label := t.localize(&i18n.LocalizeConfig{MessageID: key, TemplateData: data})
	if label == key {
		return fmt.Sprintf(config.FallbackToday, today.Day, today.MonthName, today.Year)
	}
	return label
}

func (t *BadiTray) updateToday() {
	if t.Menu == nil || t.TrayTodayItem == nil {
		return
	}
	t.TrayTodayItem.Label = t.todayLabel()
	t.Menu.Refresh()
}

// updateTrayStatus shows how many events are in progress; -1 means the
// last sync failed.
func (t *BadiTray) updateTrayStatus(count int) {
	if t.Menu == nil || t.TrayStatusItem == nil {
		return
	}

	var label string
	switch {
	case count < 0:
		label = config.FallbackTrayError
	case count == 0:
		label = t.GetMsg(config.TKeyTrayStatusZero)
	default:
		label = t.localize(&i18n.LocalizeConfig{
			MessageID:    config.TKeyTrayStatus,
			TemplateData: map[string]any{"Count": count},
			PluralCount:  count,
		})
		if label == config.TKeyTrayStatus {
			label = fmt.Sprintf(config.FallbackTrayDefault, count)
		}
	}

	t.TrayStatusItem.Label = label
	t.Menu.Refresh()
}
