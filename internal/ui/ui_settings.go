package ui

import (
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-badi/internal/config"
)

type settingsWidgets struct {
	langSelect    *widget.Select
	entryInterval *NumericalEntry
}

// ShowSettingsWindow opens the preferences window, or focuses it.
func (t *BadiTray) ShowSettingsWindow() {
	if t.Window != nil {
		slog.Debug(config.MsgFocusWindow, config.LogKeyComponent, config.CompUISet)
		t.Window.RequestFocus()
		return
	}

	slog.Info(config.MsgOpenSettings, config.LogKeyComponent, config.CompUISet)
	w := t.App.NewWindow(t.GetMsg(config.TKeyWinSettings))
	t.Window = w

	sw := t.newSettingsWidgets()

	itemLang := widget.NewFormItem(t.GetMsg(config.TKeyLblLanguage), sw.langSelect)
	itemLang.HintText = t.GetMsg(config.TKeyHelpLanguage)

	interval := container.NewBorder(nil, nil, nil, widget.NewLabel(t.GetMsg(config.TKeyLblMinutes)), sw.entryInterval)
	itemInterval := widget.NewFormItem(t.GetMsg(config.TKeyLblRefresh), interval)
	itemInterval.HintText = t.GetMsg(config.TKeyHelpInterval)

	general := widget.NewCard(t.GetMsg(config.TKeyLblGeneral), "", widget.NewForm(itemLang, itemInterval))

	btnSave := widget.NewButtonWithIcon(t.GetMsg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		if err := sw.entryInterval.Validate(); err != nil {
			dialog.ShowError(err, w)
			return
		}
		t.saveSettings(sw)
		w.Close()
	})
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(t.GetMsg(config.TKeyBtnCancel), theme.CancelIcon(), w.Close)

	footer := widget.NewLabel(fmt.Sprintf(t.GetMsg(config.TKeyLblFooter), config.Version))
	footer.Alignment = fyne.TextAlignCenter
	footer.TextStyle = fyne.TextStyle{Italic: true}

	content := container.NewPadded(container.NewVBox(
		general,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footer,
	))

	w.SetContent(content)
	w.Resize(fyne.NewSize(config.SettingsWindowWidth, content.MinSize().Height))
	w.SetFixedSize(true)
	w.SetOnClosed(func() { t.Window = nil })
	w.Show()
}

func (t *BadiTray) newSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{
		langSelect:    widget.NewSelect(t.SupportedLanguages, nil),
		entryInterval: NewNumericalEntry(t.GetMsg(config.TKeyErrIntervalNum)),
	}
	sw.langSelect.SetSelected(t.Preferences.StringWithFallback(config.PrefLanguage, config.DefaultLanguage))
	sw.entryInterval.SetText(strconv.Itoa(t.Controller.Settings().RefreshMin))
	return sw
}

// saveSettings stores the preferences and applies them to the running
// service. An empty or zero interval disables the automatic refresh.
func (t *BadiTray) saveSettings(sw *settingsWidgets) {
	slog.Info(config.MsgSavePrefs, config.LogKeyComponent, config.CompUISet)

	if sw.langSelect.Selected != "" {
		t.Preferences.SetString(config.PrefLanguage, sw.langSelect.Selected)
	}

	if minutes, ok := sw.entryInterval.Value(); ok {
		t.Preferences.SetInt(config.PrefInterval, minutes)
		t.Controller.UpdateInterval(minutes)
	}

	t.UpdateLocalizer()
	t.RefreshTrayMenu()
}
