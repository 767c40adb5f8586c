package ui

import (
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-badi/internal/config"
	"github.com/tartampluch/go-badi/internal/engine"
)

// ShowUpcomingWindow lists the events of the feed that have not ended.
func (t *BadiTray) ShowUpcomingWindow() {
	if t.upcomingWindow != nil {
		t.upcomingWindow.RequestFocus()
		return
	}

	slog.Info(config.MsgOpenUpcoming, config.LogKeyComponent, config.CompUI)
	w := t.App.NewWindow(t.GetMsg(config.TKeyWinUpcoming))
	t.upcomingWindow = w

	rows := t.Controller.Upcoming(config.UpcomingLimit)
	now := t.Controller.Clock.Now()

	var content fyne.CanvasObject
	if len(rows) == 0 {
		content = widget.NewLabel(t.GetMsg(config.TKeyUpcomingEmpty))
	} else {
		content = t.upcomingTable(rows, now)
	}

	w.SetContent(container.NewBorder(nil, nil, nil, nil, content))
	w.Resize(fyne.NewSize(config.UpcomingWindowWidth, config.UpcomingWindowHeight))
	w.SetOnClosed(func() { t.upcomingWindow = nil })
	w.Show()
}

func (t *BadiTray) upcomingTable(rows []engine.Occurrence, now time.Time) *widget.Table {
	table := widget.NewTable(
		func() (int, int) { return len(rows), config.ColCount },
		func() fyne.CanvasObject { return widget.NewLabel(config.TablePlaceholder) },
		func(id widget.TableCellID, o fyne.CanvasObject) {
			if id.Row >= len(rows) {
				return
			}
			o.(*widget.Label).SetText(t.upcomingCell(rows[id.Row], id.Col, now))
		},
	)

	table.ShowHeaderRow = true
	table.CreateHeader = func() fyne.CanvasObject { return widget.NewLabel(config.TablePlaceholder) }
	table.UpdateHeader = func(id widget.TableCellID, o fyne.CanvasObject) {
		o.(*widget.Label).SetText(t.upcomingHeader(id.Col))
	}

	table.SetColumnWidth(config.ColIDDate, config.ColWidthDate)
	table.SetColumnWidth(config.ColIDStart, config.ColWidthTime)
	table.SetColumnWidth(config.ColIDEvent, config.ColWidthName)
	return table
}

func (t *BadiTray) upcomingHeader(col int) string {
	switch col {
	case config.ColIDDate:
		return t.GetMsg(config.TKeyColDate)
	case config.ColIDStart:
		return t.GetMsg(config.TKeyColStart)
	}
	return t.GetMsg(config.TKeyColEvent)
}

// upcomingCell renders one cell; events under way are marked.
func (t *BadiTray) upcomingCell(o engine.Occurrence, col int, now time.Time) string {
	switch col {
	case config.ColIDDate:
		return fmt.Sprintf(config.FallbackToday, o.Date.Day(), o.Date.MonthName(), o.Date.Year())
	case config.ColIDStart:
		layout := t.GetMsg(config.TKeyFormatDateTime)
		if layout == config.TKeyFormatDateTime {
			layout = config.DateFormatDisplay
		}
		return o.Start.In(o.Date.Location()).Format(layout)
	}
	if o.InProgress(now) {
		return o.Summary + config.InProgressMark
	}
	return o.Summary
}
