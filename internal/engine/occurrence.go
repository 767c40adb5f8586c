package engine

import (
	"time"

	"github.com/tartampluch/go-badi/internal/badi"
	"github.com/tartampluch/go-badi/internal/refdata"
)

// Occurrence is one event of the feed: a feast, a holy day or the Badí
// anniversary of a contact. Start and End are the bounding sunsets.
type Occurrence struct {
	// UID is stable across refreshes for the same event.
	UID string

	// Category is one of config.CategoryFeast, CategoryHolyDay or CategoryBirthday.
	Category string

	// Name is the month, the holy day or the contact.
	Name string

	Summary string
	Date    badi.Date
	Start   time.Time
	End     time.Time

	// Age is the number of Badí years completed, birthdays only.
	Age int
}

// InProgress reports whether t falls within the occurrence.
func (o Occurrence) InProgress(t time.Time) bool {
	return !t.Before(o.Start) && t.Before(o.End)
}

// Today is the JSON view of the Badí day in progress.
type Today struct {
	Date        string    `json:"date"`
	Year        int       `json:"year"`
	Month       int       `json:"month"`
	MonthName   string    `json:"month_name"`
	Day         int       `json:"day"`
	DayOfYear   int       `json:"day_of_year"`
	YearInVahid int       `json:"year_in_vahid"`
	Vahid       int       `json:"vahid"`
	KullIShay   int       `json:"kull_i_shay"`
	AyyamIHa    bool      `json:"ayyam_i_ha"`
	Fast        bool      `json:"period_of_fast"`
	Feast       bool      `json:"feast_day"`
	HolyDay     string    `json:"holy_day,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// NewToday summarizes d.
func NewToday(d badi.Date) Today {
	t := Today{
		Date:        d.String(),
		Year:        d.Year(),
		Month:       d.Month(),
		MonthName:   d.MonthName().String(),
		Day:         d.Day(),
		DayOfYear:   d.DayOfYear(),
		YearInVahid: d.YearInVahid(),
		Vahid:       d.Vahid(),
		KullIShay:   d.KullIShay(),
		AyyamIHa:    d.IsAyyamIHa(),
		Fast:        d.IsPeriodOfFast(),
		Feast:       d.IsFeastDay(),
		Start:       d.Start(),
		End:         d.End(),
	}
	if h := d.HolyDay(); h != refdata.None {
		t.HolyDay = h.String()
	}
	return t
}
