package ui

import (
	"errors"
	"strconv"

	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
)

// NumericalEntry is an Entry that only takes digits from the keyboard.
type NumericalEntry struct {
	widget.Entry
}

// NewNumericalEntry returns an entry whose validator rejects anything that
// is not a non-negative integer, such as pasted text.
func NewNumericalEntry(invalid string) *NumericalEntry {
	e := &NumericalEntry{}
	e.ExtendBaseWidget(e)
	e.Validator = func(s string) error {
		if _, ok := parseCount(s); !ok {
			return errors.New(invalid)
		}
		return nil
	}
	return e
}

// TypedRune drops every rune that is not a digit.
func (e *NumericalEntry) TypedRune(r rune) {
	if r >= '0' && r <= '9' {
		e.Entry.TypedRune(r)
	}
}

// Keyboard asks mobile drivers for the number pad.
func (e *NumericalEntry) Keyboard() mobile.KeyboardType {
	return mobile.NumberKeyboard
}

// Value returns the entered number. An empty entry counts as zero.
func (e *NumericalEntry) Value() (int, bool) {
	return parseCount(e.Text)
}

func parseCount(s string) (int, bool) {
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
