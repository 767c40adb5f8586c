package badi

import (
	"errors"

	"github.com/tartampluch/go-badi/internal/config"
)

// Validation errors. Returned errors wrap one of these together with the
// offending value, so callers test them with errors.Is.
var (
	ErrDayOutOfRange       = errors.New(config.ErrDayRange)
	ErrMonthOutOfRange     = errors.New(config.ErrMonthRange)
	ErrAyyamIHaFlag        = errors.New(config.ErrAyyamIHaFlag)
	ErrUnsupportedYear     = errors.New(config.ErrYearRange)
	ErrUnsupportedDate     = errors.New(config.ErrDateRange)
	ErrDayOfYearOutOfRange = errors.New(config.ErrDayOfYearRange)
	ErrUnknownMonth        = errors.New(config.ErrMonthName)
)
