package domain

import (
	"time"

	"github.com/leonid6372/stock-ledger/internal/ledgererrs"
)

const DateLayout = "2006-01-02"

// DateRange is a closed interval of instants.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDayRange covers every instant of the calendar days start..end in UTC.
func NewDayRange(start, end time.Time) (DateRange, error) {
	from := truncateDay(start)
	to := truncateDay(end)

	if to.Before(from) {
		return DateRange{}, ledgererrs.NewValidationError("end-date", "must not be before start-date")
	}

	return DateRange{
		From: from,
		To:   to.Add(24*time.Hour - time.Nanosecond),
	}, nil
}

// ParseDayRange parses two YYYY-MM-DD dates into a NewDayRange.
func ParseDayRange(start, end string) (DateRange, error) {
	if start == "" || end == "" {
		return DateRange{}, ledgererrs.NewValidationError("", "start-date and end-date are required")
	}

	startDate, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, ledgererrs.NewValidationError("start-date", "must be a YYYY-MM-DD date")
	}

	endDate, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, ledgererrs.NewValidationError("end-date", "must be a YYYY-MM-DD date")
	}

	return NewDayRange(startDate, endDate)
}

func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
