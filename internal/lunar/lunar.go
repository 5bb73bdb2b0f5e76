package lunar

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-amlich/internal/config"
)

var (
	// ErrOutOfRange is returned for dates outside the supported conversion range.
	ErrOutOfRange = errors.New(config.ErrDateOutOfRange)

	// ErrInvalidLunarDate is returned when a lunar date does not exist in its year.
	ErrInvalidLunarDate = errors.New(config.ErrInvalidLunarDate)
)

// LunarDate is a date of the Vietnamese lunisolar calendar.
type LunarDate struct {
	Day         int  `json:"day"`
	Month       int  `json:"month"`
	Year        int  `json:"year"`
	IsLeapMonth bool `json:"is_leap_month"`
}

// RawLunar is the lunar date as reported by a Provider.
// Month is negative for an inserted (leap) month.
type RawLunar struct {
	Day   int
	Month int
	Year  int
}

// RawTerm is one solar-term boundary as reported by a Provider.
type RawTerm struct {
	Day  int
	Name string
}

// Provider is the solar/lunar conversion primitive the engine is built on.
// Implementations work on civil dates and never see time zones or clocks.
type Provider interface {
	SolarToLunar(year, month, day int) (RawLunar, error)
	LunarToSolar(year, month, day int) (sy, sm, sd int, err error)

	// DayCanChi and MonthCanChi return the raw two-symbol cyclical name.
	DayCanChi(year, month, day int) string
	MonthCanChi(year, month, day int) (string, error)

	// MonthTerms lists the terms beginning in a solar month, ordered by day.
	MonthTerms(year, month int) ([]RawTerm, error)
}

// Converter converts between solar and lunar dates on top of a Provider.
type Converter struct {
	provider Provider
}

// NewConverter creates a Converter backed by p.
func NewConverter(p Provider) *Converter {
	return &Converter{provider: p}
}

// Provider returns the underlying conversion primitive.
func (c *Converter) Provider() Provider {
	return c.provider
}

// ToLunar converts the calendar day of t (in t's own location) to a lunar date.
func (c *Converter) ToLunar(t time.Time) (LunarDate, error) {
	y, m, d := t.Date()
	if err := CheckYear(y); err != nil {
		return LunarDate{}, err
	}

	raw, err := c.provider.SolarToLunar(y, int(m), d)
	if err != nil {
		return LunarDate{}, err
	}
	return fromRaw(raw), nil
}

// ToSolar converts a lunar date to the solar date it falls on, at midnight UTC.
func (c *Converter) ToSolar(l LunarDate) (time.Time, error) {
	// January of the first supported solar year still belongs to the previous lunar year.
	if l.Year < config.MinSupportedYear-1 || l.Year > config.MaxSupportedYear {
		return time.Time{}, fmt.Errorf("%w: %d", ErrOutOfRange, l.Year)
	}
	if l.Month < 1 || l.Month > 12 || l.Day < 1 || l.Day > 30 {
		return time.Time{}, fmt.Errorf("%w: %d/%d/%d", ErrInvalidLunarDate, l.Day, l.Month, l.Year)
	}

	month := l.Month
	if l.IsLeapMonth {
		month = -month
	}
	sy, sm, sd, err := c.provider.LunarToSolar(l.Year, month, l.Day)
	if err != nil {
		return time.Time{}, err
	}
	solar := time.Date(sy, time.Month(sm), sd, 0, 0, 0, 0, time.UTC)

	// A day 30 in a 29-day month lands on the next month; converting back exposes it.
	back, err := c.ToLunar(solar)
	if err != nil {
		return time.Time{}, err
	}
	if back != l {
		return time.Time{}, fmt.Errorf("%w: %d/%d/%d", ErrInvalidLunarDate, l.Day, l.Month, l.Year)
	}
	return solar, nil
}

// LeapMonth returns the leap month of a lunar year, or 0 when the year has none.
func (c *Converter) LeapMonth(year int) (int, error) {
	if year < config.MinSupportedYear-1 || year > config.MaxSupportedYear {
		return 0, fmt.Errorf("%w: %d", ErrOutOfRange, year)
	}
	for m := 1; m <= 12; m++ {
		_, _, _, err := c.provider.LunarToSolar(year, -m, 1)
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, ErrInvalidLunarDate) {
			return 0, err
		}
	}
	return 0, nil
}

// CheckYear reports ErrOutOfRange for a year outside the supported range.
func CheckYear(year int) error {
	if year < config.MinSupportedYear || year > config.MaxSupportedYear {
		return fmt.Errorf("%w: %d", ErrOutOfRange, year)
	}
	return nil
}

// CheckTermYear is CheckYear widened by config.TermYearMargin on both ends.
func CheckTermYear(year int) error {
	if year < config.MinSupportedYear-config.TermYearMargin || year > config.MaxSupportedYear+config.TermYearMargin {
		return fmt.Errorf("%w: %d", ErrOutOfRange, year)
	}
	return nil
}

func fromRaw(raw RawLunar) LunarDate {
	l := LunarDate{Day: raw.Day, Month: raw.Month, Year: raw.Year}
	if raw.Month < 0 {
		l.Month = -raw.Month
		l.IsLeapMonth = true
	}
	return l
}
