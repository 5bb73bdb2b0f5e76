// Package canchi derives the sexagenary (Can-Chi) names of years, months,
// days and two-hour periods.
package canchi

import (
	"errors"
	"log/slog"
	"time"

	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

// Pair is a stem/branch designation with its display label and element.
type Pair struct {
	Stem    Stem    `json:"stem"`
	Branch  Branch  `json:"branch"`
	Label   string  `json:"label"`
	Element Element `json:"element"`
}

// NewPair builds the Pair of a stem and a branch.
func NewPair(s Stem, b Branch) Pair {
	return Pair{
		Stem:    s,
		Branch:  b,
		Label:   s.String() + " " + b.String(),
		Element: s.Element(),
	}
}

// Valid reports whether both the stem and the branch are named.
func (p Pair) Valid() bool { return p.Stem.Valid() && p.Branch.Valid() }

// YearInfo describes a year: its Can-Chi and zodiac animal.
type YearInfo struct {
	Year         int    `json:"year"`
	CanChi       Pair   `json:"can_chi"`
	ZodiacAnimal string `json:"zodiac_animal"`
	AnimalEmoji  string `json:"animal_emoji"`
}

// DayCanChi groups the Can-Chi of a day, its lunar month and its lunar year.
type DayCanChi struct {
	Day   Pair `json:"day"`
	Month Pair `json:"month"`
	Year  Pair `json:"year"`
}

// Year returns the Can-Chi of a (lunar) year. Year 4 is Giáp Tý.
func Year(year int) Pair {
	n := mod(year-config.YearCycleOffset, config.SexagenaryCycle)
	return NewPair(Stem(mod(n, config.StemCount)), Branch(mod(n, config.BranchCount)))
}

// YearInfoOf returns the Can-Chi and zodiac animal of a year.
func YearInfoOf(year int) YearInfo {
	p := Year(year)
	return YearInfo{
		Year:         year,
		CanChi:       p,
		ZodiacAnimal: zodiacAnimals[p.Branch],
		AnimalEmoji:  zodiacEmojis[p.Branch],
	}
}

// Hour returns the Can-Chi of a two-hour period given the stem of its day.
// Giáp and Kỷ days start at Giáp Tý, Ất and Canh days at Bính Tý, and so on.
func Hour(dayStem Stem, hour Branch) Pair {
	if !dayStem.Valid() || !hour.Valid() {
		return Pair{Stem: InvalidStem, Branch: hour, Element: InvalidElement}
	}
	first := (int(dayStem) % 5) * 2
	return NewPair(Stem((first+int(hour))%config.StemCount), hour)
}

// Calculator names days and months through a conversion primitive.
type Calculator struct {
	conv *lunar.Converter
}

// New creates a Calculator using conv for lunar dates and raw cyclical symbols.
func New(conv *lunar.Converter) *Calculator {
	return &Calculator{conv: conv}
}

// Day returns the Can-Chi of the calendar day of t.
// Unmapped raw symbols are logged and returned as the label.
func (c *Calculator) Day(t time.Time) Pair {
	y, m, d := t.Date()
	return c.name(c.conv.Provider().DayCanChi(y, int(m), d))
}

// Month returns the Can-Chi of the lunar month containing the day of t.
func (c *Calculator) Month(t time.Time) (Pair, error) {
	y, m, d := t.Date()
	if err := lunar.CheckYear(y); err != nil {
		return Pair{}, err
	}
	raw, err := c.conv.Provider().MonthCanChi(y, int(m), d)
	if err != nil {
		return Pair{}, err
	}
	return c.name(raw), nil
}

// FullDay returns the day, month and lunar-year Can-Chi of t.
func (c *Calculator) FullDay(t time.Time) (DayCanChi, error) {
	l, err := c.conv.ToLunar(t)
	if err != nil {
		return DayCanChi{}, err
	}
	month, err := c.Month(t)
	if err != nil {
		return DayCanChi{}, err
	}
	return DayCanChi{
		Day:   c.Day(t),
		Month: month,
		Year:  Year(l.Year),
	}, nil
}

func (c *Calculator) name(raw string) Pair {
	p, err := Translate(raw)
	if errors.Is(err, ErrNamingGap) {
		slog.Warn(config.MsgNamingGap,
			config.LogKeyComponent, config.CompCanChi,
			config.LogKeyRaw, raw,
		)
	}
	return p
}

func mod(n, m int) int {
	r := n % m
	if r < 0 {
		r += m
	}
	return r
}
