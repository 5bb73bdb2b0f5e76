// Package tietkhi resolves the 24 solar terms (Tiết Khí) around a date.
package tietkhi

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

// Names of the 24 terms, index 0 at solar longitude 0° (vernal equinox), 15° apart.
var Names = []string{
	"Xuân Phân", "Thanh Minh", "Cốc Vũ", "Lập Hạ", "Tiểu Mãn", "Mang Chủng",
	"Hạ Chí", "Tiểu Thử", "Đại Thử", "Lập Thu", "Xử Thử", "Bạch Lộ",
	"Thu Phân", "Hàn Lộ", "Sương Giáng", "Lập Đông", "Tiểu Tuyết", "Đại Tuyết",
	"Đông Chí", "Tiểu Hàn", "Đại Hàn", "Lập Xuân", "Vũ Thủy", "Kinh Trập",
}

// rawNames maps provider symbols to term indexes.
var rawNames = map[string]int{
	"春分": 0, "清明": 1, "谷雨": 2, "立夏": 3, "小满": 4, "芒种": 5,
	"夏至": 6, "小暑": 7, "大暑": 8, "立秋": 9, "处暑": 10, "白露": 11,
	"秋分": 12, "寒露": 13, "霜降": 14, "立冬": 15, "小雪": 16, "大雪": 17,
	"冬至": 18, "小寒": 19, "大寒": 20, "立春": 21, "雨水": 22, "惊蛰": 23,
}

// ErrNoTerm is returned when the month window around a date holds no boundary.
// It only happens with a provider that refuses months past the supported range.
var ErrNoTerm = errors.New(config.ErrNoTerm)

// Term is a solar term and the local day it begins on.
type Term struct {
	Name         string    `json:"name"`
	Index        int       `json:"index"`
	BoundaryDate time.Time `json:"boundary_date"`
}

type monthKey struct{ year, month int }

// Calculator looks terms up in a window of three solar months.
// Provider month reports are memoised; the cache is safe for concurrent use.
type Calculator struct {
	provider lunar.Provider
	months   sync.Map // monthKey -> []lunar.RawTerm
}

// New creates a Calculator reading term boundaries from p.
func New(p lunar.Provider) *Calculator {
	return &Calculator{provider: p}
}

// At returns the term beginning on the day of t, if any.
func (c *Calculator) At(t time.Time) (Term, bool, error) {
	y, m, d := t.Date()
	if err := lunar.CheckYear(y); err != nil {
		return Term{}, false, err
	}
	raws, err := c.monthTerms(y, int(m))
	if err != nil {
		return Term{}, false, err
	}
	for _, r := range raws {
		if r.Day == d {
			return newTerm(r, y, int(m), t.Location()), true, nil
		}
	}
	return Term{}, false, nil
}

// IsTermDay reports whether a term begins on the day of t.
// Dates outside the supported range are never term days.
func (c *Calculator) IsTermDay(t time.Time) bool {
	_, ok, err := c.At(t)
	return err == nil && ok
}

// Current returns the most recent term beginning on or before the day of t.
func (c *Calculator) Current(t time.Time) (Term, error) {
	window, err := c.window(t)
	if err != nil {
		return Term{}, err
	}
	day := startOfDay(t)
	for i := len(window) - 1; i >= 0; i-- {
		if !window[i].BoundaryDate.After(day) {
			return window[i], nil
		}
	}
	return Term{}, fmt.Errorf("%w: %s", ErrNoTerm, day.Format(config.DateKeyFormat))
}

// Next returns the first term beginning strictly after the day of t.
func (c *Calculator) Next(t time.Time) (Term, error) {
	window, err := c.window(t)
	if err != nil {
		return Term{}, err
	}
	day := startOfDay(t)
	for _, term := range window {
		if term.BoundaryDate.After(day) {
			return term, nil
		}
	}
	return Term{}, fmt.Errorf("%w: %s", ErrNoTerm, day.Format(config.DateKeyFormat))
}

// window returns the terms of the previous, current and next solar month in order.
func (c *Calculator) window(t time.Time) ([]Term, error) {
	y, m, _ := t.Date()
	if err := lunar.CheckYear(y); err != nil {
		return nil, err
	}

	var terms []Term
	for offset := -1; offset <= 1; offset++ {
		wy, wm := shiftMonth(y, int(m), offset)
		raws, err := c.monthTerms(wy, wm)
		if err != nil {
			// A provider may refuse the neighbour month past the range edges.
			if errors.Is(err, lunar.ErrOutOfRange) && offset != 0 {
				continue
			}
			return nil, err
		}
		for _, r := range raws {
			terms = append(terms, newTerm(r, wy, wm, t.Location()))
		}
	}
	return terms, nil
}

func (c *Calculator) monthTerms(year, month int) ([]lunar.RawTerm, error) {
	key := monthKey{year, month}
	if v, ok := c.months.Load(key); ok {
		return v.([]lunar.RawTerm), nil
	}

	raws, err := c.provider.MonthTerms(year, month)
	if err != nil {
		return nil, err
	}
	slog.Debug(config.MsgTermCacheMiss,
		config.LogKeyComponent, config.CompTietKhi,
		config.LogKeyYear, year,
		config.LogKeyMonth, month,
		config.LogKeyCount, len(raws),
	)
	c.months.Store(key, raws)
	return raws, nil
}

func newTerm(r lunar.RawTerm, year, month int, loc *time.Location) Term {
	term := Term{
		Name:         r.Name,
		Index:        -1,
		BoundaryDate: time.Date(year, time.Month(month), r.Day, 0, 0, 0, 0, loc),
	}
	if idx, ok := rawNames[r.Name]; ok {
		term.Name = Names[idx]
		term.Index = idx
	} else if idx, ok := indexOfName(r.Name); ok {
		term.Index = idx
	} else {
		slog.Warn(config.MsgNamingGap,
			config.LogKeyComponent, config.CompTietKhi,
			config.LogKeyRaw, r.Name,
		)
	}
	return term
}

func indexOfName(name string) (int, bool) {
	for i, n := range Names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

func shiftMonth(year, month, offset int) (int, int) {
	n := year*12 + (month - 1) + offset
	return n / 12, n%12 + 1
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
