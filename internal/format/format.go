// Package format renders lunar dates and Can-Chi values as display strings.
package format

import (
	"fmt"
	"time"

	"github.com/tartampluch/go-amlich/internal/canchi"
	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

// monthNames are the traditional names of the lunar months, Giêng to Chạp.
var monthNames = []string{
	"Giêng", "Hai", "Ba", "Tư", "Năm", "Sáu",
	"Bảy", "Tám", "Chín", "Mười", "Mười Một", "Chạp",
}

// MonthName returns the traditional name of a lunar month, with "nhuận" for a leap month.
func MonthName(month int, leap bool) string {
	if month < 1 || month > len(monthNames) {
		return fmt.Sprint(month)
	}
	name := monthNames[month-1]
	if leap {
		return fmt.Sprintf(config.FormatLeapMonth, name)
	}
	return name
}

// LunarShort renders "day/month", e.g. "1/6" or "1/6 (N)" in a leap month.
func LunarShort(l lunar.LunarDate) string {
	if l.IsLeapMonth {
		return fmt.Sprintf(config.FormatLunarShortLeap, l.Day, l.Month)
	}
	return fmt.Sprintf(config.FormatLunarShort, l.Day, l.Month)
}

// LunarLong renders e.g. "Ngày 1 tháng Giêng năm Ất Tỵ".
func LunarLong(l lunar.LunarDate) string {
	return fmt.Sprintf(config.FormatLunarLong, l.Day, MonthName(l.Month, l.IsLeapMonth), canchi.Year(l.Year).Label)
}

// CanChi returns the label of a pair.
func CanChi(p canchi.Pair) string {
	return p.Label
}

// FullCanChi renders e.g. "Ngày Mậu Tuất, tháng Mậu Dần, năm Ất Tỵ".
func FullCanChi(dc canchi.DayCanChi) string {
	return fmt.Sprintf(config.FormatFullCanChi, dc.Day.Label, dc.Month.Label, dc.Year.Label)
}

// YearInfo renders e.g. "Ất Tỵ 🐍 (Rắn)".
func YearInfo(yi canchi.YearInfo) string {
	return fmt.Sprintf(config.FormatYearInfo, yi.CanChi.Label, yi.AnimalEmoji, yi.ZodiacAnimal)
}

// DayKey returns the YYYY-MM-DD key of the calendar day of t.
func DayKey(t time.Time) string {
	return t.Format(config.DateKeyFormat)
}
