// Package hoangdao derives the auspicious (Hoàng Đạo) two-hour periods of a day.
package hoangdao

import (
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-amlich/internal/canchi"
	"github.com/tartampluch/go-amlich/internal/config"
)

// Table marks the auspicious hour-branches (Tý..Hợi, '1' = auspicious) for each
// group of day-branches, keyed by dayBranch mod 6. It is a fixed almanac table.
var Table = [config.HoangDaoGroups]string{
	"110100101100", // Tý, Ngọ
	"001101001011", // Sửu, Mùi
	"110011010010", // Dần, Thân
	"101100110100", // Mão, Dậu
	"001011001101", // Thìn, Tuất
	"010010110011", // Tỵ, Hợi
}

// Period is one of the 12 two-hour periods of a day.
type Period struct {
	HourIndex    int           `json:"hour_index"`
	Branch       canchi.Branch `json:"branch"`
	TimeRange    string        `json:"time_range"`
	CanChi       canchi.Pair   `json:"can_chi"`
	IsAuspicious bool          `json:"is_auspicious"`
}

// Calculator derives the periods of a day from its Can-Chi.
type Calculator struct {
	canChi *canchi.Calculator
}

// New creates a Calculator naming days through cc.
func New(cc *canchi.Calculator) *Calculator {
	return &Calculator{canChi: cc}
}

// AllHours returns the 12 periods of the day of t, ordered by hour index.
func (c *Calculator) AllHours(t time.Time) []Period {
	return Periods(c.canChi.Day(t))
}

// HoangDao returns the 6 auspicious periods of the day of t.
func (c *Calculator) HoangDao(t time.Time) []Period {
	all := c.AllHours(t)
	hours := make([]Period, 0, len(all)/2)
	for _, p := range all {
		if p.IsAuspicious {
			hours = append(hours, p)
		}
	}
	return hours
}

// FormatShort joins the first auspicious time ranges of the day of t.
func (c *Calculator) FormatShort(t time.Time) string {
	hours := c.HoangDao(t)
	if len(hours) > config.ShortHoursLimit {
		hours = hours[:config.ShortHoursLimit]
	}
	ranges := make([]string, len(hours))
	for i, p := range hours {
		ranges[i] = p.TimeRange
	}
	return strings.Join(ranges, config.HoursSeparator)
}

// IsCurrentHour reports whether the wall-clock time of t falls in an auspicious
// period. The Tý period opens the next day at 23:00, so from 23:00 to midnight
// it is judged with the following day's branch.
func (c *Calculator) IsCurrentHour(t time.Time) bool {
	day := t
	if t.Hour() >= config.TyPeriodStartHour {
		day = t.AddDate(0, 0, 1)
	}
	return c.AllHours(day)[HourIndex(t)].IsAuspicious
}

// Periods builds the 12 periods of a day whose Can-Chi is day.
// A day with an unnamed branch gets no auspicious period.
func Periods(day canchi.Pair) []Period {
	var mask string
	if day.Branch.Valid() {
		mask = Table[int(day.Branch)%config.HoangDaoGroups]
	}

	periods := make([]Period, config.HoursPerDay)
	for i := range periods {
		b := canchi.Branch(i)
		periods[i] = Period{
			HourIndex:    i,
			Branch:       b,
			TimeRange:    TimeRange(i),
			CanChi:       canchi.Hour(day.Stem, b),
			IsAuspicious: mask != "" && mask[i] == '1',
		}
	}
	return periods
}

// TimeRange returns the clock window of an hour index; index 0 is 23:00-01:00.
func TimeRange(index int) string {
	start := (2*index + config.TyPeriodStartHour) % 24
	end := (start + 2) % 24
	return fmt.Sprintf(config.TimeRangeFormat, start, end)
}

// HourIndex returns the index of the period containing the wall-clock time of t.
func HourIndex(t time.Time) int {
	return ((t.Hour() + 1) / 2) % config.HoursPerDay
}
