// Package astro computes the Vietnamese lunisolar calendar from mean lunar
// phases and the apparent solar longitude (Jean Meeus, "Astronomical
// Algorithms", low-precision series). It implements lunar.Provider and
// reports cyclical names with their raw Chinese symbols; the Vietnamese
// naming layer lives in package canchi.
package astro

import (
	"fmt"
	"math"

	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

const (
	// synodicMonth is the mean length of a lunation in days.
	synodicMonth = 29.530588853
	// newMoonEpoch is the Julian day of the new moon of 1900-01-01.
	newMoonEpoch = 2415021.076998695
	j2000        = 2451545.0
	// gregorianStart is the first Julian day number of the Gregorian calendar.
	gregorianStart = 2299161
)

// Raw stem, branch and solar-term symbols in cycle order.
var (
	rawStems    = []string{"甲", "乙", "丙", "丁", "戊", "己", "庚", "辛", "壬", "癸"}
	rawBranches = []string{"子", "丑", "寅", "卯", "辰", "巳", "午", "未", "申", "酉", "戌", "亥"}

	// rawTerms starts at the vernal equinox (solar longitude 0°), 15° apart.
	rawTerms = []string{
		"春分", "清明", "谷雨", "立夏", "小满", "芒种",
		"夏至", "小暑", "大暑", "立秋", "处暑", "白露",
		"秋分", "寒露", "霜降", "立冬", "小雪", "大雪",
		"冬至", "小寒", "大寒", "立春", "雨水", "惊蛰",
	}
)

// Provider is a lunar.Provider computing dates for a fixed UTC offset.
type Provider struct {
	// TimeZone is the offset from UTC in hours.
	TimeZone float64
}

// New returns a Provider for the given UTC offset in hours.
func New(timeZone float64) Provider {
	return Provider{TimeZone: timeZone}
}

// SolarToLunar converts a Gregorian date. The month is negative for a leap month.
func (p Provider) SolarToLunar(year, month, day int) (lunar.RawLunar, error) {
	dayNumber := jdFromDate(day, month, year)
	k := int(math.Floor((float64(dayNumber) - newMoonEpoch) / synodicMonth))

	// The mean-phase estimate of k can run one lunation ahead of the true
	// new moon, so step back until the month starts on or before the day.
	k++
	monthStart := p.newMoonDay(k)
	for monthStart > dayNumber {
		k--
		monthStart = p.newMoonDay(k)
	}

	a11 := p.lunarMonth11(year)
	b11 := a11
	var lunarYear int
	if a11 >= monthStart {
		lunarYear = year
		a11 = p.lunarMonth11(year - 1)
	} else {
		lunarYear = year + 1
		b11 = p.lunarMonth11(year + 1)
	}

	lunarDay := dayNumber - monthStart + 1
	diff := (monthStart - a11) / 29
	leap := false
	lunarMonth := diff + 11
	if b11-a11 > 365 {
		leapDiff := p.leapMonthOffset(a11)
		if diff >= leapDiff {
			lunarMonth = diff + 10
			leap = diff == leapDiff
		}
	}
	if lunarMonth > 12 {
		lunarMonth -= 12
	}
	if lunarMonth >= 11 && diff < 4 {
		lunarYear--
	}

	if leap {
		lunarMonth = -lunarMonth
	}
	return lunar.RawLunar{Day: lunarDay, Month: lunarMonth, Year: lunarYear}, nil
}

// LunarToSolar converts a lunar date; a negative month selects the leap month.
func (p Provider) LunarToSolar(year, month, day int) (int, int, int, error) {
	leap := month < 0
	if leap {
		month = -month
	}

	var a11, b11 int
	if month < 11 {
		a11 = p.lunarMonth11(year - 1)
		b11 = p.lunarMonth11(year)
	} else {
		a11 = p.lunarMonth11(year)
		b11 = p.lunarMonth11(year + 1)
	}

	k := int(math.Floor(0.5 + (float64(a11)-newMoonEpoch)/synodicMonth))
	off := month - 11
	if off < 0 {
		off += 12
	}

	if b11-a11 > 365 {
		leapOff := p.leapMonthOffset(a11)
		leapMonth := leapOff - 2
		if leapMonth < 0 {
			leapMonth += 12
		}
		if leap && month != leapMonth {
			return 0, 0, 0, fmt.Errorf("%w: month %d of %d is not a leap month", lunar.ErrInvalidLunarDate, month, year)
		}
		if leap || off >= leapOff {
			off++
		}
	} else if leap {
		return 0, 0, 0, fmt.Errorf("%w: year %d has no leap month", lunar.ErrInvalidLunarDate, year)
	}

	monthStart := p.newMoonDay(k + off)
	sd, sm, sy := jdToDate(monthStart + day - 1)
	return sy, sm, sd, nil
}

// DayCanChi returns the raw stem+branch symbol of a Gregorian day.
func (p Provider) DayCanChi(year, month, day int) string {
	jd := jdFromDate(day, month, year)
	return rawStems[(jd+9)%10] + rawBranches[(jd+1)%12]
}

// MonthCanChi returns the raw stem+branch symbol of the lunar month containing a Gregorian day.
// A leap month shares the name of the month it follows.
func (p Provider) MonthCanChi(year, month, day int) (string, error) {
	if err := lunar.CheckYear(year); err != nil {
		return "", err
	}
	l, err := p.SolarToLunar(year, month, day)
	if err != nil {
		return "", err
	}
	m := l.Month
	if m < 0 {
		m = -m
	}
	stem := (l.Year*12 + m + 3) % 10
	branch := (m + 1) % 12
	return rawStems[stem] + rawBranches[branch], nil
}

// MonthTerms lists the solar terms whose boundary falls in the given Gregorian month.
// A term belongs to the local day on which the sun crosses its longitude.
// Years one past each end of the supported range are accepted.
func (p Provider) MonthTerms(year, month int) ([]lunar.RawTerm, error) {
	if err := lunar.CheckTermYear(year); err != nil {
		return nil, err
	}

	first := jdFromDate(1, month, year)
	nextY, nextM := year, month+1
	if nextM > 12 {
		nextY, nextM = year+1, 1
	}
	last := jdFromDate(1, nextM, nextY) - 1

	var terms []lunar.RawTerm
	prev := p.termIndexAtEndOf(first - 1)
	for jd := first; jd <= last; jd++ {
		cur := p.termIndexAtEndOf(jd)
		if cur != prev {
			terms = append(terms, lunar.RawTerm{Day: jd - first + 1, Name: rawTerms[cur]})
		}
		prev = cur
	}
	return terms, nil
}

// termIndexAtEndOf returns the 15° sector the sun is in at local midnight ending day jd.
func (p Provider) termIndexAtEndOf(jd int) int {
	l := sunLongitude(float64(jd) + 0.5 - p.TimeZone/24)
	return int(math.Floor(l/(2*math.Pi/config.SolarTermCount))) % config.SolarTermCount
}

// newMoonDay returns the local Julian day number of the k-th new moon after 1900-01-01.
func (p Provider) newMoonDay(k int) int {
	return int(math.Floor(newMoon(k) + 0.5 + p.TimeZone/24))
}

// sunSector returns the 30° sector (0..11) of the sun at the local start of day jd.
func (p Provider) sunSector(jd int) int {
	return int(math.Floor(sunLongitude(float64(jd)-0.5-p.TimeZone/24) / math.Pi * 6))
}

// lunarMonth11 returns the first day of the lunar month containing the winter solstice of year.
func (p Provider) lunarMonth11(year int) int {
	off := jdFromDate(31, 12, year) - 2415021
	k := int(math.Floor(float64(off) / synodicMonth))
	nm := p.newMoonDay(k)
	if p.sunSector(nm) >= 9 {
		nm = p.newMoonDay(k - 1)
	}
	return nm
}

// leapMonthOffset finds the first month after month 11 without a major solar term.
func (p Provider) leapMonthOffset(a11 int) int {
	k := int(math.Floor((float64(a11)-newMoonEpoch)/synodicMonth + 0.5))
	i := 1
	arc := p.sunSector(p.newMoonDay(k + i))
	for {
		last := arc
		i++
		arc = p.sunSector(p.newMoonDay(k + i))
		if arc == last || i >= 14 {
			break
		}
	}
	return i - 1
}

// jdFromDate returns the Julian day number of a date, Julian calendar before 1582-10-15.
func jdFromDate(dd, mm, yy int) int {
	a := (14 - mm) / 12
	y := yy + 4800 - a
	m := mm + 12*a - 3
	jd := dd + (153*m+2)/5 + 365*y + y/4 - y/100 + y/400 - 32045
	if jd < gregorianStart {
		jd = dd + (153*m+2)/5 + 365*y + y/4 - 32083
	}
	return jd
}

// jdToDate is the inverse of jdFromDate and returns day, month, year.
func jdToDate(jd int) (int, int, int) {
	var b, c int
	if jd >= gregorianStart {
		a := jd + 32044
		b = (4*a + 3) / 146097
		c = a - (b*146097)/4
	} else {
		c = jd + 32082
	}
	d := (4*c + 3) / 1461
	e := c - (1461*d)/4
	m := (5*e + 2) / 153
	day := e - (153*m+2)/5 + 1
	month := m + 3 - 12*(m/10)
	year := b*100 + d - 4800 + m/10
	return day, month, year
}

// newMoon returns the Julian date (UT) of the k-th new moon after 1900-01-01.
func newMoon(k int) float64 {
	kf := float64(k)
	t := kf / 1236.85
	t2 := t * t
	t3 := t2 * t
	dr := math.Pi / 180

	jd1 := 2415020.75933 + 29.53058868*kf + 0.0001178*t2 - 0.000000155*t3
	jd1 += 0.00033 * math.Sin((166.56+132.87*t-0.009173*t2)*dr)
	m := 359.2242 + 29.10535608*kf - 0.0000333*t2 - 0.00000347*t3
	mpr := 306.0253 + 385.81691806*kf + 0.0107306*t2 + 0.00001236*t3
	f := 21.2964 + 390.67050646*kf - 0.0016528*t2 - 0.00000239*t3

	c1 := (0.1734-0.000393*t)*math.Sin(m*dr) + 0.0021*math.Sin(2*dr*m)
	c1 -= 0.4068*math.Sin(mpr*dr) - 0.0161*math.Sin(dr*2*mpr)
	c1 -= 0.0004 * math.Sin(dr*3*mpr)
	c1 += 0.0104*math.Sin(dr*2*f) - 0.0051*math.Sin(dr*(m+mpr))
	c1 -= 0.0074*math.Sin(dr*(m-mpr)) + 0.0004*math.Sin(dr*(2*f+m))
	c1 -= 0.0004*math.Sin(dr*(2*f-m)) - 0.0006*math.Sin(dr*(2*f+mpr))
	c1 += 0.0010*math.Sin(dr*(2*f-mpr)) + 0.0005*math.Sin(dr*(2*mpr+m))

	var deltaT float64
	if t < -11 {
		deltaT = 0.001 + 0.000839*t + 0.0002261*t2 - 0.00000845*t3 - 0.000000081*t*t3
	} else {
		deltaT = -0.000278 + 0.000265*t + 0.000262*t2
	}
	return jd1 + c1 - deltaT
}

// sunLongitude returns the apparent solar longitude in radians [0, 2π) at Julian date jdn (UT).
func sunLongitude(jdn float64) float64 {
	t := (jdn - j2000) / 36525
	t2 := t * t
	dr := math.Pi / 180

	m := 357.52910 + 35999.05030*t - 0.0001559*t2 - 0.00000048*t*t2
	l0 := 280.46645 + 36000.76983*t + 0.0003032*t2
	dl := (1.914600 - 0.004817*t - 0.000014*t2) * math.Sin(dr*m)
	dl += (0.019993-0.000101*t)*math.Sin(dr*2*m) + 0.000290*math.Sin(dr*3*m)

	l := (l0 + dl) * dr
	return l - 2*math.Pi*math.Floor(l/(2*math.Pi))
}
