package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tartampluch/go-amlich/internal/astro"
	"github.com/tartampluch/go-amlich/internal/canchi"
	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/format"
	"github.com/tartampluch/go-amlich/internal/hoangdao"
	"github.com/tartampluch/go-amlich/internal/i18n"
	"github.com/tartampluch/go-amlich/internal/lunar"
	"github.com/tartampluch/go-amlich/internal/score"
	"github.com/tartampluch/go-amlich/internal/tietkhi"
)

// DayInfo is everything the engine knows about one solar day.
type DayInfo struct {
	Date       string           `json:"date"`
	Lunar      lunar.LunarDate  `json:"lunar"`
	LunarText  string           `json:"lunar_text"`
	CanChi     canchi.DayCanChi `json:"can_chi"`
	CanChiText string           `json:"can_chi_text"`
	Year       canchi.YearInfo  `json:"year"`

	CurrentTerm tietkhi.Term  `json:"current_term"`
	NextTerm    tietkhi.Term  `json:"next_term"`
	Term        *tietkhi.Term `json:"term,omitempty"`

	Hours               []hoangdao.Period `json:"hours"`
	HoangDaoShort       string            `json:"hoang_dao_short"`
	CurrentHourHoangDao bool              `json:"current_hour_hoang_dao"`

	// Score is nil when the data set has no record for the day.
	Score        *score.DayScore `json:"score,omitempty"`
	QualityLabel string          `json:"quality_label,omitempty"`
	QualityColor string          `json:"quality_color,omitempty"`
}

// Calendar wires the calculators together.
type Calendar struct {
	Clock     Clock
	Converter *lunar.Converter
	CanChi    *canchi.Calculator
	Terms     *tietkhi.Calculator
	Hours     *hoangdao.Calculator
	Scorer    score.Scorer

	// Records is optional; without it days are never scored.
	Records score.RecordSource
	// Labels is optional; without it quality labels are Vietnamese.
	Labels *i18n.Translator
}

// NewCalendar builds a Calendar on top of a conversion primitive.
func NewCalendar(p lunar.Provider, w score.Weights) *Calendar {
	conv := lunar.NewConverter(p)
	cc := canchi.New(conv)
	return &Calendar{
		Clock:     RealClock{},
		Converter: conv,
		CanChi:    cc,
		Terms:     tietkhi.New(p),
		Hours:     hoangdao.New(cc),
		Scorer:    score.NewScorer(w),
	}
}

// NewVietnamCalendar builds a Calendar using the built-in UTC+7 provider.
func NewVietnamCalendar(w score.Weights) *Calendar {
	return NewCalendar(astro.New(config.VietnamTimeZone), w)
}

// Today describes the current day according to the Calendar's clock.
func (c *Calendar) Today(ctx context.Context) (DayInfo, error) {
	return c.Day(ctx, c.Clock.Now())
}

// Day describes the calendar day of t. The wall-clock part of t is only used
// for CurrentHourHoangDao.
func (c *Calendar) Day(ctx context.Context, t time.Time) (DayInfo, error) {
	start := time.Now()
	key := format.DayKey(t)
	log := slog.With(
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyDate, key,
	)

	l, err := c.Converter.ToLunar(t)
	if err != nil {
		return DayInfo{}, err
	}
	dc, err := c.CanChi.FullDay(t)
	if err != nil {
		return DayInfo{}, err
	}
	current, err := c.Terms.Current(t)
	if err != nil {
		return DayInfo{}, err
	}
	next, err := c.Terms.Next(t)
	if err != nil {
		return DayInfo{}, err
	}

	info := DayInfo{
		Date:                key,
		Lunar:               l,
		LunarText:           format.LunarLong(l),
		CanChi:              dc,
		CanChiText:          format.FullCanChi(dc),
		Year:                canchi.YearInfoOf(l.Year),
		CurrentTerm:         current,
		NextTerm:            next,
		Hours:               c.Hours.AllHours(t),
		HoangDaoShort:       c.Hours.FormatShort(t),
		CurrentHourHoangDao: c.Hours.IsCurrentHour(t),
	}
	if term, ok, err := c.Terms.At(t); err == nil && ok {
		info.Term = &term
	}

	ds, err := c.ScoreDay(ctx, t)
	switch {
	case err == nil:
		info.Score = &ds
		info.QualityColor = ds.Quality.Color()
		info.QualityLabel = ds.Quality.Label()
		if c.Labels != nil {
			info.QualityLabel = c.Labels.QualityLabel(ds.Quality)
		}
	case errors.Is(err, score.ErrMissingRecord):
		log.Debug(config.MsgRecordMissing)
	default:
		return DayInfo{}, err
	}

	log.Debug(config.MsgDayComputed, config.LogKeyDuration, time.Since(start).Milliseconds())
	return info, nil
}

// ScoreDay scores the day of t from its external record. The auspicious-hour
// count and the term-day flag are supplied by the engine, not by the record.
func (c *Calendar) ScoreDay(ctx context.Context, t time.Time) (score.DayScore, error) {
	if c.Records == nil {
		return score.DayScore{}, score.ErrMissingRecord
	}
	rec, err := c.Records.Lookup(ctx, format.DayKey(t))
	if err != nil {
		return score.DayScore{}, err
	}
	rec.AuspiciousHours = len(c.Hours.HoangDao(t))
	rec.IsTermDay = c.Terms.IsTermDay(t)

	ds, err := c.Scorer.Calculate(rec)
	if err != nil {
		return score.DayScore{}, err
	}
	slog.Debug(config.MsgDayScored,
		config.LogKeyComponent, config.CompScore,
		config.LogKeyScore, ds.Score,
		config.LogKeyQuality, ds.Quality,
	)
	return ds, nil
}
