package engine

import (
	"bytes"
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/format"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

// Generator exports a solar year of lunar landmarks as an iCalendar feed:
// every solar-term boundary, every Mùng 1 and every Rằm.
type Generator struct {
	Clock    Clock // Interface for time mocking.
	Calendar *Calendar
}

type feedStats struct{ days, terms, newMoons, fullMoons int }

// Feed builds the iCalendar document of a solar year.
func (g *Generator) Feed(ctx context.Context, year int) ([]byte, error) {
	if err := lunar.CheckYear(year); err != nil {
		return nil, err
	}
	start := time.Now()
	log := slog.With(
		config.LogKeyComponent, config.CompFeed,
		config.LogKeyYear, year,
	)
	log.InfoContext(ctx, config.MsgFeedStarted)

	// 1. Calendar Header
	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// One DTSTAMP for the whole feed, taken from the injected clock.
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(g.Clock.Now().UTC())

	// 2. Walk the Solar Year
	var stats feedStats
	day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for ; day.Year() == year; day = day.AddDate(0, 0, 1) {
		// Cancellation is checked once per solar month.
		if day.Day() == 1 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		stats.days++

		events, err := g.dayEvents(day, &stats)
		if err != nil {
			return nil, err
		}
		for _, e := range events {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	// 3. Encode
	// go-ical refuses a calendar without components, hence the stub.
	var buf bytes.Buffer
	if len(cal.Children) == 0 {
		fmt.Fprint(&buf, config.StubVCalendar)
	} else if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	log.Info(config.MsgFeedSuccess,
		config.LogKeyEvents, len(cal.Children),
		slog.Group(config.LogKeyStats,
			slog.Int(config.LogKeyDays, stats.days),
			slog.Int(config.LogKeyTerms, stats.terms),
			slog.Int(config.LogKeyNewMoons, stats.newMoons),
			slog.Int(config.LogKeyFullMoons, stats.fullMoons),
		),
		config.LogKeyDuration, time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// dayEvents returns the landmark events falling on day.
func (g *Generator) dayEvents(day time.Time, stats *feedStats) ([]*ical.Event, error) {
	c := g.Calendar

	// --- Shared description: lunar date and Can-Chi of the day ---
	l, err := c.Converter.ToLunar(day)
	if err != nil {
		return nil, err
	}
	dc, err := c.CanChi.FullDay(day)
	if err != nil {
		return nil, err
	}
	description := format.LunarLong(l) + "\n" + format.FullCanChi(dc)
	month := format.MonthName(l.Month, l.IsLeapMonth)

	// --- Landmark 1: solar-term boundary ---
	var events []*ical.Event
	if term, ok, err := c.Terms.At(day); err != nil {
		return nil, err
	} else if ok {
		stats.terms++
		events = append(events, newEvent(day, config.CategorySolarTerm,
			fmt.Sprintf(config.SummarySolarTerm, term.Name), description))
	}

	// --- Landmark 2: Mùng 1 or Rằm, leap months included ---
	switch l.Day {
	case 1:
		stats.newMoons++
		events = append(events, newEvent(day, config.CategoryNewMoon,
			fmt.Sprintf(config.SummaryNewMoon, month), description))
	case config.FullMoonDay:
		stats.fullMoons++
		events = append(events, newEvent(day, config.CategoryFullMoon,
			fmt.Sprintf(config.SummaryFullMoon, month), description))
	}
	return events, nil
}

// newEvent creates an all-day event with a UID that is stable across regenerations.
func newEvent(day time.Time, category, summary, description string) *ical.Event {
	key := format.DayKey(day)
	input := fmt.Sprintf(config.FormatHashInput, category, key, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	uidBase := fmt.Sprintf("%x", hash[:config.UIDHashLength])

	event := ical.NewEvent()
	event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, key, config.ICalDomain))
	event.Props.SetText(config.PropSummary, summary)
	event.Props.SetText(config.PropDescription, description)
	event.Props.SetText(config.PropCategories, category)

	dtStartProp := ical.NewProp(config.PropDTStart)
	dtStartProp.SetDate(day)
	event.Props.Set(dtStartProp)
	return event
}
