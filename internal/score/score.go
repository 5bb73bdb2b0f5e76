// Package score turns a day's feng-shui record into a 0-100 quality score.
package score

import (
	"errors"
	"fmt"
	"math"

	"github.com/tartampluch/go-amlich/internal/canchi"
	"github.com/tartampluch/go-amlich/internal/config"
)

// ErrMissingRecord is returned when no feng-shui record exists for a date.
var ErrMissingRecord = errors.New(config.ErrMissingRecord)

// Quality is the qualitative band of a score.
type Quality string

const (
	Excellent Quality = "excellent"
	Good      Quality = "good"
	Normal    Quality = "normal"
	Bad       Quality = "bad"
	VeryBad   Quality = "very_bad"
)

// Bands maps scores to qualities, checked top-down: the first MinScore reached wins.
var Bands = []struct {
	MinScore int
	Quality  Quality
}{
	{80, Excellent},
	{65, Good},
	{50, Normal},
	{35, Bad},
	{config.ScoreMin, VeryBad},
}

type qualityInfo struct {
	color    string
	label    string
	labelKey string
}

var qualities = map[Quality]qualityInfo{
	Excellent: {"#2E7D32", "Rất tốt", config.TKeyQualityExcellent},
	Good:      {"#66BB6A", "Tốt", config.TKeyQualityGood},
	Normal:    {"#FFA726", "Bình thường", config.TKeyQualityNormal},
	Bad:       {"#EF5350", "Xấu", config.TKeyQualityBad},
	VeryBad:   {"#B71C1C", "Rất xấu", config.TKeyQualityVeryBad},
}

// Qualities lists every band from best to worst.
func Qualities() []Quality {
	out := make([]Quality, len(Bands))
	for i, b := range Bands {
		out[i] = b.Quality
	}
	return out
}

// QualityOf maps a score to its band.
func QualityOf(score int) Quality {
	for _, b := range Bands {
		if score >= b.MinScore {
			return b.Quality
		}
	}
	return VeryBad
}

// Color returns the display color of the band. It panics on an unknown value.
func (q Quality) Color() string { return q.info().color }

// Label returns the Vietnamese label of the band. It panics on an unknown value.
func (q Quality) Label() string { return q.info().label }

// LabelKey returns the translation key of the band. It panics on an unknown value.
func (q Quality) LabelKey() string { return q.info().labelKey }

func (q Quality) info() qualityInfo {
	info, ok := qualities[q]
	if !ok {
		panic(fmt.Sprintf("%s: %q", config.ErrUnknownQuality, string(q)))
	}
	return info
}

// Factor is one signal's contribution to a score.
type Factor struct {
	Name     string  `json:"name"`
	Raw      float64 `json:"raw"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

// DayScore is the result of scoring a day.
type DayScore struct {
	Score   int      `json:"score"`
	Quality Quality  `json:"quality"`
	Factors []Factor `json:"factors"`
}

// Scorer aggregates record signals with a weight table.
type Scorer struct {
	Weights Weights
}

// NewScorer creates a Scorer using w.
func NewScorer(w Weights) Scorer {
	return Scorer{Weights: w}
}

// Calculate scores a record. A nil record is refused with ErrMissingRecord.
func (s Scorer) Calculate(rec *Record) (DayScore, error) {
	if rec == nil {
		return DayScore{}, ErrMissingRecord
	}
	w := s.Weights

	good := float64(min(len(rec.GoodFor), w.ActivityCap))
	bad := float64(min(len(rec.BadFor), w.ActivityCap))

	factors := []Factor{
		{Name: config.FactorBase, Raw: 1, Weight: w.Base, Weighted: w.Base},
		{Name: config.FactorGood, Raw: good, Weight: w.GoodActivity, Weighted: good * w.GoodActivity},
		{Name: config.FactorBad, Raw: bad, Weight: -w.BadActivity, Weighted: -bad * w.BadActivity},
		boolFactor(config.FactorElement, s.elementMatches(rec.Element), w.ElementMatch),
		{
			Name:     config.FactorHours,
			Raw:      float64(rec.AuspiciousHours),
			Weight:   w.AuspiciousHour,
			Weighted: float64(rec.AuspiciousHours) * w.AuspiciousHour,
		},
		boolFactor(config.FactorTermDay, rec.IsTermDay, w.TermDay),
	}

	total := 0.0
	for _, f := range factors {
		total += f.Weighted
	}
	score := clamp(int(math.Round(total)))

	return DayScore{
		Score:   score,
		Quality: QualityOf(score),
		Factors: factors,
	}, nil
}

func (s Scorer) elementMatches(name string) bool {
	day, ok := canchi.ParseElement(name)
	if !ok {
		return false
	}
	for _, f := range s.Weights.FavorableElements {
		if fav, ok := canchi.ParseElement(f); ok && fav == day {
			return true
		}
	}
	return false
}

func boolFactor(name string, on bool, weight float64) Factor {
	f := Factor{Name: name, Weight: weight}
	if on {
		f.Raw = 1
		f.Weighted = weight
	}
	return f
}

func clamp(score int) int {
	return max(config.ScoreMin, min(config.ScoreMax, score))
}
