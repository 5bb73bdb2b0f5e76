package score

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/tartampluch/go-amlich/internal/config"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Record is the precomputed feng-shui description of one day.
// It comes from an external data set keyed by YYYY-MM-DD.
type Record struct {
	Date            string   `json:"date" yaml:"date"`
	CanChi          string   `json:"can_chi" yaml:"can_chi"`
	Element         string   `json:"element" yaml:"element"`
	GoodFor         []string `json:"good_for" yaml:"good_for"`
	BadFor          []string `json:"bad_for" yaml:"bad_for"`
	AuspiciousHours int      `json:"auspicious_hours" yaml:"auspicious_hours"`
	IsTermDay       bool     `json:"is_term_day" yaml:"is_term_day"`
}

// RecordSource resolves the record of a date key.
// Implementations return ErrMissingRecord when the key is unknown.
type RecordSource interface {
	Lookup(ctx context.Context, key string) (*Record, error)
}

// MapSource is an in-memory RecordSource. It must not be modified after first use.
type MapSource map[string]Record

// Lookup implements RecordSource. It returns a copy of the stored record.
func (m MapSource) Lookup(ctx context.Context, key string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rec, ok := m[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingRecord, key)
	}
	return &rec, nil
}

// LoadRecords reads a YAML (or JSON) mapping of date keys to records.
// Text fields are normalised to NFC so lookups do not depend on the file's encoding.
func LoadRecords(path string) (MapSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRecordsRead, err)
	}

	var raw map[string]Record
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRecordsParse, err)
	}

	src := make(MapSource, len(raw))
	for key, rec := range raw {
		if _, err := time.Parse(config.DateKeyFormat, key); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", config.ErrRecordsParse, key, err)
		}
		rec.Date = key
		rec.CanChi = norm.NFC.String(rec.CanChi)
		rec.Element = norm.NFC.String(rec.Element)
		rec.GoodFor = normalizeAll(rec.GoodFor)
		rec.BadFor = normalizeAll(rec.BadFor)
		src[key] = rec
	}

	slog.Info(config.MsgRecordsLoaded,
		config.LogKeyComponent, config.CompScore,
		config.LogKeyFile, path,
		config.LogKeyCount, len(src),
	)
	return src, nil
}

func normalizeAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = norm.NFC.String(s)
	}
	return out
}
