package score

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/tartampluch/go-amlich/internal/config"
	"gopkg.in/yaml.v3"
)

//go:embed weights.yaml
var defaultWeightsYAML []byte

// ErrInvalidWeights is returned by Weights.Validate.
var ErrInvalidWeights = errors.New(config.ErrInvalidWeights)

// Weights is the tunable weight table of the day-quality score.
type Weights struct {
	Version int `yaml:"version"`

	// Base is the score of a day without any signal.
	Base float64 `yaml:"base"`

	// GoodActivity and BadActivity are applied per listed activity, up to ActivityCap each.
	GoodActivity float64 `yaml:"good_activity"`
	BadActivity  float64 `yaml:"bad_activity"`
	ActivityCap  int     `yaml:"activity_cap"`

	// ElementMatch is added when the day's element is in FavorableElements.
	ElementMatch      float64  `yaml:"element_match"`
	FavorableElements []string `yaml:"favorable_elements"`

	// AuspiciousHour is applied per Hoàng Đạo hour of the day.
	AuspiciousHour float64 `yaml:"auspicious_hour"`

	// TermDay is added on a solar-term boundary day (usually negative).
	TermDay float64 `yaml:"term_day"`
}

// DefaultWeights returns the weight table shipped with the application.
func DefaultWeights() Weights {
	w, err := ParseWeights(defaultWeightsYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded weights.yaml: %v", err))
	}
	return w
}

// LoadWeights reads a weight table from a YAML file.
func LoadWeights(path string) (Weights, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Weights{}, fmt.Errorf("%s: %w", config.ErrWeightsRead, err)
	}
	w, err := ParseWeights(data)
	if err != nil {
		return Weights{}, err
	}

	slog.Info(config.MsgWeightsLoaded,
		config.LogKeyComponent, config.CompScore,
		config.LogKeyFile, path,
		config.LogKeyVersion, w.Version,
	)
	return w, nil
}

// ParseWeights decodes and validates a YAML weight table.
func ParseWeights(data []byte) (Weights, error) {
	var w Weights
	if err := yaml.Unmarshal(data, &w); err != nil {
		return Weights{}, fmt.Errorf("%s: %w", config.ErrWeightsParse, err)
	}
	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

// Validate checks the table can produce scores inside the [0, 100] range.
func (w Weights) Validate() error {
	if w.Version != config.CurrentWeightsVers {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidWeights, w.Version)
	}
	for _, v := range []float64{w.Base, w.GoodActivity, w.BadActivity, w.ElementMatch, w.AuspiciousHour, w.TermDay} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: weights must be finite numbers", ErrInvalidWeights)
		}
	}
	if w.Base < config.ScoreMin || w.Base > config.ScoreMax {
		return fmt.Errorf("%w: base must be between %d and %d", ErrInvalidWeights, config.ScoreMin, config.ScoreMax)
	}
	if w.GoodActivity < 0 || w.BadActivity < 0 || w.AuspiciousHour < 0 || w.ElementMatch < 0 {
		return fmt.Errorf("%w: per-signal weights must not be negative", ErrInvalidWeights)
	}
	if w.ActivityCap <= 0 {
		return fmt.Errorf("%w: activity_cap must be positive", ErrInvalidWeights)
	}
	return nil
}
