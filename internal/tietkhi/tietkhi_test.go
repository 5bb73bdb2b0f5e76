package tietkhi_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-amlich/internal/astro"
	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/lunar"
	"github.com/tartampluch/go-amlich/internal/tietkhi"
)

// renamingProvider reports an unknown symbol for every term.
type renamingProvider struct {
	astro.Provider
}

func (p renamingProvider) MonthTerms(year, month int) ([]lunar.RawTerm, error) {
	raws, err := p.Provider.MonthTerms(year, month)
	for i := range raws {
		raws[i].Name = "?" + raws[i].Name
	}
	return raws, err
}

// strictProvider refuses term lookups outside the conversion range.
type strictProvider struct {
	astro.Provider
}

func (p strictProvider) MonthTerms(year, month int) ([]lunar.RawTerm, error) {
	if err := lunar.CheckYear(year); err != nil {
		return nil, err
	}
	return p.Provider.MonthTerms(year, month)
}

func newCalculator() *tietkhi.Calculator {
	return tietkhi.New(astro.New(config.VietnamTimeZone))
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNames(t *testing.T) {
	require.Len(t, tietkhi.Names, config.SolarTermCount)
	assert.Equal(t, "Xuân Phân", tietkhi.Names[0])
	assert.Equal(t, "Hạ Chí", tietkhi.Names[6])
	assert.Equal(t, "Đông Chí", tietkhi.Names[18])
	assert.Equal(t, "Lập Xuân", tietkhi.Names[21])
}

func TestAt(t *testing.T) {
	c := newCalculator()

	term, ok, err := c.At(date(2025, time.February, 3))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, tietkhi.Term{Name: "Lập Xuân", Index: 21, BoundaryDate: date(2025, time.February, 3)}, term)

	_, ok, err = c.At(date(2025, time.February, 4))
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = c.At(date(2200, time.January, 1))
	assert.ErrorIs(t, err, lunar.ErrOutOfRange)
}

func TestIsTermDay(t *testing.T) {
	c := newCalculator()

	assert.True(t, c.IsTermDay(date(2025, time.March, 20)), "Xuân Phân")
	assert.True(t, c.IsTermDay(date(2025, time.December, 21)), "Đông Chí")
	assert.False(t, c.IsTermDay(date(2025, time.December, 22)))
	assert.False(t, c.IsTermDay(date(2200, time.January, 1)), "Out of range is never a term day")
}

func TestCurrentAndNext(t *testing.T) {
	c := newCalculator()

	tests := []struct {
		name        string
		day         time.Time
		current     string
		currentDate time.Time
		next        string
		nextDate    time.Time
	}{
		{
			name:        "Between boundaries",
			day:         date(2025, time.February, 10),
			current:     "Lập Xuân",
			currentDate: date(2025, time.February, 3),
			next:        "Vũ Thủy",
			nextDate:    date(2025, time.February, 18),
		},
		{
			name:        "On a boundary day",
			day:         date(2025, time.February, 18),
			current:     "Vũ Thủy",
			currentDate: date(2025, time.February, 18),
			next:        "Kinh Trập",
			nextDate:    date(2025, time.March, 5),
		},
		{
			name:        "Current term begins in the previous year",
			day:         date(2025, time.January, 2),
			current:     "Đông Chí",
			currentDate: date(2024, time.December, 21),
			next:        "Tiểu Hàn",
			nextDate:    date(2025, time.January, 5),
		},
		{
			name:        "Next term begins in the following year",
			day:         date(2025, time.December, 30),
			current:     "Đông Chí",
			currentDate: date(2025, time.December, 21),
			next:        "Tiểu Hàn",
			nextDate:    date(2026, time.January, 5),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cur, err := c.Current(tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.current, cur.Name)
			assert.Equal(t, tt.currentDate, cur.BoundaryDate)

			next, err := c.Next(tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.next, next.Name)
			assert.Equal(t, tt.nextDate, next.BoundaryDate)
		})
	}
}

// TestOrdering checks current <= day < next, with consecutive indexes, for every day of 2025.
func TestOrdering(t *testing.T) {
	c := newCalculator()
	boundaries := 0

	for d := date(2025, time.January, 1); d.Year() == 2025; d = d.AddDate(0, 0, 1) {
		cur, err := c.Current(d)
		require.NoError(t, err)
		next, err := c.Next(d)
		require.NoError(t, err)

		require.False(t, cur.BoundaryDate.After(d), d)
		require.True(t, next.BoundaryDate.After(d), d)
		require.Equal(t, (cur.Index+1)%config.SolarTermCount, next.Index, d)

		if c.IsTermDay(d) {
			boundaries++
			require.Equal(t, d, cur.BoundaryDate)
		}
	}
	assert.Equal(t, config.SolarTermCount, boundaries)
}

func TestRangeEdges(t *testing.T) {
	c := newCalculator()
	first := date(config.MinSupportedYear, time.January, 1)
	last := date(config.MaxSupportedYear, time.December, 31)

	// The first days of the range are still in the winter solstice of 1899.
	for d := first; d.Before(date(config.MinSupportedYear, time.January, 6)); d = d.AddDate(0, 0, 1) {
		cur, err := c.Current(d)
		require.NoError(t, err, d)
		assert.Equal(t, "Đông Chí", cur.Name)
		assert.Equal(t, date(config.MinSupportedYear-1, time.December, 22), cur.BoundaryDate)
	}

	next, err := c.Next(first)
	require.NoError(t, err)
	assert.Equal(t, "Tiểu Hàn", next.Name)
	assert.Equal(t, date(config.MinSupportedYear, time.January, 6), next.BoundaryDate)

	// The last days of the range look ahead into January 2200.
	for d := date(config.MaxSupportedYear, time.December, 22); !d.After(last); d = d.AddDate(0, 0, 1) {
		next, err := c.Next(d)
		require.NoError(t, err, d)
		assert.Equal(t, "Tiểu Hàn", next.Name)
		assert.Equal(t, config.MaxSupportedYear+1, next.BoundaryDate.Year())
	}

	cur, err := c.Current(last)
	require.NoError(t, err)
	assert.Equal(t, "Đông Chí", cur.Name)

	// Term boundaries alone do not widen the conversion range.
	_, err = c.Current(last.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, lunar.ErrOutOfRange)
}

func TestRangeEdges_StrictProvider(t *testing.T) {
	c := tietkhi.New(strictProvider{astro.New(config.VietnamTimeZone)})

	_, err := c.Current(date(config.MinSupportedYear, time.January, 1))
	assert.ErrorIs(t, err, tietkhi.ErrNoTerm)

	_, err = c.Next(date(config.MaxSupportedYear, time.December, 31))
	assert.ErrorIs(t, err, tietkhi.ErrNoTerm)

	next, err := c.Next(date(config.MinSupportedYear, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, "Tiểu Hàn", next.Name)
}

func TestBoundaryDate_KeepsLocation(t *testing.T) {
	hanoi := time.FixedZone("ICT", 7*3600)
	term, ok, err := newCalculator().At(time.Date(2025, time.February, 3, 18, 0, 0, 0, hanoi))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, time.February, 3, 0, 0, 0, 0, hanoi), term.BoundaryDate)
}

func TestNamingGap(t *testing.T) {
	c := tietkhi.New(renamingProvider{astro.New(config.VietnamTimeZone)})

	term, ok, err := c.At(date(2025, time.February, 3))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "?立春", term.Name)
	assert.Equal(t, -1, term.Index)
}

func TestConcurrentLookups(t *testing.T) {
	c := newCalculator()
	var wg sync.WaitGroup
	results := make([]string, 16)

	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			term, err := c.Current(date(2025, time.June, 1+i))
			if err == nil {
				results[i] = term.Name
			}
		}(i)
	}
	wg.Wait()

	for i, name := range results {
		want := "Mang Chủng"
		if 1+i < 5 {
			want = "Tiểu Mãn"
		}
		assert.Equalf(t, want, name, "June %d", 1+i)
	}
}
