package engine_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-amlich/internal/canchi"
	"github.com/tartampluch/go-amlich/internal/engine"
	"github.com/tartampluch/go-amlich/internal/i18n"
	"github.com/tartampluch/go-amlich/internal/lunar"
	"github.com/tartampluch/go-amlich/internal/score"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockClock controls time for deterministic testing.
type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// MockRecordSource simulates the external per-day data set using `testify/mock`.
type MockRecordSource struct {
	mock.Mock
}

func (m *MockRecordSource) Lookup(ctx context.Context, key string) (*score.Record, error) {
	args := m.Called(ctx, key)
	if r := args.Get(0); r != nil {
		return r.(*score.Record), args.Error(1)
	}
	return nil, args.Error(1)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newCalendar(records score.RecordSource) *engine.Calendar {
	cal := engine.NewVietnamCalendar(score.DefaultWeights())
	cal.Records = records
	return cal
}

// -----------------------------------------------------------------------------
// Calendar
// -----------------------------------------------------------------------------

func TestDay_Tet2025(t *testing.T) {
	records := score.MapSource{
		"2025-01-29": {
			Element: "Thổ",
			GoodFor: []string{"cúng tế", "cầu phúc", "khai trương"},
			BadFor:  []string{"động thổ"},
		},
	}
	cal := newCalendar(records)
	cal.Labels = i18n.New("en")

	info, err := cal.Day(context.Background(), date(2025, time.January, 29))
	require.NoError(t, err)

	assert.Equal(t, "2025-01-29", info.Date)
	assert.Equal(t, lunar.LunarDate{Day: 1, Month: 1, Year: 2025}, info.Lunar)
	assert.Equal(t, "Ngày 1 tháng Giêng năm Ất Tỵ", info.LunarText)
	assert.Equal(t, "Ngày Mậu Tuất, tháng Mậu Dần, năm Ất Tỵ", info.CanChiText)
	assert.Equal(t, "Rắn", info.Year.ZodiacAnimal)

	assert.Equal(t, "Đại Hàn", info.CurrentTerm.Name)
	assert.Equal(t, date(2025, time.January, 20), info.CurrentTerm.BoundaryDate)
	assert.Equal(t, "Lập Xuân", info.NextTerm.Name)
	assert.Nil(t, info.Term)

	// Mậu Tuất: the Thìn/Tuất group.
	require.Len(t, info.Hours, 12)
	assert.Equal(t, "03:00-05:00, 07:00-09:00, 09:00-11:00", info.HoangDaoShort)

	// 50 + 3*4 - 1*4 + 6 hours * 2; Thổ is not a favourable element.
	require.NotNil(t, info.Score)
	assert.Equal(t, 70, info.Score.Score)
	assert.Equal(t, score.Good, info.Score.Quality)
	assert.Equal(t, "Good", info.QualityLabel)
	assert.Equal(t, score.Good.Color(), info.QualityColor)
}

func TestDay_TermDayLowersScore(t *testing.T) {
	cal := newCalendar(score.MapSource{"2025-02-03": {}})

	info, err := cal.Day(context.Background(), date(2025, time.February, 3))
	require.NoError(t, err)

	require.NotNil(t, info.Term)
	assert.Equal(t, "Lập Xuân", info.Term.Name)
	assert.Equal(t, 21, info.Term.Index)

	// 50 + 6 hours * 2 - 5
	require.NotNil(t, info.Score)
	assert.Equal(t, 57, info.Score.Score)
	assert.Equal(t, score.Normal, info.Score.Quality)
	assert.Equal(t, "Bình thường", info.QualityLabel)
}

func TestDay_MissingRecordSkipsScore(t *testing.T) {
	cal := newCalendar(score.MapSource{})

	info, err := cal.Day(context.Background(), date(2025, time.January, 30))

	require.NoError(t, err)
	assert.Nil(t, info.Score)
	assert.Empty(t, info.QualityLabel)
	assert.Equal(t, "Kỷ Hợi", info.CanChi.Day.Label)
}

func TestDay_NoRecordSource(t *testing.T) {
	info, err := newCalendar(nil).Day(context.Background(), date(2025, time.January, 30))
	require.NoError(t, err)
	assert.Nil(t, info.Score)
}

func TestDay_RecordSourceFailure(t *testing.T) {
	src := new(MockRecordSource)
	boom := errors.New("data set unavailable")
	src.On("Lookup", mock.Anything, "2025-01-30").Return(nil, boom)

	_, err := newCalendar(src).Day(context.Background(), date(2025, time.January, 30))

	assert.ErrorIs(t, err, boom)
	src.AssertExpectations(t)
}

func TestDay_OutOfRange(t *testing.T) {
	_, err := newCalendar(nil).Day(context.Background(), date(2200, time.January, 1))
	assert.ErrorIs(t, err, lunar.ErrOutOfRange)
}

func TestDay_RangeEdges(t *testing.T) {
	cal := newCalendar(nil)

	first, err := cal.Day(context.Background(), date(1900, time.January, 1))
	require.NoError(t, err)
	assert.Equal(t, lunar.LunarDate{Day: 1, Month: 12, Year: 1899}, first.Lunar)
	assert.Equal(t, "Đông Chí", first.CurrentTerm.Name)
	assert.Equal(t, date(1899, time.December, 22), first.CurrentTerm.BoundaryDate)
	assert.Equal(t, "Tiểu Hàn", first.NextTerm.Name)

	last, err := cal.Day(context.Background(), date(2199, time.December, 31))
	require.NoError(t, err)
	assert.Equal(t, "Đông Chí", last.CurrentTerm.Name)
	assert.Equal(t, "Tiểu Hàn", last.NextTerm.Name)
	assert.Equal(t, 2200, last.NextTerm.BoundaryDate.Year())
}

func TestScoreDay_EngineSuppliesHoursAndTermFlag(t *testing.T) {
	src := new(MockRecordSource)
	rec := &score.Record{Element: "Kim", AuspiciousHours: 0, IsTermDay: true}
	src.On("Lookup", mock.Anything, "2025-01-21").Return(rec, nil)

	ds, err := newCalendar(src).ScoreDay(context.Background(), date(2025, time.January, 21))

	require.NoError(t, err)
	assert.Equal(t, 6, rec.AuspiciousHours)
	assert.False(t, rec.IsTermDay, "2025-01-21 is not a term boundary")
	// 50 + 8 (Kim) + 6 hours * 2
	assert.Equal(t, 70, ds.Score)
}

func TestToday_UsesClock(t *testing.T) {
	cal := newCalendar(nil)
	// 08:15 on a Canh Dần day falls in the auspicious Thìn period.
	cal.Clock = MockClock{CurrentTime: time.Date(2025, time.January, 21, 8, 15, 0, 0, time.UTC)}

	info, err := cal.Today(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2025-01-21", info.Date)
	assert.Equal(t, canchi.NewPair(canchi.Canh, canchi.Dan), info.CanChi.Day)
	assert.True(t, info.CurrentHourHoangDao)

	cal.Clock = MockClock{CurrentTime: time.Date(2025, time.January, 21, 12, 0, 0, 0, time.UTC)}
	info, err = cal.Today(context.Background())
	require.NoError(t, err)
	assert.False(t, info.CurrentHourHoangDao, "Ngọ is not auspicious on a Dần day")
}

// -----------------------------------------------------------------------------
// Feed
// -----------------------------------------------------------------------------

func uidLines(ics string) []string {
	var uids []string
	for _, line := range strings.Split(ics, "\r\n") {
		if strings.HasPrefix(line, "UID:") {
			uids = append(uids, line)
		}
	}
	sort.Strings(uids)
	return uids
}

func TestFeed_2025(t *testing.T) {
	stamp := time.Date(2025, time.January, 1, 10, 0, 0, 0, time.UTC)
	gen := &engine.Generator{
		Clock:    MockClock{CurrentTime: stamp},
		Calendar: newCalendar(nil),
	}

	data, err := gen.Feed(context.Background(), 2025)
	require.NoError(t, err)
	ics := string(data)

	assert.Contains(t, ics, "BEGIN:VCALENDAR", "Should start with VCALENDAR")
	// 24 term boundaries, 12 first days and 12 full-moon days.
	assert.Equal(t, 48, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Equal(t, 24, strings.Count(ics, "CATEGORIES:TIET-KHI"))
	assert.Equal(t, 12, strings.Count(ics, "CATEGORIES:MUNG-1"))
	assert.Equal(t, 12, strings.Count(ics, "CATEGORIES:RAM"))

	assert.Contains(t, ics, "SUMMARY:Tiết Lập Xuân")
	assert.Contains(t, ics, "SUMMARY:Mùng 1 tháng Giêng")
	assert.Contains(t, ics, "SUMMARY:Mùng 1 tháng Sáu nhuận")
	assert.Contains(t, ics, "SUMMARY:Rằm tháng Sáu nhuận")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250129")
	assert.Contains(t, ics, "DTSTAMP:20250101T100000Z")
}

func TestFeed_StableUIDs(t *testing.T) {
	newGen := func(now time.Time) *engine.Generator {
		return &engine.Generator{Clock: MockClock{CurrentTime: now}, Calendar: newCalendar(nil)}
	}

	first, err := newGen(date(2025, time.January, 1)).Feed(context.Background(), 2026)
	require.NoError(t, err)
	second, err := newGen(date(2025, time.June, 1)).Feed(context.Background(), 2026)
	require.NoError(t, err)

	uids := uidLines(string(first))
	require.NotEmpty(t, uids)
	assert.Equal(t, uids, uidLines(string(second)), "UIDs do not depend on generation time")

	seen := map[string]bool{}
	for _, uid := range uids {
		assert.False(t, seen[uid], "Duplicate %s", uid)
		seen[uid] = true
	}
}

func TestFeed_Errors(t *testing.T) {
	gen := &engine.Generator{Clock: engine.RealClock{}, Calendar: newCalendar(nil)}

	_, err := gen.Feed(context.Background(), 2200)
	assert.ErrorIs(t, err, lunar.ErrOutOfRange)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = gen.Feed(ctx, 2025)
	assert.ErrorIs(t, err, context.Canceled)
}
