package format_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-amlich/internal/astro"
	"github.com/tartampluch/go-amlich/internal/canchi"
	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/format"
	"github.com/tartampluch/go-amlich/internal/lunar"
)

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Giêng", format.MonthName(1, false))
	assert.Equal(t, "Tư", format.MonthName(4, false))
	assert.Equal(t, "Sáu nhuận", format.MonthName(6, true))
	assert.Equal(t, "Chạp", format.MonthName(12, false))
	assert.Equal(t, "13", format.MonthName(13, false))
}

func TestLunarShort(t *testing.T) {
	assert.Equal(t, "1/1", format.LunarShort(lunar.LunarDate{Day: 1, Month: 1, Year: 2025}))
	assert.Equal(t, "1/6 (N)", format.LunarShort(lunar.LunarDate{Day: 1, Month: 6, Year: 2025, IsLeapMonth: true}))
}

func TestLunarLong(t *testing.T) {
	assert.Equal(t, "Ngày 1 tháng Giêng năm Ất Tỵ",
		format.LunarLong(lunar.LunarDate{Day: 1, Month: 1, Year: 2025}))
	assert.Equal(t, "Ngày 29 tháng Chạp năm Giáp Thìn",
		format.LunarLong(lunar.LunarDate{Day: 29, Month: 12, Year: 2024}))
	assert.Equal(t, "Ngày 15 tháng Sáu nhuận năm Ất Tỵ",
		format.LunarLong(lunar.LunarDate{Day: 15, Month: 6, Year: 2025, IsLeapMonth: true}))
}

func TestFullCanChi(t *testing.T) {
	cc := canchi.New(lunar.NewConverter(astro.New(config.VietnamTimeZone)))
	dc, err := cc.FullDay(time.Date(2025, time.January, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "Ngày Mậu Tuất, tháng Mậu Dần, năm Ất Tỵ", format.FullCanChi(dc))
	assert.Equal(t, "Mậu Tuất", format.CanChi(dc.Day))
}

func TestYearInfo(t *testing.T) {
	assert.Equal(t, "Ất Tỵ 🐍 (Rắn)", format.YearInfo(canchi.YearInfoOf(2025)))
	assert.Equal(t, "Giáp Thìn 🐉 (Rồng)", format.YearInfo(canchi.YearInfoOf(2024)))
}

func TestDayKey(t *testing.T) {
	hanoi := time.FixedZone("ICT", 7*3600)
	// 20:00 UTC on the 28th is already the 29th in Hanoi.
	t0 := time.Date(2025, time.January, 28, 20, 0, 0, 0, time.UTC).In(hanoi)
	assert.Equal(t, "2025-01-29", format.DayKey(t0))
}
