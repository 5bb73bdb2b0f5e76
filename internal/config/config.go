package config

import (
	"io/fs"
	"time"
)

// -----------------------------------------------------------------------------
// Build Information
// -----------------------------------------------------------------------------

// Build variables are injected via -ldflags.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// -----------------------------------------------------------------------------
// Application Constants
// -----------------------------------------------------------------------------

const (
	AppName     = "Go Am Lich"
	AppID       = "com.github.tartampluch.go-amlich"
	LogFileName = "app.log"
)

// -----------------------------------------------------------------------------
// Exit Codes
// -----------------------------------------------------------------------------

const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// -----------------------------------------------------------------------------
// System & File Permissions
// -----------------------------------------------------------------------------

const (
	// FilePermUserRW represents -rw------- (Read/Write for owner only).
	FilePermUserRW fs.FileMode = 0600

	// DirPermUserRWX represents drwx------ (Read/Write/Exec for owner only).
	DirPermUserRWX fs.FileMode = 0700
)

// -----------------------------------------------------------------------------
// CLI Flags & Descriptions
// -----------------------------------------------------------------------------

const (
	FlagVersion      = "version"
	FlagDebug        = "debug"
	FlagDate         = "date"
	FlagLang         = "lang"
	FlagWeights      = "weights"
	FlagRecords      = "records"
	FlagICS          = "ics"
	FlagDescVersion  = "Show application version and exit"
	FlagDescDebug    = "Enable debug logging to stderr"
	FlagDescDate     = "Solar date to describe (YYYY-MM-DD), defaults to today"
	FlagDescLang     = "Language used for quality labels (vi, en)"
	FlagDescWeights  = "Path to a YAML day-quality weight table"
	FlagDescRecords  = "Path to a YAML/JSON file of per-day feng-shui records"
	FlagDescICS      = "Write the iCalendar feed of the given year to stdout"
	MsgVersionOutput = "%s version %s (commit %s, built %s) (%s/%s)\n"
	JSONIndent       = "  "
)

// -----------------------------------------------------------------------------
// Calendar Domain
// -----------------------------------------------------------------------------

const (
	// VietnamTimeZone is the UTC offset (hours) the lunar calendar is computed in.
	VietnamTimeZone = 7.0

	// Supported solar years (inclusive).
	MinSupportedYear = 1900
	MaxSupportedYear = 2199
	// TermYearMargin extends solar-term reporting past each end of the range so
	// the first and last supported days still have a current and a next term.
	TermYearMargin = 1

	// Cycle lengths.
	StemCount       = 10
	BranchCount     = 12
	SexagenaryCycle = 60
	ElementCount    = 5
	SolarTermCount  = 24
	HoursPerDay     = 12

	// YearCycleOffset aligns the Gregorian year with the stem/branch cycle (year 4 = Giáp Tý).
	YearCycleOffset = 4

	// HoangDaoGroups is the number of day-branch groups in the auspicious-hour table.
	HoangDaoGroups = 6

	// TyPeriodStartHour is the wall-clock hour the Tý period, and the next
	// day's hours, begin at.
	TyPeriodStartHour = 23

	// ShortHoursLimit is how many auspicious ranges FormatShort keeps.
	ShortHoursLimit = 3
	HoursSeparator  = ", "

	// FullMoonDay is the lunar day of "Rằm".
	FullMoonDay = 15
)

const (
	// DateKeyFormat is the key used by the external per-day record data set.
	DateKeyFormat   = "2006-01-02"
	TimeRangeFormat = "%02d:00-%02d:00"
)

// -----------------------------------------------------------------------------
// Formatting
// -----------------------------------------------------------------------------

const (
	FormatLunarShort     = "%d/%d"
	FormatLunarShortLeap = "%d/%d (N)"
	FormatLunarLong      = "Ngày %d tháng %s năm %s"
	FormatLeapMonth      = "%s nhuận"
	FormatFullCanChi     = "Ngày %s, tháng %s, năm %s"
	FormatYearInfo       = "%s %s (%s)"
)

// -----------------------------------------------------------------------------
// Day Quality
// -----------------------------------------------------------------------------

const (
	ScoreMin = 0
	ScoreMax = 100

	// Factor names reported in a DayScore breakdown.
	FactorBase         = "base"
	FactorGood         = "good_activities"
	FactorBad          = "bad_activities"
	FactorElement      = "element_match"
	FactorHours        = "hoang_dao_hours"
	FactorTermDay      = "term_day"
	CurrentWeightsVers = 1
)

// -----------------------------------------------------------------------------
// Translation Keys (I18n)
// -----------------------------------------------------------------------------

const (
	TKeyQualityExcellent = "quality_excellent"
	TKeyQualityGood      = "quality_good"
	TKeyQualityNormal    = "quality_normal"
	TKeyQualityBad       = "quality_bad"
	TKeyQualityVeryBad   = "quality_very_bad"
)

// SupportedLanguages defines the list of available label languages (ISO 639-1).
var SupportedLanguages = []string{"vi", "en"}

const DefaultLanguage = "vi"

// -----------------------------------------------------------------------------
// Standards: iCalendar
// -----------------------------------------------------------------------------

const (
	ICalVersion = "2.0"
	ICalProdid  = "-//Go Am Lich//Engine//VI"
	ICalCalName = "Âm lịch"
	ICalMethod  = "PUBLISH"
	ICalScale   = "GREGORIAN"
	ICalDomain  = "goamlich"

	PropUID         = "UID"
	PropSummary     = "SUMMARY"
	PropDescription = "DESCRIPTION"
	PropDTStart     = "DTSTART"
	PropDTStamp     = "DTSTAMP"
	PropCategories  = "CATEGORIES"
	PropRefresh     = "REFRESH-INTERVAL"
	PropVersion     = "VERSION"
	PropProdid      = "PRODID"
	PropXWRCalName  = "X-WR-CALNAME"
	PropCalScale    = "CALSCALE"
	PropMethod      = "METHOD"

	CategorySolarTerm = "TIET-KHI"
	CategoryNewMoon   = "MUNG-1"
	CategoryFullMoon  = "RAM"

	SummaryNewMoon   = "Mùng 1 tháng %s"
	SummaryFullMoon  = "Rằm tháng %s"
	SummarySolarTerm = "Tiết %s"

	DefaultICalRefresh = 24 * time.Hour

	// UID Generation
	UIDSalt         = "go-amlich-v1-"
	UIDHashLength   = 16
	FormatHashInput = "%s|%s|%s"
	FormatUID       = "%s-%s@%s"

	// StubVCalendar is the minimal valid iCalendar object used when no events are found.
	StubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + ICalProdid + "\r\nEND:VCALENDAR\r\n"
)

// -----------------------------------------------------------------------------
// Error Messages (Technical/Logs)
// -----------------------------------------------------------------------------

const (
	ErrDateOutOfRange   = "date outside supported conversion range"
	ErrInvalidLunarDate = "lunar date does not exist"
	ErrNamingGap        = "raw cyclical symbol has no Vietnamese name"
	ErrNoTerm           = "no solar term boundary near date"
	ErrMissingRecord    = "no feng-shui record for date"
	ErrInvalidWeights   = "invalid day-quality weight table"
	ErrWeightsRead      = "failed to read weight table"
	ErrWeightsParse     = "failed to parse weight table"
	ErrRecordsRead      = "failed to read feng-shui records"
	ErrRecordsParse     = "failed to parse feng-shui records"
	ErrUnknownQuality   = "unknown day quality"
	ErrICalEncode       = "failed to encode iCalendar data"
	ErrDateParse        = "unable to parse date"
	ErrLogFile          = "failed to open log file"
	ErrCacheDir         = "could not determine user cache dir"
	ErrCreateDir        = "could not create app cache dir"
	ErrAppFailed        = "application failed unexpectedly"
	ErrWriteOutput      = "failed to write output"
	ErrLocalesAccess    = "failed to access embedded locales"
	ErrLocaleLoad       = "failed to load locale file"
)

// -----------------------------------------------------------------------------
// Log Messages
// -----------------------------------------------------------------------------

const (
	MsgAppStarting   = "Starting application"
	MsgAppStop       = "Application stopped gracefully"
	MsgNamingGap     = "Raw cyclical symbol passed through unmapped"
	MsgRecordMissing = "No feng-shui record, day score skipped"
	MsgDayComputed   = "Day computed"
	MsgDayScored     = "Day scored"
	MsgFeedStarted   = "Feed generation started"
	MsgFeedSuccess   = "Feed generation successful"
	MsgWeightsLoaded = "Weight table loaded"
	MsgRecordsLoaded = "Feng-shui records loaded"
	MsgTermCacheMiss = "Solar-term month window computed"
	MsgLocaleSkip    = "Skipping non-locale file"
	MsgLocaleBadName = "Skipping malformed locale filename"
	MsgLocaleLoaded  = "Locale loaded successfully"
	MsgLangFallback  = "Unsupported language, using default"
	MsgTransMissing  = "Missing translation key"
	MsgLogWarning    = "Warning: %s at %s: %v\n"
)

// -----------------------------------------------------------------------------
// Structured Logging Keys (slog)
// -----------------------------------------------------------------------------

const (
	LogKeyComponent = "component"
	LogKeyError     = "error"
	LogKeyFile      = "file"
	LogKeyLang      = "lang"
	LogKeyKey       = "key"
	LogKeyRaw       = "raw"
	LogKeyDate      = "date"
	LogKeyYear      = "year"
	LogKeyMonth     = "month"
	LogKeyCount     = "count"
	LogKeyScore     = "score"
	LogKeyQuality   = "quality"
	LogKeyVersion   = "version"
	LogKeyEvents    = "events"
	LogKeyDuration  = "duration_ms"
	LogKeyStats     = "stats"
	LogKeyDays      = "days"
	LogKeyTerms     = "terms"
	LogKeyNewMoons  = "new_moons"
	LogKeyFullMoons = "full_moons"

	// Startup Info Keys
	LogKeyBuild     = "build"
	LogKeyApp       = "app"
	LogKeyCommit    = "commit"
	LogKeyBuildDate = "date"
	LogKeyGoVer     = "go_version"
	LogKeyEnv       = "env"
	LogKeyOS        = "os"
	LogKeyArch      = "arch"
	LogKeyPID       = "pid"
)

// -----------------------------------------------------------------------------
// Log Components
// -----------------------------------------------------------------------------

const (
	CompMain    = "main"
	CompEngine  = "engine"
	CompFeed    = "feed"
	CompCanChi  = "canchi"
	CompTietKhi = "tietkhi"
	CompScore   = "score"
	CompI18n    = "i18n"
)
