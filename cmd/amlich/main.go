package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/tartampluch/go-amlich/internal/config"
	"github.com/tartampluch/go-amlich/internal/engine"
	"github.com/tartampluch/go-amlich/internal/i18n"
	"github.com/tartampluch/go-amlich/internal/score"
)

// options holds the parsed command line.
type options struct {
	date    string
	lang    string
	weights string
	records string
	icsYear int
}

// main delegates to runMain so deferred calls run before os.Exit.
func main() {
	os.Exit(runMain())
}

// runMain manages argument parsing, logging and exit codes.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	var opts options
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	flag.StringVar(&opts.date, config.FlagDate, "", config.FlagDescDate)
	flag.StringVar(&opts.lang, config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	flag.StringVar(&opts.weights, config.FlagWeights, "", config.FlagDescWeights)
	flag.StringVar(&opts.records, config.FlagRecords, "", config.FlagDescRecords)
	flag.IntVar(&opts.icsYear, config.FlagICS, 0, config.FlagDescICS)
	flag.Parse()

	if *showVersion {
		printVersion(os.Stdout)
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	// The root context cancels on SIGINT (Ctrl+C) or SIGTERM; a long feed stops at the next month.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx, opts, engine.RealClock{}, os.Stdout); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run wires the calendar and writes either the day description (JSON) or the
// iCalendar feed of a year to out.
func run(ctx context.Context, opts options, clock engine.Clock, out io.Writer) error {
	// 1. Scoring Weights
	// The embedded table applies unless a file overrides it.
	weights := score.DefaultWeights()
	if opts.weights != "" {
		w, err := score.LoadWeights(opts.weights)
		if err != nil {
			return err
		}
		weights = w
	}

	// 2. Dependency Injection
	cal := engine.NewVietnamCalendar(weights)
	cal.Clock = clock
	cal.Labels = i18n.New(opts.lang)
	// Without records the day is described but never scored.
	if opts.records != "" {
		src, err := score.LoadRecords(opts.records)
		if err != nil {
			return err
		}
		cal.Records = src
	}

	// 3a. Output: iCalendar feed of a year
	if opts.icsYear != 0 {
		gen := &engine.Generator{Clock: clock, Calendar: cal}
		data, err := gen.Feed(ctx, opts.icsYear)
		if err != nil {
			return err
		}
		if _, err := out.Write(data); err != nil {
			return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
		}
		return nil
	}

	// 3b. Output: one day as JSON (today by default)
	var (
		info engine.DayInfo
		err  error
	)
	if opts.date == "" {
		info, err = cal.Today(ctx)
	} else {
		var t time.Time
		// The date is read as a local calendar day.
		t, err = time.ParseInLocation(config.DateKeyFormat, opts.date, time.Local)
		if err != nil {
			return fmt.Errorf("%s: %w", config.ErrDateParse, err)
		}
		info, err = cal.Day(ctx, t)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", config.JSONIndent)
	if err := enc.Encode(info); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteOutput, err)
	}
	return nil
}

// printVersion outputs the build information injected at link time.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		config.Commit,
		config.Date,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyCommit, config.Commit),
			slog.String(config.LogKeyBuildDate, config.Date),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger. Logs go to stderr, since
// stdout carries the command's output, and to a file in the user's cache directory.
func setupLogging(debugMode bool) io.Closer {
	writers := []io.Writer{os.Stderr}
	var logFile *os.File

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
