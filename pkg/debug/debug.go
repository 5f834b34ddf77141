// Package debug provides logging for treegrid.
//
// Debug logging is enabled by setting the TREEGRID_DEBUG environment
// variable:
//
//	TREEGRID_DEBUG=1 treegrid dump records.jsonl
//
// When enabled, debug messages are written to stderr through a zerolog
// console writer. When disabled (default) the package-level helpers are
// no-ops; component loggers still honour the global level configured by
// Setup.
//
// Usage:
//
//	import "github.com/vanderheijden86/treegrid/pkg/debug"
//
//	func myFunc() {
//	    debug.Log("processing %d records", count)
//	    defer debug.LogEnterExit("myFunc")()
//	}
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EnvVar enables debug output when set to any non-empty value.
const EnvVar = "TREEGRID_DEBUG"

var (
	// enabled is true when TREEGRID_DEBUG is set or SetEnabled(true) was called
	enabled bool
	// logger is the debug sink, a console writer on stderr
	logger zerolog.Logger
)

func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = zerolog.New(io.Discard)
	if os.Getenv(EnvVar) != "" {
		SetEnabled(true)
	}
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	return enabled
}

// SetEnabled allows programmatic control of debug logging.
func SetEnabled(e bool) {
	enabled = e
	if !e {
		return
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000000"}).
		With().
		Timestamp().
		Str("cmp", "debug").
		Logger()
	log.Logger = logger
}

// Setup configures the global logger. JSON lines go to file when it is set,
// otherwise to stderr. The returned closer releases the file.
//
// The level parameter can be one of: debug, info, warn, error, fatal.
func Setup(level, file string) (func(), error) {
	closer := func() {}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return closer, fmt.Errorf("parse log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	if enabled {
		lvl = zerolog.DebugLevel
	}

	var w io.Writer = os.Stderr
	if file != "" {
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return closer, fmt.Errorf("create logs dir: %w", err)
		}
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closer, fmt.Errorf("open log file: %w", err)
		}
		closer = func() { _ = f.Close() }
		w = f
	}

	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(w).With().Timestamp().Logger().Level(lvl)
	if enabled {
		logger = log.Logger
	}
	return closer, nil
}

// Component creates a logger with a component identifier under the "cmp"
// key. It reads the global logger at call time, so call it after Setup.
func Component(name string) zerolog.Logger {
	return log.With().Str("cmp", name).Logger()
}

// Log writes a debug message if debug logging is enabled.
// Uses printf-style formatting.
func Log(format string, args ...any) {
	if !enabled {
		return
	}
	logger.Debug().Msgf(format, args...)
}

// LogTiming writes a timing message if debug logging is enabled.
func LogTiming(name string, d time.Duration) {
	if !enabled {
		return
	}
	logger.Debug().Str("op", name).Dur("took", d).Msg("timing")
}

// LogIf writes a debug message only if the condition is true.
func LogIf(cond bool, format string, args ...any) {
	if !enabled || !cond {
		return
	}
	logger.Debug().Msgf(format, args...)
}

// LogEnterExit logs function entry and exit with timing.
// Usage:
//
//	func myFunc() {
//	    defer debug.LogEnterExit("myFunc")()
//	    // ...
//	}
func LogEnterExit(name string) func() {
	if !enabled {
		return func() {}
	}
	logger.Debug().Msgf("-> %s", name)
	start := time.Now()
	return func() {
		logger.Debug().Dur("took", time.Since(start)).Msgf("<- %s", name)
	}
}

// Dump logs a value with its type for debugging complex structures.
func Dump(name string, v any) {
	if !enabled {
		return
	}
	logger.Debug().Msgf("%s: %T = %+v", name, v, v)
}

// Assert logs a message and panics if the condition is false.
// Only active when debug is enabled.
func Assert(cond bool, msg string) {
	if !enabled {
		return
	}
	if !cond {
		logger.Error().Msgf("ASSERTION FAILED: %s", msg)
		panic(fmt.Sprintf("debug assertion failed: %s", msg))
	}
}
