package logging

import (
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/holoscene/simgate/internal/observability"
)

const (
	EnvLogLevel     = "SIMGATE_LOG_LEVEL"
	EnvLogTimestamp = "SIMGATE_LOG_TIMESTAMP"
	EnvLogNoColor   = "SIMGATE_LOG_NOCOLOR"
)

type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

var configureOnce sync.Once

func ConfigureRuntime() {
	Configure(ProfileRuntime)
}

func ConfigureTests() {
	Configure(ProfileTest)
}

// Configure installs the global logger once per process. Later calls
// are no-ops so tests and main cannot fight over the configuration.
func Configure(profile Profile) {
	configureOnce.Do(func() {
		o := defaultOptions(profile)
		applyEnvOverrides(&o)
		zerolog.SetGlobalLevel(o.level)
		observability.InitLogger("simgate", o.noColor, o.timestamp)
	})
}

type options struct {
	level     zerolog.Level
	timestamp bool
	noColor   bool
}

func defaultOptions(profile Profile) options {
	switch profile {
	case ProfileTest:
		return options{level: zerolog.DebugLevel, timestamp: false, noColor: true}
	default:
		return options{level: zerolog.InfoLevel, timestamp: true, noColor: false}
	}
}

func applyEnvOverrides(o *options) {
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		o.level = lvl
	}
	if v, ok := parseBool(os.Getenv(EnvLogTimestamp)); ok {
		o.timestamp = v
	}
	if v, ok := parseBool(os.Getenv(EnvLogNoColor)); ok {
		o.noColor = v
	}
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func parseBool(raw string) (bool, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
