// Package logger provides the process-wide structured logger. It mirrors
// the logrus-based logging idiom used across this domain's stack, but with
// its own environment-variable namespace and formatter-selection rules.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide structured logger, set by Init. Code that
// does not receive a *logrus.Logger via constructor injection should call
// Get() rather than read this directly.
var Logger *logrus.Logger

// Init builds and installs the process-wide logger. An explicit level
// argument wins over the RACESIM_LOG_LEVEL environment variable, which in
// turn wins over a development/production default.
func Init(level string, development bool) *logrus.Logger {
	log := logrus.New()
	log.SetLevel(resolveLevel(log, level, development))
	log.SetFormatter(resolveFormatter(development))
	log.SetOutput(os.Stdout)
	Logger = log
	return log
}

func resolveLevel(log *logrus.Logger, requested string, development bool) logrus.Level {
	if requested == "" {
		requested = os.Getenv("RACESIM_LOG_LEVEL")
	}
	if requested == "" {
		if development {
			return logrus.DebugLevel
		}
		return logrus.InfoLevel
	}

	parsed, err := logrus.ParseLevel(strings.ToLower(requested))
	if err != nil {
		log.WithField("requested_level", requested).Warn("unrecognised log level, defaulting to info")
		return logrus.InfoLevel
	}
	return parsed
}

// resolveFormatter picks JSON in production (so log lines are ingestible
// by a log aggregator) and a colorized text formatter in development,
// unless RACESIM_LOG_FORMAT overrides the choice explicitly.
func resolveFormatter(development bool) logrus.Formatter {
	want := strings.ToLower(strings.TrimSpace(os.Getenv("RACESIM_LOG_FORMAT")))
	if want == "" {
		if development {
			want = "text"
		} else {
			want = "json"
		}
	}

	if want == "text" {
		return &logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
			ForceColors:     development,
		}
	}
	return &logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	}
}

// Get returns the process-wide logger, lazily installing a production
// default if Init has not been called (e.g. in package-level test helpers).
func Get() *logrus.Logger {
	if Logger == nil {
		return Init("", false)
	}
	return Logger
}

// WithRun scopes log, an already-constructed logger (usually one a
// component received via dependency injection rather than the package
// global), to a single simulation run: the context every
// orchestrator-originated log line carries (spec §4.8).
func WithRun(log *logrus.Logger, runID string) *logrus.Entry {
	return log.WithField("run_id", runID)
}

// WithFactorSource scopes log to a variation-factor fetch, tagging which
// upstream produced the factor list (spec §6: "llm" | "heuristic" | an
// opaque string).
func WithFactorSource(log *logrus.Logger, source string) *logrus.Entry {
	return log.WithField("factor_source", source)
}
