package logging

import (
	"errors"

	"sysyc/report"
)

// logger is a global reference to a shared Logger (created/initialized with the
// compiler, but separated for general usage)
var logger = newLogger(LogLevelVerbose)

// Initialize initializes the global logger with the provided log level
func Initialize(loglevelname string) {
	prev := logger
	logger = newLogger(ParseLogLevel(loglevelname))

	// messages logged before initialization (eg. while loading the config)
	// still count
	logger.errorCount = prev.errorCount
	logger.warnings = prev.warnings
}

// ParseLogLevel converts a log level name into its enumerated value.
// Everything else (including invalid log levels) defaults to verbose.
func ParseLogLevel(loglevelname string) int {
	switch loglevelname {
	case "silent":
		return LogLevelSilent
	case "error":
		return LogLevelError
	case "warn", "warning":
		return LogLevelWarning
	default:
		return LogLevelVerbose
	}
}

// ShouldProceed indicates whether or not the log module has encountered an errors.
func ShouldProceed() bool {
	return logger.errorCount == 0
}

// -----------------------------------------------------------------------------
// NOTE: All log functions will only display if the appropriate log level is
// set.  Most log functions will simply fail silently if below their appropriate
// log level.

// LogCompileError logs a compilation error (user-induced, bad code).  If err
// is a report.CompileError, its kind and span are used for the display.
func LogCompileError(lctx *LogContext, err error) {
	msg := &CompileMessage{
		Context: lctx,
		Message: err.Error(),
		IsError: true,
	}

	var cerr *report.CompileError
	if errors.As(err, &cerr) {
		msg.Kind = cerr.Kind
		msg.Message = cerr.Message
		msg.Span = cerr.Span
	}

	logger.handleMsg(msg)
}

// LogCompileWarning logs a compilation warning (user-induced, problematic code)
func LogCompileWarning(lctx *LogContext, kind report.Kind, message string, span *report.TextSpan) {
	logger.handleMsg(&CompileMessage{
		Context: lctx,
		Kind:    kind,
		Message: message,
		Span:    span,
		IsError: false,
	})
}

// LogConfigError logs an error related to project or compiler configuration
func LogConfigError(kind, message string) {
	logger.handleMsg(&ConfigError{Kind: kind, Message: message})
}

// LogConfigWarning logs a warning related to compiler configuration
func LogConfigWarning(kind, message string) {
	logger.handleMsg(&ConfigWarning{Kind: kind, Message: message})
}

// LogFatal logs a fatal compilation error that was not expected: ie. the
// compiler did something it wasn't supposed to.
func LogFatal(message string) {
	logger.m.Lock()
	defer logger.m.Unlock()

	logger.errorCount++
	displayEndPhase(false)
	displayFatalError(message)
}

// -----------------------------------------------------------------------------

// BeginPhase displays the start of a compilation phase.
func BeginPhase(phase string) {
	if logger.LogLevel == LogLevelVerbose {
		displayBeginPhase(phase)
	}
}

// EndPhase concludes the current compilation phase.
func EndPhase() {
	if logger.LogLevel == LogLevelVerbose {
		displayEndPhase(ShouldProceed())
	}
}

// LogCompilationFinished displays all deferred warnings and the concluding
// message for compilation.
func LogCompilationFinished(outputPath string) {
	logger.m.Lock()
	defer logger.m.Unlock()

	if logger.LogLevel >= LogLevelWarning {
		for _, warning := range logger.warnings {
			warning.display()
		}
	}

	if logger.LogLevel == LogLevelVerbose {
		displayCompilationFinished(logger.errorCount == 0, logger.errorCount, len(logger.warnings), outputPath)
	}
}
