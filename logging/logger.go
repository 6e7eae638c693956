package logging

import (
	"sync"

	"sysyc/report"
)

// Logger is a type that is responsible for storing and logging output from the
// compiler as necessary
type Logger struct {
	errorCount int // Total encountered errors
	LogLevel   int

	// warnings is a list of all warnings to be logged at the end of compilation
	warnings []LogMessage

	// m is the mutex used to synchonize the printing of messages
	m *sync.Mutex
}

// Enumeration of the different log levels
const (
	LogLevelSilent  = iota // no output at all
	LogLevelError          // only errors
	LogLevelWarning        // errors and warnings
	LogLevelVerbose        // errors, warnings, phase progress and closing message (DEFAULT)
)

// LogContext identifies the source file a message refers to.
type LogContext struct {
	FilePath string
}

// LogMessage is a message that the logger can display.
type LogMessage interface {
	display()
	isError() bool
}

// CompileMessage is an error or warning produced while compiling a file.
type CompileMessage struct {
	Context *LogContext
	Kind    report.Kind
	Message string
	Span    *report.TextSpan
	IsError bool
}

func (cm *CompileMessage) isError() bool {
	return cm.IsError
}

// ConfigError is an error in the compiler's configuration or invocation.
type ConfigError struct {
	Kind    string
	Message string
}

func (ce *ConfigError) isError() bool {
	return true
}

// ConfigWarning is a warning about the compiler's configuration.
type ConfigWarning struct {
	Kind    string
	Message string
}

func (cw *ConfigWarning) isError() bool {
	return false
}

// newLogger creates a new logger struct
func newLogger(loglevel int) Logger {
	return Logger{
		LogLevel: loglevel,
		m:        &sync.Mutex{},
	}
}

// handleMsg prompts to logger to process a message.  The mutex keeps messages
// from interleaving if they are logged concurrently.
func (l *Logger) handleMsg(lm LogMessage) {
	l.m.Lock()
	defer l.m.Unlock()

	if lm.isError() {
		l.errorCount++

		if l.LogLevel > LogLevelSilent {
			displayEndPhase(false)
			lm.display()
		}
	} else {
		l.warnings = append(l.warnings, lm)
	}
}
