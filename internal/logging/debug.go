package logging

import (
	"io"
	"os"

	log "github.com/sirupsen/logrus"
)

var logger = newLogger(os.Stderr)

func newLogger(out io.Writer) *log.Logger {
	l := log.New()
	l.SetOutput(out)
	l.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	l.SetLevel(log.WarnLevel)
	return l
}

// DebugEnabled returns true if debug mode is enabled via KB_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv("KB_DEBUG") != "" || logger.IsLevelEnabled(log.DebugLevel)
}

// SetVerbose raises the log level to debug when verbose output is requested.
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
		return
	}
	logger.SetLevel(log.WarnLevel)
}

// SetOutput redirects log output.
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

// Logger returns the shared logger.
func Logger() *log.Logger {
	return logger
}

// WithFields returns an entry carrying structured fields. Entries only print
// at debug level when debug mode is enabled.
func WithFields(fields log.Fields) *log.Entry {
	syncLevel()
	return logger.WithFields(fields)
}

// Debugf prints a formatted debug message only if debug mode is enabled
func Debugf(format string, args ...interface{}) {
	if DebugEnabled() {
		syncLevel()
		logger.Debugf(format, args...)
	}
}

// Debugln prints a debug message only if debug mode is enabled
func Debugln(args ...interface{}) {
	if DebugEnabled() {
		syncLevel()
		logger.Debugln(args...)
	}
}

// Warnf always prints.
func Warnf(format string, args ...interface{}) {
	logger.Warnf(format, args...)
}

func syncLevel() {
	if os.Getenv("KB_DEBUG") != "" && !logger.IsLevelEnabled(log.DebugLevel) {
		logger.SetLevel(log.DebugLevel)
	}
}
