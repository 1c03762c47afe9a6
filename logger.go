package canopy

import (
	"io"

	"github.com/charmbracelet/log"
)

// logger receives debug warnings and frame statistics. It discards everything
// until SetLogger installs a real one.
var logger = newDiscardLogger()

func newDiscardLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Prefix: "canopy"})
}

// SetLogger installs l as the package logger. Passing nil restores the silent
// default.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = newDiscardLogger()
	}
	logger = l
}

// Logger returns the current package logger.
func Logger() *log.Logger {
	return logger
}
