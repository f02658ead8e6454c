package fastoverlay

import (
	"charm.land/log/v2"
)

// defaultLogger returns the process logger used when none is injected.
func defaultLogger() *log.Logger {
	return log.Default().WithPrefix("fastoverlay")
}

func loggerOr(l *log.Logger) *log.Logger {
	if l == nil {
		return defaultLogger()
	}
	return l
}
