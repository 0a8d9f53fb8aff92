package logging

import (
	"github.com/charmbracelet/log"

	"github.com/yaklabco/jnav/pkg/jnav"
)

// Tracer adapts logger to a navigator trace hook that logs each event at
// debug level. It returns nil when debug logging is disabled so the
// navigator skips tracing entirely.
func Tracer(logger *log.Logger) jnav.TraceFunc {
	if logger == nil || logger.GetLevel() > log.DebugLevel {
		return nil
	}

	return func(event string, keyvals ...any) {
		logger.Debug(event, keyvals...)
	}
}
