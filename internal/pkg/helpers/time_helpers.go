package helpers

import (
	"strings"
	"time"

	"github.com/minilms/minilms/internal/pkg/logger"
)

// ParseDuration parses a duration string and falls back to def when the
// string is empty, malformed or not positive.
func ParseDuration(durationStr string, def time.Duration) time.Duration {
	durationStr = strings.TrimSpace(durationStr)
	if durationStr == "" {
		return def
	}
	duration, err := time.ParseDuration(durationStr)
	if err != nil || duration <= 0 {
		logger.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", def).Msg("Failed to parse duration string, using default")
		return def
	}
	return duration
}
