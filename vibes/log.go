package vibes

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const SourceLogFieldName = "src"

func init() {
	zerolog.DurationFieldInteger = false
	zerolog.DurationFieldUnit = time.Millisecond
	zerolog.MessageFieldName = "msg"
	zerolog.LevelFieldName = "lvl"
	zerolog.TimestampFieldName = "tm"
}

func newLogger(level string, out io.Writer) (zerolog.Logger, error) {
	if level == "" {
		return zerolog.Nop(), nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if out == nil {
		out = os.Stderr
	}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// ChildLogger returns a logger tagged with src that shares the engine's
// output and level.
func (e *Engine) ChildLogger(src string) zerolog.Logger {
	return e.baseLog.With().Str(SourceLogFieldName, src).Logger()
}
