package log

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// InitLogger builds the process logger once. An empty filepath logs to stdout only.
func InitLogger(filepath string) zerolog.Logger {
	once.Do(func() {
		logger = NewLogger(filepath, os.Stdout)
		logger.Info().
			Str(KeyTag, "InitLogger").
			Str(KeyProcess, "InitLogger").
			Msg("finish initiating logging")
	})
	return logger
}

func NewLogger(filepath string, stdout io.Writer) zerolog.Logger {
	zerolog.DurationFieldUnit = time.Microsecond
	zerolog.ErrorFieldName = "error"
	zerolog.ErrorStackFieldName = "stack-trace"
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.LevelFieldName = "level"
	zerolog.MessageFieldName = "message"
	zerolog.TimestampFieldName = "timestamp"

	writers := []io.Writer{stdout}
	if filepath != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename: filepath,
			MaxSize:  100,
			Compress: true,
		})
	}
	output := zerolog.MultiLevelWriter(writers...)

	return zerolog.New(output).
		Level(zerolog.InfoLevel).
		Hook(AttachTraceIdFromContext()).
		With().
		Timestamp().
		Caller().
		Stack().
		Int("pid", os.Getpid()).
		Int("gid", os.Getgid()).
		Int("uid", os.Getuid()).
		Logger()
}

func LevelForEnv(env string) zerolog.Level {
	if env == "development" {
		return zerolog.TraceLevel
	}
	return zerolog.InfoLevel
}
