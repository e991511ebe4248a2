package bootstrap

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

type LoggerOptions struct {
	Environment string
	Level       string
	File        string
	Service     string
	Version     string
}

// NewLogger builds the process logger: console output in development, JSON
// otherwise, and a rotated copy in File when set. It also becomes the
// fallback for zerolog.Ctx on contexts without a logger.
func NewLogger(opt LoggerOptions) zerolog.Logger {
	level, err := zerolog.ParseLevel(opt.Level)
	if err != nil || opt.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if opt.Environment == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	if opt.File != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   opt.File,
			MaxSize:    100, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	logger := zerolog.New(out).With().
		Timestamp().
		Str("service", opt.Service).
		Str("version", opt.Version).
		Logger()

	zerolog.DefaultContextLogger = &logger
	return logger
}
