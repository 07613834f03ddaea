package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
	gormlogger "gorm.io/gorm/logger"
)

// Config selects the level and the optional rotating log file.
type Config struct {
	Level   string
	File    string
	Pretty  bool
	Service string
}

// New builds the process logger. Output goes to stdout and, when File is
// set, to a lumberjack rotated file as JSON.
func New(cfg Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var console io.Writer = os.Stdout
	if cfg.Pretty {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}

	out := console
	if cfg.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // megabytes
			MaxBackups: 7,
			MaxAge:     7, // days
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(console, rotator)
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", cfg.Service).
		Logger()
}

// Gorm routes SQL logs through log. Slow queries are reported at Warn.
func Gorm(log zerolog.Logger) gormlogger.Interface {
	gl := log.With().Str("component", "gorm").Logger()
	level, writeAt := gormlogger.Warn, zerolog.WarnLevel
	if gl.GetLevel() <= zerolog.DebugLevel {
		level, writeAt = gormlogger.Info, zerolog.DebugLevel
	}
	return gormlogger.New(&printfWriter{log: gl, level: writeAt}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type printfWriter struct {
	log   zerolog.Logger
	level zerolog.Level
}

func (w *printfWriter) Printf(format string, args ...interface{}) {
	w.log.WithLevel(w.level).Msgf(format, args...)
}
