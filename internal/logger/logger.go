package logger

import (
	"log"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var levels = map[string]zapcore.Level{
	"DEBUG": zap.DebugLevel,
	"INFO":  zap.InfoLevel,
	"WARN":  zap.WarnLevel,
	"ERROR": zap.ErrorLevel,
	"FATAL": zap.FatalLevel,
}

// Options controls how loggers are built. Zero values fall back to the
// LOG_OUTPUT and LOG_LEVEL environment variables.
type Options struct {
	Format string // console or json
	Level  string
}

var defaults Options

// Configure sets the process-wide defaults used by New. It is called once
// from the CLI after the configuration has been loaded.
func Configure(opts Options) {
	defaults = opts
}

// New returns a logger scoped to pkg. Output format comes from the configured
// defaults or the LOG_OUTPUT environment variable (console or json).
func New(pkg string, fields ...zapcore.Field) *zap.Logger {
	format := defaults.Format
	if format == "" {
		format = os.Getenv("LOG_OUTPUT")
	}
	if strings.ToLower(format) == "json" {
		return NewJSON(pkg, fields...)
	}
	return NewConsole(pkg, fields...)
}

// NewJSON returns a scoped logger that writes JSON lines.
func NewJSON(pkg string, fields ...zapcore.Field) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	return build(cfg, pkg, fields...)
}

// NewConsole returns a scoped logger for human-readable console output.
func NewConsole(pkg string, fields ...zapcore.Field) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	return build(cfg, pkg, fields...)
}

// ParseLevel maps a level name to a zap level, returning defaultLevel when
// the name is empty or unknown.
func ParseLevel(level string, defaultLevel zapcore.Level) zapcore.Level {
	level = strings.ToUpper(strings.TrimSpace(level))
	if lvl, ok := levels[level]; ok {
		return lvl
	}
	return defaultLevel
}

// RedirectLogPackage sends output of the standard log package to l.
func RedirectLogPackage(l *zap.Logger) {
	log.SetFlags(0)
	log.SetOutput(&writer{l: l})
}

func build(cfg zap.Config, pkg string, fields ...zapcore.Field) *zap.Logger {
	level := defaults.Level
	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level, zap.InfoLevel))

	l, err := cfg.Build(zap.AddStacktrace(zap.ErrorLevel), zap.AddCaller())
	if err != nil {
		return zap.NewNop()
	}

	scoped := make([]zapcore.Field, 0, len(fields)+1)
	scoped = append(scoped, zap.String("pkg", pkg))
	scoped = append(scoped, fields...)
	return l.With(scoped...)
}

type writer struct {
	l *zap.Logger
}

// Write implements io.Writer.
func (w *writer) Write(b []byte) (int, error) {
	w.l.Info(strings.TrimRight(string(b), "\n"))
	return len(b), nil
}
