package logging

import (
	"os"

	"github.com/cockroachdb/errors"

	"github.com/graphicode-dev/classroom/internal/infrastructure/env"
)

type Logger interface {
	Init()

	Debug(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Debugf(template string, args ...any)

	Info(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Infof(template string, args ...any)

	Warn(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Warnf(template string, args ...any)

	Error(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Errorf(template string, args ...any)

	Fatal(cat Category, sub SubCategory, msg string, extra map[ExtraKey]any)
	Fatalf(template string, args ...any)
}

type LoggerConfig struct {
	// FilePath enables a rotated log file in this directory. Empty logs to
	// stdout only.
	FilePath string `koanf:"file_path"`
	Encoding string `koanf:"encoding" validate:"omitempty,oneof=json console"`
	Level    string `koanf:"level" validate:"omitempty,oneof=debug info warn error fatal"`
	Logger   string `koanf:"logger" validate:"omitempty,oneof=zap zerolog"`
	// Output is stdout (default) or stderr.
	Output string `koanf:"output" validate:"omitempty,oneof=stdout stderr"`
}

func (c *LoggerConfig) writer() *os.File {
	if c.Output == "stderr" {
		return os.Stderr
	}
	return os.Stdout
}

func NewDefaultConfig() *LoggerConfig {
	return &LoggerConfig{
		FilePath: env.GetString("LOGGER_FILE_PATH", ""),
		Encoding: env.GetString("LOGGER_ENCODING", "json"),
		Level:    env.GetString("LOGGER_LEVEL", "info"),
		Logger:   env.GetString("LOGGER_LOGGER", "zap"),
	}
}

var ErrUnsupportedLogger = errors.New("logger not supported: supported loggers: [zap, zerolog]")

func NewLogger(cfg *LoggerConfig) (Logger, error) {
	var l Logger
	switch cfg.Logger {
	case "", "zap":
		l = newZapLogger(cfg)
	case "zerolog":
		l = newZeroLogger(cfg)
	default:
		return nil, errors.Wrapf(ErrUnsupportedLogger, "got %q", cfg.Logger)
	}
	l.Init()
	return l, nil
}

// MustNewLogger is NewLogger for process startup.
func MustNewLogger(cfg *LoggerConfig) Logger {
	l, err := NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	return l
}
