// Package ylog provides a slog.Logger instance for logging.
// ylog also provides a default slog.Logger, the default logger is built from environment.
//
// ylog allows to call log api directly, like:
//
//	ylog.Debug("decode", "offset", 9)
//	ylog.Info("convert", "rows", 120)
//	ylog.Warn("skip column", "column", "BMP_temperature")
//	ylog.Error("decode failed", "err", err)
package ylog

import (
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"gopkg.in/natefinch/lumberjack.v2"
)

var defaultLogger = Default()

// SetDefault set global logger.
func SetDefault(logger *slog.Logger) { defaultLogger = logger }

// Logger returns the global logger.
func Logger() *slog.Logger { return defaultLogger }

// Debug logs a message at debug level.
func Debug(msg string, keyvals ...interface{}) {
	defaultLogger.Debug(msg, keyvals...)
}

// Info logs a message at info level.
func Info(msg string, keyvals ...interface{}) {
	defaultLogger.Info(msg, keyvals...)
}

// Warn logs a message at warn level.
func Warn(msg string, keyvals ...interface{}) {
	defaultLogger.Warn(msg, keyvals...)
}

// Error logs a message at error level.
func Error(msg string, keyvals ...interface{}) {
	defaultLogger.Error(msg, keyvals...)
}

// Config is the config of slog, the config is from environment.
type Config struct {
	// Verbose indicates if logger log code line.
	Verbose bool `env:"FLIGHTDATA_LOG_VERBOSE" envDefault:"false"`

	// the log level, It's one of `debug`, `info`, `warn`, `error`
	Level string `env:"FLIGHTDATA_LOG_LEVEL" envDefault:"info"`

	// log output file path, It's stdout if not set.
	Output string `env:"FLIGHTDATA_LOG_OUTPUT"`

	// error log output file path, It's stderr if not set.
	ErrorOutput string `env:"FLIGHTDATA_LOG_ERROR_OUTPUT"`

	// text or json.
	Format string `env:"FLIGHTDATA_LOG_FORMAT" envDefault:"text"`

	// DisableTime disables the time key of the log record.
	DisableTime bool `env:"FLIGHTDATA_LOG_DISABLE_TIME" envDefault:"false"`

	// MaxSize is the size in megabytes a log file grows to before it is rotated.
	MaxSize int `env:"FLIGHTDATA_LOG_MAX_SIZE" envDefault:"100"`
}

// Default returns a slog.Logger according to enviroment.
func Default() *slog.Logger {
	var conf Config
	if err := env.Parse(&conf); err != nil {
		log.Fatalf("%+v\n", err)
	}
	return NewFromConfig(conf)
}

// NewFromConfig returns a slog.Logger according to conf.
func NewFromConfig(conf Config) *slog.Logger {
	return slog.New(NewHandlerFromConfig(conf))
}

// parseToWriter returns a rotating file writer for path, or defaultWriter if
// path is empty or names a standard stream.
func parseToWriter(conf Config, path string, defaultWriter io.Writer) io.Writer {
	switch strings.ToLower(path) {
	case "":
		return defaultWriter
	case "stdout":
		return os.Stdout
	case "stderr":
		return os.Stderr
	}
	return &lumberjack.Logger{
		Filename: path,
		MaxSize:  conf.MaxSize,
	}
}

func parseToSlogLevel(stringLevel string) slog.Level {
	var level = slog.LevelDebug
	switch strings.ToLower(stringLevel) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return level
}
