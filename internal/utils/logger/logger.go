// Package logger provides a high-performance, production-ready centralized
// logging system for the cultivation planner.
package logger

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	plannererrors "github.com/urban-gardening/cropplanner/internal/utils/errors"
)

// Default configuration values for logging.
const (
	defaultLogPath       = "./logs/planner.log"
	defaultMaxSize       = 100 // megabytes
	defaultMaxBackups    = 5
	defaultMaxAge        = 30 // days
	defaultCompress      = true
	defaultBufferSize    = 256 * 1024 // 256KB buffer
	defaultFlushInterval = 30 * time.Second
)

// Config carries the subset of service configuration the logger needs.
type Config struct {
	ServiceName string
	Version     string
	Environment string
}

// New creates a new configured zap logger. Development environments log to
// both file and console; staging/production log to file only.
func New(cfg *Config) (*zap.Logger, error) {
	if cfg == nil {
		return nil, plannererrors.New(plannererrors.KindInputValidation, "logger configuration cannot be nil", nil)
	}

	if err := os.MkdirAll(filepath.Dir(defaultLogPath), 0750); err != nil {
		return nil, plannererrors.Wrap(plannererrors.KindInternal, err, "failed to create log directory", nil)
	}

	rotator := &lumberjack.Logger{
		Filename:   defaultLogPath,
		MaxSize:    defaultMaxSize,
		MaxBackups: defaultMaxBackups,
		MaxAge:     defaultMaxAge,
		Compress:   defaultCompress,
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	var logLevel zapcore.Level
	switch cfg.Environment {
	case "production", "staging":
		logLevel = zapcore.InfoLevel
	default:
		logLevel = zapcore.DebugLevel
	}

	bufferedWriter := zapcore.NewBufferedWriteSyncer(
		zapcore.AddSync(rotator),
		defaultBufferSize,
		defaultFlushInterval,
	)

	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig)

	var core zapcore.Core
	if cfg.Environment == "development" || cfg.Environment == "" {
		consoleEncoder := zapcore.NewConsoleEncoder(encoderConfig)
		core = zapcore.NewTee(
			zapcore.NewCore(jsonEncoder, bufferedWriter, logLevel),
			zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), logLevel),
		)
	} else {
		core = zapcore.NewCore(jsonEncoder, bufferedWriter, logLevel)
	}

	log := zap.New(core,
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.Fields(
			zap.String("service", cfg.ServiceName),
			zap.String("version", cfg.Version),
			zap.String("environment", cfg.Environment),
		),
	)

	return log, nil
}

// DeadlineMiss logs a GDDEvaluator shortfall at debug level. Per the
// kernel's error taxonomy this is never surfaced as an error to the caller.
func DeadlineMiss(log *zap.Logger, fieldID, cropID string, shortfallGDD float64) {
	if log == nil {
		return
	}
	log.Debug("candidate unavailable: deadline miss",
		zap.String("field_id", fieldID),
		zap.String("crop_id", cropID),
		zap.Float64("shortfall_gdd", shortfallGDD),
	)
}

// WeatherGap logs a missing weather record at debug level.
func WeatherGap(log *zap.Logger, fieldID, cropID string, date time.Time) {
	if log == nil {
		return
	}
	log.Debug("candidate unavailable: weather gap",
		zap.String("field_id", fieldID),
		zap.String("crop_id", cropID),
		zap.Time("date", date),
	)
}

// Error logs an error with its domain kind attached.
func Error(log *zap.Logger, message string, err error, fields ...zap.Field) {
	if log == nil || err == nil {
		return
	}
	base := []zap.Field{
		zap.String("error_kind", string(plannererrors.GetKind(err))),
		zap.Error(err),
	}
	log.Error(message, append(base, fields...)...)
}
