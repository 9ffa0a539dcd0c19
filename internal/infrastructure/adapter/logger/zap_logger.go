package logger

import (
	"github.com/joycoin-platform/joycoin-backend/internal/domain/port/core"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLogger implements the Logger port on top of zap. Level filtering happens
// here rather than in the zap core, so SetLevel works at runtime without
// rebuilding the logger.
type ZapLogger struct {
	logger *zap.Logger
	level  core.LogLevel
}

// NewZapLogger creates a new zap-based logger instance. Production gets the
// JSON encoder, development a colored console encoder.
func NewZapLogger(isProduction bool) core.Logger {
	var cfg zap.Config
	if isProduction {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.MessageKey = "message"

	zapLogger, err := cfg.Build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}

	return &ZapLogger{
		logger: zapLogger.With(zap.String("service", "joycoin-api")),
		level:  core.LogLevelInfo,
	}
}

// NewDefaultLogger creates a standard logger for the application
func NewDefaultLogger() core.Logger {
	return NewZapLogger(false)
}

// SetLevel sets the minimum log level
func (l *ZapLogger) SetLevel(level core.LogLevel) {
	l.level = level
}

// GetLevel gets the current log level
func (l *ZapLogger) GetLevel() core.LogLevel {
	return l.level
}

func (l *ZapLogger) enabled(level core.LogLevel) bool {
	return level >= l.level
}

func toZapFields(fields map[string]any) []zap.Field {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	return zapFields
}

// Debug logs debug messages
func (l *ZapLogger) Debug(message string, fields map[string]any) {
	if l.enabled(core.LogLevelDebug) {
		l.logger.Debug(message, toZapFields(fields)...)
	}
}

// Info logs informational messages
func (l *ZapLogger) Info(message string, fields map[string]any) {
	if l.enabled(core.LogLevelInfo) {
		l.logger.Info(message, toZapFields(fields)...)
	}
}

// Warn logs warning messages
func (l *ZapLogger) Warn(message string, fields map[string]any) {
	if l.enabled(core.LogLevelWarn) {
		l.logger.Warn(message, toZapFields(fields)...)
	}
}

// Error logs error messages
func (l *ZapLogger) Error(message string, fields map[string]any) {
	if l.enabled(core.LogLevelError) {
		l.logger.Error(message, toZapFields(fields)...)
	}
}

// Flush ensures all buffered logs are written
func (l *ZapLogger) Flush() error {
	return l.logger.Sync()
}
