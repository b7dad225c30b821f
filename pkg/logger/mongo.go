package logger

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// MongoLogger logs MongoDB commands through zap
type MongoLogger struct {
	ZapLogger     *zap.Logger
	SlowThreshold time.Duration
	Level         zapcore.Level
}

// NewMongoLogger creates a command logger. Commands slower than slowQuerySeconds
// are logged as warnings; a zero threshold disables slow command reporting.
func NewMongoLogger(zapLogger *zap.Logger, slowQuerySeconds float64, logLevel string) *MongoLogger {
	return &MongoLogger{
		ZapLogger:     zapLogger.Named("mongo"),
		SlowThreshold: time.Duration(slowQuerySeconds * float64(time.Second)),
		Level:         ParseLevel(logLevel),
	}
}

// CommandMonitor returns the driver hook that feeds this logger.
func (l *MongoLogger) CommandMonitor() *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: l.succeeded,
		Failed:    l.failed,
	}
}

func (l *MongoLogger) fields(e event.CommandFinishedEvent) []zap.Field {
	return []zap.Field{
		zap.String("command", e.CommandName),
		zap.String("database", e.DatabaseName),
		zap.Int64("driver_request_id", e.RequestID),
		zap.String("connection_id", e.ConnectionID),
		zap.Duration("elapsed", e.Duration),
	}
}

func (l *MongoLogger) succeeded(ctx context.Context, e *event.CommandSucceededEvent) {
	logger := WithContext(ctx, l.ZapLogger)
	fields := l.fields(e.CommandFinishedEvent)

	if l.SlowThreshold != 0 && e.Duration > l.SlowThreshold && l.Level <= zapcore.WarnLevel {
		fields = append(fields, zap.Duration("threshold", l.SlowThreshold))
		logger.Warn("mongo slow command", fields...)
		return
	}

	if l.Level <= zapcore.DebugLevel {
		logger.Debug("mongo command", fields...)
	}
}

func (l *MongoLogger) failed(ctx context.Context, e *event.CommandFailedEvent) {
	if l.Level > zapcore.ErrorLevel {
		return
	}
	fields := append(l.fields(e.CommandFinishedEvent), zap.String("failure", e.Failure))
	WithContext(ctx, l.ZapLogger).Error("mongo command error", fields...)
}
