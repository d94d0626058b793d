package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQuery is the threshold above which a statement logs a warning
const DefaultSlowQuery = 200 * time.Millisecond

// GormLogConfig tunes the SQL logger
type GormLogConfig struct {
	Level         gormlogger.LogLevel
	SlowThreshold time.Duration
	// RedactParams keeps bind values out of logged SQL. CPFs, CNPJs and
	// e-CAC passwords travel as parameters, so only development turns it off.
	RedactParams bool
}

// GormLogger routes GORM statements to zap. Record-not-found is never
// logged: repositories turn it into shared.ErrNotFound and the caller
// decides whether it is an error.
type GormLogger struct {
	logger *zap.Logger
	config GormLogConfig
}

// NewGormLogger creates a new GORM logger backed by zap
func NewGormLogger(zapLogger *zap.Logger, config GormLogConfig) *GormLogger {
	if config.SlowThreshold == 0 {
		config.SlowThreshold = DefaultSlowQuery
	}
	return &GormLogger{logger: zapLogger.Named("gorm"), config: config}
}

// LogMode implements gormlogger.Interface
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.config.Level = level
	return &clone
}

// Info implements gormlogger.Interface
func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.config.Level >= gormlogger.Info {
		l.logger.Sugar().Infof(msg, data...)
	}
}

// Warn implements gormlogger.Interface
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.config.Level >= gormlogger.Warn {
		l.logger.Sugar().Warnf(msg, data...)
	}
}

// Error implements gormlogger.Interface
func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.config.Level >= gormlogger.Error {
		l.logger.Sugar().Errorf(msg, data...)
	}
}

// ParamsFilter implements gorm.ParamsFilter. With RedactParams the SQL is
// logged with its placeholders.
func (l *GormLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	if l.config.RedactParams {
		return sql, nil
	}
	return sql, params
}

// Trace implements gormlogger.Interface
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.config.Level <= gormlogger.Silent {
		return
	}
	if errors.Is(err, gormlogger.ErrRecordNotFound) {
		err = nil
	}

	elapsed := time.Since(begin)
	slow := elapsed > l.config.SlowThreshold
	switch {
	case err != nil && l.config.Level >= gormlogger.Error:
		l.logger.Error("SQL error", append(l.fields(ctx, elapsed, fc), zap.Error(err))...)
	case slow && l.config.Level >= gormlogger.Warn:
		l.logger.Warn("Slow SQL", append(l.fields(ctx, elapsed, fc), zap.Duration("threshold", l.config.SlowThreshold))...)
	case l.config.Level >= gormlogger.Info:
		l.logger.Debug("SQL", l.fields(ctx, elapsed, fc)...)
	}
}

func (l *GormLogger) fields(ctx context.Context, elapsed time.Duration, fc func() (string, int64)) []zap.Field {
	sql, rows := fc()
	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if userID := GetUserID(ctx); userID != "" {
		fields = append(fields, zap.String("user_id", userID))
	}
	return fields
}

// GormLogConfigFor derives the SQL logger settings from the application log
// level and environment
func GormLogConfigFor(level string, development bool) GormLogConfig {
	cfg := GormLogConfig{RedactParams: !development}
	switch level {
	case "silent":
		cfg.Level = gormlogger.Silent
	case "error":
		cfg.Level = gormlogger.Error
	case "info", "debug":
		cfg.Level = gormlogger.Info
	default:
		cfg.Level = gormlogger.Warn
	}
	return cfg
}
