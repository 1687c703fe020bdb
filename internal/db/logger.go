package db

import (
	"context" // Request scoped context
	"errors"  // Error inspection
	"time"    // Query timing

	"github.com/sirupsen/logrus" // Logrus for structured logging
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger interface
)

// gormLogger routes GORM output through logrus at the matching level
type gormLogger struct {
	log   *logrus.Logger
	level logger.LogLevel
	slow  time.Duration // Queries slower than this are logged as warnings
}

func newGormLogger(log *logrus.Logger, level logger.LogLevel, slow time.Duration) *gormLogger {
	return &gormLogger{log: log, level: level, slow: slow}
}

// LogMode returns a copy logging at level
func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	c := *l
	c.level = level
	return &c
}

func (l *gormLogger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Info {
		l.log.WithContext(ctx).Infof(msg, args...)
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Warn {
		l.log.WithContext(ctx).Warnf(msg, args...)
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= logger.Error {
		l.log.WithContext(ctx).Errorf(msg, args...)
	}
}

// Trace logs failed queries as errors and slow ones as warnings. Record not
// found is an expected outcome and is skipped.
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	fields := func() logrus.Fields {
		sql, rows := fc()
		return logrus.Fields{"sql": sql, "rows": rows, "elapsed": elapsed}
	}
	switch {
	case err != nil && l.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		l.log.WithContext(ctx).WithFields(fields()).WithError(err).Error("Query failed")
	case l.slow > 0 && elapsed > l.slow && l.level >= logger.Warn:
		l.log.WithContext(ctx).WithFields(fields()).Warn("Slow query")
	case l.level >= logger.Info:
		l.log.WithContext(ctx).WithFields(fields()).Debug("Query")
	}
}
