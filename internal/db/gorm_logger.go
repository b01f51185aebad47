package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sigeu/internal/logger"
)

const defaultSlowQuery = 200 * time.Millisecond

// gormLogger sends GORM output through the service logger.
type gormLogger struct {
	log   *logger.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

// NewGormLogger adapts log to GORM. Statements are logged at debug level
// when level is Info; slow statements and failures are always reported
// unless level is Silent. Missing records are not failures.
func NewGormLogger(log *logger.Logger, level gormlogger.LogLevel, slow time.Duration) gormlogger.Interface {
	if log == nil {
		log = logger.Nop()
	}
	if slow <= 0 {
		slow = defaultSlowQuery
	}
	return &gormLogger{log: log, level: level, slow: slow}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *gormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log.Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log.Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log.Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, args...))
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var ev *zerolog.Event
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		ev = l.log.Error().Err(err)
	case elapsed > l.slow && l.level >= gormlogger.Warn:
		ev = l.log.Warn().Dur("threshold", l.slow)
	case l.level >= gormlogger.Info:
		ev = l.log.Debug()
	default:
		return
	}

	sql, rows := fc()
	ev.Str("component", "gorm").
		Dur("elapsed", elapsed).
		Int64("rows", rows).
		Str("sql", sql).
		Msg("query")
}
