package gormlog

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"github.com/tristarfitness/backend/pkg/logctx"
)

// Options tunes what the gorm logger emits.
type Options struct {
	SlowThreshold time.Duration
	Level         gormlogger.LogLevel
}

// ZapLogger implements gorm.io/gorm/logger.Interface on top of the request
// scoped zap logger (trace_id and user_id come from logctx.FromCtx).
type ZapLogger struct {
	base *zap.SugaredLogger
	opts Options
}

// New logs every statement at debug level and slow ones (>200ms) as warnings.
func New(base *zap.SugaredLogger) *ZapLogger {
	return NewWithOptions(base, Options{SlowThreshold: 200 * time.Millisecond, Level: gormlogger.Info})
}

func NewWithOptions(base *zap.SugaredLogger, opts Options) *ZapLogger {
	if opts.Level == 0 {
		opts.Level = gormlogger.Warn
	}
	return &ZapLogger{base: base, opts: opts}
}

func (z *ZapLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	opts := z.opts
	opts.Level = level
	return &ZapLogger{base: z.base, opts: opts}
}

func (z *ZapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if z.opts.Level >= gormlogger.Info {
		logctx.FromCtx(ctx, z.base).Infow(msg, "args", data)
	}
}

func (z *ZapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if z.opts.Level >= gormlogger.Warn {
		logctx.FromCtx(ctx, z.base).Warnw(msg, "args", data)
	}
}

func (z *ZapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if z.opts.Level >= gormlogger.Error {
		logctx.FromCtx(ctx, z.base).Errorw(msg, "args", data)
	}
}

func (z *ZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if z.opts.Level == gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	lg := logctx.FromCtx(ctx, z.base)
	fields := []interface{}{
		"rows", rows,
		"elapsed_ms", elapsed.Milliseconds(),
		"caller", shortCaller(utils.FileWithLineNum()),
		"sql", sql,
	}
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		lg.Errorw("gorm_error", append(fields, "err", err)...)
	case z.opts.SlowThreshold > 0 && elapsed > z.opts.SlowThreshold:
		lg.Warnw("gorm_slow", fields...)
	case z.opts.Level >= gormlogger.Info:
		lg.Debugw("gorm", fields...)
	}
}

// shortCaller trims absolute build paths down to the repo-relative part,
// e.g. /home/ci/src/backend/internal/platform/db/db.go:38 -> internal/platform/db/db.go:38
func shortCaller(s string) string {
	if s == "" {
		return s
	}
	pathPart, linePart := s, ""
	if idx := strings.LastIndex(s, ":"); idx >= 0 {
		pathPart, linePart = s[:idx], s[idx:]
	}
	p := strings.ReplaceAll(pathPart, `\`, "/")
	for _, marker := range []string{"/internal/", "/pkg/", "/cmd/"} {
		if i := strings.Index(p, marker); i >= 0 {
			return p[i+1:] + linePart
		}
	}
	return filepath.Base(p) + linePart
}
