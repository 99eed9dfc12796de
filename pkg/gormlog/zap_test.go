package gormlog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestShortCaller(t *testing.T) {
	require.Equal(t, "internal/platform/db/db.go:38", shortCaller("/home/ci/src/backend/internal/platform/db/db.go:38"))
	require.Equal(t, "pkg/x/y.go:12", shortCaller(`C:\repo\project\pkg\x\y.go:12`))
	require.Equal(t, "main.go:3", shortCaller("/tmp/main.go:3"))
	require.Equal(t, "", shortCaller(""))
}

func TestTrace_LevelsByOutcome(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithOptions(zap.New(core).Sugar(), Options{SlowThreshold: time.Millisecond, Level: gormlogger.Info})
	fc := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(context.Background(), time.Now(), fc, errors.New("boom"))
	l.Trace(context.Background(), time.Now(), fc, gorm.ErrRecordNotFound)
	l.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)

	entries := logs.All()
	require.Len(t, entries, 3)
	require.Equal(t, "gorm_error", entries[0].Message)
	require.NotEqual(t, "gorm_error", entries[1].Message)
	require.Equal(t, "gorm_slow", entries[2].Message)
}

func TestTrace_SilentEmitsNothing(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core).Sugar()).LogMode(gormlogger.Silent)
	l.Trace(context.Background(), time.Now(), func() (string, int64) { return "SELECT 1", 1 }, errors.New("x"))
	require.Equal(t, 0, logs.Len())
}
