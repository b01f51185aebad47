package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"sigeu/internal/logger"
)

func TestGormLogger_Trace(t *testing.T) {
	dbDown := errors.New("connection refused")
	query := func() (string, int64) { return "SELECT * FROM `eventos` WHERE id = 9", 1 }

	tests := []struct {
		name      string
		level     gormlogger.LogLevel
		elapsed   time.Duration
		err       error
		wantLevel string // empty means nothing is written
	}{
		{name: "failure is an error", level: gormlogger.Warn, err: dbDown, wantLevel: "error"},
		{name: "missing record is not a failure", level: gormlogger.Warn, err: gorm.ErrRecordNotFound},
		{name: "slow statement warns", level: gormlogger.Warn, elapsed: time.Second, wantLevel: "warn"},
		{name: "fast statement is quiet at warn", level: gormlogger.Warn},
		{name: "statements traced at info", level: gormlogger.Info, wantLevel: "debug"},
		{name: "silent drops failures", level: gormlogger.Silent, err: dbDown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewGormLogger(logger.NewWithWriter(&buf, "debug"), tt.level, 200*time.Millisecond)

			l.Trace(context.Background(), time.Now().Add(-tt.elapsed), query, tt.err)

			if tt.wantLevel == "" {
				assert.Empty(t, buf.String())
				return
			}
			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, "gorm", entry["component"])
			assert.Equal(t, "SELECT * FROM `eventos` WHERE id = 9", entry["sql"])
			if tt.err != nil {
				assert.Equal(t, tt.err.Error(), entry["error"])
			}
		})
	}
}

func TestGormLogger_LogMode(t *testing.T) {
	var buf bytes.Buffer
	base := NewGormLogger(logger.NewWithWriter(&buf, "debug"), gormlogger.Silent, 0)

	base.Warn(context.Background(), "pool %s", "exhausted")
	assert.Empty(t, buf.String())

	base.LogMode(gormlogger.Warn).Warn(context.Background(), "pool %s", "exhausted")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "pool exhausted", entry["message"])

	buf.Reset()
	base.Warn(context.Background(), "still silent")
	assert.Empty(t, buf.String(), "LogMode returns a copy")
}
