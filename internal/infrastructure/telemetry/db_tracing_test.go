package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type tracedRow struct {
	ID   uint   `gorm:"primaryKey"`
	Note string `gorm:"size:100"`
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tracedRow{}))
	return db
}

// statementFor builds a finished statement as the after callback sees it
func statementFor(ctx context.Context, db *gorm.DB, dbErr error) *gorm.DB {
	return &gorm.DB{
		Config:       db.Config,
		Error:        dbErr,
		RowsAffected: 1,
		Statement: &gorm.Statement{
			DB:      db,
			Context: ctx,
			Table:   "attendance",
		},
	}
}

func recordingSpan(t *testing.T) (context.Context, *tracetest.SpanRecorder, func()) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	ctx, span := tp.Tracer("test").Start(context.Background(), "query")
	return ctx, sr, func() { span.End() }
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestDefaultDBTracingConfig(t *testing.T) {
	cfg := DefaultDBTracingConfig()
	assert.False(t, cfg.Enabled)
	assert.False(t, cfg.LogFullSQL)
	assert.Equal(t, 200*time.Millisecond, cfg.SlowQueryThresh)
}

func TestDBTracingPlugin_Register_Disabled(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{}, nil)
	require.NoError(t, plugin.Register(db))
	assert.Nil(t, db.Callback().Query().Get("hrms_trace:after_query"))
}

func TestDBTracingPlugin_Register_Enabled(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, DBName: "sqlite"}, zap.NewNop())
	require.NoError(t, plugin.Register(db))

	assert.NotNil(t, db.Callback().Query().Get("hrms_trace:after_query"))
	assert.NotNil(t, db.Callback().Create().Get("hrms_trace:before_create"))

	row := tracedRow{Note: "punch in"}
	require.NoError(t, db.Create(&row).Error)
	var loaded tracedRow
	require.NoError(t, db.First(&loaded, row.ID).Error)
	assert.Equal(t, "punch in", loaded.Note)
}

func TestDBTracingPlugin_After_Annotates(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Hour}, nil)

	ctx, sr, end := recordingSpan(t)
	plugin.after(statementFor(WithQueryStartTime(ctx), db, nil))
	end()

	span := sr.Ended()[0]
	attrs := spanAttrs(span)
	assert.Equal(t, int64(1), attrs["db.rows_affected"].AsInt64())
	assert.Equal(t, "attendance", attrs["db.sql.table"].AsString())
	_, slow := attrs["db.slow_query"]
	assert.False(t, slow)
	assert.Equal(t, codes.Unset, span.Status().Code)
}

func TestDBTracingPlugin_After_Errors(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil)

	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantEvent  string
	}{
		{"not found is not an error", gorm.ErrRecordNotFound, codes.Unset, ""},
		{"duplicate key is a conflict", gorm.ErrDuplicatedKey, codes.Unset, "constraint_conflict"},
		{"other errors fail the span", errors.New("connection reset"), codes.Error, "exception"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, sr, end := recordingSpan(t)
			plugin.after(statementFor(ctx, db, tt.err))
			end()

			span := sr.Ended()[0]
			assert.Equal(t, tt.wantStatus, span.Status().Code)
			if tt.wantEvent == "" {
				assert.Empty(t, span.Events())
				return
			}
			require.Len(t, span.Events(), 1)
			assert.Equal(t, tt.wantEvent, span.Events()[0].Name)
		})
	}
}

func TestDBTracingPlugin_After_SlowQuery(t *testing.T) {
	db := setupTestDB(t)
	core, logs := observer.New(zap.WarnLevel)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true, SlowQueryThresh: time.Millisecond}, zap.New(core))

	ctx, sr, end := recordingSpan(t)
	started := context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-50*time.Millisecond))
	plugin.after(statementFor(started, db, nil))
	end()

	attrs := spanAttrs(sr.Ended()[0])
	assert.True(t, attrs["db.slow_query"].AsBool())
	assert.GreaterOrEqual(t, attrs["db.query_duration_ms"].AsInt64(), int64(50))
	assert.Equal(t, 1, logs.FilterMessage("Slow query").Len())
}

func TestDBTracingPlugin_After_NoSpanOrContext(t *testing.T) {
	db := setupTestDB(t)
	plugin := NewDBTracingPlugin(DBTracingConfig{Enabled: true}, nil)

	assert.NotPanics(t, func() {
		plugin.after(statementFor(context.Background(), db, errors.New("x")))
		plugin.after(statementFor(nil, db, nil))
		plugin.before(statementFor(nil, db, nil))
	})
}
