package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "hrms-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "hrms", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.True(t, cfg.Redis.Enabled)
		assert.True(t, cfg.Event.IdempotencyEnabled)

		assert.Equal(t, "Asia/Kolkata", cfg.Attendance.Timezone)
		assert.False(t, cfg.Attendance.SubtractBreaks)
		assert.False(t, cfg.Attendance.SweepEnabled)
		assert.Equal(t, "5 0 * * *", cfg.Attendance.SweepSchedule)
		assert.Equal(t, 500, cfg.Attendance.SweepBatchSize)
		assert.Equal(t, 10*time.Minute, cfg.Attendance.IdempotencyTTL)
		assert.Equal(t, "single_oldest", cfg.Payroll.AllocationStrategy)
	})

	t.Run("loads values from environment variables with HRMS prefix", func(t *testing.T) {
		t.Setenv("HRMS_APP_NAME", "test-app")
		t.Setenv("HRMS_APP_PORT", "9000")
		t.Setenv("HRMS_DATABASE_HOST", "testdb.local")
		t.Setenv("HRMS_DATABASE_PORT", "5433")
		t.Setenv("HRMS_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("HRMS_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("HRMS_ATTENDANCE_TIMEZONE", "Europe/Berlin")
		t.Setenv("HRMS_ATTENDANCE_SUBTRACT_BREAKS", "true")
		t.Setenv("HRMS_PAYROLL_ALLOCATION_STRATEGY", "fifo_spillover")
		t.Setenv("HRMS_REDIS_ENABLED", "false")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "Europe/Berlin", cfg.Attendance.Timezone)
		assert.True(t, cfg.Attendance.SubtractBreaks)
		assert.Equal(t, "fifo_spillover", cfg.Payroll.AllocationStrategy)
		assert.False(t, cfg.Redis.Enabled)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		t.Setenv("HRMS_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("HRMS_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		t.Setenv("HRMS_ATTENDANCE_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "attendance.timezone")
	})

	t.Run("rejects bad sweep schedule when sweep is enabled", func(t *testing.T) {
		t.Setenv("HRMS_ATTENDANCE_SWEEP_ENABLED", "true")
		t.Setenv("HRMS_ATTENDANCE_SWEEP_SCHEDULE", "every night")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sweep_schedule")
	})

	t.Run("rejects unknown allocation strategy", func(t *testing.T) {
		t.Setenv("HRMS_PAYROLL_ALLOCATION_STRATEGY", "round_robin")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "allocation_strategy")
	})
}

func TestFromViper_ReadsTOML(t *testing.T) {
	v := viper.New()
	v.SetConfigType("toml")
	require.NoError(t, v.ReadConfig(strings.NewReader(`
[attendance]
timezone = "UTC"
sweep_enabled = true
sweep_schedule = "*/30 * * * *"

[jwt]
secret = "dev-secret"
`)))

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "UTC", cfg.Attendance.Timezone)
	assert.True(t, cfg.Attendance.SweepEnabled)
	assert.Equal(t, "*/30 * * * *", cfg.Attendance.SweepSchedule)
	assert.Equal(t, "dev-secret", cfg.JWT.Secret)
}

func TestValidate_Production(t *testing.T) {
	base := func() *Config {
		cfg := &Config{App: AppConfig{Env: "production"}}
		applyDefaults(cfg)
		cfg.JWT.Secret = strings.Repeat("s", 32)
		cfg.Database.Password = "secret"
		cfg.Database.SSLMode = "require"
		return cfg
	}

	require.NoError(t, base().validate())

	cfg := base()
	cfg.JWT.Secret = "short"
	assert.ErrorContains(t, cfg.validate(), "jwt.secret")

	cfg = base()
	cfg.Database.SSLMode = "disable"
	assert.ErrorContains(t, cfg.validate(), "sslmode")

	cfg = base()
	cfg.HTTP.CORSAllowOrigins = []string{"*"}
	assert.ErrorContains(t, cfg.validate(), "cors_allow_origins")
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "hr", Password: "p@ss word", DBName: "hrms", SSLMode: "disable"}
	assert.Equal(t, "postgres://hr:p%40ss%20word@db:5432/hrms?sslmode=disable", d.DSN())
}
