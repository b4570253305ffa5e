package config

import (
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

		assert.Equal(t, "rwbiz-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "rwbiz", cfg.Database.DBName)
		assert.Equal(t, int64(50<<20), cfg.Upload.MaxSize)
		assert.Equal(t, "memory", cfg.Storage.Driver)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 0.10, cfg.Capital.EarlyWithdrawalPenaltyRate)
		assert.Equal(t, 0.18, cfg.Tax.VATRate)
		assert.Len(t, cfg.Payroll.PAYEBands, 4)
	})

	t.Run("loads values from environment variables with BIZ prefix", func(t *testing.T) {
		t.Setenv("BIZ_APP_NAME", "test-app")
		t.Setenv("BIZ_APP_PORT", "9000")
		t.Setenv("BIZ_DATABASE_HOST", "testdb.local")
		t.Setenv("BIZ_DATABASE_PORT", "5433")
		t.Setenv("BIZ_DATABASE_MAX_OPEN_CONNS", "50")
		t.Setenv("BIZ_DATABASE_MAX_IDLE_CONNS", "10")
		t.Setenv("BIZ_STORAGE_DRIVER", "s3")
		t.Setenv("BIZ_CAPITAL_EARLY_WITHDRAWAL_PENALTY_RATE", "0.05")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, 50, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10, cfg.Database.MaxIdleConns)
		assert.Equal(t, "s3", cfg.Storage.Driver)
		assert.Equal(t, 0.05, cfg.Capital.EarlyWithdrawalPenaltyRate)
	})
}

func TestBuild_Validation(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]any
		want string
	}{
		{"unknown database driver", map[string]any{"database.driver": "mysql"}, "database.driver"},
		{"idle exceeds open", map[string]any{"database.max_open_conns": 2, "database.max_idle_conns": 5}, "max_idle_conns"},
		{"unknown storage driver", map[string]any{"storage.driver": "ftp"}, "storage.driver"},
		{"minio without endpoint", map[string]any{"storage.driver": "minio"}, "storage.endpoint"},
		{"bad sampling ratio", map[string]any{"telemetry.sampling_ratio": 1.5}, "sampling_ratio"},
		{"penalty rate out of range", map[string]any{"capital.early_withdrawal_penalty_rate": 1.2}, "early_withdrawal_penalty_rate"},
		{"malformed band", map[string]any{"payroll.paye_bands": []string{"60000"}}, "paye_bands"},
		{"production short secret", map[string]any{"app.env": "production", "jwt.secret": "short"}, "32 characters"},
		{"production memory storage", map[string]any{
			"app.env": "production", "jwt.secret": "0123456789abcdef0123456789abcdef", "database.password": "x",
		}, "memory"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.set {
				v.Set(k, val)
			}
			_, err := build(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseBands(t *testing.T) {
	bands, err := parseBands([]string{"0:0", " 60000:0.10 ", "100000:0.2"})
	require.NoError(t, err)
	assert.Equal(t, []PAYEBand{{0, 0}, {60000, 0.10}, {100000, 0.2}}, bands)

	_, err = parseBands([]string{"abc:0.1"})
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	d := DatabaseConfig{Driver: "postgres", Host: "db", Port: 5432, User: "u", Password: "p@ss word", DBName: "rwbiz", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss%20word@db:5432/rwbiz?sslmode=disable", d.DSN())

	s := DatabaseConfig{Driver: "sqlite", DBName: ":memory:"}
	assert.Equal(t, ":memory:", s.DSN())
}

func TestBuild_ExplicitZeroWins(t *testing.T) {
	v := viper.New()
	v.Set("telemetry.sampling_ratio", 0.0)
	v.Set("scheduler.reminder_days", 0)

	cfg, err := build(v)
	require.NoError(t, err)
	assert.Zero(t, cfg.Telemetry.SamplingRatio)
	assert.Zero(t, cfg.Scheduler.ReminderDays)
	assert.Equal(t, 30, cfg.Capital.UpcomingUnlockDays)
}

func TestBuild_ProductionChecks(t *testing.T) {
	base := map[string]any{
		"app.env":           "production",
		"jwt.secret":        "0123456789abcdef0123456789abcdef",
		"database.password": "x",
		"storage.driver":    "s3",
	}
	newViper := func(extra map[string]any) *viper.Viper {
		v := viper.New()
		for k, val := range base {
			v.Set(k, val)
		}
		for k, val := range extra {
			v.Set(k, val)
		}
		return v
	}

	_, err := build(newViper(nil))
	require.NoError(t, err)

	_, err = build(newViper(map[string]any{"http.cors_allow_origins": []string{"https://app.rwbiz.rw", "*"}}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cors_allow_origins")

	_, err = build(newViper(map[string]any{"swagger.enabled": true}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "swagger")
}

func TestBuild_RejectsBandRate(t *testing.T) {
	v := viper.New()
	v.Set("payroll.paye_bands", []string{"0:0", "60000:1.5"})
	_, err := build(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paye_bands[1]")
}

func TestRedisAddr(t *testing.T) {
	assert.Equal(t, "cache:6379", RedisConfig{Host: "cache", Port: 6379}.Addr())
}
