package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(DefaultFee), cfg.Class.Fee)
	assert.Equal(t, DefaultMode, cfg.Class.Mode)
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
}

func TestLoad_INI(t *testing.T) {
	path := writeFile(t, "attendance.ini", `
[class]
fee = 200000
mode = Onsite (Kampus)

[input]
roster = roster.csv

[server]
addr = :8080
rate = 2.5

[database]
dsn = sqlite:///tmp/schedules.db
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(200000), cfg.Class.Fee)
	assert.Equal(t, "Onsite (Kampus)", cfg.Class.Mode)
	assert.Equal(t, "roster.csv", cfg.Input.Roster)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 2.5, cfg.Server.Rate)
	assert.Equal(t, DefaultBurst, cfg.Server.Burst)
	assert.Equal(t, "sqlite:///tmp/schedules.db", cfg.Database.DSN)
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "attendance.toml", `
[class]
fee = 175000

[log]
level = "debug"
format = "json"
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(175000), cfg.Class.Fee)
	assert.Equal(t, DefaultMode, cfg.Class.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_UnknownFormat(t *testing.T) {
	path := writeFile(t, "attendance.yaml", "fee: 1")
	_, err := Load(path)
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.ini"))
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "attendance.ini", "[class]\nfee = 200000\n")
	t.Setenv("ATTENDANCE_FEE", "99000")
	t.Setenv("ATTENDANCE_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(99000), cfg.Class.Fee)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestApplyEnv_InvalidFee(t *testing.T) {
	cfg := Default()
	err := cfg.applyEnv(func(k string) string {
		if k == "ATTENDANCE_FEE" {
			return "lots"
		}
		return ""
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ATTENDANCE_FEE")
}
