package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/fanctl/internal/config"
	"codeberg.org/mutker/fanctl/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fanctl.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	configPath := writeConfig(t, `
interval = 5
drive_interval = 120
profile = "generic"
monitor = false
log_level = "debug"
metrics = true
database = "/path/to/metrics.db"
notify = "syslog"

[fan]
chip = "nct6775"
pwm = 2

[sensors]
system_chips = ["k10temp"]
hdd_glob = "/dev/sd[a-d]"

[zones.system]
target_temp = 50
`)
	t.Setenv("FANCTL_CONFIG", configPath)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Interval, "Expected Interval 5")
	assert.Equal(t, 120, cfg.DriveInterval, "Expected DriveInterval 120")
	assert.Equal(t, "generic", cfg.Profile, "Expected Profile generic")
	assert.False(t, cfg.Monitor, "Expected Monitor false")
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel debug")
	assert.True(t, cfg.Metrics, "Expected Metrics true")
	assert.Equal(t, "/path/to/metrics.db", cfg.Database, "Expected Database /path/to/metrics.db")
	assert.Equal(t, "syslog", cfg.Notify, "Expected Notify syslog")
	assert.Equal(t, "nct6775", cfg.Fan.Chip, "Expected fan chip nct6775")
	assert.Equal(t, 2, cfg.Fan.PWM, "Expected fan pwm 2")
	assert.Equal(t, []string{"k10temp"}, cfg.Sensors.SystemChips)
	assert.Equal(t, "/dev/sd[a-d]", cfg.Sensors.HDDGlob)

	// File value wins; fields the file leaves unset come from the profile.
	assert.Equal(t, 50, cfg.Zones.System.TargetTemp, "Expected file override for target_temp")
	assert.Equal(t, 65, cfg.Zones.System.MaxTemp, "Expected max_temp from generic profile")
	assert.Equal(t, 14, cfg.Zones.System.ScaleFactor, "Expected scale_factor from generic profile")
	assert.Equal(t, 70, cfg.PWM.Floor, "Expected PWM floor from generic profile")
}

func TestLoadDefaults(t *testing.T) {
	// Ensure no config file is used
	t.Setenv("FANCTL_CONFIG", "")

	cfg, err := config.Load()
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, 10, cfg.Interval, "Expected default Interval 10")
	assert.Equal(t, 300, cfg.DriveInterval, "Expected default DriveInterval 300")
	assert.Equal(t, "helios64", cfg.Profile, "Expected default Profile helios64")
	assert.False(t, cfg.Monitor, "Expected default Monitor false")
	assert.False(t, cfg.Metrics, "Expected default Metrics false")
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.Equal(t, "off", cfg.Notify, "Expected default Notify off")
	assert.Equal(t, 140, cfg.PWM.Floor, "Expected PWM floor from helios64 profile")
	assert.Equal(t, 255, cfg.PWM.Max, "Expected PWM max from helios64 profile")
	assert.Equal(t, 45, cfg.Zones.System.TargetTemp, "Expected system target from helios64 profile")
	assert.Equal(t, 38, cfg.Zones.HDD.TargetTemp, "Expected hdd target from helios64 profile")
}

func TestLoadConfigFileInvalidFormat(t *testing.T) {
	configPath := writeConfig(t, `
This is not a valid TOML file
`)
	t.Setenv("FANCTL_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to read config file")
}

func TestInvalidLogLevel(t *testing.T) {
	configPath := writeConfig(t, `
log_level = "invalid"
`)
	t.Setenv("FANCTL_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_log_level")
}

func TestLogLevelFlag(t *testing.T) {
	// Save original args and restore after test
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	t.Setenv("FANCTL_CONFIG", "")
	os.Args = []string{"cmd", "--log-level", "debug"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
}

func TestFlagOverridesConfigFile(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	configPath := writeConfig(t, `
interval = 5
`)
	t.Setenv("FANCTL_CONFIG", configPath)
	os.Args = []string{"cmd", "--interval", "15"}

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.Interval, "Expected explicit flag to win over the config file")
}

func TestInvalidZoneSettings(t *testing.T) {
	configPath := writeConfig(t, `
[zones.system]
target_temp = 70
max_temp = 50
`)
	t.Setenv("FANCTL_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidConfig, errors.CodeOf(err))
}

func TestInvalidInterval(t *testing.T) {
	configPath := writeConfig(t, `
interval = 0
`)
	t.Setenv("FANCTL_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInterval, errors.CodeOf(err))
}

func TestDriveIntervalShorterThanInterval(t *testing.T) {
	configPath := writeConfig(t, `
interval = 10
drive_interval = 5
`)
	t.Setenv("FANCTL_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidInterval, errors.CodeOf(err))
}

func TestUnknownProfile(t *testing.T) {
	configPath := writeConfig(t, `
profile = "atlantis"
`)
	t.Setenv("FANCTL_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile_not_found")
}

func TestNotifyCommandRequired(t *testing.T) {
	configPath := writeConfig(t, `
notify = "command"
`)
	t.Setenv("FANCTL_CONFIG", configPath)

	_, err := config.Load()
	require.Error(t, err)
	assert.Equal(t, errors.ErrInvalidConfig, errors.CodeOf(err))
}
