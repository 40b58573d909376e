package profile_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/fanctl/internal/errors"
	"codeberg.org/mutker/fanctl/internal/profile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinProfiles(t *testing.T) {
	m, err := profile.NewManager("")
	require.NoError(t, err)

	assert.Equal(t, []string{"generic", "helios64"}, m.List())

	p, err := m.Resolve("helios64")
	require.NoError(t, err)
	assert.Equal(t, 140, p.PWM.Floor)
	assert.Equal(t, 255, p.PWM.Max)
	assert.Equal(t, 255, p.PWM.Failsafe)
	assert.Equal(t, 45, p.Zones.System.TargetTemp)
	assert.Equal(t, 65, p.Zones.System.MaxTemp)

	p, err = m.Resolve("generic")
	require.NoError(t, err)
	assert.Equal(t, 70, p.PWM.Floor)
}

func TestBuiltinProfilesValidate(t *testing.T) {
	m, err := profile.NewManager("")
	require.NoError(t, err)

	for _, name := range m.List() {
		p, err := m.Resolve(name)
		require.NoError(t, err)
		assert.NoError(t, p.Validate(), "built-in profile %s must validate", name)
	}
}

func TestResolveUnknownProfile(t *testing.T) {
	m, err := profile.NewManager("")
	require.NoError(t, err)

	_, err = m.Resolve("does-not-exist")
	require.Error(t, err)
	assert.Equal(t, profile.ErrProfileNotFound, errors.CodeOf(err))
}

func TestLoadProfileDirectory(t *testing.T) {
	dir := t.TempDir()

	content := []byte(`
name: rackmate
pwm:
  floor: 90
  max: 250
  failsafe: 250
zones:
  system:
    target_temp: 40
    max_temp: 70
    scale_factor: 16
    delta_threshold: 3
  nvme:
    target_temp: 48
    max_temp: 72
    scale_factor: 16
    delta_threshold: 3
  hdd:
    target_temp: 36
    max_temp: 58
    scale_factor: 18
    delta_threshold: 5
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rackmate.yaml"), content, 0o600))

	m, err := profile.NewManager(dir)
	require.NoError(t, err)

	p, err := m.Resolve("rackmate")
	require.NoError(t, err)
	assert.Equal(t, 90, p.PWM.Floor)
	assert.Equal(t, 250, p.PWM.Max)
	assert.Equal(t, 40, p.Zones.System.TargetTemp)
	assert.Equal(t, 5, p.Zones.HDD.DeltaThreshold)
}

func TestDirectoryProfileOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()

	content := []byte(`
name: helios64
pwm:
  floor: 120
  max: 255
  failsafe: 255
zones:
  system:
    target_temp: 42
    max_temp: 62
    scale_factor: 16
    delta_threshold: 4
  nvme:
    target_temp: 50
    max_temp: 70
    scale_factor: 18
    delta_threshold: 4
  hdd:
    target_temp: 38
    max_temp: 60
    scale_factor: 20
    delta_threshold: 6
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "helios64.yml"), content, 0o600))

	m, err := profile.NewManager(dir)
	require.NoError(t, err)

	p, err := m.Resolve("helios64")
	require.NoError(t, err)
	assert.Equal(t, 120, p.PWM.Floor, "directory profile should override the built-in")
	assert.Equal(t, 42, p.Zones.System.TargetTemp)
}

func TestLoadProfileMissingName(t *testing.T) {
	dir := t.TempDir()

	content := []byte(`
pwm:
  floor: 100
  max: 255
  failsafe: 255
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "anonymous.yaml"), content, 0o600))

	_, err := profile.NewManager(dir)
	require.Error(t, err)
	assert.Equal(t, profile.ErrProfileInvalid, errors.CodeOf(err))
}

func TestLoadProfileInvalidYAML(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("{not yaml"), 0o600))

	_, err := profile.NewManager(dir)
	require.Error(t, err)
	assert.Equal(t, profile.ErrProfileParseFailed, errors.CodeOf(err))
}

func TestValidateRejectsBadPWMRange(t *testing.T) {
	p := &profile.Profile{
		Name: "bad",
		PWM:  profile.PWMRange{Floor: 200, Max: 180, Failsafe: 255},
		Zones: profile.ZoneDefaults{
			System: profile.ZoneProfile{TargetTemp: 45, MaxTemp: 65, ScaleFactor: 18, DeltaThreshold: 4},
			NVMe:   profile.ZoneProfile{TargetTemp: 50, MaxTemp: 70, ScaleFactor: 18, DeltaThreshold: 4},
			HDD:    profile.ZoneProfile{TargetTemp: 38, MaxTemp: 60, ScaleFactor: 20, DeltaThreshold: 6},
		},
	}

	err := p.Validate()
	require.Error(t, err)
	assert.Equal(t, profile.ErrProfileInvalid, errors.CodeOf(err))
}

func TestValidateRejectsInvertedZoneTemps(t *testing.T) {
	p := &profile.Profile{
		Name: "bad",
		PWM:  profile.PWMRange{Floor: 140, Max: 255, Failsafe: 255},
		Zones: profile.ZoneDefaults{
			System: profile.ZoneProfile{TargetTemp: 65, MaxTemp: 45, ScaleFactor: 18, DeltaThreshold: 4},
			NVMe:   profile.ZoneProfile{TargetTemp: 50, MaxTemp: 70, ScaleFactor: 18, DeltaThreshold: 4},
			HDD:    profile.ZoneProfile{TargetTemp: 38, MaxTemp: 60, ScaleFactor: 20, DeltaThreshold: 6},
		},
	}

	err := p.Validate()
	require.Error(t, err)
	assert.Equal(t, profile.ErrProfileInvalid, errors.CodeOf(err))
}
