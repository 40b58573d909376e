package profile

import (
	"os"
	"path/filepath"
	"sort"

	"codeberg.org/mutker/fanctl/internal/errors"
	"codeberg.org/mutker/fanctl/internal/logger"
	"gopkg.in/yaml.v3"
)

const maxDutyCycle = 255

// Profile describes the fixed hardware characteristics of an appliance
// model: the usable PWM band of its fan header and default curve settings
// for each thermal zone. User configuration overlays these defaults.
type Profile struct {
	Name  string       `yaml:"name"`
	PWM   PWMRange     `yaml:"pwm"`
	Zones ZoneDefaults `yaml:"zones"`
}

// PWMRange is the usable duty cycle band of the fan header. Floor is the
// lowest duty at which the fan reliably spins; Failsafe is written on
// shutdown so an unsupervised appliance keeps cooling.
type PWMRange struct {
	Floor    int `yaml:"floor"`
	Max      int `yaml:"max"`
	Failsafe int `yaml:"failsafe"`
}

type ZoneDefaults struct {
	System ZoneProfile `yaml:"system"`
	NVMe   ZoneProfile `yaml:"nvme"`
	HDD    ZoneProfile `yaml:"hdd"`
}

type ZoneProfile struct {
	TargetTemp     int `yaml:"target_temp"`
	MaxTemp        int `yaml:"max_temp"`
	ScaleFactor    int `yaml:"scale_factor"`
	DeltaThreshold int `yaml:"delta_threshold"`
}

// Manager holds the built-in profiles plus any loaded from a profile
// directory. Directory profiles override built-ins with the same name.
type Manager struct {
	profiles map[string]*Profile
}

// NewManager creates a manager with the built-in profiles and loads any
// YAML profiles found in dir. A missing directory is not an error.
func NewManager(dir string) (*Manager, error) {
	m := &Manager{
		profiles: make(map[string]*Profile),
	}

	for _, p := range builtins() {
		m.profiles[p.Name] = p
	}

	if err := m.loadDir(dir); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manager) loadDir(dir string) error {
	errFactory := errors.New()

	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return errFactory.Wrap(ErrProfileLoadFailed, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if err := m.load(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}

	return nil
}

func (m *Manager) load(path string) error {
	errFactory := errors.New()

	data, err := os.ReadFile(path)
	if err != nil {
		return errFactory.Wrap(ErrProfileLoadFailed, err)
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return errFactory.WithData(ErrProfileParseFailed, struct {
			Path  string
			Error string
		}{
			Path:  path,
			Error: err.Error(),
		})
	}

	if p.Name == "" {
		return errFactory.WithData(ErrProfileInvalid, struct {
			Path   string
			Reason string
		}{
			Path:   path,
			Reason: "profile must have a name",
		})
	}

	if err := p.Validate(); err != nil {
		return err
	}

	logger.Debug().Str("name", p.Name).Str("path", path).Msg("Loaded hardware profile")
	m.profiles[p.Name] = &p

	return nil
}

// Resolve returns the named profile. The error data lists the available
// names when the profile does not exist.
func (m *Manager) Resolve(name string) (*Profile, error) {
	errFactory := errors.New()

	p, ok := m.profiles[name]
	if !ok {
		return nil, errFactory.WithData(ErrProfileNotFound, struct {
			Name      string
			Available []string
		}{
			Name:      name,
			Available: m.List(),
		})
	}

	return p, nil
}

// List returns the names of all known profiles, sorted.
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.profiles))
	for name := range m.profiles {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Validate checks the PWM band and zone defaults for physical sanity.
func (p *Profile) Validate() error {
	errFactory := errors.New()

	if p.PWM.Floor < 0 || p.PWM.Max > maxDutyCycle || p.PWM.Floor >= p.PWM.Max {
		return errFactory.WithData(ErrProfileInvalid, struct {
			Name   string
			Reason string
		}{
			Name:   p.Name,
			Reason: "pwm floor/max outside 0-255 or floor >= max",
		})
	}

	if p.PWM.Failsafe < p.PWM.Floor || p.PWM.Failsafe > maxDutyCycle {
		return errFactory.WithData(ErrProfileInvalid, struct {
			Name   string
			Reason string
		}{
			Name:   p.Name,
			Reason: "pwm failsafe outside floor-255",
		})
	}

	zones := map[string]ZoneProfile{
		"system": p.Zones.System,
		"nvme":   p.Zones.NVMe,
		"hdd":    p.Zones.HDD,
	}
	for name, z := range zones {
		if z.TargetTemp <= 0 || z.MaxTemp <= z.TargetTemp {
			return errFactory.WithData(ErrProfileInvalid, struct {
				Name   string
				Zone   string
				Reason string
			}{
				Name:   p.Name,
				Zone:   name,
				Reason: "requires 0 < target_temp < max_temp",
			})
		}
		if z.ScaleFactor <= 0 {
			return errFactory.WithData(ErrProfileInvalid, struct {
				Name   string
				Zone   string
				Reason string
			}{
				Name:   p.Name,
				Zone:   name,
				Reason: "scale_factor must be positive",
			})
		}
		if z.DeltaThreshold < 0 {
			return errFactory.WithData(ErrProfileInvalid, struct {
				Name   string
				Zone   string
				Reason string
			}{
				Name:   p.Name,
				Zone:   name,
				Reason: "delta_threshold must not be negative",
			})
		}
	}

	return nil
}
