package config

import (
	"os"

	"codeberg.org/mutker/fanctl/internal/errors"
	"codeberg.org/mutker/fanctl/internal/profile"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configName = "fanctl"
	configEnv  = "FANCTL_CONFIG"

	DefaultLogLevel = "info"

	defaultInterval      = 10
	defaultDriveInterval = 300
	defaultProfile       = "helios64"
	defaultProfileDir    = "/etc/fanctl/profiles.d"
	defaultDatabase      = "/var/lib/fanctl/metrics.db"
	defaultFanChip       = "pwmfan"
	defaultFanPWM        = 1
	defaultHDDGlob       = "/dev/sd[a-z]"
	defaultSmartctl      = "smartctl"
	defaultSmartTimeout  = 10

	maxDutyCycle = 255
)

type Config struct {
	Interval      int     `mapstructure:"interval"`
	DriveInterval int     `mapstructure:"drive_interval"`
	Profile       string  `mapstructure:"profile"`
	ProfileDir    string  `mapstructure:"profile_dir"`
	Monitor       bool    `mapstructure:"monitor"`
	Watch         bool    `mapstructure:"watch"`
	LogLevel      string  `mapstructure:"log_level"`
	Metrics       bool    `mapstructure:"metrics"`
	Database      string  `mapstructure:"database"`
	Notify        string  `mapstructure:"notify"`
	NotifyCommand string  `mapstructure:"notify_command"`
	Fan           Fan     `mapstructure:"fan"`
	Sensors       Sensors `mapstructure:"sensors"`
	PWM           PWM     `mapstructure:"pwm"`
	Zones         Zones   `mapstructure:"zones"`

	v *viper.Viper
}

// Fan selects the PWM output: a hwmon chip name and the 1-based pwmN index.
type Fan struct {
	Chip string `mapstructure:"chip"`
	PWM  int    `mapstructure:"pwm"`
}

type Sensors struct {
	SystemChips  []string `mapstructure:"system_chips"`
	NVMeChips    []string `mapstructure:"nvme_chips"`
	HDDGlob      string   `mapstructure:"hdd_glob"`
	Smartctl     string   `mapstructure:"smartctl"`
	SmartTimeout int      `mapstructure:"smart_timeout"`
}

// PWM is the effective duty cycle band. Values come from the hardware
// profile unless overridden in the config file.
type PWM struct {
	Floor    int `mapstructure:"floor"`
	Max      int `mapstructure:"max"`
	Failsafe int `mapstructure:"failsafe"`
}

type Zones struct {
	System ZoneSettings `mapstructure:"system"`
	NVMe   ZoneSettings `mapstructure:"nvme"`
	HDD    ZoneSettings `mapstructure:"hdd"`
}

type ZoneSettings struct {
	TargetTemp     int `mapstructure:"target_temp"`
	MaxTemp        int `mapstructure:"max_temp"`
	ScaleFactor    int `mapstructure:"scale_factor"`
	DeltaThreshold int `mapstructure:"delta_threshold"`
}

// Load reads configuration from flags, the config file and the hardware
// profile, in that order of precedence, and validates the result.
func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	fs := pflag.NewFlagSet("fanctl", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true

	fs.String("config", "", "Path to config file")
	fs.String("log-level", DefaultLogLevel, "Log level (trace, debug, info, warning, error)")
	fs.Int("interval", defaultInterval, "Seconds between control cycles")
	fs.Int("drive-interval", defaultDriveInterval, "Minimum seconds between drive temperature checks")
	fs.String("profile", defaultProfile, "Hardware profile name")
	fs.Bool("monitor", false, "Only monitor temperatures and fan speed")
	fs.Bool("watch", false, "Reload thresholds when the config file changes")
	fs.Bool("metrics", false, "Record per-cycle metrics to the database")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	bindings := map[string]string{
		"log_level":      "log-level",
		"interval":       "interval",
		"drive_interval": "drive-interval",
		"profile":        "profile",
		"monitor":        "monitor",
		"watch":          "watch",
		"metrics":        "metrics",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return nil, errFactory.Wrap(errors.ErrBindFlags, err)
		}
	}

	v.SetDefault("profile_dir", defaultProfileDir)
	v.SetDefault("database", defaultDatabase)
	v.SetDefault("notify", "off")
	v.SetDefault("fan.chip", defaultFanChip)
	v.SetDefault("fan.pwm", defaultFanPWM)
	v.SetDefault("sensors.system_chips", []string{"cpu_thermal", "coretemp", "k10temp", "acpitz"})
	v.SetDefault("sensors.nvme_chips", []string{"nvme"})
	v.SetDefault("sensors.hdd_glob", defaultHDDGlob)
	v.SetDefault("sensors.smartctl", defaultSmartctl)
	v.SetDefault("sensors.smart_timeout", defaultSmartTimeout)

	v.SetConfigType("toml")
	configFile, err := fs.GetString("config")
	if err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	switch {
	case configFile != "":
		v.SetConfigFile(configFile)
	case os.Getenv(configEnv) != "":
		v.SetConfigFile(os.Getenv(configEnv))
	default:
		v.SetConfigName(configName)
		v.AddConfigPath("/etc")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, errFactory.Wrap(errors.ErrReadConfig, err)
		}
	}

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if err := applyProfile(v, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyProfile fills PWM band and zone settings the config file left
// unset from the selected hardware profile.
func applyProfile(v *viper.Viper, cfg *Config) error {
	pm, err := profile.NewManager(cfg.ProfileDir)
	if err != nil {
		return err
	}

	prof, err := pm.Resolve(cfg.Profile)
	if err != nil {
		return err
	}

	if !v.IsSet("pwm.floor") {
		cfg.PWM.Floor = prof.PWM.Floor
	}
	if !v.IsSet("pwm.max") {
		cfg.PWM.Max = prof.PWM.Max
	}
	if !v.IsSet("pwm.failsafe") {
		cfg.PWM.Failsafe = prof.PWM.Failsafe
	}

	overlayZone(v, "zones.system", &cfg.Zones.System, prof.Zones.System)
	overlayZone(v, "zones.nvme", &cfg.Zones.NVMe, prof.Zones.NVMe)
	overlayZone(v, "zones.hdd", &cfg.Zones.HDD, prof.Zones.HDD)

	return nil
}

func overlayZone(v *viper.Viper, key string, zone *ZoneSettings, def profile.ZoneProfile) {
	if !v.IsSet(key + ".target_temp") {
		zone.TargetTemp = def.TargetTemp
	}
	if !v.IsSet(key + ".max_temp") {
		zone.MaxTemp = def.MaxTemp
	}
	if !v.IsSet(key + ".scale_factor") {
		zone.ScaleFactor = def.ScaleFactor
	}
	if !v.IsSet(key + ".delta_threshold") {
		zone.DeltaThreshold = def.DeltaThreshold
	}
}

// Validate checks the effective configuration against the controller's
// operating invariants.
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if c.Interval < 1 {
		return errFactory.WithData(errors.ErrInvalidInterval, c.Interval)
	}
	if c.DriveInterval < c.Interval {
		return errFactory.WithMessage(errors.ErrInvalidInterval,
			"drive_interval must not be shorter than interval")
	}

	if c.PWM.Floor < 0 || c.PWM.Max > maxDutyCycle || c.PWM.Floor >= c.PWM.Max {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field  string
			Reason string
		}{
			Field:  "pwm",
			Reason: "requires 0 <= floor < max <= 255",
		})
	}
	if c.PWM.Failsafe < c.PWM.Floor || c.PWM.Failsafe > maxDutyCycle {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field  string
			Reason string
		}{
			Field:  "pwm.failsafe",
			Reason: "requires floor <= failsafe <= 255",
		})
	}

	zones := map[string]ZoneSettings{
		"zones.system": c.Zones.System,
		"zones.nvme":   c.Zones.NVMe,
		"zones.hdd":    c.Zones.HDD,
	}
	for field, z := range zones {
		if z.TargetTemp <= 0 || z.MaxTemp <= z.TargetTemp {
			return errFactory.WithData(errors.ErrInvalidConfig, struct {
				Field  string
				Reason string
			}{
				Field:  field,
				Reason: "requires 0 < target_temp < max_temp",
			})
		}
		if z.ScaleFactor <= 0 {
			return errFactory.WithData(errors.ErrInvalidConfig, struct {
				Field  string
				Reason string
			}{
				Field:  field,
				Reason: "scale_factor must be positive",
			})
		}
		if z.DeltaThreshold < 0 {
			return errFactory.WithData(errors.ErrInvalidConfig, struct {
				Field  string
				Reason string
			}{
				Field:  field,
				Reason: "delta_threshold must not be negative",
			})
		}
	}

	switch c.Notify {
	case "", "off", "syslog", "command":
	default:
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field  string
			Reason string
		}{
			Field:  "notify",
			Reason: "must be one of off, syslog, command",
		})
	}
	if c.Notify == "command" && c.NotifyCommand == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field  string
			Reason string
		}{
			Field:  "notify_command",
			Reason: "required when notify = \"command\"",
		})
	}

	if c.Metrics && c.Database == "" {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field  string
			Reason string
		}{
			Field:  "database",
			Reason: "required when metrics are enabled",
		})
	}

	if c.Fan.PWM < 1 {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field  string
			Reason string
		}{
			Field:  "fan.pwm",
			Reason: "pwm outputs are numbered from 1",
		})
	}

	if c.Sensors.SmartTimeout < 1 {
		return errFactory.WithData(errors.ErrInvalidConfig, struct {
			Field  string
			Reason string
		}{
			Field:  "sensors.smart_timeout",
			Reason: "must be at least 1 second",
		})
	}

	return nil
}
