package config

import (
	"github.com/fsnotify/fsnotify"

	"codeberg.org/mutker/fanctl/internal/errors"
	"codeberg.org/mutker/fanctl/internal/logger"
)

// WatchFile re-loads the config file on change and hands each valid
// result to callback. Invalid edits are logged and dropped; the
// previous configuration stays active. Sensor topology and the fan
// selection are fixed at startup, so changes to those fields are
// ignored.
func (c *Config) WatchFile(callback func(*Config)) error {
	errFactory := errors.New()

	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return errFactory.WithMessage(errors.ErrInvalidConfig, "no config file to watch")
	}

	c.v.OnConfigChange(func(_ fsnotify.Event) {
		next := &Config{v: c.v}
		if err := c.v.Unmarshal(next); err != nil {
			logger.Warn().Err(err).Msg("Ignoring config change: unmarshal failed")
			return
		}
		if err := applyProfile(c.v, next); err != nil {
			logger.Warn().Err(err).Msg("Ignoring config change: profile resolution failed")
			return
		}

		next.Fan = c.Fan
		next.Sensors = c.Sensors

		if err := next.Validate(); err != nil {
			logger.Warn().Err(err).Msg("Ignoring config change: validation failed")
			return
		}

		logger.Info().Str("file", c.v.ConfigFileUsed()).Msg("Configuration reloaded")
		callback(next)
	})
	c.v.WatchConfig()

	return nil
}
