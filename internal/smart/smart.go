// Package smart queries SATA drive temperatures through smartctl.
// Spinning drives have no memory-mapped sensor; the temperature comes
// from the SMART attribute table, which wakes the drive's firmware and
// is therefore queried sparingly.
package smart

import (
	"context"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"codeberg.org/mutker/fanctl/internal/errors"
	"codeberg.org/mutker/fanctl/internal/logger"
)

// Drive is one enumerated block device.
type Drive struct {
	Device string
}

func (d Drive) Name() string {
	return filepath.Base(d.Device)
}

// Querier reads drive temperatures via the smartctl binary. The drive
// list is fixed at discovery.
type Querier struct {
	binary  string
	timeout time.Duration
	drives  []Drive
}

// Discover resolves the smartctl binary and enumerates the drives
// matching pattern. An empty match is not an error; an appliance can
// run without spinning drives.
func Discover(pattern, binary string, timeout time.Duration) (*Querier, error) {
	errFactory := errors.New()

	path, err := exec.LookPath(binary)
	if err != nil {
		return nil, errFactory.Wrap(ErrSmartctlNotFound, err).WithData(struct{ Binary string }{Binary: binary})
	}

	devices, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errFactory.Wrap(ErrDiscoveryFailed, err).WithData(struct{ Pattern string }{Pattern: pattern})
	}

	drives := make([]Drive, 0, len(devices))
	for _, device := range devices {
		drives = append(drives, Drive{Device: device})
	}

	logger.Debug().Str("smartctl", path).Int("drives", len(drives)).Msg("Enumerated SATA drives")

	return &Querier{
		binary:  path,
		timeout: timeout,
		drives:  drives,
	}, nil
}

func (q *Querier) Drives() []Drive {
	return q.drives
}

// ReadTemperature runs a SMART attribute query against one drive and
// returns its reported temperature in whole degrees Celsius.
func (q *Querier) ReadTemperature(ctx context.Context, drive Drive) (int, error) {
	errFactory := errors.New()

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, q.binary, "-A", drive.Device).Output()
	if err != nil {
		return 0, errFactory.Wrap(ErrQueryFailed, err).WithData(struct{ Device string }{Device: drive.Device})
	}

	temp, ok := ParseTemperature(string(out))
	if !ok {
		return 0, errFactory.WithData(ErrNoTemperature, struct{ Device string }{Device: drive.Device})
	}

	return temp, nil
}

var (
	tempAttrRe    = regexp.MustCompile(`^\s*194\s+Temperature_Celsius(?:\s+\S+){7}\s+(\d+)`)
	airflowAttrRe = regexp.MustCompile(`^\s*190\s+Airflow_Temperature_Cel(?:\s+\S+){7}\s+(\d+)`)
)

// ParseTemperature extracts the drive temperature from smartctl -A
// output. Attribute 194 (Temperature_Celsius) is preferred; 190
// (Airflow_Temperature_Cel) is the fallback some vendors use. Both
// carry the temperature in the raw value column.
func ParseTemperature(output string) (int, bool) {
	for _, line := range strings.Split(output, "\n") {
		if m := tempAttrRe.FindStringSubmatch(line); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return v, true
			}
		}
	}

	for _, line := range strings.Split(output, "\n") {
		if m := airflowAttrRe.FindStringSubmatch(line); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				return v, true
			}
		}
	}

	return 0, false
}
