package notify

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"codeberg.org/mutker/fanctl/internal/control"
	"codeberg.org/mutker/fanctl/internal/errors"
)

type commandNotifier struct {
	command string
}

// NewCommand returns a notifier that runs a shell command per commit.
// The event is passed in FANCTL_* environment variables so hooks can
// pick the fields they care about.
func NewCommand(command string) control.Notifier {
	return &commandNotifier{command: command}
}

func (n *commandNotifier) Notify(ctx context.Context, ev control.CommitEvent) error {
	errFactory := errors.New()

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", n.command)
	cmd.Env = append(os.Environ(), environ(ev)...)

	if out, err := cmd.CombinedOutput(); err != nil {
		return errFactory.Wrap(ErrDeliveryFailed, err).WithData(struct {
			Command string
			Output  string
		}{
			Command: n.command,
			Output:  strings.TrimSpace(string(out)),
		})
	}

	return nil
}

func environ(ev control.CommitEvent) []string {
	return []string{
		"FANCTL_EVENT=" + Format(ev),
		fmt.Sprintf("FANCTL_OLD_DUTY=%d", ev.OldDuty),
		fmt.Sprintf("FANCTL_NEW_DUTY=%d", ev.NewDuty),
		"FANCTL_WINNER=" + ev.Winner.String(),
		fmt.Sprintf("FANCTL_SYSTEM_TEMP=%d", ev.Temps[control.ZoneSystem]),
		fmt.Sprintf("FANCTL_NVME_TEMP=%d", ev.Temps[control.ZoneNVMe]),
		fmt.Sprintf("FANCTL_HDD_TEMP=%d", ev.Temps[control.ZoneHDD]),
		fmt.Sprintf("FANCTL_FAN_RPM=%d", ev.FanRPM),
	}
}
