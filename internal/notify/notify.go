// Package notify delivers human-readable commit events to an optional
// external sink.
package notify

import (
	"context"
	"fmt"
	"log/syslog"

	"codeberg.org/mutker/fanctl/internal/control"
	"codeberg.org/mutker/fanctl/internal/errors"
)

const syslogTag = "fanctl"

// New builds the notifier for the configured sink. The "off" sink
// swallows events; "syslog" writes to the local daemon facility;
// "command" runs a shell hook per commit.
func New(kind, command string) (control.Notifier, error) {
	errFactory := errors.New()

	switch kind {
	case "", "off":
		return NewNop(), nil
	case "syslog":
		return NewSyslog(syslogTag)
	case "command":
		if command == "" {
			return nil, errFactory.WithMessage(ErrInvalidSink, "command sink requires notify_command")
		}
		return NewCommand(command), nil
	default:
		return nil, errFactory.WithData(ErrInvalidSink, struct{ Kind string }{Kind: kind})
	}
}

// Format renders a commit event as a single human-readable line.
func Format(ev control.CommitEvent) string {
	return fmt.Sprintf("fan duty cycle %d -> %d (%s zone, system %s, nvme %s, hdd %s, fan %d RPM)",
		ev.OldDuty, ev.NewDuty, ev.Winner,
		formatTemp(ev.Temps[control.ZoneSystem]),
		formatTemp(ev.Temps[control.ZoneNVMe]),
		formatTemp(ev.Temps[control.ZoneHDD]),
		ev.FanRPM)
}

func formatTemp(temp int) string {
	if temp == control.UnknownTemperature {
		return "n/a"
	}

	return fmt.Sprintf("%dC", temp)
}

type nopNotifier struct{}

// NewNop returns a notifier that discards every event.
func NewNop() control.Notifier {
	return nopNotifier{}
}

func (nopNotifier) Notify(context.Context, control.CommitEvent) error {
	return nil
}

type syslogNotifier struct {
	w *syslog.Writer
}

// NewSyslog connects to the local syslog daemon.
func NewSyslog(tag string) (control.Notifier, error) {
	errFactory := errors.New()

	w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_DAEMON, tag)
	if err != nil {
		return nil, errFactory.Wrap(ErrSyslogUnavailable, err)
	}

	return &syslogNotifier{w: w}, nil
}

func (n *syslogNotifier) Notify(_ context.Context, ev control.CommitEvent) error {
	errFactory := errors.New()

	if err := n.w.Info(Format(ev)); err != nil {
		return errFactory.Wrap(ErrDeliveryFailed, err)
	}

	return nil
}

func (n *syslogNotifier) Close() error {
	return n.w.Close()
}
