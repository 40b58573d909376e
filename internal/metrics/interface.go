package metrics

import (
	"context"
	"time"
)

// MetricsCollector defines the core domain interface
type MetricsCollector interface {
	Record(ctx context.Context, snapshot *MetricsSnapshot) error
	Close() error
}

// Repository defines the interface for metrics data storage
type MetricsRepository interface {
	Record(snapshot *MetricsSnapshot) error
	Close() error
}

// MetricsSnapshot represents one control cycle as stored
type MetricsSnapshot struct {
	Timestamp time.Time
	Duty      DutyMetrics
	Zones     ZoneMetrics
	Winner    string
	Committed bool
	FanRPM    int
}

// Domain value objects
type DutyMetrics struct {
	Applied int
	Target  int
}

type ZoneMetrics struct {
	System int
	NVMe   int
	HDD    int
}
