package metrics

import (
	"time"

	"github.com/google/uuid"
)

// AlertType identifies the condition an alert describes.
type AlertType string

const (
	AlertLowFPS        AlertType = "low_fps"
	AlertHighFrameTime AlertType = "high_frame_time"
	AlertHighMemory    AlertType = "high_memory"
	AlertHighDrawCalls AlertType = "high_draw_calls"
	AlertGCPause       AlertType = "gc_pause"
	AlertQualityChange AlertType = "quality_change"
)

// Severity tags how urgent an alert is.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is a timestamped record of a threshold breach or notable event.
// GC-pause alerts are advisory only: the underlying detection is a
// heuristic and must never be treated as a hard error.
type Alert struct {
	ID        string
	Type      AlertType
	Severity  Severity
	Message   string
	Value     float64
	Threshold float64
	SimTime   float64 // seconds of accumulated simulation time
	Timestamp time.Time
}

func newAlert(t AlertType, sev Severity, msg string, value, threshold, simTime float64) Alert {
	return Alert{
		ID:        uuid.NewString(),
		Type:      t,
		Severity:  sev,
		Message:   msg,
		Value:     value,
		Threshold: threshold,
		SimTime:   simTime,
		Timestamp: time.Now(),
	}
}
