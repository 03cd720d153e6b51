package retrieval

import (
	"log/slog"
	"time"
)

// Monitor receives retrieval telemetry. Implementations must be cheap and
// non-blocking; the coordinator calls them on the request path.
type Monitor interface {
	// RecordRetrieval is called once per retrieval with the probe count,
	// merged candidate count, retained count, best similarity, and elapsed
	// wall time.
	RecordRetrieval(probes, candidates, retained int, topScore float32, elapsed time.Duration)
}

type nopMonitor struct{}

func (nopMonitor) RecordRetrieval(int, int, int, float32, time.Duration) {}

// LogMonitor writes retrieval telemetry to a structured logger.
type LogMonitor struct {
	logger *slog.Logger
}

var _ Monitor = (*LogMonitor)(nil)

// NewLogMonitor creates a Monitor that logs at debug level.
func NewLogMonitor(logger *slog.Logger) *LogMonitor {
	return &LogMonitor{logger: logger}
}

func (m *LogMonitor) RecordRetrieval(probes, candidates, retained int, topScore float32, elapsed time.Duration) {
	m.logger.Debug("retrieval complete",
		"probes", probes,
		"candidates", candidates,
		"retained", retained,
		"top_score", topScore,
		"elapsed", elapsed,
	)
}
