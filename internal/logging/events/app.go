package events

import "github.com/atomicstack/ascm/internal/logging"

type AppTracer struct{}

var App = AppTracer{}

func (AppTracer) Start(payload map[string]interface{}) {
	logging.Trace("app.start", payload)
}

// Frontend records which UI was asked for and which one runs.
func (AppTracer) Frontend(requested, resolved string) {
	logging.Trace("app.frontend", map[string]interface{}{
		"requested": requested,
		"resolved":  resolved,
		"fallback":  resolved == "line" && requested != "line",
	})
}

func (AppTracer) Shutdown(reason string) {
	logging.Trace("app.shutdown", map[string]interface{}{"reason": reason})
}
