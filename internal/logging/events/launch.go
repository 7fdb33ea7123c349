package events

import "github.com/atomicstack/ascm/internal/logging"

type LaunchTracer struct{}

var Launch = LaunchTracer{}

func (LaunchTracer) Start(label, mode string, argv []string) {
	logging.Trace("launch.start", map[string]interface{}{"label": label, "mode": mode, "argv": argv})
}

func (LaunchTracer) Exit(label string, code int) {
	logging.Trace("launch.exit", map[string]interface{}{"label": label, "code": code})
}

func (LaunchTracer) Error(label string, err error) {
	if err == nil {
		return
	}
	logging.Trace("launch.error", map[string]interface{}{"label": label, "error": err.Error()})
}
