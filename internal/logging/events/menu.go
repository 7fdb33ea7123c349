package events

import "github.com/atomicstack/ascm/internal/logging"

type MenuTracer struct{}

var Menu = MenuTracer{}

func (MenuTracer) Loaded(path, title string, nodes int) {
	logging.Trace("menu.loaded", map[string]interface{}{"path": path, "title": title, "nodes": nodes})
}

func (MenuTracer) Changed(path string) {
	logging.Trace("menu.changed", map[string]interface{}{"path": path})
}

func (MenuTracer) ReloadFailed(path string, err error) {
	if err == nil {
		return
	}
	logging.Trace("menu.reload-failed", map[string]interface{}{"path": path, "error": err.Error()})
}
