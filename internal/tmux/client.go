package tmux

import "strings"

// CurrentClientID returns the name of the tmux client displaying pane, or an
// empty string when it cannot be determined.
func CurrentClientID(socketPath, pane string) string {
	client, err := newTmux(socketPath)
	if err != nil {
		return ""
	}
	defer client.Close()
	name, err := client.DisplayMessage(strings.TrimSpace(pane), "#{client_name}")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(name)
}
