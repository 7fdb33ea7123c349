package launch

import (
	"path/filepath"
)

// DefaultTerminals is the discovery order used when no emulator is configured.
var DefaultTerminals = []string{"x-terminal-emulator", "xfce4-terminal", "gnome-terminal", "konsole", "xterm"}

// TmuxTerminal selects tmux popups instead of a terminal emulator.
const TmuxTerminal = "tmux"

// Terminal is a terminal emulator able to run a shell script in a new window.
type Terminal struct {
	// Path is the emulator executable.
	Path string
	// Args are passed before the emulator's own title and exec flags.
	Args []string
	Icon string
}

// Argv returns the full command line running script through shell in a new
// window titled title.
func (t Terminal) Argv(title, shell, script string) []string {
	argv := append([]string{t.Path}, t.Args...)
	switch filepath.Base(t.Path) {
	case "xfce4-terminal":
		argv = append(argv, "--disable-server", "--title", title)
		if t.Icon != "" {
			argv = append(argv, "--icon", t.Icon)
		}
		argv = append(argv, "-x")
	case "gnome-terminal":
		argv = append(argv, "--wait", "--title", title, "--")
	case "konsole":
		argv = append(argv, "--nofork", "-p", "tabtitle="+title, "-e")
	default:
		argv = append(argv, "-T", title, "-e")
	}
	return append(argv, shell, "-c", script)
}

// findTerminal returns the first candidate lookPath resolves.
func findTerminal(candidates []string, lookPath func(string) (string, error)) (string, error) {
	for _, name := range candidates {
		if name == "" {
			continue
		}
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", ErrNoTerminal
}
