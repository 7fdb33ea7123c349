package tmux

import (
	"fmt"
	"os/user"
	"path/filepath"
	"strings"

	gotmux "github.com/atomicstack/gotmuxcc/gotmuxcc"
)

type tmuxClient interface {
	DisplayMessage(target, format string) (string, error)
	Close() error
}

var newTmux = func(socketPath string) (tmuxClient, error) {
	if socketPath != "" {
		return gotmux.NewTmux(socketPath)
	}
	return gotmux.DefaultTmux()
}

// Env is the subset of the process environment tmux detection depends on.
type Env struct {
	TMUX       string
	TMUXPane   string
	TMUXTmpDir string
}

// EnvFromLookup reads Env through lookup, typically os.Getenv.
func EnvFromLookup(lookup func(string) string) Env {
	return Env{
		TMUX:       lookup("TMUX"),
		TMUXPane:   lookup("TMUX_PANE"),
		TMUXTmpDir: lookup("TMUX_TMPDIR"),
	}
}

// Inside reports whether the process runs within a tmux client.
func (e Env) Inside() bool {
	return strings.TrimSpace(e.TMUX) != ""
}

// ResolveSocketPath picks the tmux server socket: an explicit value first,
// then the server of the enclosing session, then the per-user default.
func ResolveSocketPath(flagValue string, env Env) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env.TMUX != "" {
		parts := strings.Split(env.TMUX, ",")
		if len(parts) > 0 && parts[0] != "" {
			return parts[0], nil
		}
	}
	baseDir := env.TMUXTmpDir
	if baseDir == "" {
		baseDir = "/tmp"
	}
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return filepath.Join(baseDir, fmt.Sprintf("tmux-%s", u.Uid), "default"), nil
}

func baseArgs(socketPath string) []string {
	if strings.TrimSpace(socketPath) == "" {
		return []string{}
	}
	return []string{"-S", socketPath}
}
