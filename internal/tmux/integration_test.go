package tmux

import (
	"strings"
	"testing"

	"github.com/atomicstack/ascm/internal/testutil"
)

func TestCurrentClientIDAgainstServer(t *testing.T) {
	socket := testutil.StartTmuxServer(t, "ascm-test")
	out, err := testutil.TmuxCommand(socket, "display-message", "-t", "ascm-test", "-p", "#{pane_id}").Output()
	if err != nil {
		t.Fatalf("get pane id: %v", err)
	}
	pane := strings.TrimSpace(string(out))
	got := CurrentClientID(socket, pane)
	if strings.ContainsAny(got, "\n\r") {
		t.Fatalf("client name not trimmed: %q", got)
	}
	t.Logf("CurrentClientID returned: %q", got)
}
