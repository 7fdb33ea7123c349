package tmux

// Popup describes a display-popup invocation.
type Popup struct {
	SocketPath string
	// Client targets a specific tmux client; empty uses the current one.
	Client string
	Title  string
	Width  string
	Height string
	// Script is run by the popup's shell. The popup closes when it exits.
	Script string
}

const defaultPopupSize = "80%"

// Args returns the tmux argument vector for the popup.
func (p Popup) Args() []string {
	args := baseArgs(p.SocketPath)
	args = append(args, "display-popup", "-E")
	if p.Client != "" {
		args = append(args, "-c", p.Client)
	}
	if p.Title != "" {
		args = append(args, "-T", p.Title)
	}
	args = append(args, "-w", orDefault(p.Width, defaultPopupSize), "-h", orDefault(p.Height, defaultPopupSize))
	return append(args, p.Script)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
