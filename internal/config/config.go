package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/atomicstack/ascm/internal/app"
	"github.com/atomicstack/ascm/internal/launch"
	"github.com/atomicstack/ascm/internal/logging"
	"github.com/atomicstack/ascm/internal/tmux"
)

// Config captures runtime configuration for the application.
type Config struct {
	App      app.Config
	Logging  Logging
	Settings Settings
	// SettingsPath is the settings file that was read, if any.
	SettingsPath string
	Dump         bool
	Flags        map[string]string
	Args         []string
}

type Logging struct {
	FilePath string
	Level    string
	Trace    bool
}

const (
	envUI               = "ASCM_UI"
	envIcon             = "ASCM_ICON"
	envPkexec           = "ASCM_PKEXEC"
	envSocketPath       = "ASCM_SOCKET"
	envLogLevel         = "ASCM_LOG_LEVEL"
	envLogFile          = "ASCM_LOG_FILE"
	envTrace            = "ASCM_TRACE"
	envSettings         = "ASCM_SETTINGS"
	envExitAfterCommand = "ASCM_EXIT_AFTER_COMMAND"
	envClamp            = "ASCM_CLAMP"
	envShowFooter       = "ASCM_FOOTER"
	envWidth            = "ASCM_WIDTH"
	envHeight           = "ASCM_HEIGHT"
	envReloadInterval   = "ASCM_RELOAD_INTERVAL"
	envDump             = "ASCM_DUMP"
)

const (
	defaultReloadInterval = 2 * time.Second
	defaultEditor         = "vi"
)

// ErrUsage is returned when the menu file argument is missing or repeated.
var ErrUsage = errors.New("usage: ascm [options] MENU_FILE")

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("ascm", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	ui := fs.String("ui", envOrDefault(env, envUI, string(app.FrontendAuto)), "frontend: auto, tui or line")
	icon := fs.String("icon", envOrDefault(env, envIcon, ""), "icon passed to terminal emulators that support one")
	pkexec := fs.Bool("pkexec", envOrBool(env, envPkexec, false), "use pkexec instead of sudo for root entries")
	socket := fs.String("socket", envOrDefault(env, envSocketPath, ""), "path to the tmux socket used for popup terminals")
	logLevel := fs.String("log-level", envOrDefault(env, envLogLevel, "info"), "log verbosity: debug, info, warn or error")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	settingsPath := fs.String("settings", envOrDefault(env, envSettings, ""), "path to the HCL settings file")
	exitAfter := fs.Bool("exit-after-command", envOrBool(env, envExitAfterCommand, false), "quit after a command completes successfully")
	clamp := fs.Bool("clamp", envOrBool(env, envClamp, false), "stop the cursor at list ends instead of wrapping")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "enable footer hint row (disabled by default)")
	width := fs.Int("width", envOrInt(env, envWidth, 0), "desired viewport width in cells (0 uses terminal width)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "desired viewport height in rows (0 uses terminal height)")
	reload := fs.Duration("reload-interval", envOrDuration(env, envReloadInterval, defaultReloadInterval), "menu file poll interval (0 disables reloading)")
	dump := fs.Bool("dump", envOrBool(env, envDump, false), "print the parsed menu tree and exit")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if fs.NArg() != 1 {
		return Config{}, ErrUsage
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}
	if *reload < 0 {
		return Config{}, fmt.Errorf("reload-interval must be >= 0 (got %s)", *reload)
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })
	for name, key := range map[string]string{"exit-after-command": envExitAfterCommand, "clamp": envClamp} {
		if _, ok := env[key]; ok {
			explicit[name] = true
		}
	}

	resolvedSettings := *settingsPath
	if resolvedSettings == "" {
		if candidate := DefaultSettingsPath(env); candidate != "" {
			if _, err := os.Stat(candidate); err == nil {
				resolvedSettings = candidate
			}
		}
	}
	var settings Settings
	if resolvedSettings != "" {
		var err error
		if settings, err = LoadSettings(resolvedSettings, env); err != nil {
			return Config{}, err
		}
	}

	escalationName := settings.Escalation
	if *pkexec {
		escalationName = string(launch.EscalationPkexec)
	}
	escalation, err := launch.ParseEscalation(escalationName)
	if err != nil {
		return Config{}, fmt.Errorf("settings %s: %w", resolvedSettings, err)
	}

	cfg := Config{
		App: app.Config{
			MenuFile:         fs.Arg(0),
			Frontend:         app.Frontend(strings.ToLower(*ui)),
			Width:            *width,
			Height:           *height,
			ShowFooter:       *footer,
			Clamp:            boolSetting(explicit["clamp"], *clamp, settings.ClampCursor),
			ExitAfterCommand: boolSetting(explicit["exit-after-command"], *exitAfter, settings.ExitAfterCommand),
			Escalation:       escalation,
			Editor:           editor(settings.Editor, env),
			ReloadInterval:   *reload,
			Launch: launch.Options{
				Shell:        settings.Shell,
				Terminal:     settings.Terminal,
				TerminalArgs: settings.TerminalArgs,
				Icon:         *icon,
				SocketPath:   *socket,
				Tmux:         tmux.EnvFromLookup(func(key string) string { return env[key] }),
			},
		},
		Logging: Logging{
			FilePath: *logFile,
			Level:    *logLevel,
			Trace:    *trace,
		},
		Settings:     settings,
		SettingsPath: resolvedSettings,
		Dump:         *dump,
		Flags: map[string]string{
			"ui":               *ui,
			"icon":             *icon,
			"pkexec":           strconv.FormatBool(*pkexec),
			"socket":           *socket,
			"logLevel":         *logLevel,
			"logFile":          *logFile,
			"trace":            strconv.FormatBool(*trace),
			"settings":         resolvedSettings,
			"exitAfterCommand": strconv.FormatBool(*exitAfter),
			"clamp":            strconv.FormatBool(*clamp),
			"footer":           strconv.FormatBool(*footer),
			"width":            strconv.Itoa(*width),
			"height":           strconv.Itoa(*height),
			"reloadInterval":   reload.String(),
			"dump":             strconv.FormatBool(*dump),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

// boolSetting lets an explicit flag or environment value override the
// settings file.
func boolSetting(explicit, flagValue bool, setting *bool) bool {
	if explicit || setting == nil {
		return flagValue
	}
	return *setting
}

func editor(setting string, env map[string]string) string {
	for _, candidate := range []string{setting, env["VISUAL"], env["EDITOR"]} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return defaultEditor
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrDuration(env map[string]string, key string, fallback time.Duration) time.Duration {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks option values that flag parsing cannot.
func Validate(cfg Config) error {
	switch cfg.App.Frontend {
	case app.FrontendAuto, app.FrontendTUI, app.FrontendLine:
	default:
		return fmt.Errorf("unknown ui %q (want auto, tui or line)", cfg.App.Frontend)
	}
	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return err
	}
	if strings.TrimSpace(cfg.App.MenuFile) == "" {
		return ErrUsage
	}
	return nil
}
