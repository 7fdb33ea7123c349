package config

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// Settings is the optional HCL settings file. Unset attributes keep the
// built-in defaults.
type Settings struct {
	Shell            string   `hcl:"shell,optional"`
	Terminal         string   `hcl:"terminal,optional"`
	TerminalArgs     []string `hcl:"terminal_args,optional"`
	Escalation       string   `hcl:"escalation,optional"`
	Editor           string   `hcl:"editor,optional"`
	ExitAfterCommand *bool    `hcl:"exit_after_command,optional"`
	ClampCursor      *bool    `hcl:"clamp_cursor,optional"`
}

// DefaultSettingsPath returns $XDG_CONFIG_HOME/ascm/settings.hcl, falling
// back to ~/.config. It returns "" when neither variable is set.
func DefaultSettingsPath(env map[string]string) string {
	base := env["XDG_CONFIG_HOME"]
	if base == "" {
		home := env["HOME"]
		if home == "" {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "ascm", "settings.hcl")
}

// LoadSettings parses and decodes the settings file at path. Expressions may
// reference env.NAME and home.
func LoadSettings(path string, env map[string]string) (Settings, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Settings{}, fmt.Errorf("failed to parse HCL file %s: %s", path, diags.Error())
	}

	var settings Settings
	diags = gohcl.DecodeBody(file.Body, evalContext(env), &settings)
	if diags.HasErrors() {
		return Settings{}, fmt.Errorf("failed to decode HCL file %s: %s", path, diags.Error())
	}
	return settings, nil
}

func evalContext(env map[string]string) *hcl.EvalContext {
	vars := make(map[string]cty.Value, len(env))
	for k, v := range env {
		if !hclsyntax.ValidIdentifier(k) {
			continue
		}
		vars[k] = cty.StringVal(v)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env":  cty.ObjectVal(vars),
			"home": cty.StringVal(env["HOME"]),
		},
	}
}
