// Package alias expands named command templates from a JSON alias file.
//
// The file holds two string maps:
//
//	{
//	  "variables": {"host": "build01"},
//	  "aliases":   {"logs": "ssh §{host} journalctl -f"}
//	}
//
// Every §{name} marker in an alias is replaced by the variable's value.
package alias

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
)

var (
	ErrMissingSection = errors.New("missing top-level object")
	ErrEmptyKey       = errors.New("keys must not be empty")
	ErrNotString      = errors.New("values must be strings")
	ErrNestedVariable = errors.New("variables must not reference other variables")
	ErrUnknownAlias   = errors.New("unknown alias")
)

const (
	sectionVariables = "variables"
	sectionAliases   = "aliases"
	markerOpen       = "§{"
	markerClose      = "}"
)

// File is a parsed alias file.
type File struct {
	Path      string
	Variables map[string]string
	Aliases   map[string]string
}

// Load reads and validates the alias file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("alias file %s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Parse validates data as an alias document.
func Parse(data []byte) (*File, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	vars, err := section(doc, sectionVariables)
	if err != nil {
		return nil, err
	}
	aliases, err := section(doc, sectionAliases)
	if err != nil {
		return nil, err
	}
	for name, value := range vars {
		if strings.Contains(value, markerOpen) {
			return nil, fmt.Errorf("variable %q: %w", name, ErrNestedVariable)
		}
	}
	return &File{Variables: vars, Aliases: aliases}, nil
}

func section(doc map[string]json.RawMessage, name string) (map[string]string, error) {
	raw, ok := doc[name]
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, ErrMissingSection)
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil || generic == nil {
		return nil, fmt.Errorf("%q: %w", name, ErrMissingSection)
	}
	out := make(map[string]string, len(generic))
	for key, value := range generic {
		if key == "" {
			return nil, fmt.Errorf("%q: %w", name, ErrEmptyKey)
		}
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("%q key %q: %w", name, key, ErrNotString)
		}
		out[key] = s
	}
	return out, nil
}

// Expand substitutes every known §{name} marker in text. Unknown markers are
// left as written.
func (f *File) Expand(text string) string {
	for _, name := range sortedKeys(f.Variables) {
		text = strings.ReplaceAll(text, markerOpen+name+markerClose, f.Variables[name])
	}
	return text
}

// Command returns the expanded alias with args appended, each quoted for the
// shell.
func (f *File) Command(name string, args []string) (string, error) {
	template, ok := f.Aliases[name]
	if !ok {
		return "", fmt.Errorf("%q: %w", name, ErrUnknownAlias)
	}
	parts := []string{f.Expand(template)}
	for _, arg := range args {
		parts = append(parts, quote(arg))
	}
	return strings.Join(parts, " "), nil
}

// Names lists the aliases in sorted order.
func (f *File) Names() []string {
	return sortedKeys(f.Aliases)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func quote(s string) string {
	if s != "" && strings.IndexFunc(s, needsQuote) < 0 {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

func needsQuote(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return false
	}
	return !strings.ContainsRune("-_./=:,+@%", r)
}
