package menu

import (
	"fmt"
	"strings"
)

// Attributes is the run policy of a command entry.
type Attributes struct {
	Wait       bool
	Terminal   bool
	Background bool
	Root       bool
}

// ResolveAttributes decodes attribute letters. Every flag defaults to off.
func ResolveAttributes(letters string) (Attributes, error) {
	if strings.ContainsRune(letters, 'w') && strings.ContainsRune(letters, 'b') {
		return Attributes{}, ErrConflictingAttributes
	}
	var attrs Attributes
	for _, r := range letters {
		switch r {
		case 'w':
			attrs.Wait = true
		case 't':
			attrs.Terminal = true
		case 'b':
			attrs.Background = true
		case 'r':
			attrs.Root = true
		default:
			return Attributes{}, fmt.Errorf("%w %q", ErrUnknownAttribute, r)
		}
	}
	return attrs, nil
}

// Letters renders the canonical attribute string.
func (a Attributes) Letters() string {
	var b strings.Builder
	if a.Wait {
		b.WriteByte('w')
	}
	if a.Terminal {
		b.WriteByte('t')
	}
	if a.Background {
		b.WriteByte('b')
	}
	if a.Root {
		b.WriteByte('r')
	}
	return b.String()
}
