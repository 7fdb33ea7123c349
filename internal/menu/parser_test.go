package menu

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

const sampleMenu = `# launcher menu
Main

    Editors
        Vim &&t  vim
        Scratch &&
    System
        Shutdown &&wr  shutdown now
        Update &&br  apt-get update
    Later
    Logs &&w  journalctl -n 50 | less
`

var ignoreParent = cmpopts.IgnoreFields(Node{}, "Parent")

func mustParse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := Parse("test.menu", []byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	return tree
}

func TestParseSingleCommandWithAttributes(t *testing.T) {
	tree := mustParse(t, "Main\n    Shutdown &&wr  shutdown now\n")
	if tree.Title() != "Main" {
		t.Fatalf("expected title Main, got %q", tree.Title())
	}
	if len(tree.Root.Children) != 1 {
		t.Fatalf("expected one child, got %d", len(tree.Root.Children))
	}
	child := tree.Root.Children[0]
	if child.Kind != KindCommand {
		t.Fatalf("expected command node, got %v", child.Kind)
	}
	if child.Label != "Shutdown" || child.Command != "shutdown now" {
		t.Fatalf("unexpected node %q / %q", child.Label, child.Command)
	}
	want := Attributes{Wait: true, Root: true}
	if child.Attributes != want {
		t.Fatalf("expected attributes %+v, got %+v", want, child.Attributes)
	}
}

func TestParseWaitAndBackgroundConflict(t *testing.T) {
	_, err := Parse("test.menu", []byte("Main\n    Shutdown &&wrb  shutdown now\n"))
	if !errors.Is(err, ErrConflictingAttributes) {
		t.Fatalf("expected conflicting attributes error, got %v", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) || perr.Line != 2 {
		t.Fatalf("expected parse error on line 2, got %#v", err)
	}
}

func TestParseNestedSubmenu(t *testing.T) {
	tree := mustParse(t, "Main\n    Sub\n        Item &&t  ls\n")
	sub := tree.Root.Children[0]
	if sub.Kind != KindSubmenu || sub.Label != "Sub" {
		t.Fatalf("expected submenu Sub, got %v %q", sub.Kind, sub.Label)
	}
	if len(sub.Children) != 1 {
		t.Fatalf("expected one entry in Sub, got %d", len(sub.Children))
	}
	item := sub.Children[0]
	if item.Kind != KindCommand || item.Command != "ls" {
		t.Fatalf("unexpected entry %v %q", item.Kind, item.Command)
	}
	if item.Attributes != (Attributes{Terminal: true}) {
		t.Fatalf("expected terminal only, got %+v", item.Attributes)
	}
	if item.Parent != sub || sub.Parent != tree.Root {
		t.Fatalf("parent links not set")
	}
}

func TestParseRejectsPartialIndentation(t *testing.T) {
	_, err := Parse("test.menu", []byte("Main\n   Bad &&  ls\n"))
	if !errors.Is(err, ErrIndentation) {
		t.Fatalf("expected indentation error, got %v", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if perr.Line != 2 {
		t.Fatalf("expected line 2, got %d", perr.Line)
	}
	if !strings.Contains(err.Error(), "line 2") || !strings.Contains(err.Error(), "test.menu") {
		t.Fatalf("error should cite file and line: %q", err.Error())
	}
}

func TestParseEmptySubmenu(t *testing.T) {
	tree := mustParse(t, "Main\n    Empty\n    Other &&  true\n")
	empty := tree.Root.Children[0]
	if empty.Kind != KindSubmenu || len(empty.Children) != 0 {
		t.Fatalf("expected empty submenu, got %v with %d children", empty.Kind, len(empty.Children))
	}
}

func TestParseAcceptsIndentedTitle(t *testing.T) {
	tree, err := Parse("test.menu", []byte("  Main  \n    Top &&t  top\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if tree.Title() != "Main" {
		t.Fatalf("expected trimmed title Main, got %q", tree.Title())
	}
	if len(tree.Root.Children) != 1 || tree.Root.Children[0].Depth != 1 {
		t.Fatalf("expected one depth-1 entry, got %+v", tree.Root.Children)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
		line int
	}{
		{"empty", "", ErrNoTitle, 0},
		{"only comments", "# nothing\n\n   # still nothing\n", ErrNoTitle, 0},
		{"title with command", "Main &&  ls\n", ErrTitleCommand, 1},
		{"jump", "Main\n        Deep\n", ErrIndentJump, 2},
		{"entry at title depth", "Main\nSecond\n", ErrOutsideTitle, 2},
		{"tab", "Main\n\tItem\n", ErrTabIndentation, 2},
		{"unknown letter", "Main\n    X &&wz  ls\n", ErrUnknownAttribute, 2},
		{"empty label", "Main\n    &&  ls\n", ErrEmptyLabel, 2},
		{"child of command", "Main\n    Run &&  ls\n        Nested\n", ErrCommandChildren, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("test.menu", []byte(tc.src))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			if perr.Line != tc.line {
				t.Fatalf("expected line %d, got %d", tc.line, perr.Line)
			}
		})
	}
}

func TestParseConflictIgnoresOtherLetters(t *testing.T) {
	for _, letters := range []string{"wb", "bw", "wtb", "rbtw", "wbz"} {
		_, err := Parse("test.menu", []byte("Main\n    X &&"+letters+"  ls\n"))
		if !errors.Is(err, ErrConflictingAttributes) {
			t.Fatalf("letters %q: expected conflict, got %v", letters, err)
		}
	}
}

func TestParseIsDeterministic(t *testing.T) {
	first := mustParse(t, sampleMenu)
	second := mustParse(t, sampleMenu)
	if diff := cmp.Diff(first, second, ignoreParent); diff != "" {
		t.Fatalf("trees differ (-first +second):\n%s", diff)
	}
}

func TestParseStructuralInvariants(t *testing.T) {
	tree := mustParse(t, sampleMenu)
	tree.Walk(func(n *Node) bool {
		if n.Parent != nil && n.Depth != n.Parent.Depth+1 {
			t.Fatalf("node %q at depth %d under parent depth %d", n.Label, n.Depth, n.Parent.Depth)
		}
		if n.Kind == KindCommand && len(n.Children) > 0 {
			t.Fatalf("command %q has children", n.Label)
		}
		if len(n.Children) > 0 && n.Kind != KindSubmenu {
			t.Fatalf("node %q has children but kind %v", n.Label, n.Kind)
		}
		return true
	})
	if got := tree.Count(); got != 9 {
		t.Fatalf("expected 9 nodes, got %d", got)
	}
}

func TestParseToleratesCRLF(t *testing.T) {
	tree := mustParse(t, "Main\r\n    Run &&t  ls -l\r\n")
	if cmd := tree.Root.Children[0].Command; cmd != "ls -l" {
		t.Fatalf("expected command without carriage return, got %q", cmd)
	}
}

func TestParsePlaceholderCommand(t *testing.T) {
	tree := mustParse(t, sampleMenu)
	scratch := tree.Root.Children[0].Children[1]
	if scratch.Label != "Scratch" {
		t.Fatalf("unexpected node %q", scratch.Label)
	}
	if !scratch.IsPlaceholder() {
		t.Fatalf("expected placeholder command")
	}
}

func TestParseKeepsShellMetacharacters(t *testing.T) {
	tree := mustParse(t, sampleMenu)
	logs := tree.Root.Children[3]
	if logs.Command != "journalctl -n 50 | less" {
		t.Fatalf("command altered: %q", logs.Command)
	}
}

func TestParseFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.menu")
	_, err := ParseFile(path)
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T (%v)", err, err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist cause, got %v", err)
	}
}

func TestParseFileReadsFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.menu")
	if err := os.WriteFile(path, []byte(sampleMenu), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	tree, err := ParseFile(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if tree.Source != path {
		t.Fatalf("expected source %q, got %q", path, tree.Source)
	}
}
