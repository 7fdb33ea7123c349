package ui

import (
	"strings"
	"testing"

	"github.com/atomicstack/ascm/internal/nav"
)

func TestFilterNarrowsAndSelects(t *testing.T) {
	f := newFixture(t, testMenu, nav.Policy{})
	f.h.Key("/")
	if f.h.Model().Mode() != ModeFilter {
		t.Fatalf("expected filter mode")
	}
	f.h.Type("ech")
	cur := f.h.Model().currentLevel()
	if len(cur.Items) != 1 || cur.Items[0].Label != "Echo" {
		t.Fatalf("expected only Echo, got %+v", cur.Items)
	}
	if got := f.h.Model().Machine().Selected(); got != 2 {
		t.Fatalf("expected machine to follow the filtered cursor, got %d", got)
	}
	f.h.Key("enter")
	if f.execs != 1 || f.prep.requests[0].Label != "Echo" {
		t.Fatalf("expected Echo launched, got %+v", f.prep.requests)
	}
	if f.h.Model().Mode() != ModeMenu {
		t.Fatalf("expected menu mode after selecting")
	}
	if cur := f.h.Model().currentLevel(); cur.Filter != "" || len(cur.Items) != 4 {
		t.Fatalf("expected filter cleared, got %q with %d items", cur.Filter, len(cur.Items))
	}
	if f.h.Model().Machine().Selected() != 2 {
		t.Fatalf("expected Echo to stay selected")
	}
}

func TestFilterKeysAreText(t *testing.T) {
	f := newFixture(t, testMenu, nav.Policy{})
	f.h.Key("/")
	f.h.Type("qe")
	if f.h.Quit() {
		t.Fatalf("q must be filter text while filtering")
	}
	if cur := f.h.Model().currentLevel(); cur.Filter != "qe" {
		t.Fatalf("expected filter qe, got %q", cur.Filter)
	}
	if !strings.Contains(plainView(f.h), `No matches for "qe"`) {
		t.Fatalf("expected no-match notice, got:\n%s", plainView(f.h))
	}
	f.h.Key("enter")
	if len(f.prep.requests) != 0 {
		t.Fatalf("enter without matches must not launch")
	}
	f.h.Key("backspace")
	f.h.Key("backspace")
	if cur := f.h.Model().currentLevel(); cur.Filter != "" || len(cur.Items) != 4 {
		t.Fatalf("expected empty filter, got %q", cur.Filter)
	}
}

func TestFilterEscapeRestoresMenu(t *testing.T) {
	f := newFixture(t, testMenu, nav.Policy{})
	f.h.Key("/")
	f.h.Type("o")
	f.h.Key("down")
	f.h.Key("esc")
	m := f.h.Model()
	if m.Mode() != ModeMenu {
		t.Fatalf("expected menu mode")
	}
	cur := m.currentLevel()
	if cur.Filter != "" || len(cur.Items) != 4 {
		t.Fatalf("expected full list, got %q/%d", cur.Filter, len(cur.Items))
	}
	if pos := cur.PositionOf(m.Machine().Selected()); pos != cur.Cursor {
		t.Fatalf("display cursor %d out of step with selection %d", cur.Cursor, m.Machine().Selected())
	}
	if m.Machine().Depth() != 1 {
		t.Fatalf("esc in filter mode must not navigate")
	}
}

func TestFilterPromptPlaceholder(t *testing.T) {
	f := newFixture(t, testMenu, nav.Policy{})
	if !strings.Contains(plainView(f.h), "press / to search") {
		t.Fatalf("expected idle prompt, got:\n%s", plainView(f.h))
	}
	f.h.Key("/")
	if !strings.Contains(plainView(f.h), "type to search") {
		t.Fatalf("expected filter placeholder, got:\n%s", plainView(f.h))
	}
	f.h.Type("to")
	if !strings.Contains(plainView(f.h), "» to") {
		t.Fatalf("expected typed filter in prompt, got:\n%s", plainView(f.h))
	}
}

func TestFilterHomeEndFollowMatches(t *testing.T) {
	f := newFixture(t, testMenu, nav.Policy{})
	f.h.Key("/")
	f.h.Type("o")
	f.h.Key("end")
	cur := f.h.Model().currentLevel()
	last := cur.Items[len(cur.Items)-1]
	if got := f.h.Model().Machine().Selected(); got != last.Index {
		t.Fatalf("expected selection on last match %d, got %d", last.Index, got)
	}
	f.h.Key("home")
	if got := f.h.Model().Machine().Selected(); got != cur.Items[0].Index {
		t.Fatalf("expected selection on first match, got %d", got)
	}
}
