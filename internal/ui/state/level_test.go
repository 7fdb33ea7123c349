package state

import "testing"

func TestPositionOfFollowsFilter(t *testing.T) {
	level := newTestLevel("alpha", "beta", "gamma")
	if pos := level.PositionOf(2); pos != 2 {
		t.Fatalf("expected unfiltered position 2, got %d", pos)
	}
	level.SetFilter("gam", 3)
	if pos := level.PositionOf(2); pos != 0 {
		t.Fatalf("expected gamma first after filtering, got %d", pos)
	}
	if pos := level.PositionOf(0); pos != -1 {
		t.Fatalf("expected alpha filtered out, got %d", pos)
	}
	item, ok := level.Current()
	if !ok || item.Index != 2 {
		t.Fatalf("expected gamma under cursor, got %#v", item)
	}
}

func TestCurrentOnEmptyLevel(t *testing.T) {
	level := newTestLevel()
	if _, ok := level.Current(); ok {
		t.Fatalf("expected no current item")
	}
}

func TestUpdateItemsKeepsFilter(t *testing.T) {
	level := newTestLevel("alpha", "beta")
	level.SetFilter("bet", 3)
	level.UpdateItems(newTestLevel("alpha", "beta", "better").Full)
	if len(level.Items) != 2 {
		t.Fatalf("expected two matches after update, got %#v", level.Items)
	}
}
