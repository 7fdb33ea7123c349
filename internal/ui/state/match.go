package state

import (
	"strings"
	"unicode/utf8"

	"github.com/atomicstack/ascm/internal/menu"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SetFilter replaces the query, refilters, and places the cursor: on the
// best match while filtering, back where it was once the query is cleared.
func (l *Level) SetFilter(query string, cursor int) {
	wasFiltering := strings.TrimSpace(l.Filter) != ""
	filtering := strings.TrimSpace(query) != ""
	if filtering && !wasFiltering {
		l.LastCursor = l.Cursor
	}
	l.Filter = query
	l.FilterCursor = min(max(cursor, 0), utf8.RuneCountInString(query))
	l.Items = FilterItems(l.Full, query)

	switch {
	case filtering:
		l.Cursor = BestMatchIndex(l.Items, query)
	case wasFiltering:
		l.Cursor = l.LastCursor
		l.LastCursor = -1
	}
	if len(l.Items) == 0 {
		l.Cursor, l.ViewportOffset = 0, 0
		return
	}
	l.Cursor = min(max(l.Cursor, 0), len(l.Items)-1)
	if l.ViewportOffset >= len(l.Items) {
		l.ViewportOffset = 0
	}
}

// FilterItems keeps the items whose label fuzzily contains query, in their
// original order.
func FilterItems(items []menu.Item, query string) []menu.Item {
	q := strings.TrimSpace(query)
	out := make([]menu.Item, 0, len(items))
	for _, item := range items {
		if q == "" || fuzzy.MatchNormalizedFold(q, item.Label) {
			out = append(out, item)
		}
	}
	return out
}

// BestMatchIndex ranks exact label matches first, then prefixes, then
// substrings, then fuzzy matches by distance. Ties go to the earlier item.
// It returns 0 when nothing matches and -1 for no items.
func BestMatchIndex(items []menu.Item, query string) int {
	if len(items) == 0 {
		return -1
	}
	q := strings.TrimSpace(query)
	if q == "" {
		return 0
	}
	best, bestScore := 0, -1
	for i, item := range items {
		score, ok := matchScore(item.Label, q)
		if ok && (bestScore < 0 || score < bestScore) {
			best, bestScore = i, score
		}
	}
	return best
}

func matchScore(label, query string) (int, bool) {
	l, q := strings.ToLower(label), strings.ToLower(query)
	switch {
	case l == q:
		return 0, true
	case strings.HasPrefix(l, q):
		return 1, true
	case strings.Contains(l, q):
		return 2, true
	}
	if d := fuzzy.RankMatchNormalizedFold(query, label); d >= 0 {
		return 3 + d, true
	}
	return 0, false
}
