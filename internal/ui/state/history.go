package state

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

const (
	DefaultHistorySize = 100
	MaxHistorySize     = 10000
)

// History keeps the messages submitted during this process, oldest first,
// and a recall cursor over them. It is never persisted.
type History struct {
	entries []string
	limit   int
	pos     int
}

// NewHistory returns an empty history holding at most limit entries. Out of
// range limits are clamped.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = DefaultHistorySize
	}
	if limit > MaxHistorySize {
		limit = MaxHistorySize
	}
	return &History{limit: limit, pos: -1}
}

// Add records text unless it is blank or repeats the newest entry. It always
// ends recall.
func (h *History) Add(text string) {
	h.pos = -1
	if strings.TrimSpace(text) == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == text {
		return
	}
	if len(h.entries) >= h.limit {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = text
		return
	}
	h.entries = append(h.entries, text)
}

// Previous steps toward older entries and stops at the oldest.
func (h *History) Previous() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	switch {
	case h.pos == -1:
		h.pos = len(h.entries) - 1
	case h.pos > 0:
		h.pos--
	}
	return h.entries[h.pos], true
}

// Next steps toward newer entries. Stepping past the newest ends recall and
// reports an empty string so the caller can clear the field.
func (h *History) Next() (string, bool) {
	if h.pos == -1 {
		return "", false
	}
	if h.pos < len(h.entries)-1 {
		h.pos++
		return h.entries[h.pos], true
	}
	h.pos = -1
	return "", true
}

func (h *History) Recalling() bool {
	return h.pos != -1
}

// Position is the recall index, or -1 when not recalling.
func (h *History) Position() int {
	return h.pos
}

func (h *History) Reset() {
	h.pos = -1
}

func (h *History) Len() int {
	return len(h.entries)
}

func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// BestMatch finds the entry closest to query. Exact, prefix, and substring
// matches beat fuzzy ones, and newer entries win ties.
func (h *History) BestMatch(query string) (string, bool) {
	idx := bestMatchIndex(h.entries, query)
	if idx < 0 {
		return "", false
	}
	return h.entries[idx], true
}

func bestMatchIndex(entries []string, query string) int {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" || len(entries) == 0 {
		return -1
	}
	lower := strings.ToLower(trimmed)
	for i := len(entries) - 1; i >= 0; i-- {
		if strings.EqualFold(entries[i], trimmed) {
			return i
		}
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if strings.HasPrefix(strings.ToLower(entries[i]), lower) {
			return i
		}
	}
	for i := len(entries) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(entries[i]), lower) {
			return i
		}
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, entries)
	if len(ranks) == 0 {
		return -1
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance {
			best = rank
			continue
		}
		if rank.Distance == best.Distance && rank.OriginalIndex > best.OriginalIndex {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(entries) {
		return -1
	}
	return best.OriginalIndex
}
