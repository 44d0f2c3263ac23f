// Package recent implements the capped most-recent-first article list used
// as the unauthenticated approximation of the recently-viewed store: a
// repeat view moves the entry to the front instead of duplicating it, and
// the list never exceeds its cap.
package recent

// DefaultCap matches the portal UI, which renders at most five recent items.
const DefaultCap = 5

// Entry is one viewed article keyed by its canonical URL.
type Entry struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
	Source      string `json:"source,omitempty"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

// List is a bounded most-recent-first sequence with URL dedup.
type List struct {
	cap     int
	entries []Entry
}

func NewList(capacity int) *List {
	if capacity <= 0 {
		capacity = DefaultCap
	}
	return &List{cap: capacity}
}

// FromEntries rebuilds a list from a stored snapshot, re-applying the cap.
func FromEntries(capacity int, entries []Entry) *List {
	l := NewList(capacity)
	for i := len(entries) - 1; i >= 0; i-- {
		l.Push(entries[i])
	}
	return l
}

// Push records a view: any existing entry with the same URL is removed,
// the entry is inserted at the front, and the tail is trimmed to the cap.
func (l *List) Push(e Entry) {
	if e.URL == "" {
		return
	}
	kept := l.entries[:0]
	for _, cur := range l.entries {
		if cur.URL != e.URL {
			kept = append(kept, cur)
		}
	}
	l.entries = append([]Entry{e}, kept...)
	if len(l.entries) > l.cap {
		l.entries = l.entries[:l.cap]
	}
}

// Entries returns the list newest-first.
func (l *List) Entries() []Entry { return l.entries }

func (l *List) Len() int { return len(l.entries) }
