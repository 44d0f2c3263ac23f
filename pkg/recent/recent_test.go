package recent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func entry(url string) Entry { return Entry{URL: url, Title: "t-" + url} }

func TestPush_NewestFirst(t *testing.T) {
	l := NewList(5)
	l.Push(entry("a"))
	l.Push(entry("b"))
	l.Push(entry("c"))

	got := l.Entries()
	assert.Equal(t, "c", got[0].URL)
	assert.Equal(t, "b", got[1].URL)
	assert.Equal(t, "a", got[2].URL)
}

func TestPush_DedupMovesToFront(t *testing.T) {
	l := NewList(5)
	l.Push(entry("a"))
	l.Push(entry("b"))
	l.Push(entry("a"))

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, "a", l.Entries()[0].URL)
	assert.Equal(t, "b", l.Entries()[1].URL)
}

func TestPush_CapTrimsOldest(t *testing.T) {
	l := NewList(5)
	for _, u := range []string{"a", "b", "c", "d", "e", "f"} {
		l.Push(entry(u))
	}

	assert.Equal(t, 5, l.Len())
	assert.Equal(t, "f", l.Entries()[0].URL)
	for _, e := range l.Entries() {
		assert.NotEqual(t, "a", e.URL, "oldest entry must fall off")
	}
}

func TestPush_EmptyURLIgnored(t *testing.T) {
	l := NewList(5)
	l.Push(Entry{Title: "no url"})
	assert.Equal(t, 0, l.Len())
}

func TestFromEntries_ReappliesCap(t *testing.T) {
	snapshot := []Entry{entry("a"), entry("b"), entry("c"), entry("d"), entry("e"), entry("f"), entry("a")}
	l := FromEntries(5, snapshot)

	assert.Equal(t, 5, l.Len())
	assert.Equal(t, "a", l.Entries()[0].URL, "stored order is preserved, duplicates collapse")
}
