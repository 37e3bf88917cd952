package dataset

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/bastiangx/freqset/pkg/itemset"
	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// LabelEntry pairs a label with the item it names.
type LabelEntry struct {
	Label string
	Item  itemset.Item
}

// Labels maps human readable labels to items and back. Lookups by label
// prefix go through a patricia trie.
type Labels struct {
	trie  *patricia.Trie
	names map[itemset.Item]string
	next  itemset.Item
}

// NewLabels creates an empty label dictionary. Interned labels get ids from 1.
func NewLabels() *Labels {
	return &Labels{
		trie:  patricia.NewTrie(),
		names: make(map[itemset.Item]string),
		next:  1,
	}
}

// Intern returns the item of label, assigning the next free id on first use.
func (l *Labels) Intern(label string) itemset.Item {
	if item, ok := l.Lookup(label); ok {
		return item
	}
	for {
		if _, taken := l.names[l.next]; !taken {
			break
		}
		l.next++
	}
	item := l.next
	l.next++
	l.Assign(label, item)
	return item
}

// Assign binds label to a known item, as transcript course codes are.
// A later assignment of the same label wins.
func (l *Labels) Assign(label string, item itemset.Item) {
	key := patricia.Prefix(strings.ToLower(label))
	if prev := l.trie.Get(key); prev != nil && prev.(itemset.Item) != item {
		log.Debugf("Label %q reassigned from %d to %d", label, prev, item)
		delete(l.names, prev.(itemset.Item))
	}
	if old, ok := l.names[item]; ok && !strings.EqualFold(old, label) {
		l.trie.Delete(patricia.Prefix(strings.ToLower(old)))
	}
	l.trie.Set(key, item)
	l.names[item] = label
}

// Lookup returns the item named label, case insensitively.
func (l *Labels) Lookup(label string) (itemset.Item, bool) {
	v := l.trie.Get(patricia.Prefix(strings.ToLower(label)))
	if v == nil {
		return 0, false
	}
	return v.(itemset.Item), true
}

// Name returns the label of item.
func (l *Labels) Name(item itemset.Item) (string, bool) {
	name, ok := l.names[item]
	return name, ok
}

// Len returns the number of labeled items.
func (l *Labels) Len() int {
	return len(l.names)
}

// Find returns every label starting with prefix, sorted by label.
func (l *Labels) Find(prefix string) []LabelEntry {
	var entries []LabelEntry
	err := l.trie.VisitSubtree(patricia.Prefix(strings.ToLower(prefix)), func(p patricia.Prefix, v patricia.Item) error {
		item := v.(itemset.Item)
		entries = append(entries, LabelEntry{Label: l.names[item], Item: item})
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting label trie: %v", err)
		return nil
	}
	slices.SortFunc(entries, func(a, b LabelEntry) int {
		return strings.Compare(strings.ToLower(a.Label), strings.ToLower(b.Label))
	})
	return entries
}

// Entries returns the whole dictionary sorted by item.
func (l *Labels) Entries() []LabelEntry {
	entries := make([]LabelEntry, 0, len(l.names))
	for item, name := range l.names {
		entries = append(entries, LabelEntry{Label: name, Item: item})
	}
	slices.SortFunc(entries, func(a, b LabelEntry) int { return cmp.Compare(a.Item, b.Item) })
	return entries
}

// Format renders an itemset with labels where known: {12:Algebra,40}.
func (l *Labels) Format(s itemset.Itemset) string {
	if l == nil || len(l.names) == 0 {
		return s.String()
	}
	var b strings.Builder
	b.WriteByte('{')
	for i, item := range s {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(uint64(item), 10))
		if name, ok := l.names[item]; ok {
			b.WriteByte(':')
			b.WriteString(name)
		}
	}
	b.WriteByte('}')
	return b.String()
}
