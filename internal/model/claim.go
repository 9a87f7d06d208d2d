package model

import "strings"

// claimEntry pairs one distinct value with the sources that reported it.
type claimEntry struct {
	value   Value
	sources []string
}

// Claim collects every distinct value reported for one attribute of one
// project, each tagged with its reporting sources. Entries keep first-seen
// order; sources within an entry keep the order they were added.
type Claim struct {
	entries []claimEntry
}

// Add records value as reported by source. Missing values (empty string,
// zero time, zero Value) are ignored; the integer 0 and boolean false are
// recorded. A value semantically equal to an existing entry collapses into
// it, appending source to that entry's source list.
func (c *Claim) Add(value Value, source string) {
	if value.IsMissing() {
		return
	}
	for i := range c.entries {
		if c.entries[i].value.Equal(value) {
			c.entries[i].sources = append(c.entries[i].sources, source)
			return
		}
	}
	c.entries = append(c.entries, claimEntry{value: value, sources: []string{source}})
}

// Values returns the distinct values in first-seen order.
func (c *Claim) Values() []Value {
	out := make([]Value, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.value
	}
	return out
}

// Empty reports whether no value has been recorded.
func (c *Claim) Empty() bool {
	return len(c.entries) == 0
}

// Format renders the claim as a single line: distinct values joined by "; ",
// each optionally suffixed with its sources in parentheses. An empty claim
// renders as the empty string.
func (c *Claim) Format(showSources bool) string {
	parts := make([]string, len(c.entries))
	for i, e := range c.entries {
		s := e.value.String()
		if showSources {
			s += " (" + strings.Join(e.sources, ", ") + ")"
		}
		parts[i] = s
	}
	return strings.Join(parts, "; ")
}

// Less orders claims by lexicographic comparison of their value sequences.
// An empty claim sorts before any non-empty one, which lets projects missing
// an attribute sort first.
func (c *Claim) Less(o *Claim) bool {
	for i := range c.entries {
		if i >= len(o.entries) {
			return false
		}
		switch c.entries[i].value.Compare(o.entries[i].value) {
		case -1:
			return true
		case 1:
			return false
		}
	}
	return len(c.entries) < len(o.entries)
}
