package layout

import "slices"

// Cache memoizes the layout of the most recent node set.
// It is not safe for concurrent use; each view owns one.
type Cache struct {
	strategy Strategy
	items    []Item
	pos      Positions
	valid    bool
}

// Get returns the positions for items, recomputing only when the strategy or
// the node set differs from the previous call.
func (c *Cache) Get(s Strategy, items []Item) Positions {
	if c.valid && c.strategy == s && slices.Equal(c.items, items) {
		return c.pos
	}
	c.strategy = s
	c.items = slices.Clone(items)
	c.pos = Compute(s, items)
	c.valid = true
	return c.pos
}

// Invalidate forces the next Get to recompute.
func (c *Cache) Invalidate() {
	c.valid = false
}
