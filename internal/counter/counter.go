// Package counter provides the zero-defaulting quantity map used for
// stockpiles, costs, production queues and transport flows.
package counter

// Counter maps keys to signed integer amounts. Absent keys read as zero.
// Entries that return to zero (or go negative) are kept; only Reset and
// Delete remove keys. Iteration follows first-insertion order.
//
// The zero value is an empty counter ready for use. A Counter holds a map,
// so copies share storage; use Clone for an independent copy.
type Counter[K comparable] struct {
	amounts map[K]int
	order   []K
}

// New returns an empty counter.
func New[K comparable]() Counter[K] {
	return Counter[K]{}
}

// Of builds a counter from a literal map. Insertion order follows the
// order of keys, so callers that need a fixed order should use Add.
func Of[K comparable](m map[K]int) Counter[K] {
	var c Counter[K]
	for k, v := range m {
		c.Add(k, v)
	}
	return c
}

// Get returns the amount for key, or 0 when absent.
func (c *Counter[K]) Get(key K) int {
	if c == nil || c.amounts == nil {
		return 0
	}
	return c.amounts[key]
}

// Has reports whether key has an entry, even a zero one.
func (c *Counter[K]) Has(key K) bool {
	if c == nil || c.amounts == nil {
		return false
	}
	_, ok := c.amounts[key]
	return ok
}

// Add adjusts the amount for key by delta, creating the entry if needed.
func (c *Counter[K]) Add(key K, delta int) {
	if c.amounts == nil {
		c.amounts = make(map[K]int)
	}
	if _, ok := c.amounts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.amounts[key] += delta
}

// Set overwrites the amount for key.
func (c *Counter[K]) Set(key K, amount int) {
	c.Add(key, amount-c.Get(key))
}

// Delete removes key entirely.
func (c *Counter[K]) Delete(key K) {
	if c == nil || c.amounts == nil {
		return
	}
	if _, ok := c.amounts[key]; !ok {
		return
	}
	delete(c.amounts, key)
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Total sums every entry.
func (c *Counter[K]) Total() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, v := range c.amounts {
		total += v
	}
	return total
}

// Len returns the number of distinct keys.
func (c *Counter[K]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.amounts)
}

// Keys returns the keys in insertion order.
func (c *Counter[K]) Keys() []K {
	if c == nil || len(c.order) == 0 {
		return nil
	}
	out := make([]K, len(c.order))
	copy(out, c.order)
	return out
}

// Each calls fn for every entry in insertion order.
func (c *Counter[K]) Each(fn func(key K, amount int)) {
	if c == nil {
		return
	}
	for _, k := range c.order {
		fn(k, c.amounts[k])
	}
}

// All reports whether pred holds for every entry, stopping at the first
// failure. An empty counter satisfies any predicate.
func (c *Counter[K]) All(pred func(key K, amount int) bool) bool {
	if c == nil {
		return true
	}
	for _, k := range c.order {
		if !pred(k, c.amounts[k]) {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (c *Counter[K]) Clone() Counter[K] {
	var out Counter[K]
	if c == nil {
		return out
	}
	c.Each(func(k K, v int) { out.Add(k, v) })
	return out
}

// Scale returns a copy with every amount multiplied by n.
func (c *Counter[K]) Scale(n int) Counter[K] {
	var out Counter[K]
	c.Each(func(k K, v int) { out.Add(k, v*n) })
	return out
}

// Reset removes every entry.
func (c *Counter[K]) Reset() {
	c.amounts = nil
	c.order = nil
}

// Map returns a copy of the entries as a plain map.
func (c *Counter[K]) Map() map[K]int {
	out := make(map[K]int, c.Len())
	c.Each(func(k K, v int) { out[k] = v })
	return out
}
