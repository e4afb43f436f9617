package counter

import "testing"

func TestAbsentKeysReadZero(t *testing.T) {
	var c Counter[string]
	if got := c.Get("wheat"); got != 0 {
		t.Fatalf("expected 0 for absent key, got %d", got)
	}
	if c.Has("wheat") {
		t.Fatalf("zero value should have no entries")
	}
	if c.Total() != 0 {
		t.Fatalf("expected empty total 0, got %d", c.Total())
	}
}

func TestAddKeepsZeroAndNegativeEntries(t *testing.T) {
	var c Counter[string]
	c.Add("iron", 3)
	c.Add("iron", -3)
	c.Add("coal", -2)

	if !c.Has("iron") {
		t.Fatalf("entry returned to zero must be kept")
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", c.Len())
	}
	if c.Get("coal") != -2 {
		t.Fatalf("expected -2 coal, got %d", c.Get("coal"))
	}
	if c.Total() != -2 {
		t.Fatalf("expected total -2, got %d", c.Total())
	}
}

func TestInsertionOrder(t *testing.T) {
	var c Counter[string]
	c.Add("c", 1)
	c.Add("a", 2)
	c.Add("b", 3)
	c.Add("a", 1)

	keys := c.Keys()
	want := []string{"c", "a", "b"}
	if len(keys) != len(want) {
		t.Fatalf("expected %d keys, got %d", len(want), len(keys))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: expected %s, got %s", i, want[i], keys[i])
		}
	}

	c.Delete("a")
	keys = c.Keys()
	if len(keys) != 2 || keys[0] != "c" || keys[1] != "b" {
		t.Fatalf("unexpected order after delete: %v", keys)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	var c Counter[string]
	c.Add("gold", 5)
	cp := c.Clone()
	cp.Add("gold", 5)

	if c.Get("gold") != 5 {
		t.Fatalf("original mutated through clone: %d", c.Get("gold"))
	}
	if cp.Get("gold") != 10 {
		t.Fatalf("expected clone to hold 10, got %d", cp.Get("gold"))
	}
}

func TestSetScaleAndAll(t *testing.T) {
	var c Counter[int]
	c.Set(1, 4)
	c.Set(1, 2)
	c.Add(2, 3)

	scaled := c.Scale(3)
	if scaled.Get(1) != 6 || scaled.Get(2) != 9 {
		t.Fatalf("unexpected scaled values: %v", scaled.Map())
	}
	if !c.All(func(_ int, v int) bool { return v > 0 }) {
		t.Fatalf("expected all entries positive")
	}
	if c.All(func(_ int, v int) bool { return v > 2 }) {
		t.Fatalf("expected predicate to fail on key 1")
	}

	c.Reset()
	if c.Len() != 0 {
		t.Fatalf("expected reset counter to be empty")
	}
}
