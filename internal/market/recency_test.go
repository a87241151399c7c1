package market

import (
	"reflect"
	"testing"
)

func TestRecencyCacheGet(t *testing.T) {
	c := NewRecencyCache[int]()
	c.Replace(map[string]int{"BTC": 1, "ETH": 2})

	v, ok := c.Get("BTC", false)
	if !ok || v != 1 {
		t.Fatalf("Get(BTC) = %d, %v", v, ok)
	}
	if _, ok := c.Get("DOGE", true); ok {
		t.Fatalf("expected miss for DOGE")
	}
	if got := c.Recent(); len(got) != 0 {
		t.Fatalf("recency list should ignore misses and unrecorded reads, got %v", got)
	}
}

func TestRecencyCacheOrder(t *testing.T) {
	c := NewRecencyCache[int]()
	c.Replace(map[string]int{"A": 1, "B": 2, "C": 3, "D": 4, "E": 5})

	for _, key := range []string{"A", "B", "C", "A"} {
		c.Get(key, true)
	}
	if got := c.Recent(); !reflect.DeepEqual(got, []string{"A", "C", "B"}) {
		t.Fatalf("Recent() = %v", got)
	}

	// Two more distinct keys push B out past the limit of four.
	c.Get("D", true)
	c.Get("E", true)
	if got := c.Recent(); !reflect.DeepEqual(got, []string{"E", "D", "A", "C"}) {
		t.Fatalf("Recent() after eviction = %v", got)
	}
}

func TestRecencyCacheReplaceKeepsRecency(t *testing.T) {
	c := NewRecencyCache[int]()
	c.Replace(map[string]int{"A": 1})
	c.Get("A", true)

	c.Replace(map[string]int{"B": 2})
	if _, ok := c.Get("A", false); ok {
		t.Fatalf("A should be gone after replace")
	}
	if got := c.Recent(); !reflect.DeepEqual(got, []string{"A"}) {
		t.Fatalf("Recent() = %v, replace must not clear the recency list", got)
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d", c.Len())
	}
}
