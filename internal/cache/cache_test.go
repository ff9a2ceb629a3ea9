package cache

import (
	"strconv"
	"sync"
	"testing"
)

func TestNew(t *testing.T) {
	c := New[string, int](100)
	if c.Capacity() != 100 {
		t.Errorf("expected capacity 100, got %d", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}

	if got := New[string, int](0).Capacity(); got != 1 {
		t.Errorf("New(0).Capacity() = %d, want 1", got)
	}
}

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](10)

	c.Set("key1", 42)

	val, ok := c.Get("key1")
	if !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v, want 42, true", val, ok)
	}

	_, ok = c.Get("nonexistent")
	if ok {
		t.Error("expected nonexistent key to not exist")
	}

	// Overwrite keeps one entry
	c.Set("key1", 7)
	if val, _ := c.Get("key1"); val != 7 || c.Len() != 1 {
		t.Errorf("after overwrite Get = %d, Len = %d, want 7, 1", val, c.Len())
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](3)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	// Touch a so b becomes the oldest.
	c.Get("a")
	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("expected b to be evicted")
	}
	for _, k := range []string{"a", "c", "d"} {
		if _, ok := c.Get(k); !ok {
			t.Errorf("expected %s to survive", k)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
	if s := c.Stats(); s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}
}

func TestCacheDeleteClear(t *testing.T) {
	c := New[int, string](4)
	c.Set(1, "one")
	c.Set(2, "two")

	if !c.Delete(1) {
		t.Error("Delete(1) = false, want true")
	}
	if c.Delete(1) {
		t.Error("second Delete(1) = true, want false")
	}

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}

	// Usable after clear
	c.Set(3, "three")
	if v, ok := c.Get(3); !ok || v != "three" {
		t.Errorf("Get(3) = %q, %v", v, ok)
	}
}

func TestCacheStats(t *testing.T) {
	c := New[string, int](2)
	if r := c.Stats().HitRate(); r != 0 {
		t.Errorf("HitRate() before lookups = %v, want 0", r)
	}

	c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("x")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 || s.Len != 1 || s.Capacity != 2 {
		t.Errorf("Stats() = %+v", s)
	}
	if r := s.HitRate(); r < 0.66 || r > 0.67 {
		t.Errorf("HitRate() = %v, want 2/3", r)
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[string, int](16)
	var wg sync.WaitGroup

	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 200 {
				k := strconv.Itoa((g + i) % 32)
				c.Set(k, i)
				c.Get(k)
				if i%7 == 0 {
					c.Delete(k)
				}
			}
		}()
	}
	wg.Wait()

	if c.Len() > 16 {
		t.Errorf("Len() = %d exceeds capacity", c.Len())
	}
}

func TestListOrder(t *testing.T) {
	var l list[string, int]

	a := l.pushFront("a", 1)
	l.pushFront("b", 2)
	l.pushFront("c", 3)
	if l.len != 3 || l.head.key != "c" || l.tail.key != "a" {
		t.Fatalf("after pushes head=%s tail=%s len=%d", l.head.key, l.tail.key, l.len)
	}

	l.moveToFront(a)
	if l.head.key != "a" || l.tail.key != "b" {
		t.Errorf("after moveToFront head=%s tail=%s", l.head.key, l.tail.key)
	}

	if n := l.removeOldest(); n.key != "b" {
		t.Errorf("removeOldest() = %s, want b", n.key)
	}
	l.remove(a)
	if l.len != 1 || l.head != l.tail || l.head.key != "c" {
		t.Errorf("after removals len=%d", l.len)
	}
}

func BenchmarkCacheGet(b *testing.B) {
	c := New[string, int](1000)
	for i := range 100 {
		c.Set(strconv.Itoa(i), i)
	}

	b.ResetTimer()
	for b.Loop() {
		c.Get("50")
	}
}
