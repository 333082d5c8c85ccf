package cache

import (
	"errors"
	"strconv"
	"sync"
	"testing"
)

func TestCacheGetSet(t *testing.T) {
	c := New[string, int](0)
	if _, ok := c.Get("a"); ok {
		t.Error("Get on empty cache should miss")
	}
	c.Set("a", 1)
	c.Set("a", 2)
	if v, ok := c.Get("a"); !ok || v != 2 {
		t.Errorf("Get(a) = %d, %v, want 2, true", v, ok)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
	want := Stats{Len: 1, Hits: 1, Misses: 1}
	if got := c.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[string, int](2)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	tests := []struct {
		key  string
		want bool
	}{
		{"a", true},
		{"b", false},
		{"c", true},
	}
	for _, tt := range tests {
		if _, ok := c.Get(tt.key); ok != tt.want {
			t.Errorf("Get(%s) found = %v, want %v", tt.key, ok, tt.want)
		}
	}
}

func TestCacheGetOrCreate(t *testing.T) {
	c := New[int, string](0)
	calls := 0
	create := func() (string, error) {
		calls++
		return "v", nil
	}
	for range 3 {
		v, err := c.GetOrCreate(1, create)
		if err != nil || v != "v" {
			t.Fatalf("GetOrCreate() = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("create called %d times, want 1", calls)
	}

	errBoom := errors.New("boom")
	if _, err := c.GetOrCreate(2, func() (string, error) { return "", errBoom }); !errors.Is(err, errBoom) {
		t.Errorf("GetOrCreate() error = %v, want errBoom", err)
	}
	if _, ok := c.Get(2); ok {
		t.Error("failed creation should not be cached")
	}
}

func TestCacheDeleteAndClear(t *testing.T) {
	c := New[string, int](0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)

	if !c.Delete("b") {
		t.Error("Delete(b) = false")
	}
	if c.Delete("b") {
		t.Error("second Delete(b) = true")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	c.Clear()
	if c.Len() != 0 || c.Stats().Misses != 0 {
		t.Errorf("after Clear: Len() = %d, Stats() = %+v", c.Len(), c.Stats())
	}
	c.Set("d", 4)
	if v, ok := c.Get("d"); !ok || v != 4 {
		t.Errorf("Get(d) after Clear = %d, %v", v, ok)
	}
}

func TestCacheEvictsTailAfterDelete(t *testing.T) {
	c := New[int, int](2)
	c.Set(1, 1)
	c.Set(2, 2)
	c.Delete(1)
	c.Set(3, 3)
	c.Set(4, 4)
	if _, ok := c.Get(2); ok {
		t.Error("2 should have been evicted")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestCacheConcurrent(t *testing.T) {
	c := New[string, int](16)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 100 {
				key := strconv.Itoa((g + i) % 32)
				_, _ = c.GetOrCreate(key, func() (int, error) { return i, nil })
			}
		}()
	}
	wg.Wait()
	if c.Len() > 16 {
		t.Errorf("Len() = %d, want <= 16", c.Len())
	}
}
