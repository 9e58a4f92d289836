package ident_test

import (
	"strconv"
	"sync"
	"testing"

	"MiniAdmin/internal/ident"
)

func TestMinter_UniqueAndIncreasing(t *testing.T) {
	var m ident.Minter

	prev := int64(-1)
	for i := 0; i < 1000; i++ {
		id := m.Next()
		n, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			t.Fatalf("id %q not decimal: %v", id, err)
		}
		if n <= prev {
			t.Fatalf("id %d not greater than previous %d", n, prev)
		}
		prev = n
	}
}

func TestMinter_Concurrent(t *testing.T) {
	var m ident.Minter

	const workers = 8
	const perWorker = 200

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				id := m.Next()
				mu.Lock()
				if seen[id] {
					t.Errorf("duplicate id %q", id)
				}
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
}

func TestLooksLikeObjectID(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"507f1f77bcf86cd799439011", true},
		{"507F1F77BCF86CD799439011", true},
		{"507f1f77bcf86cd79943901", false},   // 23 chars
		{"507f1f77bcf86cd7994390111", false}, // 25 chars
		{"507f1f77bcf86cd79943901g", false},  // non-hex
		{"1", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ident.LooksLikeObjectID(c.in); got != c.want {
			t.Errorf("LooksLikeObjectID(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestFallbackKey(t *testing.T) {
	if got := ident.FallbackKey("507f1f77bcf86cd799439011"); got != "1" {
		t.Errorf("FallbackKey = %q, want %q", got, "1")
	}
	if got := ident.FallbackKey(""); got != "" {
		t.Errorf("FallbackKey(\"\") = %q, want empty", got)
	}
}
