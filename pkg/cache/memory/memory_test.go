package memory

import (
	"testing"
	"time"
)

func TestSetAndGet(t *testing.T) {
	s, err := New(16)
	if err != nil {
		t.Fatal(err)
	}

	s.Set("k", []byte("value"), time.Minute)
	got, ok := s.Get("k")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != "value" {
		t.Errorf("unexpected value: %s", got)
	}

	if _, ok := s.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestExpiry(t *testing.T) {
	s, _ := New(16)

	s.Set("k", []byte("v"), time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	if _, ok := s.Get("k"); ok {
		t.Error("expected miss after expiry")
	}
}

func TestNonPositiveTTLDropped(t *testing.T) {
	s, _ := New(16)

	s.Set("k", []byte("v"), 0)
	if _, ok := s.Get("k"); ok {
		t.Error("zero TTL should not be stored")
	}

	s.Set("k", []byte("v"), -time.Second)
	if _, ok := s.Get("k"); ok {
		t.Error("negative TTL should not be stored")
	}
}

func TestDelete(t *testing.T) {
	s, _ := New(16)

	s.Set("k", []byte("v"), time.Minute)
	s.Delete("k")
	if _, ok := s.Get("k"); ok {
		t.Error("expected miss after delete")
	}

	// Deleting an absent key is fine.
	s.Delete("missing")
}

func TestDeletePattern(t *testing.T) {
	s, _ := New(16)

	s.Set("search_aaa", []byte("1"), time.Minute)
	s.Set("search_bbb", []byte("2"), time.Minute)
	s.Set("other_ccc", []byte("3"), time.Minute)

	if removed := s.DeletePattern("search_*"); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if _, ok := s.Get("search_aaa"); ok {
		t.Error("expected miss for purged key")
	}
	if _, ok := s.Get("other_ccc"); !ok {
		t.Error("non-matching key should survive")
	}
}

func TestCapacityEviction(t *testing.T) {
	s, _ := New(2)

	s.Set("a", []byte("1"), time.Minute)
	s.Set("b", []byte("2"), time.Minute)
	s.Set("c", []byte("3"), time.Minute)

	entries, _ := s.Stats()
	if entries != 2 {
		t.Errorf("expected 2 live entries after eviction, got %d", entries)
	}
}

func TestStats(t *testing.T) {
	s, _ := New(16)

	s.Set("a", []byte("12345"), time.Minute)
	s.Set("b", []byte("67890"), time.Millisecond)
	time.Sleep(10 * time.Millisecond)

	entries, bytes := s.Stats()
	if entries != 1 {
		t.Errorf("expected 1 live entry, got %d", entries)
	}
	if bytes != 5 {
		t.Errorf("expected 5 bytes, got %d", bytes)
	}
}
