package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "cache_test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSetAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "hybrid_search_abc", []byte(`{"success":true}`), time.Hour); err != nil {
		t.Fatal(err)
	}

	value, expiresAt, ok, err := s.Get(ctx, "hybrid_search_abc")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected hit")
	}
	if string(value) != `{"success":true}` {
		t.Errorf("unexpected value: %s", value)
	}
	remaining := time.Until(expiresAt)
	if remaining <= 0 || remaining > time.Hour {
		t.Errorf("unexpected remaining TTL %v", remaining)
	}

	_, _, ok, err = s.Get(ctx, "missing")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected miss for absent key")
	}
}

func TestExpiredRowIsMiss(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatal(err)
	}

	// The row is physically present but must never be returned.
	_, _, ok, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("expected miss for expired row")
	}
}

func TestSetIsUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("first"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "k", []byte("second"), time.Hour); err != nil {
		t.Fatal(err)
	}

	value, _, ok, err := s.Get(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("expected hit, err=%v", err)
	}
	if string(value) != "second" {
		t.Errorf("expected last write to win, got %s", value)
	}

	entries, _, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if entries != 1 {
		t.Errorf("upsert created duplicate rows: %d", entries)
	}
}

func TestDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if _, _, ok, _ := s.Get(ctx, "k"); ok {
		t.Error("expected miss after delete")
	}

	// Absent key is tolerated.
	if err := s.Delete(ctx, "missing"); err != nil {
		t.Errorf("delete of absent key: %v", err)
	}
}

func TestDeletePattern(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	keys := []string{
		"hybrid_search_ctr_one",
		"hybrid_search_ctr_two",
		"hybrid_search_results_one",
		"unrelated_key",
	}
	for _, k := range keys {
		if err := s.Set(ctx, k, []byte("v"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	n, err := s.DeletePattern(ctx, "hybrid_search_ctr_*")
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}

	for _, k := range []string{"hybrid_search_ctr_one", "hybrid_search_ctr_two"} {
		if _, _, ok, _ := s.Get(ctx, k); ok {
			t.Errorf("expected %s removed", k)
		}
	}
	for _, k := range []string{"hybrid_search_results_one", "unrelated_key"} {
		if _, _, ok, _ := s.Get(ctx, k); !ok {
			t.Errorf("expected %s untouched", k)
		}
	}
}

func TestDeletePatternEscapesLikeMetacharacters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// A literal underscore in the glob must not act as a single-char wildcard.
	if err := s.Set(ctx, "prefix_a", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "prefixXa", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}

	n, err := s.DeletePattern(ctx, "prefix_a")
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("expected exactly the literal match removed, got %d", n)
	}
	if _, _, ok, _ := s.Get(ctx, "prefixXa"); !ok {
		t.Error("expected prefixXa untouched")
	}
}

func TestCleanExpired(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "live", []byte("v"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "dead1", []byte("v"), -time.Second); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "dead2", []byte("v"), -time.Minute); err != nil {
		t.Fatal(err)
	}

	n, err := s.CleanExpired(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("expected 2 removed, got %d", n)
	}

	entries, _, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if entries != 1 {
		t.Errorf("expected 1 remaining entry, got %d", entries)
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Set(ctx, "a", []byte("12345"), time.Hour); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, "b", []byte("678"), time.Hour); err != nil {
		t.Fatal(err)
	}

	entries, bytes, err := s.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if entries != 2 {
		t.Errorf("expected 2 entries, got %d", entries)
	}
	if bytes != 8 {
		t.Errorf("expected 8 bytes, got %d", bytes)
	}
}

func TestGlobToLike(t *testing.T) {
	cases := []struct {
		glob, want string
	}{
		{"hybrid_search_ctr_*", `hybrid\_search\_ctr\_%`},
		{"*", "%"},
		{"plain", "plain"},
		{"100%*", `100\%%`},
	}
	for _, tc := range cases {
		if got := globToLike(tc.glob); got != tc.want {
			t.Errorf("globToLike(%q) = %q, want %q", tc.glob, got, tc.want)
		}
	}
}
