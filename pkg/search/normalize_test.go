package search

import (
	"strings"
	"testing"
	"time"
)

func TestNormalizeLegacyAnswerFallback(t *testing.T) {
	body := []byte(`{
		"results": [{"title": "T", "url": "https://example.com"}],
		"answer": "legacy answer"
	}`)

	out, err := normalize("q", body, 10*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if out.Metadata.Answer != "legacy answer" {
		t.Errorf("expected legacy answer used when nested field is absent, got %q", out.Metadata.Answer)
	}
}

func TestNormalizeNestedAnswerWins(t *testing.T) {
	body := []byte(`{
		"results": [],
		"metadata": {"answer": "nested"},
		"answer": "legacy"
	}`)

	out, err := normalize("q", body, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Metadata.Answer != "nested" {
		t.Errorf("nested answer must win, got %q", out.Metadata.Answer)
	}
}

func TestNormalizeTotalFallsBackToKeptResults(t *testing.T) {
	body := []byte(`{
		"results": [
			{"title": "A", "url": "https://example.com/a"},
			{"title": "", "url": "https://example.com/b"}
		]
	}`)

	out, err := normalize("q", body, 0)
	if err != nil {
		t.Fatal(err)
	}
	if out.Metadata.TotalResults != 1 {
		t.Errorf("expected total 1 without backend-supplied counts, got %d", out.Metadata.TotalResults)
	}
}

func TestNormalizeDerivedIDStable(t *testing.T) {
	body := []byte(`{"results": [{"title": "A", "url": "https://example.com/a"}]}`)

	first, err := normalize("q", body, 0)
	if err != nil {
		t.Fatal(err)
	}
	second, err := normalize("q", body, 0)
	if err != nil {
		t.Fatal(err)
	}

	id := first.Results[0].ID
	if id != second.Results[0].ID {
		t.Error("derived id must be stable across runs")
	}
	if !strings.HasPrefix(id, "result_") || !strings.HasSuffix(id, "_0") {
		t.Errorf("unexpected derived id shape %q", id)
	}
}

func TestNormalizePositionFromRawIndex(t *testing.T) {
	// Position reflects the backend's ranked order, counted over the raw
	// array, so a dropped entry leaves a gap.
	body := []byte(`{"results": [
		{"title": "A", "url": "https://example.com/a"},
		{"title": ""},
		{"title": "C", "url": "https://example.com/c"}
	]}`)

	out, err := normalize("q", body, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected 2 kept results, got %d", len(out.Results))
	}
	if out.Results[0].Position != 1 || out.Results[1].Position != 3 {
		t.Errorf("unexpected positions %d, %d", out.Results[0].Position, out.Results[1].Position)
	}
}

func TestNormalizeMalformedBody(t *testing.T) {
	if _, err := normalize("q", []byte("not json"), 0); err == nil {
		t.Error("expected error for malformed body")
	}
}

func TestBackendErrorMessage(t *testing.T) {
	if got := backendErrorMessage(500, []byte(`{"error":"boom"}`)); got != "boom" {
		t.Errorf("unexpected message %q", got)
	}
	if got := backendErrorMessage(502, []byte("unparseable")); got != "backend returned status 502" {
		t.Errorf("unexpected message %q", got)
	}
}

func TestSanitizeQuery(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"plain query", "plain query"},
		{"  padded\t query \n", "padded query"},
		{"<b>bold</b> text", "bold text"},
		{"a &amp; b", "a & b"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := sanitizeQuery(tc.in); got != tc.want {
			t.Errorf("sanitizeQuery(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeID(t *testing.T) {
	if got := sanitizeID("post-12_ok"); got != "post-12_ok" {
		t.Errorf("unexpected id %q", got)
	}
	if got := sanitizeID("<weird id!>"); got != "weirdid" {
		t.Errorf("unexpected id %q", got)
	}
}
