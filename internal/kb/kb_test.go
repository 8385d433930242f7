package kb

import (
    "os"
    "path/filepath"
    "testing"
)

func writeTemp(t *testing.T, name, content string) string {
    t.Helper()
    p := filepath.Join(t.TempDir(), name)
    if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
        t.Fatalf("write temp file: %v", err)
    }
    return p
}

func TestLoadBareArray(t *testing.T) {
    p := writeTemp(t, "kb.json", `[
        {"id": "a", "title": "Alpha", "content": "first source text"},
        {"id": "b", "title": "Beta", "content": "second source text", "url": "https://example.com/b"}
    ]`)
    base, err := Load(p)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if base.Len() != 2 {
        t.Fatalf("expected 2 sources, got %d", base.Len())
    }
    s, ok := base.Lookup(2)
    if !ok || s.ID != "b" {
        t.Fatalf("lookup(2) = %+v, %t", s, ok)
    }
}

func TestLoadWrappedEntries(t *testing.T) {
    p := writeTemp(t, "kb.json", `{
        "metadata": {"total_entries": 1, "version": "1.0"},
        "entries": [{"id": "x", "title": "X", "content": "wrapped entry"}]
    }`)
    base, err := Load(p)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if base.Len() != 1 {
        t.Fatalf("expected 1 source, got %d", base.Len())
    }
}

func TestLoadRejectsMalformedJSON(t *testing.T) {
    p := writeTemp(t, "kb.json", `{"entries": [`)
    if _, err := Load(p); err == nil {
        t.Fatalf("expected parse error")
    }
}

func TestLookupBounds(t *testing.T) {
    base := New([]Source{{ID: "a", Title: "A", Content: "only"}})
    if _, ok := base.Lookup(0); ok {
        t.Fatalf("lookup(0) must fail; numbering is 1-based")
    }
    if _, ok := base.Lookup(2); ok {
        t.Fatalf("lookup past the end must fail")
    }
    if s, ok := base.Lookup(1); !ok || s.ID != "a" {
        t.Fatalf("lookup(1) = %+v, %t", s, ok)
    }
}

func TestSaveLoadRoundTrip(t *testing.T) {
    dir := t.TempDir()
    p := filepath.Join(dir, "out.json")
    base := New([]Source{
        {ID: "1", Title: "One", Content: "content one", Metadata: map[string]any{"paragraphs": 3.0}},
        {ID: "2", Title: "Two", Content: "content two"},
    })
    if err := base.Save(p); err != nil {
        t.Fatalf("save: %v", err)
    }
    got, err := Load(p)
    if err != nil {
        t.Fatalf("reload: %v", err)
    }
    if got.Len() != 2 {
        t.Fatalf("expected 2 sources after round trip, got %d", got.Len())
    }
    s, _ := got.Lookup(1)
    if s.Title != "One" || s.Content != "content one" {
        t.Fatalf("round-trip mismatch: %+v", s)
    }
}

func TestSearchRanksTitleHitsHigher(t *testing.T) {
    base := New([]Source{
        {ID: "a", Title: "Unrelated", Content: "mentions climate once"},
        {ID: "b", Title: "Climate report", Content: "no relevant words here"},
    })
    got := base.Search("climate", 10, 0.1)
    if len(got) != 2 {
        t.Fatalf("expected 2 results, got %d", len(got))
    }
    if got[0].ID != "b" {
        t.Fatalf("title match should rank first, got %s", got[0].ID)
    }
    if got[0].Relevance <= got[1].Relevance {
        t.Fatalf("relevance ordering wrong: %v vs %v", got[0].Relevance, got[1].Relevance)
    }
}

func TestSearchHonorsLimitsAndThreshold(t *testing.T) {
    base := New([]Source{
        {ID: "a", Title: "Solar power", Content: "solar"},
        {ID: "b", Title: "Solar storage", Content: "solar"},
        {ID: "c", Title: "Baking bread", Content: "flour and water"},
    })
    got := base.Search("solar", 1, 0.1)
    if len(got) != 1 {
        t.Fatalf("expected max 1 result, got %d", len(got))
    }
    if got := base.Search("", 10, 0.1); got != nil {
        t.Fatalf("empty query must return nil, got %v", got)
    }
}

func TestStats(t *testing.T) {
    base := New([]Source{
        {ID: "a", Title: "A", Content: "12345", URL: "https://example.com"},
        {ID: "b", Title: "B", Content: "1234567890"},
    })
    st := base.Stats()
    if st.TotalEntries != 2 || st.TotalContentChars != 15 || st.EntriesWithURLs != 1 {
        t.Fatalf("unexpected stats: %+v", st)
    }
    if st.AvgContentChars != 7.5 {
        t.Fatalf("expected average 7.5, got %v", st.AvgContentChars)
    }
}
