package kb

import (
    "encoding/json"
    "fmt"
    "os"
    "sort"
    "strings"
    "time"
)

// Source is one ingested document in the knowledge base. Content is assumed
// to be normalized plain text produced by an upstream extractor; it is never
// re-parsed here. Sources are immutable once loaded.
type Source struct {
    ID       string         `json:"id"`
    Title    string         `json:"title"`
    Content  string         `json:"content"`
    URL      string         `json:"url,omitempty"`
    Metadata map[string]any `json:"metadata,omitempty"`
}

// Base is an ordered collection of sources. Order matters: articles refer to
// sources by 1-based position via [Source N] markers.
type Base struct {
    sources []Source
}

// New builds a Base from the given sources, preserving order.
func New(sources []Source) *Base {
    return &Base{sources: append([]Source(nil), sources...)}
}

// fileSchema accepts both on-disk layouts: a bare JSON array of sources, or
// an object with an "entries" key and optional file-level metadata.
type fileSchema struct {
    Metadata map[string]any `json:"metadata,omitempty"`
    Entries  []Source       `json:"entries"`
}

// Load reads a knowledge base from a JSON file. Both a bare array and the
// {"entries": [...]} wrapper form are accepted.
func Load(path string) (*Base, error) {
    b, err := os.ReadFile(path)
    if err != nil {
        return nil, fmt.Errorf("read knowledge base: %w", err)
    }
    var list []Source
    if err := json.Unmarshal(b, &list); err == nil {
        return New(list), nil
    }
    var wrapped fileSchema
    if err := json.Unmarshal(b, &wrapped); err != nil {
        return nil, fmt.Errorf("parse knowledge base %s: %w", path, err)
    }
    return New(wrapped.Entries), nil
}

// Save writes the knowledge base in the wrapper form, including file-level
// metadata, so the output round-trips through Load.
func (b *Base) Save(path string) error {
    out := fileSchema{
        Metadata: map[string]any{
            "total_entries": len(b.sources),
            "created_at":    time.Now().UTC().Format(time.RFC3339),
            "version":       "1.0",
        },
        Entries: b.sources,
    }
    data, err := json.MarshalIndent(out, "", "  ")
    if err != nil {
        return err
    }
    if err := os.WriteFile(path, data, 0o644); err != nil {
        return fmt.Errorf("write knowledge base: %w", err)
    }
    return nil
}

// Len returns the number of sources.
func (b *Base) Len() int {
    return len(b.sources)
}

// Add appends a source, assigning it the next position.
func (b *Base) Add(s Source) {
    b.sources = append(b.sources, s)
}

// Lookup resolves a 1-based source number as used by [Source N] markers.
func (b *Base) Lookup(n int) (Source, bool) {
    if n < 1 || n > len(b.sources) {
        return Source{}, false
    }
    return b.sources[n-1], true
}

// Sources returns a copy of the ordered source list.
func (b *Base) Sources() []Source {
    return append([]Source(nil), b.sources...)
}

// Scored pairs a source with its search relevance.
type Scored struct {
    Source
    Relevance float64 `json:"relevance_score"`
}

// Search ranks sources by keyword relevance to the query. Title hits weigh
// three times content hits; the score is normalized by query word count.
// Results below minRelevance are dropped and at most max results returned.
func (b *Base) Search(query string, max int, minRelevance float64) []Scored {
    words := strings.Fields(strings.ToLower(query))
    if len(words) == 0 {
        return nil
    }
    var out []Scored
    for _, s := range b.sources {
        title := strings.ToLower(s.Title)
        content := strings.ToLower(s.Content)
        titleHits, contentHits := 0, 0
        for _, w := range words {
            if strings.Contains(title, w) {
                titleHits++
            }
            if strings.Contains(content, w) {
                contentHits++
            }
        }
        rel := float64(titleHits*3+contentHits) / float64(len(words))
        if rel >= minRelevance && rel > 0 {
            out = append(out, Scored{Source: s, Relevance: rel})
        }
    }
    sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
    if max > 0 && len(out) > max {
        out = out[:max]
    }
    return out
}

// Stats summarizes the knowledge base for logging and the ingest CLI.
type Stats struct {
    TotalEntries      int     `json:"total_entries"`
    TotalContentChars int     `json:"total_content_length"`
    EntriesWithURLs   int     `json:"entries_with_urls"`
    AvgContentChars   float64 `json:"average_content_length"`
}

// Stats computes summary statistics over the loaded sources.
func (b *Base) Stats() Stats {
    st := Stats{TotalEntries: len(b.sources)}
    for _, s := range b.sources {
        st.TotalContentChars += len(s.Content)
        if s.URL != "" {
            st.EntriesWithURLs++
        }
    }
    if st.TotalEntries > 0 {
        st.AvgContentChars = float64(st.TotalContentChars) / float64(st.TotalEntries)
    }
    return st
}
