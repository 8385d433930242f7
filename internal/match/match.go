package match

import (
    "strings"
    "unicode"
    "unicode/utf8"

    "golang.org/x/text/cases"
)

// Strategy identifies which matching strategy located a quote.
type Strategy string

const (
    StrategyExact   Strategy = "exact"
    StrategyPartial Strategy = "partial"
    StrategyKeyword Strategy = "keyword"
)

// Result describes where a quote was located inside a source document.
// Location is a byte offset into the original (unnormalized) source text,
// or -1 when the quote was not found.
type Result struct {
    Found    bool
    Strategy Strategy
    Location int
}

// Options holds the tunable thresholds of the matching cascade. The defaults
// are calibration constants, not invariants; zero values select the defaults.
type Options struct {
    // PartialPrefixChars is the length of the normalized-quote prefix searched
    // for by the partial strategy.
    PartialPrefixChars int
    // PartialMinRatio is the minimum normalized edit-distance ratio between
    // the quote and the candidate window for a partial match to be accepted.
    PartialMinRatio float64
    // KeywordMinOverlap is the minimum fraction of quote keywords that must
    // appear in a source window for a keyword match.
    KeywordMinOverlap float64
    // KeywordMinWordLen is the minimum word length for a token to count as a
    // keyword.
    KeywordMinWordLen int
}

const (
    defaultPartialPrefixChars = 30
    defaultPartialMinRatio    = 0.85
    defaultKeywordMinOverlap  = 0.70
    defaultKeywordMinWordLen  = 4
)

func (o Options) withDefaults() Options {
    if o.PartialPrefixChars <= 0 {
        o.PartialPrefixChars = defaultPartialPrefixChars
    }
    if o.PartialMinRatio <= 0 {
        o.PartialMinRatio = defaultPartialMinRatio
    }
    if o.KeywordMinOverlap <= 0 {
        o.KeywordMinOverlap = defaultKeywordMinOverlap
    }
    if o.KeywordMinWordLen <= 0 {
        o.KeywordMinWordLen = defaultKeywordMinWordLen
    }
    return o
}

var notFound = Result{Found: false, Location: -1}

// Locate searches for quote inside source using a short-circuit cascade:
// exact substring match first, then prefix-anchored partial match, then
// keyword-density match. The first strategy that succeeds wins. When several
// windows satisfy a strategy the leftmost occurrence is reported, so repeated
// runs over identical inputs return identical results. Absence is a valid
// outcome, never an error.
func Locate(quote, source string, opt Options) Result {
    opt = opt.withDefaults()
    if strings.TrimSpace(quote) == "" || strings.TrimSpace(source) == "" {
        return notFound
    }

    normQuote := Normalize(quote)
    normSource, offsets := normalizeWithOffsets(source)

    if r, ok := exactMatch(normQuote, normSource, offsets); ok {
        return r
    }
    if r, ok := partialMatch(normQuote, normSource, offsets, opt); ok {
        return r
    }
    if r, ok := keywordMatch(quote, source, opt); ok {
        return r
    }
    return notFound
}

func exactMatch(normQuote, normSource string, offsets []int) (Result, bool) {
    idx := strings.Index(normSource, normQuote)
    if idx < 0 {
        return notFound, false
    }
    return Result{Found: true, Strategy: StrategyExact, Location: offsets[idx]}, true
}

// partialMatch anchors on the first PartialPrefixChars characters of the
// normalized quote and verifies the remainder by edit-distance ratio against
// the equally sized window starting at the anchor.
func partialMatch(normQuote, normSource string, offsets []int, opt Options) (Result, bool) {
    prefix := truncateRunes(normQuote, opt.PartialPrefixChars)
    if prefix == "" {
        return notFound, false
    }
    idx := strings.Index(normSource, prefix)
    if idx < 0 {
        return notFound, false
    }
    end := idx + len(normQuote)
    if end > len(normSource) {
        end = len(normSource)
    }
    window := normSource[idx:end]
    if editRatio(normQuote, window) < opt.PartialMinRatio {
        return notFound, false
    }
    return Result{Found: true, Strategy: StrategyPartial, Location: offsets[idx]}, true
}

// keywordMatch slides a window sized to three times the quote's word count
// over the source and reports the window with the highest keyword density.
func keywordMatch(quote, source string, opt Options) (Result, bool) {
    keywords := Keywords(quote, opt.KeywordMinWordLen)
    if len(keywords) == 0 {
        return notFound, false
    }
    kwSet := make(map[string]struct{}, len(keywords))
    for _, k := range keywords {
        kwSet[k] = struct{}{}
    }

    words := tokenize(source)
    if len(words) == 0 {
        return notFound, false
    }
    win := 3 * len(strings.Fields(quote))
    if win > len(words) {
        win = len(words)
    }
    if win == 0 {
        return notFound, false
    }

    // Incremental sliding window: counts tracks occurrences per keyword,
    // present is the number of distinct keywords currently inside the window.
    counts := make(map[string]int, len(kwSet))
    present := 0
    add := func(w string) {
        if _, ok := kwSet[w]; !ok {
            return
        }
        if counts[w] == 0 {
            present++
        }
        counts[w]++
    }
    remove := func(w string) {
        if _, ok := kwSet[w]; !ok {
            return
        }
        counts[w]--
        if counts[w] == 0 {
            present--
        }
    }

    for i := 0; i < win; i++ {
        add(words[i].text)
    }
    bestDensity := float64(present) / float64(len(kwSet))
    bestOffset := words[0].offset
    for i := 1; i+win <= len(words); i++ {
        remove(words[i-1].text)
        add(words[i+win-1].text)
        density := float64(present) / float64(len(kwSet))
        if density > bestDensity {
            bestDensity = density
            bestOffset = words[i].offset
        }
    }

    if bestDensity < opt.KeywordMinOverlap {
        return notFound, false
    }
    return Result{Found: true, Strategy: StrategyKeyword, Location: bestOffset}, true
}

var foldCaser = cases.Fold()

// Normalize collapses whitespace runs to single spaces, trims the ends, and
// case-folds the text so comparisons are case-insensitive.
func Normalize(s string) string {
    out, _ := normalizeWithOffsets(s)
    return out
}

// normalizeWithOffsets returns the normalized form of s plus a byte-level map
// from each normalized byte back to the byte offset of the originating rune
// in s, so match locations can be reported against the original text.
func normalizeWithOffsets(s string) (string, []int) {
    var b strings.Builder
    b.Grow(len(s))
    offsets := make([]int, 0, len(s))
    pendingSpace := false
    started := false
    for i, r := range s {
        if unicode.IsSpace(r) {
            pendingSpace = started
            continue
        }
        if pendingSpace {
            b.WriteByte(' ')
            offsets = append(offsets, i)
            pendingSpace = false
        }
        for _, fr := range foldCaser.String(string(r)) {
            b.WriteRune(fr)
            for n := utf8.RuneLen(fr); n > 0; n-- {
                offsets = append(offsets, i)
            }
        }
        started = true
    }
    return b.String(), offsets
}

func truncateRunes(s string, n int) string {
    if n <= 0 {
        return ""
    }
    count := 0
    for i := range s {
        if count == n {
            return s[:i]
        }
        count++
    }
    return s
}

// editRatio computes a normalized similarity in [0,1] between a and b:
// 1 - levenshtein(a,b)/max(len(a),len(b)). Identical strings score 1.0.
func editRatio(a, b string) float64 {
    ra := []rune(a)
    rb := []rune(b)
    if len(ra) == 0 && len(rb) == 0 {
        return 1.0
    }
    longest := len(ra)
    if len(rb) > longest {
        longest = len(rb)
    }
    dist := levenshtein(ra, rb)
    return 1.0 - float64(dist)/float64(longest)
}

func levenshtein(a, b []rune) int {
    if len(a) == 0 {
        return len(b)
    }
    if len(b) == 0 {
        return len(a)
    }
    prev := make([]int, len(b)+1)
    cur := make([]int, len(b)+1)
    for j := range prev {
        prev[j] = j
    }
    for i := 1; i <= len(a); i++ {
        cur[0] = i
        for j := 1; j <= len(b); j++ {
            cost := 1
            if a[i-1] == b[j-1] {
                cost = 0
            }
            cur[j] = minInt(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
        }
        prev, cur = cur, prev
    }
    return prev[len(b)]
}

func minInt(a, b, c int) int {
    m := a
    if b < m {
        m = b
    }
    if c < m {
        m = c
    }
    return m
}
