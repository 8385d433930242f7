package align

import (
    "strings"
    "unicode"

    "github.com/hyperifyio/quotecheck/internal/citation"
    "github.com/hyperifyio/quotecheck/internal/match"
)

// Excerpt carries the bounded context extracted around a citation: the
// sentences surrounding the match in the source, and the text surrounding the
// citation in the article.
type Excerpt struct {
    SourceExcerpt  string `json:"source_excerpt"`
    ArticleExcerpt string `json:"article_excerpt"`
}

// Options holds the excerpt sizing knobs.
type Options struct {
    // WindowChars is the number of characters taken on each side when falling
    // back to a character window.
    WindowChars int
    // SourceExcerptMax caps the source excerpt length.
    SourceExcerptMax int
    // ArticleExcerptMax caps the article excerpt length.
    ArticleExcerptMax int
    // KeywordMinWordLen feeds the lexical-overlap keyword extraction.
    KeywordMinWordLen int
}

const (
    defaultWindowChars       = 220
    defaultSourceExcerptMax  = 800
    defaultArticleExcerptMax = 480
)

func (o Options) withDefaults() Options {
    if o.WindowChars <= 0 {
        o.WindowChars = defaultWindowChars
    }
    if o.SourceExcerptMax <= 0 {
        o.SourceExcerptMax = defaultSourceExcerptMax
    }
    if o.ArticleExcerptMax <= 0 {
        o.ArticleExcerptMax = defaultArticleExcerptMax
    }
    return o
}

// Strategy bonuses added to the lexical-overlap component. A literal match is
// direct evidence that the article preserved the source wording.
const (
    overlapWeight = 0.6
    bonusExact    = 0.4
    bonusPartial  = 0.2
)

// Align extracts context excerpts for a citation and scores how well the
// article's use of the quote lines up with its original surroundings. When
// the match was not found the source excerpt is empty and alignment is 0.0;
// the article excerpt is always populated since the quote is by construction
// present in the article.
func Align(cit citation.Citation, res match.Result, sourceText, articleText string, opt Options) (Excerpt, float64) {
    opt = opt.withDefaults()

    exc := Excerpt{
        ArticleExcerpt: articleWindow(articleText, cit.Position, opt),
    }
    if !res.Found {
        return exc, 0.0
    }

    exc.SourceExcerpt = sourceWindow(sourceText, res.Location, opt)

    overlap := keywordOverlap(exc.SourceExcerpt, exc.ArticleExcerpt, opt.KeywordMinWordLen)
    score := overlapWeight * overlap
    switch res.Strategy {
    case match.StrategyExact:
        score += bonusExact
    case match.StrategyPartial:
        score += bonusPartial
    }
    return exc, clamp01(score)
}

// articleWindow returns the text surrounding the citation position, capped at
// ArticleExcerptMax characters.
func articleWindow(article string, pos citation.Position, opt Options) string {
    start := pos.Start - opt.WindowChars
    if start < 0 {
        start = 0
    }
    end := pos.End + opt.WindowChars
    if end > len(article) {
        end = len(article)
    }
    if start >= end {
        return ""
    }
    return truncateAtWord(strings.TrimSpace(article[start:end]), opt.ArticleExcerptMax)
}

// sourceWindow extracts the sentence containing the match plus one sentence
// on each side. When segmentation yields fewer than two sentences the whole
// text reads as one block and a fixed character window is used instead.
func sourceWindow(source string, location int, opt Options) string {
    sentences := splitSentences(source)
    if len(sentences) >= 2 {
        idx := -1
        for i, s := range sentences {
            if location >= s.start && location < s.end {
                idx = i
                break
            }
        }
        if idx >= 0 {
            lo := idx - 1
            if lo < 0 {
                lo = 0
            }
            hi := idx + 1
            if hi > len(sentences)-1 {
                hi = len(sentences) - 1
            }
            excerpt := strings.TrimSpace(source[sentences[lo].start:sentences[hi].end])
            return truncateAtWord(excerpt, opt.SourceExcerptMax)
        }
    }
    start := location - opt.WindowChars
    if start < 0 {
        start = 0
    }
    end := location + opt.WindowChars
    if end > len(source) {
        end = len(source)
    }
    return truncateAtWord(strings.TrimSpace(source[start:end]), opt.SourceExcerptMax)
}

type span struct {
    start int
    end   int
}

// splitSentences segments text on '.', '!' or '?' followed by whitespace and
// an uppercase letter, or end of text. The rule is deliberately simple and
// deterministic; abbreviation handling is out of scope.
func splitSentences(text string) []span {
    var out []span
    runes := []rune(text)
    byteOf := make([]int, len(runes)+1)
    {
        off := 0
        for i, r := range runes {
            byteOf[i] = off
            off += len(string(r))
        }
        byteOf[len(runes)] = off
    }

    start := 0
    for i := 0; i < len(runes); i++ {
        r := runes[i]
        if r != '.' && r != '!' && r != '?' {
            continue
        }
        // Look ahead: whitespace then an uppercase letter ends the sentence.
        j := i + 1
        for j < len(runes) && unicode.IsSpace(runes[j]) {
            j++
        }
        if j == i+1 && j < len(runes) {
            // Punctuation glued to the next character (e.g. "3.5") is not a
            // boundary.
            continue
        }
        if j >= len(runes) || unicode.IsUpper(runes[j]) {
            out = append(out, span{start: byteOf[start], end: byteOf[i+1]})
            start = j
            i = j - 1
        }
    }
    if start < len(runes) {
        out = append(out, span{start: byteOf[start], end: byteOf[len(runes)]})
    }
    return out
}

// keywordOverlap computes normalized lexical overlap between the keyword
// sets of the two excerpts, ignoring stopwords and short words. The
// intersection is normalized by the smaller set rather than the union: the
// source excerpt legitimately carries surrounding vocabulary the article
// never quoted, and a plain Jaccard index would punish that surplus even when
// the article text is entirely covered by the source context.
func keywordOverlap(a, b string, minWordLen int) float64 {
    ka := match.Keywords(a, minWordLen)
    kb := match.Keywords(b, minWordLen)
    if len(ka) == 0 || len(kb) == 0 {
        return 0.0
    }
    setA := make(map[string]struct{}, len(ka))
    for _, k := range ka {
        setA[k] = struct{}{}
    }
    inter := 0
    for _, k := range kb {
        if _, ok := setA[k]; ok {
            inter++
        }
    }
    smaller := len(ka)
    if len(kb) < smaller {
        smaller = len(kb)
    }
    return float64(inter) / float64(smaller)
}

// truncateAtWord shortens s to at most max bytes, cutting at a word boundary
// and appending an ellipsis marker. Never cuts mid-word.
func truncateAtWord(s string, max int) string {
    if len(s) <= max {
        return s
    }
    const marker = "..."
    cut := max - len(marker)
    if cut <= 0 {
        return marker
    }
    // Back off to the last whitespace before the cut point.
    i := cut
    for i > 0 {
        r := s[i-1]
        if r == ' ' || r == '\t' || r == '\n' {
            break
        }
        i--
    }
    if i == 0 {
        i = cut
    }
    return strings.TrimRight(s[:i], " \t\n") + marker
}

func clamp01(v float64) float64 {
    if v < 0 {
        return 0
    }
    if v > 1 {
        return 1
    }
    return v
}
