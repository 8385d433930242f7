package citation

import (
    "errors"
    "regexp"
    "strings"
    "unicode/utf8"
)

// Type classifies how a citation uses its source.
type Type string

const (
    // TypeQuoted marks a verbatim quoted span attributed to a numbered source.
    TypeQuoted Type = "quoted_text"
    // TypeParaphrase marks restated source content. Paraphrases are reported
    // but not validated against source text.
    TypeParaphrase Type = "paraphrase"
    // TypeReference marks a bare pointer to a source without quoted content.
    TypeReference Type = "reference"
)

// Position is the half-open byte range [Start,End) of a citation in the
// article text. The quote must be reproducible verbatim from that range.
type Position struct {
    Start int `json:"start"`
    End   int `json:"end"`
}

// Citation is a quoted span extracted from a generated article together with
// its source attribution. SourceNumber is the 1-based index into the
// knowledge base; 0 means the span carried no resolvable source marker.
type Citation struct {
    Text         string   `json:"text"`
    Type         Type     `json:"type"`
    SourceNumber int      `json:"source_number,omitempty"`
    Position     Position `json:"position"`
    Issues       []string `json:"issues,omitempty"`
}

// WordCount returns the number of whitespace-separated words in the quote.
func (c Citation) WordCount() int {
    return len(strings.Fields(c.Text))
}

// Options configures extraction.
type Options struct {
    // MinQuoteWords is the word count below which a quote is flagged as too
    // short. Short quotes are still extracted, never dropped.
    MinQuoteWords int
}

// DefaultMinQuoteWords is the word-count threshold for a well-formed quote.
const DefaultMinQuoteWords = 20

// ErrNotText is returned when the article input is not valid UTF-8 text.
// Callers are expected to supply already-decoded text, so hitting this is a
// contract violation and aborts the run.
var ErrNotText = errors.New("article input is not valid UTF-8 text")

// Issue strings attached to citations during extraction.
const (
    IssueMissingSourceRef = "missing source reference"
    IssueQuoteTooShort    = "quote below minimum length"
)

var (
    // A quoted span delimited by straight or curly double quotes. Curly
    // openers pair with curly closers and straight with straight, so nested
    // styles do not swallow each other.
    quoteRe = regexp.MustCompile(`"([^"]+)"|“([^”]+)”`)
    // The source marker that may follow a quote after optional whitespace.
    markerRe = regexp.MustCompile(`^\s*\[(?i:source)\s+([0-9]+)\]`)
)

// Extract scans article text and returns the quoted citations in order of
// their start position. Spans are non-overlapping by construction. Quotes
// without a trailing [Source N] marker are kept with SourceNumber 0 and an
// issue recorded; quotes shorter than opt.MinQuoteWords are kept with an
// issue recorded. Nothing is silently discarded.
func Extract(article string, opt Options) ([]Citation, error) {
    if !utf8.ValidString(article) {
        return nil, ErrNotText
    }
    minWords := opt.MinQuoteWords
    if minWords <= 0 {
        minWords = DefaultMinQuoteWords
    }

    var out []Citation
    for _, m := range quoteRe.FindAllStringSubmatchIndex(article, -1) {
        start, end := m[0], m[1]
        text := quoteBody(article, m)
        if strings.TrimSpace(text) == "" {
            continue
        }

        c := Citation{
            Text: strings.TrimSpace(text),
            Type: TypeQuoted,
            Position: Position{
                Start: start,
                End:   end,
            },
        }

        if mm := markerRe.FindStringSubmatchIndex(article[end:]); mm != nil {
            num := parseIntSafe(article[end+mm[2] : end+mm[3]])
            if num > 0 {
                c.SourceNumber = num
                c.Position.End = end + mm[1]
            } else {
                c.Issues = append(c.Issues, IssueMissingSourceRef)
            }
        } else {
            c.Issues = append(c.Issues, IssueMissingSourceRef)
        }

        if c.WordCount() < minWords {
            c.Issues = append(c.Issues, IssueQuoteTooShort)
        }

        out = append(out, c)
    }
    return out, nil
}

// quoteBody returns the inner text of whichever quote-style group matched.
func quoteBody(article string, m []int) string {
    // m[2],m[3] are the straight-quote group; m[4],m[5] the curly one.
    if m[2] >= 0 {
        return article[m[2]:m[3]]
    }
    if len(m) >= 6 && m[4] >= 0 {
        return article[m[4]:m[5]]
    }
    return ""
}

func parseIntSafe(s string) int {
    n := 0
    for _, ch := range s {
        if ch < '0' || ch > '9' {
            return 0
        }
        n = n*10 + int(ch-'0')
        if n > 1<<30 {
            return 0
        }
    }
    return n
}
