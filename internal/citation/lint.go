package citation

import (
    "regexp"
    "strings"
)

// Structural problems reported by Lint. These are article-level risk factors,
// never fatal.
const (
    LintUnbalancedQuotes      = "unbalanced double quotes"
    LintUnbalancedSmartQuotes = "mismatched smart quotes"
    LintEmptyQuotes           = "empty or nested double quotes"
    LintMarkerInsideQuote     = "source marker placed inside quotation marks"
    LintMarkerWithoutQuote    = "source reference without preceding quoted text"
)

var markerAnywhereRe = regexp.MustCompile(`\[(?i:source)\s+[0-9]+\]`)

// markerQuoteWindow is how far back (in bytes) a closing quote must appear
// before a source marker for the marker to count as attached to a quote.
const markerQuoteWindow = 120

// Lint checks the article for structural quotation problems: unbalanced
// straight or smart quotes, empty quotes, and [Source N] markers that sit
// inside quotation marks or float with no quoted text nearby. The returned
// strings are deduplicated in first-seen order.
func Lint(article string) []string {
    var out []string
    add := func(s string) {
        for _, have := range out {
            if have == s {
                return
            }
        }
        out = append(out, s)
    }

    if strings.Count(article, `"`)%2 != 0 {
        add(LintUnbalancedQuotes)
    }
    if strings.Count(article, "“") != strings.Count(article, "”") {
        add(LintUnbalancedSmartQuotes)
    }
    if strings.Contains(article, `""`) {
        add(LintEmptyQuotes)
    }
    // Reuse the extractor's quote pairing so a marker between two citations
    // is not mistaken for one inside a quote.
    for _, m := range quoteRe.FindAllStringSubmatchIndex(article, -1) {
        if markerAnywhereRe.MatchString(quoteBody(article, m)) {
            add(LintMarkerInsideQuote)
            break
        }
    }
    for _, loc := range markerAnywhereRe.FindAllStringIndex(article, -1) {
        start := loc[0] - markerQuoteWindow
        if start < 0 {
            start = 0
        }
        window := article[start:loc[0]]
        if !strings.ContainsAny(window, "\"”") {
            add(LintMarkerWithoutQuote)
            break
        }
    }
    return out
}
