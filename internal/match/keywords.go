package match

import (
    "strings"
    "unicode"
    "unicode/utf8"
)

// stopwords is a small set of common function words excluded from keyword
// extraction. Only words that survive the minimum-length filter need listing.
var stopwords = map[string]struct{}{
    "about": {}, "above": {}, "after": {}, "again": {}, "also": {},
    "been": {}, "before": {}, "being": {}, "below": {}, "between": {},
    "both": {}, "could": {}, "does": {}, "down": {}, "during": {},
    "each": {}, "from": {}, "further": {}, "have": {}, "having": {},
    "here": {}, "into": {}, "more": {}, "most": {}, "other": {},
    "over": {}, "same": {}, "should": {}, "some": {}, "such": {},
    "than": {}, "that": {}, "their": {}, "them": {}, "then": {},
    "there": {}, "these": {}, "they": {}, "this": {}, "those": {},
    "through": {}, "under": {}, "until": {}, "very": {}, "were": {},
    "what": {}, "when": {}, "where": {}, "which": {}, "while": {},
    "will": {}, "with": {}, "would": {}, "your": {},
}

// Keywords extracts the distinct lowercase words of s that are at least
// minLen runes long and not stopwords, in first-occurrence order.
func Keywords(s string, minLen int) []string {
    if minLen <= 0 {
        minLen = defaultKeywordMinWordLen
    }
    seen := map[string]struct{}{}
    var out []string
    for _, w := range tokenize(s) {
        if utf8.RuneCountInString(w.text) < minLen {
            continue
        }
        if _, ok := stopwords[w.text]; ok {
            continue
        }
        if _, ok := seen[w.text]; ok {
            continue
        }
        seen[w.text] = struct{}{}
        out = append(out, w.text)
    }
    return out
}

// word is a normalized token plus the byte offset of the raw token in the
// original text.
type word struct {
    text   string
    offset int
}

// tokenize splits s on whitespace and strips surrounding punctuation from each
// token, lowercasing the result. Tokens that are all punctuation are dropped.
func tokenize(s string) []word {
    var out []word
    start := -1
    flush := func(end int) {
        if start < 0 {
            return
        }
        raw := s[start:end]
        cleaned := strings.ToLower(strings.TrimFunc(raw, func(r rune) bool {
            return !unicode.IsLetter(r) && !unicode.IsNumber(r)
        }))
        if cleaned != "" {
            out = append(out, word{text: cleaned, offset: start})
        }
        start = -1
    }
    for i, r := range s {
        if unicode.IsSpace(r) {
            flush(i)
            continue
        }
        if start < 0 {
            start = i
        }
    }
    flush(len(s))
    return out
}
