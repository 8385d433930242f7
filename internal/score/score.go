package score

import (
    "github.com/hyperifyio/quotecheck/internal/match"
)

// Rating buckets a confidence value for display and risk reporting. The
// numeric thresholds are part of the external contract: consumers color-code
// reports with the same cutoffs.
type Rating string

const (
    RatingHigh   Rating = "high"
    RatingMedium Rating = "medium"
    RatingLow    Rating = "low"
)

// Classification thresholds.
const (
    HighThreshold   = 0.80
    MediumThreshold = 0.60
)

// Composite weights. Match quality dominates, context alignment second,
// quote length a small corrective term.
const (
    weightMatch     = 0.5
    weightAlignment = 0.3
    weightLength    = 0.2
)

// Per-strategy match scores.
const (
    matchScoreExact    = 1.0
    matchScorePartial  = 0.75
    matchScoreKeyword  = 0.5
    matchScoreNotFound = 0.0
)

// Word-count band considered adequate for a quoted citation. Outside the
// band length adequacy degrades linearly but never below the floor, since
// the extractor already flags undersized quotes.
const (
    lengthBandMin       = 20
    lengthBandMax       = 80
    lengthAdequacyFloor = 0.5
    // lengthOverrunSpan is how many words past the band the adequacy takes to
    // reach the floor.
    lengthOverrunSpan = 80
)

// Issue strings appended by the scorer.
const (
    IssueSourceNotFound   = "source not found"
    IssueMaybeParaphrased = "quote may be paraphrased"
    IssueLowAlignment     = "context alignment low"
)

// lowAlignmentThreshold is the context alignment below which the scorer
// flags the citation.
const lowAlignmentThreshold = 0.5

// Outcome is the scored assessment of one citation.
type Outcome struct {
    Confidence float64
    Verbatim   bool
    Issues     []string
}

// Score combines the match result, the context alignment, and the quote's
// word count into a single bounded confidence:
//
//	confidence = 0.5*match + 0.3*alignment + 0.2*length
//
// Confidence is monotonically non-decreasing in both the match score and the
// alignment. Verbatim is true only for an exact match.
func Score(res match.Result, alignment float64, quoteWords int) Outcome {
    out := Outcome{
        Verbatim: res.Found && res.Strategy == match.StrategyExact,
    }
    ms := matchScore(res)
    out.Confidence = clamp01(weightMatch*ms + weightAlignment*clamp01(alignment) + weightLength*lengthAdequacy(quoteWords))

    if !res.Found {
        out.Issues = append(out.Issues, IssueSourceNotFound)
    }
    if res.Found && res.Strategy == match.StrategyKeyword {
        out.Issues = append(out.Issues, IssueMaybeParaphrased)
    }
    if alignment < lowAlignmentThreshold {
        out.Issues = append(out.Issues, IssueLowAlignment)
    }
    return out
}

// For returns the categorical rating for a confidence value.
func For(confidence float64) Rating {
    switch {
    case confidence >= HighThreshold:
        return RatingHigh
    case confidence >= MediumThreshold:
        return RatingMedium
    default:
        return RatingLow
    }
}

func matchScore(res match.Result) float64 {
    if !res.Found {
        return matchScoreNotFound
    }
    switch res.Strategy {
    case match.StrategyExact:
        return matchScoreExact
    case match.StrategyPartial:
        return matchScorePartial
    case match.StrategyKeyword:
        return matchScoreKeyword
    default:
        return matchScoreNotFound
    }
}

// lengthAdequacy is 1.0 inside the [lengthBandMin,lengthBandMax] word band
// and degrades linearly toward the floor outside it: a zero-word quote and a
// quote lengthBandMax+lengthOverrunSpan words long both score the floor.
func lengthAdequacy(words int) float64 {
    switch {
    case words >= lengthBandMin && words <= lengthBandMax:
        return 1.0
    case words < lengthBandMin:
        frac := float64(words) / float64(lengthBandMin)
        return lengthAdequacyFloor + (1.0-lengthAdequacyFloor)*frac
    default:
        over := float64(words-lengthBandMax) / float64(lengthOverrunSpan)
        if over > 1 {
            over = 1
        }
        return 1.0 - (1.0-lengthAdequacyFloor)*over
    }
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
