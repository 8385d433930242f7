package report

import (
    "context"
    "sync"
    "time"

    "github.com/hyperifyio/quotecheck/internal/align"
    "github.com/hyperifyio/quotecheck/internal/citation"
    "github.com/hyperifyio/quotecheck/internal/kb"
    "github.com/hyperifyio/quotecheck/internal/match"
    "github.com/hyperifyio/quotecheck/internal/score"
)

// Issue strings attached at the aggregation stage.
const (
    IssueUnvalidatable = "unvalidatable: no source reference"
    IssueSourceNotInKB = "source reference not found in knowledge base"
)

// Recommendation strings derived from fixed rules.
const (
    RecommendReviewLowConfidence = "review low-confidence citations"
    RecommendAddSourceRefs       = "add missing source references"
    RecommendFixSourceNumbers    = "verify source numbering against the knowledge base"
)

// lowConfidenceFraction is the share of low-rated citations above which the
// review recommendation is emitted.
const lowConfidenceFraction = 0.20

// Result is the validation outcome for one citation. The JSON field names
// are an external contract shared with report consumers; renaming them is a
// breaking change.
type Result struct {
    CitationText     string       `json:"citation_text"`
    SourceNumber     int          `json:"source_number,omitempty"`
    SourceFound      bool         `json:"source_found"`
    QuoteVerbatim    bool         `json:"quote_verbatim"`
    ContextAlignment float64      `json:"context_alignment"`
    Confidence       float64      `json:"confidence"`
    Rating           score.Rating `json:"rating"`
    SourceExcerpt    string       `json:"source_excerpt"`
    ArticleExcerpt   string       `json:"article_excerpt"`
    Issues           []string     `json:"issues"`

    // Excluded marks citations left out of the overall-confidence mean:
    // those with no source reference or a reference outside the knowledge
    // base. They still appear in Results.
    Excluded bool `json:"-"`
}

// AdvisoryNote is a supplemental model-generated assessment attached by the
// optional advisory pass. Notes never alter the deterministic scores.
type AdvisoryNote struct {
    CitationText string  `json:"citation_text"`
    Assessment   string  `json:"assessment"`
    Confidence   float64 `json:"confidence"`
}

// Report is the single output artifact of a validation run. It is immutable
// after construction.
type Report struct {
    OverallConfidence float64        `json:"overall_confidence"`
    Results           []Result       `json:"results"`
    RiskFactors       []string       `json:"risk_factors"`
    Recommendations   []string       `json:"recommendations"`
    GeneratedAt       time.Time      `json:"generated_at"`
    Advisory          []AdvisoryNote `json:"advisory,omitempty"`
}

// Options configures a validation run.
type Options struct {
    Extract citation.Options
    Match   match.Options
    Align   align.Options
    // Workers bounds the number of citations validated concurrently.
    Workers int
    // Now allows tests to inject a fixed clock.
    Now func() time.Time
}

const defaultWorkers = 4

// Validate runs the full pipeline: extract citations from the article, then
// for each citation locate the quote in its source, align context, and score
// confidence. Per-citation work is pure and runs in parallel; results are
// kept in citation order regardless of completion order. One citation's
// failure never aborts the batch. A report is always produced for valid
// input text, even when nothing matches.
func Validate(ctx context.Context, article string, base *kb.Base, opt Options) (*Report, error) {
    citations, err := citation.Extract(article, opt.Extract)
    if err != nil {
        return nil, err
    }

    workers := opt.Workers
    if workers <= 0 {
        workers = defaultWorkers
    }
    now := time.Now
    if opt.Now != nil {
        now = opt.Now
    }

    results := make([]Result, len(citations))
    sem := make(chan struct{}, workers)
    var wg sync.WaitGroup
    for i, cit := range citations {
        if ctx.Err() != nil {
            break
        }
        wg.Add(1)
        sem <- struct{}{}
        go func(i int, cit citation.Citation) {
            defer wg.Done()
            defer func() { <-sem }()
            results[i] = validateOne(cit, article, base, opt)
        }(i, cit)
    }
    wg.Wait()
    if err := ctx.Err(); err != nil {
        return nil, err
    }

    rep := &Report{
        Results:         results,
        RiskFactors:     []string{},
        Recommendations: []string{},
        GeneratedAt:     now().UTC(),
    }
    rep.OverallConfidence = overallConfidence(results)
    rep.RiskFactors = collectRiskFactors(results, citation.Lint(article))
    rep.Recommendations = recommend(results)
    return rep, nil
}

// validateOne scores a single citation in isolation.
func validateOne(cit citation.Citation, article string, base *kb.Base, opt Options) Result {
    res := Result{
        CitationText: cit.Text,
        SourceNumber: cit.SourceNumber,
        Issues:       append([]string{}, cit.Issues...),
    }

    if cit.SourceNumber == 0 {
        exc, _ := align.Align(cit, match.Result{Found: false, Location: -1}, "", article, opt.Align)
        res.ArticleExcerpt = exc.ArticleExcerpt
        res.Issues = append(res.Issues, IssueUnvalidatable)
        res.Rating = score.For(0)
        res.Excluded = true
        return res
    }

    src, ok := base.Lookup(cit.SourceNumber)
    if !ok {
        exc, _ := align.Align(cit, match.Result{Found: false, Location: -1}, "", article, opt.Align)
        res.ArticleExcerpt = exc.ArticleExcerpt
        res.Issues = append(res.Issues, IssueSourceNotInKB)
        res.Rating = score.For(0)
        res.Excluded = true
        return res
    }

    located := match.Locate(cit.Text, src.Content, opt.Match)
    exc, alignment := align.Align(cit, located, src.Content, article, opt.Align)
    outcome := score.Score(located, alignment, cit.WordCount())

    res.SourceFound = located.Found
    res.QuoteVerbatim = outcome.Verbatim
    res.ContextAlignment = alignment
    res.Confidence = outcome.Confidence
    res.Rating = score.For(outcome.Confidence)
    res.SourceExcerpt = exc.SourceExcerpt
    res.ArticleExcerpt = exc.ArticleExcerpt
    res.Issues = append(res.Issues, outcome.Issues...)
    return res
}

// overallConfidence is the arithmetic mean of the confidences of validatable
// citations. Zero validatable citations yield 0.0, never a division by zero.
func overallConfidence(results []Result) float64 {
    sum := 0.0
    count := 0
    for _, r := range results {
        if r.Excluded {
            continue
        }
        sum += r.Confidence
        count++
    }
    if count == 0 {
        return 0.0
    }
    return sum / float64(count)
}

// collectRiskFactors gathers the distinct issue strings across citations in
// first-seen order, then appends article-level structural findings.
func collectRiskFactors(results []Result, lintFindings []string) []string {
    out := []string{}
    seen := map[string]struct{}{}
    add := func(s string) {
        if _, ok := seen[s]; ok {
            return
        }
        seen[s] = struct{}{}
        out = append(out, s)
    }
    for _, r := range results {
        for _, issue := range r.Issues {
            add(issue)
        }
    }
    for _, f := range lintFindings {
        add(f)
    }
    return out
}

// recommend derives improvement suggestions from fixed rules.
func recommend(results []Result) []string {
    out := []string{}
    lowCount := 0
    includedCount := 0
    anyUnvalidatable := false
    anyBadNumber := false
    for _, r := range results {
        if r.Excluded {
            for _, issue := range r.Issues {
                switch issue {
                case IssueUnvalidatable:
                    anyUnvalidatable = true
                case IssueSourceNotInKB:
                    anyBadNumber = true
                }
            }
            continue
        }
        includedCount++
        if r.Rating == score.RatingLow {
            lowCount++
        }
    }
    if includedCount > 0 && float64(lowCount)/float64(includedCount) > lowConfidenceFraction {
        out = append(out, RecommendReviewLowConfidence)
    }
    if anyUnvalidatable {
        out = append(out, RecommendAddSourceRefs)
    }
    if anyBadNumber {
        out = append(out, RecommendFixSourceNumbers)
    }
    return out
}
