package align

import (
    "strings"
    "testing"

    "github.com/hyperifyio/quotecheck/internal/citation"
    "github.com/hyperifyio/quotecheck/internal/match"
)

const sourceText = "Satellite programs have monitored polar regions since the late seventies. " +
    "Recent satellite data confirms the ice caps are melting at an unprecedented rate of 13% per decade, raising alarm among climatologists. " +
    "Further observations are planned for the coming winter season."

func iceCapsCitation(article string) citation.Citation {
    start := strings.Index(article, `"`)
    end := strings.Index(article, "]") + 1
    return citation.Citation{
        Text:         "at an unprecedented rate of 13% per decade",
        Type:         citation.TypeQuoted,
        SourceNumber: 1,
        Position:     citation.Position{Start: start, End: end},
    }
}

func TestAlignExactMatchHighOverlap(t *testing.T) {
    article := `Recent satellite data shows the ice caps are melting "at an unprecedented rate of 13% per decade" [Source 1], raising alarm among climatologists.`
    cit := iceCapsCitation(article)
    res := match.Locate(cit.Text, sourceText, match.Options{})
    if !res.Found || res.Strategy != match.StrategyExact {
        t.Fatalf("precondition failed: %+v", res)
    }
    exc, score := Align(cit, res, sourceText, article, Options{})
    if exc.SourceExcerpt == "" {
        t.Fatalf("expected a source excerpt")
    }
    if !strings.Contains(exc.SourceExcerpt, "unprecedented rate") {
        t.Fatalf("source excerpt missing matched sentence: %q", exc.SourceExcerpt)
    }
    if exc.ArticleExcerpt == "" {
        t.Fatalf("expected an article excerpt")
    }
    if score < 0.8 {
        t.Fatalf("expected alignment >= 0.8 for near-total overlap, got %v", score)
    }
    if score > 1.0 {
        t.Fatalf("alignment must be clamped to 1.0, got %v", score)
    }
}

func TestAlignNotFoundYieldsZeroAndEmptySourceExcerpt(t *testing.T) {
    article := `Claim: "completely unrelated quoted material that matches nothing in the source" [Source 1].`
    cit := iceCapsCitation(article)
    cit.Text = "completely unrelated quoted material that matches nothing in the source"
    exc, score := Align(cit, match.Result{Found: false, Location: -1}, sourceText, article, Options{})
    if score != 0.0 {
        t.Fatalf("expected alignment 0.0, got %v", score)
    }
    if exc.SourceExcerpt != "" {
        t.Fatalf("expected empty source excerpt, got %q", exc.SourceExcerpt)
    }
    if exc.ArticleExcerpt == "" {
        t.Fatalf("article excerpt must still be populated")
    }
}

func TestAlignStrategyBonuses(t *testing.T) {
    article := `Quote: "recent satellite data confirms the ice caps are melting rapidly" [Source 1].`
    cit := iceCapsCitation(article)
    cit.Text = "recent satellite data confirms the ice caps are melting rapidly"
    loc := strings.Index(sourceText, "Recent satellite")

    _, exact := Align(cit, match.Result{Found: true, Strategy: match.StrategyExact, Location: loc}, sourceText, article, Options{})
    _, partial := Align(cit, match.Result{Found: true, Strategy: match.StrategyPartial, Location: loc}, sourceText, article, Options{})
    _, keyword := Align(cit, match.Result{Found: true, Strategy: match.StrategyKeyword, Location: loc}, sourceText, article, Options{})

    if diff := exact - partial; diff < 0.19 || diff > 0.21 {
        t.Fatalf("exact bonus should exceed partial by 0.2, got diff %v", diff)
    }
    if diff := partial - keyword; diff < 0.19 || diff > 0.21 {
        t.Fatalf("partial bonus should exceed keyword by 0.2, got diff %v", diff)
    }
}

func TestAlignExcerptCaps(t *testing.T) {
    long := strings.Repeat("Observation data accumulates across weather stations continuously. ", 40)
    article := `Quote: "observation data accumulates" [Source 1]. ` + long
    cit := iceCapsCitation(article)
    cit.Text = "observation data accumulates"
    res := match.Locate(cit.Text, long, match.Options{})
    if !res.Found {
        t.Fatalf("precondition: match not found")
    }
    exc, _ := Align(cit, res, long, article, Options{})
    if len(exc.SourceExcerpt) > 800 {
        t.Fatalf("source excerpt exceeds cap: %d", len(exc.SourceExcerpt))
    }
    if len(exc.ArticleExcerpt) > 480 {
        t.Fatalf("article excerpt exceeds cap: %d", len(exc.ArticleExcerpt))
    }
}

func TestSplitSentencesBoundaries(t *testing.T) {
    text := "First sentence ends here. Second one follows! Does a third? Yes."
    got := splitSentences(text)
    if len(got) != 4 {
        t.Fatalf("expected 4 sentences, got %d: %+v", len(got), got)
    }
    first := text[got[0].start:got[0].end]
    if first != "First sentence ends here." {
        t.Fatalf("unexpected first sentence: %q", first)
    }
}

func TestSplitSentencesDoesNotBreakOnDecimals(t *testing.T) {
    text := "The rate was 3.5 percent last year. It rose again."
    got := splitSentences(text)
    if len(got) != 2 {
        t.Fatalf("expected 2 sentences, got %d", len(got))
    }
}

func TestTruncateAtWordNeverCutsMidWord(t *testing.T) {
    s := "alpha beta gamma delta epsilon"
    got := truncateAtWord(s, 15)
    if len(got) > 15 {
        t.Fatalf("truncated string too long: %q", got)
    }
    if !strings.HasSuffix(got, "...") {
        t.Fatalf("expected ellipsis marker, got %q", got)
    }
    body := strings.TrimSuffix(got, "...")
    if body != "" && !strings.HasSuffix(s, body) && !strings.Contains(s, body+" ") {
        t.Fatalf("truncation cut mid-word: %q", got)
    }
}

func TestKeywordOverlapIdenticalTexts(t *testing.T) {
    text := "renewable energy adoption accelerated across European markets"
    if got := keywordOverlap(text, text, 4); got != 1.0 {
        t.Fatalf("expected 1.0 for identical texts, got %v", got)
    }
}

func TestKeywordOverlapContainment(t *testing.T) {
    source := "renewable energy adoption accelerated sharply across several European markets according to analysts"
    article := "renewable energy adoption accelerated"
    got := keywordOverlap(source, article, 4)
    if got != 1.0 {
        t.Fatalf("expected full containment to score 1.0, got %v", got)
    }
}
