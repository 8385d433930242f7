package verify

import (
    "context"
    "errors"
    "testing"

    openai "github.com/sashabaranov/go-openai"

    "github.com/hyperifyio/quotecheck/internal/cache"
    "github.com/hyperifyio/quotecheck/internal/report"
    "github.com/hyperifyio/quotecheck/internal/score"
)

type stubClient struct {
    calls   int
    content string
    err     error
}

func (s *stubClient) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
    s.calls++
    if s.err != nil {
        return openai.ChatCompletionResponse{}, s.err
    }
    return openai.ChatCompletionResponse{
        Choices: []openai.ChatCompletionChoice{
            {Message: openai.ChatCompletionMessage{Content: s.content}},
        },
    }, nil
}

func lowResult(text string) report.Result {
    return report.Result{
        CitationText:   text,
        Rating:         score.RatingLow,
        ArticleExcerpt: "context around " + text,
    }
}

func TestReviewNotesLowRatedOnly(t *testing.T) {
    client := &stubClient{content: `{"assessment":"quote paraphrases the source","confidence":0.4}`}
    a := &Advisor{Client: client, Model: "test-model"}
    results := []report.Result{
        lowResult("weak quote"),
        {CitationText: "strong quote", Rating: score.RatingHigh},
    }
    notes := a.Review(context.Background(), results)
    if len(notes) != 1 {
        t.Fatalf("expected 1 note, got %d", len(notes))
    }
    if notes[0].CitationText != "weak quote" {
        t.Fatalf("wrong citation reviewed: %q", notes[0].CitationText)
    }
    if notes[0].Assessment == "" || notes[0].Confidence != 0.4 {
        t.Fatalf("unexpected note: %+v", notes[0])
    }
    if client.calls != 1 {
        t.Fatalf("expected 1 model call, got %d", client.calls)
    }
}

func TestReviewSkipsExcludedResults(t *testing.T) {
    client := &stubClient{content: `{"assessment":"x","confidence":0.5}`}
    a := &Advisor{Client: client, Model: "test-model"}
    excluded := lowResult("no source ref")
    excluded.Excluded = true
    if notes := a.Review(context.Background(), []report.Result{excluded}); len(notes) != 0 {
        t.Fatalf("excluded citations must not be reviewed, got %v", notes)
    }
    if client.calls != 0 {
        t.Fatalf("expected no model calls, got %d", client.calls)
    }
}

func TestReviewDegradesSilentlyOnModelError(t *testing.T) {
    a := &Advisor{Client: &stubClient{err: errors.New("boom")}, Model: "test-model"}
    if notes := a.Review(context.Background(), []report.Result{lowResult("q")}); len(notes) != 0 {
        t.Fatalf("expected no notes on model failure, got %v", notes)
    }
}

func TestReviewDegradesSilentlyOnBadJSON(t *testing.T) {
    a := &Advisor{Client: &stubClient{content: "not json"}, Model: "test-model"}
    if notes := a.Review(context.Background(), []report.Result{lowResult("q")}); len(notes) != 0 {
        t.Fatalf("expected no notes on unparsable response, got %v", notes)
    }
}

func TestReviewWithoutClientOrModel(t *testing.T) {
    var nilAdvisor *Advisor
    if notes := nilAdvisor.Review(context.Background(), []report.Result{lowResult("q")}); notes != nil {
        t.Fatalf("nil advisor must return nil")
    }
    a := &Advisor{Client: &stubClient{content: "{}"}}
    if notes := a.Review(context.Background(), []report.Result{lowResult("q")}); notes != nil {
        t.Fatalf("advisor without model must return nil")
    }
}

func TestReviewUsesCache(t *testing.T) {
    client := &stubClient{content: `{"assessment":"supported by nearby text","confidence":0.6}`}
    a := &Advisor{
        Client: client,
        Cache:  &cache.Store{Dir: t.TempDir()},
        Model:  "test-model",
    }
    results := []report.Result{lowResult("cached quote")}
    first := a.Review(context.Background(), results)
    second := a.Review(context.Background(), results)
    if len(first) != 1 || len(second) != 1 {
        t.Fatalf("expected one note per run, got %d and %d", len(first), len(second))
    }
    if client.calls != 1 {
        t.Fatalf("second run must hit the cache; model calls = %d", client.calls)
    }
    if first[0] != second[0] {
        t.Fatalf("cached note differs: %+v vs %+v", first[0], second[0])
    }
}

func TestReviewClampsConfidence(t *testing.T) {
    a := &Advisor{Client: &stubClient{content: `{"assessment":"overconfident","confidence":3.2}`}, Model: "m"}
    notes := a.Review(context.Background(), []report.Result{lowResult("q")})
    if len(notes) != 1 || notes[0].Confidence != 1.0 {
        t.Fatalf("expected confidence clamped to 1.0, got %+v", notes)
    }
}
