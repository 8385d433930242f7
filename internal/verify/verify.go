package verify

import (
    "context"
    "encoding/json"
    "fmt"
    "strings"

    "github.com/rs/zerolog/log"
    openai "github.com/sashabaranov/go-openai"

    "github.com/hyperifyio/quotecheck/internal/cache"
    "github.com/hyperifyio/quotecheck/internal/report"
    "github.com/hyperifyio/quotecheck/internal/score"
)

// ChatClient mirrors the subset we need from the OpenAI client for testability.
type ChatClient interface {
    CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Advisor asks a model for a second opinion on citations the deterministic
// pipeline rated low. Its notes are attached to the report verbatim and never
// change the computed scores. The advisor degrades silently: any model or
// parse failure simply yields no note for that citation.
type Advisor struct {
    Client ChatClient
    Cache  *cache.Store
    Model  string
    // SystemPrompt, when non-empty, overrides the default system message.
    SystemPrompt string
}

// assessment is the strict JSON shape the model is instructed to return.
type assessment struct {
    Assessment string  `json:"assessment"`
    Confidence float64 `json:"confidence"`
}

// Review produces advisory notes for the low-rated results. Returns nil when
// no client or model is configured.
func (a *Advisor) Review(ctx context.Context, results []report.Result) []report.AdvisoryNote {
    if a == nil || a.Client == nil || strings.TrimSpace(a.Model) == "" {
        return nil
    }
    sys := buildSystemMessage()
    if strings.TrimSpace(a.SystemPrompt) != "" {
        sys = a.SystemPrompt
    }
    var notes []report.AdvisoryNote
    for _, r := range results {
        if r.Rating != score.RatingLow || r.Excluded {
            continue
        }
        if err := ctx.Err(); err != nil {
            return notes
        }
        note, ok := a.reviewOne(ctx, sys, r)
        if ok {
            notes = append(notes, note)
        }
    }
    return notes
}

func (a *Advisor) reviewOne(ctx context.Context, sys string, r report.Result) (report.AdvisoryNote, bool) {
    user := buildUserMessage(r)
    key := cache.KeyFrom(a.Model, sys+"\n\n"+user)
    if a.Cache != nil {
        if raw, ok, _ := a.Cache.Get(ctx, key); ok {
            if as, err := parseAssessment(string(raw)); err == nil {
                return noteFrom(r, as), true
            }
        }
    }
    req := openai.ChatCompletionRequest{
        Model: a.Model,
        Messages: []openai.ChatCompletionMessage{
            {Role: openai.ChatMessageRoleSystem, Content: sys},
            {Role: openai.ChatMessageRoleUser, Content: user},
        },
        Temperature: 0.0,
        N:           1,
    }
    resp, err := a.Client.CreateChatCompletion(ctx, req)
    if err != nil || len(resp.Choices) == 0 {
        log.Debug().Err(err).Str("model", a.Model).Msg("advisory call failed; skipping citation")
        return report.AdvisoryNote{}, false
    }
    raw := strings.TrimSpace(resp.Choices[0].Message.Content)
    as, err := parseAssessment(raw)
    if err != nil {
        log.Debug().Err(err).Msg("advisory response unparsable; skipping citation")
        return report.AdvisoryNote{}, false
    }
    if a.Cache != nil {
        if b, err := json.Marshal(as); err == nil {
            _ = a.Cache.Save(ctx, key, b)
        }
    }
    return noteFrom(r, as), true
}

func noteFrom(r report.Result, as assessment) report.AdvisoryNote {
    return report.AdvisoryNote{
        CitationText: r.CitationText,
        Assessment:   as.Assessment,
        Confidence:   clamp01(as.Confidence),
    }
}

func parseAssessment(raw string) (assessment, error) {
    var as assessment
    if err := json.Unmarshal([]byte(raw), &as); err != nil {
        return assessment{}, err
    }
    if strings.TrimSpace(as.Assessment) == "" {
        return assessment{}, fmt.Errorf("empty assessment")
    }
    return as, nil
}

func buildSystemMessage() string {
    return "You are a citation reviewer. Respond with strict JSON only: " +
        `{"assessment":string,"confidence":number}. ` +
        "Assess whether the quoted text is plausibly supported by the source excerpt. " +
        "Confidence is a number between 0 and 1. Keep the assessment to one or two sentences."
}

func buildUserMessage(r report.Result) string {
    var sb strings.Builder
    sb.WriteString("Quoted text:\n")
    sb.WriteString(r.CitationText)
    sb.WriteString("\n\nSource excerpt:\n")
    if r.SourceExcerpt == "" {
        sb.WriteString("(no matching passage was located)")
    } else {
        sb.WriteString(r.SourceExcerpt)
    }
    sb.WriteString("\n\nArticle context:\n")
    sb.WriteString(r.ArticleExcerpt)
    return sb.String()
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
