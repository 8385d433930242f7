package app

import (
    "context"
    "encoding/json"
    "fmt"
    "os"

    "github.com/rs/zerolog/log"
    openai "github.com/sashabaranov/go-openai"

    "github.com/hyperifyio/quotecheck/internal/align"
    "github.com/hyperifyio/quotecheck/internal/cache"
    "github.com/hyperifyio/quotecheck/internal/citation"
    "github.com/hyperifyio/quotecheck/internal/kb"
    "github.com/hyperifyio/quotecheck/internal/match"
    "github.com/hyperifyio/quotecheck/internal/report"
    "github.com/hyperifyio/quotecheck/internal/verify"
)

// App wires the validation pipeline to its inputs and outputs.
type App struct {
    cfg     Config
    advisor *verify.Advisor
    store   *cache.Store
}

// ErrBadInput marks contract violations in the inputs: an unreadable article
// or knowledge base, or article text that is not valid UTF-8. The CLI maps
// this to a distinct exit code.
var ErrBadInput = fmt.Errorf("bad input")

// New prepares an App. The advisory model client is only constructed when
// the advisory pass is enabled.
func New(cfg Config) *App {
    a := &App{cfg: cfg}
    if cfg.CacheDir != "" {
        a.store = &cache.Store{Dir: cfg.CacheDir, StrictPerms: cfg.CacheStrictPerms}
    }
    if cfg.Advisory && cfg.LLMModel != "" {
        transportCfg := openai.DefaultConfig(cfg.LLMAPIKey)
        if cfg.LLMBaseURL != "" {
            transportCfg.BaseURL = cfg.LLMBaseURL
        }
        a.advisor = &verify.Advisor{
            Client:       openai.NewClientWithConfig(transportCfg),
            Cache:        a.store,
            Model:        cfg.LLMModel,
            SystemPrompt: cfg.AdvisorySystemPrompt,
        }
    }
    return a
}

// Run validates the article against the knowledge base and writes the
// configured report renderings.
func (a *App) Run(ctx context.Context) error {
    articleBytes, err := os.ReadFile(a.cfg.ArticlePath)
    if err != nil {
        return fmt.Errorf("%w: read article: %v", ErrBadInput, err)
    }
    base, err := kb.Load(a.cfg.KBPath)
    if err != nil {
        return fmt.Errorf("%w: %v", ErrBadInput, err)
    }
    log.Info().Int("sources", base.Len()).Str("article", a.cfg.ArticlePath).Msg("starting validation")

    if a.store != nil && a.cfg.CacheMaxAge > 0 {
        if removed, err := a.store.PurgeOlderThan(ctx, a.cfg.CacheMaxAge); err == nil && removed > 0 {
            log.Debug().Int("removed", removed).Msg("purged stale cache entries")
        }
    }

    rep, err := report.Validate(ctx, string(articleBytes), base, report.Options{
        Extract: citation.Options{MinQuoteWords: a.cfg.MinQuoteWords},
        Match:   match.Options{},
        Align:   align.Options{},
        Workers: a.cfg.Workers,
    })
    if err != nil {
        if ctx.Err() != nil {
            return err
        }
        return fmt.Errorf("%w: %v", ErrBadInput, err)
    }

    if a.advisor != nil {
        rep.Advisory = a.advisor.Review(ctx, rep.Results)
        log.Info().Int("notes", len(rep.Advisory)).Msg("advisory pass complete")
    }

    if err := a.writeOutputs(rep); err != nil {
        return err
    }
    log.Info().
        Float64("overall_confidence", rep.OverallConfidence).
        Int("citations", len(rep.Results)).
        Int("risk_factors", len(rep.RiskFactors)).
        Msg("validation complete")
    return nil
}

func (a *App) writeOutputs(rep *report.Report) error {
    data, err := json.MarshalIndent(rep, "", "  ")
    if err != nil {
        return fmt.Errorf("encode report: %w", err)
    }
    data = append(data, '\n')
    if a.cfg.OutputPath == "-" {
        if _, err := os.Stdout.Write(data); err != nil {
            return err
        }
    } else {
        if err := os.WriteFile(a.cfg.OutputPath, data, 0o644); err != nil {
            return fmt.Errorf("write report: %w", err)
        }
        log.Debug().Str("path", a.cfg.OutputPath).Msg("wrote JSON report")
    }

    if a.cfg.OutputMarkdownPath != "" {
        md := renderMarkdown(rep)
        if err := os.WriteFile(a.cfg.OutputMarkdownPath, []byte(md), 0o644); err != nil {
            return fmt.Errorf("write markdown report: %w", err)
        }
        log.Debug().Str("path", a.cfg.OutputMarkdownPath).Msg("wrote markdown report")
    }
    if a.cfg.OutputPDFPath != "" {
        if err := writeReportPDF(rep, a.cfg.OutputPDFPath); err != nil {
            return fmt.Errorf("write pdf report: %w", err)
        }
        log.Debug().Str("path", a.cfg.OutputPDFPath).Msg("wrote PDF report")
    }
    return nil
}
