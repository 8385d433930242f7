package app

import (
    "errors"
    "strings"
    "time"
)

// Config holds runtime configuration for the application.
type Config struct {
    ArticlePath string
    KBPath      string

    // Outputs. OutputPath receives the JSON report; the markdown and PDF
    // renderings are written only when their paths are set.
    OutputPath         string
    OutputMarkdownPath string
    OutputPDFPath      string

    // LLM (advisory pass only)
    LLMBaseURL string
    LLMModel   string
    LLMAPIKey  string
    Advisory   bool
    // AdvisorySystemPrompt overrides the built-in reviewer instructions.
    AdvisorySystemPrompt string

    // Validation tuning
    MinQuoteWords int
    Workers       int

    // Behavior
    CacheDir         string
    CacheMaxAge      time.Duration
    CacheStrictPerms bool
    Verbose          bool
}

// ValidateConfig performs minimal schema validation for required settings.
// The advisory pass additionally needs a model name.
func ValidateConfig(cfg Config) error {
    if strings.TrimSpace(cfg.ArticlePath) == "" {
        return errors.New("config: article path is required")
    }
    if strings.TrimSpace(cfg.KBPath) == "" {
        return errors.New("config: knowledge base path is required")
    }
    if cfg.Advisory && strings.TrimSpace(cfg.LLMModel) == "" {
        return errors.New("config: llm.model is required for the advisory pass (or set LLM_MODEL)")
    }
    if cfg.MinQuoteWords < 0 || cfg.Workers < 0 {
        return errors.New("config: negative limits are not allowed")
    }
    return nil
}
