package app

import (
    "encoding/json"
    "fmt"
    "os"
    "path/filepath"
    "time"

    yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema. Nested sections
// map naturally to flags and environment variables.
type FileConfig struct {
    Article string `yaml:"article" json:"article"`
    KB      string `yaml:"kb" json:"kb"`

    Output struct {
        JSON     string `yaml:"json" json:"json"`
        Markdown string `yaml:"markdown" json:"markdown"`
        PDF      string `yaml:"pdf" json:"pdf"`
    } `yaml:"output" json:"output"`

    LLM struct {
        BaseURL string `yaml:"base" json:"base"`
        Model   string `yaml:"model" json:"model"`
        APIKey  string `yaml:"key" json:"key"`
    } `yaml:"llm" json:"llm"`

    Advisory *struct {
        Enable       *bool  `yaml:"enable" json:"enable"`
        SystemPrompt string `yaml:"systemPrompt" json:"systemPrompt"`
    } `yaml:"advisory" json:"advisory"`

    MinQuoteWords int  `yaml:"minQuoteWords" json:"minQuoteWords"`
    Workers       int  `yaml:"workers" json:"workers"`
    Verbose       bool `yaml:"verbose" json:"verbose"`

    Cache struct {
        Dir         string        `yaml:"dir" json:"dir"`
        MaxAge      time.Duration `yaml:"maxAge" json:"maxAge"`
        StrictPerms bool          `yaml:"strictPerms" json:"strictPerms"`
    } `yaml:"cache" json:"cache"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
    var fc FileConfig
    b, err := os.ReadFile(path)
    if err != nil {
        return fc, err
    }
    switch filepath.Ext(path) {
    case ".yaml", ".yml":
        if err := yaml.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse yaml: %w", err)
        }
    case ".json":
        if err := json.Unmarshal(b, &fc); err != nil {
            return fc, fmt.Errorf("parse json: %w", err)
        }
    default:
        // Try YAML then JSON
        if err := yaml.Unmarshal(b, &fc); err != nil {
            if jerr := json.Unmarshal(b, &fc); jerr != nil {
                return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
            }
        }
    }
    return fc, nil
}

// ApplyFileConfig overlays values from FileConfig into cfg for any fields
// that are currently unset or still at their flag default. Flags should
// already have been parsed; this lets file config supply defaults while
// preserving explicit flags.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
    if cfg == nil {
        return
    }
    const (
        outputDefault   = "report.json"
        cacheDirDefault = ".quotecheck-cache"
    )

    if cfg.ArticlePath == "" && fc.Article != "" {
        cfg.ArticlePath = fc.Article
    }
    if cfg.KBPath == "" && fc.KB != "" {
        cfg.KBPath = fc.KB
    }
    if (cfg.OutputPath == "" || cfg.OutputPath == outputDefault) && fc.Output.JSON != "" {
        cfg.OutputPath = fc.Output.JSON
    }
    if cfg.OutputMarkdownPath == "" && fc.Output.Markdown != "" {
        cfg.OutputMarkdownPath = fc.Output.Markdown
    }
    if cfg.OutputPDFPath == "" && fc.Output.PDF != "" {
        cfg.OutputPDFPath = fc.Output.PDF
    }

    if cfg.LLMBaseURL == "" && fc.LLM.BaseURL != "" {
        cfg.LLMBaseURL = fc.LLM.BaseURL
    }
    if cfg.LLMModel == "" && fc.LLM.Model != "" {
        cfg.LLMModel = fc.LLM.Model
    }
    if cfg.LLMAPIKey == "" && fc.LLM.APIKey != "" {
        cfg.LLMAPIKey = fc.LLM.APIKey
    }
    if fc.Advisory != nil {
        if fc.Advisory.Enable != nil && !cfg.Advisory {
            cfg.Advisory = *fc.Advisory.Enable
        }
        if cfg.AdvisorySystemPrompt == "" && fc.Advisory.SystemPrompt != "" {
            cfg.AdvisorySystemPrompt = fc.Advisory.SystemPrompt
        }
    }

    if cfg.MinQuoteWords == 0 && fc.MinQuoteWords > 0 {
        cfg.MinQuoteWords = fc.MinQuoteWords
    }
    if cfg.Workers == 0 && fc.Workers > 0 {
        cfg.Workers = fc.Workers
    }
    if !cfg.Verbose && fc.Verbose {
        cfg.Verbose = true
    }

    if (cfg.CacheDir == "" || cfg.CacheDir == cacheDirDefault) && fc.Cache.Dir != "" {
        cfg.CacheDir = fc.Cache.Dir
    }
    if cfg.CacheMaxAge == 0 && fc.Cache.MaxAge > 0 {
        cfg.CacheMaxAge = fc.Cache.MaxAge
    }
    if !cfg.CacheStrictPerms && fc.Cache.StrictPerms {
        cfg.CacheStrictPerms = true
    }
}
