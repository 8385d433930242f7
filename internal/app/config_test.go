package app

import (
    "os"
    "path/filepath"
    "strings"
    "testing"
    "time"

    "github.com/hyperifyio/quotecheck/internal/report"
)

func TestValidateConfig(t *testing.T) {
    good := Config{ArticlePath: "a.txt", KBPath: "kb.json", OutputPath: "out.json"}
    if err := ValidateConfig(good); err != nil {
        t.Fatalf("valid config rejected: %v", err)
    }
    if err := ValidateConfig(Config{KBPath: "kb.json"}); err == nil {
        t.Fatal("missing article path must be rejected")
    }
    if err := ValidateConfig(Config{ArticlePath: "a.txt"}); err == nil {
        t.Fatal("missing kb path must be rejected")
    }
    advisory := good
    advisory.Advisory = true
    if err := ValidateConfig(advisory); err == nil {
        t.Fatal("advisory without model must be rejected")
    }
    advisory.LLMModel = "m"
    if err := ValidateConfig(advisory); err != nil {
        t.Fatalf("advisory with model rejected: %v", err)
    }
    negative := good
    negative.Workers = -1
    if err := ValidateConfig(negative); err == nil {
        t.Fatal("negative limits must be rejected")
    }
}

func TestLoadConfigFileYAML(t *testing.T) {
    dir := t.TempDir()
    p := filepath.Join(dir, "config.yaml")
    content := `article: article.txt
kb: kb.json
output:
  json: out.json
  markdown: out.md
llm:
  base: http://localhost:8080/v1
  model: local-model
advisory:
  enable: true
minQuoteWords: 10
workers: 8
cache:
  dir: /tmp/cache
  maxAge: 24h
`
    if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    fc, err := LoadConfigFile(p)
    if err != nil {
        t.Fatalf("load: %v", err)
    }
    if fc.Article != "article.txt" || fc.Output.JSON != "out.json" || fc.LLM.Model != "local-model" {
        t.Fatalf("unexpected config: %+v", fc)
    }
    if fc.Advisory == nil || fc.Advisory.Enable == nil || !*fc.Advisory.Enable {
        t.Fatalf("advisory enable not parsed: %+v", fc.Advisory)
    }
    if fc.Cache.MaxAge != 24*time.Hour {
        t.Fatalf("maxAge = %v", fc.Cache.MaxAge)
    }
}

func TestApplyFileConfigPreservesFlags(t *testing.T) {
    var fc FileConfig
    fc.Article = "from-file.txt"
    fc.KB = "from-file-kb.json"
    fc.Workers = 8

    cfg := Config{ArticlePath: "from-flag.txt", Workers: 2}
    ApplyFileConfig(&cfg, fc)
    if cfg.ArticlePath != "from-flag.txt" {
        t.Fatalf("explicit flag overridden: %q", cfg.ArticlePath)
    }
    if cfg.KBPath != "from-file-kb.json" {
        t.Fatalf("unset field not filled: %q", cfg.KBPath)
    }
    if cfg.Workers != 2 {
        t.Fatalf("explicit workers overridden: %d", cfg.Workers)
    }
}

func TestLoadEnvFiles(t *testing.T) {
    dir := t.TempDir()
    p := filepath.Join(dir, ".env")
    content := "# comment\nQUOTECHECK_TEST_KEY=value1\nQUOTECHECK_TEST_QUOTED='value2'\nmalformed line\n"
    if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
        t.Fatalf("write: %v", err)
    }
    t.Setenv("QUOTECHECK_TEST_KEY", "")
    t.Setenv("QUOTECHECK_TEST_QUOTED", "")
    if err := LoadEnvFiles(p, filepath.Join(dir, "missing.env")); err != nil {
        t.Fatalf("load env: %v", err)
    }
    if got := os.Getenv("QUOTECHECK_TEST_KEY"); got != "value1" {
        t.Fatalf("QUOTECHECK_TEST_KEY = %q", got)
    }
    if got := os.Getenv("QUOTECHECK_TEST_QUOTED"); got != "value2" {
        t.Fatalf("quotes not stripped: %q", got)
    }
}

func TestRenderMarkdownEmptyReport(t *testing.T) {
    md := renderMarkdown(&report.Report{RiskFactors: []string{}, Recommendations: []string{}})
    if !strings.Contains(md, "No citations found") {
        t.Fatalf("unexpected rendering: %q", md)
    }
}
