package main

import (
    "context"
    "errors"
    "flag"
    "os"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/hyperifyio/quotecheck/internal/app"
)

func main() {
    // Logging setup
    zerolog.TimeFieldFormat = time.RFC3339
    log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

    var (
        articlePath    string
        kbPath         string
        outputPath     string
        outputMarkdown string
        outputPDF      string
        configPath     string
        envFile        string
        llmBaseURL     string
        llmModel       string
        llmKey         string
        advisory       bool
        minQuoteWords  int
        workers        int
        cacheDir       string
        cacheMaxAge    time.Duration
        cacheStrict    bool
        verbose        bool
    )

    flag.StringVar(&articlePath, "article", "", "Path to the article text to validate")
    flag.StringVar(&kbPath, "kb", "", "Path to the knowledge base JSON file")
    flag.StringVar(&outputPath, "output", "report.json", "Path to write the JSON report ('-' for stdout)")
    flag.StringVar(&outputMarkdown, "output.md", "", "Optional path for a Markdown rendering of the report")
    flag.StringVar(&outputPDF, "output.pdf", "", "Optional path for a PDF rendering of the report")
    flag.StringVar(&configPath, "config", "", "Optional YAML or JSON config file")
    flag.StringVar(&envFile, "env", ".env", "Dotenv file to load before reading environment variables")
    flag.StringVar(&llmBaseURL, "llm.base", os.Getenv("LLM_BASE_URL"), "OpenAI-compatible base URL for the advisory pass")
    flag.StringVar(&llmModel, "llm.model", os.Getenv("LLM_MODEL"), "Model name for the advisory pass")
    flag.StringVar(&llmKey, "llm.key", os.Getenv("LLM_API_KEY"), "API key for the OpenAI-compatible server")
    flag.BoolVar(&advisory, "advisory", false, "Ask the model for a second opinion on low-confidence citations")
    flag.IntVar(&minQuoteWords, "min.quoteWords", 0, "Quotes shorter than this many words are flagged (0 uses the default)")
    flag.IntVar(&workers, "workers", 0, "Citations validated concurrently (0 uses the default)")
    flag.StringVar(&cacheDir, "cache.dir", ".quotecheck-cache", "Cache directory for advisory model responses")
    flag.DurationVar(&cacheMaxAge, "cache.maxAge", 0, "Max age for cache entries before purge (e.g. 24h); 0 disables")
    flag.BoolVar(&cacheStrict, "cache.strictPerms", false, "Restrict cache permissions (0700 dirs, 0600 files)")
    flag.BoolVar(&verbose, "v", false, "Verbose logging")
    flag.Parse()

    if err := app.LoadEnvFiles(envFile); err != nil {
        log.Error().Err(err).Msg("load env file failed")
        os.Exit(2)
    }

    if verbose {
        zerolog.SetGlobalLevel(zerolog.DebugLevel)
    } else {
        zerolog.SetGlobalLevel(zerolog.InfoLevel)
    }

    cfg := app.Config{
        ArticlePath:        articlePath,
        KBPath:             kbPath,
        OutputPath:         outputPath,
        OutputMarkdownPath: outputMarkdown,
        OutputPDFPath:      outputPDF,
        LLMBaseURL:         llmBaseURL,
        LLMModel:           llmModel,
        LLMAPIKey:          llmKey,
        Advisory:           advisory,
        MinQuoteWords:      minQuoteWords,
        Workers:            workers,
        CacheDir:           cacheDir,
        CacheMaxAge:        cacheMaxAge,
        CacheStrictPerms:   cacheStrict,
        Verbose:            verbose,
    }

    if configPath != "" {
        fc, err := app.LoadConfigFile(configPath)
        if err != nil {
            log.Error().Err(err).Str("path", configPath).Msg("load config failed")
            os.Exit(2)
        }
        app.ApplyFileConfig(&cfg, fc)
    }

    if err := app.ValidateConfig(cfg); err != nil {
        log.Error().Err(err).Msg("invalid configuration")
        flag.Usage()
        os.Exit(2)
    }

    if err := app.New(cfg).Run(context.Background()); err != nil {
        log.Error().Err(err).Msg("run failed")
        // Exit code policy: 2 for input contract violations, 1 otherwise.
        if errors.Is(err, app.ErrBadInput) {
            os.Exit(2)
        }
        os.Exit(1)
    }
}
