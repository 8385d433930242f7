package main

import (
    "flag"
    "os"
    "time"

    "github.com/rs/zerolog"
    "github.com/rs/zerolog/log"

    "github.com/hyperifyio/quotecheck/internal/ingest"
)

func main() {
    // Logging setup
    zerolog.TimeFieldFormat = time.RFC3339
    log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

    var (
        dir       string
        out       string
        titleFrom string
        verbose   bool
    )
    flag.StringVar(&dir, "dir", "", "Directory of documents to ingest (.html, .htm, .txt, .md)")
    flag.StringVar(&out, "out", "kb.json", "Path to write the knowledge base JSON")
    flag.StringVar(&titleFrom, "title-from", ingest.TitleFromFilename, "Title strategy for plain-text files: filename or firstline")
    flag.BoolVar(&verbose, "v", false, "Verbose logging")
    flag.Parse()

    if verbose {
        zerolog.SetGlobalLevel(zerolog.DebugLevel)
    } else {
        zerolog.SetGlobalLevel(zerolog.InfoLevel)
    }

    if dir == "" {
        log.Error().Msg("-dir is required")
        flag.Usage()
        os.Exit(2)
    }

    base, err := ingest.Directory(dir, ingest.Options{TitleFrom: titleFrom})
    if err != nil {
        log.Error().Err(err).Msg("ingest failed")
        os.Exit(2)
    }
    if base.Len() == 0 {
        log.Warn().Str("dir", dir).Msg("no documents ingested")
    }
    if err := base.Save(out); err != nil {
        log.Error().Err(err).Msg("write knowledge base failed")
        os.Exit(1)
    }
    st := base.Stats()
    log.Info().
        Int("entries", st.TotalEntries).
        Int("content_chars", st.TotalContentChars).
        Int("with_urls", st.EntriesWithURLs).
        Str("out", out).
        Msg("knowledge base written")
}
