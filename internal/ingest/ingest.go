package ingest

import (
    "fmt"
    "io/fs"
    "os"
    "path/filepath"
    "strings"

    "github.com/google/uuid"
    "github.com/rs/zerolog/log"

    "github.com/hyperifyio/quotecheck/internal/kb"
)

// Title selection strategies for plain-text documents.
const (
    TitleFromFilename  = "filename"
    TitleFromFirstLine = "firstline"
)

// Options configures a directory ingest.
type Options struct {
    // TitleFrom picks the title strategy for .txt and .md files:
    // TitleFromFilename (default) or TitleFromFirstLine. HTML documents use
    // their <title> when present.
    TitleFrom string
}

// Directory walks root and builds a knowledge base from the documents it
// finds. HTML files are reduced to readable prose; .txt and .md files are
// taken as-is after whitespace normalization. Files are visited in lexical
// order so source numbering is stable across runs. Unreadable or empty files
// are skipped with a warning, never fatal.
func Directory(root string, opt Options) (*kb.Base, error) {
    titleFrom := opt.TitleFrom
    if titleFrom == "" {
        titleFrom = TitleFromFilename
    }
    if titleFrom != TitleFromFilename && titleFrom != TitleFromFirstLine {
        return nil, fmt.Errorf("unknown title strategy %q", titleFrom)
    }

    base := kb.New(nil)
    err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
        if err != nil {
            return err
        }
        if d.IsDir() {
            return nil
        }
        ext := strings.ToLower(filepath.Ext(path))
        switch ext {
        case ".html", ".htm", ".txt", ".md":
        default:
            return nil
        }
        src, ok := ingestFile(root, path, ext, titleFrom)
        if !ok {
            return nil
        }
        base.Add(src)
        log.Debug().Str("path", path).Str("title", src.Title).Int("chars", len(src.Content)).Msg("ingested document")
        return nil
    })
    if err != nil {
        return nil, fmt.Errorf("walk %s: %w", root, err)
    }
    return base, nil
}

func ingestFile(root, path, ext, titleFrom string) (kb.Source, bool) {
    raw, err := os.ReadFile(path)
    if err != nil {
        log.Warn().Err(err).Str("path", path).Msg("skipping unreadable file")
        return kb.Source{}, false
    }

    var title, content string
    switch ext {
    case ".html", ".htm":
        doc := parseHTML(raw)
        title, content = doc.Title, doc.Text
    default:
        content = normalizeText(string(raw))
        if titleFrom == TitleFromFirstLine {
            title = firstLine(content)
        }
    }
    if content == "" {
        log.Warn().Str("path", path).Msg("skipping file with no extractable text")
        return kb.Source{}, false
    }
    if title == "" {
        title = titleFromPath(path)
    }

    rel, err := filepath.Rel(root, path)
    if err != nil {
        rel = path
    }
    return kb.Source{
        ID:      uuid.NewString(),
        Title:   title,
        Content: content,
        Metadata: map[string]any{
            "path":       filepath.ToSlash(rel),
            "paragraphs": countParagraphs(content),
        },
    }, true
}

// titleFromPath derives a human-readable title from the file name:
// "solar_power-report.txt" becomes "Solar Power Report".
func titleFromPath(path string) string {
    name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
    name = strings.NewReplacer("_", " ", "-", " ").Replace(name)
    words := strings.Fields(name)
    for i, w := range words {
        r := []rune(w)
        if len(r) > 0 {
            words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
        }
    }
    return strings.Join(words, " ")
}

func firstLine(content string) string {
    line, _, _ := strings.Cut(content, "\n")
    return strings.TrimSpace(strings.TrimLeft(line, "# "))
}

func countParagraphs(content string) int {
    n := 0
    for _, part := range strings.Split(content, "\n\n") {
        if strings.TrimSpace(part) != "" {
            n++
        }
    }
    return n
}
