package app

import (
    "fmt"
    "strings"
    "time"

    "github.com/hyperifyio/quotecheck/internal/report"
)

// renderMarkdown produces a human-readable rendering of the report. The JSON
// output remains the machine contract; this view is for reviewers.
func renderMarkdown(rep *report.Report) string {
    var sb strings.Builder
    sb.WriteString("# Citation validation report\n\n")
    fmt.Fprintf(&sb, "Generated: %s\n\n", rep.GeneratedAt.Format(time.RFC3339))
    fmt.Fprintf(&sb, "Overall confidence: **%.2f**\n\n", rep.OverallConfidence)

    if len(rep.Results) == 0 {
        sb.WriteString("No citations found in the article.\n")
        return sb.String()
    }

    sb.WriteString("## Citations\n\n")
    for i, r := range rep.Results {
        fmt.Fprintf(&sb, "### %d. %q\n\n", i+1, r.CitationText)
        if r.SourceNumber > 0 {
            fmt.Fprintf(&sb, "- Source: %d\n", r.SourceNumber)
        } else {
            sb.WriteString("- Source: none\n")
        }
        fmt.Fprintf(&sb, "- Confidence: %.2f (%s)\n", r.Confidence, r.Rating)
        fmt.Fprintf(&sb, "- Verbatim: %t\n", r.QuoteVerbatim)
        fmt.Fprintf(&sb, "- Context alignment: %.2f\n", r.ContextAlignment)
        if len(r.Issues) > 0 {
            fmt.Fprintf(&sb, "- Issues: %s\n", strings.Join(r.Issues, "; "))
        }
        if r.SourceExcerpt != "" {
            fmt.Fprintf(&sb, "\n> %s\n", r.SourceExcerpt)
        }
        sb.WriteString("\n")
    }

    if len(rep.RiskFactors) > 0 {
        sb.WriteString("## Risk factors\n\n")
        for _, f := range rep.RiskFactors {
            fmt.Fprintf(&sb, "- %s\n", f)
        }
        sb.WriteString("\n")
    }
    if len(rep.Recommendations) > 0 {
        sb.WriteString("## Recommendations\n\n")
        for _, r := range rep.Recommendations {
            fmt.Fprintf(&sb, "- %s\n", r)
        }
        sb.WriteString("\n")
    }
    if len(rep.Advisory) > 0 {
        sb.WriteString("## Advisory notes\n\n")
        for _, n := range rep.Advisory {
            fmt.Fprintf(&sb, "- %q: %s (confidence %.2f)\n", n.CitationText, n.Assessment, n.Confidence)
        }
        sb.WriteString("\n")
    }
    return sb.String()
}
