package app

import (
    "fmt"
    "strings"
    "time"

    "github.com/jung-kurt/gofpdf"

    "github.com/hyperifyio/quotecheck/internal/report"
)

// writeReportPDF renders the report as a simple A4 document. Layout is
// intentionally plain: headings, per-citation blocks, and bullet lists.
func writeReportPDF(rep *report.Report, outPath string) error {
    pdf := gofpdf.New("P", "mm", "A4", "")
    pdf.AddPage()

    pdf.SetFont("Helvetica", "B", 16)
    pdf.CellFormat(0, 10, "Citation validation report", "", 1, "L", false, 0, "")

    pdf.SetFont("Helvetica", "", 10)
    pdf.CellFormat(0, 6, "Generated: "+rep.GeneratedAt.Format(time.RFC3339), "", 1, "L", false, 0, "")
    pdf.CellFormat(0, 6, fmt.Sprintf("Overall confidence: %.2f", rep.OverallConfidence), "", 1, "L", false, 0, "")
    pdf.Ln(4)

    for i, r := range rep.Results {
        pdf.SetFont("Helvetica", "B", 12)
        pdf.MultiCell(0, 6, fmt.Sprintf("%d. %q", i+1, r.CitationText), "", "L", false)
        pdf.SetFont("Helvetica", "", 10)
        source := "none"
        if r.SourceNumber > 0 {
            source = fmt.Sprintf("%d", r.SourceNumber)
        }
        pdf.MultiCell(0, 5, fmt.Sprintf("Source: %s   Confidence: %.2f (%s)   Verbatim: %t   Alignment: %.2f",
            source, r.Confidence, r.Rating, r.QuoteVerbatim, r.ContextAlignment), "", "L", false)
        if len(r.Issues) > 0 {
            pdf.MultiCell(0, 5, "Issues: "+strings.Join(r.Issues, "; "), "", "L", false)
        }
        if r.SourceExcerpt != "" {
            pdf.SetFont("Helvetica", "I", 9)
            pdf.MultiCell(0, 4, r.SourceExcerpt, "", "L", false)
            pdf.SetFont("Helvetica", "", 10)
        }
        pdf.Ln(3)
    }

    writeList := func(title string, items []string) {
        if len(items) == 0 {
            return
        }
        pdf.SetFont("Helvetica", "B", 12)
        pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
        pdf.SetFont("Helvetica", "", 10)
        for _, it := range items {
            pdf.MultiCell(0, 5, "- "+it, "", "L", false)
        }
        pdf.Ln(2)
    }
    writeList("Risk factors", rep.RiskFactors)
    writeList("Recommendations", rep.Recommendations)

    if len(rep.Advisory) > 0 {
        pdf.SetFont("Helvetica", "B", 12)
        pdf.CellFormat(0, 8, "Advisory notes", "", 1, "L", false, 0, "")
        pdf.SetFont("Helvetica", "", 10)
        for _, n := range rep.Advisory {
            pdf.MultiCell(0, 5, fmt.Sprintf("- %q: %s (confidence %.2f)", n.CitationText, n.Assessment, n.Confidence), "", "L", false)
        }
    }

    return pdf.OutputFileAndClose(outPath)
}
