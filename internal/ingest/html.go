package ingest

import (
    "bytes"
    "strings"

    "golang.org/x/net/html"
)

// page is the readable content pulled out of one HTML document.
type page struct {
    Title string
    Text  string
}

// parseHTML extracts readable text from an HTML document, preferring <main>
// or <article> and falling back to <body>. Navigation, footers, scripts, and
// consent banners are skipped so quotes are matched against prose, not
// chrome.
func parseHTML(input []byte) page {
    root, err := html.Parse(bytes.NewReader(input))
    if err != nil || root == nil {
        return page{}
    }
    title := strings.TrimSpace(documentTitle(root))
    content := firstElement(root, "main")
    if content == nil {
        content = firstElement(root, "article")
    }
    if content == nil {
        content = firstElement(root, "body")
    }
    var b strings.Builder
    if content != nil {
        appendText(&b, content)
    }
    return page{Title: title, Text: normalizeText(b.String())}
}

func documentTitle(n *html.Node) string {
    head := firstElement(n, "head")
    if head == nil {
        return ""
    }
    t := firstElement(head, "title")
    if t == nil || t.FirstChild == nil {
        return ""
    }
    return t.FirstChild.Data
}

func firstElement(n *html.Node, tag string) *html.Node {
    if n.Type == html.ElementNode && strings.EqualFold(n.Data, tag) {
        return n
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        if found := firstElement(c, tag); found != nil {
            return found
        }
    }
    return nil
}

func appendText(b *strings.Builder, n *html.Node) {
    if n.Type == html.ElementNode {
        if isConsentBanner(n) {
            return
        }
        switch strings.ToLower(n.Data) {
        case "script", "style", "noscript", "nav", "header", "footer", "aside", "iframe":
            return
        case "br", "hr", "p", "h1", "h2", "h3", "h4", "h5", "h6", "li", "ul", "ol", "blockquote":
            b.WriteString("\n")
        }
    }
    if n.Type == html.TextNode {
        b.WriteString(n.Data)
    }
    for c := n.FirstChild; c != nil; c = c.NextSibling {
        appendText(b, c)
    }
    if n.Type == html.ElementNode {
        switch strings.ToLower(n.Data) {
        case "p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote":
            b.WriteString("\n\n")
        case "li":
            b.WriteString("\n")
        }
    }
}

// isConsentBanner spots cookie and consent containers by their id/class
// markers.
func isConsentBanner(n *html.Node) bool {
    for _, attr := range n.Attr {
        key := strings.ToLower(attr.Key)
        if key != "id" && key != "class" && key != "role" && key != "aria-label" && !strings.HasPrefix(key, "data-") {
            continue
        }
        val := strings.ToLower(attr.Val)
        for _, marker := range []string{"cookie", "consent", "gdpr"} {
            if strings.Contains(val, marker) {
                return true
            }
        }
    }
    return false
}

// normalizeText collapses whitespace runs within lines and squeezes repeated
// blank lines, so paragraph boundaries survive as single blank lines.
func normalizeText(s string) string {
    lines := strings.Split(s, "\n")
    out := make([]string, 0, len(lines))
    for _, line := range lines {
        trimmed := strings.Join(strings.Fields(line), " ")
        if trimmed == "" {
            if len(out) > 0 && out[len(out)-1] == "" {
                continue
            }
            if len(out) == 0 {
                continue
            }
            out = append(out, "")
            continue
        }
        out = append(out, trimmed)
    }
    for len(out) > 0 && out[len(out)-1] == "" {
        out = out[:len(out)-1]
    }
    return strings.Join(out, "\n")
}
