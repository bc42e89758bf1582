// Package htmlconv converts HTML clipboard fragments to markdown so text
// previews stay readable when applications put rich content on the
// clipboard.
package htmlconv

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"golang.org/x/net/html"
)

// Pre-compiled regexes to avoid runtime compilation per capture.
var (
	scriptRe         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	excessiveLinesRe = regexp.MustCompile(`\n{3,}`)
	openTagRe        = regexp.MustCompile(`(?is)<([a-z][a-z0-9]*)\b[^>]*>`)
)

// Tags common in clipboard fragments copied from browsers and editors.
// A bare "<" in pasted code is not enough to treat text as HTML.
var fragmentTags = map[string]bool{
	"html": true, "body": true, "div": true, "span": true, "p": true,
	"a": true, "ul": true, "ol": true, "li": true, "table": true,
	"h1": true, "h2": true, "h3": true, "pre": true, "code": true,
	"b": true, "i": true, "em": true, "strong": true, "br": true,
	"img": true, "blockquote": true,
}

// LooksLikeHTML reports whether text is an HTML fragment rather than plain
// text that happens to contain angle brackets.
func LooksLikeHTML(text string) bool {
	trimmed := strings.TrimSpace(text)
	if !strings.Contains(trimmed, "<") || !strings.Contains(trimmed, ">") {
		return false
	}
	matches := openTagRe.FindAllStringSubmatch(trimmed, 4)
	for _, m := range matches {
		if fragmentTags[strings.ToLower(m[1])] {
			return true
		}
	}
	return false
}

// Converter converts HTML fragments to markdown.
type Converter struct {
	converter *md.Converter
}

// NewConverter creates an HTML to markdown converter with GitHub-flavored
// output.
func NewConverter() *Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &Converter{converter: converter}
}

// Convert transforms an HTML fragment to markdown text. The fragment's
// title (if any) is returned separately.
func (c *Converter) Convert(fragment string) (title, markdown string, err error) {
	title = extractTitle(fragment)

	cleaned := scriptRe.ReplaceAllString(fragment, "")
	cleaned = styleRe.ReplaceAllString(cleaned, "")

	markdown, err = c.converter.ConvertString(cleaned)
	if err != nil {
		return "", "", err
	}

	markdown = cleanMarkdown(markdown)
	if title == "" {
		title = firstHeading(markdown)
	}
	return title, markdown, nil
}

// extractTitle pulls the <title> text from a fragment, if present.
func extractTitle(fragment string) string {
	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}

// cleanMarkdown collapses blank-line runs and trims trailing whitespace.
func cleanMarkdown(content string) string {
	content = excessiveLinesRe.ReplaceAllString(content, "\n\n")
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// firstHeading returns the first H1 text in markdown, if any.
func firstHeading(content string) string {
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
