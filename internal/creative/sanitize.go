package creative

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	openingFence = regexp.MustCompile("(?i)^```html?\\s*\\n?")
	closingFence = regexp.MustCompile("\\n?```\\s*$")
)

// StripFences removes a surrounding ```html markdown block.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	s = openingFence.ReplaceAllString(s, "")
	return closingFence.ReplaceAllString(s, "")
}

// SanitizeHTML drops <script> elements, inline event handler attributes and
// javascript: URLs. Everything else is re-emitted token by token.
func SanitizeHTML(markup string) string {
	z := html.NewTokenizer(strings.NewReader(markup))

	var out bytes.Buffer
	skipDepth := 0

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if errors.Is(z.Err(), io.EOF) {
				break
			}
			return out.String()
		}

		raw := append([]byte(nil), z.Raw()...)
		tok := z.Token()

		if tok.Data == "script" && (tt == html.StartTagToken || tt == html.EndTagToken || tt == html.SelfClosingTagToken) {
			switch tt {
			case html.StartTagToken:
				skipDepth++
			case html.EndTagToken:
				if skipDepth > 0 {
					skipDepth--
				}
			}
			continue
		}
		if skipDepth > 0 {
			continue
		}

		if tt == html.StartTagToken || tt == html.SelfClosingTagToken {
			kept := safeAttrs(tok.Attr)
			if len(kept) != len(tok.Attr) {
				tok.Attr = kept
				out.WriteString(tok.String())
				continue
			}
		}

		out.Write(raw)
	}

	return out.String()
}

func safeAttrs(attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if (key == "href" || key == "src" || key == "action") &&
			strings.HasPrefix(strings.ToLower(strings.TrimSpace(a.Val)), "javascript:") {
			continue
		}
		kept = append(kept, a)
	}
	return kept
}

// CleanGeneratedHTML is the post-processing applied to generated banners.
func CleanGeneratedHTML(raw string) string {
	return strings.TrimSpace(SanitizeHTML(StripFences(raw)))
}
