package analyzer

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// parseHTML parses a page with scripting disabled so that the content of
// noscript elements is parsed as markup instead of raw text
func parseHTML(body string) (*html.Node, error) {
	return html.ParseWithOptions(strings.NewReader(body), html.ParseOptionEnableScripting(false))
}

// getElementAttribute returns the value of an attribute and whether it is present
func getElementAttribute(n *html.Node, key string) (string, bool) {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val, true
		}
	}
	return "", false
}

// isAbsoluteURL checks if a URL is absolute
func isAbsoluteURL(href string) bool {
	return strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://")
}

// hostname returns the lowercase host of rawURL without its port
func hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// truncate returns the first n characters of s
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
