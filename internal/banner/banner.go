// Package banner resolves a representative image URL for a meetup event
// page: the Open Graph image when the page declares one, else the first
// inline image.
package banner

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/net/html"
)

// Client fetches event pages and scans them for a banner image.
type Client struct {
	http *http.Client
}

// NewClient returns a Client with a 15 second request timeout.
func NewClient() *Client {
	return &Client{
		http: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Resolve fetches pageURL and returns the banner image URL for it.
//
//   - An empty pageURL resolves to "" without touching the network.
//   - The body is scanned regardless of HTTP status.
//   - An og:image meta tag ends the search even when its content is
//     empty; otherwise the first <img> src is used; otherwise "".
//   - Missing tags are never an error. Only transport failures return a
//     non-nil error, and callers treat those as fatal.
//
// Callers substitute their default banner path when the result is "".
func (c *Client) Resolve(ctx context.Context, pageURL string) (string, error) {
	if pageURL == "" {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", err
	}
	return imageFromDoc(doc), nil
}

func imageFromDoc(doc *html.Node) string {
	if meta, ok := findNode(doc, isOGImageMeta); ok {
		return attrValue(meta, "content")
	}
	if img, ok := findNode(doc, func(n *html.Node) bool { return n.Data == "img" }); ok {
		return attrValue(img, "src")
	}
	return ""
}

// findNode walks the tree depth-first and returns the first element node
// matched.
func findNode(n *html.Node, match func(*html.Node) bool) (*html.Node, bool) {
	if n.Type == html.ElementNode && match(n) {
		return n, true
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found, ok := findNode(c, match); ok {
			return found, true
		}
	}
	return nil, false
}

func isOGImageMeta(n *html.Node) bool {
	return n.Data == "meta" && attrValue(n, "property") == "og:image"
}

func attrValue(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}
