package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/veridex/veridex/internal/model"
	"github.com/veridex/veridex/internal/util"
)

const duckduckgoEndpoint = "https://html.duckduckgo.com/html/"

// ddgMaxBody bounds how much of a results page we read
const ddgMaxBody = 2 << 20

// DuckDuckGoProvider is the credential-free fallback evidence source.
// It scrapes the HTML results endpoint, so it checks robots.txt and
// identifies itself honestly.
type DuckDuckGoProvider struct {
	endpoint   string
	userAgent  string
	httpClient *http.Client
	robots     *util.RobotsChecker
}

// NewDuckDuckGoProvider creates a new DuckDuckGo-backed provider
func NewDuckDuckGoProvider(cfg model.SearchConfig) *DuckDuckGoProvider {
	return &DuckDuckGoProvider{
		endpoint:  duckduckgoEndpoint,
		userAgent: cfg.UserAgent,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots: util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout, cfg.RobotsTTL),
	}
}

// Name returns the provider name
func (p *DuckDuckGoProvider) Name() string {
	return "duckduckgo"
}

// Search scrapes the HTML results page for the query
func (p *DuckDuckGoProvider) Search(ctx context.Context, query string, max int) ([]model.EvidenceItem, error) {
	target := p.endpoint + "?q=" + url.QueryEscape(query)

	if !p.robots.IsAllowed(ctx, target) {
		return nil, fmt.Errorf("robots.txt disallows %s", p.endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo status %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, ddgMaxBody))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}

	items := parseResults(doc)
	if len(items) > max {
		items = items[:max]
	}

	return items, nil
}

// parseResults walks the document collecting result links and their
// snippets. Result anchors carry class "result__a", snippets
// "result__snippet"; they appear in document order, one per hit.
func parseResults(doc *html.Node) []model.EvidenceItem {
	var items []model.EvidenceItem
	var snippets []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, "result__a"):
				items = append(items, model.EvidenceItem{
					Title: nodeText(n),
					URL:   resolveResultURL(attr(n, "href")),
				})
			case hasClass(n, "result__snippet"):
				snippets = append(snippets, nodeText(n))
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	for i := range items {
		if i < len(snippets) {
			items[i].Snippet = snippets[i]
		}
	}

	return items
}

// resolveResultURL unwraps DuckDuckGo's redirect links, which carry
// the destination in the uddg query parameter.
func resolveResultURL(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return href
	}

	if dest := parsed.Query().Get("uddg"); dest != "" {
		return dest
	}

	return href
}

func hasClass(n *html.Node, class string) bool {
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// nodeText concatenates the text nodes under n
func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
