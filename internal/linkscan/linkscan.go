// Package linkscan finds BI tool links inside HTML documents such as wiki
// exports or runbooks and resolves them to catalog facets.
package linkscan

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"sitelink/internal/facets"
	"sitelink/internal/siteparser"
)

// DefaultInclude selects HTML files when scanning a directory.
const DefaultInclude = "**/*.{html,htm}"

// linkSelectors lists the elements and attributes that can carry a link.
var linkSelectors = []struct {
	selector string
	attr     string
}{
	{"a[href]", "href"},
	{"iframe[src]", "src"},
	{"embed[src]", "src"},
}

// Link is a link found in a document.
type Link struct {
	Source string // file path or page URL the link came from
	URL    string
	Text   string
}

// Match is a link that resolved to catalog facets.
type Match struct {
	Link
	Vendor string
	Result *facets.Result
}

// ExtractLinks returns the distinct links in doc, in document order.
// Relative links are resolved against base when it is non-nil and
// dropped otherwise.
func ExtractLinks(doc *goquery.Document, source string, base *url.URL) []Link {
	var links []Link
	seen := make(map[string]bool)

	for _, ls := range linkSelectors {
		doc.Find(ls.selector).Each(func(_ int, s *goquery.Selection) {
			raw := strings.TrimSpace(s.AttrOr(ls.attr, ""))
			if raw == "" || strings.HasPrefix(raw, "#") {
				return
			}

			u, err := url.Parse(raw)
			if err != nil {
				return
			}
			if !u.IsAbs() {
				if base == nil {
					return
				}
				u = base.ResolveReference(u)
			}
			if u.Scheme != "http" && u.Scheme != "https" {
				return
			}

			href := u.String()
			if seen[href] {
				return
			}
			seen[href] = true

			text := strings.TrimSpace(s.Text())
			if text == "" {
				text = s.AttrOr("title", "")
			}
			links = append(links, Link{Source: source, URL: href, Text: text})
		})
	}

	return links
}

// ReadFile parses the HTML file at path.
func ReadFile(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// FindFiles returns the files under root matching the doublestar pattern,
// joined with root. If root is a file it is returned as is.
func FindFiles(root, pattern string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return []string{root}, nil
	}

	if pattern == "" {
		pattern = DefaultInclude
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid include pattern %q", pattern)
	}

	matches, err := doublestar.Glob(os.DirFS(root), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("matching %q under %s: %w", pattern, root, err)
	}

	files := make([]string, 0, len(matches))
	for _, m := range matches {
		files = append(files, filepath.Join(root, filepath.FromSlash(m)))
	}
	return files, nil
}

// Resolve runs every link through the site parser and keeps the ones that
// resolve. Links are handled one at a time.
func Resolve(links []Link, registry *siteparser.Registry, md siteparser.Metadata, opts siteparser.Options, logger zerolog.Logger) []Match {
	p := siteparser.New(registry, opts).WithLogger(logger)
	p.SetMetadata(md)

	var matches []Match
	for _, l := range links {
		p.SetURL(l.URL)
		r := p.Parsed()
		if r == nil {
			continue
		}
		matches = append(matches, Match{Link: l, Vendor: p.Vendor().Name(), Result: r})
	}

	logger.Debug().Int("links", len(links)).Int("matches", len(matches)).Msg("Resolved scanned links")
	return matches
}
