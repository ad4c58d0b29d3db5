package linkscan

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitelink/internal/facets"
	"sitelink/internal/siteparser"
)

const runbook = `<html><body>
<h1>Revenue runbook</h1>
<p>See the <a href="https://app.mode.com/acme/reports/space1/rep42">weekly report</a>
and the <a href="https://app.mode.com/acme/reports/space1/rep42">same report again</a>.</p>
<a href="https://us-east-1.quicksight.aws.amazon.com/sn/dashboards/abc123" title="QS"></a>
<a href="/wiki/other-page">relative</a>
<a href="#top">anchor</a>
<a href="mailto:data@example.com">mail</a>
<a href="https://example.com/unrelated">unrelated</a>
<iframe src="https://app.sigmacomputing.com/acme/workbook/Sales-wb1"></iframe>
</body></html>`

func loadDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func linkURLs(links []Link) []string {
	urls := make([]string, len(links))
	for i, l := range links {
		urls[i] = l.URL
	}
	return urls
}

func TestExtractLinks(t *testing.T) {
	doc := loadDoc(t, runbook)

	links := ExtractLinks(doc, "runbook.html", nil)

	assert.Equal(t, []string{
		"https://app.mode.com/acme/reports/space1/rep42",
		"https://us-east-1.quicksight.aws.amazon.com/sn/dashboards/abc123",
		"https://example.com/unrelated",
		"https://app.sigmacomputing.com/acme/workbook/Sales-wb1",
	}, linkURLs(links))
	assert.Equal(t, "weekly report", links[0].Text)
	assert.Equal(t, "QS", links[1].Text)
	assert.Equal(t, "runbook.html", links[0].Source)
}

func TestExtractLinksResolvesRelative(t *testing.T) {
	doc := loadDoc(t, runbook)
	base, err := url.Parse("https://wiki.example.com/wiki/revenue")
	require.NoError(t, err)

	links := ExtractLinks(doc, base.String(), base)

	assert.Contains(t, linkURLs(links), "https://wiki.example.com/wiki/other-page")
}

func TestResolve(t *testing.T) {
	links := ExtractLinks(loadDoc(t, runbook), "runbook.html", nil)

	matches := Resolve(links, siteparser.DefaultRegistry(), siteparser.Metadata{}, siteparser.Options{}, zerolog.Nop())

	require.Len(t, matches, 3)
	assert.Equal(t, "mode", matches[0].Vendor)
	assert.Equal(t, facets.ModeReport, matches[0].Result.TypeName)
	assert.Equal(t, "quicksight", matches[1].Vendor)
	assert.Equal(t, facets.QuickSightDashboard, matches[1].Result.TypeName)
	assert.Equal(t, "sigma", matches[2].Vendor)
	assert.Equal(t, facets.SigmaWorkbook, matches[2].Result.TypeName)
}

func TestFindFiles(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"index.html", "docs/a.htm", "docs/deep/b.html", "docs/notes.md"} {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("<html></html>"), 0o644))
	}

	t.Run("default pattern", func(t *testing.T) {
		files, err := FindFiles(root, "")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{
			filepath.Join(root, "index.html"),
			filepath.Join(root, "docs", "a.htm"),
			filepath.Join(root, "docs", "deep", "b.html"),
		}, files)
	})

	t.Run("custom pattern", func(t *testing.T) {
		files, err := FindFiles(root, "docs/*.md")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(root, "docs", "notes.md")}, files)
	})

	t.Run("single file", func(t *testing.T) {
		file := filepath.Join(root, "index.html")
		files, err := FindFiles(file, "")
		require.NoError(t, err)
		assert.Equal(t, []string{file}, files)
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := FindFiles(root, "docs/[")
		assert.Error(t, err)
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := FindFiles(filepath.Join(root, "nope"), "")
		assert.Error(t, err)
	})
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	require.NoError(t, os.WriteFile(path, []byte(runbook), 0o644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Revenue runbook", doc.Find("h1").Text())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.html"))
	assert.Error(t, err)
}
