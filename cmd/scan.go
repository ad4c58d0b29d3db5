package cmd

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"sitelink/internal/httputil"
	"sitelink/internal/linkscan"
	"sitelink/internal/siteparser"
	"sitelink/internal/ui"
)

var (
	flagInclude string
	flagTimeout time.Duration
)

var scanCmd = &cobra.Command{
	Use:   "scan <file|dir|https-url>",
	Short: "Find and resolve BI tool links inside HTML pages",
	Example: `  sitelink scan runbook.html
  sitelink scan ./wiki-export --include '**/*.html'
  sitelink scan https://wiki.example.com/revenue`,
	Args: cobra.ExactArgs(1),
	RunE: scanRun,
}

func init() {
	scanCmd.Flags().StringVar(&flagInclude, "include", linkscan.DefaultInclude, "Glob of files to read when scanning a directory")
	scanCmd.Flags().DurationVar(&flagTimeout, "timeout", 30*time.Second, "HTTP timeout for remote pages")
	addParseFlags(scanCmd)
}

func scanRun(cmd *cobra.Command, args []string) error {
	target := args[0]

	md, err := metadataFromFlags()
	if err != nil {
		return err
	}

	var links []linkscan.Link
	if httputil.IsRemote(target) {
		links, err = scanRemote(cmd, target)
	} else {
		links, err = scanLocal(target)
	}
	if err != nil {
		return err
	}
	logger.Debug().Str("target", target).Int("links", len(links)).Msg("Collected links")

	matches := linkscan.Resolve(links, siteparser.DefaultRegistry(), md, parserOptions(), logger)
	if len(matches) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No BI tool links found.")
		return nil
	}

	items := make([]ui.Resolved, len(matches))
	for i, m := range matches {
		items[i] = ui.Resolved{URL: m.URL, Vendor: m.Vendor, Source: m.Source, Result: m.Result}
	}

	out := cmd.OutOrStdout()
	return ui.Render(out, ui.ResolveFormat(cfg.Output, out), items)
}

func scanRemote(cmd *cobra.Command, target string) ([]linkscan.Link, error) {
	base, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", target, err)
	}

	client := httputil.NewClient(flagTimeout)
	doc, err := httputil.GetDocument(cmd.Context(), client, target)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	return linkscan.ExtractLinks(doc, target, base), nil
}

func scanLocal(target string) ([]linkscan.Link, error) {
	files, err := linkscan.FindFiles(target, flagInclude)
	if err != nil {
		return nil, err
	}

	var links []linkscan.Link
	for _, path := range files {
		doc, err := linkscan.ReadFile(path)
		if err != nil {
			logger.Warn().Err(err).Str("file", path).Msg("Skipping file")
			continue
		}
		links = append(links, linkscan.ExtractLinks(doc, path, nil)...)
	}
	return links, nil
}
