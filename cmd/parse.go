package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sitelink/internal/history"
	"sitelink/internal/siteparser"
	"sitelink/internal/ui"
)

var (
	flagType string
	flagPage string
)

var parseCmd = &cobra.Command{
	Use:   "parse <url> [url...]",
	Short: "Resolve one or more links to catalog facets",
	Example: `  sitelink parse https://app.mode.com/acme/reports/8a1f/c93d
  sitelink parse --type quicksight https://bi.example.com/sn/dashboards/abc123
  sitelink parse --page p7 https://app.sigmacomputing.com/acme/workbook/Sales-4fRn2x`,
	Args: cobra.MinimumNArgs(1),
	RunE: parseRun,
}

func init() {
	addParseFlags(parseCmd)
}

func addParseFlags(c *cobra.Command) {
	c.Flags().StringVarP(&flagType, "type", "t", "", "Force a vendor: mode | sigma | quicksight")
	c.Flags().StringVar(&flagPage, "page", "", "Sigma page currently selected")
}

// metadataFromFlags builds parser metadata from --type/--page, falling back
// to the configured custom type.
func metadataFromFlags() (siteparser.Metadata, error) {
	md := siteparser.Metadata{
		CustomType: cfg.CustomType,
		ResourceSpecificContext: siteparser.ResourceContext{
			SelectedPage: flagPage,
		},
	}
	if flagType != "" {
		if siteparser.DefaultRegistry().FindByName(flagType) == nil {
			return md, fmt.Errorf("unknown vendor %q (see 'sitelink vendors')", flagType)
		}
		md.CustomType = flagType
	}
	return md, nil
}

func parseRun(cmd *cobra.Command, args []string) error {
	md, err := metadataFromFlags()
	if err != nil {
		return err
	}

	store, err := openHistory()
	if err != nil {
		// History is a convenience; a broken store must not block parsing.
		logger.Warn().Err(err).Msg("History disabled")
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	p := siteparser.New(siteparser.DefaultRegistry(), parserOptions()).WithLogger(logger)
	p.SetMetadata(md)

	items := make([]ui.Resolved, 0, len(args))
	for _, raw := range args {
		p.SetURL(raw)
		item := ui.Resolved{URL: raw, Result: p.Parsed()}
		if v := p.Vendor(); v != nil {
			item.Vendor = v.Name()
		}
		items = append(items, item)

		if store != nil && item.Result != nil {
			if err := store.Save(history.NewEntry(raw, item.Vendor, item.Result, time.Now())); err != nil {
				logger.Warn().Err(err).Str("url", raw).Msg("Could not record link")
			}
		}
	}

	out := cmd.OutOrStdout()
	return ui.Render(out, ui.ResolveFormat(cfg.Output, out), items)
}
