package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"sitelink/internal/history"
	"sitelink/internal/ui"
)

var (
	flagLimit  int
	flagClear  bool
	flagRemove string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List previously resolved links",
	Args:  cobra.NoArgs,
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().IntVarP(&flagLimit, "limit", "n", 20, "Number of entries to show (0 = all)")
	historyCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete all history entries")
	historyCmd.Flags().StringVar(&flagRemove, "remove", "", "Delete the entry for a URL")
}

func historyRun(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	if store == nil {
		return errors.New("history is disabled (set history = true in the config)")
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if flagClear {
		n, err := store.Clear()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %d history entries.\n", n)
		return nil
	}
	if flagRemove != "" {
		if err := store.Remove(flagRemove); err != nil {
			return err
		}
		fmt.Fprintf(out, "Removed %s from history.\n", flagRemove)
		return nil
	}

	entries, err := store.Load(flagLimit)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	format := ui.ResolveFormat(cfg.Output, out)
	if format == ui.FormatPretty {
		for _, line := range history.FormatForDisplay(entries, time.Now()) {
			fmt.Fprintln(out, line)
		}
		return nil
	}

	items := make([]ui.Resolved, len(entries))
	for i, e := range entries {
		items[i] = ui.Resolved{URL: e.URL, Vendor: e.Vendor, Result: e.Result()}
	}
	return ui.Render(out, format, items)
}
