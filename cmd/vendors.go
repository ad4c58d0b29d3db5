package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"sitelink/internal/siteparser"
	"sitelink/internal/ui"
)

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List the BI tools links can be resolved for",
	Args:  cobra.NoArgs,
	RunE:  vendorsRun,
}

func vendorsRun(cmd *cobra.Command, args []string) error {
	rows := [][]string{}
	for _, v := range siteparser.DefaultRegistry().Vendors() {
		host := "-"
		if h, ok := v.(interface{ Host() string }); ok {
			host = h.Host()
		}
		rows = append(rows, []string{v.Name(), strconv.Itoa(v.Priority()), host})
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.Table([]string{"NAME", "PRIORITY", "HOST"}, rows))
	return nil
}
