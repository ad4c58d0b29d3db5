package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitelink/internal/linkscan"
)

// isolate points config and data lookups at fresh temp dirs.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
}

// resetFlags restores flag defaults; cobra keeps parsed values between
// Execute calls on the same command tree.
func resetFlags() {
	flagConfig, flagTenant, flagOutput = "", "", ""
	flagAllowEmptyIDs, flagNoHistory, flagDebug = false, false, false
	flagType, flagPage = "", ""
	flagInclude, flagTimeout = linkscan.DefaultInclude, 30*time.Second
	flagLimit, flagClear, flagRemove = 20, false, ""

	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		unset := func(f *pflag.Flag) { f.Changed = false }
		c.Flags().VisitAll(unset)
		c.PersistentFlags().VisitAll(unset)
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string) map[string]any {
	t.Helper()
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	return got
}

func TestParseCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "parse", "-o", "json", "https://app.mode.com/acme/reports/space1/rep42")
	require.NoError(t, err)

	got := decode(t, out)
	assert.Equal(t, "mode", got["vendor"])
	result := got["result"].(map[string]any)
	assert.Equal(t, "ModeReport", result["typeName"])
	assert.Contains(t, out, `"default/mode"`)
	assert.Contains(t, out, `"/rep42"`)
}

func TestRootParsesArgs(t *testing.T) {
	isolate(t)

	out, err := execute(t, "--tenant", "acme", "-o", "json", "https://app.mode.com/acme/spaces/abc")
	require.NoError(t, err)
	assert.Contains(t, out, `"acme/mode"`)
	assert.Contains(t, out, "ModeCollection")
}

func TestParseCustomType(t *testing.T) {
	isolate(t)

	out, err := execute(t, "parse", "-o", "json", "--type", "quicksight", "https://bi.example.com/sn/dashboards/abc123")
	require.NoError(t, err)
	assert.Contains(t, out, "QuickSightDashboard")

	_, err = execute(t, "parse", "--type", "tableau", "https://bi.example.com/x")
	assert.Error(t, err)
}

func TestParseNoMatch(t *testing.T) {
	isolate(t)

	out, err := execute(t, "parse", "-o", "json", "https://example.com/nothing")
	require.NoError(t, err)
	got := decode(t, out)
	assert.Nil(t, got["result"])
}

func TestParseInvalidTenant(t *testing.T) {
	isolate(t)

	_, err := execute(t, "parse", "--tenant", "a/b", "https://app.mode.com/acme/spaces/abc")
	assert.Error(t, err)
}

func TestHistoryRecordsParses(t *testing.T) {
	isolate(t)

	_, err := execute(t, "parse", "-o", "json", "https://us-east-1.quicksight.aws.amazon.com/sn/dashboards/abc123")
	require.NoError(t, err)
	_, err = execute(t, "parse", "-o", "json", "https://example.com/nothing")
	require.NoError(t, err)

	out, err := execute(t, "history", "-o", "json")
	require.NoError(t, err)
	got := decode(t, out)
	assert.Equal(t, "https://us-east-1.quicksight.aws.amazon.com/sn/dashboards/abc123", got["url"])

	out, err = execute(t, "history", "--clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 1 history entries.")

	out, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No history entries found.")
}

func TestNoHistoryFlag(t *testing.T) {
	isolate(t)

	_, err := execute(t, "parse", "--no-history", "-o", "json", "https://app.mode.com/acme/spaces/abc")
	require.NoError(t, err)

	out, err := execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No history entries found.")
}

func TestScanDirectory(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	page := `<html><body>
<a href="https://app.mode.com/acme/spaces/abc">collection</a>
<a href="https://example.com/">other</a>
</body></html>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0o644))

	out, err := execute(t, "scan", "-o", "json", dir)
	require.NoError(t, err)

	got := decode(t, out)
	assert.Equal(t, "https://app.mode.com/acme/spaces/abc", got["url"])
	assert.Equal(t, filepath.Join(dir, "index.html"), got["source"])
}

func TestScanNothingFound(t *testing.T) {
	isolate(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(`<a href="https://example.com/">x</a>`), 0o644))

	out, err := execute(t, "scan", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "No BI tool links found.")
}

func TestVendorsCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "vendors")
	require.NoError(t, err)
	assert.Contains(t, out, "app.mode.com")
	assert.Contains(t, out, "app.sigmacomputing.com")
	assert.Contains(t, out, "quicksight.aws.amazon")
	assert.Less(t, bytes.Index([]byte(out), []byte("mode")), bytes.Index([]byte(out), []byte("quicksight")))
}

func TestVersionCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "sitelink dev\n", out)
}
