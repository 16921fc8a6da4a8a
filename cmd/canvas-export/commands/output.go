package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"canvas-student-export/internal/exporter"
	"canvas-student-export/internal/layout"
	"canvas-student-export/internal/run"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

// cliLogger prints progress to stdout, warnings in yellow and errors in
// red.
type cliLogger struct {
	warn *color.Color
	err  *color.Color
}

func newCLILogger() cliLogger {
	return cliLogger{
		warn: color.New(color.FgYellow),
		err:  color.New(color.FgRed),
	}
}

func (l cliLogger) Infof(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}

func (l cliLogger) Warnf(format string, args ...any) {
	l.warn.Printf(format+"\n", args...)
}

func (l cliLogger) Errorf(format string, args ...any) {
	l.err.Printf(format+"\n", args...)
}

func newTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

func renderSummary(out io.Writer, stats *run.Stats, root string, snapshots bool) {
	t := newTable(out)
	t.AppendHeader(table.Row{"Section", "Item", "Count"})
	for i, section := range exporter.Summary(stats, snapshots) {
		if i > 0 {
			t.AppendSeparator()
		}
		for _, row := range section.Rows {
			t.AppendRow(table.Row{section.Title, row.Label, row.Count})
		}
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, AutoMerge: true},
	})
	t.Render()

	fmt.Fprintf(out, "Individual course data: %s\n", filepath.Join(root, "[Term]", "[Course]", "[Course].json"))
	fmt.Fprintf(out, "Combined data: %s\n", layout.CombinedJSONPath(root))
}

func fatal(format string, args ...any) {
	color.New(color.FgRed).Fprintf(os.Stderr, format+"\n", args...)
}
