package exporter

import "canvas-student-export/internal/run"

type SummaryRow struct {
	Label string
	Count int64
}

type SummarySection struct {
	Title string
	Rows  []SummaryRow
}

// Summary groups the counters of a finished export for display.
func Summary(stats *run.Stats, snapshots bool) []SummarySection {
	row := func(label string, counter run.Counter) SummaryRow {
		return SummaryRow{Label: label, Count: stats.Get(counter)}
	}

	files := []SummaryRow{
		row("course files downloaded", run.FilesDownloaded),
		row("assignment attachments downloaded", run.Attachments),
	}
	if snapshots {
		files = append(files, row("HTML pages captured", run.HTMLPages))
	}

	return []SummarySection{
		{
			Title: "Data Extraction",
			Rows: []SummaryRow{
				row("assignments found", run.Assignments),
				row("submissions found (your own)", run.Submissions),
				row("announcements found", run.Announcements),
				row("discussions found", run.Discussions),
				row("pages found", run.Pages),
				row("modules found", run.Modules),
				row("module items found", run.ModuleItems),
			},
		},
		{Title: "Files Downloaded", Rows: files},
		{
			Title: "Data Exports Created",
			Rows:  []SummaryRow{row("JSON data files created", run.JSONFiles)},
		},
		{
			Title: "Issues",
			Rows: []SummaryRow{
				row("student account limitations (expected)", run.StudentLimitations),
				row("errors encountered", run.Errors),
			},
		},
	}
}
