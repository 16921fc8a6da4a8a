package extract

import (
	"context"

	"canvas-student-export/internal/canvas"
	"canvas-student-export/internal/download"
	"canvas-student-export/internal/layout"
	"canvas-student-export/internal/records"
	"canvas-student-export/internal/run"
)

const moduleItemFile = "File"

// Modules lists the modules of the course with their items. Items that
// reference a course file have that file downloaded into the module
// directory.
func (e *Extractor) Modules(ctx context.Context) []records.Module {
	ctx, span := tracer.Start(ctx, "Modules")
	defer span.End()

	out := []records.Module{}

	modules, err := e.api.Modules(ctx, e.course.CourseID)
	if err != nil {
		e.rc.Report(ctx, err, "module processing")
		return out
	}
	if len(modules) == 0 {
		e.rc.Log.Infof("    No modules found in this course")
	} else {
		e.rc.Log.Infof("    Found %d modules", len(modules))
	}

	for _, m := range modules {
		record := records.NewModule()
		record.ID = m.ID
		record.Name = str(m.Name)
		e.rc.Log.Infof("      Processing module: %s", record.Name)

		items, err := e.api.ModuleItems(ctx, e.course.CourseID, m.ID)
		if err != nil {
			e.rc.Report(ctx, err, "module item processing")
		}
		if len(items) > 0 {
			e.rc.Log.Infof("        Found %d items", len(items))
		}

		for _, item := range items {
			converted := records.ModuleItem{
				ID:          item.ID,
				Title:       str(item.Title),
				ContentType: item.Type,
				URL:         item.HTMLURL,
				ExternalURL: item.ExternalURL,
			}
			if item.Type == moduleItemFile {
				e.moduleFile(ctx, record, item)
			}
			record.Items = append(record.Items, converted)
			e.rc.Stats.Inc(ctx, run.ModuleItems)
		}

		out = append(out, record)
		e.rc.Stats.Inc(ctx, run.Modules)
	}

	return out
}

func (e *Extractor) moduleFile(ctx context.Context, module records.Module, item canvas.ModuleItem) {
	const op = "module file download"

	file, err := e.api.File(ctx, e.course.CourseID, item.ContentID)
	if err != nil {
		e.rc.Report(ctx, err, op)
		return
	}

	dest := layout.ModuleFilePath(layout.ModuleDir(e.dir, module), file.DisplayName, file.ID)
	e.downloads.Ensure(ctx, download.Request{
		Dest:    dest,
		Label:   file.DisplayName,
		Op:      op,
		Kind:    "module_file",
		Source:  file.URL,
		Counter: run.FilesDownloaded,
		Fetch:   e.fetchURL(file.URL),
	})
}
