package extract

import (
	"context"
	"fmt"
	"path/filepath"

	"canvas-student-export/internal/canvas"
	"canvas-student-export/internal/download"
	"canvas-student-export/internal/layout"
	"canvas-student-export/internal/records"
	"canvas-student-export/internal/run"
)

// CourseFiles downloads every file of the course into the folder structure
// it has on the remote side.
func (e *Extractor) CourseFiles(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "CourseFiles")
	defer span.End()

	files, err := e.api.Files(ctx, e.course.CourseID)
	if err != nil {
		e.rc.Report(ctx, err, "course file download")
		return
	}

	for _, file := range files {
		op := fmt.Sprintf("file download for %s", file.DisplayName)

		folder, err := e.folder(ctx, file.FolderID)
		if err != nil {
			e.rc.Report(ctx, err, op)
			continue
		}

		e.downloads.Ensure(ctx, download.Request{
			Dest:    layout.CourseFilePath(e.dir, folder.FullName, file.DisplayName, file.ID),
			Label:   file.DisplayName,
			Op:      op,
			Kind:    "course_file",
			Source:  file.URL,
			Counter: run.FilesDownloaded,
			Fetch:   e.fetchURL(file.URL),
		})
	}
}

// folder memoizes folder lookups, most files of a course share a handful
// of folders.
func (e *Extractor) folder(ctx context.Context, id int64) (canvas.Folder, error) {
	if folder, ok := e.folders[id]; ok {
		return folder, nil
	}
	folder, err := e.api.Folder(ctx, id)
	if err != nil {
		return canvas.Folder{}, err
	}
	e.folders[id] = folder
	return folder, nil
}

// Attachments downloads the attachments of every submission of the given
// assignments.
func (e *Extractor) Attachments(ctx context.Context, assignments []records.Assignment) {
	ctx, span := tracer.Start(ctx, "Attachments")
	defer span.End()

	for _, a := range assignments {
		assignmentDir := layout.AssignmentDir(e.dir, a)
		for _, sub := range a.Submissions {
			dir := layout.SubmissionDir(assignmentDir, a, sub)
			for _, att := range sub.Attachments {
				e.downloads.Ensure(ctx, download.Request{
					Dest:    filepath.Join(dir, layout.AttachmentName(att)),
					Label:   att.Filename,
					Op:      "submission attachment download",
					Kind:    "attachment",
					Source:  att.URL,
					Counter: run.Attachments,
					Fetch:   e.fetchURL(att.URL),
				})
			}
		}
	}
}
