// Package extract walks the remote collections of one course and turns them
// into records. Every failure is reported to the run context at the
// narrowest scope possible, an extractor always returns what it collected.
package extract

import (
	"context"
	"strconv"

	"canvas-student-export/internal/assert"
	"canvas-student-export/internal/canvas"
	"canvas-student-export/internal/chrono"
	"canvas-student-export/internal/download"
	"canvas-student-export/internal/layout"
	"canvas-student-export/internal/records"
	"canvas-student-export/internal/run"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("canvas-student-export/extract")

// API is the part of the Canvas client the extractors read from.
type API interface {
	Assignments(ctx context.Context, courseID int64) ([]canvas.Assignment, error)
	Submissions(ctx context.Context, courseID, assignmentID int64) ([]canvas.Submission, error)
	Submission(ctx context.Context, courseID, assignmentID, userID int64) (canvas.Submission, error)
	DiscussionTopics(ctx context.Context, courseID int64, onlyAnnouncements bool) ([]canvas.DiscussionTopic, error)
	TopicEntries(ctx context.Context, courseID, topicID int64) ([]canvas.DiscussionEntry, error)
	EntryReplies(ctx context.Context, courseID, topicID, entryID int64) ([]canvas.DiscussionEntry, error)
	Pages(ctx context.Context, courseID int64) ([]canvas.Page, error)
	Page(ctx context.Context, courseID int64, slug string) (canvas.Page, error)
	Modules(ctx context.Context, courseID int64) ([]canvas.Module, error)
	ModuleItems(ctx context.Context, courseID, moduleID int64) ([]canvas.ModuleItem, error)
	Files(ctx context.Context, courseID int64) ([]canvas.File, error)
	File(ctx context.Context, courseID, fileID int64) (canvas.File, error)
	Folder(ctx context.Context, folderID int64) (canvas.Folder, error)
	Download(ctx context.Context, rawURL, dest string) (int64, error)
}

// Extractor reads the collections of a single course.
type Extractor struct {
	api       API
	rc        *run.Context
	course    records.Course
	dir       string
	downloads download.Manager
	folders   map[int64]canvas.Folder
}

func New(api API, rc *run.Context, course records.Course) *Extractor {
	assert.NotNil(api)
	assert.NotNil(rc)

	return &Extractor{
		api:       api,
		rc:        rc,
		course:    course,
		dir:       layout.CourseDir(rc.Config.OutputDir, course),
		downloads: download.NewManager(rc, course.CourseID),
		folders:   map[int64]canvas.Folder{},
	}
}

// CourseDir is the directory every file of the course is written below.
func (e *Extractor) CourseDir() string {
	return e.dir
}

func (e *Extractor) fetchURL(rawURL string) download.FetchFunc {
	return func(ctx context.Context, dest string) (int64, error) {
		return e.api.Download(ctx, rawURL, dest)
	}
}

func (e *Extractor) date(raw *string) string {
	return chrono.FormatPtr(raw, e.rc.Config.Location)
}

func str(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func number(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}
