// Package exporter drives a whole export: it checks the credentials, lists
// the courses of the account, exports every course and writes the combined
// JSON document.
package exporter

import (
	"context"
	"fmt"
	"os"

	"canvas-student-export/internal/assert"
	"canvas-student-export/internal/canvas"
	"canvas-student-export/internal/extract"
	"canvas-student-export/internal/faults"
	"canvas-student-export/internal/layout"
	"canvas-student-export/internal/records"
	"canvas-student-export/internal/run"
	"canvas-student-export/internal/snapshot"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("canvas-student-export/exporter")

// enrollment states exported, in order
var enrollmentStates = []string{"active", "completed"}

// API is the Canvas client as used by the exporter.
type API interface {
	extract.API
	CurrentUser(ctx context.Context) (canvas.User, error)
	Courses(ctx context.Context, enrollmentState string) ([]canvas.Course, error)
}

// FatalError stops the export before any course is processed.
type FatalError struct {
	Kind    faults.Kind
	Message string
	Err     error
}

func (e *FatalError) Error() string {
	return e.Message
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

type Exporter struct {
	api       API
	rc        *run.Context
	snapshots *snapshot.Manager
}

// New creates an exporter. Snapshots are only captured when capturer is
// not nil.
func New(api API, rc *run.Context, capturer snapshot.Capturer) *Exporter {
	assert.NotNil(api)
	assert.NotNil(rc)

	e := &Exporter{api: api, rc: rc}
	if capturer != nil {
		m := snapshot.NewManager(rc, capturer)
		e.snapshots = &m
	}
	return e
}

// Authenticate checks that the API key belongs to an account. Only fatal
// classifications are returned.
func (e *Exporter) Authenticate(ctx context.Context) error {
	const op = "Canvas authentication"

	user, err := e.api.CurrentUser(ctx)
	if err != nil {
		kind, message := faults.Classify(err, op)
		if faults.IsFatal(kind) {
			return &FatalError{Kind: kind, Message: message, Err: err}
		}
		e.rc.Report(ctx, err, op)
		return nil
	}

	e.rc.Log.Infof("Successfully authenticated as: %s (ID: %d)", user.Name, user.ID)
	if user.ID != e.rc.Config.UserID {
		e.rc.Log.Warnf(
			"Warning: Authenticated user ID (%d) does not match configured USER_ID (%d)",
			user.ID, e.rc.Config.UserID,
		)
	}
	return nil
}

// Courses lists the active and completed courses of the account that
// should be exported. A course enrolled in both states is listed once.
func (e *Exporter) Courses(ctx context.Context) []canvas.Course {
	seen := map[int64]bool{}
	out := []canvas.Course{}
	for _, state := range enrollmentStates {
		courses, err := e.api.Courses(ctx, state)
		if err != nil {
			e.rc.Report(ctx, err, fmt.Sprintf("%s course listing", state))
		}
		for _, c := range courses {
			if seen[c.ID] || !e.exportable(c) {
				continue
			}
			seen[c.ID] = true
			out = append(out, c)
		}
	}
	return out
}

// Run performs the whole export and returns the exported courses in the
// order they were processed. The error is always a *FatalError or a
// failure to create the output directory.
func (e *Exporter) Run(ctx context.Context) ([]records.Course, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	log := e.rc.Log
	root := e.rc.Config.OutputDir

	log.Infof("Connecting to Canvas…")
	err := e.Authenticate(ctx)
	if err != nil {
		return nil, err
	}

	log.Infof("Creating output directory: %s", root)
	err = os.MkdirAll(root, 0755)
	if err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	log.Infof("Getting list of all courses")
	courses := e.Courses(ctx)

	if e.snapshots != nil {
		log.Infof("  Downloading course list page")
		e.snapshots.CourseList(ctx, e.rc.Config.APIURL, root)
	}

	exported := []records.Course{}
	for _, c := range courses {
		if ctx.Err() != nil {
			log.Warnf("Export interrupted, writing what was collected so far")
			break
		}
		exported = append(exported, e.ExportCourse(ctx, c))
	}

	e.writeCombined(ctx, exported)
	return exported, nil
}

func (e *Exporter) writeCombined(ctx context.Context, courses []records.Course) {
	path := layout.CombinedJSONPath(e.rc.Config.OutputDir)
	e.rc.Log.Infof("Exporting data from all courses combined as one file: %s", layout.CombinedJSONName)

	artifact := run.Artifact{Kind: "json", Path: path}
	n, err := writeJSON(path, courses)
	if err != nil {
		e.rc.Stats.Inc(ctx, run.Errors)
		e.rc.Log.Errorf("ERROR: could not write %s: %v", path, err)
		artifact.Outcome = run.Failed
		e.rc.Record(ctx, artifact)
		return
	}

	e.rc.Stats.Inc(ctx, run.JSONFiles)
	e.rc.Log.Infof("Combined JSON data exported to: %s", path)
	artifact.Outcome = run.Downloaded
	artifact.Bytes = n
	e.rc.Record(ctx, artifact)
}
