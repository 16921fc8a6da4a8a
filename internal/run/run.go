// Package run holds the state shared by every stage of one export: the
// configuration it was started with, the running counters, the progress
// logger and the snapshot stop flag.
package run

import (
	"context"
	"log/slog"
	"time"

	"canvas-student-export/internal/faults"
)

// Config is the immutable configuration of one export.
type Config struct {
	APIURL      string
	APIKey      string
	UserID      int64
	CookiesPath string
	// OutputDir is the root every exported path is joined to.
	OutputDir     string
	CoursesToSkip map[int64]bool
	// Snapshots enables browser captures of the web UI.
	Snapshots bool
	Verbose   bool
	// Location is used when rendering timestamps, nil keeps the offset
	// reported by the API.
	Location *time.Location
}

// Skip reports whether the course with the given id was excluded by the
// user.
func (c Config) Skip(courseID int64) bool {
	return c.CoursesToSkip[courseID]
}

// Logger receives the human readable progress of an export.
type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

// Outcome is the result of materializing one file.
type Outcome int

const (
	Downloaded Outcome = iota
	AlreadyPresent
	Skipped
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Downloaded:
		return "downloaded"
	case AlreadyPresent:
		return "already_present"
	case Skipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Artifact describes one file the export touched.
type Artifact struct {
	CourseID int64
	Kind     string
	Path     string
	Source   string
	Outcome  Outcome
	Bytes    int64
}

// Recorder is told about every artifact the export touches.
type Recorder interface {
	Record(ctx context.Context, artifact Artifact) error
}

// Context is the mutable state of one export. It is not safe for
// concurrent use, the pipeline is sequential.
type Context struct {
	Config Config
	Stats  *Stats
	Log    Logger

	// SnapshotsStopped is set once a capture returned the login page, every
	// later capture is skipped.
	SnapshotsStopped bool
	// SubmissionNoteShown limits the "own submission only" note to once
	// per run.
	SubmissionNoteShown bool

	recorder Recorder
}

// NewContext creates the state for a new export. log and recorder may be
// nil.
func NewContext(cfg Config, log Logger, recorder Recorder) *Context {
	if log == nil {
		log = nopLogger{}
	}
	return &Context{
		Config:   cfg,
		Stats:    NewStats(),
		Log:      log,
		recorder: recorder,
	}
}

// Record forwards an artifact to the recorder, if there is one.
func (c *Context) Record(ctx context.Context, artifact Artifact) {
	if c.recorder == nil {
		return
	}
	err := c.recorder.Record(ctx, artifact)
	if err != nil {
		slog.WarnContext(ctx, "failed to record artifact", "path", artifact.Path, "err", err)
	}
}

// Report classifies err, counts it and logs it. Student limitations are
// tallied apart from errors and not-found resources are not counted at
// all.
func (c *Context) Report(ctx context.Context, err error, op string) faults.Kind {
	kind, message := faults.Classify(err, op)

	switch kind {
	case faults.KindStudentLimitation:
		c.Stats.Inc(ctx, StudentLimitations)
		c.Log.Infof("    Note: %s", message)
	case faults.KindNotFound:
		c.Log.Infof("    Skipping: %s", message)
	default:
		c.Stats.Inc(ctx, Errors)
		c.Log.Errorf("    ERROR: %s", message)
		if c.Config.Verbose {
			c.Log.Errorf("      %v", err)
		}
	}

	slog.DebugContext(ctx, "classified fault", "op", op, "kind", kind, "err", err)
	return kind
}
