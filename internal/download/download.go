// Package download materializes remote files at deterministic paths,
// at most once per path.
package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"canvas-student-export/internal/assert"
	"canvas-student-export/internal/run"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("canvas-student-export/download")

// FetchFunc writes the content of a remote file to dest and returns the
// number of bytes written.
type FetchFunc func(ctx context.Context, dest string) (int64, error)

type Request struct {
	Dest string
	// Label is the name shown in progress lines, the base of Dest when
	// empty.
	Label string
	// Op describes the operation for the error classifier.
	Op string
	// Kind and Source are recorded in the manifest.
	Kind   string
	Source string
	// Counter is incremented when the file was downloaded, may be empty.
	Counter run.Counter
	Fetch   FetchFunc
}

type Manager struct {
	rc       *run.Context
	courseID int64
}

func NewManager(rc *run.Context, courseID int64) Manager {
	assert.NotNil(rc)
	return Manager{rc: rc, courseID: courseID}
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Ensure fetches req.Dest unless it already exists. Failures are reported
// to the run context and never returned to the caller as a panic or an
// abort, the returned error only describes the Failed outcome.
func (m Manager) Ensure(ctx context.Context, req Request) (run.Outcome, error) {
	ctx, span := tracer.Start(ctx, "Ensure")
	defer span.End()
	span.SetAttributes(attribute.String("dest", req.Dest))

	label := req.Label
	if label == "" {
		label = filepath.Base(req.Dest)
	}
	artifact := run.Artifact{
		CourseID: m.courseID,
		Kind:     req.Kind,
		Path:     req.Dest,
		Source:   req.Source,
	}

	present, err := exists(req.Dest)
	if err != nil {
		return m.fail(ctx, artifact, req.Op, fmt.Errorf("check %s: %w", req.Dest, err))
	}
	if present {
		m.rc.Log.Infof("    ✓ Already exists: %s", label)
		artifact.Outcome = run.AlreadyPresent
		m.rc.Record(ctx, artifact)
		return run.AlreadyPresent, nil
	}

	m.rc.Log.Infof("    Downloading: %s...", label)
	n, err := m.fetch(ctx, req)
	if err != nil {
		return m.fail(ctx, artifact, req.Op, err)
	}

	if req.Counter != "" {
		m.rc.Stats.Inc(ctx, req.Counter)
	}
	m.rc.Log.Infof("    ✓ Saved: %s", label)
	artifact.Outcome = run.Downloaded
	artifact.Bytes = n
	m.rc.Record(ctx, artifact)
	span.SetAttributes(attribute.Int64("bytes", n))
	return run.Downloaded, nil
}

func (m Manager) fail(ctx context.Context, artifact run.Artifact, op string, err error) (run.Outcome, error) {
	m.rc.Report(ctx, err, op)
	artifact.Outcome = run.Failed
	m.rc.Record(ctx, artifact)
	return run.Failed, err
}

func (m Manager) fetch(ctx context.Context, req Request) (int64, error) {
	err := os.MkdirAll(filepath.Dir(req.Dest), 0755)
	if err != nil {
		return 0, fmt.Errorf("create directory for %s: %w", req.Dest, err)
	}
	return req.Fetch(ctx, req.Dest)
}
