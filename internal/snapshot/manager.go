package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"canvas-student-export/internal/assert"
	"canvas-student-export/internal/faults"
	"canvas-student-export/internal/run"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("canvas-student-export/snapshot")

// ErrLoggedOut is returned when a capture produced the Canvas login page,
// the cookies given to the capturer no longer belong to a session.
var ErrLoggedOut = faults.New(
	faults.CauseInvalidToken,
	http.StatusUnauthorized,
	"Authentication failed, the captured page is the Canvas login page. Export fresh browser cookies and try again.",
)

var loginMarkers = [][]byte{
	[]byte("<title>Log In to Canvas</title>"),
	[]byte(`id="login_form"`),
	[]byte(`autocomplete="current-password"`),
}

func isLoginPage(contents []byte) bool {
	for _, marker := range loginMarkers {
		if bytes.Contains(contents, marker) {
			return true
		}
	}
	return false
}

// the capturer may still hold the file for a moment after it exited
const readAttempts = 3

// Manager captures pages at most once per path. Once a capture returns the
// login page, every later capture of the run is skipped.
type Manager struct {
	rc        *run.Context
	capturer  Capturer
	courseID  int64
	readDelay time.Duration
}

func NewManager(rc *run.Context, capturer Capturer) Manager {
	assert.NotNil(rc)
	assert.NotNil(capturer)
	return Manager{
		rc:        rc,
		capturer:  capturer,
		readDelay: 500 * time.Millisecond,
	}
}

// ForCourse returns a manager recording its captures under courseID. The
// stop flag is shared.
func (m Manager) ForCourse(courseID int64) Manager {
	m.courseID = courseID
	return m
}

func (m Manager) record(ctx context.Context, url, dest string, outcome run.Outcome) {
	m.rc.Record(ctx, run.Artifact{
		CourseID: m.courseID,
		Kind:     "snapshot",
		Path:     dest,
		Source:   url,
		Outcome:  outcome,
	})
}

// Capture saves url as dest.
func (m Manager) Capture(ctx context.Context, url, dest string, extraArgs ...string) (run.Outcome, error) {
	if m.rc.SnapshotsStopped {
		return run.Skipped, nil
	}

	ctx, span := tracer.Start(ctx, "Capture")
	defer span.End()
	span.SetAttributes(attribute.String("url", url), attribute.String("dest", dest))

	filename := filepath.Base(dest)
	m.rc.Log.Infof("    Downloading: %s...", filename)

	_, err := os.Stat(dest)
	if err == nil {
		m.rc.Log.Infof("      ✓ Already exists: %s", filename)
		m.record(ctx, url, dest, run.AlreadyPresent)
		return run.AlreadyPresent, nil
	}

	err = m.capture(ctx, url, dest, extraArgs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "capture failed")

		m.rc.Stats.Inc(ctx, run.Errors)
		m.rc.Log.Errorf("      ❌ Failed: %v", err)
		if errors.Is(err, ErrLoggedOut) {
			m.rc.Log.Warnf("      Stopping all subsequent HTML downloads.")
			m.rc.SnapshotsStopped = true
		}
		m.record(ctx, url, dest, run.Failed)
		return run.Failed, err
	}

	m.rc.Stats.Inc(ctx, run.HTMLPages)
	m.rc.Log.Infof("      ✓ Saved: %s", filename)
	m.record(ctx, url, dest, run.Downloaded)
	return run.Downloaded, nil
}

func (m Manager) capture(ctx context.Context, url, dest string, extraArgs []string) error {
	dir := filepath.Dir(dest)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return fmt.Errorf("create directory for %s: %w", dest, err)
	}

	err = m.capturer.Capture(ctx, url, dir, filepath.Base(dest), extraArgs...)
	if err != nil {
		return err
	}
	return m.verify(dest)
}

// verify rejects captures of the login page, removing them so that the
// next run tries again.
func (m Manager) verify(dest string) error {
	var contents []byte
	var err error
	for attempt := 0; attempt < readAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(m.readDelay)
		}
		contents, err = os.ReadFile(dest)
		if err == nil {
			break
		}
	}
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("capture of %s produced no file", filepath.Base(dest))
	}
	if err != nil {
		return fmt.Errorf("read capture: %w", err)
	}

	if isLoginPage(contents) {
		err = os.Remove(dest)
		if err != nil {
			return fmt.Errorf("%w (removing %s: %v)", ErrLoggedOut, dest, err)
		}
		return ErrLoggedOut
	}
	return nil
}
