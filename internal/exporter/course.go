package exporter

import (
	"context"
	"fmt"

	"canvas-student-export/internal/canvas"
	"canvas-student-export/internal/extract"
	"canvas-student-export/internal/layout"
	"canvas-student-export/internal/pathutil"
	"canvas-student-export/internal/records"
	"canvas-student-export/internal/run"
)

// exportable reports whether a listed course is exported at all. Courses
// without a name or term are usually sandboxes or broken enrollments.
func (e *Exporter) exportable(c canvas.Course) bool {
	return !e.rc.Config.Skip(c.ID) && c.Name != nil && c.Term != nil
}

func newCourseRecord(c canvas.Course) records.Course {
	term := ""
	if c.Term != nil && c.Term.Name != nil {
		term = pathutil.SanitizeName(*c.Term.Name)
	}
	code := pathutil.SanitizeName(c.CourseCode)
	if code == "" {
		code = fmt.Sprintf("course_%d", c.ID)
	}
	name := ""
	if c.Name != nil {
		name = *c.Name
	}
	return records.NewCourse(c.ID, term, code, name)
}

// ExportCourse runs every stage for one course. Stages run in a fixed
// order, the snapshots of modules and attachments rely on the directories
// created by the file stages.
func (e *Exporter) ExportCourse(ctx context.Context, c canvas.Course) records.Course {
	ctx, span := tracer.Start(ctx, "ExportCourse")
	defer span.End()

	log := e.rc.Log
	course := newCourseRecord(c)
	log.Infof("Working on: %s: %s", course.Term, course.Name)

	ex := extract.New(e.api, e.rc, course)

	log.Infof("  Getting assignments")
	course.Assignments = ex.Assignments(ctx)
	log.Infof("    Found %d assignments", len(course.Assignments))

	log.Infof("  Getting announcements")
	course.Announcements = ex.Announcements(ctx)
	log.Infof("    Found %d announcements", len(course.Announcements))

	log.Infof("  Getting discussions")
	course.Discussions = ex.Discussions(ctx)
	log.Infof("    Found %d discussions", len(course.Discussions))

	log.Infof("  Getting pages")
	course.Pages = ex.Pages(ctx)
	log.Infof("    Found %d pages", len(course.Pages))

	log.Infof("  Downloading all files")
	ex.CourseFiles(ctx)

	log.Infof("  Downloading submission attachments")
	ex.Attachments(ctx, course.Assignments)

	log.Infof("  Getting modules and downloading module files")
	course.Modules = ex.Modules(ctx)

	snapshots := 0
	if e.snapshots != nil {
		snapshots = e.snapshots.Course(ctx, e.rc.Config.APIURL, course, ex.CourseDir())
	}

	log.Infof("  Exporting all course data")
	e.writeCourse(ctx, course, ex.CourseDir())

	submissions := 0
	for _, a := range course.Assignments {
		submissions += len(a.Submissions)
	}
	log.Infof("  ✓ Course data exported:")
	log.Infof("    • %d assignments with %d submissions (JSON)", len(course.Assignments), submissions)
	log.Infof("    • %d modules (JSON)", len(course.Modules))
	log.Infof("    • %d pages (JSON)", len(course.Pages))
	log.Infof("    • %d announcements (JSON)", len(course.Announcements))
	log.Infof("    • %d discussions (JSON)", len(course.Discussions))
	if e.snapshots != nil {
		log.Infof("    • %d HTML snapshots saved", snapshots)
	}

	return course
}

func (e *Exporter) writeCourse(ctx context.Context, course records.Course, dir string) {
	path := layout.CourseJSONPath(dir, course)
	e.rc.Log.Infof("    Exporting JSON data for %s...", course.CourseCode)

	artifact := run.Artifact{CourseID: course.CourseID, Kind: "json", Path: path}
	n, err := writeJSON(path, course)
	if err != nil {
		e.rc.Stats.Inc(ctx, run.Errors)
		e.rc.Log.Errorf("    ERROR: could not write %s: %v", path, err)
		artifact.Outcome = run.Failed
		e.rc.Record(ctx, artifact)
		return
	}

	e.rc.Stats.Inc(ctx, run.JSONFiles)
	e.rc.Log.Infof("      ✓ Data saved to: %s", path)
	artifact.Outcome = run.Downloaded
	artifact.Bytes = n
	e.rc.Record(ctx, artifact)
}
