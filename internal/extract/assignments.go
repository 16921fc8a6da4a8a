package extract

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"canvas-student-export/internal/canvas"
	"canvas-student-export/internal/chrono"
	"canvas-student-export/internal/faults"
	"canvas-student-export/internal/pathutil"
	"canvas-student-export/internal/records"
	"canvas-student-export/internal/run"
)

// Assignments lists the assignments of the course along with the
// submissions the account can see.
func (e *Extractor) Assignments(ctx context.Context) []records.Assignment {
	ctx, span := tracer.Start(ctx, "Assignments")
	defer span.End()

	out := []records.Assignment{}

	assignments, err := e.api.Assignments(ctx, e.course.CourseID)
	if err != nil {
		e.rc.Report(ctx, err, "course assignments processing")
	}

	for _, a := range assignments {
		record := records.NewAssignment()
		record.ID = a.ID
		record.Title = pathutil.SanitizeName(str(a.Name))
		record.Description = str(a.Description)
		record.AssignedDate = e.date(a.CreatedAt)
		record.DueDate = e.date(a.DueAt)
		record.HTMLURL = a.HTMLURL
		record.ExtURL = a.URL
		record.UpdatedURL, _, _ = strings.Cut(str(a.SubmissionsDownloadURL), "submissions?")

		for _, sub := range e.submissions(ctx, a) {
			converted := e.submission(a, sub)
			if n := len(converted.Attachments); n > 0 {
				e.rc.Log.Infof("        Found %d attachments", n)
			}
			record.Submissions = append(record.Submissions, converted)
			e.rc.Stats.Inc(ctx, run.Submissions)
		}

		out = append(out, record)
		e.rc.Stats.Inc(ctx, run.Assignments)
	}

	return out
}

func isPermissionFault(err error) bool {
	var fault *faults.Fault
	if !errors.As(err, &fault) {
		return false
	}
	return fault.Cause == faults.CauseUnauthorized || fault.Cause == faults.CauseForbidden
}

func isNotFound(err error) bool {
	var fault *faults.Fault
	return errors.As(err, &fault) && fault.Cause == faults.CauseNotFound
}

// submissions first asks for the submissions of the whole class. Student
// accounts are refused that, in which case only the submission of the
// configured user is fetched. An assignment the user never submitted to
// has no submissions, which is not an error.
func (e *Extractor) submissions(ctx context.Context, a canvas.Assignment) []canvas.Submission {
	all, err := e.api.Submissions(ctx, e.course.CourseID, a.ID)
	if err == nil {
		return all
	}
	if !isPermissionFault(err) {
		e.rc.Report(ctx, err, "submission retrieval")
		return nil
	}

	const op = "class submission download"
	kind, _ := faults.Classify(err, op)
	if kind == faults.KindStudentLimitation {
		e.rc.Stats.Inc(ctx, run.StudentLimitations)
		if !e.rc.SubmissionNoteShown {
			e.rc.SubmissionNoteShown = true
			e.rc.Log.Infof(
				"    Note: Not authorized to download every student's assignment submission. Downloading submission for user %d only.",
				e.rc.Config.UserID,
			)
		}
	} else {
		e.rc.Report(ctx, err, op)
	}

	own, err := e.api.Submission(ctx, e.course.CourseID, a.ID, e.rc.Config.UserID)
	if isNotFound(err) {
		return nil
	}
	if err != nil {
		e.rc.Report(ctx, err, "submission retrieval")
		return nil
	}
	return []canvas.Submission{own}
}

func (e *Extractor) submission(a canvas.Assignment, sub canvas.Submission) records.Submission {
	record := records.NewSubmission()
	record.ID = sub.ID
	record.Grade = str(sub.Grade)
	record.RawScore = number(sub.Score)
	record.TotalPossiblePoints = number(a.PointsPossible)
	record.SubmissionComments = e.comments(sub.SubmissionComments)
	if sub.Attempt != nil {
		record.Attempt = *sub.Attempt
	}
	if sub.UserID != nil {
		record.UserID = strconv.FormatInt(*sub.UserID, 10)
	}
	record.PreviewURL = sub.PreviewURL
	record.ExtURL = str(sub.URL)

	for _, att := range sub.Attachments {
		record.Attachments = append(record.Attachments, records.Attachment{
			ID:       att.ID,
			Filename: att.Filename,
			URL:      att.URL,
		})
	}
	return record
}

// comments renders one "author (date): text" line per comment.
func (e *Extractor) comments(comments []canvas.SubmissionComment) string {
	lines := make([]string, 0, len(comments))
	for _, c := range comments {
		lines = append(lines, c.AuthorName+" ("+chrono.Format(c.CreatedAt, e.rc.Config.Location)+"): "+c.Comment)
	}
	return strings.Join(lines, "\n")
}
