package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"canvas-student-export/internal/canvas"
	"canvas-student-export/internal/faults"
	"canvas-student-export/internal/run"
	"canvas-student-export/internal/testutil"

	"github.com/stretchr/testify/require"
)

var ptr = testutil.Ptr[string]

func singleCourseCanvas() *testutil.FakeCanvas {
	api := testutil.NewFakeCanvas()
	api.User = canvas.User{ID: 42, Name: "Student"}
	api.CoursesByState["active"] = []canvas.Course{{
		ID:         7,
		Name:       ptr("Biology"),
		CourseCode: "BIO-101",
		Term:       &canvas.Term{ID: 1, Name: ptr("Fall 2024")},
	}}
	api.AssignmentList[7] = []canvas.Assignment{{ID: 1, Name: ptr("Essay"), Description: ptr("<p>write</p>")}}
	api.PageList[7] = []canvas.Page{{URL: "syllabus"}}
	api.PageBySlug["syllabus"] = canvas.Page{PageID: 3, Title: ptr("Syllabus"), Body: ptr("<h1>hi</h1>")}
	return api
}

func TestExportSingleCourse(t *testing.T) {
	api := singleCourseCanvas()
	rc, log := testutil.NewRunContext(t)
	root := rc.Config.OutputDir

	courses, err := New(api, rc, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)

	contents, err := os.ReadFile(filepath.Join(root, "Fall 2024", "BIO-101", "BIO-101.json"))
	require.NoError(t, err)

	var course map[string]any
	require.NoError(t, json.Unmarshal(contents, &course))
	require.EqualValues(t, 7, course["course_id"])
	require.Equal(t, []any{}, course["modules"])
	require.Equal(t, []any{}, course["discussions"])
	require.Equal(t, []any{}, course["announcements"])
	require.Len(t, course["assignments"], 1)
	require.Len(t, course["pages"], 1)

	assignment := course["assignments"].([]any)[0].(map[string]any)
	require.Equal(t, "Essay", assignment["title"])
	require.Equal(t, []any{}, assignment["submissions"])
	require.Contains(t, string(contents), "<p>write</p>")
	require.Contains(t, string(contents), "\n    \"course_id\": 7")

	combined, err := os.ReadFile(filepath.Join(root, "all_output.json"))
	require.NoError(t, err)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(combined, &all))
	require.Len(t, all, 1)

	require.EqualValues(t, 2, rc.Stats.Get(run.JSONFiles))
	require.EqualValues(t, 0, rc.Stats.Get(run.Errors))
	require.Equal(t, 1, log.Count("Successfully authenticated as: Student (ID: 42)"))
	require.Equal(t, 1, log.Count("1 assignments with 0 submissions (JSON)"))
	require.Equal(t, 0, log.Count("HTML snapshots saved"))
}

func TestAuthenticationFailureIsFatal(t *testing.T) {
	api := singleCourseCanvas()
	api.Errors["CurrentUser"] = faults.New(faults.CauseInvalidToken, 401, "Invalid access token.")
	rc, _ := testutil.NewRunContext(t)

	courses, err := New(api, rc, nil).Run(context.Background())
	require.Nil(t, courses)

	var fatal *FatalError
	require.True(t, errors.As(err, &fatal))
	require.Equal(t, faults.KindAuthentication, fatal.Kind)
	require.Equal(t, 0, api.Calls("Courses"))

	_, statErr := os.Stat(filepath.Join(rc.Config.OutputDir, "all_output.json"))
	require.True(t, os.IsNotExist(statErr))
}

func TestUnknownAuthenticationErrorContinues(t *testing.T) {
	api := singleCourseCanvas()
	api.Errors["CurrentUser"] = errors.New("connection reset")
	rc, _ := testutil.NewRunContext(t)

	courses, err := New(api, rc, nil).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	require.EqualValues(t, 1, rc.Stats.Get(run.Errors))
}

func TestUserMismatchWarns(t *testing.T) {
	api := singleCourseCanvas()
	api.User.ID = 99
	rc, log := testutil.NewRunContext(t)

	require.NoError(t, New(api, rc, nil).Authenticate(context.Background()))
	require.Equal(t, 1, log.Count("does not match configured USER_ID (42)"))
}

func TestCourseFiltering(t *testing.T) {
	api := testutil.NewFakeCanvas()
	term := &canvas.Term{Name: ptr("Spring")}
	api.CoursesByState["active"] = []canvas.Course{
		{ID: 1, Name: ptr("Kept"), CourseCode: "K", Term: term},
		{ID: 2, Name: ptr("Skipped"), CourseCode: "S", Term: term},
		{ID: 3, CourseCode: "NONAME", Term: term},
		{ID: 4, Name: ptr("No term"), CourseCode: "NT"},
	}
	api.CoursesByState["completed"] = []canvas.Course{
		{ID: 1, Name: ptr("Kept"), CourseCode: "K", Term: term},
		{ID: 5, Name: ptr("Old"), CourseCode: "O", Term: term},
	}
	rc, _ := testutil.NewRunContext(t)
	rc.Config.CoursesToSkip[2] = true

	courses := New(api, rc, nil).Courses(context.Background())
	ids := []int64{}
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	require.Equal(t, []int64{1, 5}, ids)
}

func TestNewCourseRecordSanitizes(t *testing.T) {
	record := newCourseRecord(canvas.Course{
		ID:         9,
		Name:       ptr("Chem: Intro"),
		CourseCode: "CHEM/101",
		Term:       &canvas.Term{Name: ptr("2024: Fall")},
	})
	require.Equal(t, "2024- Fall", record.Term)
	require.Equal(t, "CHEM-101", record.CourseCode)
	require.Equal(t, "Chem: Intro", record.Name)

	record = newCourseRecord(canvas.Course{ID: 9, CourseCode: "???", Term: &canvas.Term{}})
	require.Equal(t, "course_9", record.CourseCode)
	require.Equal(t, "", record.Term)
}

type pageCapturer struct {
	urls []string
}

func (p *pageCapturer) Capture(ctx context.Context, url, outputDir, filename string, extraArgs ...string) error {
	p.urls = append(p.urls, url)
	return os.WriteFile(filepath.Join(outputDir, filename), []byte("<html></html>"), 0644)
}

func TestExportWithSnapshots(t *testing.T) {
	api := singleCourseCanvas()
	api.AssignmentList[7][0].HTMLURL = "https://canvas.example.edu/courses/7/assignments/1"
	rc, log := testutil.NewRunContext(t)
	capturer := &pageCapturer{}

	_, err := New(api, rc, capturer).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{
		"https://canvas.example.edu/courses/",
		"https://canvas.example.edu/courses/7",
		"https://canvas.example.edu/courses/7/grades",
		"https://canvas.example.edu/courses/7/assignments/",
		"https://canvas.example.edu/courses/7/assignments/1",
	}, capturer.urls)
	require.EqualValues(t, 5, rc.Stats.Get(run.HTMLPages))
	require.Equal(t, 1, log.Count("4 HTML snapshots saved"))
}

func TestSummary(t *testing.T) {
	stats := run.NewStats()
	stats.Add(context.Background(), run.Errors, 3)

	sections := Summary(stats, false)
	require.Len(t, sections, 4)
	require.Len(t, sections[1].Rows, 2)
	require.Equal(t, SummaryRow{Label: "errors encountered", Count: 3}, sections[3].Rows[1])

	sections = Summary(stats, true)
	require.Len(t, sections[1].Rows, 3)
}
