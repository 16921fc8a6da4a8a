package canvas

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"canvas-student-export/internal/faults"
	"canvas-student-export/lib/restyutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(Options{
		BaseURL:           srv.URL,
		Token:             "test-token",
		RequestsPerSecond: 1000,
	})
	require.NoError(t, err)
	return client, srv
}

func TestNextLink(t *testing.T) {
	testCases := []struct {
		header   string
		expected string
	}{
		{header: "", expected: ""},
		{
			header:   `<https://x/api/v1/courses?page=2&per_page=100>; rel="next", <https://x/api/v1/courses?page=1&per_page=100>; rel="first"`,
			expected: "https://x/api/v1/courses?page=2&per_page=100",
		},
		{
			header:   `<https://x/api/v1/courses?page=1>; rel="current", <https://x/api/v1/courses?page=1>; rel="last"`,
			expected: "",
		},
		{header: `garbage`, expected: ""},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, nextLink(test.header), test.header)
	}
}

func TestListAllFollowsPagination(t *testing.T) {
	var srvURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		require.Equal(t, "100", r.URL.Query().Get("per_page"))

		switch r.URL.Query().Get("page") {
		case "":
			require.Equal(t, "active", r.URL.Query().Get("enrollment_state"))
			require.Equal(t, []string{"term"}, r.URL.Query()["include[]"])
			w.Header().Set("Link", fmt.Sprintf(`<%s/api/v1/courses?page=2&per_page=100>; rel="next"`, srvURL))
			fmt.Fprint(w, `[{"id": 1, "name": "Biology", "course_code": "BIO", "term": {"id": 9, "name": "Fall"}}]`)
		case "2":
			fmt.Fprint(w, `[{"id": 2, "course_code": "CHEM"}]`)
		default:
			t.Fatalf("unexpected page %s", r.URL.Query().Get("page"))
		}
	})
	client, srv := newTestClient(t, mux)
	srvURL = srv.URL

	courses, err := client.Courses(context.Background(), "active")
	require.NoError(t, err)
	require.Len(t, courses, 2)
	require.Equal(t, "Biology", *courses[0].Name)
	require.Equal(t, "Fall", *courses[0].Term.Name)
	require.Nil(t, courses[1].Name)
	require.Nil(t, courses[1].Term)
}

func TestFaultMapping(t *testing.T) {
	testCases := []struct {
		name      string
		status    int
		challenge bool
		expected  faults.Cause
	}{
		{name: "invalid token", status: 401, challenge: true, expected: faults.CauseInvalidToken},
		{name: "unauthorized", status: 401, expected: faults.CauseUnauthorized},
		{name: "forbidden", status: 403, expected: faults.CauseForbidden},
		{name: "not found", status: 404, expected: faults.CauseNotFound},
		{name: "server error", status: 500, expected: faults.CauseRemote},
	}

	for _, test := range testCases {
		t.Run(test.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if test.challenge {
					w.Header().Set("WWW-Authenticate", `Bearer realm="canvas-lms"`)
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(test.status)
				fmt.Fprint(w, `{"errors": [{"message": "nope"}]}`)
			}))

			_, err := client.Assignments(context.Background(), 5)
			var fault *faults.Fault
			require.True(t, errors.As(err, &fault))
			require.Equal(t, test.expected, fault.Cause)
			require.Equal(t, test.status, fault.Status)
			require.Equal(t, "nope", fault.Message)
		})
	}
}

func TestGetDecodesOptionalFields(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/3/assignments/4/submissions/42", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, []string{"submission_comments"}, r.URL.Query()["include[]"])
		fmt.Fprint(w, `{
			"id": 77,
			"user_id": 42,
			"grade": null,
			"attempt": 2,
			"preview_url": "https://x/preview",
			"attachments": [{"id": 5, "filename": "essay.pdf", "url": "https://x/files/5/download"}]
		}`)
	})
	client, _ := newTestClient(t, mux)

	sub, err := client.Submission(context.Background(), 3, 4, 42)
	require.NoError(t, err)

	attempt := 2
	userID := int64(42)
	expected := Submission{
		ID:         77,
		UserID:     &userID,
		Attempt:    &attempt,
		PreviewURL: "https://x/preview",
		Attachments: []File{
			{ID: 5, Filename: "essay.pdf", URL: "https://x/files/5/download"},
		},
	}
	if diff := cmp.Diff(expected, sub); diff != "" {
		t.Fatalf("unexpected submission (-want +got):\n%s", diff)
	}
}

func TestPageEscapesSlug(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/courses/3/pages/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/courses/3/pages/week-1-notes", r.URL.Path)
		fmt.Fprint(w, `{"page_id": 11, "url": "week-1-notes", "title": "Week 1", "body": "<p>hi</p>"}`)
	})
	client, _ := newTestClient(t, mux)

	page, err := client.Page(context.Background(), 3, "week-1-notes")
	require.NoError(t, err)
	require.EqualValues(t, 11, page.PageID)
	require.Equal(t, "<p>hi</p>", *page.Body)
}

func TestDownload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/files/1/download", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "file contents")
	})
	mux.HandleFunc("/files/2/download", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"message": "forbidden"}`)
	})
	client, srv := newTestClient(t, mux)
	dir := t.TempDir()

	dest := filepath.Join(dir, "ok.txt")
	n, err := client.Download(context.Background(), srv.URL+"/files/1/download", dest)
	require.NoError(t, err)
	require.EqualValues(t, len("file contents"), n)
	contents, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "file contents", string(contents))

	dest = filepath.Join(dir, "denied.txt")
	_, err = client.Download(context.Background(), srv.URL+"/files/2/download", dest)
	var fault *faults.Fault
	require.True(t, errors.As(err, &fault))
	require.Equal(t, faults.CauseForbidden, fault.Cause)
	_, statErr := os.Stat(dest)
	require.True(t, os.IsNotExist(statErr))

	_, err = client.Download(context.Background(), "", filepath.Join(dir, "empty"))
	require.Error(t, err)
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "canvas.example.edu", Token: "x"})
	require.Error(t, err)
}

func TestClientDumpsBodylessRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": 7, "name": "Student"}`)
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	dump, err := restyutil.NewFilesystemOutput(dir)
	require.NoError(t, err)
	client, err := NewClient(Options{
		BaseURL:           srv.URL,
		Token:             "test-token",
		RequestsPerSecond: 1000,
		DumpOutput:        dump,
	})
	require.NoError(t, err)

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 7, user.ID)

	contents, err := os.ReadFile(filepath.Join(dir, "0001-GET-users_self.txt"))
	require.NoError(t, err)
	require.Contains(t, string(contents), `"name": "Student"`)
	require.NotContains(t, string(contents), "test-token")
}
