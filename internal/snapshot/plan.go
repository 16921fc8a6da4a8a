package snapshot

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"canvas-student-export/internal/layout"
	"canvas-student-export/internal/records"
	"canvas-student-export/internal/run"
)

const (
	homepageName          = "homepage.html"
	gradesName            = "grades.html"
	assignmentListName    = "assignment_list.html"
	assignmentName        = "assignment.html"
	submissionName        = "submission.html"
	moduleListName        = "modules_list.html"
	announcementListName  = "announcement_list.html"
	discussionListName    = "discussion_list.html"
	keepHiddenElementsArg = "--remove-hidden-elements=false"
)

func saved(outcome run.Outcome) bool {
	return outcome == run.Downloaded || outcome == run.AlreadyPresent
}

// CourseList captures the course overview of the account into root.
func (m Manager) CourseList(ctx context.Context, apiURL, root string) run.Outcome {
	url := strings.TrimRight(apiURL, "/") + "/courses/"
	outcome, _ := m.Capture(ctx, url, filepath.Join(root, layout.CourseListName))
	return outcome
}

// pageCounter tallies captures that ended up on disk.
type pageCounter struct {
	m     Manager
	saved int
}

func (c *pageCounter) capture(ctx context.Context, url, dest string, extraArgs ...string) run.Outcome {
	outcome, _ := c.m.Capture(ctx, url, dest, extraArgs...)
	if saved(outcome) {
		c.saved++
	}
	return outcome
}

// Course captures the web UI pages of an exported course into dir and
// returns how many of them are on disk afterwards.
func (m Manager) Course(ctx context.Context, apiURL string, course records.Course, dir string) int {
	ctx, span := tracer.Start(ctx, "Course")
	defer span.End()

	c := &pageCounter{m: m.ForCourse(course.CourseID)}
	base := fmt.Sprintf("%s/courses/%d", strings.TrimRight(apiURL, "/"), course.CourseID)

	m.rc.Log.Infof("  Downloading course home page")
	c.capture(ctx, base, filepath.Join(dir, homepageName))

	m.rc.Log.Infof("  Downloading course grades")
	gradesPath := filepath.Join(dir, gradesName)
	if saved(c.capture(ctx, base+"/grades", gradesPath, keepHiddenElementsArg)) {
		err := ExpandGrades(gradesPath)
		if err != nil {
			m.rc.Log.Warnf("    Could not expand grade details: %v", err)
			slog.WarnContext(ctx, "expand grades", "path", gradesPath, "err", err)
		}
	}

	if len(course.Assignments) > 0 {
		m.rc.Log.Infof("  Downloading assignment pages")
		c.assignments(ctx, base, course.Assignments, dir)
	}
	if len(course.Modules) > 0 {
		m.rc.Log.Infof("  Downloading course module pages")
		c.modules(ctx, base, course.Modules, dir)
	}
	if len(course.Announcements) > 0 {
		m.rc.Log.Infof("  Downloading course announcements pages")
		c.discussions(
			ctx,
			base+"/announcements/",
			filepath.Join(layout.AnnouncementsDir(dir), announcementListName),
			course.Announcements,
			func(d records.Discussion) string { return layout.AnnouncementDir(dir, d) },
			"announcement",
		)
	}
	if len(course.Discussions) > 0 {
		m.rc.Log.Infof("  Downloading course discussion pages")
		c.discussions(
			ctx,
			base+"/discussion_topics/",
			filepath.Join(layout.DiscussionsDir(dir), discussionListName),
			course.Discussions,
			func(d records.Discussion) string { return layout.DiscussionDir(dir, d) },
			"discussion",
		)
	}

	return c.saved
}

// attemptBase is the url the attempt history pages of an assignment hang
// off, or "" when the assignment has none distinct from its page.
func attemptBase(a records.Assignment) string {
	updated := strings.TrimRight(a.UpdatedURL, "/")
	page := strings.TrimRight(a.HTMLURL, "/")
	if updated == "" || page == "" || updated == page {
		return ""
	}
	return updated
}

func (c *pageCounter) assignments(ctx context.Context, base string, assignments []records.Assignment, dir string) {
	c.capture(ctx, base+"/assignments/", filepath.Join(layout.AssignmentsDir(dir), assignmentListName))

	for _, a := range assignments {
		assignmentDir := layout.AssignmentDir(dir, a)
		if a.HTMLURL != "" {
			c.capture(ctx, a.HTMLURL, filepath.Join(assignmentDir, assignmentName))
		}

		history := attemptBase(a)
		for _, sub := range a.Submissions {
			if sub.PreviewURL != "" {
				subDir := layout.SubmissionDir(assignmentDir, a, sub)
				c.capture(ctx, sub.PreviewURL, filepath.Join(subDir, submissionName))
			}
			if sub.Attempt <= 1 || history == "" {
				continue
			}
			for n := 1; n <= sub.Attempt; n++ {
				url := fmt.Sprintf("%s/history?version=%d", history, n)
				c.capture(ctx, url, layout.AttemptPath(assignmentDir, n))
			}
		}
	}
}

func (c *pageCounter) modules(ctx context.Context, base string, modules []records.Module, dir string) {
	c.capture(ctx, base+"/modules/", filepath.Join(layout.ModulesDir(dir), moduleListName))

	for _, m := range modules {
		moduleDir := layout.ModuleDir(dir, m)
		for _, item := range m.Items {
			if item.URL == "" {
				continue
			}
			c.capture(ctx, item.URL, layout.ModuleItemPagePath(moduleDir, item))
		}
	}
}

// discussions captures the list page and every page of every discussion,
// named <prefix>_<n>.html.
func (c *pageCounter) discussions(
	ctx context.Context,
	listURL, listPath string,
	discussions []records.Discussion,
	dirOf func(records.Discussion) string,
	prefix string,
) {
	c.capture(ctx, listURL, listPath)

	for _, d := range discussions {
		if d.URL == "" {
			continue
		}
		discussionDir := dirOf(d)
		for n := 1; n <= d.AmountPages; n++ {
			url := fmt.Sprintf("%s/page-%d", strings.TrimRight(d.URL, "/"), n)
			c.capture(ctx, url, filepath.Join(discussionDir, fmt.Sprintf("%s_%d.html", prefix, n)))
		}
	}
}
