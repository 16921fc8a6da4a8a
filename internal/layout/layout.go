// Package layout decides where every exported artifact lives below the
// output directory. All directory names derived from remote text go
// through pathutil.
package layout

import (
	"fmt"
	"path/filepath"

	"canvas-student-export/internal/pathutil"
	"canvas-student-export/internal/records"
)

const (
	CombinedJSONName = "all_output.json"
	CourseListName   = "course_list.html"
)

// folderOr bounds title as a directory name, or uses fallback when
// nothing of the title survives sanitizing.
func folderOr(title, fallback string) string {
	name := pathutil.FolderName(title)
	if name == "" {
		return fallback
	}
	return name
}

// CourseDir is <root>/<term>/<course code>.
func CourseDir(root string, c records.Course) string {
	return filepath.Join(root, c.Term, c.CourseCode)
}

func CourseJSONPath(courseDir string, c records.Course) string {
	return filepath.Join(courseDir, c.CourseCode+".json")
}

func CombinedJSONPath(root string) string {
	return filepath.Join(root, CombinedJSONName)
}

// fileName sanitizes the display name of a remote file.
func fileName(displayName string, fileID int64) string {
	name := pathutil.SanitizeName(displayName)
	if name == "" {
		return fmt.Sprintf("file_%d", fileID)
	}
	return name
}

// CourseFilePath is the destination of a course file.
func CourseFilePath(courseDir, folderFullName, displayName string, fileID int64) string {
	return filepath.Join(CourseFileDir(courseDir, folderFullName), fileName(displayName, fileID))
}

// CourseFileDir places a course file by the folder it is in on the
// remote side, e.g. "course files/Week 1".
func CourseFileDir(courseDir, folderFullName string) string {
	return filepath.Join(courseDir, pathutil.SanitizeFolderPath(folderFullName))
}

func AssignmentsDir(courseDir string) string {
	return filepath.Join(courseDir, "assignments")
}

func AssignmentDir(courseDir string, a records.Assignment) string {
	return filepath.Join(AssignmentsDir(courseDir), folderOr(a.Title, fmt.Sprintf("assignment_%d", a.ID)))
}

// SubmissionDir is the assignment directory itself when the assignment
// has exactly one submission, otherwise a per-user subdirectory.
func SubmissionDir(assignmentDir string, a records.Assignment, s records.Submission) string {
	if len(a.Submissions) == 1 {
		return assignmentDir
	}
	user := pathutil.SanitizeName(s.UserID)
	if user == "" {
		user = fmt.Sprintf("submission_%d", s.ID)
	}
	return filepath.Join(assignmentDir, user)
}

// AttachmentName prefixes the file name with the attachment id so that
// same-named files of different submissions never collide.
func AttachmentName(att records.Attachment) string {
	return pathutil.SanitizeName(fmt.Sprintf("%d_%s", att.ID, att.Filename))
}

func AttemptPath(assignmentDir string, n int) string {
	return filepath.Join(assignmentDir, "attempts", fmt.Sprintf("attempt_%d.html", n))
}

func ModulesDir(courseDir string) string {
	return filepath.Join(courseDir, "modules")
}

func ModuleDir(courseDir string, m records.Module) string {
	return filepath.Join(ModulesDir(courseDir), folderOr(m.Name, fmt.Sprintf("module_%d", m.ID)))
}

func ModuleFilePath(moduleDir, displayName string, fileID int64) string {
	return filepath.Join(moduleDir, "files", fileName(displayName, fileID))
}

func ModuleItemPagePath(moduleDir string, item records.ModuleItem) string {
	name := pathutil.SanitizeName(item.Title)
	if name == "" {
		name = fmt.Sprintf("item_%d", item.ID)
	}
	return filepath.Join(moduleDir, name+".html")
}

func AnnouncementsDir(courseDir string) string {
	return filepath.Join(courseDir, "announcements")
}

func AnnouncementDir(courseDir string, d records.Discussion) string {
	return filepath.Join(AnnouncementsDir(courseDir), folderOr(d.Title, fmt.Sprintf("announcement_%d", d.ID)))
}

func DiscussionsDir(courseDir string) string {
	return filepath.Join(courseDir, "discussions")
}

func DiscussionDir(courseDir string, d records.Discussion) string {
	return filepath.Join(DiscussionsDir(courseDir), folderOr(d.Title, fmt.Sprintf("discussion_%d", d.ID)))
}
