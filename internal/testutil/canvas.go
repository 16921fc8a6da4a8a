package testutil

import (
	"context"
	"fmt"
	"os"
	"sync"

	"canvas-student-export/internal/canvas"
	"canvas-student-export/internal/faults"
)

// FakeCanvas is an in-memory stand-in for the Canvas client. Collections
// are keyed by the id of their parent, get-by-id lookups that miss return
// a not found fault. Errors overrides the result of a method by name.
type FakeCanvas struct {
	User           canvas.User
	CoursesByState map[string][]canvas.Course

	AssignmentList  map[int64][]canvas.Assignment
	SubmissionLists map[int64][]canvas.Submission
	OwnSubmissions  map[int64]canvas.Submission

	Announcements map[int64][]canvas.DiscussionTopic
	Topics        map[int64][]canvas.DiscussionTopic
	Entries       map[int64][]canvas.DiscussionEntry
	Replies       map[int64][]canvas.DiscussionEntry

	PageList   map[int64][]canvas.Page
	PageBySlug map[string]canvas.Page

	ModuleList map[int64][]canvas.Module
	Items      map[int64][]canvas.ModuleItem

	FileList map[int64][]canvas.File
	FileByID map[int64]canvas.File
	Folders  map[int64]canvas.Folder
	// Blobs maps a download url to its contents.
	Blobs map[string]string

	Errors map[string]error

	mutex sync.Mutex
	calls map[string]int
}

func NewFakeCanvas() *FakeCanvas {
	return &FakeCanvas{
		CoursesByState:  map[string][]canvas.Course{},
		AssignmentList:  map[int64][]canvas.Assignment{},
		SubmissionLists: map[int64][]canvas.Submission{},
		OwnSubmissions:  map[int64]canvas.Submission{},
		Announcements:   map[int64][]canvas.DiscussionTopic{},
		Topics:          map[int64][]canvas.DiscussionTopic{},
		Entries:         map[int64][]canvas.DiscussionEntry{},
		Replies:         map[int64][]canvas.DiscussionEntry{},
		PageList:        map[int64][]canvas.Page{},
		PageBySlug:      map[string]canvas.Page{},
		ModuleList:      map[int64][]canvas.Module{},
		Items:           map[int64][]canvas.ModuleItem{},
		FileList:        map[int64][]canvas.File{},
		FileByID:        map[int64]canvas.File{},
		Folders:         map[int64]canvas.Folder{},
		Blobs:           map[string]string{},
		Errors:          map[string]error{},
		calls:           map[string]int{},
	}
}

// Calls returns how many times a method was called.
func (f *FakeCanvas) Calls(method string) int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.calls[method]
}

func (f *FakeCanvas) call(method string) error {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	f.calls[method]++
	return f.Errors[method]
}

func notFound(what string, id any) error {
	return faults.New(faults.CauseNotFound, 404, fmt.Sprintf("%s %v does not exist", what, id))
}

func (f *FakeCanvas) CurrentUser(ctx context.Context) (canvas.User, error) {
	if err := f.call("CurrentUser"); err != nil {
		return canvas.User{}, err
	}
	return f.User, nil
}

func (f *FakeCanvas) Courses(ctx context.Context, enrollmentState string) ([]canvas.Course, error) {
	if err := f.call("Courses"); err != nil {
		return nil, err
	}
	return f.CoursesByState[enrollmentState], nil
}

func (f *FakeCanvas) Assignments(ctx context.Context, courseID int64) ([]canvas.Assignment, error) {
	if err := f.call("Assignments"); err != nil {
		return nil, err
	}
	return f.AssignmentList[courseID], nil
}

func (f *FakeCanvas) Submissions(ctx context.Context, courseID, assignmentID int64) ([]canvas.Submission, error) {
	if err := f.call("Submissions"); err != nil {
		return nil, err
	}
	return f.SubmissionLists[assignmentID], nil
}

func (f *FakeCanvas) Submission(ctx context.Context, courseID, assignmentID, userID int64) (canvas.Submission, error) {
	if err := f.call("Submission"); err != nil {
		return canvas.Submission{}, err
	}
	sub, ok := f.OwnSubmissions[assignmentID]
	if !ok {
		return canvas.Submission{}, notFound("submission for assignment", assignmentID)
	}
	return sub, nil
}

func (f *FakeCanvas) DiscussionTopics(ctx context.Context, courseID int64, onlyAnnouncements bool) ([]canvas.DiscussionTopic, error) {
	if onlyAnnouncements {
		if err := f.call("Announcements"); err != nil {
			return nil, err
		}
		return f.Announcements[courseID], nil
	}
	if err := f.call("DiscussionTopics"); err != nil {
		return nil, err
	}
	return f.Topics[courseID], nil
}

func (f *FakeCanvas) TopicEntries(ctx context.Context, courseID, topicID int64) ([]canvas.DiscussionEntry, error) {
	if err := f.call("TopicEntries"); err != nil {
		return nil, err
	}
	return f.Entries[topicID], nil
}

func (f *FakeCanvas) EntryReplies(ctx context.Context, courseID, topicID, entryID int64) ([]canvas.DiscussionEntry, error) {
	if err := f.call("EntryReplies"); err != nil {
		return nil, err
	}
	return f.Replies[entryID], nil
}

func (f *FakeCanvas) Pages(ctx context.Context, courseID int64) ([]canvas.Page, error) {
	if err := f.call("Pages"); err != nil {
		return nil, err
	}
	return f.PageList[courseID], nil
}

func (f *FakeCanvas) Page(ctx context.Context, courseID int64, slug string) (canvas.Page, error) {
	if err := f.call("Page"); err != nil {
		return canvas.Page{}, err
	}
	page, ok := f.PageBySlug[slug]
	if !ok {
		return canvas.Page{}, notFound("page", slug)
	}
	return page, nil
}

func (f *FakeCanvas) Modules(ctx context.Context, courseID int64) ([]canvas.Module, error) {
	if err := f.call("Modules"); err != nil {
		return nil, err
	}
	return f.ModuleList[courseID], nil
}

func (f *FakeCanvas) ModuleItems(ctx context.Context, courseID, moduleID int64) ([]canvas.ModuleItem, error) {
	if err := f.call("ModuleItems"); err != nil {
		return nil, err
	}
	return f.Items[moduleID], nil
}

func (f *FakeCanvas) Files(ctx context.Context, courseID int64) ([]canvas.File, error) {
	if err := f.call("Files"); err != nil {
		return nil, err
	}
	return f.FileList[courseID], nil
}

func (f *FakeCanvas) File(ctx context.Context, courseID, fileID int64) (canvas.File, error) {
	if err := f.call("File"); err != nil {
		return canvas.File{}, err
	}
	file, ok := f.FileByID[fileID]
	if !ok {
		return canvas.File{}, notFound("file", fileID)
	}
	return file, nil
}

func (f *FakeCanvas) Folder(ctx context.Context, folderID int64) (canvas.Folder, error) {
	if err := f.call("Folder"); err != nil {
		return canvas.Folder{}, err
	}
	folder, ok := f.Folders[folderID]
	if !ok {
		return canvas.Folder{}, notFound("folder", folderID)
	}
	return folder, nil
}

func (f *FakeCanvas) Download(ctx context.Context, rawURL, dest string) (int64, error) {
	if err := f.call("Download"); err != nil {
		return 0, err
	}
	contents, ok := f.Blobs[rawURL]
	if !ok {
		return 0, notFound("url", rawURL)
	}
	err := os.WriteFile(dest, []byte(contents), 0644)
	if err != nil {
		return 0, err
	}
	return int64(len(contents)), nil
}

// Ptr returns a pointer to v, for the optional fields of remote shapes.
func Ptr[T any](v T) *T {
	return &v
}
