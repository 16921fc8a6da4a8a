// Package records contains the exported representation of a course. Every
// record is built once by an extractor and is read-only afterwards.
package records

// EntriesPerPage is the number of discussion entries the web UI renders on
// one page.
const EntriesPerPage = 50

type Attachment struct {
	ID       int64  `json:"id"`
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

type Submission struct {
	ID                  int64        `json:"id"`
	Attachments         []Attachment `json:"attachments"`
	Grade               string       `json:"grade"`
	RawScore            string       `json:"raw_score"`
	SubmissionComments  string       `json:"submission_comments"`
	TotalPossiblePoints string       `json:"total_possible_points"`
	Attempt             int          `json:"attempt"`
	UserID              string       `json:"user_id"`
	PreviewURL          string       `json:"preview_url"`
	ExtURL              string       `json:"ext_url"`
}

type Assignment struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	AssignedDate string       `json:"assigned_date"`
	DueDate      string       `json:"due_date"`
	Submissions  []Submission `json:"submissions"`
	HTMLURL      string       `json:"html_url"`
	ExtURL       string       `json:"ext_url"`
	// UpdatedURL is the submissions download url without its query, the
	// base of the attempt history pages.
	UpdatedURL string `json:"updated_url"`
}

type TopicReply struct {
	ID         int64  `json:"id"`
	Author     string `json:"author"`
	PostedDate string `json:"posted_date"`
	Body       string `json:"body"`
}

type TopicEntry struct {
	ID           int64        `json:"id"`
	Author       string       `json:"author"`
	PostedDate   string       `json:"posted_date"`
	Body         string       `json:"body"`
	TopicReplies []TopicReply `json:"topic_replies"`
}

// Discussion is a discussion topic or an announcement.
type Discussion struct {
	ID           int64        `json:"id"`
	Title        string       `json:"title"`
	Author       string       `json:"author"`
	PostedDate   string       `json:"posted_date"`
	Body         string       `json:"body"`
	TopicEntries []TopicEntry `json:"topic_entries"`
	URL          string       `json:"url"`
	AmountPages  int          `json:"amount_pages"`
}

type Page struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Body            string `json:"body"`
	CreatedDate     string `json:"created_date"`
	LastUpdatedDate string `json:"last_updated_date"`
}

type ModuleItem struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	ContentType string `json:"content_type"`
	URL         string `json:"url"`
	ExternalURL string `json:"external_url"`
}

type Module struct {
	ID    int64        `json:"id"`
	Name  string       `json:"name"`
	Items []ModuleItem `json:"items"`
}

type Course struct {
	CourseID      int64        `json:"course_id"`
	Term          string       `json:"term"`
	CourseCode    string       `json:"course_code"`
	Name          string       `json:"name"`
	Assignments   []Assignment `json:"assignments"`
	Announcements []Discussion `json:"announcements"`
	Discussions   []Discussion `json:"discussions"`
	Modules       []Module     `json:"modules"`
	Pages         []Page       `json:"pages"`
}

// The constructors below give every record its own empty sequences so
// that they serialize as [] rather than null.

func NewCourse(id int64, term, code, name string) Course {
	return Course{
		CourseID:      id,
		Term:          term,
		CourseCode:    code,
		Name:          name,
		Assignments:   []Assignment{},
		Announcements: []Discussion{},
		Discussions:   []Discussion{},
		Modules:       []Module{},
		Pages:         []Page{},
	}
}

func NewAssignment() Assignment {
	return Assignment{Submissions: []Submission{}}
}

func NewSubmission() Submission {
	return Submission{Attachments: []Attachment{}}
}

func NewDiscussion() Discussion {
	return Discussion{TopicEntries: []TopicEntry{}, AmountPages: 1}
}

func NewTopicEntry() TopicEntry {
	return TopicEntry{TopicReplies: []TopicReply{}}
}

func NewModule() Module {
	return Module{Items: []ModuleItem{}}
}

// PageCount is the number of web UI pages needed to show entryCount
// discussion entries.
func PageCount(entryCount int) int {
	if entryCount < 0 {
		entryCount = 0
	}
	return entryCount/EntriesPerPage + 1
}
