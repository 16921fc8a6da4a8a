package canvas

// The shapes below only declare the fields the export reads. Fields the
// API may omit or send as null are pointers.

type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Term struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

type Course struct {
	ID         int64   `json:"id"`
	Name       *string `json:"name"`
	CourseCode string  `json:"course_code"`
	Term       *Term   `json:"term"`
}

type Assignment struct {
	ID                     int64    `json:"id"`
	Name                   *string  `json:"name"`
	Description            *string  `json:"description"`
	CreatedAt              *string  `json:"created_at"`
	DueAt                  *string  `json:"due_at"`
	HTMLURL                string   `json:"html_url"`
	URL                    string   `json:"url"`
	SubmissionsDownloadURL *string  `json:"submissions_download_url"`
	PointsPossible         *float64 `json:"points_possible"`
}

type SubmissionComment struct {
	ID         int64  `json:"id"`
	AuthorName string `json:"author_name"`
	Comment    string `json:"comment"`
	CreatedAt  string `json:"created_at"`
}

type File struct {
	ID          int64  `json:"id"`
	FolderID    int64  `json:"folder_id"`
	DisplayName string `json:"display_name"`
	Filename    string `json:"filename"`
	URL         string `json:"url"`
	Size        int64  `json:"size"`
}

type Folder struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	FullName string `json:"full_name"`
}

type Submission struct {
	ID                 int64               `json:"id"`
	AssignmentID       int64               `json:"assignment_id"`
	UserID             *int64              `json:"user_id"`
	Grade              *string             `json:"grade"`
	Score              *float64            `json:"score"`
	Attempt            *int                `json:"attempt"`
	PreviewURL         string              `json:"preview_url"`
	URL                *string             `json:"url"`
	WorkflowState      string              `json:"workflow_state"`
	SubmissionComments []SubmissionComment `json:"submission_comments"`
	Attachments        []File              `json:"attachments"`
}

type DiscussionTopic struct {
	ID                      int64   `json:"id"`
	Title                   *string `json:"title"`
	UserName                *string `json:"user_name"`
	CreatedAt               *string `json:"created_at"`
	PostedAt                *string `json:"posted_at"`
	Message                 *string `json:"message"`
	HTMLURL                 string  `json:"html_url"`
	DiscussionSubentryCount int     `json:"discussion_subentry_count"`
}

// DiscussionEntry is both a top level entry and a reply to one.
type DiscussionEntry struct {
	ID        int64   `json:"id"`
	UserName  *string `json:"user_name"`
	CreatedAt *string `json:"created_at"`
	Message   *string `json:"message"`
}

type Page struct {
	PageID    int64   `json:"page_id"`
	URL       string  `json:"url"`
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	CreatedAt *string `json:"created_at"`
	UpdatedAt *string `json:"updated_at"`
}

type Module struct {
	ID   int64   `json:"id"`
	Name *string `json:"name"`
}

type ModuleItem struct {
	ID          int64   `json:"id"`
	Title       *string `json:"title"`
	Type        string  `json:"type"`
	ContentID   int64   `json:"content_id"`
	HTMLURL     string  `json:"html_url"`
	ExternalURL string  `json:"external_url"`
}
