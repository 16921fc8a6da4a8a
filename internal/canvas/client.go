// Package canvas is a small client for the parts of the Canvas LMS REST API
// the export reads.
package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"canvas-student-export/internal/assert"
	"canvas-student-export/lib/restyutil"
	"canvas-student-export/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("canvas-student-export/canvas")

const (
	perPage                  = "100"
	defaultRequestsPerSecond = 10
)

type Options struct {
	// BaseURL is the root of the Canvas instance, without /api/v1.
	BaseURL string
	Token   string
	// RequestsPerSecond defaults to 10.
	RequestsPerSecond float64
	// CloudflareBypass mimics a browser TLS fingerprint for instances
	// behind cloudflare.
	CloudflareBypass bool
	Timeout          time.Duration
	// DumpOutput receives every request/response pair when not nil.
	DumpOutput restyutil.InstrumentOutput
}

type Client struct {
	http *resty.Client
}

func NewClient(opts Options) (*Client, error) {
	assert.NotEmptyStr(opts.Token)

	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must include scheme and host", opts.BaseURL)
	}

	client := resty.New()
	client.SetBaseURL(base.String() + "/api/v1")
	client.SetAuthToken(opts.Token)
	client.SetHeader("user-agent", "canvas-student-export")
	client.SetHeader("accept", "application/json")
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = time.Minute * 5
	}
	client.SetTimeout(timeout)

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = defaultRequestsPerSecond
	}
	// max burst >= 1 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(rate.Limit(rps), max(1, int(rps)))
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, "canvas-student-export/canvas/http")
	restyutil.InstrumentClient(client, opts.DumpOutput)

	return &Client{http: client}, nil
}

// nextLink returns the rel="next" target of a Link header.
func nextLink(header string) string {
	for _, part := range strings.Split(header, ",") {
		segments := strings.Split(part, ";")
		if len(segments) < 2 {
			continue
		}
		target := strings.TrimSpace(segments[0])
		if !strings.HasPrefix(target, "<") || !strings.HasSuffix(target, ">") {
			continue
		}
		for _, param := range segments[1:] {
			param = strings.ReplaceAll(strings.TrimSpace(param), " ", "")
			if param == `rel="next"` || param == "rel=next" {
				return target[1 : len(target)-1]
			}
		}
	}
	return ""
}

func get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var out T
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(query).
		Get(path)
	if err != nil {
		return out, err
	}
	if res.IsError() {
		return out, faultFromResponse(res)
	}
	err = json.Unmarshal(res.Body(), &out)
	if err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// listAll follows pagination until the last page. Items read before a
// failing page are returned along with the error.
func listAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	ctx, span := tracer.Start(ctx, "listAll")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	if query == nil {
		query = url.Values{}
	}
	query.Set("per_page", perPage)

	out := []T{}
	next := path
	for page := 1; next != ""; page++ {
		req := c.http.R().SetContext(ctx)
		// the next link already carries the query
		if page == 1 {
			req.SetQueryParamsFromValues(query)
		}
		res, err := req.Get(next)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "request failed")
			return out, err
		}
		if res.IsError() {
			fault := faultFromResponse(res)
			span.RecordError(fault)
			span.SetStatus(codes.Error, "remote error")
			return out, fault
		}

		var items []T
		err = json.Unmarshal(res.Body(), &items)
		if err != nil {
			span.SetStatus(codes.Error, "decode failed")
			return out, fmt.Errorf("decode %s page %d: %w", path, page, err)
		}
		out = append(out, items...)
		next = nextLink(res.Header().Get("Link"))
	}

	span.SetAttributes(attribute.Int("items", len(out)))
	return out, nil
}

func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	ctx, span := tracer.Start(ctx, "CurrentUser")
	defer span.End()
	return get[User](ctx, c, "/users/self", nil)
}

// Courses lists the courses of the current user in one enrollment state,
// with their term.
func (c *Client) Courses(ctx context.Context, enrollmentState string) ([]Course, error) {
	query := url.Values{}
	query.Set("enrollment_state", enrollmentState)
	query.Add("include[]", "term")
	return listAll[Course](ctx, c, "/courses", query)
}

func (c *Client) Assignments(ctx context.Context, courseID int64) ([]Assignment, error) {
	return listAll[Assignment](ctx, c, fmt.Sprintf("/courses/%d/assignments", courseID), nil)
}

// Submissions lists the submissions of every student, which student
// accounts are normally not allowed to do.
func (c *Client) Submissions(ctx context.Context, courseID, assignmentID int64) ([]Submission, error) {
	query := url.Values{}
	query.Add("include[]", "submission_comments")
	return listAll[Submission](
		ctx, c,
		fmt.Sprintf("/courses/%d/assignments/%d/submissions", courseID, assignmentID),
		query,
	)
}

func (c *Client) Submission(ctx context.Context, courseID, assignmentID, userID int64) (Submission, error) {
	ctx, span := tracer.Start(ctx, "Submission")
	defer span.End()

	query := url.Values{}
	query.Add("include[]", "submission_comments")
	return get[Submission](
		ctx, c,
		fmt.Sprintf("/courses/%d/assignments/%d/submissions/%d", courseID, assignmentID, userID),
		query,
	)
}

func (c *Client) DiscussionTopics(ctx context.Context, courseID int64, onlyAnnouncements bool) ([]DiscussionTopic, error) {
	query := url.Values{}
	if onlyAnnouncements {
		query.Set("only_announcements", "true")
	}
	return listAll[DiscussionTopic](ctx, c, fmt.Sprintf("/courses/%d/discussion_topics", courseID), query)
}

func (c *Client) TopicEntries(ctx context.Context, courseID, topicID int64) ([]DiscussionEntry, error) {
	return listAll[DiscussionEntry](
		ctx, c,
		fmt.Sprintf("/courses/%d/discussion_topics/%d/entries", courseID, topicID),
		nil,
	)
}

func (c *Client) EntryReplies(ctx context.Context, courseID, topicID, entryID int64) ([]DiscussionEntry, error) {
	return listAll[DiscussionEntry](
		ctx, c,
		fmt.Sprintf("/courses/%d/discussion_topics/%d/entries/%d/replies", courseID, topicID, entryID),
		nil,
	)
}

// Pages lists the pages of a course, without their bodies.
func (c *Client) Pages(ctx context.Context, courseID int64) ([]Page, error) {
	return listAll[Page](ctx, c, fmt.Sprintf("/courses/%d/pages", courseID), nil)
}

func (c *Client) Page(ctx context.Context, courseID int64, slug string) (Page, error) {
	ctx, span := tracer.Start(ctx, "Page")
	defer span.End()
	return get[Page](ctx, c, fmt.Sprintf("/courses/%d/pages/%s", courseID, url.PathEscape(slug)), nil)
}

func (c *Client) Modules(ctx context.Context, courseID int64) ([]Module, error) {
	return listAll[Module](ctx, c, fmt.Sprintf("/courses/%d/modules", courseID), nil)
}

func (c *Client) ModuleItems(ctx context.Context, courseID, moduleID int64) ([]ModuleItem, error) {
	return listAll[ModuleItem](ctx, c, fmt.Sprintf("/courses/%d/modules/%d/items", courseID, moduleID), nil)
}

func (c *Client) Files(ctx context.Context, courseID int64) ([]File, error) {
	return listAll[File](ctx, c, fmt.Sprintf("/courses/%d/files", courseID), nil)
}

func (c *Client) File(ctx context.Context, courseID, fileID int64) (File, error) {
	ctx, span := tracer.Start(ctx, "File")
	defer span.End()
	return get[File](ctx, c, fmt.Sprintf("/courses/%d/files/%d", courseID, fileID), nil)
}

func (c *Client) Folder(ctx context.Context, folderID int64) (Folder, error) {
	ctx, span := tracer.Start(ctx, "Folder")
	defer span.End()
	return get[Folder](ctx, c, fmt.Sprintf("/folders/%d", folderID), nil)
}

// Download streams the body of an absolute url into dest and returns the
// number of bytes written. Nothing is left at dest on failure.
func (c *Client) Download(ctx context.Context, rawURL, dest string) (int64, error) {
	ctx, span := tracer.Start(ctx, "Download")
	defer span.End()

	if rawURL == "" {
		return 0, fmt.Errorf("download %s: empty url", dest)
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("accept", "*/*").
		SetOutput(dest).
		Get(rawURL)
	if err != nil {
		os.Remove(dest)
		span.RecordError(err)
		span.SetStatus(codes.Error, "request failed")
		return 0, err
	}
	if res.IsError() {
		os.Remove(dest)
		span.SetStatus(codes.Error, res.Status())
		return 0, faultFromResponse(res)
	}

	span.SetAttributes(attribute.Int64("bytes", res.Size()))
	return res.Size(), nil
}
