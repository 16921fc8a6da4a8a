package run

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Counter names one of the tallies kept over an export.
type Counter string

const (
	Assignments        Counter = "assignments"
	Submissions        Counter = "submissions"
	Announcements      Counter = "announcements"
	Discussions        Counter = "discussions"
	Pages              Counter = "pages"
	Modules            Counter = "modules"
	ModuleItems        Counter = "module_items"
	FilesDownloaded    Counter = "files_downloaded"
	Attachments        Counter = "attachments_downloaded"
	HTMLPages          Counter = "html_pages_downloaded"
	JSONFiles          Counter = "json_files_created"
	StudentLimitations Counter = "student_limitation_warnings"
	Errors             Counter = "error_count"
)

var meter = otel.Meter("canvas-student-export/run")
var itemCounter, _ = meter.Int64Counter(
	"export.items",
	metric.WithDescription("entities found and files written by the export"),
)

// Stats are the counters of one export.
type Stats struct {
	counts map[Counter]int64
}

func NewStats() *Stats {
	return &Stats{counts: map[Counter]int64{}}
}

func (s *Stats) Add(ctx context.Context, counter Counter, n int64) {
	s.counts[counter] += n
	itemCounter.Add(ctx, n, metric.WithAttributes(attribute.String("counter", string(counter))))
}

func (s *Stats) Inc(ctx context.Context, counter Counter) {
	s.Add(ctx, counter, 1)
}

func (s *Stats) Get(counter Counter) int64 {
	return s.counts[counter]
}

// Snapshot copies the current values, used for per-course deltas.
func (s *Stats) Snapshot() map[Counter]int64 {
	out := make(map[Counter]int64, len(s.counts))
	for k, v := range s.counts {
		out[k] = v
	}
	return out
}
