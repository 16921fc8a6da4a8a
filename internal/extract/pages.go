package extract

import (
	"context"

	"canvas-student-export/internal/records"
	"canvas-student-export/internal/run"
)

// Pages lists the wiki pages of the course, then fetches each one for its
// body.
func (e *Extractor) Pages(ctx context.Context) []records.Page {
	ctx, span := tracer.Start(ctx, "Pages")
	defer span.End()

	out := []records.Page{}

	listed, err := e.api.Pages(ctx, e.course.CourseID)
	if err != nil {
		e.rc.Report(ctx, err, "page URL retrieval")
	}

	for _, summary := range listed {
		if summary.URL == "" {
			continue
		}
		page, err := e.api.Page(ctx, e.course.CourseID, summary.URL)
		if err != nil {
			e.rc.Report(ctx, err, "page download")
			continue
		}

		out = append(out, records.Page{
			ID:              page.PageID,
			Title:           str(page.Title),
			Body:            str(page.Body),
			CreatedDate:     e.date(page.CreatedAt),
			LastUpdatedDate: e.date(page.UpdatedAt),
		})
		e.rc.Stats.Inc(ctx, run.Pages)
	}

	return out
}
