package extract

import (
	"context"

	"canvas-student-export/internal/canvas"
	"canvas-student-export/internal/records"
	"canvas-student-export/internal/run"
)

func (e *Extractor) Announcements(ctx context.Context) []records.Discussion {
	ctx, span := tracer.Start(ctx, "Announcements")
	defer span.End()
	return e.topics(ctx, true, "announcement processing", run.Announcements)
}

func (e *Extractor) Discussions(ctx context.Context) []records.Discussion {
	ctx, span := tracer.Start(ctx, "Discussions")
	defer span.End()
	return e.topics(ctx, false, "discussion processing", run.Discussions)
}

func (e *Extractor) topics(ctx context.Context, announcements bool, op string, counter run.Counter) []records.Discussion {
	out := []records.Discussion{}

	topics, err := e.api.DiscussionTopics(ctx, e.course.CourseID, announcements)
	if err != nil {
		e.rc.Report(ctx, err, op)
	}
	for _, topic := range topics {
		out = append(out, e.discussion(ctx, topic))
		e.rc.Stats.Inc(ctx, counter)
	}
	return out
}

// discussion converts a topic with its entries and their replies. Entries
// are only requested when the topic reports having any.
func (e *Extractor) discussion(ctx context.Context, topic canvas.DiscussionTopic) records.Discussion {
	record := records.NewDiscussion()
	record.ID = topic.ID
	record.Title = str(topic.Title)
	record.Author = str(topic.UserName)
	record.PostedDate = e.date(topic.CreatedAt)
	record.Body = str(topic.Message)
	record.URL = topic.HTMLURL

	if topic.DiscussionSubentryCount > 0 {
		entries, err := e.api.TopicEntries(ctx, e.course.CourseID, topic.ID)
		if err != nil {
			e.rc.Report(ctx, err, "discussion topic entry processing")
		}
		for _, entry := range entries {
			record.TopicEntries = append(record.TopicEntries, e.entry(ctx, topic.ID, entry))
		}
	}

	record.AmountPages = records.PageCount(len(record.TopicEntries))
	return record
}

func (e *Extractor) entry(ctx context.Context, topicID int64, entry canvas.DiscussionEntry) records.TopicEntry {
	record := records.NewTopicEntry()
	record.ID = entry.ID
	record.Author = str(entry.UserName)
	record.PostedDate = e.date(entry.CreatedAt)
	record.Body = str(entry.Message)

	replies, err := e.api.EntryReplies(ctx, e.course.CourseID, topicID, entry.ID)
	if err != nil {
		e.rc.Report(ctx, err, "discussion topic reply processing")
	}
	for _, reply := range replies {
		record.TopicReplies = append(record.TopicReplies, records.TopicReply{
			ID:         reply.ID,
			Author:     str(reply.UserName),
			PostedDate: e.date(reply.CreatedAt),
			Body:       str(reply.Message),
		})
	}
	return record
}
