package records

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageCount(t *testing.T) {
	testCases := []struct {
		entries  int
		expected int
	}{
		{entries: 0, expected: 1},
		{entries: 1, expected: 1},
		{entries: 49, expected: 1},
		{entries: 50, expected: 2},
		{entries: 51, expected: 2},
		{entries: 100, expected: 3},
		{entries: -3, expected: 1},
	}
	for _, test := range testCases {
		require.Equal(t, test.expected, PageCount(test.entries), "entries %d", test.entries)
	}
}

func TestEmptySequencesSerializeAsArrays(t *testing.T) {
	course := NewCourse(1, "Fall 2024", "BIO-101", "Biology")
	out, err := json.Marshal(course)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	for _, key := range []string{"assignments", "announcements", "discussions", "modules", "pages"} {
		require.Equal(t, []any{}, decoded[key], key)
	}
	require.EqualValues(t, 1, decoded["course_id"])
}

func TestConstructorsDoNotShareSequences(t *testing.T) {
	a := NewAssignment()
	b := NewAssignment()
	a.Submissions = append(a.Submissions, NewSubmission())
	require.Len(t, b.Submissions, 0)

	d := NewDiscussion()
	require.Equal(t, 1, d.AmountPages)
	require.NotNil(t, d.TopicEntries)
	require.NotNil(t, NewTopicEntry().TopicReplies)
	require.NotNil(t, NewModule().Items)
}
