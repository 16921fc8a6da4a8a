package pathutil

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "", expected: ""},
		{in: "Homework 1", expected: "Homework 1"},
		{in: "Unit+2+Notes", expected: "Unit 2 Notes"},
		{in: "Lab: Titration", expected: "Lab- Titration"},
		{in: "Part 1/2", expected: "Part 1-2"},
		{in: "  padded  ", expected: "padded"},
		{in: "ends with dots...", expected: "ends with dots"},
		{in: "trailing space then dot .", expected: "trailing space then dot"},
		{in: `what?*<>|"\`, expected: "what"},
		{in: "résumé_(final).pdf", expected: "rsum_(final).pdf"},
	}

	for _, test := range testCases {
		t.Run(test.in, func(t *testing.T) {
			require.Equal(t, test.expected, SanitizeName(test.in))
		})
	}
}

func TestSanitizeNameIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"a .",
		" . . ",
		"Week 3: Intro + Review / Quiz...",
		"$$$ weird ### name ((( )))",
		"...leading dots",
		"tab\tand\nnewline",
	}
	for _, in := range inputs {
		once := SanitizeName(in)
		require.Equal(t, once, SanitizeName(once), "input %q", in)
	}
}

func TestSanitizeFolderPath(t *testing.T) {
	sep := string(os.PathSeparator)

	testCases := []struct {
		in       string
		expected string
	}{
		{in: "course files", expected: "course files"},
		{in: "course files/Week 1", expected: "course files" + sep + "Week 1"},
		{in: "/course files/Unit: 2/", expected: "course files" + sep + "Unit- 2"},
		{in: "course files/notes.", expected: "course files" + sep + "notes"},
		{in: "course files/a*b?c", expected: "course files" + sep + "abc"},
	}

	for _, test := range testCases {
		t.Run(test.in, func(t *testing.T) {
			require.Equal(t, test.expected, SanitizeFolderPath(test.in))
		})
	}
}

func TestSanitizeFolderPathReservedCharacters(t *testing.T) {
	out := SanitizeFolderPath(`course files/Unit: 1/"quotes"*?<>|\back`)
	for _, r := range `:*?"<>|` {
		require.False(t, strings.ContainsRune(out, r), "unexpected %q in %q", r, out)
	}
	if sep := string(os.PathSeparator); sep != "/" {
		require.NotContains(t, out, "/")
	}
}

func TestShorten(t *testing.T) {
	require.Equal(t, "abc", Shorten("abc", 0))
	require.Equal(t, "abc", Shorten("abc", -4))
	require.Equal(t, "", Shorten("", 5))

	// 10 characters, 3 too many: 4 removed, 1 marker appended
	require.Equal(t, "abcdef-", Shorten("abcdefghij", 3))
	// trailing separators left by the cut are dropped before the marker
	require.Equal(t, "abc-", Shorten("abc. -xyz", 4))
}

func TestFolderName(t *testing.T) {
	short := "Essay: Compare + Contrast"
	require.Equal(t, "Essay- Compare   Contrast", FolderName(short))

	long := strings.Repeat("x", 100)
	got := FolderName(long)
	require.Len(t, got, MaxFolderNameSize)
	require.True(t, strings.HasSuffix(got, "-"))

	exact := strings.Repeat("y", MaxFolderNameSize)
	require.Equal(t, exact, FolderName(exact))
}
