// Package pathutil turns names coming from the remote API (titles, file
// names, folder paths) into path segments that are safe to create on any
// common file system.
package pathutil

import (
	"os"
	"strings"
)

// MaxFolderNameSize bounds every directory name derived from remote text.
// Windows caps full paths at 260 characters, 70 per segment keeps the
// deepest export paths (term/course/assignments/title/user/file) under it.
const MaxFolderNameSize = 70

func isAllowed(r rune, extra string) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case strings.ContainsRune("-_.() ", r):
		return true
	}
	return strings.ContainsRune(extra, r)
}

func filter(s, extra string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, r := range s {
		if isAllowed(r, extra) {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// SanitizeName makes s usable as a single file or directory name.
// The remote side encodes spaces as '+', so those become spaces again.
func SanitizeName(s string) string {
	if s == "" {
		return s
	}

	s = strings.ReplaceAll(s, "+", " ")
	s = strings.ReplaceAll(s, ":", "-")
	s = strings.ReplaceAll(s, "/", "-")
	s = filter(s, "")

	// trailing periods are illegal on windows
	s = strings.TrimLeft(s, " ")
	s = strings.TrimRight(s, ". ")
	return s
}

// SanitizeFolderPath is SanitizeName for a '/' separated folder path. The
// separators survive and are rewritten to the host separator.
func SanitizeFolderPath(s string) string {
	s = strings.ReplaceAll(s, "+", " ")
	s = strings.ReplaceAll(s, ":", "-")
	s = filter(s, "/")

	s = strings.Trim(s, " /")
	s = strings.TrimRight(s, ". /")

	return strings.ReplaceAll(s, "/", string(os.PathSeparator))
}

// Shorten drops excess+1 characters from the end of s and marks the cut
// with a single trailing '-' ("..." would end in a period).
func Shorten(s string, excess int) string {
	if s == "" || excess <= 0 {
		return s
	}

	runes := []rune(s)
	keep := len(runes) - (excess + 1)
	if keep < 0 {
		keep = 0
	}
	s = string(runes[:keep])

	s = strings.TrimRight(s, " \t\n\r")
	s = strings.TrimRight(s, ".")
	s = strings.TrimRight(s, "-")
	return s + "-"
}

// FolderName sanitizes a title and bounds it to MaxFolderNameSize.
func FolderName(title string) string {
	name := SanitizeName(title)
	return Shorten(name, len([]rune(name))-MaxFolderNameSize)
}
