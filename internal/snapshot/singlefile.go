// Package snapshot saves static HTML captures of the Canvas web UI next to
// the exported data, using the SingleFile CLI with the browser cookies of
// a logged in session.
package snapshot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Capturer saves the page at url as outputDir/filename.
type Capturer interface {
	Capture(ctx context.Context, url, outputDir, filename string, extraArgs ...string) error
}

const DefaultSingleFileBinary = "single-file"

// SingleFile runs the single-file CLI. The command is executed directly,
// never through a shell.
type SingleFile struct {
	Binary      string
	CookiesPath string
	// BrowserPath overrides the browser single-file launches, it finds one
	// by itself when empty.
	BrowserPath string
}

func (s SingleFile) args(url, outputDir, filename string, extraArgs []string) []string {
	args := []string{}
	if s.BrowserPath != "" {
		args = append(args, "--browser-executable-path="+s.BrowserPath)
	}
	args = append(
		args,
		"--browser-cookies-file="+s.CookiesPath,
		"--output-directory="+outputDir,
		url,
	)
	if filename != "" {
		args = append(args, "--filename-template="+filename)
	}
	return append(args, extraArgs...)
}

// Capture fails when single-file exits with an error or writes anything to
// stderr.
func (s SingleFile) Capture(ctx context.Context, url, outputDir, filename string, extraArgs ...string) error {
	binary := s.Binary
	if binary == "" {
		binary = DefaultSingleFileBinary
	}

	cmd := exec.CommandContext(ctx, binary, s.args(url, outputDir, filename, extraArgs)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.DebugContext(ctx, "running single-file", "url", url, "dir", outputDir, "filename", filename)
	err := cmd.Run()
	if out := strings.TrimSpace(stdout.String()); out != "" {
		slog.DebugContext(ctx, "single-file output", "url", url, "stdout", out)
	}

	errOutput := strings.TrimSpace(stderr.String())
	if err != nil {
		if errOutput != "" {
			return fmt.Errorf("single-file %s: %w: %s", url, err, errOutput)
		}
		return fmt.Errorf("single-file %s: %w", url, err)
	}
	if errOutput != "" {
		return fmt.Errorf("single-file %s: %s", url, errOutput)
	}
	return nil
}
