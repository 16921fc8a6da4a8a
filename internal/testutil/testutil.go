package testutil

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"canvas-student-export/internal/run"
)

// Logger captures progress lines in memory.
type Logger struct {
	mutex sync.Mutex
	Lines []string
}

func (l *Logger) add(level, format string, args ...any) {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.Lines = append(l.Lines, level+" "+fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...any)  { l.add("INFO", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.add("WARN", format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.add("ERROR", format, args...) }

// Count returns how many captured lines contain substr.
func (l *Logger) Count(substr string) int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	n := 0
	for _, line := range l.Lines {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}

// NewRunContext creates a run context writing into a temporary directory
// for user 42.
func NewRunContext(t testing.TB) (*run.Context, *Logger) {
	log := &Logger{}
	cfg := run.Config{
		APIURL:        "https://canvas.example.edu",
		APIKey:        "token",
		UserID:        42,
		OutputDir:     t.TempDir(),
		CoursesToSkip: map[int64]bool{},
	}
	return run.NewContext(cfg, log, nil), log
}
