// Package manifest keeps an index of every file an export touched in a
// sqlite database, local or remote (libsql). The index is informational,
// the export never consults it to decide what to download.
package manifest

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"canvas-student-export/internal/assert"
	"canvas-student-export/internal/chrono"
	"canvas-student-export/internal/run"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var schema = []string{
	`create table if not exists artifact (
		id integer primary key autoincrement,
		course_id integer not null,
		kind text not null,
		path text not null,
		source text not null,
		outcome text not null,
		bytes integer not null,
		recorded_at integer not null
	)`,
	`create index if not exists artifact_course on artifact(course_id)`,
}

type Entry struct {
	CourseID   int64
	Kind       string
	Path       string
	Source     string
	Outcome    string
	Bytes      int64
	RecordedAt int64
}

type Manifest struct {
	db   *sql.DB
	time chrono.TimeAPI
}

func isRemote(target string) bool {
	for _, scheme := range []string{"libsql://", "http://", "https://"} {
		if strings.HasPrefix(target, scheme) {
			return true
		}
	}
	return false
}

// Open opens the manifest at target, a sqlite file path or the url of a
// libsql server. authToken is only used for libsql servers.
func Open(ctx context.Context, target, authToken string) (*Manifest, error) {
	var db *sql.DB
	var err error

	if isRemote(target) {
		dsn := target
		if authToken != "" {
			values := url.Values{}
			values.Add("authToken", authToken)
			dsn += "?" + values.Encode()
		}
		db, err = sql.Open("libsql", dsn)
	} else {
		if target != ":memory:" {
			err = os.MkdirAll(filepath.Dir(target), 0755)
			if err != nil {
				return nil, fmt.Errorf("open manifest: %w", err)
			}
		}
		db, err = sql.Open("sqlite", target)
		if err == nil {
			// a single connection keeps ":memory:" databases alive and
			// serializes sqlite writers
			db.SetMaxOpenConns(1)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}

	m, err := New(ctx, db, chrono.StandardTime{})
	if err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// New creates the manifest tables in db if they do not exist yet.
func New(ctx context.Context, db *sql.DB, time chrono.TimeAPI) (*Manifest, error) {
	assert.NotNil(db)
	assert.NotNil(time)

	for _, stmt := range schema {
		_, err := db.ExecContext(ctx, stmt)
		if err != nil {
			return nil, fmt.Errorf("create manifest schema: %w", err)
		}
	}
	return &Manifest{db: db, time: time}, nil
}

func (m *Manifest) Record(ctx context.Context, artifact run.Artifact) error {
	_, err := m.db.ExecContext(
		ctx,
		`insert into artifact(course_id, kind, path, source, outcome, bytes, recorded_at)
		values (?, ?, ?, ?, ?, ?, ?)`,
		artifact.CourseID,
		artifact.Kind,
		artifact.Path,
		artifact.Source,
		artifact.Outcome.String(),
		artifact.Bytes,
		m.time.Now().Unix(),
	)
	return err
}

// Entries returns the recorded entries of a course in insertion order.
func (m *Manifest) Entries(ctx context.Context, courseID int64) ([]Entry, error) {
	rows, err := m.db.QueryContext(
		ctx,
		`select course_id, kind, path, source, outcome, bytes, recorded_at
		from artifact where course_id = ? order by id`,
		courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		err = rows.Scan(&e.CourseID, &e.Kind, &e.Path, &e.Source, &e.Outcome, &e.Bytes, &e.RecordedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (m *Manifest) Close() error {
	return m.db.Close()
}
