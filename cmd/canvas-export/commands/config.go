package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"canvas-student-export/internal/run"
	"canvas-student-export/lib/configutil"
)

// Credentials is the contents of the credentials file.
type Credentials struct {
	APIURL        string  `json:"API_URL" yaml:"API_URL"`
	APIKey        string  `json:"API_KEY" yaml:"API_KEY"`
	UserID        int64   `json:"USER_ID" yaml:"USER_ID"`
	CookiesPath   string  `json:"COOKIES_PATH" yaml:"COOKIES_PATH"`
	CoursesToSkip []int64 `json:"COURSES_TO_SKIP" yaml:"COURSES_TO_SKIP"`
	ChromePath    string  `json:"CHROME_PATH" yaml:"CHROME_PATH"`

	SingleFilePath string `json:"SINGLEFILE_PATH" yaml:"SINGLEFILE_PATH"`
	// Timezone is an IANA name like "America/New_York".
	Timezone          string  `json:"TIMEZONE" yaml:"TIMEZONE"`
	RequestsPerSecond float64 `json:"REQUESTS_PER_SECOND" yaml:"REQUESTS_PER_SECOND"`
	CloudflareBypass  bool    `json:"CLOUDFLARE_BYPASS" yaml:"CLOUDFLARE_BYPASS"`
	// Index is the manifest database, a file path or a libsql url.
	Index          string `json:"INDEX" yaml:"INDEX"`
	IndexAuthToken string `json:"INDEX_AUTH_TOKEN" yaml:"INDEX_AUTH_TOKEN"`
}

const credentialsTemplate = `API_URL: https://<your>.instructure.com
API_KEY: <your key>
USER_ID: 123456
COOKIES_PATH: path/to/cookies.txt
`

// loadCredentials reads the credentials file, a missing file is the same
// as an empty one.
func loadCredentials(path string) (Credentials, error) {
	creds, err := configutil.ReadConfig[Credentials](path)
	if errors.Is(err, os.ErrNotExist) {
		return Credentials{}, nil
	}
	if err != nil {
		return Credentials{}, err
	}
	creds.APIURL = strings.TrimSpace(creds.APIURL)
	creds.APIKey = strings.TrimSpace(creds.APIKey)
	return creds, nil
}

// missing lists the required keys that are not set.
func (c Credentials) missing(snapshots bool) []string {
	out := []string{}
	if c.APIURL == "" {
		out = append(out, "API_URL")
	}
	if c.APIKey == "" {
		out = append(out, "API_KEY")
	}
	if c.UserID == 0 {
		out = append(out, "USER_ID")
	}
	if snapshots && c.CookiesPath == "" {
		out = append(out, "COOKIES_PATH")
	}
	return out
}

func (c Credentials) runConfig(outputDir string, snapshots, verbose bool) (run.Config, error) {
	skip := map[int64]bool{}
	for _, id := range c.CoursesToSkip {
		skip[id] = true
	}

	cfg := run.Config{
		APIURL:        c.APIURL,
		APIKey:        c.APIKey,
		UserID:        c.UserID,
		CookiesPath:   c.CookiesPath,
		OutputDir:     outputDir,
		CoursesToSkip: skip,
		Snapshots:     snapshots,
		Verbose:       verbose,
	}
	if c.Timezone != "" {
		loc, err := time.LoadLocation(c.Timezone)
		if err != nil {
			return run.Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
		}
		cfg.Location = loc
	}
	return cfg, nil
}
