package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"canvas-student-export/internal/run"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
}

func TestLoadCredentials(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.yaml")
	writeFile(t, path, `
API_URL: " https://school.instructure.com "
API_KEY: "key\n"
USER_ID: 1234
COURSES_TO_SKIP: [10, 11]
`)
	writeFile(t, filepath.Join(dir, "credentials.local.yaml"), `
COOKIES_PATH: cookies.txt
TIMEZONE: America/New_York
`)

	creds, err := loadCredentials(path)
	require.NoError(t, err)
	require.Equal(t, "https://school.instructure.com", creds.APIURL)
	require.Equal(t, "key", creds.APIKey)
	require.EqualValues(t, 1234, creds.UserID)
	require.Equal(t, "cookies.txt", creds.CookiesPath)
	require.Equal(t, []int64{10, 11}, creds.CoursesToSkip)
	require.Empty(t, creds.missing(true))

	cfg, err := creds.runConfig("out", true, false)
	require.NoError(t, err)
	require.True(t, cfg.Skip(11))
	require.False(t, cfg.Skip(12))
	require.Equal(t, "America/New_York", cfg.Location.String())
}

func TestLoadCredentialsJSON5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json5")
	writeFile(t, path, `{
		// comments are allowed
		API_URL: "https://school.instructure.com",
		API_KEY: "key",
		USER_ID: 5,
	}`)

	creds, err := loadCredentials(path)
	require.NoError(t, err)
	require.EqualValues(t, 5, creds.UserID)
}

func TestMissingCredentials(t *testing.T) {
	creds, err := loadCredentials(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, []string{"API_URL", "API_KEY", "USER_ID"}, creds.missing(false))
	require.Equal(t, []string{"API_URL", "API_KEY", "USER_ID", "COOKIES_PATH"}, creds.missing(true))
}

func TestInvalidTimezone(t *testing.T) {
	_, err := Credentials{Timezone: "Mars/Olympus"}.runConfig("out", false, false)
	require.Error(t, err)
}

func TestExportMissingCredentialsExits(t *testing.T) {
	code := export(context.Background(), flags{
		config: filepath.Join(t.TempDir(), "credentials.yaml"),
		output: t.TempDir(),
	})
	require.Equal(t, 1, code)
}

func TestRenderSummary(t *testing.T) {
	stats := run.NewStats()
	stats.Add(context.Background(), run.Errors, 2)
	stats.Add(context.Background(), run.HTMLPages, 9)

	var out bytes.Buffer
	renderSummary(&out, stats, "output", true)
	text := out.String()
	require.Contains(t, text, "errors encountered")
	require.Contains(t, text, "HTML pages captured")
	require.Contains(t, text, "Data Extraction")
	require.Contains(t, text, filepath.Join("output", "all_output.json"))

	out.Reset()
	renderSummary(&out, stats, "output", false)
	require.NotContains(t, out.String(), "HTML pages captured")
}
