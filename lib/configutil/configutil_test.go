package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	URL   string   `json:"URL" yaml:"URL"`
	Key   string   `json:"KEY" yaml:"KEY"`
	Skips []int64  `json:"SKIPS" yaml:"SKIPS"`
	Tags  []string `json:"TAGS" yaml:"TAGS"`
}

func write(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}

func TestReadConfigYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "credentials.yaml")
	write(t, path, "URL: https://canvas.example.edu\nKEY: abc\nSKIPS: [1, 2]\n")

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "https://canvas.example.edu", cfg.URL)
	require.Equal(t, "abc", cfg.Key)
	require.Equal(t, []int64{1, 2}, cfg.Skips)
}

func TestReadConfigLocalOverride(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "credentials.yaml"), "URL: https://canvas.example.edu\nKEY: abc\n")
	write(t, filepath.Join(dir, "credentials.local.yaml"), "KEY: local-key\n")

	cfg, err := ReadConfig[testConfig](filepath.Join(dir, "credentials.yaml"))
	require.NoError(t, err)
	require.Equal(t, "https://canvas.example.edu", cfg.URL)
	require.Equal(t, "local-key", cfg.Key)
}

func TestReadConfigJSON5(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "telemetry.json5")
	write(t, path, "{\n  // comment\n  \"URL\": \"x\",\n  \"TAGS\": [\"a\", \"b\"],\n}")

	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "x", cfg.URL)
	require.Equal(t, []string{"a", "b"}, cfg.Tags)
}

func TestReadConfigMissing(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "nothing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	write(t, path, "URL: [unterminated\n")

	_, err := ReadConfig[testConfig](path)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestSplitExt(t *testing.T) {
	name, ext := splitExt("credentials.local.yaml")
	require.Equal(t, "credentials.local", name)
	require.Equal(t, "yaml", ext)

	name, ext = splitExt("noext")
	require.Equal(t, "noext", name)
	require.Equal(t, "", ext)
}
