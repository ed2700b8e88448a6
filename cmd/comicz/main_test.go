package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"comicz/internal/faults"
	"comicz/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	inputDir   string
	outputDir  string
	historyDB  string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", filepath.Join(home, ".local", "share"))

	env := &cliTestEnv{
		baseDir:    base,
		configPath: filepath.Join(base, "config.toml"),
		inputDir:   filepath.Join(base, "comics"),
		outputDir:  filepath.Join(base, "converted"),
		historyDB:  filepath.Join(base, "data", "history.db"),
	}
	content := fmt.Sprintf(
		"[paths]\noutput_dir = %q\nlog_dir = %q\nhistory_db = %q\n\n[logging]\nlevel = \"warn\"\n",
		env.outputDir,
		filepath.Join(base, "logs"),
		env.historyDB,
	)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func writeComic(t *testing.T, path string) {
	t.Helper()
	testsupport.WriteCBZ(t, path,
		testsupport.Entry{Name: "001.png", Data: testsupport.PNGPage(t, 12, 18)},
		testsupport.Entry{Name: "002.jpg", Data: testsupport.JPEGPage(t, 12, 18)},
		testsupport.Entry{Name: "ComicInfo.xml", Data: []byte("<ComicInfo/>")},
	)
}

func TestConvertDirectoryAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	writeComic(t, filepath.Join(env.inputDir, "a.cbz"))
	writeComic(t, filepath.Join(env.inputDir, "sub", "b.zip"))

	out, _, err := runCLI(t, env.configPath, "-i", env.inputDir, "-r", "-m", "2", "-q", "60")
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "Converted")

	for _, rel := range []string{"comics/a.cbz", "comics/sub/b.cbz"} {
		got := testsupport.ReadCBZ(t, filepath.Join(env.outputDir, rel))
		for _, name := range []string{"001.webp", "002.webp", "ComicInfo.xml"} {
			if _, ok := got[name]; !ok {
				t.Fatalf("%s missing %s", rel, name)
			}
		}
	}

	out, _, err = runCLI(t, env.configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "a.cbz")
	requireContains(t, out, "b.zip")
	requireContains(t, out, "converted")
}

func TestConvertSkipExisting(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.inputDir, "a.cbz")
	writeComic(t, src)

	if _, _, err := runCLI(t, env.configPath, "-i", src); err != nil {
		t.Fatalf("first convert: %v", err)
	}
	dst := filepath.Join(env.outputDir, "a.cbz")
	old := time.Now().Add(-time.Hour).Truncate(time.Second)
	if err := os.Chtimes(dst, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, _, err := runCLI(t, env.configPath, "-i", src, "-s", "--no-history"); err != nil {
		t.Fatalf("second convert: %v", err)
	}
	info, err := os.Stat(dst)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.ModTime().Equal(old) {
		t.Fatalf("output rewritten despite --skip (mtime %v)", info.ModTime())
	}
}

func TestConvertUnsupportedInput(t *testing.T) {
	env := setupCLITestEnv(t)
	notes := filepath.Join(env.inputDir, "notes.txt")
	testsupport.WriteFile(t, notes, 16)

	out, _, err := runCLI(t, env.configPath, "-i", notes)
	if err != nil {
		t.Fatalf("unsupported input should not fail: %v", err)
	}
	requireContains(t, out, "Unsupported")
	if _, err := os.Stat(filepath.Join(env.outputDir, "notes.cbz")); err == nil {
		t.Fatal("no output expected for unsupported input")
	}
}

func TestConvertEmptyDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	if err := os.MkdirAll(env.inputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, env.configPath, "-i", env.inputDir)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "no comic archives found")
}

func TestConvertFlagValidation(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.inputDir, "a.cbz")
	writeComic(t, src)

	if _, _, err := runCLI(t, env.configPath); err == nil {
		t.Fatal("expected error when --input is missing")
	}
	_, _, err := runCLI(t, env.configPath, "-i", src, "-q", "150")
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	_, _, err = runCLI(t, env.configPath, "-i", src, "-m", "0")
	if !errors.Is(err, faults.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestConvertMissingInputFailsPreflight(t *testing.T) {
	env := setupCLITestEnv(t)
	_, stderr, err := runCLI(t, env.configPath, "-i", filepath.Join(env.baseDir, "nope"))
	if err == nil {
		t.Fatal("expected preflight failure")
	}
	requireContains(t, err.Error(), "preflight")
	requireContains(t, stderr, "Input")
}

func TestHistoryEmpty(t *testing.T) {
	env := setupCLITestEnv(t)
	out, _, err := runCLI(t, env.configPath, "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No conversions recorded")
}

func TestLogsShowsRunOutput(t *testing.T) {
	env := setupCLITestEnv(t)
	src := filepath.Join(env.inputDir, "broken.cbz")
	testsupport.WriteFile(t, src, 32)

	if _, _, err := runCLI(t, env.configPath, "-i", src); err != nil {
		t.Fatalf("convert: %v", err)
	}
	out, _, err := runCLI(t, env.configPath, "logs", "-n", "20")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "archive conversion failed")
}
