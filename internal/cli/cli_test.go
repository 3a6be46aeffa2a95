package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/boxscores/internal/config"
	"github.com/pfrederiksen/boxscores/internal/scraper"
)

const boxscoreURL = "https://www.hockey-reference.com/boxscores/202304150BOS.html"

type fixtureFetcher struct {
	html string
}

func (f fixtureFetcher) Fetch(_ context.Context, loc string) (*goquery.Document, error) {
	if strings.Contains(loc, "missing") {
		return nil, errors.New("unexpected status code: 404")
	}
	return goquery.NewDocumentFromReader(strings.NewReader(f.html))
}

func useFixtureFetcher(t *testing.T) {
	t.Helper()
	data, err := os.ReadFile("../../testdata/fixtures/boxscore_regulation.html")
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	orig, origInterval := newFetcher, progressInterval
	newFetcher = func(*config.Config) scraper.Fetcher { return fixtureFetcher{html: string(data)} }
	progressInterval = 5 * time.Millisecond
	t.Cleanup(func() {
		newFetcher = orig
		progressInterval = origInterval
	})
}

// run executes the CLI with args against a fresh file store in dataDir
func run(t *testing.T, dataDir string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(append([]string{"--store", "file", "--data-dir", dataDir}, args...))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestParseCommand(t *testing.T) {
	useFixtureFetcher(t)
	dir := t.TempDir()

	tests := []struct {
		name     string
		args     []string
		contains []string
	}{
		{
			name: "text",
			args: []string{"parse", boxscoreURL},
			contains: []string{
				"Toronto Maple Leafs @ Boston Bruins",
				"Date:    2023-04-15",
				"Final:   Toronto Maple Leafs 2, Boston Bruins 3 (REG)",
				"Players: 40",
			},
		},
		{
			name:     "verbose lists skaters",
			args:     []string{"parse", boxscoreURL, "--verbose"},
			contains: []string{"Auston Matthews", "skaters"},
		},
		{
			name:     "json",
			args:     []string{"parse", boxscoreURL, "--format", "json"},
			contains: []string{`"home_team": "Boston Bruins"`, `"outcome": "REG"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, dir, tt.args...)
			if err != nil {
				t.Fatalf("parse error: %v", err)
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}

	// parse without --save writes nothing
	if _, err := os.Stat(filepath.Join(dir, "games.json")); !os.IsNotExist(err) {
		t.Errorf("parse without --save created a games table (err=%v)", err)
	}
}

func TestParseCommand_Errors(t *testing.T) {
	useFixtureFetcher(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad format", []string{"parse", boxscoreURL, "--format", "xml"}, "invalid format"},
		{"save without user", []string{"parse", boxscoreURL, "--save"}, "--user is required"},
		{"fetch failure", []string{"parse", "https://www.hockey-reference.com/boxscores/missing.html"}, "parsing box score"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, dir, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestGamesCommand_VerboseLogsDataDir(t *testing.T) {
	dir := t.TempDir()
	_, stderr, err := run(t, dir, "games", "--user", "user-1", "--verbose")
	if err != nil {
		t.Fatalf("games error: %v", err)
	}
	if !strings.Contains(stderr, "Opened file store") || !strings.Contains(stderr, dir) {
		t.Errorf("stderr = %q, want data_dir %s", stderr, dir)
	}
}

func TestParseSaveAndListGames(t *testing.T) {
	useFixtureFetcher(t)
	dir := t.TempDir()

	out, _, err := run(t, dir, "parse", boxscoreURL, "--save", "--user", "user-1")
	if err != nil {
		t.Fatalf("parse --save error: %v", err)
	}
	if !strings.Contains(out, "Saved game ") {
		t.Errorf("output = %q", out)
	}

	out, _, err = run(t, dir, "games", "--user", "user-1", "--format", "json")
	if err != nil {
		t.Fatalf("games error: %v", err)
	}
	var result GamesResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("games output is not JSON: %v", err)
	}
	if result.Count != 1 || result.Games[0].HomeTeam != "Boston Bruins" {
		t.Errorf("games = %+v", result)
	}

	out, _, err = run(t, dir, "games", "--user", "user-2")
	if err != nil {
		t.Fatalf("games error: %v", err)
	}
	if !strings.Contains(out, "No games found.") {
		t.Errorf("other user's listing = %q", out)
	}

	if _, _, err := run(t, dir, "games", "--user", "user-1", "--sort", "name"); err == nil {
		t.Error("expected error for invalid sort")
	}
}

func TestImportCommand(t *testing.T) {
	useFixtureFetcher(t)
	dir := t.TempDir()

	file := filepath.Join(dir, "urls.txt")
	content := boxscoreURL + "\n\nnot a url\nhttps://www.hockey-reference.com/boxscores/missing.html\n" + boxscoreURL + "\n"
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	out, stderr, err := run(t, dir, "import", "--file", file, "--user", "user-1", "--pace", "0s")
	if !errors.Is(err, ErrItemsFailed) {
		t.Fatalf("error = %v, want ErrItemsFailed", err)
	}
	if !strings.Contains(out, "1 of 2 imported, 1 failed") {
		t.Errorf("summary = %q", out)
	}
	if !strings.Contains(out, "Failed to process https://www.hockey-reference.com/boxscores/missing.html") {
		t.Errorf("summary missing item error: %q", out)
	}
	if !strings.Contains(stderr, "[1/2] ok") || !strings.Contains(stderr, "[2/2] failed") {
		t.Errorf("progress = %q", stderr)
	}

	out, _, err = run(t, dir, "games", "--user", "user-1")
	if err != nil {
		t.Fatalf("games error: %v", err)
	}
	if !strings.Contains(out, "Total: 1 games") {
		t.Errorf("games = %q", out)
	}
}

func TestImportCommand_AllSucceed(t *testing.T) {
	useFixtureFetcher(t)

	var stdout bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--store", "memory", "import", "--file", "-", "--user", "user-1", "--pace", "0s", "--format", "json"})
	cmd.SetIn(strings.NewReader(boxscoreURL))
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("import error: %v", err)
	}

	var snap struct {
		Status   string `json:"status"`
		Progress int    `json:"progress"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &snap); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if snap.Status != "completed" || snap.Progress != 100 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestImportCommand_Errors(t *testing.T) {
	useFixtureFetcher(t)
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte("nothing here\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing user", []string{"import", "--file", empty}, "--user is required"},
		{"no urls", []string{"import", "--file", empty, "--user", "u"}, "no box score URLs"},
		{"unreadable file", []string{"import", "--file", filepath.Join(dir, "nope.txt"), "--user", "u"}, "reading"},
		{"bad pace", []string{"import", "--file", empty, "--user", "u", "--pace", "-1s"}, "invalid pace"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := run(t, dir, tt.args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestRootCmd_InvalidStore(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"--store", "sqlite", "games", "--user", "u"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.ExecuteContext(context.Background()); err == nil {
		t.Error("expected error for unknown store")
	}
}
