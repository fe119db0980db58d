package checks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spachava753/compatmatrix/internal/models"
)

const sampleChecks = `# hg-git compatibility matrix

hg:4.5 hggit:0.8.0 dulwich:0.18.0
hg:4.6 hggit:0.8.5 dulwich:0.19.0 # first version with py3 fixes
   # indented comment
hg:4.7 hggit:0.8.12 dulwich:0.19.7
`

func tuple(pairs ...string) models.VersionTuple {
	var t models.VersionTuple
	for i := 0; i < len(pairs); i += 2 {
		t = append(t, models.Pin{ID: pairs[i], Version: pairs[i+1]})
	}
	return t
}

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(sampleChecks))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	want := []models.VersionTuple{
		tuple("hg", "4.5", "hggit", "0.8.0", "dulwich", "0.18.0"),
		tuple("hg", "4.6", "hggit", "0.8.5", "dulwich", "0.19.0"),
		tuple("hg", "4.7", "hggit", "0.8.12", "dulwich", "0.19.7"),
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tuples, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("tuple %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestParseLineErrors(t *testing.T) {
	for _, line := range []string{
		"hg:4.5 :0.8.0",
		"hg:4.5 hggit",
		"hg:4.5 hg:4.6",
	} {
		if _, _, err := ParseLine(line); err == nil {
			t.Errorf("expected error for %q", line)
		}
	}
}

func TestParseReportsLineNumber(t *testing.T) {
	_, err := Parse(strings.NewReader("hg:4.5\n\nhg:\n"))
	if err == nil || !strings.Contains(err.Error(), "line 3") {
		t.Errorf("expected error on line 3, got %v", err)
	}
}

func TestResultsRoundTrip(t *testing.T) {
	results := []models.CheckResult{
		{Tuple: tuple("hg", "4.5", "hggit", "0.8.0", "dulwich", "0.18.0"), OK: true},
		{Tuple: tuple("hg", "4.7", "hggit", "0.8.12", "dulwich", "0.19.7"), OK: false},
		{Tuple: tuple("hg", "@", "hggit", "@"), OK: true},
	}

	path := filepath.Join(t.TempDir(), "compat.results")
	if err := WriteResults(path, results); err != nil {
		t.Fatalf("WriteResults: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading results: %v", err)
	}
	wantText := "hg:4.5 hggit:0.8.0 dulwich:0.18.0 # OK\n" +
		"hg:4.7 hggit:0.8.12 dulwich:0.19.7 # FAIL\n" +
		"hg:@ hggit:@ # OK\n"
	if string(data) != wantText {
		t.Errorf("unexpected results file:\n%s", data)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(loaded) != len(results) {
		t.Fatalf("expected %d tuples, got %d", len(results), len(loaded))
	}
	for i := range results {
		if !loaded[i].Equal(results[i].Tuple) {
			t.Errorf("tuple %d = %s, want %s", i, loaded[i], results[i].Tuple)
		}
	}
}

func TestWriteFileAtomicReplaces(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := WriteFileAtomic(path, []byte("new")); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Errorf("expected new content, got %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/compat.checks"); err == nil {
		t.Error("expected error for missing file")
	}
}
