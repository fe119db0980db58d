// Package checks reads and writes the line-oriented checks and results files.
//
// Each non-blank line that does not start with '#' holds one version tuple as
// space separated id:version pairs. Anything after " # " is a trailing comment;
// the results file uses it for the OK/FAIL marker.
package checks

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spachava753/compatmatrix/internal/models"
)

const commentMarker = " # "

// Load reads the tuples listed in a checks (or results) file.
func Load(path string) ([]models.VersionTuple, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening checks file: %w", err)
	}
	defer f.Close()

	tuples, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tuples, nil
}

// Parse reads tuples from r in file order.
func Parse(r io.Reader) ([]models.VersionTuple, error) {
	var tuples []models.VersionTuple
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		tuple, ok, err := ParseLine(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if ok {
			tuples = append(tuples, tuple)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading checks: %w", err)
	}
	return tuples, nil
}

// ParseLine parses one line. ok is false for blank and comment-only lines.
func ParseLine(line string) (tuple models.VersionTuple, ok bool, err error) {
	if i := strings.Index(line, commentMarker); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, false, nil
	}

	for _, field := range strings.Fields(line) {
		pin, err := models.ParsePin(field)
		if err != nil {
			return nil, false, err
		}
		if pin.Version == "" {
			return nil, false, fmt.Errorf("pin %q has no version", field)
		}
		if _, dup := tuple.Get(pin.ID); dup {
			return nil, false, fmt.Errorf("component %q listed twice", pin.ID)
		}
		tuple = append(tuple, pin)
	}
	return tuple, true, nil
}

// FormatResults renders results in file form, one tuple per line followed by
// its OK or FAIL marker.
func FormatResults(results []models.CheckResult) []byte {
	var buf bytes.Buffer
	for _, r := range results {
		buf.WriteString(r.Tuple.String())
		buf.WriteString(commentMarker)
		buf.WriteString(r.Outcome())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// WriteResults atomically replaces path with the formatted results.
func WriteResults(path string, results []models.CheckResult) error {
	return WriteFileAtomic(path, FormatResults(results))
}

// WriteFileAtomic writes data to a temporary file next to path and renames it
// into place, so readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("renaming into place: %w", err)
	}
	return nil
}
