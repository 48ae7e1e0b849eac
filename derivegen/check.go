package derivegen

import (
	"bufio"
	"bytes"
	"os"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/teranos/derive/errors"
	"github.com/teranos/derive/version"
)

// CheckResult holds the result of comparing generated files with disk.
type CheckResult struct {
	UpToDate bool
	// Differences maps an output path to a line diff (-disk +generated),
	// or to a short reason when the file cannot be compared.
	Differences map[string]string
}

// Paths returns the stale output paths, sorted.
func (r *CheckResult) Paths() []string {
	paths := make([]string, 0, len(r.Differences))
	for p := range r.Differences {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Err returns nil when every file is up to date, otherwise an error marked
// errors.ErrStale naming the stale files.
func (r *CheckResult) Err() error {
	if r.UpToDate {
		return nil
	}
	return errors.WithHint(
		errors.Wrapf(errors.ErrStale, "%d file(s): %s", len(r.Differences), strings.Join(r.Paths(), ", ")),
		"run 'derive generate' to refresh them")
}

// Check renders files in memory and compares them with the files on disk.
// The version in the header line is ignored unless the versions are
// incompatible.
func Check(files []*File) (*CheckResult, error) {
	differences := make(map[string]string)
	for _, f := range files {
		want, err := f.Bytes()
		if err != nil {
			return nil, err
		}
		have, err := os.ReadFile(f.Path)
		if os.IsNotExist(err) {
			differences[f.Path] = "missing"
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", f.Path)
		}
		if diff := compare(have, want, f.Version); diff != "" {
			differences[f.Path] = diff
		}
	}
	return &CheckResult{
		UpToDate:    len(differences) == 0,
		Differences: differences,
	}, nil
}

// compare returns a line diff of have and want, or "" when they match after
// dropping compatible header lines.
func compare(have, want []byte, current string) string {
	if bytes.Equal(have, want) {
		return ""
	}
	haveLines, haveVersion := splitHeader(have)
	wantLines, _ := splitHeader(want)
	if haveVersion != "" {
		if ok, err := version.Compatible(current, haveVersion); err != nil || !ok {
			return "generated by incompatible derive " + haveVersion
		}
	}
	return cmp.Diff(haveLines, wantLines)
}

// splitHeader returns the lines of content without derive header lines and
// the version the first header line names.
func splitHeader(content []byte) (lines []string, headerVersion string) {
	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		if v, ok := ParseHeader(line); ok {
			if headerVersion == "" {
				headerVersion = v
			}
			continue
		}
		lines = append(lines, line)
	}
	// A scanner error leaves lines truncated, which shows up as a diff.
	return lines, headerVersion
}
