package derivegen

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/teranos/derive/errors"
)

const (
	headerPrefix = "// Code generated by derive "
	headerSuffix = ". DO NOT EDIT."
)

// Header returns the first line of every generated file.
func Header(version string) string {
	return headerPrefix + version + headerSuffix
}

// ParseHeader returns the derive version recorded in a generated file's
// header line. ok is false when line is not a derive header.
func ParseHeader(line string) (version string, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, headerPrefix) || !strings.HasSuffix(line, headerSuffix) {
		return "", false
	}
	return strings.TrimSuffix(strings.TrimPrefix(line, headerPrefix), headerSuffix), true
}

// File is the generated companion of one source file.
type File struct {
	Path      string // output path
	Source    string // source file the records were declared in
	Package   string
	Version   string
	Fragments []Fragment
}

// source renders the file without formatting.
func (f *File) source() []byte {
	var sb strings.Builder
	sb.WriteString(Header(f.Version))
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "package %s\n\n", f.Package)

	paths := Imports(f.Fragments)
	if len(paths) == 1 {
		fmt.Fprintf(&sb, "import %q\n\n", paths[0])
	} else if len(paths) > 1 {
		sb.WriteString("import (\n")
		var std, ext []string
		for _, p := range paths {
			if isStd(p) {
				std = append(std, p)
			} else {
				ext = append(ext, p)
			}
		}
		for _, p := range std {
			fmt.Fprintf(&sb, "\t%q\n", p)
		}
		if len(std) > 0 && len(ext) > 0 {
			sb.WriteString("\n")
		}
		for _, p := range ext {
			fmt.Fprintf(&sb, "\t%q\n", p)
		}
		sb.WriteString(")\n\n")
	}

	sb.WriteString(Join(f.Fragments))
	return []byte(sb.String())
}

// Bytes renders the file as gofmt-formatted Go source. Imports are taken
// from the fragments; goimports only formats and prunes them.
func (f *File) Bytes() ([]byte, error) {
	src := f.source()
	out, err := imports.Process(f.Path, src, &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, errors.WithDetail(
			errors.Wrapf(err, "format %s", f.Path),
			string(src))
	}
	return out, nil
}

// Write renders the file and writes it to Path.
func (f *File) Write() error {
	data, err := f.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(f.Path, data, 0644); err != nil {
		return errors.Wrapf(err, "write %s", f.Path)
	}
	return nil
}

// isStd reports whether an import path belongs to the standard library,
// whose first path element has no dot.
func isStd(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return !strings.Contains(first, ".")
}
