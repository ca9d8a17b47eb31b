// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output validates the output location and writes the result table.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pdiddy/sidscraper/pkg/types"
)

const (
	// DefaultBaseName is the table file name used when none is given.
	DefaultBaseName = "sidscraper_output"

	// Separator delimits fields in the written table.
	Separator = ';'

	extension = ".csv"
)

var (
	// ErrNoDirectory means the output directory does not exist.
	ErrNoDirectory = errors.New("output directory does not exist")

	// ErrBadFileName means the output base name contains a path separator.
	ErrBadFileName = errors.New("invalid file name: are you trying to pass a directory as a file name?")
)

// ResolvePath validates dir and base and returns the table path. An empty
// dir is the current directory; an empty base is DefaultBaseName.
func ResolvePath(dir, base string) (string, error) {
	if dir != "" {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return "", fmt.Errorf("%w: %q", ErrNoDirectory, dir)
		}
	}
	if strings.ContainsAny(base, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrBadFileName, base)
	}
	if base == "" {
		base = DefaultBaseName
	}
	return filepath.Join(dir, base+extension), nil
}

// WriteCSV writes rows as a semicolon-separated table with a header row.
// Every field is double-quoted, embedded quotes are doubled, and records
// end with "\n". An empty table produces the header only.
func WriteCSV(w io.Writer, rows types.ResultTable) error {
	bw := bufio.NewWriter(w)
	writeRecord(bw, types.Columns)
	for _, r := range rows {
		writeRecord(bw, r.Record())
	}
	return bw.Flush()
}

func writeRecord(w *bufio.Writer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(Separator)
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}

// WriteCSVFile writes rows to path through a temporary file in the same
// directory, renamed into place on success.
func WriteCSVFile(path string, rows types.ResultTable) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".sidscraper-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	writeErr := WriteCSV(tmp, rows)
	closeErr := tmp.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing table: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// RenderPreview prints the first limit rows as a table, followed by a
// footer with the total row count.
func RenderPreview(w io.Writer, rows types.ResultTable, limit int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)

	header := make(table.Row, len(types.Columns))
	for i, c := range types.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for i, r := range rows {
		if i >= limit {
			break
		}
		t.AppendRow(table.Row{r.Taxa, r.MeanSeedWeight, r.OilContent, r.ProteinContent, r.SaltTolerance})
	}
	t.AppendFooter(table.Row{fmt.Sprintf("%d rows", len(rows))})
	t.Render()
}
