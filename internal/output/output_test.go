// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/sidscraper/pkg/types"
)

func TestResolvePath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	tests := []struct {
		name    string
		dir     string
		base    string
		want    string
		wantErr error
	}{
		{"defaults", "", "", "sidscraper_output.csv", nil},
		{"directory and name", dir, "seeds", filepath.Join(dir, "seeds.csv"), nil},
		{"directory only", dir, "", filepath.Join(dir, "sidscraper_output.csv"), nil},
		{"missing directory", filepath.Join(dir, "nope"), "", "", ErrNoDirectory},
		{"file as directory", file, "", "", ErrNoDirectory},
		{"slash in name", "", "out/seeds", "", ErrBadFileName},
		{"backslash in name", "", `out\seeds`, "", ErrBadFileName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.dir, tt.base)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

const header = `"taxa";"mean_seed_weight_g";"perc_oil_content";"perc_protein_content";"salt_tolerance"` + "\n"

func TestWriteCSV(t *testing.T) {
	rows := types.ResultTable{
		{Taxa: "Rosa", MeanSeedWeight: "12.5"},
		{Taxa: `Pinus "sp"`, OilContent: "30,1", ProteinContent: "1E2", SaltTolerance: 1},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	want := header +
		`"Rosa";"12.5";"";"";"0"` + "\n" +
		`"Pinus ""sp""";"";"30,1";"1E2";"1"` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, header, buf.String())

	fields := strings.Split(strings.TrimSuffix(buf.String(), "\n"), ";")
	assert.Len(t, fields, 5)
	for _, f := range fields {
		assert.True(t, strings.HasPrefix(f, `"`) && strings.HasSuffix(f, `"`), "field %s not quoted", f)
	}
}

func TestWriteCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.csv")

	require.NoError(t, WriteCSVFile(path, types.ResultTable{{Taxa: "Rosa"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, header+`"Rosa";"";"";"";"0"`+"\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteCSVFile_MissingDirectory(t *testing.T) {
	err := WriteCSVFile(filepath.Join(t.TempDir(), "missing", "out.csv"), nil)
	assert.Error(t, err)
}

func TestRenderPreview(t *testing.T) {
	rows := types.ResultTable{
		{Taxa: "Rosa", MeanSeedWeight: "12.5"},
		{Taxa: "Pinus", SaltTolerance: 1},
		{Taxa: "Abies"},
	}
	var buf bytes.Buffer
	RenderPreview(&buf, rows, 2)

	out := buf.String()
	assert.Contains(t, out, "Rosa")
	assert.Contains(t, out, "Pinus")
	assert.NotContains(t, out, "Abies")
	assert.Contains(t, out, "3 ROWS")
}
