package serializer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/opmeter/pkg/measurement"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.json", FormatJSON},
		{"A.JSON", FormatJSON},
		{"a.yaml", FormatYAML},
		{"a.yml", FormatYAML},
		{"a.table", FormatTable},
		{"a.txt", FormatTable},
		{"app.log", FormatReadable},
		{"noext", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFromPath(tt.path))
		})
	}
}

func TestIsDocumentPath(t *testing.T) {
	assert.True(t, IsDocumentPath("x.json"))
	assert.True(t, IsDocumentPath("x.YML"))
	assert.False(t, IsDocumentPath("x.log"))
	assert.False(t, IsDocumentPath("-"))
}

func TestNewReader_RejectsWriteOnlyFormats(t *testing.T) {
	for _, f := range []Format{FormatTable, FormatReadable, Format("xml")} {
		_, err := NewReader(f, strings.NewReader(""))
		assert.Error(t, err, f)
	}
}

func TestReader_Deserialize(t *testing.T) {
	r, err := NewReader(FormatJSON, strings.NewReader(`[{"category":"svc","position":3,"createTime":1}]`))
	require.NoError(t, err)
	var ms []*measurement.Measurement
	require.NoError(t, r.Deserialize(&ms))
	require.Len(t, ms, 1)
	assert.Equal(t, "svc", ms[0].Category)
	assert.Equal(t, int64(3), ms[0].Position)
	assert.NoError(t, r.Close())

	r, err = NewReader(FormatYAML, strings.NewReader("- category: svc\n  context:\n    b: \"2\"\n    a: \"1\"\n"))
	require.NoError(t, err)
	ms = nil
	require.NoError(t, r.Deserialize(&ms))
	require.Len(t, ms, 1)
	assert.Equal(t, []string{"b", "a"}, ms[0].Context.Keys())

	r, err = NewReader(FormatJSON, strings.NewReader(`not json`))
	require.NoError(t, err)
	assert.Error(t, r.Deserialize(&ms))

	var nilReader *Reader
	assert.Error(t, nilReader.Deserialize(&ms))
	assert.NoError(t, nilReader.Close())
}

func TestFromFile_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"export.json", "export.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			w := NewFileWriterOrStdout(FormatFromPath(path), path)
			require.NoError(t, w.Serialize(context.Background(), sample()))
			require.NoError(t, w.Close())

			got, err := FromFile[[]*measurement.Measurement](path)
			require.NoError(t, err)
			require.Len(t, *got, 2)
			for i, m := range sample() {
				assert.True(t, m.Equal((*got)[i]), measurement.Diff(m, (*got)[i]))
			}
		})
	}
}

func TestFromFile_Errors(t *testing.T) {
	_, err := FromFile[[]*measurement.Measurement](filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("category: [unterminated"), 0o600))
	_, err = FromFile[[]*measurement.Measurement](bad)
	assert.Error(t, err)
}
