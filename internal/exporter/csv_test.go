package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conexcli/internal/config"
)

func testWriter(t *testing.T) (*CSVWriter, string) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Default()
	cfg.Output.Dir = dir
	return NewCSVWriter(config.NewPaths(cfg)), dir
}

func TestCSVWriter_WriteCSV(t *testing.T) {
	writer, dir := testWriter(t)

	err := writer.WriteCSV("out.csv", WriteOptions{
		Headers: []string{"a", "b"},
		Records: [][]string{{"1", "2"}, {"3", "4"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(data))
}

func TestCSVWriter_WriteCSV_BOMPrefix(t *testing.T) {
	writer, dir := testWriter(t)

	err := writer.WriteCSV("out.csv", WriteOptions{
		Headers:   []string{"a"},
		Records:   [][]string{{"1"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	require.True(t, len(data) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
	assert.Equal(t, "a\n1\n", string(data[3:]))
}

func TestCSVWriter_WriteCSV_Append(t *testing.T) {
	writer, dir := testWriter(t)

	require.NoError(t, writer.WriteCSV("out.csv", WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	}))
	require.NoError(t, writer.WriteCSV("out.csv", WriteOptions{
		Records: [][]string{{"2"}},
		Append:  true,
	}))

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a\n1\n2\n", string(data))
}

func TestCSVWriter_WriteCSV_CreatesNestedDirectories(t *testing.T) {
	writer, dir := testWriter(t)

	err := writer.WriteCSV(filepath.Join("nested", "deeper", "out.csv"), WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "nested", "deeper", "out.csv"))
}

func TestCSVWriter_WriteCSV_AbsolutePath(t *testing.T) {
	writer, _ := testWriter(t)

	target := filepath.Join(t.TempDir(), "direct.csv")
	err := writer.WriteCSV(target, WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	assert.FileExists(t, target)
}

func TestCSVWriter_WriteCSV_QuotesFieldsWithSeparators(t *testing.T) {
	writer, dir := testWriter(t)

	err := writer.WriteCSV("out.csv", WriteOptions{
		Headers: []string{"centro"},
		Records: [][]string{{"BELEN, EL POBLADO"}},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "centro\n\"BELEN, EL POBLADO\"\n", string(data))
}

func TestStreamWriter(t *testing.T) {
	writer, dir := testWriter(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"a", "b"}, false)
	require.NoError(t, err)

	require.NoError(t, stream.WriteRecord([]string{"1", "2"}))
	require.NoError(t, stream.WriteRecord([]string{"3", "4"}))
	require.NoError(t, stream.Close())

	data, err := os.ReadFile(filepath.Join(dir, "stream.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n3,4\n", string(data))
}

func TestStreamWriter_BOM(t *testing.T) {
	writer, dir := testWriter(t)

	stream, err := writer.CreateStreamWriter("stream.csv", []string{"a"}, true)
	require.NoError(t, err)
	require.NoError(t, stream.Close())

	data, err := os.ReadFile(filepath.Join(dir, "stream.csv"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name  string
		input float64
		want  string
	}{
		{name: "integer valued", input: 50, want: "50"},
		{name: "one decimal", input: 1.5, want: "1.5"},
		{name: "mean with repeating digits", input: 1.0 / 3.0, want: "0.3333333333333333"},
		{name: "negative", input: -3.5, want: "-3.5"},
		{name: "zero", input: 0, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatFloat(tt.input))
		})
	}
}

func TestFormatBool(t *testing.T) {
	assert.Equal(t, "true", formatBool(true))
	assert.Equal(t, "false", formatBool(false))
}
