package export

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pkg.jsn.cam/randen/pkg/randen"
)

func sampleTable(t *testing.T) *randen.Table {
	t.Helper()
	cfg := randen.Quiet(5)
	cfg.Now = func() time.Time { return time.Date(2020, 10, 5, 0, 0, 0, 0, time.UTC) }
	tbl, err := randen.New(cfg).Table(12, []randen.ColumnType{
		randen.String, randen.Character, randen.Integer, randen.Float, randen.Boolean, randen.Timestamp,
	}, nil)
	require.NoError(t, err)
	return tbl
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"csv", FormatCSV},
		{"JSON", FormatJSON},
		{"ndjson", FormatJSON},
		{"parquet", FormatParquet},
		{"arrow", FormatIPC},
		{"ipc", FormatIPC},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := ParseFormat("xlsx")
	require.ErrorIs(t, err, ErrUnknownFormat)

	f, err := FormatFromPath("out/data.parquet")
	require.NoError(t, err)
	assert.Equal(t, FormatParquet, f)

	_, err = FormatFromPath("out/data")
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWriteCSV(t *testing.T) {
	tbl := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl, FormatCSV))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, tbl.NumRows()+1)
	assert.Equal(t, []string{"Str0", "Bytes1", "Int2", "Float3", "Bool4", "Datetime5"}, records[0])
	assert.Equal(t, tbl.Column(0).Strings[0], records[1][0])
	assert.Equal(t, string(tbl.Column(1).Chars[0]), records[1][1])
}

func TestWriteJSON(t *testing.T) {
	tbl := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl, FormatJSON))

	scanner := bufio.NewScanner(&buf)
	lines := 0
	for scanner.Scan() {
		var row map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &row))
		assert.Len(t, row, tbl.NumCols())
		assert.Equal(t, tbl.Column(0).Strings[lines], row["Str0"])
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, tbl.NumRows(), lines)
}

func TestWriteIPC_RoundTrip(t *testing.T) {
	tbl := sampleTable(t)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl, FormatIPC))

	back, err := ReadIPC(&buf)
	require.NoError(t, err)
	assert.Equal(t, tbl.ColumnNames(), back.ColumnNames())
	assert.Equal(t, tbl.Columns(), back.Columns())
}

func TestWriteFile_Parquet(t *testing.T) {
	tbl := sampleTable(t)
	path := filepath.Join(t.TempDir(), "nested", "table.parquet")

	require.NoError(t, WriteFile(path, tbl, FormatParquet))

	pf, err := file.OpenParquetFile(path, false)
	require.NoError(t, err)
	defer pf.Close()

	reader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, memory.DefaultAllocator)
	require.NoError(t, err)

	read, err := reader.ReadTable(context.Background())
	require.NoError(t, err)
	defer read.Release()

	assert.EqualValues(t, tbl.NumRows(), read.NumRows())
	assert.EqualValues(t, tbl.NumCols(), read.NumCols())
	for i, name := range tbl.ColumnNames() {
		assert.Equal(t, name, read.Schema().Field(i).Name)
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, sampleTable(t), Format(99))
	require.ErrorIs(t, err, ErrUnknownFormat)
}
