// Package export writes generated tables in the usual columnar and text formats.
package export

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/csv"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"pkg.jsn.cam/randen/pkg/randen"
)

// Format is an output encoding.
type Format int

const (
	FormatCSV Format = iota
	FormatJSON
	FormatParquet
	FormatIPC
)

var ErrUnknownFormat = errors.New("unknown export format")

var formatNames = map[Format]string{
	FormatCSV:     "csv",
	FormatJSON:    "json",
	FormatParquet: "parquet",
	FormatIPC:     "ipc",
}

var formatAliases = map[string]Format{
	"csv":     FormatCSV,
	"json":    FormatJSON,
	"ndjson":  FormatJSON,
	"jsonl":   FormatJSON,
	"parquet": FormatParquet,
	"ipc":     FormatIPC,
	"arrow":   FormatIPC,
	"arrows":  FormatIPC,
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ContentType returns the MIME type used when serving f over HTTP.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/x-ndjson"
	case FormatParquet:
		return "application/vnd.apache.parquet"
	case FormatIPC:
		return "application/vnd.apache.arrow.stream"
	default:
		return "application/octet-stream"
	}
}

// ParseFormat resolves a format name such as "csv" or "parquet".
func ParseFormat(s string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return 0, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// Write encodes tbl to w.
func Write(w io.Writer, tbl *randen.Table, f Format) error {
	rec := tbl.Record(memory.DefaultAllocator)
	defer rec.Release()

	switch f {
	case FormatCSV:
		return writeCSV(w, rec)
	case FormatJSON:
		return writeJSON(w, rec)
	case FormatParquet:
		return writeParquet(w, rec)
	case FormatIPC:
		return writeIPC(w, rec)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownFormat, f)
	}
}

// WriteFile encodes tbl into a new file at path, creating parent directories.
func WriteFile(path string, tbl *randen.Table, f Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s file: %w", f, err)
	}

	if err := Write(file, tbl, f); err != nil {
		file.Close()
		return err
	}
	// the parquet writer closes its sink itself
	if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("failed to close %s file: %w", f, err)
	}
	return nil
}

func writeCSV(w io.Writer, rec arrow.Record) error {
	writer := csv.NewWriter(w, rec.Schema(), csv.WithHeader(true))
	if err := writer.Write(rec); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}

// writeJSON emits one object per row, one row per line.
func writeJSON(w io.Writer, rec arrow.Record) error {
	if err := array.RecordToJSON(rec, w); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func writeParquet(w io.Writer, rec arrow.Record) error {
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithVersion(parquet.V2_LATEST),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	writer, err := pqarrow.NewFileWriter(rec.Schema(), w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write record to parquet: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func writeIPC(w io.Writer, rec arrow.Record) error {
	writer := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()))
	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write IPC stream: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close IPC stream: %w", err)
	}
	return nil
}

// ReadIPC decodes a table written with FormatIPC.
func ReadIPC(r io.Reader) (*randen.Table, error) {
	reader, err := ipc.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open IPC stream: %w", err)
	}
	defer reader.Release()

	if !reader.Next() {
		if err := reader.Err(); err != nil {
			return nil, fmt.Errorf("failed to read IPC stream: %w", err)
		}
		return nil, errors.New("IPC stream holds no record")
	}
	return randen.FromRecord(reader.Record())
}
