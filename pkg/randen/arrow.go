package randen

import (
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// TypeMetadataKey marks each Arrow field with the column type tag, so a
// character column can be told apart from a string column.
const TypeMetadataKey = "randen.type"

// TimestampType is the Arrow type of timestamp columns.
var TimestampType = &arrow.TimestampType{Unit: arrow.Nanosecond, TimeZone: "UTC"}

func arrowType(t ColumnType) arrow.DataType {
	switch t {
	case Integer:
		return arrow.PrimitiveTypes.Int64
	case Float:
		return arrow.PrimitiveTypes.Float64
	case Boolean:
		return arrow.FixedWidthTypes.Boolean
	case Character, String:
		return arrow.BinaryTypes.String
	case Timestamp:
		return TimestampType
	default:
		return nil
	}
}

// Schema returns the Arrow schema of the table.
func (t *Table) Schema() *arrow.Schema {
	fields := make([]arrow.Field, len(t.columns))
	for i := range t.columns {
		c := &t.columns[i]
		fields[i] = arrow.Field{
			Name:     c.Name,
			Type:     arrowType(c.Type),
			Metadata: arrow.NewMetadata([]string{TypeMetadataKey}, []string{c.Type.String()}),
		}
	}
	return arrow.NewSchema(fields, nil)
}

// Record converts the table into an Arrow record. The caller owns the record
// and must Release it.
func (t *Table) Record(mem memory.Allocator) arrow.Record {
	if mem == nil {
		mem = memory.DefaultAllocator
	}

	arrays := make([]arrow.Array, len(t.columns))
	for i := range t.columns {
		arrays[i] = buildArray(mem, &t.columns[i])
	}
	defer func() {
		for _, a := range arrays {
			a.Release()
		}
	}()

	return array.NewRecord(t.Schema(), arrays, int64(t.nrows))
}

func buildArray(mem memory.Allocator, c *Column) arrow.Array {
	switch c.Type {
	case Integer:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(c.Ints, nil)
		return b.NewArray()
	case Float:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(c.Floats, nil)
		return b.NewArray()
	case Boolean:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(c.Bools, nil)
		return b.NewArray()
	case Character:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.Reserve(len(c.Chars))
		for _, ch := range c.Chars {
			b.Append(string(ch))
		}
		return b.NewArray()
	case String:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(c.Strings, nil)
		return b.NewArray()
	case Timestamp:
		b := array.NewTimestampBuilder(mem, TimestampType)
		defer b.Release()
		b.Reserve(len(c.Times))
		for _, ts := range c.Times {
			b.Append(arrow.Timestamp(ts.UnixNano()))
		}
		return b.NewArray()
	default:
		panic(fmt.Sprintf("randen: no arrow type for %s", c.Type))
	}
}

// FromRecord converts an Arrow record produced by Table.Record back into a Table.
func FromRecord(rec arrow.Record) (*Table, error) {
	schema := rec.Schema()
	nrows := int(rec.NumRows())
	columns := make([]Column, rec.NumCols())

	for i := range columns {
		field := schema.Field(i)
		arr := rec.Column(i)
		if arr.NullN() > 0 {
			return nil, fmt.Errorf("column %q: null values are not supported", field.Name)
		}

		t, err := fieldType(field)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", field.Name, err)
		}
		c := Column{Name: field.Name, Type: t}

		switch t {
		case Integer:
			a, ok := arr.(*array.Int64)
			if !ok {
				return nil, fieldMismatch(field)
			}
			c.Ints = append([]int64(nil), a.Int64Values()...)
		case Float:
			a, ok := arr.(*array.Float64)
			if !ok {
				return nil, fieldMismatch(field)
			}
			c.Floats = append([]float64(nil), a.Float64Values()...)
		case Boolean:
			a, ok := arr.(*array.Boolean)
			if !ok {
				return nil, fieldMismatch(field)
			}
			c.Bools = make([]bool, a.Len())
			for j := range c.Bools {
				c.Bools[j] = a.Value(j)
			}
		case Character:
			a, ok := arr.(*array.String)
			if !ok {
				return nil, fieldMismatch(field)
			}
			c.Chars = make([]byte, a.Len())
			for j := range c.Chars {
				s := a.Value(j)
				if len(s) != 1 {
					return nil, fmt.Errorf("column %q row %d: %q is not a single character", field.Name, j, s)
				}
				c.Chars[j] = s[0]
			}
		case String:
			a, ok := arr.(*array.String)
			if !ok {
				return nil, fieldMismatch(field)
			}
			c.Strings = make([]string, a.Len())
			for j := range c.Strings {
				c.Strings[j] = strings.Clone(a.Value(j))
			}
		case Timestamp:
			a, ok := arr.(*array.Timestamp)
			if !ok {
				return nil, fieldMismatch(field)
			}
			unit := a.DataType().(*arrow.TimestampType).Unit
			c.Times = make([]time.Time, a.Len())
			for j := range c.Times {
				c.Times[j] = a.Value(j).ToTime(unit).UTC()
			}
		}
		columns[i] = c
	}

	return NewTable(nrows, columns)
}

// fieldType reads the type tag from the field metadata, falling back to the
// Arrow type for records that were not produced by this package.
func fieldType(field arrow.Field) (ColumnType, error) {
	if idx := field.Metadata.FindKey(TypeMetadataKey); idx >= 0 {
		return ParseColumnType(field.Metadata.Values()[idx])
	}

	switch field.Type.ID() {
	case arrow.INT64:
		return Integer, nil
	case arrow.FLOAT64:
		return Float, nil
	case arrow.BOOL:
		return Boolean, nil
	case arrow.STRING:
		return String, nil
	case arrow.TIMESTAMP:
		return Timestamp, nil
	default:
		return 0, &UnsupportedTypeError{Tag: field.Type.String()}
	}
}

func fieldMismatch(field arrow.Field) error {
	return fmt.Errorf("column %q: arrow type %s does not match its type tag", field.Name, field.Type)
}
