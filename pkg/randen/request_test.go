package randen

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestGenerate(t *testing.T) {
	g := newTestGenerator(21)

	tests := []struct {
		name      string
		req       Request
		wantNames []string
		wantErr   error
	}{
		{
			name:      "homogeneous",
			req:       Request{Rows: 5, Kind: "integer", Cols: 3},
			wantNames: []string{"Integer0", "Integer1", "Integer2"},
		},
		{
			name:      "homogeneous by tag",
			req:       Request{Rows: 5, Kind: "bytes", Cols: 2},
			wantNames: []string{"Char0", "Char1"},
		},
		{
			name:      "heterogeneous",
			req:       Request{Rows: 5, Types: []string{"str", "bytes", "int", "float", "bool", "datetime"}},
			wantNames: []string{"Str0", "Bytes1", "Int2", "Float3", "Bool4", "Datetime5"},
		},
		{
			name:      "named",
			req:       Request{Rows: 5, Types: []string{"int", "string"}, Names: []string{"id", "key"}},
			wantNames: []string{"id", "key"},
		},
		{
			name:    "both shapes",
			req:     Request{Rows: 5, Kind: "int", Cols: 1, Types: []string{"int"}},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "no shape",
			req:     Request{Rows: 5},
			wantErr: ErrInvalidRequest,
		},
		{
			name:    "unsupported kind",
			req:     Request{Rows: 5, Kind: "decimal", Cols: 1},
			wantErr: ErrUnsupportedType,
		},
		{
			name:    "unsupported type",
			req:     Request{Rows: 5, Types: []string{"int", "uuid"}},
			wantErr: ErrUnsupportedType,
		},
		{
			name:    "name mismatch",
			req:     Request{Rows: 5, Kind: "float", Cols: 2, Names: []string{"only"}},
			wantErr: ErrColumnCountMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := g.Generate(tt.req)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, tbl)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.req.Rows, tbl.NumRows())
			assert.Equal(t, tt.wantNames, tbl.ColumnNames())
		})
	}
}

func TestGenerate_UnsupportedTypeNamesTag(t *testing.T) {
	g := newTestGenerator(22)

	_, err := g.Generate(Request{Rows: 1, Types: []string{"int", "uuid"}})
	var typeErr *UnsupportedTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "uuid", typeErr.Tag)
}

func TestGenerate_Params(t *testing.T) {
	g := newTestGenerator(23)

	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC)
	req := Request{
		Rows:  20,
		Types: []string{"int", "float", "char", "str", "timestamp"},
		Params: Params{
			IntMin:    ptr(int64(1)),
			IntMax:    ptr(int64(3)),
			FloatMin:  ptr(10.0),
			FloatMax:  ptr(11.0),
			Lowercase: ptr(false),
			MinLen:    ptr(4),
			MaxLen:    ptr(5),
			Start:     &start,
			End:       &end,
		},
	}

	tbl, err := g.Generate(req)
	require.NoError(t, err)

	for _, v := range tbl.Column(0).Ints {
		assert.Contains(t, []int64{1, 2}, v)
	}
	for _, v := range tbl.Column(1).Floats {
		assert.True(t, v >= 10 && v < 11)
	}
	for _, c := range tbl.Column(2).Chars {
		assert.True(t, c >= 'A' && c <= 'Z')
	}
	for _, s := range tbl.Column(3).Strings {
		assert.Len(t, s, 4)
	}
	times := tbl.Column(4).Times
	assert.True(t, times[0].Equal(start))
	assert.True(t, times[len(times)-1].Equal(end))
}

func TestParseColumnType(t *testing.T) {
	tests := map[string]ColumnType{
		"int":       Integer,
		"Integer":   Integer,
		"float":     Float,
		"bool":      Boolean,
		"BOOLEAN":   Boolean,
		"bytes":     Character,
		"char":      Character,
		"str":       String,
		"string":    String,
		"datetime":  Timestamp,
		" date ":    Timestamp,
		"timestamp": Timestamp,
	}
	for in, want := range tests {
		got, err := ParseColumnType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseColumnType("complex")
	require.ErrorIs(t, err, ErrUnsupportedType)
}

func TestColumnType_Names(t *testing.T) {
	for _, ct := range ColumnTypes {
		assert.True(t, ct.Valid())
		parsed, err := ParseColumnType(ct.String())
		require.NoError(t, err)
		assert.Equal(t, ct, parsed)
	}

	assert.False(t, ColumnType(-1).Valid())
	assert.Equal(t, "ColumnType(-1)", ColumnType(-1).String())
	assert.Equal(t, "Integer", Integer.Prefix())
	assert.Equal(t, "Char", Character.Prefix())
	assert.Equal(t, "Date", Timestamp.Prefix())
}
