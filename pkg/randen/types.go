package randen

import (
	"fmt"
	"strings"
	"time"
)

// ColumnType is the semantic type of a generated column.
type ColumnType int

const (
	Integer ColumnType = iota
	Float
	Boolean
	Character
	String
	Timestamp
)

// ColumnTypes lists every supported column type in declaration order.
var ColumnTypes = []ColumnType{Integer, Float, Boolean, Character, String, Timestamp}

// typeTags name a type inside heterogeneous requests ("Int2", "Bytes1", ...).
var typeTags = map[ColumnType]string{
	Integer:   "Int",
	Float:     "Float",
	Boolean:   "Bool",
	Character: "Bytes",
	String:    "Str",
	Timestamp: "Datetime",
}

// tablePrefixes name the columns of homogeneous tables ("Integer0", "Char3", ...).
var tablePrefixes = map[ColumnType]string{
	Integer:   "Integer",
	Float:     "Float",
	Boolean:   "Bool",
	Character: "Char",
	String:    "Str",
	Timestamp: "Date",
}

// kindNames are used in log lines.
var kindNames = map[ColumnType]string{
	Integer:   "integer",
	Float:     "float",
	Boolean:   "boolean",
	Character: "character",
	String:    "string",
	Timestamp: "dates",
}

var typeAliases = map[string]ColumnType{
	"int":       Integer,
	"integer":   Integer,
	"float":     Float,
	"bool":      Boolean,
	"boolean":   Boolean,
	"bytes":     Character,
	"char":      Character,
	"character": Character,
	"str":       String,
	"string":    String,
	"datetime":  Timestamp,
	"date":      Timestamp,
	"timestamp": Timestamp,
}

// Valid reports whether t is one of the supported column types.
func (t ColumnType) Valid() bool {
	_, ok := typeTags[t]
	return ok
}

// String returns the type tag, e.g. "Int" or "Datetime".
func (t ColumnType) String() string {
	if tag, ok := typeTags[t]; ok {
		return tag
	}
	return fmt.Sprintf("ColumnType(%d)", int(t))
}

// Prefix returns the column name prefix used by homogeneous tables.
func (t ColumnType) Prefix() string {
	if p, ok := tablePrefixes[t]; ok {
		return p
	}
	return t.String()
}

// ParseColumnType resolves a type name such as "int", "str" or "timestamp".
func ParseColumnType(s string) (ColumnType, error) {
	if t, ok := typeAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return 0, &UnsupportedTypeError{Tag: s}
}

// ParseColumnTypes resolves a list of type names, failing on the first unknown one.
func ParseColumnTypes(names []string) ([]ColumnType, error) {
	types := make([]ColumnType, len(names))
	for i, name := range names {
		t, err := ParseColumnType(name)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

// Generation defaults.
const (
	DefaultIntMin    int64   = -100000
	DefaultIntMax    int64   = 100000
	DefaultFloatMin  float64 = -1.0
	DefaultFloatMax  float64 = 1.0
	DefaultMinStrLen         = 10
	DefaultMaxStrLen         = 20
)

// ColumnSpec describes one requested column: its type and the parameters of
// its generator. Fields that do not apply to Type are ignored.
type ColumnSpec struct {
	Type ColumnType

	IntMin, IntMax     int64   // Integer, [IntMin, IntMax)
	FloatMin, FloatMax float64 // Float, [FloatMin, FloatMax)
	MinLen, MaxLen     int     // String, length in [MinLen, MaxLen)
	Lowercase          bool    // Character

	// Timestamp range, both ends inclusive. A zero Start means the Unix epoch,
	// a zero End means the wall clock at generation time.
	Start, End time.Time
}

// DefaultSpec returns the default parameters for t.
func DefaultSpec(t ColumnType) ColumnSpec {
	return ColumnSpec{
		Type:      t,
		IntMin:    DefaultIntMin,
		IntMax:    DefaultIntMax,
		FloatMin:  DefaultFloatMin,
		FloatMax:  DefaultFloatMax,
		MinLen:    DefaultMinStrLen,
		MaxLen:    DefaultMaxStrLen,
		Lowercase: true,
	}
}

func (s ColumnSpec) validate() error {
	switch s.Type {
	case Integer:
		return checkRange(s.IntMin, s.IntMax)
	case Float:
		return checkRange(s.FloatMin, s.FloatMax)
	case String:
		if s.MinLen < 0 {
			return fmt.Errorf("%w: negative string length %d", ErrInvalidRange, s.MinLen)
		}
		return checkRange(s.MinLen, s.MaxLen)
	case Timestamp:
		// zero ends are resolved later to the epoch and the wall clock
		for _, t := range []time.Time{s.Start, s.End} {
			if !t.IsZero() {
				if err := checkInstant(t); err != nil {
					return err
				}
			}
		}
		return nil
	case Boolean, Character:
		return nil
	default:
		return &UnsupportedTypeError{Tag: s.Type.String()}
	}
}
