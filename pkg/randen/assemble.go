package randen

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
)

// columnFunc fills the value slice of one column.
type columnFunc func(g *Generator, r *rand.Rand, nrows int, spec ColumnSpec) (Column, error)

// columnGenerators is the single dispatch table from type to generator.
var columnGenerators = map[ColumnType]columnFunc{
	Integer: func(_ *Generator, r *rand.Rand, n int, s ColumnSpec) (c Column, err error) {
		c.Ints, err = Integers(r, n, s.IntMin, s.IntMax)
		return c, err
	},
	Float: func(_ *Generator, r *rand.Rand, n int, s ColumnSpec) (c Column, err error) {
		c.Floats, err = Floats(r, n, s.FloatMin, s.FloatMax)
		return c, err
	},
	Boolean: func(_ *Generator, r *rand.Rand, n int, _ ColumnSpec) (c Column, err error) {
		c.Bools, err = Booleans(r, n)
		return c, err
	},
	Character: func(_ *Generator, r *rand.Rand, n int, s ColumnSpec) (c Column, err error) {
		c.Chars, err = Characters(r, n, s.Lowercase)
		return c, err
	},
	String: func(g *Generator, r *rand.Rand, n int, s ColumnSpec) (c Column, err error) {
		c.Strings, err = UniqueStrings(r, n, s.MinLen, s.MaxLen, g.maxStringAttempts)
		return c, err
	},
	Timestamp: func(_ *Generator, _ *rand.Rand, n int, s ColumnSpec) (c Column, err error) {
		c.Times, err = Timestamps(n, s.Start, s.End)
		return c, err
	},
}

// IntegerTable generates ncols integer columns drawn from [minval, maxval).
func (g *Generator) IntegerTable(nrows, ncols int, columns []string, minval, maxval int64) (*Table, error) {
	spec := DefaultSpec(Integer)
	spec.IntMin, spec.IntMax = minval, maxval
	return g.Homogeneous(nrows, ncols, columns, spec)
}

// FloatTable generates ncols float columns drawn from [minval, maxval).
func (g *Generator) FloatTable(nrows, ncols int, columns []string, minval, maxval float64) (*Table, error) {
	spec := DefaultSpec(Float)
	spec.FloatMin, spec.FloatMax = minval, maxval
	return g.Homogeneous(nrows, ncols, columns, spec)
}

// BooleanTable generates ncols boolean columns.
func (g *Generator) BooleanTable(nrows, ncols int, columns []string) (*Table, error) {
	return g.Homogeneous(nrows, ncols, columns, DefaultSpec(Boolean))
}

// CharacterTable generates ncols single-letter columns.
func (g *Generator) CharacterTable(nrows, ncols int, columns []string, lowercase bool) (*Table, error) {
	spec := DefaultSpec(Character)
	spec.Lowercase = lowercase
	return g.Homogeneous(nrows, ncols, columns, spec)
}

// StringTable generates ncols columns of unique strings with lengths in [minlen, maxlen).
func (g *Generator) StringTable(nrows, ncols int, columns []string, minlen, maxlen int) (*Table, error) {
	spec := DefaultSpec(String)
	spec.MinLen, spec.MaxLen = minlen, maxlen
	return g.Homogeneous(nrows, ncols, columns, spec)
}

// TimestampTable generates ncols columns of evenly spaced timestamps from
// start to end. Zero values select the Unix epoch and the current time.
func (g *Generator) TimestampTable(nrows, ncols int, columns []string, start, end time.Time) (*Table, error) {
	spec := DefaultSpec(Timestamp)
	spec.Start, spec.End = start, end
	return g.Homogeneous(nrows, ncols, columns, spec)
}

// Homogeneous generates ncols columns sharing spec. Unnamed columns are
// called "{Prefix}{i}", e.g. "Integer0".."Integer4".
func (g *Generator) Homogeneous(nrows, ncols int, columns []string, spec ColumnSpec) (*Table, error) {
	if ncols < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidColumnCount, ncols)
	}
	names, err := columnNames(columns, ncols, func(i int) string {
		return spec.Type.Prefix() + strconv.Itoa(i)
	})
	if err != nil {
		return nil, err
	}

	if kind, ok := kindNames[spec.Type]; ok {
		g.logger.Printf("[RANDEN] Generating %dx%d all %s table", nrows, ncols, kind)
	}

	specs := make([]ColumnSpec, ncols)
	for i := range specs {
		specs[i] = spec
	}
	return g.assemble(nrows, names, specs)
}

// Table generates one column per entry of ctypes using default parameters.
// Unnamed columns are called "{Tag}{i}" with i the position in ctypes,
// e.g. ["Str0", "Bytes1", "Int2"].
func (g *Generator) Table(nrows int, ctypes []ColumnType, columns []string) (*Table, error) {
	specs := make([]ColumnSpec, len(ctypes))
	for i, t := range ctypes {
		specs[i] = DefaultSpec(t)
	}
	return g.FromSpecs(nrows, specs, columns)
}

// FromSpecs generates one column per spec, named like Table.
func (g *Generator) FromSpecs(nrows int, specs []ColumnSpec, columns []string) (*Table, error) {
	names, err := columnNames(columns, len(specs), func(i int) string {
		return specs[i].Type.String() + strconv.Itoa(i)
	})
	if err != nil {
		return nil, err
	}

	g.logger.Printf("[RANDEN] Generating %dx%d mixed table", nrows, len(specs))
	return g.assemble(nrows, names, specs)
}

// columnNames returns the caller's names, or n synthesized ones when none were given.
func columnNames(columns []string, n int, name func(i int) string) ([]string, error) {
	if columns != nil {
		if len(columns) != n {
			return nil, fmt.Errorf("%w: %d names for %d columns", ErrColumnCountMismatch, len(columns), n)
		}
		return append([]string(nil), columns...), nil
	}

	names := make([]string, n)
	for i := range names {
		names[i] = name(i)
	}
	return names, nil
}

// assemble validates every spec, then generates and names the columns in order.
func (g *Generator) assemble(nrows int, names []string, specs []ColumnSpec) (*Table, error) {
	if err := checkRows(nrows); err != nil {
		return nil, err
	}

	now := g.now()
	resolved := make([]ColumnSpec, len(specs))
	for i, spec := range specs {
		if _, ok := columnGenerators[spec.Type]; !ok {
			g.logger.Printf("[RANDEN] Unsupported column type %s requested", spec.Type)
			return nil, &UnsupportedTypeError{Tag: spec.Type.String()}
		}
		if err := spec.validate(); err != nil {
			return nil, fmt.Errorf("column %q: %w", names[i], err)
		}
		if spec.Type == Timestamp {
			spec.Start, spec.End = timeRange(spec, now)
		}
		resolved[i] = spec
	}

	// One stream per column, drawn in order, so the result is the same
	// whether columns are generated serially or on the pool.
	r := g.newRand()
	streams := make([]*rand.Rand, len(resolved))
	for i := range streams {
		streams[i] = deriveRand(r)
	}

	columns := make([]Column, len(resolved))
	var err error
	if g.workers > 1 && len(resolved) > 1 {
		err = g.generateParallel(nrows, names, resolved, streams, columns)
	} else {
		for i := range resolved {
			if columns[i], err = g.generateColumn(nrows, names[i], resolved[i], streams[i]); err != nil {
				break
			}
		}
	}
	if err != nil {
		return nil, err
	}

	for i := range columns {
		columns[i].Name = names[i]
		columns[i].Type = resolved[i].Type
	}
	return NewTable(nrows, columns)
}

func (g *Generator) generateColumn(nrows int, name string, spec ColumnSpec, r *rand.Rand) (Column, error) {
	col, err := columnGenerators[spec.Type](g, r, nrows, spec)
	if err != nil {
		return Column{}, fmt.Errorf("column %q: %w", name, err)
	}
	if g.onColumn != nil {
		g.onColumn(name)
	}
	return col, nil
}

func (g *Generator) generateParallel(nrows int, names []string, specs []ColumnSpec, streams []*rand.Rand, out []Column) error {
	pool, err := ants.NewPool(min(g.workers, len(specs)))
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	errs := make([]error, len(specs))
	var wg sync.WaitGroup
	for i := range specs {
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			out[i], errs[i] = g.generateColumn(nrows, names[i], specs[i], streams[i])
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = fmt.Errorf("submit column %d: %w", i, submitErr)
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
