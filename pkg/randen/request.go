package randen

import (
	"fmt"
	"time"
)

// Request is the transport-neutral form of a generation request, shared by
// the CLI and the HTTP API. Exactly one of Kind or Types must be set.
type Request struct {
	Rows int `json:"rows"`

	// Homogeneous: Cols columns of type Kind.
	Kind string `json:"kind,omitempty"`
	Cols int    `json:"cols,omitempty"`

	// Heterogeneous: one column per entry.
	Types []string `json:"types,omitempty"`

	Names  []string `json:"names,omitempty"`
	Params Params   `json:"params"`
}

// Params overrides the defaults of every column of the matching type.
type Params struct {
	IntMin    *int64     `json:"int_min,omitempty"`
	IntMax    *int64     `json:"int_max,omitempty"`
	FloatMin  *float64   `json:"float_min,omitempty"`
	FloatMax  *float64   `json:"float_max,omitempty"`
	MinLen    *int       `json:"min_len,omitempty"`
	MaxLen    *int       `json:"max_len,omitempty"`
	Lowercase *bool      `json:"lowercase,omitempty"`
	Start     *time.Time `json:"start,omitempty"`
	End       *time.Time `json:"end,omitempty"`
}

// Spec returns the default spec for t with p applied.
func (p Params) Spec(t ColumnType) ColumnSpec {
	spec := DefaultSpec(t)
	if p.IntMin != nil {
		spec.IntMin = *p.IntMin
	}
	if p.IntMax != nil {
		spec.IntMax = *p.IntMax
	}
	if p.FloatMin != nil {
		spec.FloatMin = *p.FloatMin
	}
	if p.FloatMax != nil {
		spec.FloatMax = *p.FloatMax
	}
	if p.MinLen != nil {
		spec.MinLen = *p.MinLen
	}
	if p.MaxLen != nil {
		spec.MaxLen = *p.MaxLen
	}
	if p.Lowercase != nil {
		spec.Lowercase = *p.Lowercase
	}
	if p.Start != nil {
		spec.Start = *p.Start
	}
	if p.End != nil {
		spec.End = *p.End
	}
	return spec
}

// Generate runs req.
func (g *Generator) Generate(req Request) (*Table, error) {
	switch {
	case req.Kind != "" && len(req.Types) > 0:
		return nil, fmt.Errorf("%w: kind and types are mutually exclusive", ErrInvalidRequest)
	case req.Kind != "":
		t, err := ParseColumnType(req.Kind)
		if err != nil {
			return nil, err
		}
		return g.Homogeneous(req.Rows, req.Cols, req.Names, req.Params.Spec(t))
	case len(req.Types) > 0:
		types, err := ParseColumnTypes(req.Types)
		if err != nil {
			g.logger.Printf("[RANDEN] Unsupported column type requested: %v", err)
			return nil, err
		}
		specs := make([]ColumnSpec, len(types))
		for i, t := range types {
			specs[i] = req.Params.Spec(t)
		}
		return g.FromSpecs(req.Rows, specs, req.Names)
	default:
		return nil, fmt.Errorf("%w: one of kind or types is required", ErrInvalidRequest)
	}
}
