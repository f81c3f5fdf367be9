// Package snapshot persists generated tables so they can be served or
// exported again later.
package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"slices"
	"time"

	"github.com/google/uuid"

	"pkg.jsn.cam/randen/pkg/export"
	"pkg.jsn.cam/randen/pkg/randen"
)

var (
	ErrNotFound            = errors.New("snapshot not found")
	ErrIncompatibleVersion = errors.New("incompatible snapshot format version")
)

// Meta describes a stored snapshot.
type Meta struct {
	ID            string    `json:"id"`
	Name          string    `json:"name,omitempty"`
	Rows          int       `json:"rows"`
	Cols          int       `json:"cols"`
	Columns       []string  `json:"columns"`
	Types         []string  `json:"types"`
	Size          int       `json:"size"` // payload bytes
	CreatedAt     time.Time `json:"created_at"`
	FormatVersion string    `json:"format_version"`
}

// Store keeps snapshot metadata and Arrow IPC payloads.
type Store interface {
	Put(meta Meta, data []byte) error
	Meta(id string) (Meta, error)
	Data(id string) ([]byte, error)
	List() ([]Meta, error)
	Delete(id string) error
	Close() error
}

// Encode builds the metadata and IPC payload of a new snapshot of tbl.
func Encode(name string, tbl *randen.Table) (Meta, []byte, error) {
	var buf bytes.Buffer
	if err := export.Write(&buf, tbl, export.FormatIPC); err != nil {
		return Meta{}, nil, fmt.Errorf("encode snapshot: %w", err)
	}

	types := make([]string, tbl.NumCols())
	for i, t := range tbl.ColumnTypes() {
		types[i] = t.String()
	}

	meta := Meta{
		ID:            uuid.New().String(),
		Name:          name,
		Rows:          tbl.NumRows(),
		Cols:          tbl.NumCols(),
		Columns:       tbl.ColumnNames(),
		Types:         types,
		Size:          buf.Len(),
		CreatedAt:     time.Now().UTC(),
		FormatVersion: FormatVersion,
	}
	return meta, buf.Bytes(), nil
}

// Save stores tbl under a fresh ID.
func Save(s Store, name string, tbl *randen.Table) (Meta, error) {
	meta, data, err := Encode(name, tbl)
	if err != nil {
		return Meta{}, err
	}
	if err := s.Put(meta, data); err != nil {
		return Meta{}, fmt.Errorf("store snapshot: %w", err)
	}

	log.Printf("[SNAPSHOT] Saved %s (%dx%d, %d bytes)", meta.ID, meta.Rows, meta.Cols, meta.Size)
	return meta, nil
}

// Load reads a snapshot back into a table.
func Load(s Store, id string) (Meta, *randen.Table, error) {
	meta, err := s.Meta(id)
	if err != nil {
		return Meta{}, nil, err
	}

	ok, err := IsCompatibleVersion(meta.FormatVersion, FormatVersion)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("%w: %v", ErrIncompatibleVersion, err)
	}
	if !ok {
		return Meta{}, nil, fmt.Errorf("%w: %s", ErrIncompatibleVersion, GetCompatibilityError(meta.FormatVersion, FormatVersion))
	}

	data, err := s.Data(id)
	if err != nil {
		return Meta{}, nil, err
	}
	tbl, err := export.ReadIPC(bytes.NewReader(data))
	if err != nil {
		return Meta{}, nil, fmt.Errorf("decode snapshot %s: %w", id, err)
	}
	return meta, tbl, nil
}

// sortMetas orders snapshots oldest first.
func sortMetas(metas []Meta) {
	slices.SortFunc(metas, func(a, b Meta) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}
