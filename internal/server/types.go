package server

import (
	"pkg.jsn.cam/randen/internal/snapshot"
	"pkg.jsn.cam/randen/pkg/randen"
)

// TableRequest is the body of POST /api/tables.
type TableRequest struct {
	randen.Request

	Format string `json:"format,omitempty"` // json when empty
	Save   bool   `json:"save,omitempty"`
	Name   string `json:"name,omitempty"`
}

// SnapshotListResponse is returned by GET /api/snapshots.
type SnapshotListResponse struct {
	Snapshots []snapshot.Meta `json:"snapshots"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}
