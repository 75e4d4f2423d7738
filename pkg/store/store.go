// Package store provides persistence for solve runs.
//
// This package defines an interface for run archives, with implementations
// for different backends:
//   - memory: In-memory storage for development/testing
//   - mongo: MongoDB-backed storage for server deployments
//
// A Run pairs the pipeline result metadata with the full run record (board
// plus solution), so archived runs can be re-rendered or re-traced later.
package store

import (
	"context"
	"errors"
	"time"

	lazorio "github.com/lazorkit/lazor/pkg/io"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("run not found")

// Run is one archived solve run.
type Run struct {
	// ID is the pipeline run ID.
	ID string `bson:"_id" json:"id"`

	// BoardHash content-addresses the board that was solved.
	BoardHash string `bson:"board_hash" json:"board_hash"`

	// Record holds the full board and solution.
	Record lazorio.Record `bson:"record" json:"record"`

	// Denormalized fields for listing without decoding the record.
	Solved     bool   `bson:"solved" json:"solved"`
	HitCount   int    `bson:"hit_count" json:"hit_count"`
	Convention string `bson:"convention" json:"convention"`
	Mode       string `bson:"mode" json:"mode"`
	ElapsedMS  int64  `bson:"elapsed_ms" json:"elapsed_ms"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Store is the interface for run archive backends.
type Store interface {
	// Insert archives a run. The run's CreatedAt is set if zero.
	Insert(ctx context.Context, run *Run) error

	// Get retrieves a run by ID.
	// Returns nil, nil if the run doesn't exist.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns the most recent runs, newest first, up to limit.
	List(ctx context.Context, limit int) ([]*Run, error)

	// Delete removes a run. Returns ErrNotFound for missing IDs.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// DefaultListLimit bounds List when callers pass limit <= 0.
const DefaultListLimit = 50
