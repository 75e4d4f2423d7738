// Package cache provides content-addressed caching for solver results.
//
// Boards hash to stable keys, so solving the same board with the same
// options can reuse an earlier result instead of re-running the search.
// Backends cover the common deployments:
//   - file: directory-based storage for CLI usage
//   - redis: shared storage for multi-instance server deployments
//   - null: caching disabled
package cache

import (
	"context"
	"time"
)

// TTLs per cached artifact kind. Solutions are pure functions of the board
// and options, so they could live forever; the TTLs bound disk growth.
const (
	// TTLSolution applies to solver results.
	TTLSolution = 7 * 24 * time.Hour

	// TTLTrace applies to trajectory traces of a fixed placement.
	TTLTrace = 24 * time.Hour

	// TTLArtifact applies to rendered outputs (reports, DOT, SVG).
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SolutionKeyOpts are the solve parameters that distinguish cached results
// for the same board.
type SolutionKeyOpts struct {
	Convention string  `json:"convention"`
	TimeLimit  int64   `json:"time_limit_ms"`
	Seeds      []int64 `json:"seeds"`
	Parallel   bool    `json:"parallel"`
}

// TraceKeyOpts distinguish cached trajectory traces.
type TraceKeyOpts struct {
	Convention    string `json:"convention"`
	PlacementHash string `json:"placement_hash"`
}

// ArtifactKeyOpts distinguish cached rendered outputs.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// Keyer derives cache keys from content hashes and options.
type Keyer interface {
	// SolutionKey keys a solver result by board hash and solve options.
	SolutionKey(boardHash string, opts SolutionKeyOpts) string

	// TraceKey keys a trajectory trace by board hash and trace options.
	TraceKey(boardHash string, opts TraceKeyOpts) string

	// ArtifactKey keys a rendered output by solution hash and format.
	ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes options into the key so any parameter change misses.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SolutionKey generates a key for a solver result.
func (k *DefaultKeyer) SolutionKey(boardHash string, opts SolutionKeyOpts) string {
	return hashKey("solution", boardHash, opts)
}

// TraceKey generates a key for a trajectory trace.
func (k *DefaultKeyer) TraceKey(boardHash string, opts TraceKeyOpts) string {
	return hashKey("trace", boardHash, opts)
}

// ArtifactKey generates a key for a rendered output.
func (k *DefaultKeyer) ArtifactKey(solutionHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", solutionHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
