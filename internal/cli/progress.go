package cli

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// solveProgress logs solver status updates: the first placement found,
// improvements, and periodic heartbeats (every 10 seconds) while the search
// keeps running. The parallel explorer reports from several goroutines, so
// updates are serialized with a mutex.
type solveProgress struct {
	mu       sync.Mutex
	logger   *log.Logger
	lastBest int
	start    time.Time
	lastLog  time.Time
}

// newSolveProgress creates a progress logger for a search starting now.
func newSolveProgress(logger *log.Logger) *solveProgress {
	return &solveProgress{
		logger:   logger,
		lastBest: -1,
		start:    time.Now(),
	}
}

// onProgress implements solve.ProgressFunc.
//
// Parameters:
//   - explored: number of placements evaluated
//   - pruned: number of branches eliminated via bounds
//   - bestHits: current best target hit count (higher is better)
func (p *solveProgress) onProgress(explored, pruned, bestHits int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if explored == 0 && pruned == 0 {
		return
	}

	switch {
	case p.lastBest < 0:
		p.logger.Debugf("Initial: %d targets hit (explored: %d, pruned: %d)", bestHits, explored, pruned)
		p.lastLog = time.Now()
	case bestHits > p.lastBest:
		p.logger.Debugf("Improved: %d targets hit (+%d)", bestHits, bestHits-p.lastBest)
		p.lastLog = time.Now()
	default:
		if time.Since(p.lastLog) >= 10*time.Second {
			elapsed := time.Since(p.start).Truncate(time.Second)
			p.logger.Infof("Searching... %v elapsed, best %d targets (explored: %d, pruned: %d)",
				elapsed, bestHits, explored, pruned)
			p.lastLog = time.Now()
		}
	}
	if bestHits > p.lastBest {
		p.lastBest = bestHits
	}
}
