package engine

import (
	"sync"
	"sync/atomic"

	"github.com/kestrelmarkets/stmdb/model"
)

// Status is a session's lifecycle state: running until its last page is
// consumed, explicitly stopped, or its coordinator fails.
type Status string

const (
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	// StatusStopped is the internal bookkeeping value a coordinator sets
	// after honoring stop_query. §6 restricts Page.status to
	// "running"/"complete", so QueryChunk maps this to StatusComplete
	// before it ever reaches a caller; StatusStopped never appears on
	// the wire.
	StatusStopped Status = "stopped"
	StatusFailed  Status = "failed"
)

func (s Status) terminal() bool {
	return s == StatusComplete || s == StatusStopped || s == StatusFailed
}

// session is server-side state for one in-flight query. It is mutated only
// by its coordinator goroutine (produces pages) and by QueryChunk/StopQuery
// (consume / signal).
type session struct {
	id    string
	query model.Query

	mu     sync.Mutex
	status Status

	stopRequested  atomic.Bool
	terminalServed atomic.Bool
	resultCh       chan model.BarSet
}

func newSession(id string, q model.Query, pageCount int) *session {
	return &session{
		id:       id,
		query:    q,
		status:   StatusRunning,
		resultCh: make(chan model.BarSet, pageCount),
	}
}

func (s *session) getStatus() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *session) setStatus(status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status.terminal() {
		return
	}
	s.status = status
}
