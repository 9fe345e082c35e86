// Package engine is the storage core's public surface: StartQuery,
// QueryChunk, StopQuery, Insert, GetIndex, implemented over indexstore,
// planner, resultcache, fsreader, and two workerpool.Pool instances. See
// §4.7.
package engine

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
	"github.com/kestrelmarkets/stmdb/endian"
	"github.com/kestrelmarkets/stmdb/errs"
	"github.com/kestrelmarkets/stmdb/indexstore"
	"github.com/kestrelmarkets/stmdb/model"
	"github.com/kestrelmarkets/stmdb/planner"
	"github.com/kestrelmarkets/stmdb/resultcache"
	"github.com/kestrelmarkets/stmdb/stmdblog"
	"github.com/kestrelmarkets/stmdb/workerpool"
)

// Config configures a new Engine.
type Config struct {
	// DataDir holds every .stmdb file and index.json.
	DataDir string
	// ReadWorkers sizes the pool that executes per-(page, file) reads.
	ReadWorkers int
	// CoordinatorWorkers sizes the pool dedicated to session coordinators,
	// kept separate from ReadWorkers so a burst of sessions can never starve
	// the reads those same sessions depend on.
	CoordinatorWorkers int
	Log                stmdblog.Logger
}

// DefaultReadWorkers and DefaultCoordinatorWorkers match spec.md's
// recommended worker-pool default of 4.
const (
	DefaultReadWorkers        = 4
	DefaultCoordinatorWorkers = 4
)

// Engine owns the index, both worker pools, and the result cache; a session
// owns its own coordinator handle and its page queue inside the cache.
type Engine struct {
	dataDir string
	engine  endian.EndianEngine
	log     stmdblog.Logger

	idx       *indexstore.Index
	readPool  *workerpool.Pool
	coordPool *workerpool.Pool
	cache     *resultcache.Cache

	sessMu   sync.RWMutex
	sessions map[string]*session
}

// Open loads (or initializes) the index at cfg.DataDir/index.json and
// starts both worker pools.
func Open(cfg Config) (*Engine, error) {
	if cfg.ReadWorkers <= 0 {
		cfg.ReadWorkers = DefaultReadWorkers
	}
	if cfg.CoordinatorWorkers <= 0 {
		cfg.CoordinatorWorkers = DefaultCoordinatorWorkers
	}
	if cfg.Log == nil {
		cfg.Log = stmdblog.Nop()
	}

	idx, err := indexstore.Open(indexPath(cfg.DataDir))
	if err != nil {
		return nil, err
	}

	return &Engine{
		dataDir:   cfg.DataDir,
		engine:    endian.GetBigEndianEngine(),
		log:       cfg.Log,
		idx:       idx,
		readPool:  workerpool.New(cfg.ReadWorkers, cfg.Log),
		coordPool: workerpool.New(cfg.CoordinatorWorkers, cfg.Log),
		cache:     resultcache.New(),
		sessions:  make(map[string]*session),
	}, nil
}

func indexPath(dataDir string) string {
	return dataDir + "/index.json"
}

// Shutdown stops both worker pools. In-flight sessions are abandoned.
func (e *Engine) Shutdown() {
	e.readPool.Shutdown()
	e.coordPool.Shutdown()
}

// SessionHandle is returned by StartQuery.
type SessionHandle struct {
	SessionID string
	Status    Status
}

// StartQuery resolves q's files via the index, allocates a session id and
// result-cache slot, and hands a coordinator task to the dedicated
// coordinator pool. It never blocks on data.
func (e *Engine) StartQuery(clientID uint64, q model.Query) SessionHandle {
	id := newSessionID(clientID)

	files := e.idx.FilesFor(q)
	plan := planner.BuildPlan(q, files)

	sess := newSession(id, q, plan.PageCount)

	e.sessMu.Lock()
	e.sessions[id] = sess
	e.sessMu.Unlock()

	e.coordPool.Execute(func() { e.runCoordinator(sess, plan) })

	return SessionHandle{SessionID: id, Status: StatusRunning}
}

// newSessionID generates a "{client_id}_{uuid}" session id.
func newSessionID(clientID uint64) string {
	return strconv.FormatUint(clientID, 10) + "_" + uuid.NewString()
}

// Page is returned by QueryChunk.
type Page struct {
	SessionID string
	Status    Status
	Bars      []model.Bar
}

// QueryChunk drains up to limit bars (default 1000, capped to
// 10,000) from session's cache. If the cache is empty, it performs one
// short, non-blocking probe of the session's result channel; a page that
// arrives is staged into the cache and the drain is retried once.
//
// Page.Status is always "running" or "complete" (§6); a session stopped
// mid-flight still reports "complete" on the response that drains it, per
// §8 scenario S5. The session's cache slot is reclaimed the first time a
// terminal status is observed here; querying the same session again after
// that returns ErrSessionAlreadyTerminal.
func (e *Engine) QueryChunk(sessionID string, limit int32) (Page, error) {
	sess := e.lookupSession(sessionID)
	if sess == nil {
		return Page{}, errs.ErrSessionNotFound
	}

	if sess.terminalServed.Load() {
		e.reclaim(sessionID)
		return Page{}, errs.ErrSessionAlreadyTerminal
	}

	if sess.getStatus() == StatusFailed {
		sess.terminalServed.Store(true)
		e.cache.Drop(sessionID)
		return Page{}, errs.ErrSessionFailed
	}

	limit = clampLimit(limit)

	bars, isLast := e.cache.Take(sessionID, int(limit))
	if len(bars) == 0 {
		select {
		case page, ok := <-sess.resultCh:
			if ok {
				e.cache.Put(sessionID, page)
				bars, isLast = e.cache.Take(sessionID, int(limit))
			}
		default:
		}
	}

	status := StatusRunning
	if len(bars) > 0 && isLast && e.cache.Empty(sessionID) {
		status = StatusComplete
	} else if len(bars) == 0 && sess.getStatus().terminal() {
		status = sess.getStatus()
	}

	if status.terminal() {
		sess.terminalServed.Store(true)
		e.cache.Drop(sessionID)
		status = wireStatus(status)
	}

	return Page{SessionID: sessionID, Status: status, Bars: bars}, nil
}

// wireStatus maps the internal-only StatusStopped onto the spec's
// "complete" wire value; every other status passes through unchanged.
func wireStatus(status Status) Status {
	if status == StatusStopped {
		return StatusComplete
	}
	return status
}

func clampLimit(limit int32) int32 {
	if limit <= 0 {
		return model.DefaultQueryLimit
	}
	if limit > model.MaxQueryLimit {
		return model.MaxQueryLimit
	}
	return limit
}

// StopQuery sets the session's stop flag, checked by its coordinator at
// page boundaries. Returns false for an unknown session id or one that has
// already reached a terminal status.
func (e *Engine) StopQuery(sessionID string) bool {
	sess := e.lookupSession(sessionID)
	if sess == nil {
		return false
	}
	if sess.getStatus().terminal() {
		return false
	}

	sess.stopRequested.Store(true)
	return true
}

func (e *Engine) lookupSession(sessionID string) *session {
	e.sessMu.RLock()
	defer e.sessMu.RUnlock()
	return e.sessions[sessionID]
}

// reclaim drops a terminal session's session-table entry. Its cache slot
// was already dropped by QueryChunk the first time it observed the
// terminal status; this runs on the query_chunk call after that one.
func (e *Engine) reclaim(sessionID string) {
	e.sessMu.Lock()
	delete(e.sessions, sessionID)
	e.sessMu.Unlock()
}

// GetIndex returns a snapshot of every Corpus entry currently known.
func (e *Engine) GetIndex() []model.Corpus {
	return e.idx.Snapshot()
}

