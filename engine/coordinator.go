package engine

import (
	"path/filepath"

	"github.com/kestrelmarkets/stmdb/fsreader"
	"github.com/kestrelmarkets/stmdb/model"
	"github.com/kestrelmarkets/stmdb/planner"
	"github.com/kestrelmarkets/stmdb/stmdblog"
)

// runCoordinator drives one session's query to completion on the
// coordinator pool: it dispatches every (page, file) read task up front
// onto the read-task pool, then walks pages in order, synchronizing each
// page's results and pushing it onto the session's result channel.
//
// Coordinators run on a pool separate from the read-task pool (§9, dedicated
// coordinator pool): a coordinator blocking on a page's reads can never
// starve the workers those reads depend on.
func (e *Engine) runCoordinator(sess *session, plan planner.Plan) {
	defer close(sess.resultCh)
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("engine: coordinator panicked", stmdblog.String("session_id", sess.id))
			sess.setStatus(StatusFailed)
		}
	}()

	perPage := make(map[int][]chan planner.FileResult, plan.PageCount)
	for _, task := range plan.Tasks {
		ch := make(chan planner.FileResult, 1)
		perPage[task.Page] = append(perPage[task.Page], ch)

		t := task
		e.readPool.Execute(func() { e.runReadTask(t, ch) })
	}

	intervalSeconds, intervalLabel, consolidate := e.consolidationTarget(sess.query, plan.IntervalSeconds)

	for page := 0; page < plan.PageCount; page++ {
		if sess.stopRequested.Load() {
			sess.setStatus(StatusStopped)
			sess.resultCh <- model.BarSet{IsLast: true}
			return
		}

		results := make([]planner.FileResult, 0, len(perPage[page]))
		for _, ch := range perPage[page] {
			if fr, ok := <-ch; ok {
				results = append(results, fr)
			}
		}

		isLastPage := page == plan.PageCount-1
		bs := planner.Synchronize(results, isLastPage)
		if consolidate {
			bs = planner.Consolidate(bs, intervalSeconds, intervalLabel)
		}

		sess.resultCh <- bs

		if isLastPage {
			sess.setStatus(StatusComplete)
		}
	}
}

// consolidationTarget decides whether the coordinator should post-process
// each page through planner.Consolidate. Only the first requested interval
// that differs from the corpus's base cadence is honored; a query naming
// several distinct target intervals gets the first one (see DESIGN.md).
func (e *Engine) consolidationTarget(q model.Query, baseIntervalSeconds int64) (seconds int64, label string, ok bool) {
	for _, label := range q.Intervals {
		secs, err := planner.IntervalSeconds(label)
		if err != nil {
			continue
		}
		if secs != baseIntervalSeconds {
			return secs, label, true
		}
	}
	return 0, "", false
}

// runReadTask executes one (page, file) read and sends its result on ch.
// Every failure is absorbed here: a missing or corrupt file contributes no
// data for that task rather than failing the session, per §4.6's failure
// semantics.
func (e *Engine) runReadTask(task planner.ReadTask, ch chan<- planner.FileResult) {
	path := filepath.Join(e.dataDir, task.File.Filename)

	r, err := fsreader.Open(path, e.engine)
	if err != nil {
		e.log.Warn("engine: read task could not open file",
			stmdblog.String("file", task.File.Filename), stmdblog.Error(err))
		e.send(ch, planner.FileResult{File: task.File})
		return
	}
	defer r.Close()

	if _, err := r.ReadHeader(); err != nil {
		e.log.Warn("engine: read task could not read header",
			stmdblog.String("file", task.File.Filename), stmdblog.Error(err))
		e.send(ch, planner.FileResult{File: task.File})
		return
	}

	r.SeekToRecord(task.Offset)

	candles, err := r.ReadChunk(int(task.Limit))
	if err != nil {
		e.log.Warn("engine: read task chunk read failed",
			stmdblog.String("file", task.File.Filename), stmdblog.Error(err))
	}

	e.send(ch, planner.FileResult{File: task.File, Candlesticks: candles})
}

// send is a non-blocking send onto a one-shot, buffered-1 channel. A result
// that cannot be delivered is dropped and logged at warn.
func (e *Engine) send(ch chan<- planner.FileResult, fr planner.FileResult) {
	select {
	case ch <- fr:
	default:
		e.log.Warn("engine: read task result dropped", stmdblog.String("file", fr.File.Filename))
	}
}
