// Package planner translates a Query into a plan of per-(page, file) read
// tasks and synchronizes their results into time-aligned BarSets. See §4.6.
package planner

import "github.com/kestrelmarkets/stmdb/model"

// BaseIntervalLabel is the series-key interval every base-granularity
// candlestick is stored and synchronized under, before any consolidation.
const BaseIntervalLabel = "1m"

// ReadTask is one unit of work dispatched to the worker pool: read up to
// Limit records starting at Offset from File.
type ReadTask struct {
	Page   int
	File   model.Corpus
	Offset int64
	Limit  int32
}

// Plan is the output of planning one Query: how many pages the time range
// splits into, and the read tasks needed to fill them.
type Plan struct {
	PageCount       int
	PageSize        int32
	IntervalSeconds int64
	Files           []model.Corpus
	Tasks           []ReadTask
}

// TasksForPage returns the subset of p.Tasks belonging to page.
func (p Plan) TasksForPage(page int) []ReadTask {
	out := make([]ReadTask, 0, len(p.Files))
	for _, t := range p.Tasks {
		if t.Page == page {
			out = append(out, t)
		}
	}
	return out
}

// BuildPlan resolves files via the index (files is index.FilesFor(q)'s
// result) and computes the page layout: total_bars = (end-start)/interval_seconds,
// page_count = ceil(total_bars/page_size). If files is empty, the plan still
// has exactly one page so the session opens and immediately yields an
// is_last=true empty page, per spec.
//
// All resolved files are assumed to share one base interval; when they
// don't (a corpus mixing base cadences), the first file's interval governs
// page math for the whole plan.
func BuildPlan(q model.Query, files []model.Corpus) Plan {
	intervalSeconds := int64(model.DefaultBaseIntervalSeconds)
	if len(files) > 0 {
		intervalSeconds = files[0].IntervalSeconds()
	}

	pageSize := q.Limit
	totalBars := int64(0)
	if q.End > q.Start {
		totalBars = (q.End - q.Start) / intervalSeconds
	}

	pageCount := 1
	if totalBars > 0 && pageSize > 0 && len(files) > 0 {
		pageCount = int((totalBars + int64(pageSize) - 1) / int64(pageSize))
		if pageCount == 0 {
			pageCount = 1
		}
	}

	tasks := make([]ReadTask, 0, pageCount*len(files))
	for page := 0; page < pageCount; page++ {
		for _, f := range files {
			tasks = append(tasks, ReadTask{
				Page:   page,
				File:   f,
				Offset: int64(page) * int64(pageSize),
				Limit:  pageSize,
			})
		}
	}

	return Plan{
		PageCount:       pageCount,
		PageSize:        pageSize,
		IntervalSeconds: intervalSeconds,
		Files:           files,
		Tasks:           tasks,
	}
}
