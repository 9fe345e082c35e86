package model

import "github.com/kestrelmarkets/stmdb/errs"

const (
	MaxQuerySymbols   = 5
	MaxQueryIntervals = 5
	DefaultQueryLimit = 1000
	MinQueryLimit     = 1
	MaxQueryLimit     = 10000
)

// SymbolRef names one (exchange, symbol) pair requested by a Query.
type SymbolRef struct {
	Exchange string
	Symbol   string
}

// Key returns the index key "{exchange}_{symbol}" for this reference.
func (s SymbolRef) Key() string {
	return s.Exchange + "_" + s.Symbol
}

// Query describes a caller's request for time-aligned bars.
type Query struct {
	ClientID  uint64
	Symbols   []SymbolRef
	Intervals []string
	Start     int64
	End       int64
	Limit     int32
}

// NewQuery validates and normalizes a Query, applying the default limit and
// enforcing the construction bounds from the data model: at most 5 symbols,
// at most 5 intervals, limit in [1, 10000] (default 1000), start <= end.
func NewQuery(clientID uint64, symbols []SymbolRef, intervals []string, start, end int64, limit int32) (Query, error) {
	if limit == 0 {
		limit = DefaultQueryLimit
	}

	q := Query{
		ClientID:  clientID,
		Symbols:   symbols,
		Intervals: intervals,
		Start:     start,
		End:       end,
		Limit:     limit,
	}

	return q, q.Validate()
}

// Validate checks the construction bounds without mutating the Query.
func (q Query) Validate() error {
	if len(q.Symbols) > MaxQuerySymbols {
		return errs.ErrInvalidQuery
	}
	if len(q.Intervals) > MaxQueryIntervals {
		return errs.ErrInvalidQuery
	}
	if q.Limit < MinQueryLimit || q.Limit > MaxQueryLimit {
		return errs.ErrInvalidQuery
	}
	if q.Start > q.End {
		return errs.ErrInvalidQuery
	}

	return nil
}
