package planner

import (
	"sort"

	"github.com/kestrelmarkets/stmdb/model"
)

// FileResult is one file's contribution to a page: the candlesticks its
// read task returned, tagged with the Corpus entry that produced them so
// the synchronizer doesn't need to re-parse the filename stem for
// (exchange, symbol) identity.
type FileResult struct {
	File         model.Corpus
	Candlesticks []model.Candlestick
}

// Synchronize merges a page's per-file results into one time-ordered
// BarSet. For each candlestick, it finds or creates the Bar at that
// timestamp and inserts under key (exchange, symbol, BaseIntervalLabel),
// first-wins on a duplicate key within the same Bar.
func Synchronize(results []FileResult, isLast bool) model.BarSet {
	barsByTS := make(map[int64]*model.Bar)
	order := make([]int64, 0, len(results))

	for _, fr := range results {
		for _, c := range fr.Candlesticks {
			b, ok := barsByTS[c.Timestamp]
			if !ok {
				nb := model.NewBar(c.Timestamp)
				b = &nb
				barsByTS[c.Timestamp] = b
				order = append(order, c.Timestamp)
			}

			key := model.SeriesKey{Exchange: fr.File.Exchange, Symbol: fr.File.Symbol, Interval: BaseIntervalLabel}
			b.Add(key, c)
		}
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	bars := make([]model.Bar, len(order))
	for i, ts := range order {
		bars[i] = *barsByTS[ts]
	}

	return model.BarSet{IsLast: isLast, Bars: bars}
}

// seriesID identifies a series across a consolidation window, independent
// of the interval label (which changes once consolidated).
type seriesID struct {
	Exchange string
	Symbol   string
}

// Consolidate groups bs's bars by floor(timestamp/intervalSeconds) and
// reduces each group to {open=first, high=max, low=min, close=last,
// volume=sum}, relabeling the resulting series key's Interval to
// intervalLabel. It is a pure transform over an already time-ordered
// BarSet and a no-op when every input bar already falls in its own bucket
// (consolidation at base-interval granularity).
func Consolidate(bs model.BarSet, intervalSeconds int64, intervalLabel string) model.BarSet {
	if intervalSeconds <= 0 {
		return bs
	}

	type group struct {
		bucket int64
		series map[seriesID][]model.Candlestick
	}

	groupsByBucket := make(map[int64]*group)
	bucketOrder := make([]int64, 0)

	for _, bar := range bs.Bars {
		bucket := floorDiv(bar.Timestamp, intervalSeconds) * intervalSeconds

		g, ok := groupsByBucket[bucket]
		if !ok {
			g = &group{bucket: bucket, series: make(map[seriesID][]model.Candlestick)}
			groupsByBucket[bucket] = g
			bucketOrder = append(bucketOrder, bucket)
		}

		for key, c := range bar.Candlesticks {
			sid := seriesID{Exchange: key.Exchange, Symbol: key.Symbol}
			g.series[sid] = append(g.series[sid], c)
		}
	}

	sort.Slice(bucketOrder, func(i, j int) bool { return bucketOrder[i] < bucketOrder[j] })

	out := make([]model.Bar, 0, len(bucketOrder))
	for _, bucket := range bucketOrder {
		g := groupsByBucket[bucket]
		consolidated := model.NewBar(bucket)

		for sid, candles := range g.series {
			reduced := reduce(bucket, candles)
			key := model.SeriesKey{Exchange: sid.Exchange, Symbol: sid.Symbol, Interval: intervalLabel}
			consolidated.Add(key, reduced)
		}

		out = append(out, consolidated)
	}

	return model.BarSet{IsLast: bs.IsLast, Bars: out}
}

// reduce folds candles (already in ascending timestamp order, since the
// BarSet they came from is) into one OHLCV aggregate at timestamp ts.
func reduce(ts int64, candles []model.Candlestick) model.Candlestick {
	agg := model.Candlestick{
		Timestamp: ts,
		Open:      candles[0].Open,
		High:      candles[0].High,
		Low:       candles[0].Low,
		Close:     candles[len(candles)-1].Close,
	}

	for _, c := range candles {
		if c.High > agg.High {
			agg.High = c.High
		}
		if c.Low < agg.Low {
			agg.Low = c.Low
		}
		agg.Volume += c.Volume
	}

	return agg
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
