package model

import (
	"testing"

	"github.com/kestrelmarkets/stmdb/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBar_Add_NoOpOnDuplicateKey(t *testing.T) {
	bar := NewBar(100)
	key := SeriesKey{Exchange: "kucoin", Symbol: "BTCUSDT", Interval: "1m"}

	first := Candlestick{Timestamp: 100, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10}
	second := Candlestick{Timestamp: 100, Open: 99, High: 99, Low: 99, Close: 99, Volume: 99}

	bar.Add(key, first)
	bar.Add(key, second)

	assert.Equal(t, first, bar.Candlesticks[key], "second insert under the same key must be a no-op")
	assert.True(t, bar.Has(key))
}

func TestBar_Add_DistinctKeys(t *testing.T) {
	bar := NewBar(100)
	k1 := SeriesKey{Exchange: "kucoin", Symbol: "BTCUSDT", Interval: "1m"}
	k2 := SeriesKey{Exchange: "kucoin", Symbol: "ADAUSDT", Interval: "1m"}

	bar.Add(k1, Candlestick{Timestamp: 100})
	bar.Add(k2, Candlestick{Timestamp: 100})

	assert.Len(t, bar.Candlesticks, 2)
}

func TestNewQuery_Defaults(t *testing.T) {
	q, err := NewQuery(1, []SymbolRef{{Exchange: "kucoin", Symbol: "BTCUSDT"}}, nil, 0, 100, 0)
	require.NoError(t, err)
	assert.Equal(t, int32(DefaultQueryLimit), q.Limit)
}

func TestNewQuery_BoundsValidation(t *testing.T) {
	tooManySymbols := make([]SymbolRef, MaxQuerySymbols+1)
	_, err := NewQuery(1, tooManySymbols, nil, 0, 100, 1000)
	assert.ErrorIs(t, err, errs.ErrInvalidQuery)

	tooManyIntervals := make([]string, MaxQueryIntervals+1)
	_, err = NewQuery(1, nil, tooManyIntervals, 0, 100, 1000)
	assert.ErrorIs(t, err, errs.ErrInvalidQuery)

	_, err = NewQuery(1, nil, nil, 0, 100, 0)
	require.NoError(t, err)

	_, err = NewQuery(1, nil, nil, 0, 100, MaxQueryLimit+1)
	assert.ErrorIs(t, err, errs.ErrInvalidQuery)

	_, err = NewQuery(1, nil, nil, 100, 0, 1000)
	assert.ErrorIs(t, err, errs.ErrInvalidQuery)
}

func TestNewQuery_BoundaryLimitsAccepted(t *testing.T) {
	_, err := NewQuery(1, nil, nil, 0, 100, MinQueryLimit)
	require.NoError(t, err)

	_, err = NewQuery(1, nil, nil, 0, 100, MaxQueryLimit)
	require.NoError(t, err)
}

func TestCorpus_IntervalSeconds_DefaultsTo60(t *testing.T) {
	c := Corpus{}
	assert.Equal(t, int64(DefaultBaseIntervalSeconds), c.IntervalSeconds())

	c.BaseIntervalSeconds = 15
	assert.Equal(t, int64(15), c.IntervalSeconds())
}

func TestCorpus_Key(t *testing.T) {
	c := Corpus{Exchange: "kucoin", Symbol: "BTCUSDT"}
	assert.Equal(t, "kucoin_BTCUSDT", c.Key())
}

func TestSymbolRef_Key(t *testing.T) {
	s := SymbolRef{Exchange: "kucoin", Symbol: "BTCUSDT"}
	assert.Equal(t, "kucoin_BTCUSDT", s.Key())
}
