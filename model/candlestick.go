// Package model holds the data types shared across the storage engine:
// Candlestick, Bar, BarSet, Corpus, Query, and their keys.
package model

// Candlestick is a single OHLCV observation at a timestamp. Timestamp is
// the canonical key for alignment; prices and volumes are IEEE-754 64-bit.
type Candlestick struct {
	Timestamp int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}
