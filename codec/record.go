package codec

import (
	"math"

	"github.com/kestrelmarkets/stmdb/endian"
	"github.com/kestrelmarkets/stmdb/errs"
	"github.com/kestrelmarkets/stmdb/format"
	"github.com/kestrelmarkets/stmdb/model"
)

// fieldOrder is the fixed field layout of a Record: timestamp, then the five
// OHLCV floats, each prefixed by its 1-byte type tag.
var fieldOrder = [format.FieldCount]format.FieldType{
	format.TagInt64,
	format.TagFloat64,
	format.TagFloat64,
	format.TagFloat64,
	format.TagFloat64,
	format.TagFloat64,
}

const fieldWidth = 9 // 1-byte tag + 8-byte value

// EncodeRecord serializes c into a fresh format.RecordSize-byte slice using
// engine's byte order. Field order is fixed: timestamp, open, high, low,
// close, volume.
func EncodeRecord(c model.Candlestick, engine endian.EndianEngine) []byte {
	buf := make([]byte, format.RecordSize)
	EncodeRecordInto(buf, c, engine)
	return buf
}

// EncodeRecordInto writes c into buf[0:format.RecordSize], avoiding an
// allocation when the caller already owns a chunk buffer.
func EncodeRecordInto(buf []byte, c model.Candlestick, engine endian.EndianEngine) {
	values := [format.FieldCount]uint64{
		uint64(c.Timestamp),
		math.Float64bits(c.Open),
		math.Float64bits(c.High),
		math.Float64bits(c.Low),
		math.Float64bits(c.Close),
		math.Float64bits(c.Volume),
	}

	off := 0
	for i, tag := range fieldOrder {
		buf[off] = byte(tag)
		engine.PutUint64(buf[off+1:off+9], values[i])
		off += fieldWidth
	}
}

// DecodeRecord parses a format.RecordSize-byte buffer into a Candlestick. It
// fails with errs.ErrUnexpectedEOF if buf is shorter than a record, and with
// errs.ErrMalformedRecord if any field's type tag doesn't match the fixed
// layout.
func DecodeRecord(buf []byte, engine endian.EndianEngine) (model.Candlestick, error) {
	if len(buf) < format.RecordSize {
		return model.Candlestick{}, errs.ErrUnexpectedEOF
	}

	var values [format.FieldCount]uint64
	off := 0
	for i, want := range fieldOrder {
		got := format.FieldType(buf[off])
		if got != want {
			return model.Candlestick{}, errs.ErrMalformedRecord
		}
		values[i] = engine.Uint64(buf[off+1 : off+9])
		off += fieldWidth
	}

	return model.Candlestick{
		Timestamp: int64(values[0]),
		Open:      math.Float64frombits(values[1]),
		High:      math.Float64frombits(values[2]),
		Low:       math.Float64frombits(values[3]),
		Close:     math.Float64frombits(values[4]),
		Volume:    math.Float64frombits(values[5]),
	}, nil
}
