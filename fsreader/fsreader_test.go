package fsreader

import (
	"path/filepath"
	"testing"

	"github.com/kestrelmarkets/stmdb/codec"
	"github.com/kestrelmarkets/stmdb/endian"
	"github.com/kestrelmarkets/stmdb/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_CreateThenReadHeaderAndChunk(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	path := filepath.Join(t.TempDir(), "kucoin_BTCUSDT.stmdb")

	w, err := Create(path, codec.NewHeader(1, 100, 300), engine)
	require.NoError(t, err)

	bars := []model.Candlestick{
		{Timestamp: 100, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Timestamp: 200, Open: 2, High: 3, Low: 1.5, Close: 2.5, Volume: 20},
		{Timestamp: 300, Open: 3, High: 4, Low: 2.5, Close: 3.5, Volume: 30},
	}
	require.NoError(t, w.AppendRecords(bars))
	require.NoError(t, w.Close())

	r, err := Open(path, engine)
	require.NoError(t, err)
	defer r.Close()

	h, err := r.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), h.FileID)
	assert.Equal(t, uint64(100), h.StartTimestamp)
	assert.Equal(t, uint64(300), h.EndTimestamp)

	got, err := r.ReadChunk(10)
	require.NoError(t, err)
	assert.Equal(t, bars, got)
}

func TestReader_SeekToRecord(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	path := filepath.Join(t.TempDir(), "a.stmdb")

	w, err := Create(path, codec.NewHeader(1, 0, 0), engine)
	require.NoError(t, err)
	bars := []model.Candlestick{
		{Timestamp: 1}, {Timestamp: 2}, {Timestamp: 3},
	}
	require.NoError(t, w.AppendRecords(bars))
	require.NoError(t, w.Close())

	r, err := Open(path, engine)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadHeader()
	require.NoError(t, err)

	r.SeekToRecord(2)
	got, err := r.ReadChunk(10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Timestamp)
}

func TestWriter_RewriteHeader_Widens(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	path := filepath.Join(t.TempDir(), "a.stmdb")

	w, err := Create(path, codec.NewHeader(1, 100, 100), engine)
	require.NoError(t, err)
	require.NoError(t, w.RewriteHeader(codec.NewHeader(1, 100, 500)))
	require.NoError(t, w.Close())

	r, err := Open(path, engine)
	require.NoError(t, err)
	defer r.Close()

	h, err := r.ReadHeader()
	require.NoError(t, err)
	assert.Equal(t, uint64(500), h.EndTimestamp)
}

func TestReader_ReadChunk_StopsAtEOFWithoutError(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	path := filepath.Join(t.TempDir(), "a.stmdb")

	w, err := Create(path, codec.NewHeader(1, 0, 0), engine)
	require.NoError(t, err)
	require.NoError(t, w.AppendRecords([]model.Candlestick{{Timestamp: 1}, {Timestamp: 2}}))
	require.NoError(t, w.Close())

	r, err := Open(path, engine)
	require.NoError(t, err)
	defer r.Close()
	_, err = r.ReadHeader()
	require.NoError(t, err)

	got, err := r.ReadChunk(100)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestReader_IndependentCursorsPerHandle(t *testing.T) {
	engine := endian.GetBigEndianEngine()
	path := filepath.Join(t.TempDir(), "a.stmdb")

	w, err := Create(path, codec.NewHeader(1, 0, 0), engine)
	require.NoError(t, err)
	require.NoError(t, w.AppendRecords([]model.Candlestick{{Timestamp: 1}, {Timestamp: 2}}))
	require.NoError(t, w.Close())

	r1, err := Open(path, engine)
	require.NoError(t, err)
	defer r1.Close()
	r2, err := Open(path, engine)
	require.NoError(t, err)
	defer r2.Close()

	_, err = r1.ReadHeader()
	require.NoError(t, err)
	got1, err := r1.ReadChunk(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got1[0].Timestamp)

	_, err = r2.ReadHeader()
	require.NoError(t, err)
	got2, err := r2.ReadChunk(1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got2[0].Timestamp, "r2's cursor must be independent of r1's advancement")
}
