package idtrack

import (
	"testing"

	"github.com/kestrelmarkets/stmdb/errs"
	"github.com/stretchr/testify/require"
)

func TestTracker_TrackNewPairs(t *testing.T) {
	tr := NewTracker()

	require.NoError(t, tr.Track(1, "kucoin_btcusdt.stmdb"))
	require.NoError(t, tr.Track(2, "kucoin_adausdt.stmdb"))
	require.Equal(t, 2, tr.Count())
}

func TestTracker_ReTrackSamePairIsNotError(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Track(1, "kucoin_btcusdt.stmdb"))
	require.NoError(t, tr.Track(1, "kucoin_btcusdt.stmdb"))
	require.Equal(t, 1, tr.Count())
}

func TestTracker_DuplicateFileID(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Track(1, "kucoin_btcusdt.stmdb"))

	err := tr.Track(1, "kucoin_adausdt.stmdb")
	require.ErrorIs(t, err, errs.ErrDuplicateFileID)
}

func TestTracker_DuplicateFilename(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Track(1, "kucoin_btcusdt.stmdb"))

	err := tr.Track(2, "kucoin_btcusdt.stmdb")
	require.ErrorIs(t, err, errs.ErrDuplicateFilename)
}

func TestTracker_Untrack(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Track(1, "kucoin_btcusdt.stmdb"))

	tr.Untrack(1, "kucoin_btcusdt.stmdb")
	require.Equal(t, 0, tr.Count())

	require.NoError(t, tr.Track(1, "kucoin_adausdt.stmdb"))
}
