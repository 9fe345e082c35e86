package engine

import (
	"path/filepath"
	"time"

	"github.com/kestrelmarkets/stmdb/codec"
	"github.com/kestrelmarkets/stmdb/fsreader"
	"github.com/kestrelmarkets/stmdb/model"
	"github.com/kestrelmarkets/stmdb/stmdblog"
)

// Insert appends data, a batch of candlesticks for one (exchange, symbol),
// to its .stmdb file: widen the header unconditionally to cover the batch's
// time range, append in input order, flush, then save the index. The
// ingest path does not sort or deduplicate; callers provide data in the
// desired order. Insert blocks on file I/O only; it never touches the
// worker pools.
//
// clientID identifies the caller per §6's insert(client_id, exchange,
// symbol, data) → bool contract; this engine has no per-client ingest
// bookkeeping yet, so it is accepted but unused. Failures are logged and
// reported as false, matching the wire contract exactly.
func (e *Engine) Insert(clientID uint64, exchange, symbol string, data []model.Candlestick) bool {
	if err := e.insert(exchange, symbol, data); err != nil {
		e.log.Warn("engine: insert failed", stmdblog.String("exchange", exchange), stmdblog.String("symbol", symbol), stmdblog.Error(err))
		return false
	}
	return true
}

func (e *Engine) insert(exchange, symbol string, data []model.Candlestick) error {
	if len(data) == 0 {
		return nil
	}

	chunkStart, chunkEnd := data[0].Timestamp, data[0].Timestamp
	for _, c := range data[1:] {
		if c.Timestamp < chunkStart {
			chunkStart = c.Timestamp
		}
		if c.Timestamp > chunkEnd {
			chunkEnd = c.Timestamp
		}
	}

	now := nowUnix()
	corpus, existed := e.idx.Lookup(exchange, symbol)
	path := filepath.Join(e.dataDir, corpus.Filename)

	var writer *fsreader.Writer
	var err error

	if !existed {
		fileID := e.idx.NextFileID()
		filename := exchange + "_" + symbol + ".stmdb"
		path = filepath.Join(e.dataDir, filename)

		writer, err = fsreader.Create(path, codec.NewHeader(fileID, uint64(chunkStart), uint64(chunkEnd)), e.engine)
		if err != nil {
			return err
		}

		corpus = model.Corpus{
			FileID:         fileID,
			LastUpdated:    now,
			Exchange:       exchange,
			Symbol:         symbol,
			StartTimestamp: chunkStart,
			EndTimestamp:   chunkEnd,
			Filename:       filename,
		}
	} else {
		writer, err = fsreader.OpenForAppend(path, e.engine)
		if err != nil {
			return err
		}

		widened := corpus
		if chunkStart < widened.StartTimestamp {
			widened.StartTimestamp = chunkStart
		}
		if chunkEnd > widened.EndTimestamp {
			widened.EndTimestamp = chunkEnd
		}
		widened.LastUpdated = now

		if err := writer.RewriteHeader(codec.NewHeader(widened.FileID, uint64(widened.StartTimestamp), uint64(widened.EndTimestamp))); err != nil {
			writer.Close()
			return err
		}
		corpus = widened
	}

	if err := writer.AppendRecords(data); err != nil {
		writer.Close()
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	if err := e.idx.AddOrUpdate(corpus); err != nil {
		return err
	}

	if err := e.idx.Save(now); err != nil {
		e.log.Warn("engine: index save failed after ingest", stmdblog.String("exchange", exchange), stmdblog.String("symbol", symbol), stmdblog.Error(err))
		return err
	}

	return nil
}

func nowUnix() int64 {
	return time.Now().Unix()
}
