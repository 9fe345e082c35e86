package fsreader

import (
	"io"
	"os"

	"github.com/kestrelmarkets/stmdb/codec"
	"github.com/kestrelmarkets/stmdb/endian"
	"github.com/kestrelmarkets/stmdb/errs"
	"github.com/kestrelmarkets/stmdb/format"
	"github.com/kestrelmarkets/stmdb/model"
)

// Writer appends records to one .stmdb file and rewrites its header in
// place, the two operations the ingest path in §4.8 needs.
type Writer struct {
	file   *os.File
	engine endian.EndianEngine
}

// Create creates a fresh file at path with the given header, per the
// "allocate a new file_id" branch of the ingest path.
func Create(path string, h codec.Header, engine endian.EndianEngine) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, errs.ErrIO
	}

	w := &Writer{file: f, engine: engine}
	if err := w.RewriteHeader(h); err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// OpenForAppend opens an existing file for header rewrite and record append.
func OpenForAppend(path string, engine endian.EndianEngine) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, errs.ErrIO
	}
	return &Writer{file: f, engine: engine}, nil
}

// Close releases the underlying file handle.
func (w *Writer) Close() error {
	return w.file.Close()
}

// RewriteHeader overwrites the 24 header bytes at offset 0. Called on every
// append to reflect the file's widened time range.
func (w *Writer) RewriteHeader(h codec.Header) error {
	buf := codec.EncodeHeader(h, w.engine)
	if _, err := w.file.WriteAt(buf, 0); err != nil {
		return errs.ErrIO
	}
	return nil
}

// AppendRecords writes candlesticks as consecutive 54-byte records at the
// end of the file, in input order, then flushes. The ingest path does not
// sort or deduplicate; callers are responsible for ordering.
func (w *Writer) AppendRecords(candlesticks []model.Candlestick) error {
	if len(candlesticks) == 0 {
		return nil
	}

	buf := make([]byte, 0, len(candlesticks)*format.RecordSize)
	rec := make([]byte, format.RecordSize)
	for _, c := range candlesticks {
		codec.EncodeRecordInto(rec, c, w.engine)
		buf = append(buf, rec...)
	}

	if _, err := w.file.Seek(0, io.SeekEnd); err != nil {
		return errs.ErrIO
	}
	if _, err := w.file.Write(buf); err != nil {
		return errs.ErrIO
	}
	if err := w.file.Sync(); err != nil {
		return errs.ErrIO
	}

	return nil
}
