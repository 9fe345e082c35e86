// Package fsreader implements the read side of the .stmdb binary format: a
// reader over one open file, tracking its own byte cursor. See §4.3.
package fsreader

import (
	"io"
	"os"

	"github.com/kestrelmarkets/stmdb/codec"
	"github.com/kestrelmarkets/stmdb/endian"
	"github.com/kestrelmarkets/stmdb/errs"
	"github.com/kestrelmarkets/stmdb/format"
	"github.com/kestrelmarkets/stmdb/internal/pool"
	"github.com/kestrelmarkets/stmdb/model"
)

// Reader wraps one open .stmdb file with a cursor positioned at the next
// byte to read. Readers are not safe for concurrent use: callers that need
// concurrent reads of the same file open independent Readers via Open, which
// gives each its own *os.File and cursor rather than sharing one handle.
type Reader struct {
	file   *os.File
	engine endian.EndianEngine
	cursor int64
}

// Open opens path for reading. Each call returns an independent handle with
// its own cursor, matching the engine's handle-duplication contract so
// concurrent per-(page, file) tasks never interfere with each other.
func Open(path string, engine endian.EndianEngine) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.ErrIO
	}
	return &Reader{file: f, engine: engine}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadHeader reads and decodes the file's 24-byte header, positioning the
// cursor at the first record (byte 24).
func (r *Reader) ReadHeader() (codec.Header, error) {
	buf := make([]byte, format.HeaderSize)
	if _, err := io.ReadFull(io.NewSectionReader(r.file, 0, format.HeaderSize), buf); err != nil {
		return codec.Header{}, errs.ErrUnexpectedEOF
	}

	h, err := codec.DecodeHeader(buf, r.engine)
	if err != nil {
		return codec.Header{}, err
	}

	r.cursor = format.HeaderSize
	return h, nil
}

// SeekToRecord moves the cursor to the record at the given zero-based
// offset from the start of the record region.
func (r *Reader) SeekToRecord(offset int64) {
	r.cursor = format.HeaderSize + offset*format.RecordSize
}

// ReadChunk reads up to limit records starting at the current cursor,
// advancing the cursor by what it actually consumed. It stops early, without
// error, on EOF or on a sentinel-zero type tag marking a sparse region.
// Chunk buffers come from internal/pool so repeated calls across a session
// don't allocate a fresh byte slice per task.
func (r *Reader) ReadChunk(limit int) ([]model.Candlestick, error) {
	if limit <= 0 {
		return nil, nil
	}

	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)

	want := limit * format.RecordSize
	bb.SetLength(want)
	buf := bb.Bytes()

	n, err := r.file.ReadAt(buf, r.cursor)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, errs.ErrIO
	}

	full := n / format.RecordSize
	out := make([]model.Candlestick, 0, full)
	for i := 0; i < full; i++ {
		rec := buf[i*format.RecordSize : (i+1)*format.RecordSize]
		if format.FieldType(rec[0]) == 0 {
			break // sentinel-zero tag: sparse region, stop without error.
		}

		c, err := codec.DecodeRecord(rec, r.engine)
		if err != nil {
			return out, err
		}
		out = append(out, c)
	}

	r.cursor += int64(len(out) * format.RecordSize)
	return out, nil
}
