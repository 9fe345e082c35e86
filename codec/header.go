// Package codec implements the .stmdb binary format: a 24-byte Header
// followed by N fixed 54-byte Records, always big-endian on disk. See §4.1.
package codec

import (
	"github.com/kestrelmarkets/stmdb/endian"
	"github.com/kestrelmarkets/stmdb/errs"
	"github.com/kestrelmarkets/stmdb/format"
)

// Header is the 24-byte header at the start of every .stmdb file: 4-byte
// magic identifier, 4-byte file_id, 8-byte start_timestamp, 8-byte
// end_timestamp. It is rewritten in place on every append to widen the
// file's time range.
type Header struct {
	FileID         uint32
	StartTimestamp uint64
	EndTimestamp   uint64
}

// NewHeader creates a Header for a freshly created file.
func NewHeader(fileID uint32, start, end uint64) Header {
	return Header{FileID: fileID, StartTimestamp: start, EndTimestamp: end}
}

// EncodeHeader serializes h into a fresh format.HeaderSize-byte slice using
// engine's byte order.
func EncodeHeader(h Header, engine endian.EndianEngine) []byte {
	buf := make([]byte, format.HeaderSize)
	copy(buf[0:4], format.Identifier)
	engine.PutUint32(buf[4:8], h.FileID)
	engine.PutUint64(buf[8:16], h.StartTimestamp)
	engine.PutUint64(buf[16:24], h.EndTimestamp)

	return buf
}

// DecodeHeader parses a format.HeaderSize-byte buffer into a Header. It
// fails with errs.ErrBadMagic if the first four bytes aren't "STMD", and
// with errs.ErrUnexpectedEOF if buf is shorter than a header.
func DecodeHeader(buf []byte, engine endian.EndianEngine) (Header, error) {
	if len(buf) < format.HeaderSize {
		return Header{}, errs.ErrUnexpectedEOF
	}
	if string(buf[0:4]) != format.Identifier {
		return Header{}, errs.ErrBadMagic
	}

	return Header{
		FileID:         engine.Uint32(buf[4:8]),
		StartTimestamp: engine.Uint64(buf[8:16]),
		EndTimestamp:   engine.Uint64(buf[16:24]),
	}, nil
}
