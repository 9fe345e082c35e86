// Package errs collects the sentinel errors used across the module, in the
// same ErrXxx convention the teacher's section packages import from a
// shared errs package.
package errs

import "errors"

var (
	// Codec errors (§4.1, §7). Fatal for the affected file only; callers
	// treat them as "this file contributed no data" rather than aborting
	// the whole query.
	ErrBadMagic       = errors.New("stmdb: bad header magic")
	ErrMalformedRecord = errors.New("stmdb: malformed record")
	ErrUnexpectedEOF  = errors.New("stmdb: unexpected end of file")

	// Index errors.
	ErrIndexCorrupt      = errors.New("stmdb: index file is corrupt")
	ErrDuplicateFileID   = errors.New("stmdb: duplicate file_id in index")
	ErrDuplicateFilename = errors.New("stmdb: duplicate filename in index")
	ErrCorpusNotFound    = errors.New("stmdb: no corpus entry for exchange/symbol")

	// Session lifecycle errors (§4.7, §7).
	ErrSessionNotFound        = errors.New("stmdb: unknown session id")
	ErrSessionFailed          = errors.New("stmdb: session coordinator failed")
	ErrSessionAlreadyTerminal = errors.New("stmdb: session already reached a terminal state")

	// I/O and validation.
	ErrIO           = errors.New("stmdb: io error")
	ErrInvalidQuery = errors.New("stmdb: invalid query")
)
