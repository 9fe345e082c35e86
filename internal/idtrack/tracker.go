// Package idtrack detects duplicate file identifiers and filenames as
// Corpus entries are added to the index, adapted from the teacher's
// internal/collision hash-collision tracker (there: metric-name hash
// collisions; here: file_id/filename uniqueness).
package idtrack

import "github.com/kestrelmarkets/stmdb/errs"

// Tracker enforces that every file_id and filename registered with the
// index is unique, per the Corpus invariant in the data model.
type Tracker struct {
	fileIDs   map[uint32]string // file_id -> filename that claimed it
	filenames map[string]uint32 // filename -> file_id that claimed it
}

// NewTracker creates an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{
		fileIDs:   make(map[uint32]string),
		filenames: make(map[string]uint32),
	}
}

// Track registers (fileID, filename) as claimed. Re-registering the same
// pair (an update of an existing entry) is not an error; claiming a
// fileID or filename already owned by a different pair is.
func (t *Tracker) Track(fileID uint32, filename string) error {
	if owner, ok := t.fileIDs[fileID]; ok && owner != filename {
		return errs.ErrDuplicateFileID
	}
	if owner, ok := t.filenames[filename]; ok && owner != fileID {
		return errs.ErrDuplicateFilename
	}

	t.fileIDs[fileID] = filename
	t.filenames[filename] = fileID

	return nil
}

// Untrack removes a (fileID, filename) registration, if present.
func (t *Tracker) Untrack(fileID uint32, filename string) {
	delete(t.fileIDs, fileID)
	delete(t.filenames, filename)
}

// Count returns the number of distinct file ids currently tracked.
func (t *Tracker) Count() int {
	return len(t.fileIDs)
}
