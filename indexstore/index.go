// Package indexstore implements the sole source of truth for which .stmdb
// files exist: a JSON-backed mapping from "{exchange}_{symbol}" to Corpus
// entry, persisted atomically. See §4.2.
package indexstore

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/kestrelmarkets/stmdb/errs"
	"github.com/kestrelmarkets/stmdb/internal/idtrack"
	"github.com/kestrelmarkets/stmdb/model"
)

// jsonCodec marshals with standard-library-compatible field order and
// number formatting, so index.json stays byte-for-byte what encoding/json
// would have produced for the fixed schema in §6, while running on sonic's
// faster codec path.
var jsonCodec = sonic.ConfigStd

// document is the on-disk shape of index.json.
type document struct {
	LastUpdated int64                    `json:"last_updated"`
	LastFileID  uint32                   `json:"last_file_id"`
	FileMap     map[string]model.Corpus `json:"file_map"`
}

// Index is the in-memory, mutex-guarded view of index.json.
type Index struct {
	mu   sync.RWMutex
	path string

	lastUpdated int64
	lastFileID  uint32
	fileMap     map[string]model.Corpus
	tracker     *idtrack.Tracker
}

// Open reads and parses path. A missing file is not an error: it yields an
// empty Index with last_file_id = 0, ready to be populated and saved.
func Open(path string) (*Index, error) {
	idx := &Index{
		path:    path,
		fileMap: make(map[string]model.Corpus),
		tracker: idtrack.NewTracker(),
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return idx, nil
	}
	if err != nil {
		return nil, errs.ErrIO
	}

	var doc document
	if err := jsonCodec.Unmarshal(raw, &doc); err != nil {
		return nil, errs.ErrIndexCorrupt
	}

	for key, corpus := range doc.FileMap {
		if err := idx.tracker.Track(corpus.FileID, corpus.Filename); err != nil {
			return nil, errs.ErrIndexCorrupt
		}
		idx.fileMap[key] = corpus
	}
	idx.lastUpdated = doc.LastUpdated
	idx.lastFileID = doc.LastFileID

	return idx, nil
}

// Lookup returns the Corpus entry for (exchange, symbol), if present.
func (idx *Index) Lookup(exchange, symbol string) (model.Corpus, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	c, ok := idx.fileMap[model.SymbolRef{Exchange: exchange, Symbol: symbol}.Key()]
	return c, ok
}

// FilesFor returns one Corpus entry per (exchange, symbol) pair named in q
// that's present in the index. Pairs with no entry are silently skipped;
// they do not fail the query.
func (idx *Index) FilesFor(q model.Query) []model.Corpus {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]model.Corpus, 0, len(q.Symbols))
	for _, ref := range q.Symbols {
		if c, ok := idx.fileMap[ref.Key()]; ok {
			out = append(out, c)
		}
	}
	return out
}

// AddOrUpdate upserts corpus. On insert of a new file_id, last_file_id is
// bumped to max(last_file_id, corpus.FileID). Returns errs.ErrDuplicateFileID
// or errs.ErrDuplicateFilename if corpus collides with a different entry.
func (idx *Index) AddOrUpdate(corpus model.Corpus) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	key := corpus.Key()
	if existing, ok := idx.fileMap[key]; ok {
		idx.tracker.Untrack(existing.FileID, existing.Filename)
	}

	if err := idx.tracker.Track(corpus.FileID, corpus.Filename); err != nil {
		// restore the prior registration so the index isn't left inconsistent.
		if existing, ok := idx.fileMap[key]; ok {
			idx.tracker.Track(existing.FileID, existing.Filename) //nolint:errcheck
		}
		return err
	}

	idx.fileMap[key] = corpus
	if corpus.FileID > idx.lastFileID {
		idx.lastFileID = corpus.FileID
	}

	return nil
}

// NextFileID returns the file_id to use for a new Corpus entry.
func (idx *Index) NextFileID() uint32 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastFileID + 1
}

// Save atomically replaces the index file: serialize to a temporary path
// in the same directory, then rename over the destination.
func (idx *Index) Save(now int64) error {
	idx.mu.Lock()
	idx.lastUpdated = now
	doc := document{
		LastUpdated: idx.lastUpdated,
		LastFileID:  idx.lastFileID,
		FileMap:     make(map[string]model.Corpus, len(idx.fileMap)),
	}
	for k, v := range idx.fileMap {
		doc.FileMap[k] = v
	}
	idx.mu.Unlock()

	raw, err := jsonCodec.Marshal(doc)
	if err != nil {
		return errs.ErrIO
	}

	dir := filepath.Dir(idx.path)
	tmp, err := os.CreateTemp(dir, ".index-*.tmp")
	if err != nil {
		return errs.ErrIO
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errs.ErrIO
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errs.ErrIO
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errs.ErrIO
	}

	if err := os.Rename(tmpName, idx.path); err != nil {
		os.Remove(tmpName)
		return errs.ErrIO
	}

	return nil
}

// Snapshot returns a copy of every Corpus entry currently held, for
// get_index().
func (idx *Index) Snapshot() []model.Corpus {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]model.Corpus, 0, len(idx.fileMap))
	for _, c := range idx.fileMap {
		out = append(out, c)
	}
	return out
}
