// Package resultcache is the per-session FIFO of BarSet pages standing
// between a session's coordinator (producer) and query_chunk (consumer).
// See §4.5.
package resultcache

import (
	"sync"

	"github.com/kestrelmarkets/stmdb/internal/hash"
	"github.com/kestrelmarkets/stmdb/model"
)

// shardCount bounds lock contention across independent sessions: sessions
// hash to one of shardCount stripes rather than sharing a single mutex,
// since inter-session operations are independent by spec.
const shardCount = 32

type shard struct {
	mu       sync.Mutex
	sessions map[string]*sessionQueue
}

type sessionQueue struct {
	mu    sync.Mutex
	pages []model.BarSet
}

// Cache is the engine-wide result cache, sharded by session id via
// xxHash to keep concurrent sessions from contending on one lock.
type Cache struct {
	shards [shardCount]*shard
}

// New creates an empty Cache.
func New() *Cache {
	c := &Cache{}
	for i := range c.shards {
		c.shards[i] = &shard{sessions: make(map[string]*sessionQueue)}
	}
	return c
}

func (c *Cache) shardFor(sessionID string) *shard {
	return c.shards[hash.Shard(sessionID, shardCount)]
}

func (c *Cache) queueFor(sessionID string) *sessionQueue {
	sh := c.shardFor(sessionID)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	q, ok := sh.sessions[sessionID]
	if !ok {
		q = &sessionQueue{}
		sh.sessions[sessionID] = q
	}
	return q
}

// Put appends a new page to sessionID's queue. Concurrent Puts for the same
// session are serialized by the session's own lock.
func (c *Cache) Put(sessionID string, bs model.BarSet) {
	q := c.queueFor(sessionID)

	q.mu.Lock()
	defer q.mu.Unlock()

	q.pages = append(q.pages, bs)
}

// Take removes and returns up to limit Bars from the head of sessionID's
// queue, preserving order across page boundaries. It reports whether the
// final page consumed had IsLast true. If the head page has more than limit
// bars remaining, it is split: the first limit are returned and the
// remainder is reinserted at the head with the same IsLast flag.
//
// Once a Take has returned a page whose IsLast is true, subsequent Takes on
// the same session return no bars and isLast=false.
func (c *Cache) Take(sessionID string, limit int) (bars []model.Bar, isLast bool) {
	if limit <= 0 {
		return nil, false
	}

	q := c.queueFor(sessionID)

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.pages) > 0 && len(bars) < limit {
		page := q.pages[0]
		remaining := limit - len(bars)

		if page.Len() <= remaining {
			bars = append(bars, page.Bars...)
			isLast = page.IsLast
			q.pages = q.pages[1:]

			if page.IsLast {
				return bars, true
			}
			continue
		}

		bars = append(bars, page.Bars[:remaining]...)
		q.pages[0] = model.BarSet{IsLast: page.IsLast, Bars: page.Bars[remaining:]}
		isLast = false
		break
	}

	return bars, isLast
}

// Empty reports whether sessionID currently has no buffered pages.
func (c *Cache) Empty(sessionID string) bool {
	q := c.queueFor(sessionID)

	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pages) == 0
}

// Drop releases sessionID's queue entirely, once its session is reclaimed.
func (c *Cache) Drop(sessionID string) {
	sh := c.shardFor(sessionID)

	sh.mu.Lock()
	defer sh.mu.Unlock()

	delete(sh.sessions, sessionID)
}
