package resultcache

import (
	"testing"

	"github.com/kestrelmarkets/stmdb/model"
	"github.com/stretchr/testify/assert"
)

func bar(ts int64) model.Bar {
	return model.NewBar(ts)
}

func TestCache_PutTake_SimplePage(t *testing.T) {
	c := New()
	c.Put("s1", model.BarSet{Bars: []model.Bar{bar(1), bar(2)}, IsLast: true})

	bars, isLast := c.Take("s1", 10)
	assert.Len(t, bars, 2)
	assert.True(t, isLast)
}

func TestCache_Take_SplitsOversizedPage(t *testing.T) {
	c := New()
	c.Put("s1", model.BarSet{Bars: []model.Bar{bar(1), bar(2), bar(3)}, IsLast: true})

	first, isLast := c.Take("s1", 2)
	assert.Len(t, first, 2)
	assert.False(t, isLast)

	second, isLast := c.Take("s1", 2)
	assert.Len(t, second, 1)
	assert.True(t, isLast)
}

func TestCache_Take_SpansMultiplePages(t *testing.T) {
	c := New()
	c.Put("s1", model.BarSet{Bars: []model.Bar{bar(1)}, IsLast: false})
	c.Put("s1", model.BarSet{Bars: []model.Bar{bar(2), bar(3)}, IsLast: true})

	bars, isLast := c.Take("s1", 3)
	assert.Len(t, bars, 3)
	assert.True(t, isLast)
	assert.Equal(t, int64(1), bars[0].Timestamp)
	assert.Equal(t, int64(3), bars[2].Timestamp)
}

func TestCache_Take_TerminalThenEmpty(t *testing.T) {
	c := New()
	c.Put("s1", model.BarSet{Bars: []model.Bar{bar(1)}, IsLast: true})

	_, isLast := c.Take("s1", 10)
	assert.True(t, isLast)

	bars, _ := c.Take("s1", 10)
	assert.Empty(t, bars)
	assert.True(t, c.Empty("s1"))
}

func TestCache_IndependentSessions(t *testing.T) {
	c := New()
	c.Put("s1", model.BarSet{Bars: []model.Bar{bar(1)}})
	c.Put("s2", model.BarSet{Bars: []model.Bar{bar(99)}})

	bars1, _ := c.Take("s1", 10)
	assert.Len(t, bars1, 1)
	assert.Equal(t, int64(1), bars1[0].Timestamp)

	bars2, _ := c.Take("s2", 10)
	assert.Equal(t, int64(99), bars2[0].Timestamp)
}

func TestCache_Drop(t *testing.T) {
	c := New()
	c.Put("s1", model.BarSet{Bars: []model.Bar{bar(1)}})
	c.Drop("s1")
	assert.True(t, c.Empty("s1"))
}
