package objectid

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quadfusion/engine/encoding"
	"github.com/quadfusion/engine/model"
)

func TestGetOrInternIsStable(t *testing.T) {
	m := NewMapping()
	a := model.NewNamedNode("http://example.org/a")

	id1 := m.GetOrIntern(a)
	id2 := m.GetOrIntern(a)
	assert.Equal(t, id1, id2)

	resolved, ok := m.Resolve(id1)
	require.True(t, ok)
	assert.True(t, a.SameTerm(resolved))
}

func TestDefaultGraphSentinel(t *testing.T) {
	m := NewMapping()
	id := m.GetOrIntern(model.DefaultGraph)
	assert.Equal(t, encoding.DefaultGraphID, id)
}

func TestConcurrentInternOfSameTermConverges(t *testing.T) {
	m := NewMapping()
	term := model.NewNamedNode("http://example.org/concurrent")

	var wg sync.WaitGroup
	ids := make([]encoding.ObjectID, 64)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i] = m.GetOrIntern(term)
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
	assert.Equal(t, 1, m.Len())
}

func TestLookupUnseenTerm(t *testing.T) {
	m := NewMapping()
	_, ok := m.Lookup(model.NewNamedNode("http://example.org/never-seen"))
	assert.False(t, ok)
}
