package routingalgorithm

import (
	"testing"

	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func junctionAt(id datastructure.JunctionID, x float64) datastructure.Junction {
	return datastructure.Junction{ID: id, Center: datastructure.NewPoint(x, 0, 0)}
}

func TestOpenSetExtractMinRemovesFromIndex(t *testing.T) {
	pool := newNodePool(4)
	open := newOpenSet()

	a := pool.acquire(junctionAt(1, 0), noPredecessor, 10, 5, 3)
	b := pool.acquire(junctionAt(2, 1), a, 11, 2, 2)
	c := pool.acquire(junctionAt(3, 2), a, 12, 9, 0)
	open.insert(pool, a)
	open.insert(pool, b)
	open.insert(pool, c)
	assert.Equal(t, 3, open.size())

	idx, ok := open.extractMin()
	require.True(t, ok)
	assert.Equal(t, b, idx)
	_, ok = open.get(2)
	assert.False(t, ok)

	idx, ok = open.extractMin()
	require.True(t, ok)
	assert.Equal(t, a, idx)

	idx, ok = open.extractMin()
	require.True(t, ok)
	assert.Equal(t, c, idx)

	assert.True(t, open.isEmpty())
	_, ok = open.extractMin()
	assert.False(t, ok)
}

func TestOpenSetUpdateReorders(t *testing.T) {
	pool := newNodePool(4)
	open := newOpenSet()

	a := pool.acquire(junctionAt(1, 0), noPredecessor, 10, 1, 1)
	b := pool.acquire(junctionAt(2, 1), a, 11, 5, 5)
	open.insert(pool, a)
	open.insert(pool, b)

	got, ok := open.get(2)
	require.True(t, ok)
	assert.Equal(t, b, got)

	node := pool.get(b)
	node.costG = 0.5
	node.costF = 0.5
	require.NoError(t, open.update(pool, b))

	idx, ok := open.extractMin()
	require.True(t, ok)
	assert.Equal(t, b, idx)
	assert.Equal(t, 0.5, pool.get(idx).costF)
}

func TestOpenSetUpdateUnknownJunction(t *testing.T) {
	pool := newNodePool(4)
	open := newOpenSet()

	a := pool.acquire(junctionAt(1, 0), noPredecessor, 10, 1, 1)
	open.insert(pool, a)
	_, ok := open.extractMin()
	require.True(t, ok)

	err := open.update(pool, a)
	assert.ErrorIs(t, err, datastructure.ErrItemNotFound)
	assert.True(t, open.isEmpty())
}

func TestOpenSetTiesFollowInsertionOrder(t *testing.T) {
	pool := newNodePool(4)
	open := newOpenSet()

	for id := datastructure.JunctionID(1); id <= 4; id++ {
		open.insert(pool, pool.acquire(junctionAt(id, float64(id)), noPredecessor, 0, 7, 0))
	}

	for want := datastructure.JunctionID(1); want <= 4; want++ {
		idx, ok := open.extractMin()
		require.True(t, ok)
		assert.Equal(t, want, pool.get(idx).junctionID)
	}
}

func TestClosedSet(t *testing.T) {
	closed := newClosedSet()
	assert.False(t, closed.contains(3))
	closed.add(3)
	assert.True(t, closed.contains(3))
	assert.False(t, closed.contains(4))
}
