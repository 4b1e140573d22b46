package kv

import (
	"context"
	"testing"

	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestNetwork(t *testing.T, opts ...datastructure.NetworkOption) *datastructure.RoadNetwork {
	t.Helper()
	net, err := datastructure.NewRoadNetworkBuilder().
		AddJunction(1, datastructure.NewPoint(0, 0, 0)).
		AddJunction(2, datastructure.NewPoint(10, 0, 0.5)).
		AddJunction(3, datastructure.NewPoint(20, 0, 1)).
		AddJunction(4, datastructure.NewPoint(10, 10, 0)).
		AddLink(1, 1, 2).
		AddLink(2, 2, 3).
		AddLink(3, 1, 4).
		AddLink(4, 4, 3).
		AddLink(5, 3, 1).
		Build(opts...)
	require.NoError(t, err)
	return net
}

func openTestStore(t *testing.T) *NetworkStore {
	t.Helper()
	store, err := OpenNetworkStore("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestNetworkStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	net := buildTestNetwork(t, datastructure.WithGeoOrigin(datastructure.GeoOrigin{Lat: -7.55, Lon: 110.77}))
	require.NoError(t, store.SaveNetwork(ctx, "solo", net))

	loaded, err := store.LoadNetwork(ctx, "solo")
	require.NoError(t, err)

	assert.Equal(t, net.Version(), loaded.Version())
	assert.Equal(t, net.Junctions(), loaded.Junctions())
	assert.Equal(t, net.Links(), loaded.Links())

	origin, ok := loaded.Origin()
	require.True(t, ok)
	assert.Equal(t, -7.55, origin.Lat)
	assert.Equal(t, 110.77, origin.Lon)

	meta, err := store.Meta("solo")
	require.NoError(t, err)
	assert.Equal(t, net.Version(), meta.Version)
	assert.Equal(t, 4, meta.NumJunctions)
	assert.Equal(t, 5, meta.NumLinks)
	assert.Greater(t, meta.Size, 0)
}

func TestNetworkStoreNotFound(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.LoadNetwork(ctx, "missing")
	assert.ErrorIs(t, err, ErrNetworkNotFound)

	_, err = store.Meta("missing")
	assert.ErrorIs(t, err, ErrNetworkNotFound)

	require.NoError(t, store.SaveNetwork(ctx, "gone", buildTestNetwork(t)))
	require.NoError(t, store.DeleteNetwork("gone"))
	_, err = store.LoadNetwork(ctx, "gone")
	assert.ErrorIs(t, err, ErrNetworkNotFound)
}

func TestNetworkStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first := buildTestNetwork(t)
	second := buildTestNetwork(t, datastructure.WithGeoOrigin(datastructure.GeoOrigin{Lat: 1, Lon: 2}))
	require.NotEqual(t, first.Version(), second.Version())

	require.NoError(t, store.SaveNetwork(ctx, "net", first))
	require.NoError(t, store.SaveNetwork(ctx, "net", second))

	loaded, err := store.LoadNetwork(ctx, "net")
	require.NoError(t, err)
	assert.Equal(t, second.Version(), loaded.Version())
}

func TestNetworkStoreCancelledContext(t *testing.T) {
	store := openTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.SaveNetwork(ctx, "net", buildTestNetwork(t)))
	_, err := store.LoadNetwork(ctx, "net")
	assert.Error(t, err)
}

func TestDecodeNetworkDetectsVersionMismatch(t *testing.T) {
	snapshot := newNetworkSnapshot(buildTestNetwork(t))
	snapshot.Junctions[1].Z = 42

	_, err := snapshot.toRoadNetwork()
	assert.ErrorIs(t, err, ErrSnapshotCorrupt)
}

func TestDecodeNetworkRejectsInvalidGraph(t *testing.T) {
	snapshot := newNetworkSnapshot(buildTestNetwork(t))
	snapshot.Links[0].ToJunctionID = 99

	_, err := snapshot.toRoadNetwork()
	assert.ErrorIs(t, err, datastructure.ErrJunctionNotFound)
}

func TestDecompressGarbage(t *testing.T) {
	_, err := decodeNetwork([]byte("definitely not zstd"))
	assert.Error(t, err)
}
