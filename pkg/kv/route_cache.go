package kv

import (
	"encoding/binary"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/pkg/errors"
)

const routeKeyPrefix = "route/"

/*
RouteCache. calculated link sequences keyed by (network version, start link, destination link).

the route between two links does not depend on where exactly on the links the query points lie, so the
link pair is the whole key. the network version keeps routes of a replaced network from being served.
*/
type RouteCache struct {
	db *pebble.DB
}

func NewRouteCache(db *pebble.DB) *RouteCache {
	return &RouteCache{db: db}
}

// OpenRouteCache opens a pebble db at dir. an empty dir keeps the cache in memory.
func OpenRouteCache(dir string) (*RouteCache, error) {
	opts := &pebble.Options{}
	if dir == "" {
		opts.FS = vfs.NewMem()
	}
	db, err := pebble.Open(dir, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble db %q", dir)
	}
	return NewRouteCache(db), nil
}

func routeKey(version uint64, startLinkID, destLinkID datastructure.LinkID) []byte {
	key := make([]byte, len(routeKeyPrefix)+16)
	n := copy(key, routeKeyPrefix)
	binary.BigEndian.PutUint64(key[n:], version)
	binary.BigEndian.PutUint32(key[n+8:], uint32(startLinkID))
	binary.BigEndian.PutUint32(key[n+12:], uint32(destLinkID))
	return key
}

// Get returns the cached links and true on a hit. a cached empty slice records that no route exists.
func (c *RouteCache) Get(version uint64, startLinkID, destLinkID datastructure.LinkID) ([]datastructure.LinkID, bool, error) {
	val, closer, err := c.db.Get(routeKey(version, startLinkID, destLinkID))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "get cached route")
	}
	defer closer.Close()

	links, err := decodeRoute(val)
	if err != nil {
		return nil, false, errors.Wrap(err, "decode cached route")
	}
	return links, true, nil
}

func (c *RouteCache) Put(version uint64, startLinkID, destLinkID datastructure.LinkID, links []datastructure.LinkID) error {
	val, err := encodeRoute(links)
	if err != nil {
		return errors.Wrap(err, "encode route")
	}
	if err := c.db.Set(routeKey(version, startLinkID, destLinkID), val, pebble.NoSync); err != nil {
		return errors.Wrap(err, "put cached route")
	}
	return nil
}

// Invalidate drops every cached route of a network version.
func (c *RouteCache) Invalidate(version uint64) error {
	start := routeKey(version, 0, 0)
	end := routeKey(version+1, 0, 0)
	if version == ^uint64(0) {
		end = []byte(routeKeyPrefix + "\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff")
	}
	return errors.Wrap(c.db.DeleteRange(start, end, pebble.NoSync), "invalidate cached routes")
}

func (c *RouteCache) Close() error {
	return c.db.Close()
}
