package kv

import (
	"context"
	"fmt"
	"log"

	"github.com/dgraph-io/badger/v4"
	"github.com/lintang-b-s/roadroute/pkg/datastructure"
	"github.com/pkg/errors"
)

var (
	ErrNetworkNotFound = errors.New("road network not found")
	ErrSnapshotCorrupt = errors.New("road network snapshot does not match its version")
)

const (
	networkKeyPrefix = "network/"
	metaKeySuffix    = "/meta"
	dataKeySuffix    = "/data"
)

// NetworkMeta. summary of a stored network, readable without decoding the snapshot.
type NetworkMeta struct {
	Version      uint64
	NumJunctions int
	NumLinks     int
	// Size. compressed snapshot size in bytes.
	Size int
}

// NetworkStore keeps road network snapshots in badger, one compressed snapshot per network name.
type NetworkStore struct {
	db *badger.DB
}

func NewNetworkStore(db *badger.DB) *NetworkStore {
	return &NetworkStore{db}
}

// OpenNetworkStore opens a badger db at dir. an empty dir keeps everything in memory.
func OpenNetworkStore(dir string) (*NetworkStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger db %q", dir)
	}
	return NewNetworkStore(db), nil
}

func dataKey(name string) []byte {
	return []byte(networkKeyPrefix + name + dataKeySuffix)
}

func metaKey(name string) []byte {
	return []byte(networkKeyPrefix + name + metaKeySuffix)
}

func (k *NetworkStore) SaveNetwork(ctx context.Context, name string, net *datastructure.RoadNetwork) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled")
	default:
	}

	log.Printf("saving road network %q to key-value db...", name)
	val, err := encodeNetwork(net)
	if err != nil {
		return err
	}
	meta, err := encodeMeta(NetworkMeta{
		Version:      net.Version(),
		NumJunctions: net.NumJunctions(),
		NumLinks:     net.NumLinks(),
		Size:         len(val),
	})
	if err != nil {
		return errors.Wrap(err, "encode network meta")
	}

	batch := k.db.NewWriteBatch()
	defer batch.Cancel()

	if err := batch.Set(dataKey(name), val); err != nil {
		return errors.Wrapf(err, "save network %q", name)
	}
	if err := batch.Set(metaKey(name), meta); err != nil {
		return errors.Wrapf(err, "save network %q meta", name)
	}
	if err := batch.Flush(); err != nil {
		log.Printf("error saving road network: %v", err)
		return errors.Wrapf(err, "save network %q", name)
	}

	log.Printf("saving road network %q done, %d junctions, %d links, %d bytes", name, net.NumJunctions(),
		net.NumLinks(), len(val))
	return nil
}

func (k *NetworkStore) LoadNetwork(ctx context.Context, name string) (*datastructure.RoadNetwork, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("context cancelled")
	default:
	}

	val, err := k.get(dataKey(name))
	if err != nil {
		return nil, err
	}
	net, err := decodeNetwork(val)
	if err != nil {
		return nil, errors.Wrapf(err, "load network %q", name)
	}
	log.Printf("road network %q loaded, %d junctions, %d links", name, net.NumJunctions(), net.NumLinks())
	return net, nil
}

func (k *NetworkStore) Meta(name string) (NetworkMeta, error) {
	val, err := k.get(metaKey(name))
	if err != nil {
		return NetworkMeta{}, err
	}
	meta, err := decodeMeta(val)
	if err != nil {
		return NetworkMeta{}, errors.Wrapf(err, "decode network %q meta", name)
	}
	return meta, nil
}

func (k *NetworkStore) DeleteNetwork(name string) error {
	return k.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(dataKey(name)); err != nil {
			return err
		}
		return txn.Delete(metaKey(name))
	})
}

func (k *NetworkStore) get(key []byte) ([]byte, error) {
	var val []byte
	err := k.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNetworkNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get %s", key)
	}
	return val, nil
}

func (k *NetworkStore) Close() error {
	return k.db.Close()
}
