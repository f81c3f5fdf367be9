package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names
	metaBucket = []byte("meta")
	dataBucket = []byte("data")
)

// BoltStore implements Store using bbolt
type BoltStore struct {
	db   *bolt.DB
	path string
}

// NewBoltStore opens (or creates) a bbolt-backed snapshot store
func NewBoltStore(dbPath string) (*BoltStore, error) {
	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bbolt database: %w", err)
	}

	// Initialize buckets
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(metaBucket); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists(dataBucket); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create buckets: %w", err)
	}

	return &BoltStore{db: db, path: dbPath}, nil
}

// Path returns the database file path
func (b *BoltStore) Path() string {
	return b.path
}

// Put stores metadata and payload in one transaction
func (b *BoltStore) Put(meta Meta, data []byte) error {
	encoded, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return b.db.Update(func(tx *bolt.Tx) error {
		key := []byte(meta.ID)
		if err := tx.Bucket(metaBucket).Put(key, encoded); err != nil {
			return err
		}
		return tx.Bucket(dataBucket).Put(key, data)
	})
}

// Meta returns the metadata of a snapshot
func (b *BoltStore) Meta(id string) (Meta, error) {
	var meta Meta
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(metaBucket).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		if err := json.Unmarshal(v, &meta); err != nil {
			return fmt.Errorf("failed to decode JSON: %w", err)
		}
		return nil
	})
	return meta, err
}

// Data returns the IPC payload of a snapshot
func (b *BoltStore) Data(id string) ([]byte, error) {
	var data []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(dataBucket).Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		// Copy the value since it's only valid during the transaction
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	return data, err
}

// List returns all snapshots, oldest first
func (b *BoltStore) List() ([]Meta, error) {
	var metas []Meta
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(metaBucket).ForEach(func(k, v []byte) error {
			var meta Meta
			if err := json.Unmarshal(v, &meta); err != nil {
				return fmt.Errorf("decode snapshot %s: %w", k, err)
			}
			metas = append(metas, meta)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sortMetas(metas)
	return metas, nil
}

// Delete removes a snapshot
func (b *BoltStore) Delete(id string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		key := []byte(id)
		if tx.Bucket(metaBucket).Get(key) == nil {
			return ErrNotFound
		}
		if err := tx.Bucket(metaBucket).Delete(key); err != nil {
			return err
		}
		return tx.Bucket(dataBucket).Delete(key)
	})
}

// Close closes the database
func (b *BoltStore) Close() error {
	return b.db.Close()
}
