// (c) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package host

import (
	"time"

	"github.com/boltdb/bolt"

	"github.com/ava-labs/avalanchego/database"
)

var snapshotBucket = []byte("rollup")

// Snapshot persists the content of a database in a bolt file between
// invocations of the kernel.
type Snapshot struct {
	b *bolt.DB
}

// OpenSnapshot opens the snapshot stored in [fileName], creating it if it
// does not exist.
func OpenSnapshot(fileName string) (*Snapshot, error) {
	b, err := bolt.Open(fileName, 0o644, &bolt.Options{
		Timeout: 500 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	err = b.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(snapshotBucket)
		return err
	})
	if err != nil {
		b.Close()
		return nil, err
	}
	return &Snapshot{b: b}, nil
}

// Restore writes every key of the snapshot into [db]
func (s *Snapshot) Restore(db database.Database) error {
	return s.b.View(func(tx *bolt.Tx) error {
		return tx.Bucket(snapshotBucket).ForEach(func(k, v []byte) error {
			// bolt values are only valid during the transaction
			return db.Put(copyBytes(k), copyBytes(v))
		})
	})
}

// Save replaces the content of the snapshot with the content of [db]
func (s *Snapshot) Save(db database.Database) error {
	return s.b.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(snapshotBucket); err != nil {
			return err
		}
		bk, err := tx.CreateBucket(snapshotBucket)
		if err != nil {
			return err
		}

		it := db.NewIterator()
		defer it.Release()
		for it.Next() {
			if err := bk.Put(copyBytes(it.Key()), copyBytes(it.Value())); err != nil {
				return err
			}
		}
		return it.Error()
	})
}

// Len returns the number of keys in the snapshot
func (s *Snapshot) Len() (int, error) {
	n := 0
	err := s.b.View(func(tx *bolt.Tx) error {
		n = tx.Bucket(snapshotBucket).Stats().KeyN
		return nil
	})
	return n, err
}

func (s *Snapshot) Close() error {
	return s.b.Close()
}

func copyBytes(b []byte) []byte {
	return append([]byte(nil), b...)
}
