package session

import (
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

const badgerKeyPrefix = "watchlist:"

// BadgerStorage is a fiber.Storage backed by an embedded badger database
type BadgerStorage struct {
	db   *badger.DB
	stop chan struct{}
}

// NewBadgerStorage opens a badger database in dir. An empty dir opens an
// in-memory database.
func NewBadgerStorage(dir string) (*BadgerStorage, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "could not open badger database")
	}
	s := &BadgerStorage{
		db:   db,
		stop: make(chan struct{}),
	}
	if dir != "" {
		go s.gc()
	}
	return s, nil
}

func (s *BadgerStorage) gc() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			for s.db.RunValueLogGC(0.7) == nil {
			}
		}
	}
}

func badgerKey(key string) []byte {
	return []byte(badgerKeyPrefix + key)
}

// Get implements the fiber.Storage interface
func (s *BadgerStorage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}
	var val []byte
	err := s.db.View(
		func(txn *badger.Txn) error {
			item, err := txn.Get(badgerKey(key))
			if err != nil {
				return err
			}
			val, err = item.ValueCopy(nil)
			return err
		},
	)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	return val, err
}

// Set implements the fiber.Storage interface
func (s *BadgerStorage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}
	return s.db.Update(
		func(txn *badger.Txn) error {
			e := badger.NewEntry(badgerKey(key), val)
			if exp > 0 {
				e = e.WithTTL(exp)
			}
			return txn.SetEntry(e)
		},
	)
}

// Delete implements the fiber.Storage interface
func (s *BadgerStorage) Delete(key string) error {
	if key == "" {
		return nil
	}
	return s.db.Update(
		func(txn *badger.Txn) error {
			return txn.Delete(badgerKey(key))
		},
	)
}

// Reset implements the fiber.Storage interface
func (s *BadgerStorage) Reset() error {
	return s.db.DropPrefix([]byte(badgerKeyPrefix))
}

// Close implements the fiber.Storage interface
func (s *BadgerStorage) Close() error {
	close(s.stop)
	return s.db.Close()
}
