package scratch

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore is a Store persisted in an embedded Badger database, so notes
// survive process restarts between work resumptions.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens (or creates) a Badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening scratch store at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Get implements Store.
func (s *BadgerStore) Get(_ context.Context, namespace, key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storageKey(namespace, key))
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		value = string(raw)
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("reading %s/%s: %w", namespace, key, err)
	}
	return value, nil
}

// Put implements Store.
func (s *BadgerStore) Put(_ context.Context, namespace, key, value string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(storageKey(namespace, key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("writing %s/%s: %w", namespace, key, err)
	}
	return nil
}

// storageKey joins namespace and key with a separator no caller-supplied
// namespace may contain ambiguity over, since namespaces are session ids.
func storageKey(namespace, key string) []byte {
	return []byte(namespace + "\x00" + key)
}
