package invoice

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	credentialBucketName = "credentials"
	apiKeyName           = "api_key"
)

// BoltKeyStore implements the KeyStore interface using BoltDB. The database
// holds exactly one slot: the provider API key. Saving the same key twice
// overwrites the slot, so validation stays idempotent.
type BoltKeyStore struct {
	db *bbolt.DB
}

// NewBoltKeyStore creates a new BoltKeyStore instance
func NewBoltKeyStore(path string) (*BoltKeyStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(credentialBucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltKeyStore{db: db}, nil
}

// LoadKey returns the persisted API key, or "" when none is stored
func (b *BoltKeyStore) LoadKey() (string, error) {
	var key string
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(credentialBucketName))
		if data := bucket.Get([]byte(apiKeyName)); data != nil {
			key = string(data)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("reading key: %w", err)
	}
	return key, nil
}

// SaveKey stores the API key, replacing any previous value
func (b *BoltKeyStore) SaveKey(key string) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(credentialBucketName))
		return bucket.Put([]byte(apiKeyName), []byte(key))
	})
}

// Close closes the database
func (b *BoltKeyStore) Close() error {
	return b.db.Close()
}
