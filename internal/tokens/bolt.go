package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"bonnetje/internal/core"
)

const boltBucket = "session"

// BoltStore keeps the token slot in a bbolt file. Single bucket, single key.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(ctx context.Context) (*core.TokenPair, error) {
	var pair *core.TokenPair
	err := s.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket([]byte(boltBucket)).Get([]byte(SlotName))
		if raw == nil {
			return nil
		}
		pair = &core.TokenPair{}
		return json.Unmarshal(raw, pair)
	})
	if err != nil {
		return nil, fmt.Errorf("load token slot: %w", err)
	}
	return pair, nil
}

func (s *BoltStore) Save(ctx context.Context, pair *core.TokenPair) error {
	raw, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("encode token pair: %w", err)
	}
	err = s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(SlotName), raw)
	})
	if err != nil {
		return fmt.Errorf("save token slot: %w", err)
	}
	return nil
}

func (s *BoltStore) Clear(ctx context.Context) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Delete([]byte(SlotName))
	})
	if err != nil {
		return fmt.Errorf("clear token slot: %w", err)
	}
	return nil
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
