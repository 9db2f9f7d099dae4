// ABOUTME: Badger-backed key-value store, the default storage driver.
// ABOUTME: Opening retries while another promptlib process holds the directory lock.

package kv

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"
)

// BadgerStore persists values in a badger database directory.
type BadgerStore struct {
	db *badger.DB
}

// BadgerOptions tunes OpenBadger.
type BadgerOptions struct {
	Attempts uint
	Delay    time.Duration
	Logger   *zap.Logger
}

// OpenBadger opens (creating if needed) a badger database in dir.
func OpenBadger(dir string, o BadgerOptions) (*BadgerStore, error) {
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.Attempts == 0 {
		o.Attempts = 1
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	opts := badger.DefaultOptions(dir).
		WithSyncWrites(true).
		WithLogger(badgerLogger{o.Logger.Sugar()})

	var db *badger.DB
	err := retry.Do(
		func() error {
			var err error
			db, err = badger.Open(opts)
			return err
		},
		retry.Attempts(o.Attempts),
		retry.Delay(o.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			o.Logger.Warn("badger open failed, retrying", zap.Uint("attempt", n+1), zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", dir, err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Get(key string) ([]byte, error) {
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	return val, err
}

func (b *BadgerStore) Set(key string, value []byte) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}

// badgerLogger routes badger's internal logging into zap.
type badgerLogger struct {
	s *zap.SugaredLogger
}

func (l badgerLogger) Errorf(f string, v ...interface{})   { l.s.Errorf(f, v...) }
func (l badgerLogger) Warningf(f string, v ...interface{}) { l.s.Warnf(f, v...) }
func (l badgerLogger) Infof(f string, v ...interface{})    { l.s.Debugf(f, v...) }
func (l badgerLogger) Debugf(f string, v ...interface{})   { l.s.Debugf(f, v...) }

var _ Store = (*BadgerStore)(nil)
