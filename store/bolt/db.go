package bolt

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/shiroyk/crumb/internal/clock"
	"github.com/shiroyk/crumb/lib/logger"
	"go.etcd.io/bbolt"
)

const (
	defaultBatchSize = 100000
	// DefaultPath the default database directory
	DefaultPath      = "cookie"
	defaultInterval  = 10 * time.Minute
	defaultKeysClean = 64
	fillPercent      = 0.9
)

var (
	expireBucketName = []byte("expire")
	// ErrKeyNotFound not found the key
	ErrKeyNotFound = errors.New("key not found")
)

// DB a bbolt.DB instance with a bucket for values and a bucket for
// the expiry deadline of each key.
type DB struct {
	bucketName []byte
	db         *bbolt.DB
	interval   time.Duration
	clock      clock.Clock
	closedC    chan struct{}
}

// Option configures a DB or a Store.
type Option func(*options)

type options struct {
	clock clock.Clock
}

// WithClock sets the time source deadlines are checked against.
func WithClock(c clock.Clock) Option {
	return func(o *options) { o.clock = c }
}

func newOptions(opts []Option) options {
	o := options{clock: clock.Real{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewDB creates a new DB instance.
// If interval is above 0, expired keys are swept on that interval.
func NewDB(path, name string, interval time.Duration, opts ...Option) (*DB, error) {
	o := newOptions(opts)
	if path == "" {
		path = DefaultPath
	}
	err := os.MkdirAll(path, 0o700)
	if err != nil {
		return nil, err
	}
	db, err := bbolt.Open(filepath.Join(path, name), 0o600, &bbolt.Options{
		Timeout:         1 * time.Second,
		InitialMmapSize: 1024,
	})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err = tx.CreateBucketIfNotExists([]byte(name)); err != nil {
			return err
		}
		if _, err = tx.CreateBucketIfNotExists(expireBucketName); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	c := &DB{
		bucketName: []byte(name),
		interval:   interval,
		clock:      o.clock,
		db:         db,
		closedC:    make(chan struct{}),
	}
	go c.expire()
	return c, nil
}

// Put method writes kv according to the bucket.
func (db *DB) Put(key, value []byte) (err error) {
	return db.PutWithTimeout(key, value, 0)
}

// PutWithTimeout method writes kv with timeout according to the bucket.
// A timeout of 0 clears any previous deadline of the key.
func (db *DB) PutWithTimeout(key, value []byte, timeout time.Duration) (err error) {
	return db.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(db.bucketName).Put(key, value); err != nil {
			return err
		}
		expireBucket := tx.Bucket(expireBucketName)
		if timeout <= 0 {
			return expireBucket.Delete(key)
		}
		// put the deadline to expire bucket
		buf := new(bytes.Buffer)
		if err := binary.Write(buf, binary.BigEndian, db.clock.Now().Add(timeout).Unix()); err != nil {
			return err
		}
		return expireBucket.Put(key, buf.Bytes())
	})
}

// Get reads the value from the bucket with key.
func (db *DB) Get(key []byte) (value []byte, err error) {
	err = db.db.View(func(tx *bbolt.Tx) error {
		if expired(tx.Bucket(expireBucketName).Get(key), db.clock.Now().Unix()) {
			return ErrKeyNotFound
		}
		v := tx.Bucket(db.bucketName).Get(key)
		if v == nil {
			return ErrKeyNotFound
		}
		value = bytes.Clone(v)
		return nil
	})
	return
}

// ForEach calls fn for every unexpired key in key order.
// The slices are only valid during the call.
func (db *DB) ForEach(fn func(key, value []byte) error) error {
	return db.db.View(func(tx *bbolt.Tx) error {
		now := db.clock.Now().Unix()
		expireBucket := tx.Bucket(expireBucketName)
		return tx.Bucket(db.bucketName).ForEach(func(k, v []byte) error {
			if expired(expireBucket.Get(k), now) {
				return nil
			}
			return fn(k, v)
		})
	})
}

// Delete a specified key from DB.
func (db *DB) Delete(key []byte) error {
	return db.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.Bucket(expireBucketName).Delete(key); err != nil {
			return err
		}
		return tx.Bucket(db.bucketName).Delete(key)
	})
}

// DeleteBatch delete data in batch.
func (db *DB) DeleteBatch(keys [][]byte) error {
	batchLoopNum := len(keys) / defaultBatchSize
	if len(keys)%defaultBatchSize > 0 {
		batchLoopNum++
	}

	for batchIdx := 0; batchIdx < batchLoopNum; batchIdx++ {
		offset := batchIdx * defaultBatchSize
		tx, err := db.db.Begin(true)
		if err != nil {
			return err
		}
		bucket := tx.Bucket(db.bucketName)
		bucket.FillPercent = fillPercent
		expireBucket := tx.Bucket(expireBucketName)
		for itemIdx := offset; itemIdx < offset+defaultBatchSize && itemIdx < len(keys); itemIdx++ {
			key := keys[itemIdx]
			if err = bucket.Delete(key); err != nil {
				_ = tx.Rollback()
				return err
			}
			if err = expireBucket.Delete(key); err != nil {
				_ = tx.Rollback()
				return err
			}
		}
		if err = tx.Commit(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database.
func (db *DB) Close() error {
	close(db.closedC)
	if err := db.db.Sync(); err != nil {
		return err
	}
	return db.db.Close()
}

func expired(deadline []byte, now int64) bool {
	if len(deadline) != 8 {
		return false
	}
	return now >= int64(binary.BigEndian.Uint64(deadline))
}

// expire timing scan the expired keys and delete them.
func (db *DB) expire() {
	if db.interval <= 0 {
		return
	}
	ticker := time.NewTicker(db.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := db.sweep(defaultKeysClean); err != nil {
				logger.Errorf("error cleaning expired keys %s", err)
			}
		case <-db.closedC:
			return
		}
	}
}

// sweep deletes the expired keys once at least threshold keys carry a deadline.
func (db *DB) sweep(threshold int) error {
	var deletedKeys [][]byte
	err := db.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(expireBucketName)
		if bucket.Stats().KeyN < threshold {
			return nil
		}
		now := db.clock.Now().Unix()
		cursor := bucket.Cursor()
		for realKey, ddl := cursor.First(); realKey != nil; realKey, ddl = cursor.Next() {
			if expired(ddl, now) {
				deletedKeys = append(deletedKeys, bytes.Clone(realKey))
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return db.DeleteBatch(deletedKeys)
}
