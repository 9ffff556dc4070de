package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/subplayer/mediacore/encoding/json"

	"go.etcd.io/bbolt"
)

var bucketName = []byte("probe")

// Cache stores probe results on disk. An entry is only valid as long as the
// modification time and the size of the file didn't change.
type Cache struct {
	db *bbolt.DB
}

// OpenCache opens or creates the cache at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{
		Timeout: time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Cache{db: db}, nil
}

func cacheKey(path string, stat os.FileInfo) []byte {
	return []byte(path + "|" + strconv.FormatInt(stat.ModTime().UnixNano(), 10) + "|" + strconv.FormatInt(stat.Size(), 10))
}

// Get returns the cached result for the file.
func (c *Cache) Get(path string, stat os.FileInfo) (*Result, bool) {
	var data []byte

	c.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket(bucketName).Get(cacheKey(path, stat)); v != nil {
			data = append([]byte{}, v...)
		}

		return nil
	})

	if data == nil {
		return nil, false
	}

	result := &Result{}
	if err := json.Unmarshal(data, result); err != nil {
		return nil, false
	}

	return result, true
}

// Put stores the result for the file.
func (c *Cache) Put(path string, stat os.FileInfo, result *Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put(cacheKey(path, stat), data)
	})
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	n := 0

	c.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketName).Stats().KeyN
		return nil
	})

	return n
}

func (c *Cache) Close() error {
	return c.db.Close()
}
