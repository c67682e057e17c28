// Package checkpoint persists finished per-read-length phasing
// histograms so an interrupted run can resume without recounting.
package checkpoint

import (
	"encoding/json"
	"strconv"

	"github.com/op/go-logging"

	bolt "go.etcd.io/bbolt"
)

// log is the global logging variable.
var log = logging.MustGetLogger("checkpoint")

// phasingBucket is the bucket holding one record per read length.
var phasingBucket = []byte("phasing")

// Data is the stored state for one finished read length.
type Data struct {
	// Bins is the 3-bin phase histogram.
	Bins [3]float64 `json:"bins"`
	// Regions is the number of regions counted into the histogram.
	Regions int `json:"regions"`
	// Skipped is the number of regions skipped as malformed or short.
	Skipped int `json:"skipped"`
}

// IO saves and loads per-read-length checkpoints.
type IO struct {
	db *bolt.DB
}

// Open opens (creating if needed) a checkpoint database.
func Open(fn string) (*IO, error) {
	db, err := bolt.Open(fn, 0644, nil)
	if err != nil {
		return nil, err
	}
	return &IO{db: db}, nil
}

// Close closes the underlying database.
func (c *IO) Close() error {
	return c.db.Close()
}

// Save stores the finished histogram for a read length.
func (c *IO) Save(length int, data *Data) error {
	b, err := json.Marshal(data)
	if err != nil {
		log.Error("Error serializing checkpoint", err)
		return err
	}
	err = c.db.Update(func(tx *bolt.Tx) error {
		bkt, err := tx.CreateBucketIfNotExists(phasingBucket)
		if err != nil {
			return err
		}
		return bkt.Put(key(length), b)
	})
	if err != nil {
		log.Error("Error saving checkpoint", err)
	}
	return err
}

// Load returns the stored histogram for a read length, or nil if no
// checkpoint exists for it.
func (c *IO) Load(length int) (*Data, error) {
	var b []byte
	err := c.db.View(func(tx *bolt.Tx) error {
		bkt := tx.Bucket(phasingBucket)
		if bkt == nil {
			return nil
		}
		if v := bkt.Get(key(length)); v != nil {
			b = make([]byte, len(v))
			copy(b, v)
		}
		return nil
	})
	if err != nil || b == nil {
		return nil, err
	}
	var data Data
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, err
	}
	log.Noticef("Found finished checkpoint for read length %d (%d regions)", length, data.Regions)
	return &data, nil
}

func key(length int) []byte {
	return []byte(strconv.Itoa(length))
}
