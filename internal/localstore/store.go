package localstore

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// Logical collections mirroring the portal's local database stores.
const (
	CollectionDashboard = "dashboard-cache"
	CollectionReviews   = "reviews-cache"
	CollectionDiscounts = "discounts-cache"
)

var ErrNotFound = errors.New("localstore: record not found")

// Record is one entry in an id-keyed collection.
type Record struct {
	ID       string          `json:"id"`
	Data     json.RawMessage `json:"data"`
	StoredAt time.Time       `json:"storedAt"`
}

// QueueItem is one entry in the sync queue. The id is assigned by the
// store on Enqueue.
type QueueItem struct {
	ID        int64           `json:"id"`
	Tag       string          `json:"tag"`
	URL       string          `json:"url"`
	Method    string          `json:"method"`
	Body      json.RawMessage `json:"body,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Store is the data-access contract for the local structured store.
// Every call is one transaction; there is no atomicity across calls.
type Store interface {
	Get(collection, id string) (*Record, error)
	Put(collection string, rec *Record) error
	Delete(collection, id string) error
	List(collection string) ([]*Record, error)
	Collections() ([]string, error)
	DropCollection(collection string) error

	Enqueue(item *QueueItem) (int64, error)
	ItemsByTag(tag string) ([]*QueueItem, error)
	DeleteItem(id int64) error
}
