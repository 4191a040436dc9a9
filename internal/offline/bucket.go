package offline

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"

	"khapey/internal/localstore"
)

const bucketPrefix = "cache:"

// cacheEntry is the stored form of a Response.
type cacheEntry struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// Bucket is one versioned cache of network responses, keyed by request
// identity. A new deploy ships a new version; stale versions are purged
// on activation.
type Bucket struct {
	version string
	store   localstore.Store
}

func NewBucket(version string, store localstore.Store) *Bucket {
	return &Bucket{version: version, store: store}
}

func (b *Bucket) collection() string {
	return bucketPrefix + b.version
}

// Put stores a response under the request identity. Only successful
// responses are cached; anything else is silently skipped.
func (b *Bucket) Put(req *Request, resp *Response) error {
	if !resp.OK() {
		return nil
	}

	data, err := json.Marshal(cacheEntry{
		Status: resp.Status,
		Header: resp.Header,
		Body:   resp.Body,
	})
	if err != nil {
		return errors.Wrap(err, "encode cache entry")
	}

	return b.store.Put(b.collection(), &localstore.Record{
		ID:       req.Key(),
		Data:     data,
		StoredAt: time.Now(),
	})
}

// Match returns the cached response for the request identity, or nil.
func (b *Bucket) Match(req *Request) (*Response, error) {
	rec, err := b.store.Get(b.collection(), req.Key())
	if err != nil {
		if errors.Is(err, localstore.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entry cacheEntry
	if err := json.Unmarshal(rec.Data, &entry); err != nil {
		return nil, errors.Wrap(err, "decode cache entry")
	}

	return &Response{Status: entry.Status, Header: entry.Header, Body: entry.Body}, nil
}

// PurgeStale drops every cache bucket whose version differs from this
// bucket's version.
func (b *Bucket) PurgeStale() error {
	names, err := b.store.Collections()
	if err != nil {
		return err
	}
	for _, name := range names {
		if !strings.HasPrefix(name, bucketPrefix) {
			continue
		}
		if name == b.collection() {
			continue
		}
		if err := b.store.DropCollection(name); err != nil {
			return err
		}
	}
	return nil
}
