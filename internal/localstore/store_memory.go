package localstore

import (
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps every collection in process memory. It is the only
// backend the engines need: the portal's local database is rebuilt from
// the network on a fresh start anyway.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*Record
	queue       map[int64]*QueueItem
	tagIndex    map[string][]int64
	nextID      int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]*Record),
		queue:       make(map[int64]*QueueItem),
		tagIndex:    make(map[string][]int64),
		nextID:      1,
	}
}

func (s *MemoryStore) Get(collection, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	recs, ok := s.collections[collection]
	if !ok {
		return nil, ErrNotFound
	}
	rec, ok := recs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return rec, nil
}

func (s *MemoryStore) Put(collection string, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.StoredAt.IsZero() {
		rec.StoredAt = time.Now()
	}
	recs, ok := s.collections[collection]
	if !ok {
		recs = make(map[string]*Record)
		s.collections[collection] = recs
	}
	recs[rec.ID] = rec
	return nil
}

func (s *MemoryStore) Delete(collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if recs, ok := s.collections[collection]; ok {
		delete(recs, id)
	}
	return nil
}

func (s *MemoryStore) List(collection string) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*Record
	for _, rec := range s.collections[collection] {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Collections() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []string
	for name := range s.collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *MemoryStore) DropCollection(collection string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections, collection)
	return nil
}

// --------------------------------------------------
// Sync queue (auto-increment key + tag index)
// --------------------------------------------------

func (s *MemoryStore) Enqueue(item *QueueItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item.ID = s.nextID
	s.nextID++
	if item.Timestamp.IsZero() {
		item.Timestamp = time.Now()
	}
	s.queue[item.ID] = item
	s.tagIndex[item.Tag] = append(s.tagIndex[item.Tag], item.ID)
	return item.ID, nil
}

func (s *MemoryStore) ItemsByTag(tag string) ([]*QueueItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*QueueItem
	for _, id := range s.tagIndex[tag] {
		if item, ok := s.queue[id]; ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func (s *MemoryStore) DeleteItem(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.queue[id]
	if !ok {
		return nil
	}
	delete(s.queue, id)

	ids := s.tagIndex[item.Tag]
	for i, v := range ids {
		if v == id {
			s.tagIndex[item.Tag] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}
