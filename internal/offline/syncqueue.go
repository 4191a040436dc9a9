package offline

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"khapey/internal/localstore"
)

// SyncQueue durably remembers mutating requests that failed while
// offline and replays them when a sync event arrives.
type SyncQueue struct {
	store     localstore.Store
	fetcher   Fetcher
	hub       Broadcaster
	tagPrefix string
	log       *zap.SugaredLogger
}

func NewSyncQueue(store localstore.Store, fetcher Fetcher, hub Broadcaster, tagPrefix string, log *zap.SugaredLogger) *SyncQueue {
	return &SyncQueue{
		store:     store,
		fetcher:   fetcher,
		hub:       hub,
		tagPrefix: tagPrefix,
		log:       log,
	}
}

// Enqueue records a failed mutating request under the given tag.
func (q *SyncQueue) Enqueue(req *Request, tag string) (int64, error) {
	item := &localstore.QueueItem{
		Tag:       tag,
		URL:       req.URL,
		Method:    req.Method,
		Body:      req.Body,
		Timestamp: time.Now(),
	}
	id, err := q.store.Enqueue(item)
	if err != nil {
		return 0, errors.Wrap(err, "enqueue sync item")
	}
	q.log.Infow("queued request for background sync", "id", id, "tag", tag, "url", req.URL)
	return id, nil
}

// Pending lists the queued items waiting under a tag.
func (q *SyncQueue) Pending(tag string) ([]*localstore.QueueItem, error) {
	return q.store.ItemsByTag(tag)
}

// HandleSync processes one sync event. Tags outside the sync namespace
// are ignored. A failed replay leaves the item queued for the next
// event; a store failure aborts the whole batch with no notification.
func (q *SyncQueue) HandleSync(ctx context.Context, eventTag string) error {
	if !strings.HasPrefix(eventTag, q.tagPrefix) {
		return nil
	}
	tag := strings.TrimPrefix(eventTag, q.tagPrefix)

	items, err := q.store.ItemsByTag(tag)
	if err != nil {
		return errors.Wrapf(err, "read sync queue for tag %q", tag)
	}

	for _, item := range items {
		if err := q.replay(ctx, item); err != nil {
			// leave it queued; the next sync event retries
			q.log.Warnw("sync replay failed", "id", item.ID, "url", item.URL, "err", err)
			continue
		}
		if err := q.store.DeleteItem(item.ID); err != nil {
			q.log.Warnw("failed to remove replayed sync item", "id", item.ID, "err", err)
		}
	}

	q.hub.Broadcast(Message{
		Type:      MsgSyncCompleted,
		Tag:       tag,
		Timestamp: time.Now(),
	})
	return nil
}

func (q *SyncQueue) replay(ctx context.Context, item *localstore.QueueItem) error {
	req := &Request{
		Method: item.Method,
		URL:    item.URL,
		Body:   item.Body,
	}
	resp, err := q.fetcher.Do(ctx, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return errors.Errorf("replay returned status %d", resp.Status)
	}
	return nil
}
