package offline

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"khapey/internal/config"
	"khapey/internal/localstore"
)

// State is the worker's lifecycle phase.
type State int

const (
	StateInstalling State = iota
	StateWaiting
	StateActivating
	StateActive
)

func (s State) String() string {
	switch s {
	case StateInstalling:
		return "installing"
	case StateWaiting:
		return "waiting"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	}
	return "unknown"
}

// ErrIgnored marks requests the engine leaves to default handling.
var ErrIgnored = errors.New("offline: request ignored")

// Worker is the offline engine: it intercepts fetches, serves them
// under per-request strategies, and feeds failed mutations to the sync
// queue. Network and storage are injected so the whole thing runs
// without a browser runtime.
type Worker struct {
	cfg     config.OfflineConfig
	store   localstore.Store
	fetcher Fetcher
	bucket  *Bucket
	queue   *SyncQueue
	hub     Broadcaster
	log     *zap.SugaredLogger

	mu    sync.Mutex
	state State
}

func NewWorker(cfg config.OfflineConfig, store localstore.Store, fetcher Fetcher, hub Broadcaster, log *zap.SugaredLogger) *Worker {
	return &Worker{
		cfg:     cfg,
		store:   store,
		fetcher: fetcher,
		bucket:  NewBucket(cfg.CacheVersion, store),
		queue:   NewSyncQueue(store, fetcher, hub, cfg.SyncTagPrefix, log),
		hub:     hub,
		log:     log,
		state:   StateInstalling,
	}
}

func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Worker) Queue() *SyncQueue {
	return w.queue
}

func (w *Worker) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
	w.log.Infow("worker state changed", "state", s.String())
}

// --------------------------------------------------
// Lifecycle
// --------------------------------------------------

// Install precaches the app shell (including the offline fallback
// page) into the current bucket, then parks the worker in waiting.
// The existing instance keeps control of open clients until Activate.
func (w *Worker) Install(ctx context.Context) error {
	if w.State() != StateInstalling {
		return errors.Errorf("install from state %s", w.State())
	}

	for _, path := range w.cfg.ShellAssets {
		req := &Request{Method: http.MethodGet, URL: path, Navigate: true}
		resp, err := w.fetcher.Do(ctx, req)
		if err != nil {
			return errors.Wrapf(err, "precache %s", path)
		}
		if err := w.bucket.Put(req, resp); err != nil {
			return errors.Wrapf(err, "store precached %s", path)
		}
	}

	w.setState(StateWaiting)
	return nil
}

// Activate purges stale cache buckets and takes control of all open
// clients.
func (w *Worker) Activate(ctx context.Context) error {
	switch w.State() {
	case StateWaiting, StateActivating:
	default:
		return errors.Errorf("activate from state %s", w.State())
	}
	w.setState(StateActivating)

	if err := w.bucket.PurgeStale(); err != nil {
		return errors.Wrap(err, "purge stale buckets")
	}

	w.setState(StateActive)
	return nil
}

// HandleMessage processes one client message. A skip-waiting message
// moves a waiting worker straight to activation.
func (w *Worker) HandleMessage(ctx context.Context, msg Message) error {
	if msg.Type == MsgSkipWaiting && w.State() == StateWaiting {
		return w.Activate(ctx)
	}
	return nil
}

// HandleSync drains the queue for one sync event tag.
func (w *Worker) HandleSync(ctx context.Context, eventTag string) error {
	return w.queue.HandleSync(ctx, eventTag)
}

// --------------------------------------------------
// Fetch interception
// --------------------------------------------------

// HandleFetch serves one intercepted request under the strategy chosen
// for it. Returns ErrIgnored for requests the engine does not touch.
func (w *Worker) HandleFetch(ctx context.Context, req *Request) (*Response, error) {
	switch DecideStrategy(req, w.cfg) {
	case StrategyIgnore:
		return nil, ErrIgnored
	case StrategyPassThrough:
		return w.passThrough(ctx, req)
	case StrategyNetworkFirst:
		return w.networkFirst(ctx, req)
	case StrategyNavigation:
		return w.navigation(ctx, req)
	default:
		return w.cacheFirst(ctx, req)
	}
}

// passThrough sends mutating requests straight to the network. When the
// network is down the request is queued for background sync before the
// failure is propagated.
func (w *Worker) passThrough(ctx context.Context, req *Request) (*Response, error) {
	resp, err := w.fetcher.Do(ctx, req)
	if err != nil {
		if _, qerr := w.queue.Enqueue(req, w.tagFor(req)); qerr != nil {
			w.log.Warnw("failed to queue offline mutation", "url", req.URL, "err", qerr)
		}
		return nil, err
	}
	return resp, nil
}

func (w *Worker) networkFirst(ctx context.Context, req *Request) (*Response, error) {
	resp, err := w.fetcher.Do(ctx, req)
	if err == nil {
		w.cachePut(req, resp)
		return resp, nil
	}

	cached, cerr := w.bucket.Match(req)
	if cerr == nil && cached != nil {
		w.log.Debugw("serving api response from cache", "url", req.URL)
		return cached, nil
	}
	return nil, err
}

func (w *Worker) navigation(ctx context.Context, req *Request) (*Response, error) {
	resp, err := w.fetcher.Do(ctx, req)
	if err == nil {
		w.cachePut(req, resp)
		return resp, nil
	}

	offline, cerr := w.offlinePage()
	if cerr == nil && offline != nil {
		return offline, nil
	}
	return nil, err
}

func (w *Worker) cacheFirst(ctx context.Context, req *Request) (*Response, error) {
	cached, cerr := w.bucket.Match(req)
	if cerr == nil && cached != nil {
		return cached, nil
	}
	if cerr != nil {
		w.log.Warnw("cache lookup failed", "url", req.URL, "err", cerr)
	}

	resp, err := w.fetcher.Do(ctx, req)
	if err == nil {
		w.cachePut(req, resp)
		return resp, nil
	}

	if req.Navigate {
		offline, oerr := w.offlinePage()
		if oerr == nil && offline != nil {
			return offline, nil
		}
	}
	return nil, err
}

// cachePut is best-effort: a cache write failure never breaks the
// response being served.
func (w *Worker) cachePut(req *Request, resp *Response) {
	if err := w.bucket.Put(req, resp); err != nil {
		w.log.Warnw("cache write failed", "url", req.URL, "err", err)
	}
}

func (w *Worker) offlinePage() (*Response, error) {
	return w.bucket.Match(&Request{
		Method:   http.MethodGet,
		URL:      w.cfg.OfflinePath,
		Navigate: true,
	})
}

// tagFor groups a queued mutation by the API resource it targets.
func (w *Worker) tagFor(req *Request) string {
	if idx := strings.Index(req.URL, w.cfg.APIPathSegment); idx >= 0 {
		rest := req.URL[idx+len(w.cfg.APIPathSegment):]
		if cut := strings.IndexAny(rest, "/?"); cut >= 0 {
			rest = rest[:cut]
		}
		if rest != "" {
			return rest
		}
	}
	return "mutations"
}
