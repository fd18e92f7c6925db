package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mapleship/regions-backend/internal/cache"
	"github.com/mapleship/regions-backend/internal/domain"
	"github.com/mapleship/regions-backend/pkg/logger"
)

// RemoteStore is the slice of the remote client the engine depends on.
type RemoteStore interface {
	Ping(ctx context.Context) error
	FetchRegions(ctx context.Context) (domain.RegionMap, error)
	SaveRegions(ctx context.Context, regions domain.RegionMap) error
}

// EventSink receives engine-originated state-change events.
type EventSink interface {
	Notify(event domain.Event)
}

// Deps are the engine's injected collaborators.
type Deps struct {
	Remote   RemoteStore
	KV       cache.KV
	Events   EventSink
	CacheTTL time.Duration
}

// Engine implements cloud-first synchronization of the region map: the
// remote store is authoritative, the durable local cache is a fallback, and
// writes that cannot reach the remote are queued for FIFO replay.
//
// The engine never retries on its own. A timeout or network failure triggers
// the fallback chain (reads) or the offline queue (writes); retry is caller
// initiated through ForceSync or a reconnect signal.
type Engine struct {
	remote RemoteStore
	kv     cache.KV
	events EventSink
	ttl    time.Duration

	queue *queue

	// drainMu serializes queue draining; concurrent drains would interleave
	// the peek/replay/dequeue loop and replay snapshots out of order.
	drainMu sync.Mutex

	mu         sync.Mutex
	status     Status
	online     bool
	lastSync   *time.Time
	memRegions domain.RegionMap
	memFetched time.Time
}

func New(deps Deps) *Engine {
	ttl := deps.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Engine{
		remote: deps.Remote,
		kv:     deps.KV,
		events: deps.Events,
		ttl:    ttl,
		queue:  newQueue(deps.KV),
		status: StatusLoading,
	}
}

// Init restores the persisted offline queue and probes remote reachability
// once. A failed probe leaves the engine offline; subsequent reads re-probe
// implicitly by attempting the remote fetch.
func (e *Engine) Init(ctx context.Context) {
	e.queue.load(ctx)

	if err := e.remote.Ping(ctx); err != nil {
		logger.Info("region store unreachable, starting offline", zap.Error(err))
		e.setConnectivity(false, StatusOffline)
		return
	}

	e.setConnectivity(true, StatusSynced)
	logger.Info("region store reachable")

	if _, err := e.GetAll(ctx); err != nil {
		logger.Warn("initial region sync failed", zap.Error(err))
	}
}

// Shutdown flushes nothing beyond what each mutation already persisted; it
// exists so owners can pair it with Init in their lifecycle.
func (e *Engine) Shutdown(ctx context.Context) {
	e.setConnectivity(false, StatusOffline)
}

// GetAll returns the region map, cloud-first: a live remote copy when
// reachable, otherwise the freshest fallback tier (TTL cache, durable cache,
// synthesized defaults). The returned data does not flag its own staleness;
// callers needing freshness must inspect Status separately.
func (e *Engine) GetAll(ctx context.Context) (domain.RegionMap, error) {
	if e.IsOnline() {
		e.setStatus(StatusSyncing)

		regions, err := e.remote.FetchRegions(ctx)
		if err == nil {
			e.persistLocal(ctx, regions)
			e.storeMemCache(regions)
			e.markSynced()
			return regions.Clone(), nil
		}

		logger.Warn("remote fetch failed, serving fallback data", zap.Error(err))
		e.setStatus(StatusError)
	}

	if regions, ok := e.freshMemCache(); ok {
		return regions, nil
	}

	if regions, err := e.loadLocal(ctx); err == nil {
		return regions, nil
	}

	defaults := domain.DefaultRegionMap(time.Now().UTC())
	e.persistLocal(ctx, defaults)
	if e.IsOnline() {
		// Best effort: seed the remote store so other consumers see the
		// same defaults.
		if err := e.remote.SaveRegions(ctx, defaults); err != nil {
			logger.Warn("seeding defaults to region store failed", zap.Error(err))
		}
	}
	return defaults, nil
}

// SaveAll commits the map locally first, then writes through to the remote
// store. A failed or impossible remote write appends a whole-map snapshot to
// the offline queue; the local commit still counts as success.
func (e *Engine) SaveAll(ctx context.Context, regions domain.RegionMap) error {
	e.persistLocal(ctx, regions)
	e.storeMemCache(regions)

	if e.IsOnline() {
		e.setStatus(StatusSyncing)

		if err := e.remote.SaveRegions(ctx, regions); err == nil {
			e.markSynced()
			return nil
		} else {
			logger.Warn("remote save failed, queueing operation", zap.Error(err))
		}
	}

	if err := e.queue.append(ctx, regions); err != nil {
		e.setStatus(StatusError)
		return fmt.Errorf("defer save failed: %w", err)
	}
	e.setStatus(StatusPending)
	return nil
}

// HandleReconnect marks the engine online and drains the offline queue in
// FIFO order. The first replay failure halts draining so later snapshots
// never overtake earlier ones.
func (e *Engine) HandleReconnect(ctx context.Context) {
	e.setConnectivity(true, e.statusForQueue())
	e.DrainQueue(ctx)
}

// HandleDisconnect marks the engine offline.
func (e *Engine) HandleDisconnect() {
	e.setConnectivity(false, StatusOffline)
	logger.Info("entering offline mode")
}

// DrainQueue replays deferred operations strictly in enqueue order. Only one
// drain runs at a time; a drain triggered while another is in flight waits
// and then finds whatever the first one left behind.
func (e *Engine) DrainQueue(ctx context.Context) {
	e.drainMu.Lock()
	defer e.drainMu.Unlock()

	if !e.IsOnline() || e.queue.len() == 0 {
		return
	}

	logger.Info("draining offline queue", zap.Int("pending", e.queue.len()))
	e.setStatus(StatusSyncing)

	drained := 0
	for {
		op, ok := e.queue.peek()
		if !ok {
			break
		}
		if err := e.remote.SaveRegions(ctx, op.Regions); err != nil {
			logger.Warn("offline queue replay halted",
				zap.String("operation_id", op.ID), zap.Error(err))
			e.setStatus(StatusPending)
			return
		}
		if err := e.queue.dequeue(ctx); err != nil {
			logger.Error("dropping replayed operation failed", zap.Error(err))
		}
		drained++
	}

	e.markSynced()
	logger.Info("offline queue drained", zap.Int("replayed", drained))
	e.notify(domain.DataOperationEvent{
		Operation: "queueDrain",
		Result:    map[string]int{"replayed": drained},
		Timestamp: time.Now().UTC(),
	})
}

// ForceSync is the caller-triggered refresh: re-fetch the remote map and
// drain the queue. It fails fast while offline instead of silently doing
// nothing.
func (e *Engine) ForceSync(ctx context.Context) error {
	if !e.IsOnline() {
		return domain.ErrOffline
	}

	regions, err := e.remote.FetchRegions(ctx)
	if err != nil {
		e.setStatus(StatusError)
		return fmt.Errorf("force sync fetch failed: %w", err)
	}
	e.persistLocal(ctx, regions)
	e.storeMemCache(regions)
	e.markSynced()

	e.DrainQueue(ctx)
	e.notify(domain.GlobalRefreshEvent{Timestamp: time.Now().UTC()})
	return nil
}

// Probe pings the remote store and flips connectivity on transitions. Used
// by the periodic background probe.
func (e *Engine) Probe(ctx context.Context) {
	wasOnline := e.IsOnline()
	if err := e.remote.Ping(ctx); err != nil {
		if wasOnline {
			e.HandleDisconnect()
		}
		return
	}
	if !wasOnline {
		logger.Info("connectivity restored")
		e.HandleReconnect(ctx)
	}
}

// Status reports the engine state snapshot.
func (e *Engine) Status() StatusInfo {
	e.mu.Lock()
	defer e.mu.Unlock()

	info := StatusInfo{
		Status:            e.status,
		IsOnline:          e.online,
		PendingOperations: e.queue.len(),
	}
	if e.lastSync != nil {
		t := *e.lastSync
		info.LastSyncTime = &t
	}
	return info
}

// IsOnline reports whether the remote store is believed reachable.
func (e *Engine) IsOnline() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

func (e *Engine) setStatus(s Status) {
	e.mu.Lock()
	e.status = s
	e.mu.Unlock()
}

func (e *Engine) setConnectivity(online bool, s Status) {
	e.mu.Lock()
	e.online = online
	e.status = s
	e.mu.Unlock()
}

func (e *Engine) markSynced() {
	now := time.Now().UTC()
	e.mu.Lock()
	e.status = StatusSynced
	e.lastSync = &now
	e.mu.Unlock()

	data, err := json.Marshal(now)
	if err == nil {
		if err := e.kv.Set(context.Background(), cache.KeyLastSync, data); err != nil {
			logger.Warn("recording last sync time failed", zap.Error(err))
		}
	}
}

func (e *Engine) statusForQueue() Status {
	if e.queue.len() > 0 {
		return StatusPending
	}
	return StatusSynced
}

func (e *Engine) storeMemCache(regions domain.RegionMap) {
	e.mu.Lock()
	e.memRegions = regions.Clone()
	e.memFetched = time.Now()
	e.mu.Unlock()
}

func (e *Engine) freshMemCache() (domain.RegionMap, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.memRegions == nil || time.Since(e.memFetched) > e.ttl {
		return nil, false
	}
	return e.memRegions.Clone(), true
}

func (e *Engine) persistLocal(ctx context.Context, regions domain.RegionMap) {
	data, err := json.Marshal(regions)
	if err != nil {
		logger.Error("marshal region map for durable cache failed", zap.Error(err))
		return
	}
	if err := e.kv.Set(ctx, cache.KeyRegionData, data); err != nil {
		logger.Error("durable cache write failed", zap.Error(err))
	}
}

// loadLocal reads the durable cache tier. A corrupt payload counts as a miss
// and falls through to the next tier.
func (e *Engine) loadLocal(ctx context.Context) (domain.RegionMap, error) {
	data, err := e.kv.Get(ctx, cache.KeyRegionData)
	if err != nil {
		return nil, err
	}
	var regions domain.RegionMap
	if err := json.Unmarshal(data, &regions); err != nil {
		logger.Warn("corrupt durable cache payload, treating as miss", zap.Error(err))
		return nil, fmt.Errorf("decode durable cache payload: %w", err)
	}
	return regions, nil
}

func (e *Engine) notify(event domain.Event) {
	if e.events != nil {
		e.events.Notify(event)
	}
}
