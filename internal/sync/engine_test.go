package sync

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mapleship/regions-backend/internal/cache"
	"github.com/mapleship/regions-backend/internal/domain"
)

type fakeRemote struct {
	mu        sync.Mutex
	regions   domain.RegionMap
	down      bool
	failTh    int // fail the first N SaveRegions calls
	saveDelay time.Duration
	saves     []domain.RegionMap
	fetches   int
}

var errUnreachable = errors.New("dial tcp: i/o timeout")

func (f *fakeRemote) Ping(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errUnreachable
	}
	return nil
}

func (f *fakeRemote) FetchRegions(ctx context.Context) (domain.RegionMap, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return nil, errUnreachable
	}
	f.fetches++
	return f.regions.Clone(), nil
}

func (f *fakeRemote) SaveRegions(ctx context.Context, regions domain.RegionMap) error {
	if f.saveDelay > 0 {
		time.Sleep(f.saveDelay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return errUnreachable
	}
	if f.failTh > 0 {
		f.failTh--
		return errUnreachable
	}
	f.regions = regions.Clone()
	f.saves = append(f.saves, regions.Clone())
	return nil
}

func (f *fakeRemote) setDown(down bool) {
	f.mu.Lock()
	f.down = down
	f.mu.Unlock()
}

func (f *fakeRemote) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *eventRecorder) Notify(event domain.Event) {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
}

func (r *eventRecorder) byType(eventType string) []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Event
	for _, e := range r.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

func regionMapFixture(name string) domain.RegionMap {
	return domain.RegionMap{
		"1": {
			ID: "1", Name: name, IsActive: true,
			PostalCodes:  []string{"M5V"},
			WeightRanges: domain.DefaultWeightRanges(),
		},
	}
}

func newTestEngine(t *testing.T, remote *fakeRemote) (*Engine, *cache.MemoryKV, *eventRecorder) {
	t.Helper()
	kv := cache.NewMemoryKV()
	events := &eventRecorder{}
	engine := New(Deps{Remote: remote, KV: kv, Events: events, CacheTTL: time.Minute})
	return engine, kv, events
}

func TestInitOnline(t *testing.T) {
	remote := &fakeRemote{regions: regionMapFixture("cloud")}
	engine, kv, _ := newTestEngine(t, remote)

	engine.Init(context.Background())

	assert.True(t, engine.IsOnline())
	info := engine.Status()
	assert.Equal(t, StatusSynced, info.Status)
	require.NotNil(t, info.LastSyncTime)

	// the initial sync lands in the durable cache
	_, err := kv.Get(context.Background(), cache.KeyRegionData)
	assert.NoError(t, err)
	_, err = kv.Get(context.Background(), cache.KeyLastSync)
	assert.NoError(t, err)
}

func TestInitOffline(t *testing.T) {
	remote := &fakeRemote{down: true}
	engine, _, _ := newTestEngine(t, remote)

	engine.Init(context.Background())

	assert.False(t, engine.IsOnline())
	assert.Equal(t, StatusOffline, engine.Status().Status)
}

func TestGetAllOnlineRefreshes(t *testing.T) {
	remote := &fakeRemote{regions: regionMapFixture("v1")}
	engine, _, _ := newTestEngine(t, remote)
	engine.Init(context.Background())

	remote.mu.Lock()
	remote.regions = regionMapFixture("v2")
	remote.mu.Unlock()

	regions, err := engine.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "v2", regions["1"].Name, "online reads always hit the remote")
	assert.Equal(t, StatusSynced, engine.Status().Status)
}

func TestGetAllFallbackChain(t *testing.T) {
	t.Run("memory cache within TTL", func(t *testing.T) {
		remote := &fakeRemote{regions: regionMapFixture("cloud")}
		engine, _, _ := newTestEngine(t, remote)
		engine.Init(context.Background())
		_, err := engine.GetAll(context.Background())
		require.NoError(t, err)

		remote.setDown(true)
		engine.HandleDisconnect()

		regions, err := engine.GetAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "cloud", regions["1"].Name)
	})

	t.Run("durable cache after remote failure", func(t *testing.T) {
		remote := &fakeRemote{regions: regionMapFixture("cloud")}
		engine, kv, _ := newTestEngine(t, remote)
		engine.Init(context.Background())

		// drop the memory tier by rebuilding the engine over the same KV
		remote.setDown(true)
		cold := New(Deps{Remote: remote, KV: kv, Events: &eventRecorder{}, CacheTTL: time.Minute})
		cold.Init(context.Background())

		regions, err := cold.GetAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "cloud", regions["1"].Name, "durable cache survives restarts")
	})

	t.Run("defaults when everything misses", func(t *testing.T) {
		remote := &fakeRemote{down: true}
		engine, kv, _ := newTestEngine(t, remote)
		engine.Init(context.Background())

		regions, err := engine.GetAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, regions, domain.DefaultRegionCount)

		// synthesized defaults are persisted for the next cold start
		_, err = kv.Get(context.Background(), cache.KeyRegionData)
		assert.NoError(t, err)
	})

	t.Run("corrupt durable payload counts as a miss", func(t *testing.T) {
		remote := &fakeRemote{down: true}
		engine, kv, _ := newTestEngine(t, remote)
		require.NoError(t, kv.Set(context.Background(), cache.KeyRegionData, []byte("{not json")))
		engine.Init(context.Background())

		regions, err := engine.GetAll(context.Background())
		require.NoError(t, err)
		assert.Len(t, regions, domain.DefaultRegionCount)
	})

	t.Run("online fetch failure serves fallback and flags error", func(t *testing.T) {
		remote := &fakeRemote{regions: regionMapFixture("cloud")}
		engine, _, _ := newTestEngine(t, remote)
		engine.Init(context.Background())

		remote.setDown(true) // engine still believes it is online

		regions, err := engine.GetAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "cloud", regions["1"].Name, "stale data is served rather than an error")
		assert.Equal(t, StatusError, engine.Status().Status)
	})
}

func TestSaveAllWriteThrough(t *testing.T) {
	remote := &fakeRemote{regions: regionMapFixture("cloud")}
	engine, _, _ := newTestEngine(t, remote)
	engine.Init(context.Background())
	before := remote.saveCount()

	require.NoError(t, engine.SaveAll(context.Background(), regionMapFixture("edited")))

	assert.Equal(t, before+1, remote.saveCount())
	assert.Equal(t, StatusSynced, engine.Status().Status)
	assert.Equal(t, 0, engine.Status().PendingOperations)
}

func TestSaveAllOfflineQueues(t *testing.T) {
	remote := &fakeRemote{down: true}
	engine, kv, _ := newTestEngine(t, remote)
	engine.Init(context.Background())

	require.NoError(t, engine.SaveAll(context.Background(), regionMapFixture("offline-edit")),
		"an offline save still succeeds locally")

	info := engine.Status()
	assert.Equal(t, StatusPending, info.Status)
	assert.Equal(t, 1, info.PendingOperations)
	assert.Equal(t, 0, remote.saveCount())

	// the queue is mirrored to the durable cache
	_, err := kv.Get(context.Background(), cache.KeyOfflineQueue)
	assert.NoError(t, err)

	// the local copy is immediately readable
	regions, err := engine.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "offline-edit", regions["1"].Name)
}

func TestReconnectReplaysQueueInOrder(t *testing.T) {
	remote := &fakeRemote{down: true}
	engine, _, _ := newTestEngine(t, remote)
	engine.Init(context.Background())

	require.NoError(t, engine.SaveAll(context.Background(), regionMapFixture("first")))
	require.NoError(t, engine.SaveAll(context.Background(), regionMapFixture("second")))
	assert.Equal(t, 2, engine.Status().PendingOperations)

	remote.setDown(false)
	engine.HandleReconnect(context.Background())

	assert.Equal(t, 2, remote.saveCount(), "each snapshot replays exactly once")
	remote.mu.Lock()
	assert.Equal(t, "first", remote.saves[0]["1"].Name)
	assert.Equal(t, "second", remote.saves[1]["1"].Name)
	assert.Equal(t, "second", remote.regions["1"].Name, "the latest map wins")
	remote.mu.Unlock()

	info := engine.Status()
	assert.Equal(t, StatusSynced, info.Status)
	assert.Equal(t, 0, info.PendingOperations)
}

func TestDrainHaltsOnFirstFailure(t *testing.T) {
	remote := &fakeRemote{down: true}
	engine, _, _ := newTestEngine(t, remote)
	engine.Init(context.Background())

	require.NoError(t, engine.SaveAll(context.Background(), regionMapFixture("first")))
	require.NoError(t, engine.SaveAll(context.Background(), regionMapFixture("second")))

	remote.mu.Lock()
	remote.down = false
	remote.failTh = 1
	remote.mu.Unlock()

	engine.HandleReconnect(context.Background())

	info := engine.Status()
	assert.Equal(t, StatusPending, info.Status)
	assert.Equal(t, 2, info.PendingOperations, "a failed head leaves the queue intact")

	// next drain finishes the job
	engine.DrainQueue(context.Background())
	assert.Equal(t, 0, engine.Status().PendingOperations)
	remote.mu.Lock()
	assert.Equal(t, "second", remote.regions["1"].Name)
	remote.mu.Unlock()
}

func TestConcurrentDrainsStayFIFO(t *testing.T) {
	remote := &fakeRemote{down: true}
	engine, _, _ := newTestEngine(t, remote)
	engine.Init(context.Background())

	names := []string{"a", "b", "c", "d"}
	for _, name := range names {
		require.NoError(t, engine.SaveAll(context.Background(), regionMapFixture(name)))
	}
	require.Equal(t, len(names), engine.Status().PendingOperations)

	remote.mu.Lock()
	remote.down = false
	remote.saveDelay = time.Millisecond
	remote.mu.Unlock()
	engine.setConnectivity(true, StatusPending)

	// a force-sync drain on an HTTP goroutine can race the background
	// reconnect/drain tasks; replay order must not depend on the winner
	var wg sync.WaitGroup
	for i := 0; i < len(names); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine.DrainQueue(context.Background())
		}()
	}
	wg.Wait()

	remote.mu.Lock()
	defer remote.mu.Unlock()
	require.Len(t, remote.saves, len(names), "each snapshot replays exactly once")
	for i, name := range names {
		assert.Equal(t, name, remote.saves[i]["1"].Name, "replay %d out of order", i)
	}
	assert.Equal(t, "d", remote.regions["1"].Name, "the newest snapshot must win")
}

func TestDrainEmitsQueueDrainEvent(t *testing.T) {
	remote := &fakeRemote{down: true}
	engine, _, events := newTestEngine(t, remote)
	engine.Init(context.Background())

	require.NoError(t, engine.SaveAll(context.Background(), regionMapFixture("queued")))

	remote.setDown(false)
	engine.HandleReconnect(context.Background())

	drains := events.byType("dataOperation")
	require.Len(t, drains, 1)
	assert.Equal(t, "queueDrain", drains[0].(domain.DataOperationEvent).Operation)
}

func TestQueueSurvivesRestart(t *testing.T) {
	remote := &fakeRemote{down: true}
	engine, kv, _ := newTestEngine(t, remote)
	engine.Init(context.Background())
	require.NoError(t, engine.SaveAll(context.Background(), regionMapFixture("queued")))

	// simulate a restart over the same durable cache
	restarted := New(Deps{Remote: remote, KV: kv, Events: &eventRecorder{}, CacheTTL: time.Minute})
	restarted.Init(context.Background())

	assert.Equal(t, 1, restarted.Status().PendingOperations)

	remote.setDown(false)
	restarted.HandleReconnect(context.Background())
	assert.Equal(t, 1, remote.saveCount())
	remote.mu.Lock()
	assert.Equal(t, "queued", remote.regions["1"].Name)
	remote.mu.Unlock()
}

func TestForceSync(t *testing.T) {
	t.Run("offline fails fast", func(t *testing.T) {
		remote := &fakeRemote{down: true}
		engine, _, _ := newTestEngine(t, remote)
		engine.Init(context.Background())

		assert.ErrorIs(t, engine.ForceSync(context.Background()), domain.ErrOffline)
	})

	t.Run("refreshes and notifies", func(t *testing.T) {
		remote := &fakeRemote{regions: regionMapFixture("cloud")}
		engine, _, events := newTestEngine(t, remote)
		engine.Init(context.Background())

		require.NoError(t, engine.ForceSync(context.Background()))

		assert.Equal(t, StatusSynced, engine.Status().Status)
		assert.Len(t, events.byType("globalRefresh"), 1)
	})
}

func TestProbeTransitions(t *testing.T) {
	remote := &fakeRemote{regions: regionMapFixture("cloud")}
	engine, _, _ := newTestEngine(t, remote)
	engine.Init(context.Background())
	require.True(t, engine.IsOnline())

	remote.setDown(true)
	engine.Probe(context.Background())
	assert.False(t, engine.IsOnline())
	assert.Equal(t, StatusOffline, engine.Status().Status)

	// repeated failures are not transitions
	engine.Probe(context.Background())
	assert.False(t, engine.IsOnline())

	remote.setDown(false)
	engine.Probe(context.Background())
	assert.True(t, engine.IsOnline())
	assert.Equal(t, StatusSynced, engine.Status().Status)
}

func TestCorruptQueuePayloadStartsEmpty(t *testing.T) {
	remote := &fakeRemote{regions: regionMapFixture("cloud")}
	engine, kv, _ := newTestEngine(t, remote)
	require.NoError(t, kv.Set(context.Background(), cache.KeyOfflineQueue, []byte("!!")))

	engine.Init(context.Background())

	assert.Equal(t, 0, engine.Status().PendingOperations)
}
