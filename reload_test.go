package tabula_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/tabula"
	"github.com/aretw0/tabula/pkg/adapters/memory"
	"github.com/aretw0/tabula/pkg/catalog"
	"github.com/aretw0/tabula/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var buffSchema = schema.MustNew("Buff",
	schema.Key("id", schema.Int64()),
	schema.Always("stacks", schema.Int32()),
)

func TestReloader(t *testing.T) {
	ctx := context.Background()
	src := memory.NewSource(map[string][]map[string]any{
		"Buff": {{"Id": 1, "Stacks": 1}},
	})

	r, err := tabula.NewReloader(ctx, src, tabula.WithDefinitions(catalog.Define("Buff", buffSchema)))
	require.NoError(t, err)
	first := r.Current()

	var notified *tabula.Result
	r.OnChange(func(res *tabula.Result) { notified = res })

	require.NoError(t, src.Publish(ctx, "Buff", []map[string]any{{"Id": 1, "Stacks": 1}, {"Id": 2, "Stacks": 5}}))
	require.NoError(t, r.Reload(ctx))

	second := r.Current()
	assert.NotSame(t, first, second)
	assert.Same(t, second, notified)
	assert.Nil(t, first.Changes)
	assert.Equal(t, []string{"Buff"}, second.Changes.Changed())
	_, ok := second.Catalog.Get("Buff", 2)
	assert.True(t, ok)
	_, ok = first.Catalog.Get("Buff", 2)
	assert.False(t, ok, "previous catalog is never modified")

	// A broken table keeps the previous catalog.
	var failure error
	r.OnFailure(func(err error) { failure = err })
	require.NoError(t, src.Publish(ctx, "Buff", []map[string]any{{"Id": 1}, {"Id": 1}}))
	assert.Error(t, r.Reload(ctx))
	assert.Same(t, second, r.Current())
	assert.Error(t, failure)
}

func TestReloader_InitialFailure(t *testing.T) {
	src := memory.NewSource(nil)
	_, err := tabula.NewReloader(context.Background(), src, tabula.WithDefinitions(catalog.Define("Buff", buffSchema)))
	assert.Error(t, err)
}

func TestReloader_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src := memory.NewSource(map[string][]map[string]any{"Buff": {}})
	r, err := tabula.NewReloader(ctx, src, tabula.WithDefinitions(catalog.Define("Buff", buffSchema)))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- r.Watch(ctx) }()

	// Publish until the watcher picks up a change; the subscription may start late.
	require.Eventually(t, func() bool {
		_ = src.Publish(ctx, "Buff", []map[string]any{{"Id": 7, "Stacks": 1}})
		_, ok := r.Current().Catalog.Get("Buff", 7)
		return ok
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

// overlapSource records how many Rows calls run at the same time.
type overlapSource struct {
	*memory.Source
	inflight atomic.Int32
	peak     atomic.Int32
}

func (s *overlapSource) Rows(ctx context.Context, table string) ([]map[string]any, error) {
	n := s.inflight.Add(1)
	defer s.inflight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	return s.Source.Rows(ctx, table)
}

func TestReloader_ConcurrentReloadsAreSerialized(t *testing.T) {
	ctx := context.Background()
	src := &overlapSource{Source: memory.NewSource(map[string][]map[string]any{
		"Buff": {{"Id": 1, "Stacks": 1}},
	})}

	r, err := tabula.NewReloader(ctx, src, tabula.WithDefinitions(catalog.Define("Buff", buffSchema)))
	require.NoError(t, err)

	var (
		mu    sync.Mutex
		added []int64
	)
	r.OnChange(func(res *tabula.Result) {
		mu.Lock()
		defer mu.Unlock()
		for _, td := range res.Changes.Tables {
			added = append(added, td.Added...)
		}
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, r.Reload(ctx))
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, src.peak.Load(), "reloads must not overlap")
	assert.Empty(t, added, "no record was added, so no reload may report one")
	_, ok := r.Current().Catalog.Get("Buff", 1)
	assert.True(t, ok)
}
