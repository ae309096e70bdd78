package tabula

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aretw0/tabula/pkg/catalog"
	"github.com/aretw0/tabula/pkg/ports"
)

// Reloader keeps the latest successfully loaded Result and replaces it on demand.
// A failed reload keeps serving the previous catalog; catalogs themselves are
// never modified, a reload builds a new one and swaps it in.
type Reloader struct {
	src     ports.TableSource
	opts    *options
	current atomic.Pointer[Result]

	// reloadMu serializes Reload so each diff is taken against the catalog it replaces.
	reloadMu sync.Mutex

	mu        sync.Mutex
	onChange  []func(*Result)
	onFailure []func(error)
}

// NewReloader performs the initial load. It fails if that load fails.
func NewReloader(ctx context.Context, src ports.TableSource, opts ...Option) (*Reloader, error) {
	r := &Reloader{src: src, opts: newOptions(opts)}
	res, err := r.opts.load(ctx, src)
	if err != nil {
		return nil, err
	}
	r.current.Store(res)
	return r, nil
}

// Current returns the Result currently being served. Safe for concurrent use.
func (r *Reloader) Current() *Result {
	return r.current.Load()
}

// OnChange registers a callback invoked after every successful reload.
func (r *Reloader) OnChange(fn func(*Result)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = append(r.onChange, fn)
}

// OnFailure registers a callback invoked after every failed reload.
func (r *Reloader) OnFailure(fn func(error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onFailure = append(r.onFailure, fn)
}

// Reload loads a fresh catalog and swaps it in.
// Returns error if loading fails (keeps old catalog).
func (r *Reloader) Reload(ctx context.Context) error {
	r.reloadMu.Lock()
	defer r.reloadMu.Unlock()

	logger := r.opts.logger
	logger.Info("reloading catalog")

	res, err := r.opts.load(ctx, r.src)
	if err != nil {
		logger.Error("catalog reload failed, keeping previous catalog", "error", err)
		r.mu.Lock()
		callbacks := append([]func(error){}, r.onFailure...)
		r.mu.Unlock()
		for _, fn := range callbacks {
			fn(err)
		}
		return fmt.Errorf("reload: %w", err)
	}
	res.Changes = catalog.Compare(r.current.Load().Catalog, res.Catalog)
	r.current.Store(res)

	r.mu.Lock()
	callbacks := append([]func(*Result){}, r.onChange...)
	r.mu.Unlock()
	for _, fn := range callbacks {
		fn(res)
	}

	logger.Info("catalog reloaded",
		"tables", res.Catalog.Len(),
		"changed", res.Changes.Changed(),
		"dangling_references", len(res.References.Violations),
	)
	return nil
}

// Watch reloads whenever the source signals a change, until ctx is done.
// Returns an error if the source does not support watching.
func (r *Reloader) Watch(ctx context.Context) error {
	w, ok := r.src.(ports.Watchable)
	if !ok {
		return fmt.Errorf("current source does not support watching")
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return fmt.Errorf("watch source: %w", err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
			// Failures are logged by Reload and the previous catalog stays active.
			_ = r.Reload(ctx)
		}
	}
}
