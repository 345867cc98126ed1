package happiness

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"happydash.dev/internal/logging"
)

// Observer receives dataset and view events, typically to record metrics.
type Observer interface {
	DatasetLoaded(records int, err error)
	ViewServed(kind ViewKind, cached bool)
}

// Manager owns the loaded dataset and serves views over it. The dataset is
// read-only between reloads; Reload swaps in a fully parsed replacement.
type Manager struct {
	config      Config
	logger      *slog.Logger
	observer    Observer
	cache       *ViewCache
	watcher     *Watcher
	mu          sync.RWMutex
	dataset     *Dataset
	generation  uint64
	lastUpdated time.Time

	// reloadMu orders load-and-swap so an older parse never replaces a newer one.
	reloadMu     sync.Mutex
	shutdownOnce sync.Once
}

// InitManager loads the dataset at config.DataPath. A load failure is returned
// wrapped in ErrDataLoad and is meant to abort startup.
func InitManager(config Config, logger *slog.Logger, observer Observer) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ds, err := LoadFile(config.DataPath, logger)
	if observer != nil {
		observer.DatasetLoaded(datasetLen(ds), err)
	}
	if err != nil {
		return nil, err
	}

	manager := NewManager(ds, config, logger, observer)

	if config.Watch {
		watcher, err := NewWatcher(config.DataPath, config.watchDebounce(), manager.reloadFromWatcher, logger)
		if err != nil {
			return nil, fmt.Errorf("error watching dataset file: %w", err)
		}
		manager.watcher = watcher
		watcher.Start()
	}

	return manager, nil
}

// NewManager wraps an already loaded dataset.
func NewManager(ds *Dataset, config Config, logger *slog.Logger, observer Observer) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	manager := &Manager{
		config:   config,
		logger:   logger,
		observer: observer,
		cache:    NewViewCache(config.CacheSize),
	}
	manager.setDataset(ds)
	return manager
}

func (manager *Manager) setDataset(ds *Dataset) {
	manager.mu.Lock()
	manager.dataset = ds
	manager.generation++
	manager.lastUpdated = time.Now()
	manager.mu.Unlock()

	manager.cache.Purge()

	logging.LogOperation(manager.logger, "dataset_loaded",
		slog.String("source", manager.config.DataPath),
		slog.Int("records", ds.Len()),
		slog.Int("indicators", len(ds.indicators)),
		slog.Int("regions", len(ds.regions)))
}

// Dataset returns the current dataset.
func (manager *Manager) Dataset() *Dataset {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.dataset
}

// Generation increments on every successful load.
func (manager *Manager) Generation() uint64 {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.generation
}

func (manager *Manager) LastUpdated() time.Time {
	manager.mu.RLock()
	defer manager.mu.RUnlock()
	return manager.lastUpdated
}

func (manager *Manager) CacheStats() CacheStats {
	return manager.cache.Stats()
}

// Reload re-reads the source file. On failure the current dataset stays in place.
// Concurrent reloads run one at a time, so the last one to start wins.
func (manager *Manager) Reload(ctx context.Context) error {
	if manager.config.DataPath == "" {
		return fmt.Errorf("%w: no data source configured", ErrDataLoad)
	}
	manager.reloadMu.Lock()
	defer manager.reloadMu.Unlock()

	ds, err := LoadFile(manager.config.DataPath, manager.logger)
	if manager.observer != nil {
		manager.observer.DatasetLoaded(datasetLen(ds), err)
	}
	if err != nil {
		logging.LogError(manager.logger, "dataset reload failed", err,
			slog.String("source", manager.config.DataPath))
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	manager.setDataset(ds)
	return nil
}

func (manager *Manager) reloadFromWatcher() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	// Errors are logged by Reload; the previous dataset keeps serving.
	_ = manager.Reload(ctx)
}

// View returns the view for q over the current dataset, from cache when possible.
func (manager *Manager) View(ctx context.Context, q Query) (View, error) {
	if err := ctx.Err(); err != nil {
		return View{}, err
	}

	manager.mu.RLock()
	ds, generation := manager.dataset, manager.generation
	manager.mu.RUnlock()

	q = q.Normalize()
	key := fmt.Sprintf("%d\x1e%s", generation, q.Key())
	view, cached, err := manager.cache.GetOrCompute(key, func() (View, error) {
		return Select(ds, q)
	})
	if err != nil {
		return View{}, err
	}
	if manager.observer != nil {
		manager.observer.ViewServed(q.Kind, cached)
	}
	if manager.config.Verbose {
		manager.logger.Debug("view served",
			slog.String("kind", string(q.Kind)),
			slog.String("region", q.Region),
			slog.Int("rows", len(view.Rows)),
			slog.Bool("cached", cached))
	}
	return view, nil
}

// Shutdown stops the file watcher, if any.
func (manager *Manager) Shutdown() {
	manager.shutdownOnce.Do(func() {
		if manager.watcher != nil {
			if err := manager.watcher.Stop(); err != nil {
				logging.LogError(manager.logger, "failed to stop dataset watcher", err)
			}
		}
	})
}

func datasetLen(ds *Dataset) int {
	if ds == nil {
		return 0
	}
	return ds.Len()
}
