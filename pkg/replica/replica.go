// Package replica keeps a sampled snapshot of every category so search
// can degrade gracefully when the aggregator has no usable source left.
package replica

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/KhaledTDev/islamhouse/pkg/catalog"
	"github.com/KhaledTDev/islamhouse/pkg/log"
	"github.com/KhaledTDev/islamhouse/pkg/paginate"
)

const (
	// SnapshotTTL is how long a rebuilt snapshot is considered fresh.
	SnapshotTTL = 30 * time.Minute

	// SampleSize is the number of items sampled per category on rebuild.
	SampleSize = 50

	snapshotKey = "snapshot"
)

// ErrNoSnapshot is returned by Search when no snapshot has ever been
// built or loaded.
var ErrNoSnapshot = errors.New("no replica snapshot available")

// Lister is the slice of the aggregator the replica samples through.
type Lister interface {
	ListCategory(ctx context.Context, category, term string, page int) (catalog.Page, error)
}

type snapshot struct {
	Items   []catalog.ContentItem `json:"items"`
	BuiltAt time.Time             `json:"built_at"`
}

// Replica samples the aggregator into an in-memory snapshot with a TTL
// and serves local substring search over it. The snapshot can be
// persisted to disk and reloaded across restarts.
type Replica struct {
	lister Lister
	cache  *cache.Cache
	path   string
	logger *log.Logger

	rebuildMu sync.Mutex

	// stale holds the most recent snapshot regardless of age, used as a
	// last resort when a rebuild fails.
	staleMu sync.RWMutex
	stale   *snapshot
}

// Option configures a Replica.
type Option func(*Replica)

// WithSnapshotPath persists the snapshot as JSON at path and reloads it
// on construction.
func WithSnapshotPath(path string) Option {
	return func(r *Replica) {
		r.path = path
	}
}

// New creates a replica over the given lister.
func New(lister Lister, opts ...Option) *Replica {
	r := &Replica{
		lister: lister,
		cache:  cache.New(SnapshotTTL, SnapshotTTL),
		logger: log.ForService("replica"),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.path != "" {
		r.loadFromDisk()
	}
	return r
}

// Refresh rebuilds the snapshot unless a fresh one already exists.
// Only one rebuild runs at a time; concurrent callers block on the
// in-flight rebuild and then reuse its result.
func (r *Replica) Refresh(ctx context.Context) error {
	if _, ok := r.cache.Get(snapshotKey); ok {
		return nil
	}

	r.rebuildMu.Lock()
	defer r.rebuildMu.Unlock()

	// Another caller may have finished the rebuild while we waited.
	if _, ok := r.cache.Get(snapshotKey); ok {
		return nil
	}

	items, err := r.sample(ctx)
	if err != nil {
		return err
	}

	snap := &snapshot{Items: items, BuiltAt: time.Now().UTC()}
	r.install(snap)
	if r.path != "" {
		if err := r.writeToDisk(snap); err != nil {
			r.logger.Warnf("failed to persist snapshot: %v", err)
		}
	}
	r.logger.Infof("snapshot rebuilt with %d items", len(items))
	return nil
}

// sample pulls up to SampleSize items from each category concurrently
// and concatenates them in registry order, dropping duplicate ids.
func (r *Replica) sample(ctx context.Context) ([]catalog.ContentItem, error) {
	descriptors := catalog.Categories()
	pages := (SampleSize + catalog.ItemsPerPage - 1) / catalog.ItemsPerPage

	sampled := make([][]catalog.ContentItem, len(descriptors))
	var wg sync.WaitGroup
	for i, d := range descriptors {
		wg.Add(1)
		go func(slot int, category string) {
			defer wg.Done()
			var items []catalog.ContentItem
			for page := 1; page <= pages; page++ {
				result, err := r.lister.ListCategory(ctx, category, "", page)
				if err != nil {
					r.logger.Warnf("sampling %s page %d failed: %v", category, page, err)
					break
				}
				items = append(items, result.Items...)
				if len(items) >= SampleSize || page >= result.TotalPages {
					break
				}
			}
			if len(items) > SampleSize {
				items = items[:SampleSize]
			}
			sampled[slot] = items
		}(i, d.Name)
	}
	wg.Wait()

	seen := make(map[string]struct{})
	var merged []catalog.ContentItem
	for _, items := range sampled {
		for _, item := range items {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			merged = append(merged, item)
		}
	}

	if len(merged) == 0 {
		return nil, fmt.Errorf("sampling produced no items: %w", catalog.ErrAllSourcesUnavailable)
	}
	return merged, nil
}

// Search filters the snapshot with a case-insensitive substring match
// over title, description and prepared-by, optionally restricted to one
// category, and paginates the matches. Results are labeled degraded.
func (r *Replica) Search(term, category string, page int) (catalog.Page, error) {
	snap := r.current()
	if snap == nil {
		return catalog.Page{}, ErrNoSnapshot
	}

	needle := strings.ToLower(strings.TrimSpace(term))
	var matches []catalog.ContentItem
	for _, item := range snap.Items {
		if category != "" && item.Type != category {
			continue
		}
		if needle != "" && !matchesItem(item, needle) {
			continue
		}
		matches = append(matches, item)
	}

	totalPages := paginate.TotalPages(len(matches), catalog.ItemsPerPage)
	page = paginate.ClampPage(page, totalPages)
	start, end := paginate.Slice(page, catalog.ItemsPerPage, len(matches))

	return catalog.Page{
		Items:        matches[start:end],
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   len(matches),
		ItemsPerPage: catalog.ItemsPerPage,
		Degraded:     true,
	}, nil
}

func matchesItem(item catalog.ContentItem, needle string) bool {
	return strings.Contains(strings.ToLower(item.Title), needle) ||
		strings.Contains(strings.ToLower(item.Description), needle) ||
		strings.Contains(strings.ToLower(item.PreparedBy), needle)
}

// Ready reports whether any snapshot, fresh or stale, is available.
func (r *Replica) Ready() bool {
	return r.current() != nil
}

// Len returns the number of items in the current snapshot.
func (r *Replica) Len() int {
	snap := r.current()
	if snap == nil {
		return 0
	}
	return len(snap.Items)
}

// LastBuilt returns the build time of the current snapshot, or the zero
// time when none exists.
func (r *Replica) LastBuilt() time.Time {
	snap := r.current()
	if snap == nil {
		return time.Time{}
	}
	return snap.BuiltAt
}

// RunPeriodic refreshes the snapshot on the given interval until the
// context is canceled. Meant to run under the serve daemon.
func (r *Replica) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				r.logger.Warnf("periodic refresh failed: %v", err)
			}
		}
	}
}

// current prefers the fresh cached snapshot and falls back to the stale
// one.
func (r *Replica) current() *snapshot {
	if v, ok := r.cache.Get(snapshotKey); ok {
		return v.(*snapshot)
	}
	r.staleMu.RLock()
	defer r.staleMu.RUnlock()
	return r.stale
}

func (r *Replica) install(snap *snapshot) {
	r.cache.Set(snapshotKey, snap, cache.DefaultExpiration)
	r.staleMu.Lock()
	r.stale = snap
	r.staleMu.Unlock()
}

func (r *Replica) loadFromDisk() {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			r.logger.Warnf("failed to read snapshot file: %v", err)
		}
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		r.logger.Warnf("ignoring corrupt snapshot file: %v", err)
		return
	}
	if len(snap.Items) == 0 {
		return
	}

	if time.Since(snap.BuiltAt) < SnapshotTTL {
		r.install(&snap)
	} else {
		// Too old to serve as fresh, but better than nothing if every
		// source goes away before the first rebuild.
		r.staleMu.Lock()
		r.stale = &snap
		r.staleMu.Unlock()
	}
	r.logger.Debugf("loaded snapshot with %d items from %s", len(snap.Items), r.path)
}

func (r *Replica) writeToDisk(snap *snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return os.Rename(tmp, r.path)
}
