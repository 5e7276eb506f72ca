// Package aggregator orchestrates the per-category query layer and the
// normalizer into single-category and federated listings with consistent
// global pagination.
//
// The federated path fans out one count+fetch pair per category, absorbs
// individual category failures, merges the surviving candidates with a
// deterministic comparator and slices out the requested page. Totals
// always reflect true per-category counts; the candidate pool used for
// ordering is bounded per category, so deep federated pages are a known
// accuracy tradeoff in exchange for bounded scan cost.
package aggregator

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/KhaledTDev/islamhouse/pkg/catalog"
	"github.com/KhaledTDev/islamhouse/pkg/log"
	"github.com/KhaledTDev/islamhouse/pkg/normalize"
	"github.com/KhaledTDev/islamhouse/pkg/paginate"
	"github.com/KhaledTDev/islamhouse/pkg/storage"
)

// FederatedFetchLimit caps how many candidates each category contributes
// to the merged pool. It bounds the per-request scan cost; the true
// per-category totals still come from Count.
const FederatedFetchLimit = 10

// DefaultCategoryTimeout bounds each per-category count+fetch pair in the
// federated path. A timed-out category is treated like a failed one.
const DefaultCategoryTimeout = 5 * time.Second

// Store is the per-category query surface the aggregator builds on.
// *storage.Store satisfies it; tests substitute failing fakes.
type Store interface {
	Count(ctx context.Context, d catalog.Descriptor, term string) (int, error)
	Fetch(ctx context.Context, d catalog.Descriptor, term string, offset, limit int) ([]storage.RawRecord, error)
	GetByID(ctx context.Context, d catalog.Descriptor, id string) (storage.RawRecord, error)
}

// CategoryInfo describes one non-empty category for the categories listing.
type CategoryInfo struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Count       int    `json:"count"`
}

// Stats summarizes item counts across every category.
type Stats struct {
	TotalItems int            `json:"total_items"`
	Categories map[string]int `json:"categories"`
}

// Aggregator executes all read operations of the directory.
type Aggregator struct {
	store           Store
	categoryTimeout time.Duration
	logger          *log.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithCategoryTimeout overrides the per-category deadline used by
// federated operations.
func WithCategoryTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.categoryTimeout = d
		}
	}
}

// New creates an aggregator over the given store.
func New(store Store, opts ...Option) *Aggregator {
	a := &Aggregator{
		store:           store,
		categoryTimeout: DefaultCategoryTimeout,
		logger:          log.ForService("aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ListCategory returns one page of a single category, optionally filtered
// by a search term. Count and fetch share the same predicate.
func (a *Aggregator) ListCategory(ctx context.Context, category, term string, page int) (catalog.Page, error) {
	d, err := catalog.DescriptorFor(category)
	if err != nil {
		return catalog.Page{}, err
	}

	total, err := a.store.Count(ctx, d, term)
	if err != nil {
		return catalog.Page{}, err
	}

	totalPages := paginate.TotalPages(total, catalog.ItemsPerPage)
	page = paginate.ClampPage(page, totalPages)

	items := []catalog.ContentItem{}
	if total > 0 {
		offset, limit := paginate.Window(page, catalog.ItemsPerPage)
		records, err := a.store.Fetch(ctx, d, term, offset, limit)
		if err != nil {
			return catalog.Page{}, err
		}
		items = a.normalizeAll(records, d)
	}

	return catalog.Page{
		Items:        items,
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: catalog.ItemsPerPage,
	}, nil
}

// GetItem returns one normalized item by category and id.
func (a *Aggregator) GetItem(ctx context.Context, category, id string) (catalog.ContentItem, error) {
	d, err := catalog.DescriptorFor(category)
	if err != nil {
		return catalog.ContentItem{}, err
	}
	if id == "" {
		return catalog.ContentItem{}, catalog.ErrItemNotFound
	}

	record, err := a.store.GetByID(ctx, d, id)
	if err != nil {
		return catalog.ContentItem{}, err
	}
	return normalizeRecord(record, d)
}

// categoryResult is one category's contribution to a federated call.
// Collected into per-category slots; the merge step starts only after
// every slot is filled.
type categoryResult struct {
	descriptor catalog.Descriptor
	count      int
	items      []catalog.ContentItem
	err        error
}

// ListAll executes the federated path: every category contributes its
// true count plus a bounded candidate window, failures contribute zero
// without aborting siblings, and the merged pool is globally sorted and
// sliced to the requested page. An empty term is the federated
// "everything" browse. Only when every category fails does ListAll
// return ErrAllSourcesUnavailable.
func (a *Aggregator) ListAll(ctx context.Context, term string, page int) (catalog.Page, error) {
	cats := catalog.Categories()
	results := make([]categoryResult, len(cats))

	var wg sync.WaitGroup
	for i, d := range cats {
		wg.Add(1)
		go func(slot int, d catalog.Descriptor) {
			defer wg.Done()
			results[slot] = a.queryCategory(ctx, d, term)
		}(i, d)
	}
	wg.Wait()

	var (
		total    int
		items    []catalog.ContentItem
		failures int
	)
	for _, r := range results {
		if r.err != nil {
			failures++
			a.logger.Warnf("category %s unavailable, continuing without it: %v", r.descriptor.Name, r.err)
			continue
		}
		total += r.count
		items = append(items, r.items...)
	}

	if failures == len(cats) {
		return catalog.Page{}, catalog.ErrAllSourcesUnavailable
	}

	sortMerged(items)

	totalPages := paginate.TotalPages(total, catalog.ItemsPerPage)
	page = paginate.ClampPage(page, totalPages)

	start, end := paginate.Slice(page, catalog.ItemsPerPage, len(items))
	pageItems := make([]catalog.ContentItem, end-start)
	copy(pageItems, items[start:end])

	return catalog.Page{
		Items:        pageItems,
		CurrentPage:  page,
		TotalPages:   totalPages,
		TotalItems:   total,
		ItemsPerPage: catalog.ItemsPerPage,
	}, nil
}

// queryCategory runs one category's count+fetch pair under its own
// deadline. Both legs share the same predicate via the store.
func (a *Aggregator) queryCategory(ctx context.Context, d catalog.Descriptor, term string) categoryResult {
	ctx, cancel := context.WithTimeout(ctx, a.categoryTimeout)
	defer cancel()

	result := categoryResult{descriptor: d}

	count, err := a.store.Count(ctx, d, term)
	if err != nil {
		result.err = err
		return result
	}
	result.count = count
	if count == 0 {
		return result
	}

	records, err := a.store.Fetch(ctx, d, term, 0, FederatedFetchLimit)
	if err != nil {
		result.err = err
		return result
	}
	result.items = a.normalizeAll(records, d)
	return result
}

// Categories lists every category holding at least one item. A category
// whose store is unreachable is skipped, mirroring the federated
// partial-failure contract.
func (a *Aggregator) Categories(ctx context.Context) ([]CategoryInfo, error) {
	var infos []CategoryInfo
	var failures int

	cats := catalog.Categories()
	for _, d := range cats {
		count, err := a.store.Count(ctx, d, "")
		if err != nil {
			failures++
			a.logger.Warnf("skipping category %s: %v", d.Name, err)
			continue
		}
		if count > 0 {
			infos = append(infos, CategoryInfo{
				Name:        d.Name,
				DisplayName: d.DisplayName,
				Count:       count,
			})
		}
	}

	if failures == len(cats) {
		return nil, catalog.ErrAllSourcesUnavailable
	}
	return infos, nil
}

// GetStats returns total and per-category item counts. An unreachable
// category counts as zero.
func (a *Aggregator) GetStats(ctx context.Context) (Stats, error) {
	stats := Stats{Categories: make(map[string]int)}
	var failures int

	cats := catalog.Categories()
	for _, d := range cats {
		count, err := a.store.Count(ctx, d, "")
		if err != nil {
			failures++
			a.logger.Warnf("stats for %s unavailable: %v", d.Name, err)
			stats.Categories[d.Name] = 0
			continue
		}
		stats.Categories[d.Name] = count
		stats.TotalItems += count
	}

	if failures == len(cats) {
		return Stats{}, catalog.ErrAllSourcesUnavailable
	}
	return stats, nil
}

func (a *Aggregator) normalizeAll(records []storage.RawRecord, d catalog.Descriptor) []catalog.ContentItem {
	items := make([]catalog.ContentItem, 0, len(records))
	for _, record := range records {
		item, err := normalizeRecord(record, d)
		if err != nil {
			a.logger.Warnf("dropping unnormalizable %s record: %v", d.Name, err)
			continue
		}
		items = append(items, item)
	}
	return items
}

func normalizeRecord(record storage.RawRecord, d catalog.Descriptor) (catalog.ContentItem, error) {
	return normalize.Normalize(record, d)
}

// sortMerged orders the federated candidate pool with the documented
// comparator, keeping the sort stable across equal keys.
func sortMerged(items []catalog.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return mergeLess(items[i], items[j])
	})
}
