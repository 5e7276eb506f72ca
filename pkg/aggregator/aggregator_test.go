package aggregator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/KhaledTDev/islamhouse/pkg/catalog"
	"github.com/KhaledTDev/islamhouse/pkg/storage"
)

// fakeStore serves canned per-category data and can simulate failing or
// slow category stores.
type fakeStore struct {
	counts  map[string]int
	records map[string][]storage.RawRecord
	failing map[string]error
	delays  map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		counts:  make(map[string]int),
		records: make(map[string][]storage.RawRecord),
		failing: make(map[string]error),
		delays:  make(map[string]time.Duration),
	}
}

func (f *fakeStore) wait(ctx context.Context, category string) error {
	delay, ok := f.delays[category]
	if !ok {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}

func (f *fakeStore) Count(ctx context.Context, d catalog.Descriptor, term string) (int, error) {
	if err := f.wait(ctx, d.Name); err != nil {
		return 0, err
	}
	if err := f.failing[d.Name]; err != nil {
		return 0, err
	}
	return f.counts[d.Name], nil
}

func (f *fakeStore) Fetch(ctx context.Context, d catalog.Descriptor, term string, offset, limit int) ([]storage.RawRecord, error) {
	if err := f.wait(ctx, d.Name); err != nil {
		return nil, err
	}
	if err := f.failing[d.Name]; err != nil {
		return nil, err
	}
	records := f.records[d.Name]
	if offset >= len(records) {
		return nil, nil
	}
	end := offset + limit
	if end > len(records) {
		end = len(records)
	}
	return records[offset:end], nil
}

func (f *fakeStore) GetByID(ctx context.Context, d catalog.Descriptor, id string) (storage.RawRecord, error) {
	if err := f.failing[d.Name]; err != nil {
		return nil, err
	}
	for _, record := range f.records[d.Name] {
		if fmt.Sprintf("%v", record["id"]) == id {
			return record, nil
		}
	}
	return nil, catalog.ErrItemNotFound
}

func genericRecord(id int, title, addDate string) storage.RawRecord {
	record := storage.RawRecord{"id": int64(id), "title": title}
	if addDate != "" {
		record["add_date"] = addDate
	}
	return record
}

func bookRecord(id int, name string) storage.RawRecord {
	return storage.RawRecord{"id": int64(id), "name": name, "author": "author", "topics": "topics"}
}

func (f *fakeStore) seedCategory(category string, records ...storage.RawRecord) {
	f.records[category] = records
	f.counts[category] = len(records)
}

func TestListAllCounts(t *testing.T) {
	// Counts {books:5, articles:0, fatwa:3, audios:10, videos:2}
	// must yield totalItems == 20 and a single page.
	store := newFakeStore()
	for i := 1; i <= 5; i++ {
		store.records["books"] = append(store.records["books"], bookRecord(i, fmt.Sprintf("book %d", i)))
	}
	store.counts["books"] = 5
	store.counts["articles"] = 0
	for i := 1; i <= 3; i++ {
		store.records["fatwa"] = append(store.records["fatwa"],
			storage.RawRecord{"id": int64(i), "title": fmt.Sprintf("fatwa %d", i), "answer": "answer"})
	}
	store.counts["fatwa"] = 3
	for i := 1; i <= 10; i++ {
		store.records["audios"] = append(store.records["audios"],
			genericRecord(i, fmt.Sprintf("audio %d", i), "2024-02-01 00:00:00"))
	}
	store.counts["audios"] = 10
	for i := 1; i <= 2; i++ {
		store.records["videos"] = append(store.records["videos"],
			genericRecord(i, fmt.Sprintf("video %d", i), "2024-03-01 00:00:00"))
	}
	store.counts["videos"] = 2

	page, err := New(store).ListAll(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}

	if page.TotalItems != 20 {
		t.Errorf("expected 20 total items, got %d", page.TotalItems)
	}
	if page.TotalPages != 1 {
		t.Errorf("expected 1 total page, got %d", page.TotalPages)
	}
	if len(page.Items) != 20 {
		t.Errorf("expected 20 items on page, got %d", len(page.Items))
	}
	if page.ItemsPerPage != catalog.ItemsPerPage {
		t.Errorf("expected page size %d, got %d", catalog.ItemsPerPage, page.ItemsPerPage)
	}
}

func TestListAllPartialFailure(t *testing.T) {
	store := newFakeStore()
	store.seedCategory("books", bookRecord(1, "a book"))
	store.seedCategory("articles", genericRecord(1, "an article", "2024-01-01 00:00:00"))
	store.seedCategory("fatwa", storage.RawRecord{"id": int64(1), "title": "a fatwa", "answer": "x"})
	store.seedCategory("videos", genericRecord(1, "a video", "2024-01-02 00:00:00"))
	store.failing["audios"] = errors.New("disk on fire")

	page, err := New(store).ListAll(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("partial failure must not abort the federated call: %v", err)
	}

	if page.TotalItems != 4 {
		t.Errorf("total must exclude only the failed category, expected 4, got %d", page.TotalItems)
	}
	if len(page.Items) != 4 {
		t.Errorf("expected items from the four healthy categories, got %d", len(page.Items))
	}
	for _, item := range page.Items {
		if item.Type == "audios" {
			t.Error("failed category must not contribute items")
		}
	}
}

func TestListAllTotalFailure(t *testing.T) {
	store := newFakeStore()
	for _, d := range catalog.Categories() {
		store.failing[d.Name] = catalog.ErrSourceUnavailable
	}

	_, err := New(store).ListAll(context.Background(), "", 1)
	if !errors.Is(err, catalog.ErrAllSourcesUnavailable) {
		t.Errorf("expected ErrAllSourcesUnavailable, got %v", err)
	}
}

func TestListAllTimeoutIsFailure(t *testing.T) {
	store := newFakeStore()
	store.seedCategory("books", bookRecord(1, "a book"))
	store.seedCategory("articles", genericRecord(1, "an article", "2024-01-01 00:00:00"))
	store.delays["videos"] = 500 * time.Millisecond
	store.counts["videos"] = 99

	agg := New(store, WithCategoryTimeout(20*time.Millisecond))
	page, err := agg.ListAll(context.Background(), "", 1)
	if err != nil {
		t.Fatalf("a timed-out category must not abort siblings: %v", err)
	}

	if page.TotalItems != 2 {
		t.Errorf("timed-out category must contribute zero, expected 2, got %d", page.TotalItems)
	}
}

func TestListAllBoundedCandidatePool(t *testing.T) {
	store := newFakeStore()
	for i := 1; i <= 40; i++ {
		store.records["audios"] = append(store.records["audios"],
			genericRecord(i, fmt.Sprintf("audio %d", i), "2024-02-01 00:00:00"))
	}
	store.counts["audios"] = 40

	page, err := New(store).ListAll(context.Background(), "", 1)
	if err != nil {
		t.Fatal(err)
	}

	// Totals are true counts even though the merged pool is bounded.
	if page.TotalItems != 40 {
		t.Errorf("expected true total 40, got %d", page.TotalItems)
	}
	if len(page.Items) != FederatedFetchLimit {
		t.Errorf("expected the bounded pool of %d candidates, got %d", FederatedFetchLimit, len(page.Items))
	}
	if page.TotalPages != 2 {
		t.Errorf("expected 2 pages for 40 items, got %d", page.TotalPages)
	}
}

func TestMergeComparatorFixtures(t *testing.T) {
	itemA := catalog.ContentItem{Type: "books", ID: "10"}
	itemB := catalog.ContentItem{Type: "articles", ID: "3",
		AddDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}

	// Either side being books switches the pair to id comparison.
	if !mergeLess(itemA, itemB) {
		t.Error("books id=10 must precede articles id=3 under id precedence")
	}
	if mergeLess(itemB, itemA) {
		t.Error("comparator must be asymmetric for the same pair")
	}

	// A numerically larger non-book id wins the same comparison.
	itemC := catalog.ContentItem{Type: "articles", ID: "50",
		AddDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	if mergeLess(itemA, itemC) {
		t.Error("articles id=50 must precede books id=10 under id precedence")
	}

	// No books involved: newest add date first.
	older := catalog.ContentItem{Type: "audios", ID: "1",
		AddDate: time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)}
	newer := catalog.ContentItem{Type: "videos", ID: "2",
		AddDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	if !mergeLess(newer, older) {
		t.Error("newer item must sort before older item")
	}

	// Unparseable dates were resolved to the epoch and sort last.
	epoch := catalog.ContentItem{Type: "audios", ID: "3", AddDate: time.Unix(0, 0).UTC()}
	if mergeLess(epoch, older) {
		t.Error("epoch-dated item must sort after dated items")
	}
}

func TestListCategoryInvalid(t *testing.T) {
	agg := New(newFakeStore())

	_, err := agg.ListCategory(context.Background(), "podcasts", "", 1)
	if !errors.Is(err, catalog.ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}

	_, err = agg.GetItem(context.Background(), "podcasts", "1")
	if !errors.Is(err, catalog.ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestGetItem(t *testing.T) {
	store := newFakeStore()
	store.seedCategory("books", bookRecord(5, "Umdat al-Ahkam"))

	agg := New(store)
	item, err := agg.GetItem(context.Background(), "books", "5")
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.Title != "Umdat al-Ahkam" {
		t.Errorf("unexpected title %q", item.Title)
	}

	_, err = agg.GetItem(context.Background(), "books", "404")
	if !errors.Is(err, catalog.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
}

func TestCategoriesSkipsEmptyAndFailed(t *testing.T) {
	store := newFakeStore()
	store.seedCategory("books", bookRecord(1, "a book"))
	store.counts["articles"] = 0
	store.failing["videos"] = errors.New("gone")
	store.seedCategory("audios", genericRecord(1, "an audio", ""))

	infos, err := New(store).Categories(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	names := make(map[string]int)
	for _, info := range infos {
		names[info.Name] = info.Count
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 categories, got %d: %v", len(infos), names)
	}
	if names["books"] != 1 || names["audios"] != 1 {
		t.Errorf("unexpected category listing: %v", names)
	}
}

func TestGetStats(t *testing.T) {
	store := newFakeStore()
	store.counts["books"] = 5
	store.counts["articles"] = 2
	store.failing["fatwa"] = errors.New("gone")

	stats, err := New(store).GetStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if stats.TotalItems != 7 {
		t.Errorf("expected total 7, got %d", stats.TotalItems)
	}
	if stats.Categories["fatwa"] != 0 {
		t.Errorf("failed category must report 0, got %d", stats.Categories["fatwa"])
	}
}
