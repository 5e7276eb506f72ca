package aggregator

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/KhaledTDev/islamhouse/pkg/storage"
)

func newTestAggregator(t *testing.T) (*Aggregator, *storage.Store) {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.InitSchema(context.Background()); err != nil {
		t.Fatalf("failed to init schema: %v", err)
	}
	return New(store), store
}

func execSQL(t *testing.T, store *storage.Store, query string, args ...any) {
	t.Helper()
	if _, err := store.GetDB().Exec(query, args...); err != nil {
		t.Fatalf("exec failed: %v", err)
	}
}

func TestListCategoryFatwa(t *testing.T) {
	agg, store := newTestAggregator(t)
	for i := 1; i <= 3; i++ {
		execSQL(t, store,
			"INSERT INTO fatwa (id, title, question, answer) VALUES (?, ?, ?, ?)",
			i, fmt.Sprintf("ruling %d", i), "question", "answer")
	}

	page, err := agg.ListCategory(context.Background(), "fatwa", "", 1)
	if err != nil {
		t.Fatalf("ListCategory: %v", err)
	}

	if len(page.Items) != 3 {
		t.Errorf("expected 3 items, got %d", len(page.Items))
	}
	if page.TotalItems != 3 {
		t.Errorf("expected total 3, got %d", page.TotalItems)
	}
	if page.TotalPages != 1 {
		t.Errorf("expected 1 page, got %d", page.TotalPages)
	}
	if page.CurrentPage != 1 {
		t.Errorf("expected current page 1, got %d", page.CurrentPage)
	}

	// Fatwa pages come back ordered by id descending.
	if page.Items[0].ID != "3" || page.Items[2].ID != "1" {
		t.Errorf("unexpected order: %q first, %q last", page.Items[0].ID, page.Items[2].ID)
	}
}

func TestListCategoryEmpty(t *testing.T) {
	agg, _ := newTestAggregator(t)

	page, err := agg.ListCategory(context.Background(), "articles", "", 1)
	if err != nil {
		t.Fatalf("empty category must still return a page: %v", err)
	}
	if len(page.Items) != 0 || page.TotalItems != 0 {
		t.Errorf("expected empty page, got %d items / total %d", len(page.Items), page.TotalItems)
	}
	if page.TotalPages != 1 {
		t.Errorf("empty result keeps a single page, got %d", page.TotalPages)
	}
}

func TestListCategoryPageClamping(t *testing.T) {
	agg, store := newTestAggregator(t)
	execSQL(t, store,
		"INSERT INTO articles (id, title, add_date) VALUES (?, ?, ?)",
		1, "lone article", "2024-05-01 00:00:00")

	for _, page := range []int{0, -3} {
		got, err := agg.ListCategory(context.Background(), "articles", "", page)
		if err != nil {
			t.Fatalf("page %d: %v", page, err)
		}
		if got.CurrentPage != 1 {
			t.Errorf("page %d must clamp to 1, got %d", page, got.CurrentPage)
		}
		if len(got.Items) != 1 {
			t.Errorf("page %d: expected 1 item, got %d", page, len(got.Items))
		}
	}
}

func TestListCategoryIdempotent(t *testing.T) {
	agg, store := newTestAggregator(t)
	for i := 1; i <= 4; i++ {
		execSQL(t, store,
			"INSERT INTO articles (id, title, description, add_date) VALUES (?, ?, ?, ?)",
			i, fmt.Sprintf("article %d", i), "body", "2024-05-01 00:00:00")
	}

	first, err := agg.ListCategory(context.Background(), "articles", "", 1)
	if err != nil {
		t.Fatal(err)
	}
	second, err := agg.ListCategory(context.Background(), "articles", "", 1)
	if err != nil {
		t.Fatal(err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Error("repeated calls over unchanged data must return identical pages")
	}
}

func TestSearchTermScopedPerCategory(t *testing.T) {
	agg, store := newTestAggregator(t)
	execSQL(t, store,
		"INSERT INTO books (id, name, author, topics) VALUES (?, ?, ?, ?)",
		1, "Riyadh as-Salihin", "an-Nawawi", "hadith")
	execSQL(t, store,
		"INSERT INTO articles (id, title, description, add_date) VALUES (?, ?, ?, ?)",
		1, "On hadith sciences", "intro", "2024-05-01 00:00:00")
	execSQL(t, store,
		"INSERT INTO fatwa (id, title, question, answer) VALUES (?, ?, ?, ?)",
		1, "unrelated", "unrelated", "unrelated")

	page, err := agg.ListAll(context.Background(), "hadith", 1)
	if err != nil {
		t.Fatal(err)
	}

	if page.TotalItems != 2 {
		t.Fatalf("expected 2 matches across categories, got %d", page.TotalItems)
	}
	for _, item := range page.Items {
		if item.Type == "fatwa" {
			t.Error("non-matching category leaked into results")
		}
	}
}
