package catalog

import (
	"errors"
	"testing"
)

func TestCategoriesOrder(t *testing.T) {
	cats := Categories()
	expected := []string{"books", "articles", "fatwa", "audios", "videos"}

	if len(cats) != len(expected) {
		t.Fatalf("expected %d categories, got %d", len(expected), len(cats))
	}
	for i, name := range expected {
		if cats[i].Name != name {
			t.Errorf("category %d: expected %s, got %s", i, name, cats[i].Name)
		}
	}
}

func TestDescriptorFor(t *testing.T) {
	tests := []struct {
		name         string
		searchFields []string
		orderField   string
		mergeByID    bool
	}{
		{"books", []string{"name", "topics", "author"}, "id", true},
		{"fatwa", []string{"title", "question", "answer"}, "id", false},
		{"articles", []string{"title", "description", "prepared_by"}, "extracted_at", false},
		{"audios", []string{"title", "description", "prepared_by"}, "extracted_at", false},
		{"videos", []string{"title", "description", "prepared_by"}, "extracted_at", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := DescriptorFor(tt.name)
			if err != nil {
				t.Fatalf("DescriptorFor(%s): %v", tt.name, err)
			}
			if d.OrderField != tt.orderField {
				t.Errorf("order field: expected %s, got %s", tt.orderField, d.OrderField)
			}
			if d.MergeByID != tt.mergeByID {
				t.Errorf("merge by id: expected %v, got %v", tt.mergeByID, d.MergeByID)
			}
			if len(d.SearchFields) != len(tt.searchFields) {
				t.Fatalf("search fields: expected %v, got %v", tt.searchFields, d.SearchFields)
			}
			for i, f := range tt.searchFields {
				if d.SearchFields[i] != f {
					t.Errorf("search field %d: expected %s, got %s", i, f, d.SearchFields[i])
				}
			}
		})
	}
}

func TestDescriptorForUnknown(t *testing.T) {
	_, err := DescriptorFor("podcasts")
	if !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}

	if IsValid("podcasts") {
		t.Error("podcasts should not be a valid category")
	}
	if !IsValid("books") {
		t.Error("books should be a valid category")
	}
}

func TestDisplayNames(t *testing.T) {
	d, err := DescriptorFor("books")
	if err != nil {
		t.Fatal(err)
	}
	if d.DisplayName != "Books" {
		t.Errorf("expected display name Books, got %s", d.DisplayName)
	}
}
