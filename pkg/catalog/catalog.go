// Package catalog describes the closed set of content categories served by
// islamhouse and the canonical shapes shared by every other package: the
// per-category Descriptor, the normalized ContentItem and the Page envelope.
//
// Each category is backed by its own independently shaped table. The
// descriptors are the single source of truth for which fields are searchable
// and how rows are ordered, so the query layer never hardcodes field names
// per category.
package catalog

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ItemsPerPage is the fixed page size used by every endpoint.
const ItemsPerPage = 25

// Category names. The set is closed; anything else is a validation error.
const (
	CategoryBooks    = "books"
	CategoryArticles = "articles"
	CategoryFatwa    = "fatwa"
	CategoryAudios   = "audios"
	CategoryVideos   = "videos"
)

// Projection selects the normalization strategy for a category.
type Projection int

const (
	// ProjectGeneric passes fields through with per-field handling
	// (articles, audios, videos).
	ProjectGeneric Projection = iota
	// ProjectBooks uses the fixed book field list with title/description
	// derived from name/topics.
	ProjectBooks
	// ProjectFatwa uses the fixed fatwa field list with description
	// derived from the answer.
	ProjectFatwa
)

// Descriptor is the immutable registry entry for one category.
type Descriptor struct {
	// Name is the unique category identifier and the backing table name.
	Name string

	// DisplayName is the human-readable category name.
	DisplayName string

	// SearchFields are the raw columns eligible for substring search,
	// OR-ed together. Order matters only for readability of generated SQL.
	SearchFields []string

	// OrderField is the column used for default descending ordering.
	// Categories without a reliable timestamp order by id.
	OrderField string

	// MergeByID marks the category whose items take identifier precedence
	// in the federated merge comparator.
	MergeByID bool

	// Projection selects the normalizer strategy.
	Projection Projection
}

var titleCaser = cases.Title(language.English)

// categories holds every descriptor in registry order. Federated operations
// iterate in this order, which keeps totals and candidate pools deterministic.
var categories = []Descriptor{
	{
		Name:         CategoryBooks,
		DisplayName:  titleCaser.String(CategoryBooks),
		SearchFields: []string{"name", "topics", "author"},
		OrderField:   "id",
		MergeByID:    true,
		Projection:   ProjectBooks,
	},
	{
		Name:         CategoryArticles,
		DisplayName:  titleCaser.String(CategoryArticles),
		SearchFields: []string{"title", "description", "prepared_by"},
		OrderField:   "extracted_at",
		Projection:   ProjectGeneric,
	},
	{
		Name:         CategoryFatwa,
		DisplayName:  titleCaser.String(CategoryFatwa),
		SearchFields: []string{"title", "question", "answer"},
		OrderField:   "id",
		Projection:   ProjectFatwa,
	},
	{
		Name:         CategoryAudios,
		DisplayName:  titleCaser.String(CategoryAudios),
		SearchFields: []string{"title", "description", "prepared_by"},
		OrderField:   "extracted_at",
		Projection:   ProjectGeneric,
	},
	{
		Name:         CategoryVideos,
		DisplayName:  titleCaser.String(CategoryVideos),
		SearchFields: []string{"title", "description", "prepared_by"},
		OrderField:   "extracted_at",
		Projection:   ProjectGeneric,
	},
}

var byName = func() map[string]Descriptor {
	m := make(map[string]Descriptor, len(categories))
	for _, d := range categories {
		m[d.Name] = d
	}
	return m
}()

// Categories returns every descriptor in registry order.
func Categories() []Descriptor {
	out := make([]Descriptor, len(categories))
	copy(out, categories)
	return out
}

// DescriptorFor returns the descriptor for name or ErrInvalidCategory.
func DescriptorFor(name string) (Descriptor, error) {
	d, ok := byName[name]
	if !ok {
		return Descriptor{}, ErrInvalidCategory
	}
	return d, nil
}

// IsValid reports whether name is a known category.
func IsValid(name string) bool {
	_, ok := byName[name]
	return ok
}
