package catalog

import "time"

// Attachment is one downloadable or playable file attached to an item.
// Unparsable attachment payloads degrade to an empty list during
// normalization, never to an error.
type Attachment struct {
	URL       string `json:"url"`
	Extension string `json:"extension,omitempty"`
	Size      string `json:"size,omitempty"`
}

// ContentItem is the canonical normalized content unit. It is built fresh
// from a raw row on every request and never mutated afterwards.
//
// ID is unique only within the item's category; (Type, ID) is the true key.
type ContentItem struct {
	ID               string       `json:"id"`
	Type             string       `json:"type"`
	Title            string       `json:"title"`
	Description      string       `json:"description,omitempty"`
	DescriptionShort string       `json:"description_short,omitempty"`
	PreparedBy       string       `json:"prepared_by,omitempty"`
	AddDate          time.Time    `json:"add_date"`
	Attachments      []Attachment `json:"attachments,omitempty"`

	// Extra carries the category-specific fields (author, pages,
	// question/answer, download links, ...) after sanitation. They are
	// preserved verbatim rather than mapped to a common schema.
	Extra map[string]any `json:"extra,omitempty"`
}

// Page is the request/response envelope for every listing and search path.
//
// Invariants: TotalPages == max(1, ceil(TotalItems/ItemsPerPage)),
// len(Items) <= ItemsPerPage and CurrentPage is clamped to [1, TotalPages].
type Page struct {
	Items        []ContentItem `json:"items"`
	CurrentPage  int           `json:"current_page"`
	TotalPages   int           `json:"total_pages"`
	TotalItems   int           `json:"total_items"`
	ItemsPerPage int           `json:"items_per_page"`

	// Degraded marks results served from the local replica instead of the
	// live stores. Replica results are sample-bounded and possibly stale.
	Degraded bool `json:"degraded,omitempty"`
}
