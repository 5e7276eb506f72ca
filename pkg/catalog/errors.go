package catalog

import "errors"

// Error taxonomy shared across the query and aggregation layers.
//
// ErrSourceUnavailable is a per-category condition: federated operations
// absorb it and continue with the remaining categories. Only when every
// category fails does the aggregator surface ErrAllSourcesUnavailable,
// which is distinct from an empty result set.
var (
	// ErrInvalidCategory is returned for a category name outside the
	// closed set. Caller error, reported before touching storage.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrItemNotFound is returned when a category has no row with the
	// requested id.
	ErrItemNotFound = errors.New("item not found")

	// ErrSourceUnavailable marks one category's store as unreachable,
	// distinguishable from a query returning zero rows.
	ErrSourceUnavailable = errors.New("category store unavailable")

	// ErrAllSourcesUnavailable is the hard failure of a federated call:
	// every category store failed.
	ErrAllSourcesUnavailable = errors.New("all category stores unavailable")
)
