// Package paginate provides the pure page-window arithmetic shared by
// category browsing, federated search and the local replica fallback.
// No state, no I/O.
package paginate

// TotalPages returns ceil(totalItems/pageSize) with a floor of 1, so an
// empty result set still renders as a single empty page.
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 {
		return 1
	}
	pages := (totalItems + pageSize - 1) / pageSize
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage clamps page into [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Window returns the (offset, limit) pair for a 1-based page.
func Window(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	return (page - 1) * pageSize, pageSize
}

// Slice returns the half-open index range [start, end) of the page window
// applied to a slice of length n. Useful when paginating an in-memory
// result set such as the merged federated pool or the replica.
func Slice(page, pageSize, n int) (start, end int) {
	offset, limit := Window(page, pageSize)
	if offset >= n {
		return n, n
	}
	end = offset + limit
	if end > n {
		end = n
	}
	return offset, end
}
