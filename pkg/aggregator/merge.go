package aggregator

import (
	"strconv"

	"github.com/KhaledTDev/islamhouse/pkg/catalog"
)

// mergeLess is the federated merge comparator. When either side comes
// from an identifier-ordered category with merge precedence (books, the
// one category with no usable timestamp at all), the pair compares by
// numeric id descending; every other pair compares by add date
// descending. Unparseable ids sort as zero, which together with the
// epoch fallback for unparseable dates keeps the ordering total.
func mergeLess(a, b catalog.ContentItem) bool {
	if idPrecedence(a) || idPrecedence(b) {
		return numericID(a) > numericID(b)
	}
	return a.AddDate.After(b.AddDate)
}

func idPrecedence(item catalog.ContentItem) bool {
	d, err := catalog.DescriptorFor(item.Type)
	if err != nil {
		return false
	}
	return d.MergeByID
}

func numericID(item catalog.ContentItem) int64 {
	n, err := strconv.ParseInt(item.ID, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
