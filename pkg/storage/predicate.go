package storage

import (
	"strings"

	"github.com/KhaledTDev/islamhouse/pkg/catalog"
)

// buildPredicate returns the WHERE fragment and bind args for a substring
// search across the category's search fields, OR-ed together. Count and
// Fetch both go through here so the two can never drift apart for the
// same logical request.
//
// Matching is case-insensitive for ASCII via sqlite's LIKE semantics.
// Field and table names come from the closed registry, never from the
// caller, so they are safe to splice into the statement.
func buildPredicate(d catalog.Descriptor, term string) (string, []any) {
	if term == "" {
		return "", nil
	}

	pattern := "%" + escapeLike(term) + "%"
	clauses := make([]string, len(d.SearchFields))
	args := make([]any, len(d.SearchFields))
	for i, field := range d.SearchFields {
		clauses[i] = field + " LIKE ? ESCAPE '\\'"
		args[i] = pattern
	}

	return " WHERE (" + strings.Join(clauses, " OR ") + ")", args
}

// escapeLike neutralizes LIKE wildcards in user terms so "50%" matches
// the literal text instead of everything.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}
