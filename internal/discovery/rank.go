package discovery

import (
	"cmp"
	"slices"
)

// compareRecords orders a before b when it ranks higher.
// Every key is descending: confidence, then method priority, then source
// compared as plain text.
func compareRecords(a, b Record, priority MethodPriority) int {
	if c := cmp.Compare(b.Confidence, a.Confidence); c != 0 {
		return c
	}
	if c := cmp.Compare(priority.Of(b.Method), priority.Of(a.Method)); c != 0 {
		return c
	}
	return cmp.Compare(b.Source, a.Source)
}

// Rank returns a new slice holding every record, highest ranked first.
// Records that tie on all keys keep their input order.
func Rank(records []Record, priority MethodPriority) []Record {
	ranked := slices.Clone(records)
	slices.SortStableFunc(ranked, func(a, b Record) int {
		return compareRecords(a, b, priority)
	})
	return ranked
}
