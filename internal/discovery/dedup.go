package discovery

// Deduplicate collapses records that share a normalized URL.
// The survivor of each group is the record Rank would place first within that
// group, so deduplication and final ordering agree on what "best" means.
// Groups are returned in first-encounter order. The second return value is the
// number of records collapsed away, len(records) - len(unique).
func Deduplicate(records []Record, priority MethodPriority) ([]Record, int) {
	index := make(map[string]int, len(records))
	unique := make([]Record, 0, len(records))

	for _, rec := range records {
		key := rec.NormalizedURL()
		i, seen := index[key]
		if !seen {
			index[key] = len(unique)
			unique = append(unique, rec)
			continue
		}
		if compareRecords(rec, unique[i], priority) < 0 {
			unique[i] = rec
		}
	}

	return unique, len(records) - len(unique)
}
