// Package batch classifies incoming record batches before persistence.
// Batches arrive from spreadsheet-style imports, so every record has to be
// screened for missing fields and duplicates before anything is written.
package batch

// Result partitions a batch into the three classifier buckets. A record lands
// in exactly one bucket.
type Result[T any] struct {
	Accepted   []T
	Incomplete []T
	Duplicate  []T
}

// Classify screens records in input order. Completeness is checked before
// duplication, so an incomplete record never counts as a duplicate. A record
// is a duplicate when its key already exists in the store or appeared earlier
// in the same batch; the first complete occurrence of a key wins.
func Classify[T any, K comparable](records []T, keyOf func(T) K, complete func(T) bool, exists func(K) bool) Result[T] {
	result := Result[T]{}
	seen := make(map[K]struct{}, len(records))

	for _, record := range records {
		if !complete(record) {
			result.Incomplete = append(result.Incomplete, record)
			continue
		}

		key := keyOf(record)
		if _, dup := seen[key]; dup || exists(key) {
			result.Duplicate = append(result.Duplicate, record)
			continue
		}

		seen[key] = struct{}{}
		result.Accepted = append(result.Accepted, record)
	}

	return result
}
