package repo

// nextID returns 1 for an empty collection and max(existing)+1 otherwise.
// Ids freed by deleting the current maximum are handed out again.
func nextID[T any](records []T, id func(T) int) int {
	next := 1
	for _, r := range records {
		if v := id(r); v >= next {
			next = v + 1
		}
	}
	return next
}
