package crawl

import "sync"

// visitTracker records normalized URLs so no page is fetched twice within one
// crawl.
type visitTracker struct {
	seen sync.Map
}

func newVisitTracker() *visitTracker {
	return &visitTracker{}
}

// MarkIfNew stores the URL if it has not been seen before and returns true.
func (t *visitTracker) MarkIfNew(url string) bool {
	if url == "" {
		return false
	}
	_, loaded := t.seen.LoadOrStore(url, struct{}{})
	return !loaded
}

// Len reports the number of distinct URLs marked.
func (t *visitTracker) Len() int {
	n := 0
	t.seen.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
