package graphics

// QuitLatch turns a level-triggered close flag into a single quit report.
type QuitLatch struct {
	requested bool
	reported  bool
}

// Request marks the quit as requested.
func (q *QuitLatch) Request() {
	q.requested = true
}

// Poll folds closeFlag into the latch and returns true on the first poll
// that observes a request. Every later poll returns false.
func (q *QuitLatch) Poll(closeFlag bool) bool {
	if closeFlag {
		q.requested = true
	}
	if !q.requested || q.reported {
		return false
	}
	q.reported = true
	return true
}

// Reported tells whether the quit has already been handed out.
func (q *QuitLatch) Reported() bool {
	return q.reported
}
