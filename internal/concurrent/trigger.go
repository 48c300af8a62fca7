package concurrent

// Async runs exec on its own goroutine and returns once the goroutine is live.
// Callers can rely on the work having started, not on it having finished.
func Async(exec func()) {
	started := make(chan struct{})
	go func() {
		close(started)
		exec()
	}()
	<-started
}
