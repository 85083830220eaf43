// Package workers provides abstractions for managing and running
// background workers in the application.
// It defines the Worker interface and a Workers aggregate that allows
// running multiple workers in a unified way.
package workers

import "context"

// Worker is the interface that must be implemented by any background worker.
//
// Run starts the worker and returns immediately; the worker's goroutine
// exits when ctx is cancelled or Stop is called. Stop blocks until the
// goroutine has exited and is a no-op for an idle worker.
//
// Example implementation:
//
//	type MyWorker struct{}
//
//	func (w *MyWorker) Run(ctx context.Context) {
//	    go w.loop(ctx)
//	}
type Worker interface {
	Run(ctx context.Context)
	Stop()
}
