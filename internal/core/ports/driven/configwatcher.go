package driven

import "context"

// ConfigWatcher reports changes to the configuration file made outside
// this process.
type ConfigWatcher interface {
	// Watch calls onChange after each change until ctx is cancelled.
	// It blocks; run it in its own goroutine.
	Watch(ctx context.Context, onChange func()) error

	// Close stops watching and releases resources.
	Close() error
}
