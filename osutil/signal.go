/*
Package osutil isolates the operating system differences in signal handling.
*/
package osutil

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

// StopError is the cancellation cause of a NotifyStop context when a stop signal
// arrives. It unwraps to context.Canceled.
type StopError struct {
	Signal os.Signal
}

func (t *StopError) Error() string {
	return "stopped by signal " + t.Signal.String()
}

func (t *StopError) Unwrap() error {
	return context.Canceled
}

// NotifyStop returns a copy of ctx which is cancelled when the process receives one of
// the signals which normally terminate it, such as SIGINT from ^C. context.Cause of the
// returned context is then a *StopError naming the signal. The stop function restores
// default signal behaviour and should be called as soon as the context is no longer
// needed.
func NotifyStop(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(ctx)
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, stopSignals...)

	done := make(chan struct{})
	go func() {
		select {
		case s := <-ch:
			cancel(&StopError{Signal: s})
		case <-ctx.Done():
		case <-done:
		}
	}()

	var once sync.Once
	return ctx, func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
			cancel(nil)
		})
	}
}
