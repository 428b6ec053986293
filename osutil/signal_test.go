package osutil

import (
	"context"
	"errors"
	"testing"
)

func TestNotifyStopParentCancel(t *testing.T) {
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, stop := NotifyStop(parent)
	defer stop()

	if ctx.Err() != nil {
		t.Fatal("Context cancelled before any signal")
	}
	cancelParent() // Parent cancellation must still flow through
	<-ctx.Done()
	if ctx.Err() != context.Canceled {
		t.Error("Expected Canceled, got", ctx.Err())
	}
	var se *StopError
	if errors.As(context.Cause(ctx), &se) {
		t.Error("Parent cancel should not look like a signal", se)
	}
}

func TestNotifyStopStop(t *testing.T) {
	ctx, stop := NotifyStop(context.Background())
	stop()
	stop() // Must be safe to call twice
	if ctx.Err() != context.Canceled {
		t.Error("stop should cancel the context, got", ctx.Err())
	}
}
