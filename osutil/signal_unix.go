//go:build !windows
// +build !windows

package osutil

import (
	"os"
	"syscall"
)

// stopSignals are the signals which end a run early.
var stopSignals = []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP}
