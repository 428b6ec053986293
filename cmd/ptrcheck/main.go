package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dnshygiene/ptrcheck/log"
	"github.com/dnshygiene/ptrcheck/osutil"
	"github.com/dnshygiene/ptrcheck/resolver"
	"github.com/dnshygiene/ptrcheck/zone"
)

func reportError(severity string, err error, messages ...string) {
	msg := severity
	if len(messages) > 0 {
		msg += ": " + strings.Join(messages, " ")
	}
	if err != nil {
		msg += ": " + err.Error()
	}
	fmt.Fprintln(log.Out(), msg)
}

// fatal reports err and returns the exit code it deserves. Only main ever exits.
func fatal(err error, messages ...string) int {
	reportError("Fatal", err, messages...)
	if zone.IsRejection(err) {
		return exitRejected
	}

	return exitFailure
}

//////////////////////////////////////////////////////////////////////

// ptrCheck is the whole program state for one run
type ptrCheck struct {
	cfg       *config
	resolver  resolver.Resolver // Loaded from --resolv-conf unless supplied
	startTime time.Time
}

func newPtrCheck(cfg *config, res resolver.Resolver) *ptrCheck {
	if cfg == nil {
		cfg = newConfig()
	}

	return &ptrCheck{cfg: cfg, resolver: res, startTime: time.Now()}
}

func main() {
	ctx, stop := osutil.NotifyStop(context.Background())
	code := newPtrCheck(nil, nil).execute(ctx, os.Args)
	stop()
	os.Exit(code)
}

// execute is everything main() does apart from exiting so tests can run the whole program.
func (t *ptrCheck) execute(ctx context.Context, args []string) int {
	switch t.parseOptions(args) {
	case parseStop:
		return exitOK
	case parseFailed:
		return exitFailure
	case parseContinue:
	}

	// Transfer logging options to the log package

	log.SetLevel(log.MajorLevel)
	if t.cfg.verboseFlag {
		log.SetLevel(log.MinorLevel)
	}
	if t.cfg.debugFlag {
		log.SetLevel(log.DebugLevel)
	}

	// Validate everything that is likely a typo or usage error
	err := t.validate()
	if err != nil {
		return fatal(err)
	}

	return t.run(ctx)
}
