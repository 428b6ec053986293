package main

import (
	"fmt"
	"regexp"
	"runtime/debug"
	"time"

	"github.com/dnshygiene/ptrcheck/endpoint"
	"github.com/dnshygiene/ptrcheck/log"
	"github.com/dnshygiene/ptrcheck/pregen"
	"github.com/dnshygiene/ptrcheck/resolver"
	"github.com/dnshygiene/ptrcheck/zone"
)

const (
	programName = "ptrcheck"

	// Uppercase HTTPS implies BuildInfo was empty, e.g. a test binary
	defaultProjectURL = "HTTPS://github.com/dnshygiene/ptrcheck"

	defaultParallel = 1
)

// Exit codes
const (
	exitOK       = 0 // No failures
	exitFailure  = 1 // Missing or broken PTRs, or a fatal error
	exitRejected = 2 // The server said REFUSED or NOTAUTH to the AXFR
)

// config holds both the raw command-line values and their validated equivalents. Once
// validated it is never changed as it is shared with the lookup go-routines.
type config struct {
	projectURL string

	server     string // "--server"
	zone       string // "--zone"
	badRE      string // "--badre"
	colorMode  string // "--color"
	resolvConf string // "--resolv-conf"

	verboseFlag bool
	debugFlag   bool
	cookieFlag  bool

	parallel int
	timeout  time.Duration

	// Populated by validate()

	endpoint   endpoint.Endpoint
	zoneName   string         // Canonical
	badPattern *regexp.Regexp // nil if no --badre
	transfer   zone.Config
	palette    *palette
}

func newConfig() *config {
	t := &config{
		projectURL: defaultProjectURL,
		colorMode:  colorAuto,
		resolvConf: resolver.DefaultConfigPath,
		parallel:   defaultParallel,
		timeout:    zone.DefaultTimeout,
	}
	info, ok := debug.ReadBuildInfo()
	if ok && len(info.Main.Path) > 0 {
		t.projectURL = info.Main.Path // Override with embedded if present
	}
	t.palette = newPalette(colorAuto)

	return t
}

func (t *config) printVersion() {
	fmt.Fprintf(log.Out(), "Program:     %s %s (%s)\n",
		programName, pregen.Version, pregen.ReleaseDate)
	fmt.Fprintf(log.Out(), "Project:     %s\n", t.projectURL)
}
