package main

import (
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/dnshygiene/ptrcheck/log"
	"github.com/dnshygiene/ptrcheck/zone"
)

type parseResult int // This is a ternary variable
const (
	parseStop     parseResult = iota // No error, but don't continue
	parseContinue                    // No errors and continue
	parseFailed                      // Errors, do not continue
)

// parseOptions populates the config from the command line. Values are only converted to
// their final types by validate() so all errors here are about the shape of the command
// line itself.
//
// As with most flag packages, pflag silently accepts duplicate options with the last one
// winning. That ambiguity is rejected here with a ParseAll callback which tracks which
// flags have already been seen.
func (t *ptrCheck) parseOptions(args []string) parseResult {
	var helpFlag, versionFlag bool

	name := programName
	if len(args) > 0 {
		name = args[0]
	}

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Consider '-h' for command-line usage")
	}

	fs.SetOutput(log.Out())

	// Non-config flags

	fs.BoolVarP(&helpFlag, "help", "h", false, "Print command-line usage")
	fs.BoolVar(&versionFlag, "version", false, "Print version and origin URL")

	// config flags

	fs.BoolVarP(&t.cfg.verboseFlag, "verbose", "v", false,
		`Report every PTR found, transfer progress and a final
percentage score`)
	fs.BoolVar(&t.cfg.debugFlag, "debug", false,
		"Trace every DNS exchange - this implies --verbose")
	fs.BoolVar(&t.cfg.cookieFlag, "cookie", false,
		"Send an EDNS client cookie (rfc7873) with the AXFR query")

	// config Durations and ints

	fs.DurationVar(&t.cfg.timeout, "timeout", t.cfg.timeout,
		"Connect and per-message read timeout for the AXFR")
	fs.IntVar(&t.cfg.parallel, "parallel", t.cfg.parallel,
		"Maximum number of concurrent PTR lookups")

	// config StringVars

	fs.StringVarP(&t.cfg.server, "server", "s", "",
		`DNS server to transfer the zone from - accepts ip, ip:port,
[ipv6] or [ipv6]:port syntax. The default port is 53.
`)
	fs.StringVarP(&t.cfg.zone, "zone", "z", "",
		`Zone to transfer and audit
`)
	fs.StringVarP(&t.cfg.badRE, "badre", "b", "",
		`PTR names matching this regular expression are reported as
bad, e.g. to catch generic ISP-assigned names.
`)
	fs.StringVarP(&t.cfg.colorMode, "color", "c", t.cfg.colorMode,
		"Colorize output: auto, always or never")
	fs.StringVar(&t.cfg.resolvConf, "resolv-conf", t.cfg.resolvConf,
		"Resolver configuration used for PTR lookups")

	////////////////////////////////////////

	dupes := make(map[string]bool) // True means dupes are ok

	dupes["help"] = true    // Documentation options that never run ptrcheck
	dupes["version"] = true // can be duplicate because the user may be fumbling
	dupes["verbose"] = true // around trying to work it out.
	dupes["debug"] = true

	err := fs.ParseAll(args[1:],
		func(f *flag.Flag, v string) error {
			if tf, ok := dupes[f.Name]; ok {
				if tf {
					return fs.Set(f.Name, v)

				}
				return fmt.Errorf("Duplicate option '--%v %v' not allowed",
					f.Name, v)
			}
			dupes[f.Name] = false
			return fs.Set(f.Name, v)
		})

	if err != nil {
		fmt.Fprintln(log.Out(), "Error:", err.Error())
		return parseFailed
	}

	// Handle all documentation options locally

	if helpFlag {
		printUsage(fs)
		fmt.Fprintln(log.Out())
		t.cfg.printVersion()
		return parseStop
	}

	if versionFlag {
		t.cfg.printVersion()
		return parseStop
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(log.Out(), "Error:Unexpected goop on command line: '%s'\n",
			strings.Join(fs.Args(), " "))
		return parseFailed
	}

	return parseContinue
}

func printUsage(fs *flag.FlagSet) {
	o := log.Out()
	fmt.Fprintln(o, "NAME")
	fmt.Fprintln(o, " ", programName, "-- audit the PTR records of every address in a zone")
	fmt.Fprintln(o)
	fmt.Fprintln(o, "SYNOPSIS")
	fmt.Fprintln(o, "     ptrcheck -h | --help | --version")
	fmt.Fprintln(o, "     ptrcheck --server ip[:port] --zone zone-name")
	fmt.Fprintln(o, `              [--badre regexp] [--color auto|always|never]
              [--verbose] [--debug] [--cookie]
              [--parallel count=1] [--timeout time.Duration=`+zone.DefaultTimeout.String()+`]
              [--resolv-conf path=/etc/resolv.conf]`)
	fmt.Fprint(o, `
DESCRIPTION
     ptrcheck transfers a zone with AXFR then looks up the PTR record of every
     address (A and AAAA) found in the zone. Each address is expected to have at
     least one PTR and each PTR is optionally checked against a regular
     expression of names which should never be used.

     Reverse lookups go to the recursive servers listed in the resolver
     configuration, normally /etc/resolv.conf. The AXFR goes directly to
     --server which must allow transfers to this host.

     A typical invocation is:

           $ ptrcheck -s 192.0.2.53 -z example.net -b 'dynamic|dhcp' -v
`)
	fmt.Fprintln(o)
	fmt.Fprintln(o, "OPTIONS")
	op := fs.Output() // Save and restore
	fs.SetOutput(o)
	fs.PrintDefaults()
	fs.SetOutput(op)

	fmt.Fprint(o, `
EXIT STATUS
  0 - every address has at least one acceptable PTR
  1 - missing or bad PTRs were found, or ptrcheck could not run
  2 - the server refused the AXFR or is not authoritative for the zone
`)
}

