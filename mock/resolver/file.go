package resolver

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/miekg/dns"

	"github.com/dnshygiene/ptrcheck/log"
)

// fileResponse is what a mock file says should happen for a lookup.
type fileResponse struct {
	msg     dns.Msg
	timeout bool
	errText string // Non-empty means fail with this error
}

func (t *mockResolver) loadLookupFile(qClass, qType, qName string) (r fileResponse, fname string) {
	fname = path.Join(t.dir, "lookup", strings.ToUpper(qClass), strings.ToUpper(qType), qName)
	return t.loadFile(fname), fname
}

// Attempt to open a mock file. If it doesn't exist, return REFUSED. If it does exist and
// is empty return NXDOMAIN. If it's not empty parse as a series of lines with a prefix
// indicating what the line means:
//
// A:Answer RR in dns.NewRR() format
// RCODE:miekg rcode string - must be uppercase - see miekg/msg.go lines 139 onwards.
// TIMEOUT:Any text. The lookup times out.
// ERROR:text. The lookup fails with an error which is none of the resolver errors.
// ;; Comment
// Blank lines ignored
// No spaces between the ":" separator
//
// If you set RCODE: then normally there should be no RRs in the message as no caller
// will look at them.

func init() {
	path := os.Getenv("PTRCHECK_TRACE")
	if len(path) > 0 {
		var err error
		tracer, err = os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			panic(err)
		}
	}
}

var tracer *os.File

func (t *mockResolver) loadFile(fname string) (r fileResponse) {
	log.Debug("mock:Resolver:Open:", fname)
	file, err := os.Open(fname)
	if tracer != nil {
		_, e2 := fmt.Fprintf(tracer, "%s:%t\n", fname, err == nil)
		if e2 != nil {
			panic(e2)
		}
		tracer.Sync() // Because we never get a chance to close it
	}

	if err != nil { // Assume no exist
		r.msg.MsgHdr.Rcode = dns.RcodeRefused
		return
	}
	defer file.Close()
	rcode := -1 // Means not set

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 {
			continue
		}
		if strings.HasPrefix(line, ";;") {
			continue
		}
		ar := strings.SplitN(line, ":", 2)
		if len(ar) != 2 { // Malformed is a setup error
			panic("Malformed loadfile " + fname)
		}

		switch ar[0] {
		case "RCODE":
			var ok bool
			rcode, ok = dns.StringToRcode[ar[1]]
			if !ok {
				panic("Unknown RCODE in " + fname + ": " + ar[1])
			}
			log.Debugf("Mock:File:Rcode %d from '%s'", rcode, ar[1])

		case "TIMEOUT":
			r.timeout = true

		case "ERROR":
			r.errText = ar[1]

		case "A":
			rr, err := dns.NewRR(ar[1])
			if err != nil {
				panic(err) // Parse failure is a setup error
			}
			r.msg.Answer = append(r.msg.Answer, rr)

		default:
			panic("filemock bad Section: " + ar[0])
		}
	}

	if rcode == -1 {
		if len(r.msg.Answer) == 0 && !r.timeout && len(r.errText) == 0 {
			rcode = dns.RcodeNameError // NXDOMAIN
		} else {
			rcode = dns.RcodeSuccess
		}
	}
	r.msg.MsgHdr.Rcode = rcode

	return
}
