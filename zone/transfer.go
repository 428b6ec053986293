package zone

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/miekg/dns"
	"golang.org/x/net/idna"

	"github.com/dnshygiene/ptrcheck/dnsutil"
	"github.com/dnshygiene/ptrcheck/endpoint"
	"github.com/dnshygiene/ptrcheck/log"
)

const DefaultTimeout = 10 * time.Second

// Config controls the network side of a transfer. Use NewConfig to get the defaults.
type Config struct {
	DialTimeout time.Duration
	ReadTimeout time.Duration // Applies to each message, not the whole transfer
	Cookie      bool          // Send an rfc7873 client cookie with the query
}

func NewConfig() Config {
	return Config{DialTimeout: DefaultTimeout, ReadTimeout: DefaultTimeout}
}

// TransferStats counts what arrived over the wire.
type TransferStats struct {
	Messages int
	Records  int // Includes both SOAs
	A        int
	AAAA     int
	Skipped  int // Neither A nor AAAA
}

// Content returns the number of records in the zone proper, that is, excluding the SOAs
// which open and close the transfer.
func (t *TransferStats) Content() int {
	return max(t.Records-2, 0)
}

// cookieJar holds the per-run secret for client cookies.
var cookieJar = sync.OnceValue(newCookieSecret)

// CanonicalZone converts a user-supplied zone name into the fully qualified, lower-case,
// ASCII form used on the wire. Internationalized names are converted to their punycode
// equivalent. The root zone is accepted as ".".
func CanonicalZone(name string) (string, error) {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return "", fmt.Errorf("%w: empty name", ErrInvalidZone)
	}
	if name == "." {
		return name, nil
	}

	orig := name
	if !isASCII(name) {
		ascii, err := idna.Lookup.ToASCII(strings.TrimSuffix(name, "."))
		if err != nil {
			return "", fmt.Errorf("%w: %q: %w", ErrInvalidZone, orig, err)
		}
		name = ascii
	}
	if strings.HasPrefix(name, ".") || strings.Contains(name, "..") || strings.ContainsAny(name, " \t") {
		return "", fmt.Errorf("%w: %q", ErrInvalidZone, orig)
	}
	if _, ok := dns.IsDomainName(name); !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidZone, orig)
	}

	return dns.CanonicalName(name), nil
}

func isASCII(s string) bool {
	for ix := 0; ix < len(s); ix++ {
		if s[ix] >= utf8.RuneSelf {
			return false
		}
	}

	return true
}

// Transfer performs a full zone transfer of zoneName from the server at ep and returns
// every address found in the A and AAAA records of the zone along with the names which
// point at them. No partial set is returned on error.
//
// The returned error is an ErrInvalidZone wrapper, a *ConnectionError, a *RejectedError
// or a *ProtocolError. Use IsRejection to distinguish the terminal rejections.
func Transfer(ctx context.Context, cfg Config, ep endpoint.Endpoint, zoneName string) (*AddressSet, *TransferStats, error) {
	zone, err := CanonicalZone(zoneName)
	if err != nil {
		return nil, nil, err
	}

	ms, err := Open(ctx, cfg, ep, zone)
	if err != nil {
		return nil, nil, err
	}
	defer ms.Close()

	set := newAddressSet()
	stats := &TransferStats{}
	for m, ok := ms.Next(); ok; m, ok = ms.Next() {
		stats.Messages++
		for _, rr := range m.Answer {
			stats.Records++
			if !set.fold(rr) {
				stats.Skipped++
				continue
			}
			if log.IfDebug() {
				log.Debug("AXFR RR:", dnsutil.PrettyAddr(rr, true))
			}
			if rr.Header().Rrtype == dns.TypeA {
				stats.A++
			} else {
				stats.AAAA++
			}
		}
	}
	if err := ms.Err(); err != nil {
		return nil, nil, err
	}

	log.Minorf("Zone contains %d record%s", stats.Content(), plural(stats.Content()))
	if log.IfDebug() {
		log.Debugf("AXFR %s messages=%d A=%d AAAA=%d skipped=%d addresses=%d",
			zone, stats.Messages, stats.A, stats.AAAA, stats.Skipped, set.Len())
	}

	return set, stats, nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}

	return "s"
}
