package zone

import (
	"net/netip"
	"testing"

	"github.com/bassosimone/runtimex"
	"github.com/miekg/dns"
)

func rrs(ss ...string) (ret []dns.RR) {
	for _, s := range ss {
		ret = append(ret, runtimex.PanicOnError1(dns.NewRR(s)))
	}
	return
}

func TestAddressSet(t *testing.T) {
	set := FromRecords(rrs(
		"example.net. IN SOA ns. host. 1 2 3 4 5",
		"a.example.net. IN A 192.0.2.1",
		"b.example.net. IN AAAA 2001:db8::1",
		"c.example.net. IN A 192.0.2.1",
		"d.example.net. IN CNAME a.example.net.",
		"e.example.net. IN AAAA ::ffff:192.0.2.9",
		"a.example.net. IN A 192.0.2.1",
	))

	if set.Len() != 3 {
		t.Fatal("Expected 3 unique addresses, not", set.Len())
	}
	exp := []string{"192.0.2.1", "2001:db8::1", "::ffff:192.0.2.9"}
	for ix, a := range set.Addrs() {
		if a.String() != exp[ix] {
			t.Error(ix, "Order wrong. Want", exp[ix], "got", a)
		}
	}

	// Duplicates are kept; each record is a pointer to the address
	names := set.Names(netip.MustParseAddr("192.0.2.1"))
	if len(names) != 3 || names[0] != "a.example.net." || names[1] != "c.example.net." {
		t.Error("Names wrong", names)
	}

	// An AAAA holding a mapped address is still IPv6 and distinct from the IPv4
	if set.Names(netip.MustParseAddr("192.0.2.9")) != nil {
		t.Error("Mapped AAAA should not become an IPv4 address")
	}
}

func TestAddressSetCopies(t *testing.T) {
	set := FromRecords(rrs("a.example.net. IN A 192.0.2.1"))
	addr := netip.MustParseAddr("192.0.2.1")

	set.Addrs()[0] = netip.MustParseAddr("192.0.2.2")
	set.Names(addr)[0] = "mutated."
	for _, names := range set.All() {
		names[0] = "mutated."
	}

	if set.Addrs()[0] != addr || set.Names(addr)[0] != "a.example.net." {
		t.Error("AddressSet was modified via an accessor")
	}
}

func TestAddressSetAllStops(t *testing.T) {
	set := FromRecords(rrs("a. IN A 192.0.2.1", "b. IN A 192.0.2.2", "c. IN A 192.0.2.3"))
	count := 0
	for range set.All() {
		count++
		if count == 2 {
			break
		}
	}
	if count != 2 {
		t.Error("Iteration did not stop", count)
	}
}
