package zone

import (
	"iter"
	"net/netip"
	"slices"

	"github.com/miekg/dns"
)

// AddressSet maps each unique address found in a zone to the owner names of the address
// records which point at it. Addresses are kept in first-seen order. Only this package
// adds to a set; everyone else gets copies from the accessors, so a set returned by
// Transfer is read-only.
type AddressSet struct {
	order []netip.Addr
	names map[netip.Addr][]string
}

func newAddressSet() *AddressSet {
	return &AddressSet{names: make(map[netip.Addr][]string)}
}

// FromRecords folds the address records found in rrs into a new set exactly as Transfer
// does. All other record types are ignored.
func FromRecords(rrs []dns.RR) *AddressSet {
	t := newAddressSet()
	for _, rr := range rrs {
		t.fold(rr)
	}

	return t
}

// fold adds rr to the set if it is an A or AAAA. Return true if it was added.
func (t *AddressSet) fold(rr dns.RR) bool {
	var addr netip.Addr
	var ok bool
	switch rrt := rr.(type) {
	case *dns.A:
		addr, ok = netip.AddrFromSlice(rrt.A)
		addr = addr.Unmap() // miekg often holds ipv4 in 16-byte form
	case *dns.AAAA:
		addr, ok = netip.AddrFromSlice(rrt.AAAA)
	}
	if !ok {
		return false
	}

	name := rr.Header().Name
	if _, seen := t.names[addr]; !seen {
		t.order = append(t.order, addr)
	}
	t.names[addr] = append(t.names[addr], name)

	return true
}

// Len returns the number of unique addresses.
func (t *AddressSet) Len() int {
	return len(t.order)
}

// Addrs returns the addresses in first-seen order.
func (t *AddressSet) Addrs() []netip.Addr {
	return slices.Clone(t.order)
}

// Names returns the owner names pointing at addr in the order they were transferred. The
// return is nil if addr is not in the set.
func (t *AddressSet) Names(addr netip.Addr) []string {
	return slices.Clone(t.names[addr])
}

// All iterates over addresses and their names in first-seen order.
func (t *AddressSet) All() iter.Seq2[netip.Addr, []string] {
	return func(yield func(netip.Addr, []string) bool) {
		for _, addr := range t.order {
			if !yield(addr, slices.Clone(t.names[addr])) {
				return
			}
		}
	}
}
