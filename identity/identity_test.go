package identity

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"github.com/crmarques/srvinv/inventory"
	"github.com/crmarques/srvinv/search"
)

type fakeNetworks struct {
	snapshot inventory.Snapshot
	ok       bool
	queries  []search.Query
}

func (f *fakeNetworks) Search(_ context.Context, query search.Query) (inventory.Snapshot, bool, error) {
	f.queries = append(f.queries, query)
	return f.snapshot, f.ok, nil
}

func network(name string, netmask string) inventory.Object {
	return inventory.Object{"name": inventory.String(name), NetmaskAttribute: inventory.String(netmask)}
}

func interfaces(list ...Interface) InterfaceLister {
	return func() ([]Interface, error) { return list, nil }
}

func addrs(values ...string) []netip.Addr {
	parsed := make([]netip.Addr, len(values))
	for idx, value := range values {
		parsed[idx] = netip.MustParseAddr(value)
	}
	return parsed
}

func TestServerID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		addr string
		want string
		ok   bool
	}{
		{addr: "10.0.3.7", want: "srv003007", ok: true},
		{addr: "192.168.100.254", want: "srv100254", ok: true},
		{addr: "::ffff:10.1.2.3", want: "srv002003", ok: true},
		{addr: "fd00::1"},
	}

	for _, tt := range tests {
		got, ok := ServerID(netip.MustParseAddr(tt.addr))
		if got != tt.want || ok != tt.ok {
			t.Fatalf("ServerID(%s) = %q, %t; want %q, %t", tt.addr, got, ok, tt.want, tt.ok)
		}
	}
}

func TestResolveSelfFromRegisteredNetwork(t *testing.T) {
	t.Parallel()

	networks := &fakeNetworks{ok: true, snapshot: inventory.Snapshot{
		network("public", "203.0.113.0/24"),
		inventory.Object{"name": inventory.String("no-mask")},
		network("bad", "not-a-cidr"),
		network("lan", "10.0.3.0/24"),
	}}
	resolver := NewResolver(networks, WithInterfaces(interfaces(
		Interface{Name: "lo", Addrs: addrs("127.0.0.1")},
		Interface{Name: "eth0", Addrs: addrs("203.0.113.9", "fe80::1")},
		Interface{Name: "eth1", Addrs: addrs("172.16.0.4", "10.0.3.7")},
	)))

	info, ok := resolver.PrivateInfo(context.Background())
	if !ok {
		t.Fatal("expected a private address")
	}
	if info.Addr != netip.MustParseAddr("10.0.3.7") || info.Interface != "eth1" || info.Network != "lan" {
		t.Fatalf("unexpected info %+v", info)
	}

	id, ok := resolver.ResolveSelf(context.Background())
	if !ok || id != "srv003007" {
		t.Fatalf("expected srv003007, got %q ok=%t", id, ok)
	}

	query := networks.queries[0]
	if query.Collection != inventory.Networks || query.Attribute != "name" || query.Pattern != "*" {
		t.Fatalf("unexpected network query %+v", query)
	}
}

func TestResolveSelfWithPinnedAddressSkipsLookup(t *testing.T) {
	t.Parallel()

	networks := &fakeNetworks{}
	resolver := NewResolver(networks, WithPrivateIP("10.20.30.40"), WithInterfaces(func() ([]Interface, error) {
		return nil, errors.New("must not be called")
	}))

	id, ok := resolver.ResolveSelf(context.Background())
	if !ok || id != "srv030040" {
		t.Fatalf("expected srv030040, got %q ok=%t", id, ok)
	}
	if len(networks.queries) != 0 {
		t.Fatal("expected no network lookup for a pinned address")
	}
}

func TestResolveSelfFailures(t *testing.T) {
	t.Parallel()

	lan := inventory.Snapshot{network("lan", "10.0.3.0/24")}

	tests := []struct {
		name       string
		networks   *fakeNetworks
		interfaces InterfaceLister
	}{
		{
			name:       "networks_unavailable",
			networks:   &fakeNetworks{ok: false},
			interfaces: interfaces(Interface{Name: "eth0", Addrs: addrs("10.0.3.7")}),
		},
		{
			name:       "no_matching_network",
			networks:   &fakeNetworks{ok: true, snapshot: lan},
			interfaces: interfaces(Interface{Name: "eth0", Addrs: addrs("10.9.9.9")}),
		},
		{
			name:       "loopback_only",
			networks:   &fakeNetworks{ok: true, snapshot: inventory.Snapshot{network("loop", "127.0.0.0/8")}},
			interfaces: interfaces(Interface{Name: "lo0", Addrs: addrs("127.0.0.1")}),
		},
		{
			name:       "interfaces_error",
			networks:   &fakeNetworks{ok: true, snapshot: lan},
			interfaces: func() ([]Interface, error) { return nil, errors.New("no netlink") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			resolver := NewResolver(tt.networks, WithInterfaces(tt.interfaces))
			if id, ok := resolver.ResolveSelf(context.Background()); ok {
				t.Fatalf("expected no id, got %q", id)
			}
		})
	}
}
