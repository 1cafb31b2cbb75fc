// Package identity derives this host's server id from its private IPv4
// address and the networks registered in the inventory.
package identity

import (
	"context"
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/crmarques/srvinv/debugctx"
	"github.com/crmarques/srvinv/inventory"
	"github.com/crmarques/srvinv/search"
)

// NetmaskAttribute holds a network's CIDR on the net collection.
const NetmaskAttribute = "netmask"

// Interface is one local network interface and its addresses.
type Interface struct {
	Name  string
	Addrs []netip.Addr
}

// InterfaceLister enumerates local interfaces.
type InterfaceLister func() ([]Interface, error)

// NetworkSearcher finds objects of a collection, usually through the cache.
type NetworkSearcher interface {
	Search(ctx context.Context, query search.Query) (inventory.Snapshot, bool, error)
}

// Info is the private address chosen for this host and where it was found.
type Info struct {
	Addr      netip.Addr
	Interface string
	Network   string
}

type Resolver struct {
	networks   NetworkSearcher
	interfaces InterfaceLister
	privateIP  netip.Addr
}

type Option func(*Resolver)

// WithPrivateIP pins the address and skips interface and network lookup.
// Invalid input is ignored.
func WithPrivateIP(addr string) Option {
	return func(r *Resolver) {
		if parsed, err := netip.ParseAddr(strings.TrimSpace(addr)); err == nil {
			r.privateIP = parsed.Unmap()
		}
	}
}

func WithInterfaces(lister InterfaceLister) Option {
	return func(r *Resolver) {
		if lister != nil {
			r.interfaces = lister
		}
	}
}

func NewResolver(networks NetworkSearcher, opts ...Option) *Resolver {
	resolver := &Resolver{networks: networks, interfaces: SystemInterfaces}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(resolver)
	}
	return resolver
}

// ResolveSelf returns srvXXXYYY built from the last two octets of the private
// address.
func (r *Resolver) ResolveSelf(ctx context.Context) (string, bool) {
	addr := r.privateIP
	if !addr.IsValid() {
		info, ok := r.PrivateInfo(ctx)
		if !ok {
			return "", false
		}
		addr = info.Addr
	}
	return ServerID(addr)
}

// PrivateInfo picks the first private IPv4 address, on an interface whose
// name does not start with "lo", that falls inside a registered network.
func (r *Resolver) PrivateInfo(ctx context.Context) (Info, bool) {
	logger := debugctx.Logger(ctx)

	if r.networks == nil {
		return Info{}, false
	}
	networks, ok, err := r.networks.Search(ctx, search.Query{
		Collection: inventory.Networks,
		Attribute:  inventory.NameAttribute,
		Pattern:    "*",
	})
	if err != nil || !ok {
		logger.V(debugctx.LevelWarn).Info("networks unavailable for self id")
		return Info{}, false
	}
	prefixes := networkPrefixes(networks)

	interfaces, err := r.interfaces()
	if err != nil {
		logger.V(debugctx.LevelWarn).Info("local interfaces could not be listed", "error", err.Error())
		return Info{}, false
	}

	for _, iface := range interfaces {
		if strings.HasPrefix(iface.Name, "lo") {
			continue
		}
		for _, addr := range iface.Addrs {
			addr = addr.Unmap()
			if !addr.Is4() || !addr.IsPrivate() {
				continue
			}
			for _, network := range prefixes {
				if network.prefix.Contains(addr) {
					return Info{Addr: addr, Interface: iface.Name, Network: network.name}, true
				}
			}
		}
	}
	return Info{}, false
}

type namedPrefix struct {
	name   string
	prefix netip.Prefix
}

func networkPrefixes(networks inventory.Snapshot) []namedPrefix {
	prefixes := make([]namedPrefix, 0, len(networks))
	for _, network := range networks {
		netmask, ok := network[NetmaskAttribute].AsString()
		if !ok {
			continue
		}
		prefix, err := netip.ParsePrefix(strings.TrimSpace(netmask))
		if err != nil {
			continue
		}
		prefixes = append(prefixes, namedPrefix{name: network.Name(), prefix: prefix.Masked()})
	}
	return prefixes
}

// ServerID formats an IPv4 address as srv followed by its third and fourth
// octets, each zero padded to three digits.
func ServerID(addr netip.Addr) (string, bool) {
	addr = addr.Unmap()
	if !addr.Is4() {
		return "", false
	}
	octets := addr.As4()
	return fmt.Sprintf("srv%03d%03d", octets[2], octets[3]), true
}

// SystemInterfaces lists the host's interfaces.
func SystemInterfaces() ([]Interface, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	result := make([]Interface, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		entry := Interface{Name: iface.Name}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if parsed, ok := netip.AddrFromSlice(ipNet.IP); ok {
				entry.Addrs = append(entry.Addrs, parsed.Unmap())
			}
		}
		result = append(result, entry)
	}
	return result, nil
}
