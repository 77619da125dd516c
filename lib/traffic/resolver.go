// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package traffic

import (
	"fmt"
	"net/netip"

	"github.com/sanelens/sanelens/lib/config"
)

// Resolver maps a socket to a logical identity. Implementations must
// be safe for concurrent use and should be fast; Observe calls them
// inline.
type Resolver interface {
	ResolveEntity(socket Socket) (EntityID, bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(socket Socket) (EntityID, bool)

// ResolveEntity calls f.
func (f ResolverFunc) ResolveEntity(socket Socket) (EntityID, bool) { return f(socket) }

// NoResolver resolves nothing.
var NoResolver Resolver = ResolverFunc(func(Socket) (EntityID, bool) { return EntityID{}, false })

// StaticResolver resolves from a fixed table. An exact ip:port entry
// wins over an ip-only entry. IPv4-mapped IPv6 addresses match their
// IPv4 form. Populate it with Add before sharing it; lookups are then
// safe from any goroutine.
type StaticResolver struct {
	byAddrPort map[netip.AddrPort]EntityID
	byAddr     map[netip.Addr]EntityID
}

// NewStaticResolver returns an empty table.
func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		byAddrPort: make(map[netip.AddrPort]EntityID),
		byAddr:     make(map[netip.Addr]EntityID),
	}
}

// Add maps ip (and port, unless zero) to entity. Later entries replace
// earlier ones for the same key.
func (r *StaticResolver) Add(ip netip.Addr, port uint16, entity EntityID) {
	ip = ip.Unmap()
	if port == 0 {
		r.byAddr[ip] = entity
		return
	}
	r.byAddrPort[netip.AddrPortFrom(ip, port)] = entity
}

// Len returns the number of entries.
func (r *StaticResolver) Len() int {
	return len(r.byAddrPort) + len(r.byAddr)
}

// ResolveEntity implements Resolver.
func (r *StaticResolver) ResolveEntity(socket Socket) (EntityID, bool) {
	ip := socket.IP.Unmap()
	if entity, ok := r.byAddrPort[netip.AddrPortFrom(ip, socket.Port)]; ok {
		return entity, true
	}
	entity, ok := r.byAddr[ip]
	return entity, ok
}

// ResolverFromRegistry builds a StaticResolver from the configured
// registry. Workload addresses may carry a port; externals match on
// IP alone.
func ResolverFromRegistry(registry config.RegistryConfig) (*StaticResolver, error) {
	resolver := NewStaticResolver()
	for _, workload := range registry.Workloads {
		entity := Workload(workload.Name, workload.Instance)
		for _, address := range workload.Addresses {
			ip, port, err := config.ParseRegistryAddress(address)
			if err != nil {
				return nil, fmt.Errorf("registry workload %s: %w", workload.Name, err)
			}
			resolver.Add(ip, port, entity)
		}
	}
	for _, external := range registry.Externals {
		ip, err := netip.ParseAddr(external.IP)
		if err != nil {
			return nil, fmt.Errorf("registry external %q: %w", external.IP, err)
		}
		resolver.Add(ip, 0, External(ip, external.DNSName))
	}
	return resolver, nil
}
