// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package traffic

import (
	"net/netip"
	"strconv"
	"strings"
)

// ParseSocket parses "ip:port" or "[ipv6]:port". Surrounding
// whitespace and redundant brackets are tolerated; anything without a
// numeric port is rejected.
func ParseSocket(raw string) (Socket, bool) {
	if addrPort, err := netip.ParseAddrPort(raw); err == nil {
		return Socket{IP: addrPort.Addr(), Port: addrPort.Port()}, true
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Socket{}, false
	}
	cut := strings.LastIndexByte(raw, ':')
	if cut < 0 {
		return Socket{}, false
	}
	ip, err := netip.ParseAddr(strings.Trim(raw[:cut], "[]"))
	if err != nil {
		return Socket{}, false
	}
	port, err := strconv.ParseUint(raw[cut+1:], 10, 16)
	if err != nil {
		return Socket{}, false
	}
	return Socket{IP: ip, Port: uint16(port)}, true
}

// unspecifiedIPv4 stands in for the address of an external known only
// by name.
var unspecifiedIPv4 = netip.IPv4Unspecified()

// parseExternalEntity interprets an authority or host as an external
// identity. A port suffix is ignored. A literal IP yields an address
// identity; anything else is taken as a DNS name.
func parseExternalEntity(raw string) (EntityID, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return EntityID{}, false
	}
	host := value
	if cut := strings.LastIndexByte(value, ':'); cut >= 0 {
		host = value[:cut]
	}
	host = strings.Trim(host, "[]")
	if ip, err := netip.ParseAddr(host); err == nil {
		return External(ip, ""), true
	}
	return External(unspecifiedIPv4, host), true
}
