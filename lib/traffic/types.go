// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package traffic

import (
	"net/netip"
	"strconv"
)

// Socket is an IP address and port.
type Socket struct {
	IP   netip.Addr `json:"ip"`
	Port uint16     `json:"port"`
}

func (s Socket) String() string {
	return netip.AddrPortFrom(s.IP, s.Port).String()
}

// EntityKind discriminates EntityID.
type EntityKind string

const (
	EntityWorkload EntityKind = "workload"
	EntityExternal EntityKind = "external"
	EntityUnknown  EntityKind = "unknown"
)

// EntityID is a logical identity. Workloads carry Name and optionally
// Instance; externals carry IP and optionally DNSName. An external
// known only by name has the unspecified IPv4 address.
type EntityID struct {
	Kind     EntityKind `json:"kind"`
	Name     string     `json:"name,omitempty"`
	Instance string     `json:"instance,omitempty"`
	IP       netip.Addr `json:"ip,omitzero"`
	DNSName  string     `json:"dns_name,omitempty"`
}

// Workload returns a workload identity. instance may be empty.
func Workload(name, instance string) EntityID {
	return EntityID{Kind: EntityWorkload, Name: name, Instance: instance}
}

// External returns an external identity. dnsName may be empty.
func External(ip netip.Addr, dnsName string) EntityID {
	return EntityID{Kind: EntityExternal, IP: ip, DNSName: dnsName}
}

// Unknown is the placeholder used where an identity is required but
// none was resolved.
func Unknown() EntityID {
	return EntityID{Kind: EntityUnknown}
}

// String renders the identity for tables and logs.
func (e EntityID) String() string {
	switch e.Kind {
	case EntityWorkload:
		if e.Instance != "" {
			return e.Name + "/" + e.Instance
		}
		return e.Name
	case EntityExternal:
		if e.DNSName != "" {
			return e.DNSName
		}
		return e.IP.String()
	default:
		return "?"
	}
}

// Transport is the layer-4 protocol of a flow.
type Transport string

const (
	TCP Transport = "tcp"
	UDP Transport = "udp"
)

// FlowKey identifies one connection.
type FlowKey struct {
	Src       Socket    `json:"src"`
	Dst       Socket    `json:"dst"`
	Transport Transport `json:"transport"`
}

// Peer pairs the resolved identities of a communication with its raw
// endpoints. Any part may be absent.
type Peer struct {
	Src *EntityID `json:"src,omitempty"`
	Dst *EntityID `json:"dst,omitempty"`
	Raw *FlowKey  `json:"raw,omitempty"`
}

// Visibility records how much of the exchange was seen.
type Visibility string

const (
	L4Flow      Visibility = "l4_flow"
	L7Semantics Visibility = "l7_semantics"
)

// rank orders visibilities from least to most detailed.
func (v Visibility) rank() int {
	switch v {
	case L7Semantics:
		return 2
	case L4Flow:
		return 1
	default:
		return 0
	}
}

// Richer reports whether v carries more detail than other.
func (v Visibility) Richer(other Visibility) bool {
	return v.rank() > other.rank()
}

// Confidence is Exact when both ends were resolved.
type Confidence string

const (
	Exact  Confidence = "exact"
	Likely Confidence = "likely"
)

// Attrs is metadata common to every observation. Tags are encoded in
// key order.
type Attrs struct {
	Visibility Visibility        `json:"visibility"`
	Confidence Confidence        `json:"confidence"`
	Tags       map[string]string `json:"tags,omitempty"`
}

// Correlation carries identifiers that tie an observation to others.
type Correlation struct {
	RequestID *string `json:"request_id,omitempty"`
}

// HTTPObservation is a request seen with layer-7 semantics.
type HTTPObservation struct {
	AtMS        uint64      `json:"at_ms"`
	Peer        Peer        `json:"peer"`
	Method      *string     `json:"method,omitempty"`
	Path        *string     `json:"path,omitempty"`
	Status      *uint16     `json:"status,omitempty"`
	DurationMS  *uint64     `json:"duration_ms,omitempty"`
	BytesIn     *uint64     `json:"bytes_in,omitempty"`
	BytesOut    *uint64     `json:"bytes_out,omitempty"`
	Correlation Correlation `json:"correlation"`
	Attrs       Attrs       `json:"attrs"`
}

// FlowMetrics are the counters of a connection.
type FlowMetrics struct {
	BytesIn    *uint64 `json:"bytes_in,omitempty"`
	BytesOut   *uint64 `json:"bytes_out,omitempty"`
	Packets    *uint64 `json:"packets,omitempty"`
	DurationMS *uint64 `json:"duration_ms,omitempty"`
}

// FlowObservation is a connection seen without request semantics.
type FlowObservation struct {
	AtMS    uint64      `json:"at_ms"`
	Flow    FlowKey     `json:"flow"`
	Metrics FlowMetrics `json:"metrics"`
	Peer    Peer        `json:"peer"`
	Attrs   Attrs       `json:"attrs"`
}

// ObservationKind discriminates Observation.
type ObservationKind string

const (
	KindHTTP ObservationKind = "http"
	KindFlow ObservationKind = "flow"
)

// Observation is exactly one of an HTTP or a flow observation, named
// by Kind.
type Observation struct {
	Kind ObservationKind  `json:"kind"`
	HTTP *HTTPObservation `json:"http,omitempty"`
	Flow *FlowObservation `json:"flow,omitempty"`
}

// AtMS returns the observation time in epoch milliseconds.
func (o Observation) AtMS() uint64 {
	switch o.Kind {
	case KindHTTP:
		return o.HTTP.AtMS
	case KindFlow:
		return o.Flow.AtMS
	}
	return 0
}

// Peer returns the peer of either variant.
func (o Observation) Peer() Peer {
	switch o.Kind {
	case KindHTTP:
		return o.HTTP.Peer
	case KindFlow:
		return o.Flow.Peer
	}
	return Peer{}
}

// Attrs returns the attributes of either variant.
func (o Observation) Attrs() Attrs {
	switch o.Kind {
	case KindHTTP:
		return o.HTTP.Attrs
	case KindFlow:
		return o.Flow.Attrs
	}
	return Attrs{}
}

func (o Observation) String() string {
	peer := o.Peer()
	from, to := "?", "?"
	if peer.Src != nil {
		from = peer.Src.String()
	}
	if peer.Dst != nil {
		to = peer.Dst.String()
	}
	switch o.Kind {
	case KindHTTP:
		method, path, status := "-", "-", "-"
		if o.HTTP.Method != nil {
			method = *o.HTTP.Method
		}
		if o.HTTP.Path != nil {
			path = *o.HTTP.Path
		}
		if o.HTTP.Status != nil {
			status = strconv.Itoa(int(*o.HTTP.Status))
		}
		return from + " -> " + to + " " + method + " " + path + " " + status
	case KindFlow:
		return from + " -> " + to + " " + string(o.Flow.Flow.Transport) + " " + o.Flow.Flow.Dst.String()
	}
	return "<empty observation>"
}
