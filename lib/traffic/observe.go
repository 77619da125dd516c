// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package traffic

// Observe maps one access-log record to an observation.
//
// serviceName is the workload whose proxy wrote the record. For an
// ingress proxy (egress false) it is the destination; for an egress
// proxy the destination is the record's authority, or its upstream
// host, or failing both the upstream address. The source is whatever
// resolver says about the downstream address. nowMS stamps the
// observation.
//
// The second result is false only for a record without request
// semantics whose endpoints did not both parse. Observe is pure as
// long as resolver is; a nil resolver resolves nothing.
func Observe(record AccessLog, serviceName string, resolver Resolver, egress bool, nowMS uint64) (Observation, bool) {
	if resolver == nil {
		resolver = NoResolver
	}

	downstream, haveDownstream := parseOptionalSocket(record.DownstreamRemoteAddress)
	upstream, haveUpstream := parseOptionalSocket(record.UpstreamHost)

	var peer Peer
	if haveDownstream {
		if entity, ok := resolver.ResolveEntity(downstream); ok {
			peer.Src = &entity
		}
	}
	if entity, ok := destinationEntity(record, serviceName, egress, upstream, haveUpstream); ok {
		peer.Dst = &entity
	}
	if haveDownstream && haveUpstream {
		peer.Raw = &FlowKey{Src: downstream, Dst: upstream, Transport: TCP}
	}

	attrs := Attrs{Visibility: L4Flow, Confidence: Likely}
	if peer.Src != nil && peer.Dst != nil {
		attrs.Confidence = Exact
	}
	if record.Method != nil || record.Path != nil || record.Authority != nil {
		attrs.Visibility = L7Semantics
	}

	if attrs.Visibility == L7Semantics {
		return Observation{
			Kind: KindHTTP,
			HTTP: &HTTPObservation{
				AtMS:        nowMS,
				Peer:        peer,
				Method:      record.Method,
				Path:        httpPath(record, egress),
				Status:      record.ResponseCode,
				DurationMS:  record.DurationMS,
				BytesIn:     record.BytesReceived,
				BytesOut:    record.BytesSent,
				Correlation: Correlation{RequestID: record.RequestID},
				Attrs:       attrs,
			},
		}, true
	}

	if peer.Raw == nil {
		return Observation{}, false
	}
	return Observation{
		Kind: KindFlow,
		Flow: &FlowObservation{
			AtMS: nowMS,
			Flow: *peer.Raw,
			Metrics: FlowMetrics{
				BytesIn:    record.BytesReceived,
				BytesOut:   record.BytesSent,
				DurationMS: record.DurationMS,
			},
			Peer:  peer,
			Attrs: attrs,
		},
	}, true
}

func parseOptionalSocket(raw *string) (Socket, bool) {
	if raw == nil {
		return Socket{}, false
	}
	return ParseSocket(*raw)
}

func destinationEntity(record AccessLog, serviceName string, egress bool, upstream Socket, haveUpstream bool) (EntityID, bool) {
	if !egress {
		return Workload(serviceName, ""), true
	}
	host := record.Authority
	if host == nil {
		host = record.UpstreamHost
	}
	if host != nil {
		if entity, ok := parseExternalEntity(*host); ok {
			return entity, true
		}
	}
	if haveUpstream {
		return External(upstream.IP, ""), true
	}
	return EntityID{}, false
}

// httpPath prefixes the path with the authority for egress, so that
// requests to different external hosts stay distinguishable.
func httpPath(record AccessLog, egress bool) *string {
	if !egress {
		return record.Path
	}
	authority := record.Authority
	if authority == nil {
		authority = record.UpstreamHost
	}
	if authority == nil {
		return record.Path
	}
	joined := *authority
	if record.Path != nil {
		joined += *record.Path
	}
	return &joined
}
