// Copyright 2026 The Sanelens Authors
// SPDX-License-Identifier: Apache-2.0

package traffic

import (
	"math"
	"strconv"

	"github.com/valyala/fastjson"
)

// AccessLog is one structured proxy access-log record. Every field is
// optional; nil means the key was missing or had the wrong type. A
// present but empty string is kept as such.
type AccessLog struct {
	Timestamp               *string
	Method                  *string
	Path                    *string
	Authority               *string
	Protocol                *string
	ResponseCode            *uint16
	DurationMS              *uint64
	DownstreamRemoteAddress *string
	UpstreamHost            *string
	BytesReceived           *uint64
	BytesSent               *uint64
	RequestID               *string
}

var accessLogParsers fastjson.ParserPool

// ParseAccessLog decodes one JSON object. It returns false for
// anything that is not a JSON object. Numeric fields accept a JSON
// number or a string of decimal digits; a response code that does not
// fit in 16 bits is treated as missing.
func ParseAccessLog(line []byte) (AccessLog, bool) {
	parser := accessLogParsers.Get()
	defer accessLogParsers.Put(parser)

	value, err := parser.ParseBytes(line)
	if err != nil || value.Type() != fastjson.TypeObject {
		return AccessLog{}, false
	}

	record := AccessLog{
		Timestamp:               stringField(value, "timestamp"),
		Method:                  stringField(value, "method"),
		Path:                    stringField(value, "path"),
		Authority:               stringField(value, "authority"),
		Protocol:                stringField(value, "protocol"),
		DurationMS:              uintField(value, "duration_ms"),
		DownstreamRemoteAddress: stringField(value, "downstream_remote_address"),
		UpstreamHost:            stringField(value, "upstream_host"),
		BytesReceived:           uintField(value, "bytes_received"),
		BytesSent:               uintField(value, "bytes_sent"),
		RequestID:               stringField(value, "request_id"),
	}
	if code := uintField(value, "response_code"); code != nil && *code <= math.MaxUint16 {
		status := uint16(*code)
		record.ResponseCode = &status
	}
	return record, true
}

func stringField(object *fastjson.Value, key string) *string {
	field := object.Get(key)
	if field == nil || field.Type() != fastjson.TypeString {
		return nil
	}
	s := string(field.GetStringBytes())
	return &s
}

func uintField(object *fastjson.Value, key string) *uint64 {
	field := object.Get(key)
	if field == nil {
		return nil
	}
	switch field.Type() {
	case fastjson.TypeNumber:
		n, err := field.Uint64()
		if err != nil {
			return nil
		}
		return &n
	case fastjson.TypeString:
		n, err := strconv.ParseUint(string(field.GetStringBytes()), 10, 64)
		if err != nil {
			return nil
		}
		return &n
	}
	return nil
}
