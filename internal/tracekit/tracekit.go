// Copyright 2025 The multiparts Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package tracekit extracts and generates W3C trace context so the event
// producer can tag its spans (and NDJSON output) with a caller-supplied
// trace, instead of always starting a fresh one.
package tracekit

import (
	"crypto/rand"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const headerTraceParent = "traceparent"

// Tracer is the package-wide tracer the event producer starts spans on.
// It defaults to a no-op implementation; callers that wire up a real
// exporter replace it at process startup before the first Parse call.
var Tracer trace.Tracer = noop.NewTracerProvider().Tracer("github.com/packetd/multiparts")

// TraceContext is the pair of IDs carried by a W3C traceparent header.
type TraceContext struct {
	TraceID trace.TraceID
	SpanID  trace.SpanID
}

// TraceIDFromHTTPHeader extracts a TraceContext from an HTTP header set.
//
// Expected format: traceparent: 00-{trace-id}-{parent-id}-{trace-flags}
func TraceIDFromHTTPHeader(h http.Header) (TraceContext, bool) {
	var empty TraceContext
	s := h.Get(headerTraceParent)
	if s == "" {
		return empty, false
	}

	parts := strings.Split(s, "-")
	if len(parts) != 4 {
		return empty, false
	}

	// only version "00" of the traceparent format is understood
	if parts[0] != "00" {
		return empty, false
	}

	traceID, err := trace.TraceIDFromHex(parts[1])
	if err != nil {
		return empty, false
	}
	spanID, err := trace.SpanIDFromHex(parts[2])
	if err != nil {
		return empty, false
	}
	return TraceContext{TraceID: traceID, SpanID: spanID}, true
}

// RandomTraceID generates a new random TraceID for requests that arrive
// without a traceparent header.
func RandomTraceID() trace.TraceID {
	var id trace.TraceID
	_, _ = rand.Read(id[:])
	return id
}

// RandomSpanID generates a new random SpanID.
func RandomSpanID() trace.SpanID {
	var id trace.SpanID
	_, _ = rand.Read(id[:])
	return id
}
