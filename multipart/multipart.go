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

// Package multipart is a streaming parser for HTTP multipart/* message
// bodies (RFC 2046 / RFC 7578). Given an input stream and the request's
// Content-Type, it produces a lazy, ordered sequence of events — an
// optional preamble, zero or more parts (each with its own headers and
// body substream), and an optional epilogue — without ever materializing
// the whole body in memory.
package multipart

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/packetd/multiparts/common"
	"github.com/packetd/multiparts/internal/boundarycache"
)

var boundaries = boundarycache.New[Token]()

// Option overrides a field of Limits before parsing starts.
type Option func(*Limits)

// WithPartBodyLimit caps every part body, including the declared
// Content-Length of a part that carries one. Pass a negative value for
// unlimited.
func WithPartBodyLimit(n int64) Option {
	return func(l *Limits) { l.PartBody = n }
}

// WithBodyQueueCapacity sizes each part's body substream queue.
func WithBodyQueueCapacity(n int) Option {
	return func(l *Limits) { l.BodyQueueCapacity = n }
}

// WithEventQueueCapacity sizes the top-level event queue.
func WithEventQueueCapacity(n int) Option {
	return func(l *Limits) { l.EventQueueCapacity = n }
}

// WithPreambleLimit caps the bytes read before the first boundary token.
func WithPreambleLimit(n int) Option {
	return func(l *Limits) { l.PreambleLimit = n }
}

// OptionsFromConfig turns a loosely typed config bag into Options, one per
// field the caller actually set. Fields absent from o are left at whatever
// DefaultLimits (or an earlier Option) already set, so an operator can
// override a single limit in multiparts.yaml without repeating the rest.
func OptionsFromConfig(o common.Options) []Option {
	var opts []Option
	if _, ok := o["partBodyLimit"]; ok {
		if v, err := o.GetInt64("partBodyLimit"); err == nil {
			opts = append(opts, WithPartBodyLimit(v))
		}
	}
	if _, ok := o["bodyQueueCapacity"]; ok {
		if v, err := o.GetInt("bodyQueueCapacity"); err == nil {
			opts = append(opts, WithBodyQueueCapacity(v))
		}
	}
	if _, ok := o["eventQueueCapacity"]; ok {
		if v, err := o.GetInt("eventQueueCapacity"); err == nil {
			opts = append(opts, WithEventQueueCapacity(v))
		}
	}
	if _, ok := o["preambleLimit"]; ok {
		if v, err := o.GetInt("preambleLimit"); err == nil {
			opts = append(opts, WithPreambleLimit(v))
		}
	}
	return opts
}

// Parse resolves the boundary from contentType and starts parsing input.
// contentLength is the known total body length, or -1 if unknown (as from
// a chunked transfer-encoded request).
func Parse(ctx context.Context, input io.Reader, contentType string, contentLength int64, opts ...Option) (*EventStream, error) {
	if !isMultipartContentType(contentType) {
		return nil, newError(KindNotMultipart, "Content-Type %q is not multipart/*", contentType)
	}

	token, ok := boundaries.Get(contentType)
	if !ok {
		var err error
		token, err = ParseBoundary(contentType)
		if err != nil {
			return nil, err
		}
		boundaries.Set(contentType, token)
	}
	return ParseWithToken(ctx, token, input, contentLength, opts...)
}

func isMultipartContentType(ct string) bool {
	const prefix = "multipart/"
	return len(ct) >= len(prefix) && ct[:len(prefix)] == prefix
}

// ParseWithToken is the low-level entry point: it skips boundary
// resolution and starts parsing directly against a pre-parsed token.
func ParseWithToken(ctx context.Context, token Token, input io.Reader, contentLength int64, opts ...Option) (*EventStream, error) {
	limits := DefaultLimits()
	for _, opt := range opts {
		opt(&limits)
	}

	pctx, cancel := context.WithCancel(ctx)
	p := newProducer(newDelimitedReader(input), token, contentLength, limits)

	go p.run(pctx)

	return &EventStream{p: p, cancel: cancel}, nil
}

// recordMetrics wires the observability the production scanner uses to
// report parsing outcomes; kept here rather than in producer.go so the
// state machine stays free of the metrics import.
func recordMetrics(start time.Time, err error) {
	parseDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		kind := KindUnknown
		if me, ok := err.(*Error); ok {
			kind = me.kind
		}
		parseErrors.WithLabelValues(kind.String()).Inc()
		return
	}
	partsParsed.Inc()
}

// HeaderFromRequest is a small convenience for HTTP server callers: it
// reads Content-Type and Content-Length off an *http.Request the way the
// rest of this package expects them.
func HeaderFromRequest(r *http.Request) (contentType string, contentLength int64) {
	contentLength = r.ContentLength
	return r.Header.Get("Content-Type"), contentLength
}
