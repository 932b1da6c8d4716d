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

package multipart

import (
	"context"
	"io"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/packetd/multiparts/internal/pubsub"
	"github.com/packetd/multiparts/internal/rescue"
	"github.com/packetd/multiparts/internal/tracekit"
)

const (
	maxPreambleLen    = 8192
	maxBoundaryLineLen = 8192
	maxEpilogueLen    = 1<<31 - 1
)

// Limits bounds the sizes the parser accepts and the depth of its queues.
type Limits struct {
	// PartBody caps every part body: a part whose Content-Length exceeds it
	// is rejected before any body byte is copied, and a part without
	// Content-Length fails once more than PartBody bytes have been read.
	// A negative value means unlimited.
	PartBody int64
	// BodyQueueCapacity sizes each part's body substream queue.
	BodyQueueCapacity int
	// EventQueueCapacity sizes the top-level event queue.
	EventQueueCapacity int
	// PreambleLimit caps the bytes read before the first boundary token
	// is seen.
	PreambleLimit int
}

// DefaultLimits matches the documented defaults: unlimited part bodies, an
// 8192-byte preamble cap, a single-slot event queue and a four-chunk body
// queue per part.
func DefaultLimits() Limits {
	return Limits{
		PartBody:           -1,
		BodyQueueCapacity:  4,
		EventQueueCapacity: 1,
		PreambleLimit:      maxPreambleLen,
	}
}

// producer is the top-level state machine: it owns the input stream for
// the duration of parsing, drives C1-C3, and emits events into a bounded
// queue. There is no parallelism within the producer; all of its state is
// private.
type producer struct {
	rd       *reader
	token    Token
	limits   Limits
	totalLen int64 // -1 if unknown

	events pubsub.Queue

	startTotal int64
}

func newProducer(rd *reader, token Token, totalLen int64, limits Limits) *producer {
	return &producer{
		rd:       rd,
		token:    token,
		limits:   limits,
		totalLen: totalLen,
		events:   pubsub.New(limits.EventQueueCapacity),
	}
}

// run drives the whole state machine, pushing events into p.events and
// closing it (normally or with an error) when done.
func (p *producer) run(ctx context.Context) {
	defer rescue.HandleCrash()
	ctx, span := tracekit.Tracer.Start(ctx, "multipart.Parse")
	defer span.End()

	started := time.Now()
	err := p.drive(ctx)
	recordMetrics(started, err)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		// The error is pushed as the queue's last item; the consumer's
		// Next() returns such an item as its error.
		p.pushErr(ctx, err)
	}
	p.events.Close()
}

func (p *producer) pushErr(ctx context.Context, err error) {
	_ = p.events.Push(ctx, err)
}

func (p *producer) drive(ctx context.Context) error {
	p.startTotal = p.rd.TotalRead()
	closing, err := p.start(ctx)
	if err != nil {
		return err
	}
	if closing {
		return p.epilogue(ctx)
	}

	for {
		if err := p.betweenParts(ctx); err != nil {
			return err
		}
		closing, err := p.inPart(ctx)
		if err != nil {
			return err
		}
		if closing {
			return p.epilogue(ctx)
		}
	}
}

// start reads the preamble up to the first boundary token (without its
// leading CRLF, since the body may start directly with "--boundary").
func (p *producer) start(ctx context.Context) (closing bool, err error) {
	preamble, err := p.readCapped(p.token.First(), p.limits.PreambleLimit)
	if err != nil {
		return false, err
	}
	if len(preamble) > 0 {
		if err := p.events.Push(ctx, &PreambleEvent{Body: preamble}); err != nil {
			return false, err
		}
	}
	return p.boundary(p.token.First())
}

// betweenParts consumes the rest of the boundary line (optional trailing
// whitespace up to CRLF) after boundary() has already consumed the token
// and its open/close suffix.
func (p *producer) betweenParts(ctx context.Context) error {
	scratch := make([]byte, maxBoundaryLineLen)
	n, err := p.rd.ReadUntilDelimiter(crlf[:], scratch)
	if err != nil {
		return err
	}
	if n == len(scratch) {
		return newError(KindBoundaryLineTooLong, "boundary line exceeds %d bytes", maxBoundaryLineLen)
	}
	return p.rd.SkipDelimiter(crlf[:])
}

// inPart parses one part: opens its body substream and headers future,
// pushes the Part event immediately (so the consumer can start reading
// concurrently), then parses headers and body.
func (p *producer) inPart(ctx context.Context) (closing bool, err error) {
	ctx, span := tracekit.Tracer.Start(ctx, "multipart.Part")
	defer span.End()

	evt := newPartEvent(p.limits.BodyQueueCapacity)
	span.SetAttributes(attribute.String("multipart.part_id", evt.ID()))
	if err := p.events.Push(ctx, evt); err != nil {
		return false, err
	}

	headers, err := parsePartHeaders(p.rd)
	if err != nil {
		evt.cancelHeaders(err)
		newPartSink(evt.body, ctx).closeErrf(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	evt.resolveHeaders(headers)

	sink := newPartSink(evt.body, ctx)
	n, err := parsePartBody(p.token.Full(), p.rd, sink, headers, p.limits.PartBody)
	span.SetAttributes(attribute.Int64("multipart.body_bytes", n))
	if err != nil {
		sink.closeErrf(err)
		span.SetStatus(codes.Error, err.Error())
		return false, err
	}
	sink.closeOK()

	return p.boundary(p.token.Full())
}

// epilogue emits the trailing bytes after the closing boundary, when the
// total content length is known.
func (p *producer) epilogue(ctx context.Context) error {
	if p.totalLen < 0 {
		return nil
	}
	remaining := p.totalLen - (p.rd.TotalRead() - p.startTotal)
	if remaining > maxEpilogueLen {
		return newError(KindLimitExceeded, "epilogue of %d bytes exceeds %d", remaining, maxEpilogueLen)
	}
	if remaining <= 0 {
		return nil
	}
	buf, err := p.rd.ReadPacket(int(remaining))
	if err != nil {
		return err
	}
	return p.events.Push(ctx, &EpilogueEvent{Body: buf})
}

// readCapped reads up to the delimiter, failing with KindLimitExceeded if
// more than limit bytes are seen before the delimiter appears.
func (p *producer) readCapped(delim []byte, limit int) ([]byte, error) {
	// one spare byte, so that reading limit+1 bytes detects the overrun
	buf := make([]byte, limit+1)
	total := 0
	for {
		n, err := p.rd.ReadUntilDelimiter(delim, buf[total:])
		if err != nil {
			return nil, err
		}
		total += n
		if n == 0 {
			return buf[:total], nil
		}
		if total > limit {
			return nil, newError(KindLimitExceeded, "preamble exceeds %d bytes", limit)
		}
	}
}

// boundary consumes tokenBytes exactly, then decides whether it was
// followed by the closing "--" suffix or an open boundary line.
func (p *producer) boundary(tokenBytes []byte) (closing bool, err error) {
	if err := p.rd.SkipDelimiter(tokenBytes); err != nil {
		return false, err
	}
	return p.checkClosing()
}

// checkClosing inspects the bytes right after a boundary token to decide
// whether it's the closing form ("--") or an open one (a line ending in
// CRLF, possibly with transport padding first).
//
// A byte other than '-' right after the token means an open boundary. After
// a single '-' that is not followed by a second '-', the second pass below
// looks one byte further and treats a '-' there as closing too; that pass
// is permissive beyond what well-formed input requires, and is kept
// for compatibility with the source's behavior rather than tightened, per
// the open question on the double-suffix ambiguity.
func (p *producer) checkClosing() (bool, error) {
	b0, err := p.rd.LookAhead(1)
	if err != nil {
		return false, err
	}
	if b0[0] != '-' {
		return false, nil
	}
	p.rd.Consumed(1)

	b1, err := p.rd.LookAhead(1)
	if err != nil {
		return false, err
	}
	if b1[0] == '-' {
		p.rd.Consumed(1)
		return true, nil
	}

	b2, err := p.rd.LookAhead(2)
	if err != nil {
		return false, err
	}
	if b2[1] == '-' {
		return true, nil
	}
	return false, nil
}

// EventStream is a lazy, one-shot sequence of multipart events. Iteration
// may suspend; closing the stream cancels the parser.
type EventStream struct {
	p      *producer
	cancel context.CancelFunc
	done   bool
}

// Next blocks until the next event is available, the stream ends, or ctx
// is done. It returns (nil, nil) when the stream is exhausted normally.
func (s *EventStream) Next(ctx context.Context) (Event, error) {
	if s.done {
		return nil, nil
	}
	v, err := s.p.events.Pop(ctx)
	if err != nil {
		if err == io.EOF {
			s.done = true
			return nil, nil
		}
		return nil, err
	}
	if e, ok := v.(error); ok {
		s.done = true
		return nil, e
	}
	return v.(Event), nil
}

// Close cancels the parser. Any in-flight part body is closed with
// KindCancelled.
func (s *EventStream) Close() {
	if !s.done {
		s.cancel()
		s.done = true
	}
}
