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
	"sync"

	"github.com/packetd/multiparts/internal/pubsub"
)

// bodyChunk is what a partSink pushes down the body queue; a non-nil err
// is always the last thing the reader side sees.
type bodyChunk struct {
	data []byte
	err  error
}

// Event is the common interface every multipart event satisfies. Release
// must be idempotent and safe to call even after partial consumption.
type Event interface {
	// Release discards whatever the event still owns: a buffered
	// preamble/epilogue, or a part's pending headers and unread body.
	Release()
}

// PreambleEvent carries the raw bytes preceding the first boundary.
type PreambleEvent struct {
	Body []byte
}

// Release drops the preamble's buffer. Safe to call more than once.
func (e *PreambleEvent) Release() {
	e.Body = nil
}

// EpilogueEvent carries the raw bytes following the closing boundary.
type EpilogueEvent struct {
	Body []byte
}

// Release drops the epilogue's buffer. Safe to call more than once.
func (e *EpilogueEvent) Release() {
	e.Body = nil
}

// PartEvent carries a part's headers (as a future, resolved once the
// header block has been fully parsed) and its body as an independently
// readable substream.
type PartEvent struct {
	headersCh   chan *Headers
	headersOnce sync.Once
	headersErr  error

	body *partBody
}

func newPartEvent(bodyQueueCap int) *PartEvent {
	return &PartEvent{
		headersCh: make(chan *Headers, 1),
		body:      newPartBody(bodyQueueCap),
	}
}

// Headers blocks until the part's header block has been parsed (or the
// event released/cancelled), then returns it.
func (e *PartEvent) Headers(ctx context.Context) (*Headers, error) {
	select {
	case h, ok := <-e.headersCh:
		if !ok {
			return nil, e.headersErr
		}
		// put it back so a second caller can also observe it.
		e.headersCh <- h
		return h, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Body returns the part's body substream.
func (e *PartEvent) Body() io.ReadCloser {
	return e.body
}

// ID returns the part's body queue identifier, useful for correlating log
// lines and NDJSON output with this specific part.
func (e *PartEvent) ID() string {
	return e.body.q.ID()
}

// resolveHeaders completes the headers future successfully. Called by the
// producer exactly once per part, before any body bytes are written.
func (e *PartEvent) resolveHeaders(h *Headers) {
	e.headersOnce.Do(func() {
		e.headersCh <- h
	})
}

// cancelHeaders completes the headers future with an error, used when the
// part is released before headers were parsed, or parsing failed.
func (e *PartEvent) cancelHeaders(err error) {
	e.headersOnce.Do(func() {
		e.headersErr = err
		close(e.headersCh)
	})
}

// Release cancels the pending headers future (if not yet resolved) and
// drains and closes the body substream. Idempotent.
func (e *PartEvent) Release() {
	e.cancelHeaders(newError(KindCancelled, "part released by consumer"))
	e.body.drainAndClose()
}

// partBody is the read side of a part's body substream: an io.ReadCloser
// backed by a bounded queue the producer (partSink) writes into.
type partBody struct {
	q        pubsub.Queue
	pending  []byte
	closeErr error
	closed   bool
	mu       sync.Mutex
}

func newPartBody(cap int) *partBody {
	return &partBody{q: pubsub.New(cap)}
}

func (b *partBody) Read(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for len(b.pending) == 0 {
		if b.closed {
			if b.closeErr != nil {
				return 0, b.closeErr
			}
			return 0, io.EOF
		}
		v, err := b.q.Pop(context.Background())
		if err != nil {
			if err == io.EOF {
				b.closed = true
				return 0, io.EOF
			}
			return 0, err
		}
		chunk := v.(bodyChunk)
		if chunk.err != nil {
			b.closed = true
			b.closeErr = chunk.err
			if len(chunk.data) == 0 {
				return 0, chunk.err
			}
		}
		b.pending = chunk.data
		// an empty, error-free chunk (the success terminator) loops
		// around to fetch the next value instead of returning (0, nil).
	}

	n := copy(p, b.pending)
	b.pending = b.pending[n:]
	return n, nil
}

// Close marks the substream closed from the consumer's side. It does not
// signal the producer; callers that want to abandon a body mid-read should
// use Release on the owning PartEvent, which drains the queue so the
// producer isn't stalled.
func (b *partBody) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.pending = nil
	return nil
}

func (b *partBody) drainAndClose() {
	ctx := context.Background()
	for {
		v, err := b.q.Pop(ctx)
		if err != nil {
			break
		}
		if c, ok := v.(bodyChunk); ok && c.err != nil {
			break
		}
	}
	_ = b.Close()
}

// partSink is the write side of a part's body substream, used by the
// scanner's copy loop.
type partSink struct {
	q   pubsub.Queue
	ctx context.Context
}

func newPartSink(body *partBody, ctx context.Context) *partSink {
	return &partSink{q: body.q, ctx: ctx}
}

func (s *partSink) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	cp := make([]byte, len(p))
	copy(cp, p)
	if err := s.q.Push(s.ctx, bodyChunk{data: cp}); err != nil {
		return 0, newError(KindCancelled, "part body write aborted: %v", err)
	}
	return len(p), nil
}

// Flush is a no-op placeholder for symmetry with buffered sinks; the
// queue-backed sink has nothing to flush since every Write is already
// handed to the consumer.
func (s *partSink) Flush() error {
	return nil
}

// closeOK signals the body substream finished successfully.
func (s *partSink) closeOK() {
	s.q.Close()
}

// closeErrf signals the body substream ended in failure; err is delivered
// as the terminal read error.
func (s *partSink) closeErrf(err error) {
	_ = s.q.Push(context.Background(), bodyChunk{err: err})
	s.q.Close()
}
