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

// Package pubsub provides the bounded, single-producer/single-consumer
// queue the multipart event producer uses to hand events (and, separately,
// body chunks) to its consumer under backpressure.
package pubsub

import (
	"context"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Queue is a bounded channel of values with an identity, used both for the
// top-level event stream and for each part's body substream.
//
// Push blocks until there is room, the context is cancelled, or the queue
// is closed — this is what gives the producer real backpressure instead of
// the drop-on-full behavior a best-effort fan-out queue would use.
type Queue interface {
	// ID is the queue's unique identifier, useful for correlating log lines
	// and NDJSON output with a specific part.
	ID() string

	// Push enqueues v, blocking until space is available. It returns
	// ctx.Err() if ctx is cancelled first, or io.ErrClosedPipe if the queue
	// was closed concurrently.
	Push(ctx context.Context, v any) error

	// Pop dequeues the next value, blocking until one is available. It
	// returns io.EOF once the queue has been closed and drained.
	Pop(ctx context.Context) (any, error)

	// Close marks the queue closed. Safe to call more than once and safe
	// to call concurrently with Push/Pop.
	Close()
}

type queue struct {
	id     string
	ch     chan any
	closed atomic.Bool
	once   sync.Once
}

// New creates a Queue with the given buffer capacity. A capacity of 0 or
// less is treated as 1 — a single-slot queue still provides backpressure,
// it just lets at most one item wait ahead of the consumer.
func New(capacity int) Queue {
	if capacity <= 0 {
		capacity = 1
	}
	return &queue{
		id: uuid.New().String(),
		ch: make(chan any, capacity),
	}
}

func (q *queue) ID() string {
	return q.id
}

func (q *queue) Push(ctx context.Context, v any) (err error) {
	if q.closed.Load() {
		return io.ErrClosedPipe
	}
	// a Close that lands while the send below is pending closes q.ch under
	// it, which panics; report that as io.ErrClosedPipe instead.
	defer func() {
		if recover() != nil {
			err = io.ErrClosedPipe
		}
	}()

	select {
	case q.ch <- v:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *queue) Pop(ctx context.Context) (any, error) {
	select {
	case v, ok := <-q.ch:
		if !ok {
			return nil, io.EOF
		}
		return v, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (q *queue) Close() {
	q.once.Do(func() {
		q.closed.Store(true)
		close(q.ch)
	})
}
