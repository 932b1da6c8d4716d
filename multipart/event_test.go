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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartEventHeadersResolvesBeforeBody(t *testing.T) {
	evt := newPartEvent(4)
	sink := newPartSink(evt.body, context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = sink.Write([]byte("payload"))
		sink.closeOK()
	}()

	h := newHeaders()
	h.Add("X-Test", "1")
	evt.resolveHeaders(h)

	got, err := evt.Headers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1", got.Get("X-Test"))

	buf, err := io.ReadAll(evt.Body())
	require.NoError(t, err)
	assert.Equal(t, "payload", string(buf))
	<-done
}

func TestPartEventReleaseBeforeHeadersResolved(t *testing.T) {
	evt := newPartEvent(4)
	// the producer side finishes the (empty) body, which Release drains
	go newPartSink(evt.body, context.Background()).closeOK()
	evt.Release()

	_, err := evt.Headers(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindCancelled))
}

func TestPartEventReleaseDrainsBody(t *testing.T) {
	evt := newPartEvent(1)
	sink := newPartSink(evt.body, context.Background())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = sink.Write([]byte("a"))
		_, _ = sink.Write([]byte("b"))
		sink.closeOK()
	}()

	evt.Release()
	<-done
}

func TestPartBodySurfacesError(t *testing.T) {
	evt := newPartEvent(4)
	sink := newPartSink(evt.body, context.Background())

	cause := newError(KindLimitExceeded, "too big")
	sink.closeErrf(cause)

	_, err := io.ReadAll(evt.Body())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindLimitExceeded))
}
