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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePartHeaders(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader(
		"Content-Disposition: form-data; name=\"a\"\r\nContent-Type: text/plain\r\n\r\nbody follows"))
	h, err := parsePartHeaders(rd)
	require.NoError(t, err)
	assert.Equal(t, `form-data; name="a"`, h.Get("Content-Disposition"))
	assert.Equal(t, "text/plain", h.Get("Content-Type"))
}

func TestParsePartHeadersMalformed(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("not-a-header-line\r\n\r\n"))
	_, err := parsePartHeaders(rd)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMalformedHeaders))
}

func TestParsePartHeadersUnexpectedEOF(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("Content-Type: text/plain\r\n"))
	_, err := parsePartHeaders(rd)
	require.Error(t, err)
}

func drainBody(t *testing.T, body *partBody) ([]byte, error) {
	t.Helper()
	var out []byte
	buf := make([]byte, 8)
	for {
		n, err := body.Read(buf)
		out = append(out, buf[:n]...)
		if err != nil {
			if err == io.EOF {
				return out, nil
			}
			return out, err
		}
	}
}

func TestCopyUntilBoundary(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("hello world\r\n--X--\r\n"))
	evt := newPartEvent(4)
	sink := newPartSink(evt.body, context.Background())

	n, err := copyUntilBoundary([]byte("\r\n--X"), rd, sink, -1)
	require.NoError(t, err)
	assert.EqualValues(t, 11, n)
	sink.closeOK()

	got, err := drainBody(t, evt.body)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(got))
}

func TestCopyUntilBoundaryLimitExceeded(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader(strings.Repeat("x", 100) + "\r\n--X--\r\n"))
	evt := newPartEvent(4)
	sink := newPartSink(evt.body, context.Background())

	_, err := copyUntilBoundary([]byte("\r\n--X"), rd, sink, 10)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindLimitExceeded))
}

func TestParsePartBodyContentLength(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("hello\r\n--X--\r\n"))
	h := newHeaders()
	h.Add("Content-Length", "5")
	evt := newPartEvent(4)
	sink := newPartSink(evt.body, context.Background())

	n, err := parsePartBody([]byte("\r\n--X"), rd, sink, h, -1)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
	sink.closeOK()

	got, err := drainBody(t, evt.body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))
}

func TestParsePartBodyContentLengthExceedsLimit(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("hello"))
	h := newHeaders()
	h.Add("Content-Length", "100")
	evt := newPartEvent(4)
	sink := newPartSink(evt.body, context.Background())

	_, err := parsePartBody([]byte("\r\n--X"), rd, sink, h, 10)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindLimitExceeded))
}
