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
	"strconv"
	"strings"

	"github.com/packetd/multiparts/internal/bufpool"
)

const maxHeaderLineLen = 8192

// parsePartHeaders reads CRLF-terminated header lines up to the empty
// line that ends a part's header block.
func parsePartHeaders(rd *reader) (*Headers, error) {
	h := newHeaders()

	for {
		line, err := readLine(rd)
		if err != nil {
			return nil, err
		}
		if len(line) == 0 {
			return h, nil
		}

		name, value, ok := splitHeaderLine(line)
		if !ok {
			return nil, newError(KindMalformedHeaders, "malformed header line %q", line)
		}
		h.Add(name, value)
	}
}

// readLine reads one CRLF-terminated line (without the CRLF) using a
// scratch buffer sized like the boundary-line trailing-whitespace cap,
// since header lines share the same "don't let junk run forever" concern.
func readLine(rd *reader) (string, error) {
	buf := make([]byte, maxHeaderLineLen)
	n, err := rd.ReadUntilDelimiter(crlf[:], buf)
	if err != nil {
		return "", err
	}
	if n == len(buf) {
		return "", newError(KindMalformedHeaders, "header line exceeds %d bytes", maxHeaderLineLen)
	}
	if err := rd.SkipDelimiter(crlf[:]); err != nil {
		return "", err
	}
	return string(buf[:n]), nil
}

// splitHeaderLine splits "Name: value" into its parts, trimming optional
// leading whitespace from the value per RFC 7230 §3.2.
func splitHeaderLine(line string) (name, value string, ok bool) {
	idx := strings.IndexByte(line, ':')
	if idx <= 0 {
		return "", "", false
	}
	name = line[:idx]
	value = strings.TrimLeft(line[idx+1:], " \t")
	return name, value, true
}

// parsePartBody copies a part's body into sink, using Content-Length when
// present or scanning for the boundary otherwise. It returns the number of
// bytes copied.
func parsePartBody(boundary []byte, rd *reader, sink *partSink, headers *Headers, limit int64) (int64, error) {
	if cl := headers.Get("Content-Length"); cl != "" {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err != nil {
			return 0, newError(KindMalformedHeaders, "invalid Content-Length %q", cl)
		}
		if limit >= 0 && n > limit {
			return 0, newError(KindLimitExceeded, "part Content-Length %d exceeds limit %d", n, limit)
		}
		if err := copyExactly(rd, sink, n); err != nil {
			return 0, err
		}
		return n, sink.Flush()
	}

	n, err := copyUntilBoundary(boundary, rd, sink, limit)
	if err != nil {
		return n, err
	}
	return n, sink.Flush()
}

func copyExactly(rd *reader, sink *partSink, n int64) error {
	const chunk = 32 * 1024
	var remaining = n
	for remaining > 0 {
		want := int64(chunk)
		if remaining < want {
			want = remaining
		}
		buf := bufpool.Get()
		buf.B = buf.B[:0]
		if cap(buf.B) < int(want) {
			buf.B = make([]byte, want)
		} else {
			buf.B = buf.B[:want]
		}
		got, err := rd.LookAhead(int(want))
		if err != nil {
			bufpool.Put(buf)
			return err
		}
		copy(buf.B, got)
		rd.Consumed(int(want))
		if _, werr := sink.Write(buf.B); werr != nil {
			bufpool.Put(buf)
			return werr
		}
		bufpool.Put(buf)
		remaining -= want
	}
	return nil
}

// copyUntilBoundary borrows a scratch buffer from the pool and repeatedly
// reads-until-delimiter, writing whatever it gets to sink, until the
// delimiter (or EOF) is the next thing in the stream. The buffer is always
// returned to the pool, even on failure.
func copyUntilBoundary(delim []byte, rd *reader, sink *partSink, limit int64) (int64, error) {
	buf := bufpool.Get()
	defer bufpool.Put(buf)

	if cap(buf.B) < defaultReaderBufSize {
		buf.B = make([]byte, defaultReaderBufSize)
	} else {
		buf.B = buf.B[:cap(buf.B)]
	}

	var total int64
	for {
		n, err := rd.ReadUntilDelimiter(delim, buf.B)
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, nil
		}
		total += int64(n)
		if limit >= 0 && total > limit {
			return total, newError(KindLimitExceeded, "part body exceeds limit %d", limit)
		}
		if _, err := sink.Write(buf.B[:n]); err != nil {
			return total, err
		}
	}
}
