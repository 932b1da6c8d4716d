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
	"bytes"
	"io"
)

const defaultReaderBufSize = 4096

// reader is the delimited byte reader the scanner and producer use to
// walk the input stream. It supports read-until-delimiter, skip-delimiter,
// a bounded lookahead, and a running count of bytes consumed. These are
// the only primitives the rest of the package uses to touch input — no
// other suspension points exist.
type reader struct {
	r     io.Reader
	buf   []byte
	start int
	total int64
}

func newDelimitedReader(r io.Reader) *reader {
	return &reader{r: r, buf: make([]byte, 0, defaultReaderBufSize)}
}

// TotalRead reports the number of bytes consumed so far.
func (rd *reader) TotalRead() int64 {
	return rd.total
}

// ensureUpTo fills the internal buffer with up to n bytes (from the
// current position), stopping early on EOF. It never errors on EOF itself;
// callers that require exactly n bytes check the returned available count.
func (rd *reader) ensureUpTo(n int) (available int, eof bool, err error) {
	for rd.buffered() < n {
		if rd.start > 0 && cap(rd.buf)-rd.start < n {
			copy(rd.buf, rd.buf[rd.start:])
			rd.buf = rd.buf[:len(rd.buf)-rd.start]
			rd.start = 0
		}
		if cap(rd.buf) < rd.start+n {
			nb := make([]byte, len(rd.buf), rd.start+n)
			copy(nb, rd.buf)
			rd.buf = nb
		}

		m, rerr := rd.r.Read(rd.buf[len(rd.buf):cap(rd.buf)])
		rd.buf = rd.buf[:len(rd.buf)+m]
		if rerr != nil {
			if rerr == io.EOF {
				return rd.buffered(), true, nil
			}
			return rd.buffered(), false, rerr
		}
	}
	return rd.buffered(), false, nil
}

func (rd *reader) buffered() int {
	return len(rd.buf) - rd.start
}

func (rd *reader) view() []byte {
	return rd.buf[rd.start:]
}

// Consumed advances the read position past n already-peeked bytes.
func (rd *reader) Consumed(n int) {
	rd.start += n
	rd.total += int64(n)
}

// LookAhead ensures at least minBytes are buffered, suspending (blocking
// on the underlying reader) as needed, and returns a read-only view of
// them. It fails with KindUnexpectedEOF if fewer bytes are reachable.
func (rd *reader) LookAhead(minBytes int) ([]byte, error) {
	avail, eof, err := rd.ensureUpTo(minBytes)
	if err != nil {
		return nil, err
	}
	if avail < minBytes {
		if eof {
			return nil, newError(KindUnexpectedEOF, "need %d bytes, only %d reachable", minBytes, avail)
		}
	}
	return rd.view()[:minBytes], nil
}

// SkipDelimiter consumes exactly len(delim) bytes, failing if they don't
// equal delim.
func (rd *reader) SkipDelimiter(delim []byte) error {
	got, err := rd.LookAhead(len(delim))
	if err != nil {
		return err
	}
	if !bytes.Equal(got, delim) {
		return newError(KindUnexpectedEOF, "expected delimiter %q, got %q", delim, got)
	}
	rd.Consumed(len(delim))
	return nil
}

// ReadUntilDelimiter copies bytes from the current position into sink
// until delim is encountered, sink is full, or input ends. It returns the
// count of bytes written; 0 means delim (or EOF) is the very next thing.
// The delimiter itself is never consumed.
func (rd *reader) ReadUntilDelimiter(delim []byte, sink []byte) (int, error) {
	want := len(sink)
	if want == 0 {
		return 0, nil
	}

	produced := 0
	for produced < want {
		peekLen := want - produced + len(delim) - 1
		avail, eof, err := rd.ensureUpTo(peekLen)
		if err != nil {
			return produced, err
		}
		view := rd.view()[:avail]

		if idx := bytes.Index(view, delim); idx >= 0 {
			n := idx
			if n > want-produced {
				n = want - produced
			}
			copy(sink[produced:produced+n], view[:n])
			rd.Consumed(n)
			return produced + n, nil
		}

		if eof {
			n := len(view)
			if n > want-produced {
				n = want - produced
			}
			copy(sink[produced:produced+n], view[:n])
			rd.Consumed(n)
			return produced + n, nil
		}

		// No match found in the peeked window. Bytes before the last
		// len(delim)-1 of it can't be the start of a split match, so
		// they're safe to copy out now.
		safe := len(view) - (len(delim) - 1)
		if safe <= 0 {
			continue
		}
		n := safe
		if n > want-produced {
			n = want - produced
		}
		copy(sink[produced:produced+n], view[:n])
		rd.Consumed(n)
		produced += n
	}
	return produced, nil
}

// ReadPacket allocates and fills a buffer of exactly n bytes.
func (rd *reader) ReadPacket(n int) ([]byte, error) {
	if n == 0 {
		return []byte{}, nil
	}
	got, err := rd.LookAhead(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, got)
	rd.Consumed(n)
	return out, nil
}
