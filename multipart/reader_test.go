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
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowReader dribbles out bytes a handful at a time, to exercise the
// reader's handling of a delimiter split across two underlying Reads.
type slowReader struct {
	data []byte
	pos  int
	step int
}

func (s *slowReader) Read(p []byte) (int, error) {
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}
	n := s.step
	if n > len(p) {
		n = len(p)
	}
	if s.pos+n > len(s.data) {
		n = len(s.data) - s.pos
	}
	copy(p, s.data[s.pos:s.pos+n])
	s.pos += n
	return n, nil
}

func TestReadUntilDelimiterBasic(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("hello--Xworld"))
	buf := make([]byte, 32)
	n, err := rd.ReadUntilDelimiter([]byte("--X"), buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))

	require.NoError(t, rd.SkipDelimiter([]byte("--X")))

	n, err = rd.ReadUntilDelimiter([]byte("--X"), buf)
	require.NoError(t, err)
	assert.Equal(t, "world", string(buf[:n]))
}

func TestReadUntilDelimiterSplitAcrossReads(t *testing.T) {
	rd := newDelimitedReader(&slowReader{data: []byte("ab--Xcd"), step: 2})
	buf := make([]byte, 32)
	n, err := rd.ReadUntilDelimiter([]byte("--X"), buf)
	require.NoError(t, err)
	assert.Equal(t, "ab", string(buf[:n]))
}

func TestReadUntilDelimiterSinkFull(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("abcdefgh--X"))
	buf := make([]byte, 4)
	n, err := rd.ReadUntilDelimiter([]byte("--X"), buf)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "abcd", string(buf))
}

func TestReadUntilDelimiterEOFBeforeDelim(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("abc"))
	buf := make([]byte, 32)
	n, err := rd.ReadUntilDelimiter([]byte("--X"), buf)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(buf[:n]))
}

func TestSkipDelimiterMismatch(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("xyz"))
	err := rd.SkipDelimiter([]byte("abc"))
	require.Error(t, err)
}

func TestLookAheadUnexpectedEOF(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("ab"))
	_, err := rd.LookAhead(5)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnexpectedEOF))
}

func TestTotalRead(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("hello world"))
	buf := make([]byte, 32)
	_, err := rd.ReadUntilDelimiter([]byte(" world"), buf)
	require.NoError(t, err)
	assert.EqualValues(t, 5, rd.TotalRead())
	require.NoError(t, rd.SkipDelimiter([]byte(" world")))
	assert.EqualValues(t, 11, rd.TotalRead())
}

func TestReadPacket(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("0123456789"))
	got, err := rd.ReadPacket(5)
	require.NoError(t, err)
	assert.Equal(t, "01234", string(got))
	assert.EqualValues(t, 5, rd.TotalRead())
}

func TestReadPacketZero(t *testing.T) {
	rd := newDelimitedReader(strings.NewReader("abc"))
	got, err := rd.ReadPacket(0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
