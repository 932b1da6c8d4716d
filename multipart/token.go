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

const (
	tokenPrefixLen  = 4  // CRLF "--"
	maxBoundaryLen  = 70
	maxTokenLen     = tokenPrefixLen + maxBoundaryLen
)

var crlf = [2]byte{'\r', '\n'}

// Token is the boundary token: CRLF "--" boundary-value. It carries two
// views over the same backing array: Full (with the leading CRLF, used
// between parts) and First (without it, used to find the opening boundary
// at the very start of the stream, which may not be preceded by a CRLF).
type Token struct {
	buf  [maxTokenLen]byte
	n    int // total length of buf in use, including the CRLF prefix
}

// Full returns the complete token, "CRLF--value", as used between parts.
func (t *Token) Full() []byte {
	return t.buf[:t.n]
}

// First returns the token without its leading CRLF, as used to find the
// first boundary when the body may start directly with "--value".
func (t *Token) First() []byte {
	return t.buf[tokenPrefixLen-2 : t.n]
}

// Value returns just the boundary-value bytes, with no CRLF or "--".
func (t *Token) Value() []byte {
	return t.buf[tokenPrefixLen:t.n]
}

func newToken(value []byte) Token {
	var t Token
	t.buf[0], t.buf[1], t.buf[2], t.buf[3] = crlf[0], crlf[1], '-', '-'
	n := copy(t.buf[tokenPrefixLen:], value)
	t.n = tokenPrefixLen + n
	return t
}
