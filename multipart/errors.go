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
	stderrors "errors"

	"github.com/pkg/errors"
)

// ErrorKind classifies the ways parsing can fail. Consumers should branch
// on kind, not on the error string.
type ErrorKind int

const (
	// KindUnknown is the zero value; never returned by this package.
	KindUnknown ErrorKind = iota

	// KindNotMultipart means the Content-Type is missing or isn't multipart/*.
	KindNotMultipart

	// KindMissingBoundary means no boundary= parameter was found.
	KindMissingBoundary
	// KindBoundaryNon7Bit means the boundary value held a byte > 0x7F.
	KindBoundaryNon7Bit
	// KindBoundaryTooLong means the boundary value exceeded 70 bytes.
	KindBoundaryTooLong
	// KindBoundaryEmpty means the boundary= parameter had an empty value.
	KindBoundaryEmpty

	// KindUnexpectedEOF means input ended where more bytes were required.
	KindUnexpectedEOF
	// KindMalformedHeaders means a header line violated the header grammar.
	KindMalformedHeaders
	// KindBoundaryLineTooLong means trailing junk after a boundary overran
	// the scratch buffer before a CRLF was found.
	KindBoundaryLineTooLong
	// KindLimitExceeded means a preamble, part body, or epilogue exceeded
	// its configured cap.
	KindLimitExceeded
	// KindCancelled means the consumer released a part before its headers
	// were delivered, or the stream was cancelled.
	KindCancelled
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotMultipart:
		return "NotMultipart"
	case KindMissingBoundary:
		return "MissingBoundary"
	case KindBoundaryNon7Bit:
		return "BoundaryNon7Bit"
	case KindBoundaryTooLong:
		return "BoundaryTooLong"
	case KindBoundaryEmpty:
		return "BoundaryEmpty"
	case KindUnexpectedEOF:
		return "UnexpectedEof"
	case KindMalformedHeaders:
		return "MalformedHeaders"
	case KindBoundaryLineTooLong:
		return "BoundaryLineTooLong"
	case KindLimitExceeded:
		return "LimitExceeded"
	case KindCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Error is the error type this package returns. Wrap/unwrap with the
// standard errors package; Kind() reports the taxonomy bucket.
type Error struct {
	kind ErrorKind
	msg  string
	err  error
}

func newError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{kind: kind, err: errors.Errorf(format, args...)}
}

func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return "multipart: " + e.kind.String() + ": " + e.err.Error()
}

func (e *Error) Unwrap() error {
	return e.err
}

// Kind reports which taxonomy bucket e falls in.
func (e *Error) Kind() ErrorKind {
	return e.kind
}

// IsKind reports whether err is a *Error of the given kind (following the
// Unwrap chain).
func IsKind(err error, kind ErrorKind) bool {
	var me *Error
	if !stderrors.As(err, &me) {
		return false
	}
	return me.kind == kind
}
