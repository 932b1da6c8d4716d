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

// Package bufpool pools the scratch buffers the scanner uses to copy part
// bodies out of the underlying reader, so a long stream of parts doesn't
// force a fresh allocation per copy loop iteration.
package bufpool

import "github.com/valyala/bytebufferpool"

var pool bytebufferpool.Pool

// Get returns a buffer from the pool. It is always empty (len 0) but may
// carry spare capacity from a previous use.
func Get() *bytebufferpool.ByteBuffer {
	return pool.Get()
}

// Put returns buf to the pool for reuse. Callers must not touch buf again
// after calling Put.
func Put(buf *bytebufferpool.ByteBuffer) {
	pool.Put(buf)
}
