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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeadersAddGet(t *testing.T) {
	h := newHeaders()
	h.Add("Content-Type", "text/plain")
	h.Add("X-Trace", "a")
	h.Add("X-Trace", "b")

	assert.Equal(t, "text/plain", h.Get("content-type"))
	assert.Equal(t, "a", h.Get("X-TRACE"))
	assert.Equal(t, []string{"a", "b"}, h.Values("x-trace"))
	assert.Equal(t, 3, h.Len())
	assert.Equal(t, "", h.Get("missing"))
}

func TestHeadersRangePreservesOrder(t *testing.T) {
	h := newHeaders()
	h.Add("A", "1")
	h.Add("B", "2")

	var names []string
	h.Range(func(name, value string) { names = append(names, name) })
	assert.Equal(t, []string{"A", "B"}, names)
}

func TestHeadersMap(t *testing.T) {
	h := newHeaders()
	h.Add("A", "1")
	h.Add("A", "2")
	m := h.Map()
	assert.Equal(t, "1", m["A"])
	assert.Len(t, m, 1)
}
