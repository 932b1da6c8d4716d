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

package boundarycache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheSetGet(t *testing.T) {
	c := New[string]()

	_, ok := c.Get("multipart/form-data; boundary=abc")
	assert.False(t, ok)

	c.Set("multipart/form-data; boundary=abc", "abc")
	v, ok := c.Get("multipart/form-data; boundary=abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)
	assert.Equal(t, 1, c.Len())
}

func TestCacheDistinguishesDifferentHeaders(t *testing.T) {
	c := New[int]()
	c.Set("a", 1)
	c.Set("b", 2)

	va, _ := c.Get("a")
	vb, _ := c.Get("b")
	assert.Equal(t, 1, va)
	assert.Equal(t, 2, vb)
	assert.Equal(t, 2, c.Len())
}
